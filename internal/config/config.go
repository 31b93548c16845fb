// internal/config/config.go
//
// Package config reads process settings from the environment. Values from a
// .env file are loaded by the binaries through godotenv/autoload.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Server holds settings for the game server binary.
type Server struct {
	Port           string
	LogLevel       logrus.Level
	WordBankDir    string
	AllowedOrigins []string

	RedisAddr   string
	RedisDB     int
	QueueName   string
	DatabaseURL string

	SessionIdleTimeout time.Duration
	SweepInterval      time.Duration
	TimerGrace         time.Duration

	MessagesPerSecond float64
	MessageBurst      int
}

// Historian holds settings for the historian worker.
type Historian struct {
	LogLevel    logrus.Level
	RedisAddr   string
	RedisDB     int
	QueueName   string
	DatabaseURL string

	BatchSize     int
	FlushDelay    time.Duration
	Inactivity    time.Duration
	SweepInterval time.Duration
}

// LoadServer reads the server settings. An empty REDIS_ADDR or DATABASE_URL
// disables that integration.
func LoadServer() Server {
	return Server{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getLevel("LOG_LEVEL", logrus.DebugLevel),
		WordBankDir:    getEnv("WORD_BANK_DIR", "data/word_banks"),
		AllowedOrigins: getList("CORS_ALLOWED_ORIGINS", []string{"*"}),

		RedisAddr:   os.Getenv("REDIS_ADDR"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", "thirtyseconds_actions"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		SessionIdleTimeout: getDuration("SESSION_IDLE_TIMEOUT", 2*time.Hour),
		SweepInterval:      getDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		TimerGrace:         getDuration("TIMER_GRACE", 1500*time.Millisecond),

		MessagesPerSecond: getEnvFloat("WS_MESSAGES_PER_SECOND", 10),
		MessageBurst:      getEnvInt("WS_BURST", 20),
	}
}

// LoadHistorian reads the historian settings.
func LoadHistorian() Historian {
	return Historian{
		LogLevel:    getLevel("LOG_LEVEL", logrus.InfoLevel),
		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:     getEnvInt("REDIS_DB", 0),
		QueueName:   getEnv("HISTORIAN_QUEUE_NAME", "thirtyseconds_actions"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		BatchSize:     getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		FlushDelay:    time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
		Inactivity:    time.Duration(getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600)) * time.Second,
		SweepInterval: time.Minute,
	}
}

// getEnv retrieves an environment variable's value or returns a default.
func getEnv(key, defVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defVal
}

// getEnvInt retrieves an integer value from an environment variable or returns a default value.
func getEnvInt(key string, defVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defVal
	}
	return i
}

func getEnvFloat(key string, defVal float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return defVal
	}
	return f
}

func getDuration(key string, defVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defVal
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return defVal
	}
	return d
}

func getLevel(key string, defVal logrus.Level) logrus.Level {
	lvl, err := logrus.ParseLevel(os.Getenv(key))
	if err != nil {
		return defVal
	}
	return lvl
}

// getList splits a comma separated value, dropping blanks.
func getList(key string, defVal []string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defVal
	}
	return out
}
