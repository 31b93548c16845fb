// internal/game/rules.go
package game

import (
	"fmt"
	"strings"

	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

// TrackLength is the number of houses on the board. Reaching it wins the game.
const TrackLength = 30

// Defaults applied to absent fields of a create request.
const (
	DefaultGameName           = "30 Seconds"
	DefaultRoundTimeSeconds   = 30
	DefaultWordsPerSide       = 5
	DefaultChallengeFrequency = 3
	DefaultBonusChance        = 0.15
	DefaultCursedChance       = 0.10
	DefaultMaxCursedPerGame   = 2
	MinRoundTimeSeconds       = 5
	MaxRoundTimeSeconds       = 600
)

var (
	defaultLevels = []int{1, 2}
	defaultTeams  = [2]TeamSetup{
		{Name: "Yellow Team", Color: "#f1c40f", Players: []string{"Player 1"}},
		{Name: "Blue Team", Color: "#3498db", Players: []string{"Player 1"}},
	}
)

// ScoringRules is the movement policy applied when a round is confirmed.
// All values are magnitudes. A failed challenge and a guessed cursed word
// never move the team.
type ScoringRules struct {
	BonusMultiplier int `json:"bonusMultiplier"`
	ChallengeReward int `json:"challengeReward"`
	CursedPenalty   int `json:"cursedPenalty"`
}

// DefaultScoring returns the standard movement policy.
func DefaultScoring() ScoringRules {
	return ScoringRules{
		BonusMultiplier: 2,
		ChallengeReward: 3,
		CursedPenalty:   2,
	}
}

// GameConfig is fixed when a session is created and never changes afterwards.
type GameConfig struct {
	RoundTimeSeconds     int          `json:"roundTime"`
	WordsPerSide         int          `json:"wordsPerSide"`
	Themes               []string     `json:"themes"`
	Levels               []int        `json:"levels"`
	ChallengeFrequency   int          `json:"challengeFrequency"` // every Nth round; 0 disables
	BonusChance          float64      `json:"bonusChance"`
	CursedChance         float64      `json:"cursedChance"`
	MaxCursedPerGame     int          `json:"maxCursedPerGame"`     // 0 = unlimited
	MaxChallengesPerGame int          `json:"maxChallengesPerGame"` // 0 = unlimited
	Scoring              ScoringRules `json:"scoring"`
}

// TeamSetup names a team and its players at creation time.
type TeamSetup struct {
	Name    string   `json:"name"`
	Color   string   `json:"color"`
	Players []string `json:"players"`
}

// CreateRequest is the payload of a create-game request. Pointer fields
// distinguish "absent" from an explicit zero.
type CreateRequest struct {
	Name                 string        `json:"name"`
	Team1                TeamSetup     `json:"team1"`
	Team2                TeamSetup     `json:"team2"`
	RoundTimeSeconds     int           `json:"roundTime"`
	WordsPerSide         int           `json:"wordsPerSide"`
	Themes               []string      `json:"themes"`
	Levels               []int         `json:"levels"`
	ChallengeFrequency   *int          `json:"challengeFrequency,omitempty"`
	BonusChance          *float64      `json:"bonusChance,omitempty"`
	CursedChance         *float64      `json:"cursedChance,omitempty"`
	MaxCursedPerGame     *int          `json:"maxCursedPerGame,omitempty"`
	MaxChallengesPerGame *int          `json:"maxChallengesPerGame,omitempty"`
	Scoring              *ScoringRules `json:"scoring,omitempty"`
}

// Setup is a normalized create request.
type Setup struct {
	Name   string
	Teams  [2]TeamSetup
	Config GameConfig
}

// Normalize fills absent fields with defaults and validates the rest against
// the catalog. Absent means zero/empty; present but out-of-range values are a
// ValidationError.
func Normalize(req CreateRequest, catalog *words.Catalog) (Setup, error) {
	s := Setup{Name: strings.TrimSpace(req.Name)}
	if s.Name == "" {
		s.Name = DefaultGameName
	}

	for i, t := range [2]TeamSetup{req.Team1, req.Team2} {
		team, err := normalizeTeam(t, defaultTeams[i])
		if err != nil {
			return Setup{}, err
		}
		s.Teams[i] = team
	}

	cfg := GameConfig{
		RoundTimeSeconds:   req.RoundTimeSeconds,
		WordsPerSide:       req.WordsPerSide,
		ChallengeFrequency: DefaultChallengeFrequency,
		BonusChance:        DefaultBonusChance,
		CursedChance:       DefaultCursedChance,
		MaxCursedPerGame:   DefaultMaxCursedPerGame,
		Scoring:            DefaultScoring(),
	}

	switch {
	case cfg.RoundTimeSeconds == 0:
		cfg.RoundTimeSeconds = DefaultRoundTimeSeconds
	case cfg.RoundTimeSeconds < MinRoundTimeSeconds || cfg.RoundTimeSeconds > MaxRoundTimeSeconds:
		return Setup{}, invalid("roundTime", "must be between %d and %d seconds, got %d",
			MinRoundTimeSeconds, MaxRoundTimeSeconds, cfg.RoundTimeSeconds)
	}
	switch {
	case cfg.WordsPerSide == 0:
		cfg.WordsPerSide = DefaultWordsPerSide
	case cfg.WordsPerSide < 1:
		return Setup{}, invalid("wordsPerSide", "must be at least 1, got %d", cfg.WordsPerSide)
	}

	if req.ChallengeFrequency != nil {
		if *req.ChallengeFrequency < 0 {
			return Setup{}, invalid("challengeFrequency", "must not be negative")
		}
		cfg.ChallengeFrequency = *req.ChallengeFrequency
	}
	if req.BonusChance != nil {
		if *req.BonusChance < 0 || *req.BonusChance > 1 {
			return Setup{}, invalid("bonusChance", "must be within [0,1], got %v", *req.BonusChance)
		}
		cfg.BonusChance = *req.BonusChance
	}
	if req.CursedChance != nil {
		if *req.CursedChance < 0 || *req.CursedChance > 1 {
			return Setup{}, invalid("cursedChance", "must be within [0,1], got %v", *req.CursedChance)
		}
		cfg.CursedChance = *req.CursedChance
	}
	if req.MaxCursedPerGame != nil {
		if *req.MaxCursedPerGame < 0 {
			return Setup{}, invalid("maxCursedPerGame", "must not be negative")
		}
		cfg.MaxCursedPerGame = *req.MaxCursedPerGame
	}
	if req.MaxChallengesPerGame != nil {
		if *req.MaxChallengesPerGame < 0 {
			return Setup{}, invalid("maxChallengesPerGame", "must not be negative")
		}
		cfg.MaxChallengesPerGame = *req.MaxChallengesPerGame
	}
	if req.Scoring != nil {
		if err := req.Scoring.validate(); err != nil {
			return Setup{}, err
		}
		cfg.Scoring = *req.Scoring
	}

	themes, err := normalizeThemes(req.Themes, catalog)
	if err != nil {
		return Setup{}, err
	}
	cfg.Themes = themes

	levels, err := normalizeLevels(req.Levels, catalog)
	if err != nil {
		return Setup{}, err
	}
	cfg.Levels = levels

	if n := len(catalog.Pool(cfg.Themes, cfg.Levels, nil)); n < 2*cfg.WordsPerSide {
		return Setup{}, fmt.Errorf("%w: %d words match the chosen themes and levels, a card needs %d",
			words.ErrPoolExhausted, n, 2*cfg.WordsPerSide)
	}

	s.Config = cfg
	return s, nil
}

func (r ScoringRules) validate() error {
	if r.BonusMultiplier < 1 {
		return invalid("scoring.bonusMultiplier", "must be at least 1")
	}
	if r.ChallengeReward < 0 || r.CursedPenalty < 0 {
		return invalid("scoring", "challengeReward and cursedPenalty are magnitudes and must not be negative")
	}
	return nil
}

func normalizeTeam(t, def TeamSetup) (TeamSetup, error) {
	out := TeamSetup{Name: strings.TrimSpace(t.Name), Color: strings.TrimSpace(t.Color)}
	if out.Name == "" {
		out.Name = def.Name
	}
	if out.Color == "" {
		out.Color = def.Color
	}
	for _, p := range t.Players {
		if p = strings.TrimSpace(p); p != "" {
			out.Players = append(out.Players, p)
		}
	}
	if len(out.Players) == 0 {
		out.Players = append([]string(nil), def.Players...)
	}
	return out, nil
}

func normalizeThemes(in []string, catalog *words.Catalog) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, id := range in {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		if !catalog.HasTheme(id) {
			return nil, invalid("themes", "unknown theme %q", id)
		}
		seen[id] = true
		out = append(out, id)
	}
	if len(out) == 0 {
		out = []string{catalog.DefaultTheme()}
	}
	return out, nil
}

func normalizeLevels(in []int, catalog *words.Catalog) ([]int, error) {
	seen := make(map[int]bool)
	var out []int
	for _, l := range in {
		if seen[l] {
			continue
		}
		if !catalog.HasLevel(l) {
			return nil, invalid("levels", "unknown level %d", l)
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		out = append([]int(nil), defaultLevels...)
	}
	return out, nil
}
