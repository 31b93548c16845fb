// internal/database/postgres.go
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Schema creates the tables used for finished games and the action log.
const Schema = `
CREATE TABLE IF NOT EXISTS games (
	id               UUID PRIMARY KEY,
	session_code     TEXT NOT NULL,
	name             TEXT NOT NULL DEFAULT '',
	status           TEXT NOT NULL DEFAULT 'in_progress',
	winner_team      INT,
	rounds           INT NOT NULL DEFAULT 0,
	challenge_rounds INT NOT NULL DEFAULT 0,
	cursed_rounds    INT NOT NULL DEFAULT 0,
	start_time       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	end_time         TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS game_teams (
	game_id    UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	team_index INT NOT NULL,
	name       TEXT NOT NULL,
	color      TEXT NOT NULL DEFAULT '',
	players    JSONB NOT NULL DEFAULT '[]',
	position   INT NOT NULL DEFAULT 0,
	PRIMARY KEY (game_id, team_index)
);

CREATE TABLE IF NOT EXISTS game_actions (
	game_id        UUID NOT NULL REFERENCES games(id) ON DELETE CASCADE,
	action_index   INT NOT NULL,
	action_type    TEXT NOT NULL,
	action_payload JSONB NOT NULL DEFAULT '{}',
	created_at     TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (game_id, action_index)
);
`

// Connect opens a pgx pool on url and pings it.
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("unable to parse pgx config: %w", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create pgx pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("db ping error: %w", err)
	}
	return pool, nil
}

// EnsureSchema applies Schema. Every statement is idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
