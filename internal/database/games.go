// internal/database/games.go
package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// GameRepository persists finished games and the action log.
type GameRepository struct {
	pool *pgxpool.Pool
}

// NewGameRepository wraps pool.
func NewGameRepository(pool *pgxpool.Pool) *GameRepository {
	return &GameRepository{pool: pool}
}

const upsertGameQ = `
	INSERT INTO games (id, session_code, name, status, start_time)
	VALUES ($1, $2, $3, 'in_progress', $4)
	ON CONFLICT (id) DO NOTHING
`

// RecordFinishedGame stores the final standings of a game in one transaction.
func (r *GameRepository) RecordFinishedGame(ctx context.Context, s models.GameSummary) error {
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, upsertGameQ, s.GameID, s.SessionID, s.Name, s.CreatedAt); err != nil {
			return err
		}
		finishQ := `
			UPDATE games
			SET status = 'completed', name = $2, winner_team = $3, rounds = $4,
			    challenge_rounds = $5, cursed_rounds = $6, end_time = $7
			WHERE id = $1
		`
		if _, err := tx.Exec(ctx, finishQ, s.GameID, s.Name, s.WinnerTeam, s.Rounds,
			s.ChallengeRounds, s.CursedRounds, s.FinishedAt); err != nil {
			return err
		}

		teamQ := `
			INSERT INTO game_teams (game_id, team_index, name, color, players, position)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (game_id, team_index)
			DO UPDATE SET name = $3, color = $4, players = $5, position = $6
		`
		for i, t := range s.Teams {
			players, err := json.Marshal(t.Players)
			if err != nil {
				return err
			}
			if _, err := tx.Exec(ctx, teamQ, s.GameID, i, t.Name, t.Color, players, t.Position); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx record finished game %s: %w", s.SessionID, err)
	}
	return nil
}

// InsertActions writes a batch of action records in one transaction. Records
// already stored are skipped, so a batch may be retried.
func (r *GameRepository) InsertActions(ctx context.Context, recs []models.ActionRecord) error {
	if len(recs) == 0 {
		return nil
	}
	err := pgx.BeginTxFunc(ctx, r.pool, pgx.TxOptions{}, func(tx pgx.Tx) error {
		for _, rec := range recs {
			started := time.UnixMilli(rec.Timestamp)
			if _, err := tx.Exec(ctx, upsertGameQ, rec.GameID, rec.SessionID, "", started); err != nil {
				return err
			}
			payload, err := json.Marshal(rec.Payload)
			if err != nil {
				return err
			}
			q := `
				INSERT INTO game_actions (game_id, action_index, action_type, action_payload, created_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (game_id, action_index) DO NOTHING
			`
			if _, err := tx.Exec(ctx, q, rec.GameID, rec.ActionIndex, rec.Action, payload, started); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("tx insert %d actions: %w", len(recs), err)
	}
	return nil
}

// MarkAbandoned flags a game that never finished.
func (r *GameRepository) MarkAbandoned(ctx context.Context, gameID uuid.UUID) error {
	q := `
		UPDATE games
		SET status = 'abandoned', end_time = NOW()
		WHERE id = $1 AND status = 'in_progress'
	`
	if _, err := r.pool.Exec(ctx, q, gameID); err != nil {
		return fmt.Errorf("mark game %s abandoned: %w", gameID, err)
	}
	return nil
}
