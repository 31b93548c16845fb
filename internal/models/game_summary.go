// internal/models/game_summary.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// GameSummary is written to long-term storage when a session finishes.
type GameSummary struct {
	GameID          uuid.UUID `json:"gameId"`
	SessionID       string    `json:"sessionId"`
	Name            string    `json:"name"`
	WinnerTeam      int       `json:"winnerTeam"`
	Teams           []Team    `json:"teams"`
	Rounds          int       `json:"rounds"`
	ChallengeRounds int       `json:"challengeRounds"`
	CursedRounds    int       `json:"cursedRounds"`
	CreatedAt       time.Time `json:"createdAt"`
	FinishedAt      time.Time `json:"finishedAt"`
}
