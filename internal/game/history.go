// internal/game/history.go
package game

import (
	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// ActionPublisher receives every accepted session operation. Implementations
// must not block the caller.
type ActionPublisher interface {
	PublishAction(rec models.ActionRecord)
}

// ResultRecorder receives the summary of every finished game. Implementations
// must not block the caller.
type ResultRecorder interface {
	RecordFinished(summary models.GameSummary)
}

// logAction numbers the operation and hands it to the publisher. Caller must hold s.Mu.
func (s *Session) logAction(action string, payload map[string]interface{}) {
	s.actionIndex++
	if s.actions == nil {
		return
	}
	if payload == nil {
		payload = make(map[string]interface{})
	}
	s.actions.PublishAction(models.ActionRecord{
		GameID:      s.GameID,
		SessionID:   s.ID,
		ActionIndex: s.actionIndex,
		Action:      action,
		Payload:     payload,
		Timestamp:   s.clock.Now().UnixMilli(),
	})
}

// recordFinished hands the final standings to the result recorder. Caller must hold s.Mu.
func (s *Session) recordFinished() {
	if s.results == nil {
		return
	}
	summary := models.GameSummary{
		GameID:          s.GameID,
		SessionID:       s.ID,
		Name:            s.Name,
		WinnerTeam:      s.Winner,
		Rounds:          s.RoundNumber,
		ChallengeRounds: s.engine.ChallengeCount,
		CursedRounds:    s.engine.CursedCount,
		CreatedAt:       s.CreatedAt,
		FinishedAt:      s.clock.Now(),
	}
	for _, t := range s.Teams {
		team := *t
		team.Players = append([]string(nil), t.Players...)
		summary.Teams = append(summary.Teams, team)
	}
	s.results.RecordFinished(summary)
}
