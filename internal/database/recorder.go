// internal/database/recorder.go
package database

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// ResultRecorder stores finished games in the background.
type ResultRecorder struct {
	repo    *GameRepository
	logger  logrus.FieldLogger
	timeout time.Duration
}

// NewResultRecorder returns a recorder writing through repo.
func NewResultRecorder(repo *GameRepository, logger logrus.FieldLogger) *ResultRecorder {
	return &ResultRecorder{repo: repo, logger: logger, timeout: 10 * time.Second}
}

// RecordFinished persists summary without blocking the caller. Failures are logged.
func (r *ResultRecorder) RecordFinished(summary models.GameSummary) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		if err := r.repo.RecordFinishedGame(ctx, summary); err != nil {
			r.logger.Errorf("failed to record finished game: %v", err)
			return
		}
		r.logger.Infof("recorded finished game %s (%s)", summary.SessionID, summary.GameID)
	}()
}
