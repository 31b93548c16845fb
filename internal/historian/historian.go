// internal/historian/historian.go
//
// Package historian drains the action queue written by game sessions and
// persists it in batches. Games that stop producing actions without finishing
// are marked abandoned.
package historian

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// finishedAction marks the last action of a completed game.
const finishedAction = "game_finished"

// maxPending caps the records kept for retry while the database is failing.
const maxPending = 10000

// ActionSource yields queued action records. Pop returns nil, nil when nothing
// arrived within wait.
type ActionSource interface {
	Pop(ctx context.Context, wait time.Duration) (*models.ActionRecord, error)
}

// ActionSink stores action records.
type ActionSink interface {
	InsertActions(ctx context.Context, recs []models.ActionRecord) error
	MarkAbandoned(ctx context.Context, gameID uuid.UUID) error
}

// Config tunes batching and abandonment.
type Config struct {
	BatchSize     int
	FlushDelay    time.Duration
	Inactivity    time.Duration
	SweepInterval time.Duration
	PopWait       time.Duration
}

// Service moves records from an ActionSource to an ActionSink.
type Service struct {
	src    ActionSource
	sink   ActionSink
	cfg    Config
	clock  clockwork.Clock
	logger logrus.FieldLogger

	mu           sync.Mutex
	batch        []models.ActionRecord
	lastActivity map[uuid.UUID]time.Time
}

// NewService builds a historian. Zero config fields get the defaults.
func NewService(src ActionSource, sink ActionSink, cfg Config, clock clockwork.Clock, logger logrus.FieldLogger) *Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 20
	}
	if cfg.FlushDelay <= 0 {
		cfg.FlushDelay = 500 * time.Millisecond
	}
	if cfg.Inactivity <= 0 {
		cfg.Inactivity = 10 * time.Minute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}
	if cfg.PopWait <= 0 {
		cfg.PopWait = 3 * time.Second
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		src:          src,
		sink:         sink,
		cfg:          cfg,
		clock:        clock,
		logger:       logger,
		batch:        make([]models.ActionRecord, 0, cfg.BatchSize),
		lastActivity: make(map[uuid.UUID]time.Time),
	}
}

// Run blocks until ctx is done, then flushes what is left.
func (hs *Service) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hs.readLoop(ctx)
	}()
	go func() {
		defer wg.Done()
		hs.tickLoop(ctx)
	}()
	hs.logger.Info("historian started")
	wg.Wait()

	flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	hs.Flush(flushCtx)
	hs.logger.Info("historian stopped")
}

// Pending is the number of records waiting for the next flush.
func (hs *Service) Pending() int {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	return len(hs.batch)
}

func (hs *Service) readLoop(ctx context.Context) {
	for ctx.Err() == nil {
		rec, err := hs.src.Pop(ctx, hs.cfg.PopWait)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			hs.logger.Errorf("pop action: %v", err)
			hs.clock.Sleep(time.Second)
			continue
		}
		if rec == nil {
			continue
		}
		if hs.append(*rec) {
			hs.Flush(ctx)
		}
	}
}

// append adds rec to the batch and reports whether the batch is full.
func (hs *Service) append(rec models.ActionRecord) bool {
	hs.mu.Lock()
	defer hs.mu.Unlock()
	hs.batch = append(hs.batch, rec)
	if rec.Action == finishedAction {
		delete(hs.lastActivity, rec.GameID)
	} else {
		hs.lastActivity[rec.GameID] = hs.clock.Now()
	}
	return len(hs.batch) >= hs.cfg.BatchSize
}

func (hs *Service) tickLoop(ctx context.Context) {
	flush := hs.clock.NewTicker(hs.cfg.FlushDelay)
	defer flush.Stop()
	sweep := hs.clock.NewTicker(hs.cfg.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-flush.Chan():
			hs.Flush(ctx)
		case <-sweep.Chan():
			hs.markInactive(ctx)
		}
	}
}

// Flush writes the current batch. On failure the records are kept for the next attempt.
func (hs *Service) Flush(ctx context.Context) {
	hs.mu.Lock()
	if len(hs.batch) == 0 {
		hs.mu.Unlock()
		return
	}
	recs := hs.batch
	hs.batch = make([]models.ActionRecord, 0, hs.cfg.BatchSize)
	hs.mu.Unlock()

	if err := hs.sink.InsertActions(ctx, recs); err != nil {
		hs.logger.Errorf("flush %d actions: %v", len(recs), err)
		hs.mu.Lock()
		hs.batch = append(recs, hs.batch...)
		if over := len(hs.batch) - maxPending; over > 0 {
			hs.logger.Warnf("dropping %d oldest actions", over)
			hs.batch = hs.batch[over:]
		}
		hs.mu.Unlock()
		return
	}
	hs.logger.Debugf("flushed %d actions", len(recs))
}

// markInactive flags games idle for longer than the inactivity threshold.
func (hs *Service) markInactive(ctx context.Context) {
	now := hs.clock.Now()
	hs.mu.Lock()
	var idle []uuid.UUID
	for id, last := range hs.lastActivity {
		if now.Sub(last) > hs.cfg.Inactivity {
			idle = append(idle, id)
			delete(hs.lastActivity, id)
		}
	}
	hs.mu.Unlock()
	if len(idle) == 0 {
		return
	}

	// the games row is created by the action insert
	hs.Flush(ctx)
	for _, id := range idle {
		if err := hs.sink.MarkAbandoned(ctx, id); err != nil {
			hs.logger.Errorf("%v", err)
			continue
		}
		hs.logger.Infof("marked game %s abandoned after %s of inactivity", id, hs.cfg.Inactivity)
	}
}
