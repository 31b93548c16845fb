// internal/game/helpers_test.go
package game

import (
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

const testGrace = 1500 * time.Millisecond

// mockBroadcaster collects events instead of sending them over WS.
type mockBroadcaster struct {
	mu     sync.Mutex
	events []GameEvent
}

func (mb *mockBroadcaster) broadcastFn(ev GameEvent) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = append(mb.events, ev)
}

func (mb *mockBroadcaster) clear() {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	mb.events = nil
}

func (mb *mockBroadcaster) types() []GameEventType {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	out := make([]GameEventType, 0, len(mb.events))
	for _, ev := range mb.events {
		out = append(out, ev.Type)
	}
	return out
}

func (mb *mockBroadcaster) last(typ GameEventType) *GameEvent {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	for i := len(mb.events) - 1; i >= 0; i-- {
		if mb.events[i].Type == typ {
			ev := mb.events[i]
			return &ev
		}
	}
	return nil
}

func (mb *mockBroadcaster) count(typ GameEventType) int {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	n := 0
	for _, ev := range mb.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// mockHistory records published actions and finished games.
type mockHistory struct {
	mu       sync.Mutex
	actions  []models.ActionRecord
	finished []models.GameSummary
}

func (h *mockHistory) PublishAction(rec models.ActionRecord) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.actions = append(h.actions, rec)
}

func (h *mockHistory) RecordFinished(summary models.GameSummary) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = append(h.finished, summary)
}

// testCatalog has 40 general words over levels 1 and 2 and three challenges.
func testCatalog() *words.Catalog {
	var bank []models.Word
	for i := 0; i < 40; i++ {
		bank = append(bank, models.Word{Text: fmt.Sprintf("word%02d", i), Level: 1 + i%2})
	}
	return words.NewCatalog(
		map[string][]models.Word{words.DefaultThemeID: bank},
		[]string{"Sing a song", "Do a dance", "Draw a cat"},
	)
}

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

// plainRequest disables special rounds so every round is normal.
func plainRequest() CreateRequest {
	return CreateRequest{
		ChallengeFrequency: intPtr(0),
		CursedChance:       floatPtr(0),
		BonusChance:        floatPtr(0),
	}
}

type testEnv struct {
	store   *SessionStore
	clock   *clockwork.FakeClock
	mb      *mockBroadcaster
	history *mockHistory
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		clock:   clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		mb:      &mockBroadcaster{},
		history: &mockHistory{},
	}
	env.store = NewSessionStore(testCatalog(), Options{
		Rand:       rand.New(rand.NewSource(42)),
		Clock:      env.clock,
		Logger:     quietLogger(),
		TimerGrace: testGrace,
		Actions:    env.history,
		Results:    env.history,
	})
	env.store.SetBroadcaster(func(_ string, ev GameEvent) { env.mb.broadcastFn(ev) })
	return env
}

// startedSession creates a session from req, attaches a player and a board and
// starts the game.
func (env *testEnv) startedSession(t *testing.T, req CreateRequest) *Session {
	t.Helper()
	s, err := env.store.Create(req)
	require.NoError(t, err)
	s.Attach("player-1", RolePlayer)
	s.Attach("board-1", RoleBoard)
	require.NoError(t, s.StartGame())
	require.NotNil(t, s.ActiveRound)
	return s
}

// cardWords returns the first n words of the active card, yellow side first.
func cardWords(t *testing.T, s *Session, n int) []models.Word {
	t.Helper()
	s.Mu.Lock()
	defer s.Mu.Unlock()
	require.NotNil(t, s.ActiveRound)
	require.NotNil(t, s.ActiveRound.Card)
	all := s.ActiveRound.Card.Words()
	require.GreaterOrEqual(t, len(all), n)
	return all[:n]
}
