// internal/game/store.go
package game

import (
	"context"
	"math/rand"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 4
)

// SessionInfo is the listing form of a session.
type SessionInfo struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	State     SessionState `json:"state"`
	Clients   int          `json:"clients"`
	CreatedAt time.Time    `json:"createdAt"`
}

// SessionStore maps session codes to live sessions.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*Session

	catalog *words.Catalog
	rng     *rand.Rand
	opts    Options

	broadcast func(sessionID string, ev GameEvent)
	onRemove  func(sessionID string)
}

// NewSessionStore returns an empty store. opts are handed to every session it
// creates; opts.Rand seeds both the session codes and each session's own source.
func NewSessionStore(catalog *words.Catalog, opts Options) *SessionStore {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	return &SessionStore{
		sessions: make(map[string]*Session),
		catalog:  catalog,
		rng:      opts.Rand,
		opts:     opts,
	}
}

// Catalog returns the word catalog sessions draw from.
func (st *SessionStore) Catalog() *words.Catalog { return st.catalog }

// SetBroadcaster installs the function sessions use to reach their clients.
// Only sessions created afterwards pick it up.
func (st *SessionStore) SetBroadcaster(fn func(sessionID string, ev GameEvent)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.broadcast = fn
}

// OnRemove registers fn to run after a session is deleted or evicted.
func (st *SessionStore) OnRemove(fn func(sessionID string)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.onRemove = fn
}

// Create validates req and registers a new waiting session under a fresh code.
func (st *SessionStore) Create(req CreateRequest) (*Session, error) {
	setup, err := Normalize(req, st.catalog)
	if err != nil {
		return nil, err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	code := st.newCodeLocked()
	opts := st.opts
	opts.Rand = rand.New(rand.NewSource(st.rng.Int63()))
	s := NewSession(code, setup, st.catalog, opts)
	if fn := st.broadcast; fn != nil {
		s.BroadcastFn = func(ev GameEvent) { fn(code, ev) }
	}
	st.sessions[code] = s
	st.opts.Logger.Infof("created session %s (%s)", code, setup.Name)
	return s, nil
}

func (st *SessionStore) newCodeLocked() string {
	b := make([]byte, codeLength)
	for {
		for i := range b {
			b[i] = codeAlphabet[st.rng.Intn(len(codeAlphabet))]
		}
		if _, taken := st.sessions[string(b)]; !taken {
			return string(b)
		}
	}
}

// Get looks a session up by code, ignoring case.
func (st *SessionStore) Get(code string) (*Session, error) {
	code = NormalizeCode(code)
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[code]
	if !ok {
		return nil, &NotFoundError{SessionID: code}
	}
	return s, nil
}

// Delete closes and forgets a session.
func (st *SessionStore) Delete(code string) error {
	code = NormalizeCode(code)
	st.mu.Lock()
	s, ok := st.sessions[code]
	if ok {
		delete(st.sessions, code)
	}
	onRemove := st.onRemove
	st.mu.Unlock()

	if !ok {
		return &NotFoundError{SessionID: code}
	}
	s.Close()
	st.opts.Logger.Infof("deleted session %s", code)
	if onRemove != nil {
		onRemove(code)
	}
	return nil
}

// List returns every live session, oldest first.
func (st *SessionStore) List() []SessionInfo {
	st.mu.Lock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.Unlock()

	out := make([]SessionInfo, 0, len(sessions))
	for _, s := range sessions {
		s.Mu.Lock()
		out = append(out, SessionInfo{
			ID:        s.ID,
			Name:      s.Name,
			State:     s.State,
			Clients:   len(s.clients),
			CreatedAt: s.CreatedAt,
		})
		s.Mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Sweep evicts sessions with no activity for longer than idle and returns their codes.
func (st *SessionStore) Sweep(idle time.Duration) []string {
	now := st.opts.Clock.Now()

	st.mu.Lock()
	var stale []string
	for code, s := range st.sessions {
		if now.Sub(s.LastActivity()) > idle {
			stale = append(stale, code)
		}
	}
	st.mu.Unlock()

	sort.Strings(stale)
	var evicted []string
	for _, code := range stale {
		if err := st.Delete(code); err == nil {
			evicted = append(evicted, code)
		}
	}
	if len(evicted) > 0 {
		st.opts.Logger.Infof("evicted %d idle sessions: %s", len(evicted), strings.Join(evicted, ","))
	}
	return evicted
}

// RunSweeper calls Sweep every interval until ctx is done.
func (st *SessionStore) RunSweeper(ctx context.Context, interval, idle time.Duration) {
	ticker := st.opts.Clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			st.Sweep(idle)
		}
	}
}

// NormalizeCode canonicalizes a user-typed session code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
