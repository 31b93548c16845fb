// internal/handlers/router.go
package handlers

import (
	"strings"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/game"
)

// InboundMessage is every event a client may send. Only the fields of the
// given type are read.
type InboundMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Role      string `json:"role,omitempty"`

	Word           string   `json:"word,omitempty"`
	IsBonus        bool     `json:"isBonus,omitempty"`
	ConfirmedWords []string `json:"confirmedWords,omitempty"`
	Completed      *bool    `json:"completed,omitempty"`
	Guessed        *bool    `json:"guessed,omitempty"`
}

// Router binds connections to sessions, routes inbound events to session
// operations and fans session events out to attached clients.
type Router struct {
	store  *game.SessionStore
	logger logrus.FieldLogger

	mu       sync.Mutex
	clients  map[uuid.UUID]*Client
	sessions map[string]map[uuid.UUID]*Client
}

// NewRouter builds a router and installs it as the store's broadcaster.
func NewRouter(store *game.SessionStore, logger logrus.FieldLogger) *Router {
	rt := &Router{
		store:    store,
		logger:   logger,
		clients:  make(map[uuid.UUID]*Client),
		sessions: make(map[string]map[uuid.UUID]*Client),
	}
	store.SetBroadcaster(rt.Broadcast)
	store.OnRemove(rt.closeSession)
	return rt
}

// Register tracks a new, unbound connection.
func (rt *Router) Register(c *Client) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.clients[c.ID] = c
}

// Unregister forgets a connection and detaches it from its session.
func (rt *Router) Unregister(c *Client) {
	rt.mu.Lock()
	delete(rt.clients, c.ID)
	sessionID := rt.unbindLocked(c)
	rt.mu.Unlock()

	c.Close(websocket.StatusNormalClosure, "")
	if sessionID == "" {
		return
	}
	if s, err := rt.store.Get(sessionID); err == nil {
		s.Detach(c.ID.String())
	}
}

// Broadcast sends ev to every client of sessionID, projected for each client's
// role. It is called with the session lock held and never blocks. A client whose
// outbox is full is disconnected so it rejoins and gets a fresh snapshot.
func (rt *Router) Broadcast(sessionID string, ev game.GameEvent) {
	rt.mu.Lock()
	targets := make([]*Client, 0, len(rt.sessions[sessionID]))
	for _, c := range rt.sessions[sessionID] {
		targets = append(targets, c)
	}
	rt.mu.Unlock()

	for _, c := range targets {
		_, role := c.Binding()
		if c.Write(ev.Project(role)) || c.Closed() {
			continue
		}
		rt.logger.Warnf("client %s in session %s fell behind at %s, disconnecting", c.ID, sessionID, ev.Type)
		c.Close(websocket.StatusPolicyViolation, "client too slow")
	}
}

// Dispatch applies one inbound message from c. Errors are meant for c alone.
func (rt *Router) Dispatch(c *Client, msg InboundMessage) error {
	switch msg.Type {
	case "join_game":
		return rt.join(c, msg.SessionID, msg.Role)
	case "ping":
		c.Write(game.GameEvent{Type: game.EventPong})
		return nil
	}

	sessionID, _ := c.Binding()
	if sessionID == "" {
		return &game.NotFoundError{SessionID: game.NormalizeCode(msg.SessionID)}
	}
	s, err := rt.store.Get(sessionID)
	if err != nil {
		return err
	}

	switch msg.Type {
	case "start_game":
		return s.StartGame()
	case "request_round":
		return s.RequestRound()
	case "player_view_card":
		return s.ViewCard()
	case "start_timer":
		return s.StartTimer()
	case "word_hit":
		if strings.TrimSpace(msg.Word) == "" {
			return &game.ValidationError{Field: "word", Msg: "is required"}
		}
		return s.ReportHit(msg.Word, msg.IsBonus)
	case "timer_ended":
		return s.EndTimer()
	case "end_round":
		return s.EndEarly()
	case "confirm_round":
		return s.ConfirmRound(msg.ConfirmedWords)
	case "challenge_result":
		if msg.Completed == nil {
			return &game.ValidationError{Field: "completed", Msg: "is required"}
		}
		return s.ResolveChallenge(*msg.Completed)
	case "cursed_result":
		if msg.Guessed == nil {
			return &game.ValidationError{Field: "guessed", Msg: "is required"}
		}
		return s.ResolveCursed(*msg.Guessed)
	default:
		return &game.ValidationError{Field: "type", Msg: "unknown event " + msg.Type}
	}
}

// join binds c to a session under role and replays the current state to it.
// A client already bound elsewhere is detached from its old session first.
func (rt *Router) join(c *Client, code, roleName string) error {
	role, err := game.ParseRole(roleName)
	if err != nil {
		return err
	}
	s, err := rt.store.Get(code)
	if err != nil {
		return err
	}

	rt.mu.Lock()
	previous := rt.unbindLocked(c)
	rt.mu.Unlock()

	if previous != "" && previous != s.ID {
		if old, err := rt.store.Get(previous); err == nil {
			old.Detach(c.ID.String())
		}
	}

	rt.logger.WithFields(logrus.Fields{"session": s.ID, "client": c.ID, "role": role}).Info("client joined")
	// the session lock orders the replay ahead of every broadcast the client can see
	return s.AttachWith(c.ID.String(), role, func(ev game.GameEvent) { c.Write(ev) }, func() {
		rt.mu.Lock()
		defer rt.mu.Unlock()
		if rt.sessions[s.ID] == nil {
			rt.sessions[s.ID] = make(map[uuid.UUID]*Client)
		}
		rt.sessions[s.ID][c.ID] = c
		c.bind(s.ID, role)
	})
}

// unbindLocked removes c from its session's fan-out set and returns the session id.
func (rt *Router) unbindLocked(c *Client) string {
	sessionID, _ := c.Binding()
	if sessionID == "" {
		return ""
	}
	if set := rt.sessions[sessionID]; set != nil {
		delete(set, c.ID)
		if len(set) == 0 {
			delete(rt.sessions, sessionID)
		}
	}
	return sessionID
}

// closeSession tells every client of a removed session and closes their connections.
func (rt *Router) closeSession(sessionID string) {
	rt.mu.Lock()
	set := rt.sessions[sessionID]
	delete(rt.sessions, sessionID)
	rt.mu.Unlock()

	for _, c := range set {
		c.bind("", "")
		c.Write(game.GameEvent{Type: game.EventSessionClosed, SessionID: sessionID})
		c.Close(SessionClosedError, "session closed")
	}
}

// ClientCount is the number of live connections.
func (rt *Router) ClientCount() int {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	return len(rt.clients)
}
