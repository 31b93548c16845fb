// internal/game/events.go
package game

// GameEventType names an outbound event.
type GameEventType string

const (
	EventGameState          GameEventType = "game_state"
	EventGameStarted        GameEventType = "game_started"
	EventRoundReady         GameEventType = "round_ready"
	EventTimerStarted       GameEventType = "timer_started"
	EventPlayerHit          GameEventType = "player_hit"
	EventTimeUp             GameEventType = "time_up"
	EventRoundConfirmed     GameEventType = "round_confirmed"
	EventGameFinished       GameEventType = "game_finished"
	EventPlayerConnected    GameEventType = "player_connected"
	EventClientDisconnected GameEventType = "client_disconnected"
	EventPlayerViewingCard  GameEventType = "player_viewing_card"
	EventSessionClosed      GameEventType = "session_closed"
	EventError              GameEventType = "error"
	EventPong               GameEventType = "pong"
)

// GameEvent is the single outbound message shape. Every event emitted by a
// session carries the full snapshot in Game; the router projects it per role
// before sending.
type GameEvent struct {
	Type      GameEventType `json:"type"`
	SessionID string        `json:"sessionId,omitempty"`
	Game      *Snapshot     `json:"game,omitempty"`
	Round     *RoundView    `json:"round,omitempty"`
	Result    *RoundResult  `json:"result,omitempty"`

	Word             string   `json:"word,omitempty"`
	IsBonus          bool     `json:"isBonus,omitempty"`
	PlayerHits       []string `json:"playerHits,omitempty"`
	Winner           *int     `json:"winner,omitempty"`
	WinnerName       string   `json:"winnerName,omitempty"`
	RemainingSeconds *int     `json:"remainingSeconds,omitempty"`
	PlayerCount      int      `json:"playerCount,omitempty"`
	Role             Role     `json:"role,omitempty"`

	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// ErrorEvent builds the error event sent back to the client whose request failed.
func ErrorEvent(err error) GameEvent {
	return GameEvent{Type: EventError, Code: ErrorCode(err), Message: err.Error()}
}

// Project returns the event as seen by a client holding role. Shared pointers
// are copied before redaction so the original stays intact for other roles.
func (ev GameEvent) Project(role Role) GameEvent {
	out := ev
	if ev.Game != nil {
		g := *ev.Game
		g.ActiveRound = g.ActiveRound.project(role)
		out.Game = &g
	}
	out.Round = ev.Round.project(role)
	return out
}
