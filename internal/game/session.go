// internal/game/session.go
package game

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

// SessionState is the lifecycle state of a session.
type SessionState string

const (
	StateWaiting    SessionState = "waiting"
	StateInProgress SessionState = "in_progress"
	StateFinished   SessionState = "finished"
)

// Options carries the collaborators a session needs. Zero values get defaults.
type Options struct {
	Rand       *rand.Rand
	Clock      clockwork.Clock
	Logger     logrus.FieldLogger
	TimerGrace time.Duration
	Actions    ActionPublisher
	Results    ResultRecorder
}

// Session is one game: two teams racing along the track, one active round at
// a time. All exported operations lock Mu and either mutate state and emit
// events, or return an error and change nothing.
type Session struct {
	ID        string
	GameID    uuid.UUID
	Name      string
	CreatedAt time.Time
	Config    GameConfig

	Teams       [2]*models.Team
	State       SessionState
	CurrentTeam int
	RoundNumber int // number of the current (or next) round, starting at 1
	ActiveRound *Round
	LastResult  *RoundResult
	Winner      int // valid once State is StateFinished

	Mu sync.Mutex

	// BroadcastFn sends an event to every client attached to the session.
	// If nil, events are dropped.
	BroadcastFn func(ev GameEvent)

	engine       *RoundEngine
	clock        clockwork.Clock
	timer        clockwork.Timer
	grace        time.Duration
	clients      map[string]Role
	lastActivity time.Time
	actionIndex  int
	closed       bool

	logger  logrus.FieldLogger
	actions ActionPublisher
	results ResultRecorder
}

// NewSession builds a waiting session from a normalized setup.
func NewSession(id string, setup Setup, catalog *words.Catalog, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewSource(opts.Clock.Now().UnixNano()))
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}

	s := &Session{
		ID:           id,
		GameID:       uuid.New(),
		Name:         setup.Name,
		CreatedAt:    opts.Clock.Now(),
		Config:       setup.Config,
		State:        StateWaiting,
		engine:       NewRoundEngine(catalog, opts.Rand),
		clock:        opts.Clock,
		grace:        opts.TimerGrace,
		clients:      make(map[string]Role),
		lastActivity: opts.Clock.Now(),
		logger:       opts.Logger.WithField("session", id),
		actions:      opts.Actions,
		results:      opts.Results,
	}
	for i, t := range setup.Teams {
		s.Teams[i] = &models.Team{
			Name:    t.Name,
			Color:   t.Color,
			Players: append([]string(nil), t.Players...),
		}
	}
	s.logAction("game_created", map[string]interface{}{"name": s.Name, "config": s.Config})
	return s
}

// SetBroadcast installs fn as the broadcaster if none is set yet.
func (s *Session) SetBroadcast(fn func(ev GameEvent)) {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	if s.BroadcastFn == nil {
		s.BroadcastFn = fn
	}
}

// Attach registers a client and returns the events that bring it up to date:
// the game state, and the active round and running timer if any. Attaching an
// already attached client replaces its role.
func (s *Session) Attach(clientID string, role Role) []GameEvent {
	var replay []GameEvent
	if err := s.AttachWith(clientID, role, func(ev GameEvent) { replay = append(replay, ev) }, nil); err != nil {
		return nil
	}
	return replay
}

// AttachWith registers a client, hands its replay to send and then runs
// subscribe, all under the session lock. A client that joins the broadcast set
// in subscribe sees its replay before any later event, including the
// player_connected it triggers itself. A closed session refuses new clients.
func (s *Session) AttachWith(clientID string, role Role, send func(GameEvent), subscribe func()) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.closed {
		return &NotFoundError{SessionID: s.ID}
	}

	_, reconnect := s.clients[clientID]
	s.clients[clientID] = role
	s.touch()
	s.logger.Infof("%s client %s attached", role, clientID)
	s.logAction("client_attached", map[string]interface{}{"client": clientID, "role": string(role), "reconnect": reconnect})

	snap := s.snapshotLocked()
	replay := []GameEvent{{Type: EventGameState, SessionID: s.ID, Game: snap}}
	if r := s.ActiveRound; r != nil && r.Phase != PhaseConfirmed {
		replay = append(replay, GameEvent{Type: EventRoundReady, SessionID: s.ID, Game: snap, Round: snap.ActiveRound})
		if r.Phase == PhaseTimerRunning {
			left := r.RemainingSeconds(s.clock.Now())
			replay = append(replay, GameEvent{Type: EventTimerStarted, SessionID: s.ID, Game: snap, Round: snap.ActiveRound, RemainingSeconds: &left})
		}
	}
	for _, ev := range replay {
		send(ev.Project(role))
	}
	if subscribe != nil {
		subscribe()
	}

	if role == RolePlayer {
		s.fireEvent(GameEvent{Type: EventPlayerConnected, PlayerCount: s.countRole(RolePlayer)})
	}
	return nil
}

// Detach forgets a client. Unknown clients are ignored.
func (s *Session) Detach(clientID string) {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	role, ok := s.clients[clientID]
	if !ok {
		return
	}
	delete(s.clients, clientID)
	s.logger.Infof("%s client %s detached", role, clientID)
	s.logAction("client_detached", map[string]interface{}{"client": clientID, "role": string(role)})
	s.fireEvent(GameEvent{Type: EventClientDisconnected, Role: role, PlayerCount: s.countRole(RolePlayer)})
}

// StartGame moves a waiting session into play and deals round 1 to team 0.
// A player client must be attached.
func (s *Session) StartGame() error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.State != StateWaiting {
		return illegal("start_game", "game is %s", s.State)
	}
	if s.countRole(RolePlayer) == 0 {
		return illegal("start_game", "no player client is connected")
	}
	r, err := s.engine.StartRound(1, 0, s.Config)
	if err != nil {
		return err
	}

	s.State = StateInProgress
	s.RoundNumber = 1
	s.CurrentTeam = 0
	s.touch()
	s.logger.Info("game started")
	s.logAction("game_started", nil)
	s.fireEvent(GameEvent{Type: EventGameStarted})
	s.announceRound(r)
	return nil
}

// RequestRound deals a round when none is active.
func (s *Session) RequestRound() error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if s.State != StateInProgress {
		return illegal("request_round", "game is %s", s.State)
	}
	if s.ActiveRound != nil {
		return illegal("request_round", "round %d is still active", s.ActiveRound.Number)
	}
	r, err := s.engine.StartRound(s.RoundNumber, s.CurrentTeam, s.Config)
	if err != nil {
		return err
	}
	s.touch()
	s.announceRound(r)
	return nil
}

// ViewCard tells the other clients the player has opened the card.
func (s *Session) ViewCard() error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	if _, err := s.activeRound("player_view_card"); err != nil {
		return err
	}
	s.touch()
	s.fireEvent(GameEvent{Type: EventPlayerViewingCard})
	return nil
}

// StartTimer starts the active round's timer.
func (s *Session) StartTimer() error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	r, err := s.activeRound("start_timer")
	if err != nil {
		return err
	}
	if err := r.startTimer(s.clock.Now()); err != nil {
		return err
	}
	s.armTimer(r)
	s.touch()
	s.logAction("timer_started", map[string]interface{}{"round": r.Number})

	left := r.RemainingSeconds(s.clock.Now())
	snap := s.snapshotLocked()
	s.fireEvent(GameEvent{Type: EventTimerStarted, Game: snap, Round: snap.ActiveRound, RemainingSeconds: &left})
	return nil
}

// ReportHit records a guessed word during a running normal round. Repeating a
// hit is accepted and changes nothing. The client's bonus flag is informational;
// scoring reads the card.
func (s *Session) ReportHit(word string, isBonus bool) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	r, err := s.activeRound("word_hit")
	if err != nil {
		return err
	}
	w, added, err := r.reportHit(word)
	if err != nil {
		return err
	}
	if !added {
		return nil
	}
	if w.IsBonus != isBonus {
		s.logger.Debugf("client bonus flag %v for %q disagrees with card", isBonus, word)
	}
	s.touch()
	s.logAction("word_hit", map[string]interface{}{"round": r.Number, "word": word})
	s.fireEvent(GameEvent{Type: EventPlayerHit, Word: w.Text, IsBonus: w.IsBonus})
	return nil
}

// EndTimer handles the client's report that its timer ran out.
func (s *Session) EndTimer() error {
	return s.closeTimer("timer_ended", false)
}

// EndEarly stops the timer before it runs out.
func (s *Session) EndEarly() error {
	return s.closeTimer("end_round", true)
}

func (s *Session) closeTimer(op string, early bool) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	r, err := s.activeRound(op)
	if err != nil {
		return err
	}
	if err := r.endTimer(op, early); err != nil {
		return err
	}
	s.stopTimer()
	s.touch()
	s.logAction(op, map[string]interface{}{"round": r.Number, "hits": len(r.Hits)})
	s.fireTimeUp(r)
	return nil
}

// ConfirmRound scores a normal round with the board's list of guessed words.
// This list is authoritative; the live hits only inform it.
func (s *Session) ConfirmRound(confirmed []string) error {
	return s.confirm("confirm_round", Outcome{ConfirmedWords: confirmed})
}

// ResolveChallenge scores a challenge round.
func (s *Session) ResolveChallenge(completed bool) error {
	return s.confirm("challenge_result", Outcome{Completed: &completed})
}

// ResolveCursed scores a cursed round.
func (s *Session) ResolveCursed(guessed bool) error {
	return s.confirm("cursed_result", Outcome{Guessed: &guessed})
}

func (s *Session) confirm(op string, out Outcome) error {
	s.Mu.Lock()
	defer s.Mu.Unlock()

	r, err := s.activeRound(op)
	if err != nil {
		return err
	}
	res, err := s.engine.Resolve(r, out, s.Config.Scoring)
	if err != nil {
		return err
	}

	team := s.Teams[r.Team]
	pos := team.Move(res.Moves, TrackLength)
	s.LastResult = res
	s.ActiveRound = nil
	s.touch()
	s.logger.Infof("round %d confirmed: team %d moves %d to %d", r.Number, r.Team, res.Moves, pos)
	s.logAction(op, map[string]interface{}{"round": r.Number, "team": r.Team, "moves": res.Moves, "position": pos})

	if pos >= TrackLength {
		s.State = StateFinished
		s.Winner = r.Team
		s.stopTimer()
		s.fireEvent(GameEvent{Type: EventRoundConfirmed, Result: res})
		winner := r.Team
		s.logger.Infof("game finished, %s wins", team.Name)
		s.logAction("game_finished", map[string]interface{}{"winner": winner})
		s.fireEvent(GameEvent{Type: EventGameFinished, Winner: &winner, WinnerName: team.Name})
		s.recordFinished()
		return nil
	}

	team.NextPlayer()
	s.CurrentTeam = 1 - s.CurrentTeam
	s.RoundNumber++
	s.fireEvent(GameEvent{Type: EventRoundConfirmed, Result: res})

	next, err := s.engine.StartRound(s.RoundNumber, s.CurrentTeam, s.Config)
	if err != nil {
		// the confirmation stands; request_round can retry the deal
		s.logger.Warnf("could not deal round %d: %v", s.RoundNumber, err)
		return nil
	}
	s.announceRound(next)
	return nil
}

// Close stops the session timer. A closed session ignores late timer callbacks.
func (s *Session) Close() {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	s.closed = true
	s.stopTimer()
}

// LastActivity is the time of the last accepted operation or client change.
func (s *Session) LastActivity() time.Time {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.lastActivity
}

// ClientCount is the number of attached clients.
func (s *Session) ClientCount() int {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return len(s.clients)
}

// announceRound makes r the active round and broadcasts it. Caller must hold s.Mu.
func (s *Session) announceRound(r *Round) {
	r.Describer = s.Teams[r.Team].CurrentPlayer()
	s.ActiveRound = r
	s.logAction("round_ready", map[string]interface{}{"round": r.Number, "team": r.Team, "kind": string(r.Kind)})
	snap := s.snapshotLocked()
	s.fireEvent(GameEvent{Type: EventRoundReady, Game: snap, Round: snap.ActiveRound})
}

func (s *Session) fireTimeUp(r *Round) {
	snap := s.snapshotLocked()
	s.fireEvent(GameEvent{Type: EventTimeUp, Game: snap, Round: snap.ActiveRound, PlayerHits: append([]string{}, r.Hits...)})
}

// activeRound returns the round the operation applies to. Caller must hold s.Mu.
func (s *Session) activeRound(op string) (*Round, error) {
	if s.State != StateInProgress {
		return nil, illegal(op, "game is %s", s.State)
	}
	if s.ActiveRound == nil {
		return nil, illegal(op, "no active round")
	}
	return s.ActiveRound, nil
}

// fireEvent stamps ev with the session id and a fresh snapshot and broadcasts it.
// Caller must hold s.Mu.
func (s *Session) fireEvent(ev GameEvent) {
	if s.BroadcastFn == nil {
		return
	}
	ev.SessionID = s.ID
	if ev.Game == nil {
		ev.Game = s.snapshotLocked()
	}
	s.BroadcastFn(ev)
}

func (s *Session) countRole(role Role) int {
	n := 0
	for _, r := range s.clients {
		if r == role {
			n++
		}
	}
	return n
}

func (s *Session) touch() {
	s.lastActivity = s.clock.Now()
}
