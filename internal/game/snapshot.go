// internal/game/snapshot.go
package game

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
)

// Role is the kind of client attached to a session.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleBoard  Role = "board"
	RolePlayer Role = "player"
)

// ParseRole validates a role sent by a client.
func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleAdmin, RoleBoard, RolePlayer:
		return r, nil
	default:
		return "", invalid("role", "unknown role %q", s)
	}
}

// Snapshot is a point-in-time copy of a session, safe to hand to other goroutines.
type Snapshot struct {
	ID                 string         `json:"id"`
	GameID             uuid.UUID      `json:"gameId"`
	Name               string         `json:"name"`
	State              SessionState   `json:"state"`
	Teams              [2]models.Team `json:"teams"`
	CurrentTeam        int            `json:"currentTeam"`
	CurrentRoundNumber int            `json:"currentRoundNumber"`
	Config             GameConfig     `json:"config"`
	ActiveRound        *RoundView     `json:"activeRound"`
	LastResult         *RoundResult   `json:"lastResult,omitempty"`
	Winner             *int           `json:"winner"`
	TrackLength        int            `json:"trackLength"`
	CursedRounds       int            `json:"cursedRounds"`
	ChallengeRounds    int            `json:"challengeRounds"`
	Connected          map[Role]int   `json:"connected"`
	CreatedAt          time.Time      `json:"createdAt"`
}

// RoundView is the client-facing form of a Round.
type RoundView struct {
	Number           int          `json:"number"`
	Team             int          `json:"team"`
	Describer        string       `json:"describer,omitempty"`
	Kind             RoundKind    `json:"kind"`
	Card             *models.Card `json:"card,omitempty"`
	ChallengeText    string       `json:"challengeText,omitempty"`
	CursedWord       string       `json:"cursedWord,omitempty"`
	Hidden           bool         `json:"hidden,omitempty"`
	Phase            RoundPhase   `json:"phase"`
	TimerState       TimerState   `json:"timerState"`
	RemainingSeconds int          `json:"remainingSeconds"`
	EndedEarly       bool         `json:"endedEarly,omitempty"`
	Hits             []string     `json:"hits"`
	Result           *RoundResult `json:"result,omitempty"`
}

func (r *Round) view(now time.Time) *RoundView {
	if r == nil {
		return nil
	}
	v := &RoundView{
		Number:           r.Number,
		Team:             r.Team,
		Describer:        r.Describer,
		Kind:             r.Kind,
		ChallengeText:    r.ChallengeText,
		CursedWord:       r.CursedWord,
		Phase:            r.Phase,
		TimerState:       r.TimerState,
		RemainingSeconds: r.RemainingSeconds(now),
		EndedEarly:       r.EndedEarly,
		Hits:             append([]string{}, r.Hits...),
		Result:           r.Result,
	}
	if r.Card != nil {
		v.Card = &models.Card{
			Yellow: append([]models.Word(nil), r.Card.Yellow...),
			Blue:   append([]models.Word(nil), r.Card.Blue...),
		}
	}
	return v
}

// project hides round content from the board until the round is awaiting
// confirmation. Challenge text is public.
func (v *RoundView) project(role Role) *RoundView {
	if v == nil {
		return nil
	}
	if role != RoleBoard {
		return v
	}
	if v.Phase == PhaseAwaitingConfirmation || v.Phase == PhaseConfirmed {
		return v
	}
	out := *v
	out.Card = nil
	out.CursedWord = ""
	out.Hidden = v.Kind != RoundChallenge
	return &out
}

// snapshotLocked copies the session state. Caller must hold s.Mu.
func (s *Session) snapshotLocked() *Snapshot {
	snap := &Snapshot{
		ID:                 s.ID,
		GameID:             s.GameID,
		Name:               s.Name,
		State:              s.State,
		CurrentTeam:        s.CurrentTeam,
		CurrentRoundNumber: s.RoundNumber,
		Config:             s.Config,
		ActiveRound:        s.ActiveRound.view(s.clock.Now()),
		LastResult:         s.LastResult,
		TrackLength:        TrackLength,
		CursedRounds:       s.engine.CursedCount,
		ChallengeRounds:    s.engine.ChallengeCount,
		Connected:          make(map[Role]int),
		CreatedAt:          s.CreatedAt,
	}
	for i, t := range s.Teams {
		snap.Teams[i] = *t
		snap.Teams[i].Players = append([]string(nil), t.Players...)
	}
	if s.State == StateFinished {
		w := s.Winner
		snap.Winner = &w
	}
	for _, role := range s.clients {
		snap.Connected[role]++
	}
	return snap
}

// Snapshot returns the session as seen by role.
func (s *Session) Snapshot(role Role) *Snapshot {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	snap := s.snapshotLocked()
	snap.ActiveRound = snap.ActiveRound.project(role)
	return snap
}
