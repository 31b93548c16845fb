// internal/game/round.go
package game

import (
	"errors"
	"math/rand"
	"time"

	"github.com/jason-s-yu/thirtyseconds/internal/models"
	"github.com/jason-s-yu/thirtyseconds/internal/words"
)

// RoundKind decides how a round is played and scored.
type RoundKind string

const (
	RoundNormal    RoundKind = "normal"
	RoundChallenge RoundKind = "challenge"
	RoundCursed    RoundKind = "cursed"
)

// TimerState tracks the round timer.
type TimerState string

const (
	TimerNotStarted TimerState = "not_started"
	TimerRunning    TimerState = "running"
	TimerExpired    TimerState = "expired"
	TimerStopped    TimerState = "stopped" // ended early by the player
)

// RoundPhase is the position of a round in its lifecycle. A round is created
// directly in PhaseTimerNotStarted.
type RoundPhase string

const (
	PhaseTimerNotStarted      RoundPhase = "timer_not_started"
	PhaseTimerRunning         RoundPhase = "timer_running"
	PhaseTimerExpired         RoundPhase = "timer_expired"
	PhaseAwaitingConfirmation RoundPhase = "awaiting_confirmation"
	PhaseConfirmed            RoundPhase = "confirmed"
)

// Round is one turn of one team. Exactly one of Card, ChallengeText and
// CursedWord is set, matching Kind.
type Round struct {
	Number        int
	Team          int // 0 or 1
	Describer     string
	Kind          RoundKind
	Card          *models.Card
	ChallengeText string
	CursedWord    string

	Duration   time.Duration
	Phase      RoundPhase
	TimerState TimerState
	StartedAt  time.Time
	Deadline   time.Time
	EndedEarly bool

	// Hits are the words the player reported during the timer, in order, deduplicated.
	Hits []string

	Result *RoundResult
}

// Outcome is the confirming client's verdict on a round. Only the field that
// matches the round kind is read.
type Outcome struct {
	ConfirmedWords []string
	Completed      *bool
	Guessed        *bool
}

// RoundResult is the scored outcome of a confirmed round.
type RoundResult struct {
	RoundNumber    int       `json:"roundNumber"`
	Team           int       `json:"team"`
	Kind           RoundKind `json:"kind"`
	ConfirmedWords []string  `json:"confirmedWords,omitempty"`
	Hits           int       `json:"hits"`
	BonusHits      int       `json:"bonusHits"`
	Completed      *bool     `json:"completed,omitempty"`
	Guessed        *bool     `json:"guessed,omitempty"`
	Moves          int       `json:"moves"`
}

// startTimer moves the round into the running phase.
func (r *Round) startTimer(now time.Time) error {
	if r.Phase != PhaseTimerNotStarted {
		return illegal("start_timer", "timer already started for round %d", r.Number)
	}
	r.Phase = PhaseTimerRunning
	r.TimerState = TimerRunning
	r.StartedAt = now
	r.Deadline = now.Add(r.Duration)
	return nil
}

// reportHit records word as guessed. Returns false when the word was already recorded.
func (r *Round) reportHit(word string) (models.Word, bool, error) {
	if r.Kind != RoundNormal {
		return models.Word{}, false, illegal("word_hit", "round %d is a %s round", r.Number, r.Kind)
	}
	if r.Phase != PhaseTimerRunning {
		return models.Word{}, false, illegal("word_hit", "round %d timer is not running", r.Number)
	}
	w, ok := r.Card.Find(word)
	if !ok {
		return models.Word{}, false, invalid("word", "%q is not on the current card", word)
	}
	for _, h := range r.Hits {
		if h == word {
			return w, false, nil
		}
	}
	r.Hits = append(r.Hits, word)
	return w, true, nil
}

// endTimer closes the timer and waits for confirmation. An early end goes
// straight to PhaseAwaitingConfirmation without expiring.
func (r *Round) endTimer(op string, early bool) error {
	if r.Phase != PhaseTimerRunning {
		return illegal(op, "round %d timer is not running", r.Number)
	}
	r.EndedEarly = early
	if early {
		r.TimerState = TimerStopped
		r.Phase = PhaseAwaitingConfirmation
		return nil
	}
	r.TimerState = TimerExpired
	r.Phase = PhaseTimerExpired
	// nothing else happens between expiry and confirmation
	r.Phase = PhaseAwaitingConfirmation
	return nil
}

// RemainingSeconds is the whole seconds left on a running timer.
func (r *Round) RemainingSeconds(now time.Time) int {
	switch r.TimerState {
	case TimerNotStarted:
		return int(r.Duration / time.Second)
	case TimerRunning:
		left := r.Deadline.Sub(now)
		if left <= 0 {
			return 0
		}
		return int((left + time.Second - 1) / time.Second)
	default:
		return 0
	}
}

// RoundEngine decides round kinds, deals content and scores outcomes. It keeps
// the per-session freshness pools and special-round counters. Not safe for
// concurrent use; the owning session serializes access.
type RoundEngine struct {
	deck *words.Deck
	rng  *rand.Rand

	usedWords      map[string]bool
	usedChallenges map[string]bool
	usedCursed     map[string]bool

	CursedCount    int
	ChallengeCount int
}

// NewRoundEngine builds an engine over catalog driven by rng.
func NewRoundEngine(catalog *words.Catalog, rng *rand.Rand) *RoundEngine {
	return &RoundEngine{
		deck:           words.NewDeck(catalog, rng),
		rng:            rng,
		usedWords:      make(map[string]bool),
		usedChallenges: make(map[string]bool),
		usedCursed:     make(map[string]bool),
	}
}

// NextKind picks the kind of round number n. A cursed draw happens first while
// under the cap, then the challenge cadence, otherwise normal.
func (e *RoundEngine) NextKind(n int, cfg GameConfig) RoundKind {
	if cfg.CursedChance > 0 && (cfg.MaxCursedPerGame == 0 || e.CursedCount < cfg.MaxCursedPerGame) &&
		len(e.deck.Catalog().CursedWords()) > 0 {
		if e.rng.Float64() < cfg.CursedChance {
			return RoundCursed
		}
	}
	if cfg.ChallengeFrequency > 0 && n%cfg.ChallengeFrequency == 0 &&
		(cfg.MaxChallengesPerGame == 0 || e.ChallengeCount < cfg.MaxChallengesPerGame) &&
		len(e.deck.Catalog().Challenges()) > 0 {
		return RoundChallenge
	}
	return RoundNormal
}

// StartRound builds round n for team. On error nothing changes.
func (e *RoundEngine) StartRound(n, team int, cfg GameConfig) (*Round, error) {
	r := &Round{
		Number:     n,
		Team:       team,
		Kind:       e.NextKind(n, cfg),
		Duration:   time.Duration(cfg.RoundTimeSeconds) * time.Second,
		Phase:      PhaseTimerNotStarted,
		TimerState: TimerNotStarted,
	}
	switch r.Kind {
	case RoundCursed:
		r.CursedWord = e.deck.PickCursed(e.usedCursed)
		e.CursedCount++
	case RoundChallenge:
		r.ChallengeText = e.deck.PickChallenge(e.usedChallenges)
		e.ChallengeCount++
	default:
		card, err := e.dealCard(cfg)
		if err != nil {
			return nil, err
		}
		r.Card = card
	}
	return r, nil
}

// dealCard draws a fresh card, forgetting the dealt words once the pool runs dry.
func (e *RoundEngine) dealCard(cfg GameConfig) (*models.Card, error) {
	req := words.CardRequest{
		Themes:       cfg.Themes,
		Levels:       cfg.Levels,
		WordsPerSide: cfg.WordsPerSide,
		BonusChance:  cfg.BonusChance,
		Exclude:      e.usedWords,
	}
	card, err := e.deck.Generate(req)
	if errors.Is(err, words.ErrPoolExhausted) && len(e.usedWords) > 0 {
		e.usedWords = make(map[string]bool)
		req.Exclude = e.usedWords
		card, err = e.deck.Generate(req)
	}
	if err != nil {
		return nil, err
	}
	for _, w := range card.Words() {
		e.usedWords[w.Text] = true
	}
	return card, nil
}

// Resolve scores round with outcome. The round must be awaiting confirmation
// and the outcome must match its kind. On error nothing changes.
func (e *RoundEngine) Resolve(r *Round, out Outcome, rules ScoringRules) (*RoundResult, error) {
	if r.Phase != PhaseAwaitingConfirmation {
		return nil, illegal("confirm", "round %d is not awaiting confirmation (phase %s)", r.Number, r.Phase)
	}
	res := &RoundResult{RoundNumber: r.Number, Team: r.Team, Kind: r.Kind}

	switch r.Kind {
	case RoundNormal:
		if out.Completed != nil || out.Guessed != nil {
			return nil, illegal("confirm_round", "round %d is a normal round", r.Number)
		}
		seen := make(map[string]bool)
		for _, text := range out.ConfirmedWords {
			if seen[text] {
				continue
			}
			w, ok := r.Card.Find(text)
			if !ok {
				return nil, invalid("confirmedWords", "%q is not on the round card", text)
			}
			seen[text] = true
			res.ConfirmedWords = append(res.ConfirmedWords, text)
			res.Hits++
			if w.IsBonus {
				res.BonusHits++
			}
		}
		res.Moves = (res.Hits - res.BonusHits) + rules.BonusMultiplier*res.BonusHits

	case RoundChallenge:
		if out.Completed == nil {
			return nil, illegal("challenge_result", "round %d is a %s round", r.Number, r.Kind)
		}
		res.Completed = out.Completed
		if *out.Completed {
			res.Moves = rules.ChallengeReward
		}

	case RoundCursed:
		if out.Guessed == nil {
			return nil, illegal("cursed_result", "round %d is a %s round", r.Number, r.Kind)
		}
		res.Guessed = out.Guessed
		if !*out.Guessed {
			res.Moves = -rules.CursedPenalty
		}
	}

	r.Phase = PhaseConfirmed
	r.Result = res
	return res, nil
}
