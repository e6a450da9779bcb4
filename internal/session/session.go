// Package session runs short-lived turn-based games: each session
// collects one choice per participant, resolves exactly once, and
// expires on a wall-clock timeout.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Status is the lifecycle state of a session.
type Status int

const (
	StatusAwaiting Status = iota
	StatusResolved
	StatusTimedOut
)

// Session kinds, also used as the first segment of component IDs.
const (
	KindRPS  = "rps"
	KindFlip = "flip"
	KindQuiz = "quiz"
)

var (
	// ErrNotParticipant rejects a submission from a user who is not
	// part of the session.
	ErrNotParticipant = errors.New("user is not part of this session")
	// ErrAlreadySubmitted rejects a second choice from the same user.
	ErrAlreadySubmitted = errors.New("user already made a choice")
	// ErrFinished rejects submissions to a resolved or timed-out session.
	ErrFinished = errors.New("session has already finished")
)

// Choice is one option a participant may pick.
type Choice struct {
	ID    string
	Label string
}

// Prompt is what the participants are currently being asked.
type Prompt struct {
	Text    string
	Choices []Choice
}

// ScoreDelta is the quiz-score increment to persist when a session
// resolves. Nil for games that keep no score.
type ScoreDelta struct {
	UserID  string
	Correct int
	Total   int
}

// Outcome is the final result of a session.
type Outcome struct {
	Summary string
	Private bool // deliver only to the initiating participant
	Score   *ScoreDelta
}

// RoundResult is what a rule produces from one complete round of
// choices: either the next prompt or the final outcome.
type RoundResult struct {
	Ack     string // replaces the default acknowledgment when set
	Next    *Prompt
	Outcome *Outcome
}

// Rule holds the game-specific logic of a session. Rules are pure
// given their injected randomness; the engine owns all locking.
type Rule interface {
	// Opening is the prompt shown when the session starts.
	Opening() Prompt
	// Resolve consumes one complete round of choices.
	Resolve(round map[string]string) RoundResult
	// Progress describes how far the session got, for timeout reports.
	Progress() string
}

// StepResult reports the effect of a single accepted submission.
type StepResult struct {
	Ack     string   // private acknowledgment for the submitter
	Next    *Prompt  // next round, when the game continues
	Outcome *Outcome // final result, when the game is over
}

// Session is one live game between one or two participants. It is
// created by the interaction that spawned it and destroyed on
// resolution or timeout; it is never persisted.
type Session struct {
	id      string
	kind    string
	players []string
	rule    Rule
	created time.Time

	mu      sync.Mutex
	status  Status
	choices map[string]string
	timer   *time.Timer
}

// New creates a session and arms its timeout. onTimeout runs once if
// the required choices don't arrive before ttl; it receives the rule's
// progress report.
func New(kind string, players []string, rule Rule, ttl time.Duration, onTimeout func(progress string)) *Session {
	s := &Session{
		id:      uuid.NewString(),
		kind:    kind,
		players: players,
		rule:    rule,
		created: time.Now(),
		choices: make(map[string]string),
	}
	s.timer = time.AfterFunc(ttl, func() {
		s.mu.Lock()
		if s.status != StatusAwaiting {
			s.mu.Unlock()
			return
		}
		s.status = StatusTimedOut
		progress := s.rule.Progress()
		s.mu.Unlock()

		if onTimeout != nil {
			onTimeout(progress)
		}
	})
	return s
}

// ID returns the session's unique identifier.
func (s *Session) ID() string { return s.id }

// Kind returns the session's game kind.
func (s *Session) Kind() string { return s.kind }

// Status returns the session's current lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Opening returns the first prompt of the session.
func (s *Session) Opening() Prompt { return s.rule.Opening() }

// Submit records a choice for a participant. Duplicate submissions,
// submissions from outsiders and submissions after resolution or
// timeout are rejected without side effects. The round that collects
// the final required choice resolves the session under the same lock,
// so resolution runs at most once.
func (s *Session) Submit(userID, choiceID string) (StepResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusAwaiting {
		return StepResult{}, ErrFinished
	}
	if !s.isPlayer(userID) {
		return StepResult{}, ErrNotParticipant
	}
	if _, ok := s.choices[userID]; ok {
		return StepResult{}, ErrAlreadySubmitted
	}
	s.choices[userID] = choiceID

	res := StepResult{Ack: fmt.Sprintf("You chose %s.", choiceID)}
	if len(s.choices) < len(s.players) {
		return res, nil
	}

	round := s.choices
	s.choices = make(map[string]string)

	rr := s.rule.Resolve(round)
	if rr.Ack != "" {
		res.Ack = rr.Ack
	}
	if rr.Outcome != nil {
		s.status = StatusResolved
		s.timer.Stop()
		res.Outcome = rr.Outcome
	} else {
		res.Next = rr.Next
	}
	return res, nil
}

func (s *Session) isPlayer(userID string) bool {
	for _, p := range s.players {
		if p == userID {
			return true
		}
	}
	return false
}
