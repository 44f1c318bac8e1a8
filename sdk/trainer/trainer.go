// Package trainer builds push/fold quiz questions and grades answers against
// a push/fold chart.
package trainer

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/pushfold"
)

const (
	// DefaultQuestions is the length of a session.
	DefaultQuestions = 5

	minStack   = 3
	maxStack   = 14
	minPlayers = 2
	maxPlayers = 9
)

// ErrSessionOver is returned when answering past the last question.
var ErrSessionOver = errors.New("session over")

// Action is the answer to a question.
type Action int

const (
	Fold Action = iota
	Push
)

func (a Action) String() string {
	if a == Push {
		return "push"
	}
	return "fold"
}

// ParseAction accepts push/fold and their first letters.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "p", "push", "shove", "jam":
		return Push, nil
	case "f", "fold":
		return Fold, nil
	}
	return Fold, fmt.Errorf("unknown action %q", s)
}

// Scenario is one quiz question.
type Scenario struct {
	Hand        hands.Class
	Cards       hands.Combo
	Stack       float64
	Seat        pushfold.Seat
	PlayersLeft int
}

func (s Scenario) String() string {
	return fmt.Sprintf("%s (%s) %gBB %s, %d left", s.Hand, s.Cards, s.Stack, s.Seat, s.PlayersLeft)
}

// Grade is the outcome of answering a scenario.
type Grade struct {
	Scenario Scenario
	Answer   Action
	Correct  Action
	Advice   pushfold.Advice
}

// Right reports whether the answer matched the chart.
func (g Grade) Right() bool { return g.Answer == g.Correct }

// Trainer draws scenarios from rng and grades them against table.
// It is not safe for concurrent use.
type Trainer struct {
	table  *pushfold.Table
	rng    *rand.Rand
	logger *log.Logger
}

// New returns a trainer. A nil logger falls back to log.Default.
func New(table *pushfold.Table, rng *rand.Rand, logger *log.Logger) *Trainer {
	if logger == nil {
		logger = log.Default()
	}
	return &Trainer{table: table, rng: rng, logger: logger.WithPrefix("trainer")}
}

// Scenario draws a random question. Both hole ranks are drawn uniformly, so
// pairs turn up more often than their combo weight would give.
func (t *Trainer) Scenario() Scenario {
	r1 := poker.Rank(t.rng.IntN(poker.NumRanks))
	r2 := poker.Rank(t.rng.IntN(poker.NumRanks))

	var class hands.Class
	if r1 == r2 {
		class = hands.NewPair(r1)
	} else {
		class = hands.NewClass(r1, r2, t.rng.IntN(2) == 0)
	}

	seats := pushfold.Seats()
	return Scenario{
		Hand:        class,
		Cards:       class.Deal(t.rng),
		Stack:       float64(minStack + t.rng.IntN(maxStack-minStack+1)),
		Seat:        seats[t.rng.IntN(len(seats))],
		PlayersLeft: minPlayers + t.rng.IntN(maxPlayers-minPlayers+1),
	}
}

// Grade scores an answer: push is correct iff the hand is inside the
// advised push range for the spot.
func (t *Trainer) Grade(s Scenario, answer Action) (Grade, error) {
	advice, err := t.table.Advise(s.Stack, s.Seat.String(), s.PlayersLeft)
	if err != nil {
		return Grade{}, err
	}
	correct := Fold
	if advice.ShouldPush(s.Hand) {
		correct = Push
	}
	g := Grade{Scenario: s, Answer: answer, Correct: correct, Advice: advice}
	t.logger.Debug("graded", "hand", s.Hand, "stack", s.Stack, "seat", s.Seat, "answer", answer, "correct", correct)
	return g, nil
}

// Session is a fixed list of questions answered in order.
type Session struct {
	trainer   *Trainer
	scenarios []Scenario
	grades    []Grade
}

// NewSession draws n questions; n <= 0 uses DefaultQuestions.
func (t *Trainer) NewSession(n int) *Session {
	if n <= 0 {
		n = DefaultQuestions
	}
	s := &Session{trainer: t, scenarios: make([]Scenario, n)}
	for i := range s.scenarios {
		s.scenarios[i] = t.Scenario()
	}
	return s
}

// Len is the number of questions in the session.
func (s *Session) Len() int { return len(s.scenarios) }

// Index is the zero-based number of the current question.
func (s *Session) Index() int { return len(s.grades) }

// Current returns the question awaiting an answer.
func (s *Session) Current() (Scenario, bool) {
	if s.Done() {
		return Scenario{}, false
	}
	return s.scenarios[len(s.grades)], true
}

// Answer grades the current question and advances.
func (s *Session) Answer(a Action) (Grade, error) {
	cur, ok := s.Current()
	if !ok {
		return Grade{}, ErrSessionOver
	}
	g, err := s.trainer.Grade(cur, a)
	if err != nil {
		return Grade{}, err
	}
	s.grades = append(s.grades, g)
	return g, nil
}

// Done reports whether every question has been answered.
func (s *Session) Done() bool { return len(s.grades) >= len(s.scenarios) }

// Score returns right answers out of answered questions.
func (s *Session) Score() (right, answered int) {
	for _, g := range s.grades {
		if g.Right() {
			right++
		}
	}
	return right, len(s.grades)
}

// Review returns the graded answers so far.
func (s *Session) Review() []Grade {
	return append([]Grade(nil), s.grades...)
}
