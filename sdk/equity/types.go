package equity

import (
	"errors"
	"fmt"
	"math"

	"github.com/lox/pushfold/poker"
)

// ErrInvalidInput is returned for malformed requests: a bad hero hand,
// duplicate cards, an oversized board, an empty villain range or a
// non-positive trial budget.
var ErrInvalidInput = errors.New("invalid equity request")

// Score is a hand strength where lower is stronger.
type Score int32

// HandEvaluator scores a two-card hand together with three to five board
// cards. It must fail on malformed input rather than return a score.
type HandEvaluator interface {
	Evaluate(hole [2]poker.Card, board []poker.Card) (Score, error)
	RankClassName(Score) string
}

// Street is a betting round with a known board prefix.
type Street int

const (
	Preflop Street = iota
	Flop
	Turn
	River
)

// NumStreets is the number of streets reported per computation.
const NumStreets = 4

// Streets lists every street in order.
func Streets() []Street { return []Street{Preflop, Flop, Turn, River} }

// BoardLen is the number of board cards known on the street.
func (s Street) BoardLen() int {
	switch s {
	case Flop:
		return 3
	case Turn:
		return 4
	case River:
		return 5
	default:
		return 0
	}
}

func (s Street) String() string {
	switch s {
	case Preflop:
		return "preflop"
	case Flop:
		return "flop"
	case Turn:
		return "turn"
	case River:
		return "river"
	default:
		return "unknown"
	}
}

func (s Street) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Street) UnmarshalText(text []byte) error {
	for _, st := range Streets() {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown street %q", text)
}

// Status says what a street result holds.
type Status int

const (
	// NotApplicable marks a street beyond the supplied board.
	NotApplicable Status = iota
	// Computed means Equity is a simulation estimate.
	Computed
	// NoEquity means every villain combo collided with known cards; the
	// street is reported as 0% rather than left out.
	NoEquity
	// Absent means no trial completed, because the attempt cap was hit or
	// the run was stopped before the street finished any trial.
	Absent
)

func (s Status) String() string {
	switch s {
	case Computed:
		return "computed"
	case NoEquity:
		return "no-equity"
	case Absent:
		return "absent"
	default:
		return "n/a"
	}
}

func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *Status) UnmarshalText(text []byte) error {
	for _, st := range []Status{NotApplicable, Computed, NoEquity, Absent} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown status %q", text)
}

// StreetResult is the outcome for one street.
type StreetResult struct {
	Street   Street  `json:"street"`
	Status   Status  `json:"status"`
	Equity   float64 `json:"equity"` // percent, 0..100
	Wins     int     `json:"wins"`
	Ties     int     `json:"ties"`
	Losses   int     `json:"losses"`
	Target   int     `json:"target"`
	Achieved int     `json:"achieved"`
	Combos   int     `json:"combos"` // villain combos left after card removal
}

// HasEquity reports whether the street carries an equity figure, either an
// estimate or the 0% no-equity outcome.
func (r StreetResult) HasEquity() bool {
	return r.Status == Computed || r.Status == NoEquity
}

// ConfidenceInterval returns the 95% interval for Equity in percent.
func (r StreetResult) ConfidenceInterval() (lower, upper float64) {
	if r.Status != Computed || r.Achieved == 0 {
		return r.Equity, r.Equity
	}
	p := r.Equity / 100
	n := float64(r.Achieved)

	// Standard error for binomial proportion
	se := math.Sqrt((p * (1.0 - p)) / n)
	margin := 1.96 * se

	lower = math.Max(0.0, p-margin) * 100
	upper = math.Min(1.0, p+margin) * 100
	return lower, upper
}

func (r *StreetResult) finish() {
	if r.Achieved == 0 {
		r.Status = Absent
		return
	}
	r.Status = Computed
	r.Equity = (float64(r.Wins) + float64(r.Ties)/2) / float64(r.Achieved) * 100
}

// Result holds every street for one request.
type Result struct {
	Streets  [NumStreets]StreetResult `json:"streets"`
	Seed     int64                    `json:"seed"`
	TimedOut bool                     `json:"timed_out"`
}

// Street returns the result for s.
func (r Result) Street(s Street) StreetResult { return r.Streets[s] }
