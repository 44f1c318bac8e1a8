// Package evaluator adapts third-party 5-7 card hand evaluators to the
// equity.HandEvaluator contract: lower scores are stronger, malformed hands
// are errors, and every score maps to a hand class name.
package evaluator

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
)

// ErrInvalidHand is returned for a board of the wrong size or repeated cards.
var ErrInvalidHand = errors.New("invalid hand")

// Hand class names shared by every adapter, strongest first.
const (
	StraightFlush = "Straight Flush"
	FourOfAKind   = "Four of a Kind"
	FullHouse     = "Full House"
	Flush         = "Flush"
	Straight      = "Straight"
	ThreeOfAKind  = "Three of a Kind"
	TwoPair       = "Two Pair"
	Pair          = "Pair"
	HighCard      = "High Card"
)

// Default is the evaluator used when none is configured.
const Default = "treys"

var registry = map[string]func() equity.HandEvaluator{
	"treys":  func() equity.HandEvaluator { return Treys{} },
	"hankin": func() equity.HandEvaluator { return Hankin{} },
}

// New returns the evaluator registered under name; "" selects Default.
func New(name string) (equity.HandEvaluator, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = Default
	}
	mk, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown evaluator %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return mk(), nil
}

// Names lists the registered evaluators.
func Names() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// collect validates and joins hole and board cards.
func collect(hole [2]poker.Card, board []poker.Card) ([]poker.Card, error) {
	if len(board) < 3 || len(board) > 5 {
		return nil, fmt.Errorf("%w: board must have 3-5 cards, got %d", ErrInvalidHand, len(board))
	}
	cards := make([]poker.Card, 0, 2+len(board))
	cards = append(cards, hole[0], hole[1])
	cards = append(cards, board...)
	if c, ok := poker.Distinct(cards...); !ok {
		return nil, fmt.Errorf("%w: duplicate or invalid card %s", ErrInvalidHand, c)
	}
	return cards, nil
}
