package pushfold

import (
	"fmt"
	"math"

	"github.com/lox/pushfold/sdk/hands"
	"github.com/lox/pushfold/sdk/ranges"
)

// TopHands walks the strength ranking accumulating combos until at least
// pct percent of all 1326 hands is covered. The class that crosses the
// threshold is included whole. pct <= 0 gives no hands; pct >= 100 gives
// all 169.
func TopHands(pct float64) []hands.Class {
	ranking := hands.StrengthRanking()
	if pct <= 0 || math.IsNaN(pct) {
		return nil
	}
	if pct >= 100 {
		return ranking
	}
	needed := hands.TotalCombos * pct / 100
	running := 0
	for i, c := range ranking {
		if float64(running) >= needed {
			return ranking[:i]
		}
		running += c.ComboCount()
	}
	return ranking
}

// Advice is a push recommendation for one spot.
type Advice struct {
	Text         string        // e.g. "Push top 18.0%"
	Tips         string        // free-form guidance
	Percentage   float64       // chart value used
	NearestStack float64       // chart row used
	Seat         Seat          // canonical seat
	Hands        []hands.Class // strongest first
	Range        ranges.Range  // same hands as a set
}

// ShouldPush reports whether c is inside the advised range.
func (a Advice) ShouldPush(c hands.Class) bool { return a.Range.Contains(c) }

// Advise looks up the push percentage for the spot and expands it into the
// top hands of the strength ranking. Invalid stack, seat or player count
// yields ErrInvalidInput; a missing chart entry yields ErrDataUnavailable.
func (t *Table) Advise(stack float64, seat string, playersLeft int) (Advice, error) {
	if math.IsNaN(stack) || math.IsInf(stack, 0) || stack <= 0 {
		return Advice{}, fmt.Errorf("%w: stack must be positive and finite, got %g", ErrInvalidInput, stack)
	}
	s, err := ParseSeat(seat)
	if err != nil {
		return Advice{}, err
	}
	if playersLeft < 2 || playersLeft > 10 {
		return Advice{}, fmt.Errorf("%w: players left must be 2-10, got %d", ErrInvalidInput, playersLeft)
	}

	pct, nearest, err := t.Lookup(stack, s)
	if err != nil {
		return Advice{}, err
	}

	top := TopHands(pct)
	return Advice{
		Text: fmt.Sprintf("Push top %.1f%%", pct),
		Tips: fmt.Sprintf("At ~%.1fBB in %s, pushing around %.1f%% of hands is suggested. "+
			"Adjust for ICM or if players are calling more tightly/loosely.", nearest, s, pct),
		Percentage:   pct,
		NearestStack: nearest,
		Seat:         s,
		Hands:        top,
		Range:        ranges.New(top...),
	}, nil
}
