package evaluator

import (
	"github.com/chehsunliu/poker"

	pf "github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
)

// Treys wraps github.com/chehsunliu/poker, a port of the treys lookup
// evaluator. Its scores already run from 1 (royal flush) to 7462 (seven
// high), lower being stronger.
type Treys struct{}

var treysDeck = func() [pf.NumCards]poker.Card {
	var d [pf.NumCards]poker.Card
	for c := pf.Card(0); c < pf.NumCards; c++ {
		d[c] = poker.NewCard(c.String())
	}
	return d
}()

// Evaluate implements equity.HandEvaluator.
func (Treys) Evaluate(hole [2]pf.Card, board []pf.Card) (equity.Score, error) {
	cards, err := collect(hole, board)
	if err != nil {
		return 0, err
	}
	lib := make([]poker.Card, len(cards))
	for i, c := range cards {
		lib[i] = treysDeck[c]
	}
	return equity.Score(poker.Evaluate(lib)), nil
}

// RankClassName implements equity.HandEvaluator.
func (Treys) RankClassName(s equity.Score) string {
	name := poker.RankString(int32(s))
	if name == "" {
		return "Unknown"
	}
	return name
}
