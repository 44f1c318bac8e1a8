package evaluator

import (
	"github.com/paulhankin/poker"

	pf "github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/equity"
)

// Hankin wraps github.com/paulhankin/poker. The library scores higher hands
// higher, so scores are negated to keep lower-is-stronger.
type Hankin struct{}

var hankinDeck = func() [pf.NumCards]poker.Card {
	var d [pf.NumCards]poker.Card
	for c := pf.Card(0); c < pf.NumCards; c++ {
		d[c] = toHankin(c)
	}
	return d
}()

func toHankin(c pf.Card) poker.Card {
	var s poker.Suit
	switch c.Suit() {
	case pf.Clubs:
		s = poker.Club
	case pf.Diamonds:
		s = poker.Diamond
	case pf.Hearts:
		s = poker.Heart
	default:
		s = poker.Spade
	}
	// Library ranks run 1..13 with Ace=1.
	r := poker.Rank(int(c.Rank()) + 2)
	if c.Rank() == pf.Ace {
		r = poker.Rank(1)
	}
	card, err := poker.MakeCard(s, r)
	if err != nil {
		panic(err)
	}
	return card
}

// hankinClasses holds the weakest library score of each hand class,
// strongest class first. They are measured from reference hands so only the
// library's ordering is relied on.
var hankinClasses = func() []struct {
	min  int16
	name string
} {
	ref := []struct {
		cards string
		name  string
	}{
		{"5s4s3s2sAs", StraightFlush},
		{"2s2h2d2c3s", FourOfAKind},
		{"2s2h2d3c3s", FullHouse},
		{"7s5s4s3s2s", Flush},
		{"5s4h3d2cAs", Straight},
		{"2s2h2d4c3s", ThreeOfAKind},
		{"3s3h2d2c4s", TwoPair},
		{"2s2h5d4c3s", Pair},
	}
	out := make([]struct {
		min  int16
		name string
	}, len(ref))
	for i, r := range ref {
		var five [5]poker.Card
		for j, c := range pf.MustParseCards(r.cards) {
			five[j] = hankinDeck[c]
		}
		out[i].min = poker.Eval5(&five)
		out[i].name = r.name
	}
	return out
}()

// Evaluate implements equity.HandEvaluator.
func (Hankin) Evaluate(hole [2]pf.Card, board []pf.Card) (equity.Score, error) {
	cards, err := collect(hole, board)
	if err != nil {
		return 0, err
	}
	lib := make([]poker.Card, len(cards))
	for i, c := range cards {
		lib[i] = hankinDeck[c]
	}

	var score int16
	switch len(lib) {
	case 7:
		var a7 [7]poker.Card
		copy(a7[:], lib)
		score = poker.Eval7(&a7)
	case 5:
		var a5 [5]poker.Card
		copy(a5[:], lib)
		score = poker.Eval5(&a5)
	default:
		score = bestOfFive(lib)
	}
	return equity.Score(-int32(score)), nil
}

// bestOfFive scores six cards as the best of their five-card subsets.
func bestOfFive(cards []poker.Card) int16 {
	best := int16(-32768)
	var five [5]poker.Card
	for skip := range cards {
		k := 0
		for i, c := range cards {
			if i != skip {
				five[k] = c
				k++
			}
		}
		if s := poker.Eval5(&five); s > best {
			best = s
		}
	}
	return best
}

// RankClassName implements equity.HandEvaluator.
func (Hankin) RankClassName(s equity.Score) string {
	lib := int16(-int32(s))
	for _, c := range hankinClasses {
		if lib >= c.min {
			return c.name
		}
	}
	return HighCard
}
