// Package hands models the 169 canonical starting-hand classes of Texas
// Hold'em: pairs, suited and offsuit rank combinations with their combo
// counts and a fixed preflop strength ordering.
package hands

import (
	"fmt"
	rand "math/rand/v2"

	"github.com/lox/pushfold/poker"
)

// TotalCombos is the number of distinct two-card starting hands.
const TotalCombos = 1326

// NumClasses is the number of canonical hand classes.
const NumClasses = 169

// Kind distinguishes pairs from suited and offsuit non-pairs.
type Kind uint8

const (
	Pair Kind = iota
	Suited
	Offsuit
)

func (k Kind) String() string {
	switch k {
	case Pair:
		return "pair"
	case Suited:
		return "suited"
	case Offsuit:
		return "offsuit"
	default:
		return "unknown"
	}
}

// Class is a canonical starting hand such as AKs, 77 or T9o. High is never
// below Low; for pairs they are equal.
type Class struct {
	High poker.Rank
	Low  poker.Rank
	Kind Kind
}

// NewPair returns the pocket pair of rank r.
func NewPair(r poker.Rank) Class {
	return Class{High: r, Low: r, Kind: Pair}
}

// NewClass returns the class for two ranks in either order. Equal ranks
// always give a pair regardless of suited.
func NewClass(a, b poker.Rank, suited bool) Class {
	if a == b {
		return NewPair(a)
	}
	if a < b {
		a, b = b, a
	}
	k := Offsuit
	if suited {
		k = Suited
	}
	return Class{High: a, Low: b, Kind: k}
}

// ClassOf classifies two concrete hole cards.
func ClassOf(a, b poker.Card) Class {
	return NewClass(a.Rank(), b.Rank(), a.Suit() == b.Suit())
}

// Valid reports whether c is one of the 169 classes.
func (c Class) Valid() bool {
	if c.High > poker.Ace || c.Low > poker.Ace {
		return false
	}
	switch c.Kind {
	case Pair:
		return c.High == c.Low
	case Suited, Offsuit:
		return c.High > c.Low
	}
	return false
}

// ComboCount returns the number of concrete two-card hands in the class:
// 6 for pairs, 4 suited, 12 offsuit.
func (c Class) ComboCount() int {
	switch c.Kind {
	case Pair:
		return 6
	case Suited:
		return 4
	default:
		return 12
	}
}

func (c Class) String() string {
	switch c.Kind {
	case Pair:
		return string([]byte{c.High.Char(), c.Low.Char()})
	case Suited:
		return string([]byte{c.High.Char(), c.Low.Char(), 's'})
	default:
		return string([]byte{c.High.Char(), c.Low.Char(), 'o'})
	}
}

// ParseClass parses canonical notation: "77", "AKs", "T9o". The higher
// rank must come first and non-pairs must carry their s/o suffix.
func ParseClass(s string) (Class, error) {
	switch len(s) {
	case 2, 3:
	default:
		return Class{}, fmt.Errorf("invalid hand class %q", s)
	}
	hi, err := poker.ParseRank(s[0])
	if err != nil {
		return Class{}, fmt.Errorf("invalid hand class %q: %w", s, err)
	}
	lo, err := poker.ParseRank(s[1])
	if err != nil {
		return Class{}, fmt.Errorf("invalid hand class %q: %w", s, err)
	}
	if len(s) == 2 {
		if hi != lo {
			return Class{}, fmt.Errorf("invalid hand class %q: non-pair needs s or o", s)
		}
		return NewPair(hi), nil
	}
	if hi <= lo {
		return Class{}, fmt.Errorf("invalid hand class %q: higher rank must come first", s)
	}
	switch s[2] {
	case 's', 'S':
		return Class{High: hi, Low: lo, Kind: Suited}, nil
	case 'o', 'O':
		return Class{High: hi, Low: lo, Kind: Offsuit}, nil
	}
	return Class{}, fmt.Errorf("invalid hand class %q: bad suffix", s)
}

// MustParseClass is ParseClass that panics on error.
func MustParseClass(s string) Class {
	c, err := ParseClass(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Index places the class on the conventional 13x13 grid: row and column run
// from Ace to Two, pairs on the diagonal, suited above it, offsuit below.
func (c Class) Index() int {
	hi, lo := int(poker.Ace-c.High), int(poker.Ace-c.Low)
	if c.Kind == Offsuit {
		return lo*poker.NumRanks + hi
	}
	return hi*poker.NumRanks + lo
}

// FromIndex is the inverse of Index.
func FromIndex(i int) Class {
	row, col := i/poker.NumRanks, i%poker.NumRanks
	a, b := poker.Ace-poker.Rank(row), poker.Ace-poker.Rank(col)
	switch {
	case row == col:
		return NewPair(a)
	case row < col:
		return Class{High: a, Low: b, Kind: Suited}
	default:
		return Class{High: b, Low: a, Kind: Offsuit}
	}
}

// All returns every class in grid order.
func All() []Class {
	out := make([]Class, NumClasses)
	for i := range out {
		out[i] = FromIndex(i)
	}
	return out
}

// Combo is one concrete two-card hand.
type Combo [2]poker.Card

// Set returns the combo's cards as a set.
func (c Combo) Set() poker.CardSet { return poker.NewCardSet(c[0], c[1]) }

func (c Combo) String() string { return c[0].String() + c[1].String() }

// Combos expands the class into its concrete hands.
func (c Class) Combos() []Combo {
	out := make([]Combo, 0, c.ComboCount())
	switch c.Kind {
	case Pair:
		for s1 := poker.Suit(0); s1 < poker.NumSuits; s1++ {
			for s2 := s1 + 1; s2 < poker.NumSuits; s2++ {
				out = append(out, Combo{poker.NewCard(c.High, s1), poker.NewCard(c.Low, s2)})
			}
		}
	case Suited:
		for s := poker.Suit(0); s < poker.NumSuits; s++ {
			out = append(out, Combo{poker.NewCard(c.High, s), poker.NewCard(c.Low, s)})
		}
	default:
		for s1 := poker.Suit(0); s1 < poker.NumSuits; s1++ {
			for s2 := poker.Suit(0); s2 < poker.NumSuits; s2++ {
				if s1 != s2 {
					out = append(out, Combo{poker.NewCard(c.High, s1), poker.NewCard(c.Low, s2)})
				}
			}
		}
	}
	return out
}

// Deal picks one of the class's combos uniformly.
func (c Class) Deal(rng *rand.Rand) Combo {
	combos := c.Combos()
	return combos[rng.IntN(len(combos))]
}
