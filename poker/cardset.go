package poker

import "math/bits"

// CardSet is a bitset of cards, one bit per Card value.
type CardSet uint64

// NewCardSet returns the set holding cards.
func NewCardSet(cards ...Card) CardSet {
	var s CardSet
	for _, c := range cards {
		s |= c.Bit()
	}
	return s
}

// Add inserts c.
func (s *CardSet) Add(c Card) { *s |= c.Bit() }

// Contains reports whether c is in the set.
func (s CardSet) Contains(c Card) bool { return s&c.Bit() != 0 }

// Count returns the number of cards in the set.
func (s CardSet) Count() int { return bits.OnesCount64(uint64(s)) }

// Overlaps reports whether the sets share a card.
func (s CardSet) Overlaps(o CardSet) bool { return s&o != 0 }

// Cards lists the set's cards in ascending value order.
func (s CardSet) Cards() []Card {
	out := make([]Card, 0, s.Count())
	for v := uint64(s); v != 0; v &= v - 1 {
		out = append(out, Card(bits.TrailingZeros64(v)))
	}
	return out
}

// Distinct reports whether cards contains no repeated card and no invalid
// card, returning the first offender otherwise.
func Distinct(cards ...Card) (Card, bool) {
	var seen CardSet
	for _, c := range cards {
		if !c.Valid() || seen.Contains(c) {
			return c, false
		}
		seen.Add(c)
	}
	return 0, true
}
