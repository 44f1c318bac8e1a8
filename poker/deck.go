package poker

import (
	rand "math/rand/v2"
)

// Deck holds the cards still available for dealing. Cards are drawn without
// replacement with a partial Fisher-Yates shuffle, so a deck built once can
// be reset and reused across trials without reallocating.
type Deck struct {
	cards [NumCards]Card // Fixed size array
	size  int
	next  int
	rng   *rand.Rand
}

// NewDeck creates a deck of every card not in dead.
func NewDeck(rng *rand.Rand, dead CardSet) *Deck {
	d := &Deck{rng: rng}
	for c := Card(0); c < NumCards; c++ {
		if !dead.Contains(c) {
			d.cards[d.size] = c
			d.size++
		}
	}
	return d
}

// Reset makes every card available again.
func (d *Deck) Reset() { d.next = 0 }

// DealOne draws a uniformly random remaining card. ok is false once the deck
// is exhausted.
func (d *Deck) DealOne() (card Card, ok bool) {
	if d.next >= d.size {
		return 0, false
	}
	j := d.next + d.rng.IntN(d.size-d.next)
	d.cards[d.next], d.cards[j] = d.cards[j], d.cards[d.next]
	card = d.cards[d.next]
	d.next++
	return card, true
}

// Deal appends n random cards to dst. It returns nil if fewer than n remain.
func (d *Deck) Deal(dst []Card, n int) []Card {
	if d.CardsRemaining() < n {
		return nil
	}
	for range n {
		c, _ := d.DealOne()
		dst = append(dst, c)
	}
	return dst
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return d.size - d.next
}
