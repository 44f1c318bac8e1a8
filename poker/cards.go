// Package poker provides the card primitives shared by the range, push/fold
// and equity packages: ranks, suits, cards, card sets and a dealing deck.
package poker

import (
	"fmt"
	"strings"
)

// Rank is a card rank, Two (0) through Ace (12).
type Rank uint8

const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks.
const NumRanks = 13

const rankChars = "23456789TJQKA"

// Char returns the single-character notation for the rank.
func (r Rank) Char() byte {
	if r > Ace {
		return '?'
	}
	return rankChars[r]
}

func (r Rank) String() string { return string(r.Char()) }

// ParseRank parses a rank character. Lowercase face letters are accepted.
func ParseRank(c byte) (Rank, error) {
	switch c {
	case 'a':
		c = 'A'
	case 'k':
		c = 'K'
	case 'q':
		c = 'Q'
	case 'j':
		c = 'J'
	case 't':
		c = 'T'
	}
	i := strings.IndexByte(rankChars, c)
	if i < 0 {
		return 0, fmt.Errorf("invalid rank %q", c)
	}
	return Rank(i), nil
}

// Suit is a card suit.
type Suit uint8

const (
	Clubs Suit = iota
	Diamonds
	Hearts
	Spades
)

// NumSuits is the number of distinct suits.
const NumSuits = 4

const suitChars = "cdhs"

// Char returns the lowercase suit letter.
func (s Suit) Char() byte {
	if s > Spades {
		return '?'
	}
	return suitChars[s]
}

func (s Suit) String() string { return string(s.Char()) }

// ParseSuit parses a suit letter (s, h, d, c; either case).
func ParseSuit(c byte) (Suit, error) {
	i := strings.IndexByte(suitChars, c|0x20)
	if i < 0 {
		return 0, fmt.Errorf("invalid suit %q", c)
	}
	return Suit(i), nil
}

// Card is a single playing card encoded as suit*13+rank. The zero value is
// the two of clubs; all 52 values 0..51 are valid.
type Card uint8

// NumCards is the size of a standard deck.
const NumCards = 52

// NewCard builds a card from rank and suit.
func NewCard(r Rank, s Suit) Card {
	return Card(uint8(s)*NumRanks + uint8(r))
}

// Rank returns the card's rank.
func (c Card) Rank() Rank { return Rank(uint8(c) % NumRanks) }

// Suit returns the card's suit.
func (c Card) Suit() Suit { return Suit(uint8(c) / NumRanks) }

// Valid reports whether c is one of the 52 cards.
func (c Card) Valid() bool { return c < NumCards }

// Bit returns the card's bit in a CardSet.
func (c Card) Bit() CardSet { return CardSet(1) << c }

func (c Card) String() string {
	if !c.Valid() {
		return "??"
	}
	return string([]byte{c.Rank().Char(), c.Suit().Char()})
}

// ParseCard parses two-character notation such as "As" or "Td".
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return 0, fmt.Errorf("invalid card %q: want rank and suit", s)
	}
	r, err := ParseRank(s[0])
	if err != nil {
		return 0, fmt.Errorf("invalid card %q: %w", s, err)
	}
	st, err := ParseSuit(s[1])
	if err != nil {
		return 0, fmt.Errorf("invalid card %q: %w", s, err)
	}
	return NewCard(r, st), nil
}

// ParseCards parses a run of cards such as "AsKs", "As Ks" or "As,Ks".
func ParseCards(s string) ([]Card, error) {
	s = strings.NewReplacer(" ", "", ",", "").Replace(strings.TrimSpace(s))
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("invalid card string length: %d (must be even)", len(s))
	}
	cards := make([]Card, 0, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		c, err := ParseCard(s[i : i+2])
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// MustParseCards parses cards and panics on error (for tests)
func MustParseCards(s string) []Card {
	cards, err := ParseCards(s)
	if err != nil {
		panic(fmt.Sprintf("failed to parse cards '%s': %v", s, err))
	}
	return cards
}

// FormatCards renders cards space separated.
func FormatCards(cards []Card) string {
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}
