package ranges

import (
	"strings"

	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/hands"
)

// ParseStats reports how a notation string was consumed. Unrecognised
// tokens never fail a parse; callers that care can inspect Dropped.
type ParseStats struct {
	Tokens  int      // non-empty comma separated tokens
	Matched int      // tokens that contributed at least one class
	Dropped []string // tokens that were ignored, as written
}

// Parse reads comma separated range notation. Supported token forms:
//
//	AKs, T9o, 77    a single class
//	AK              both AKs and AKo
//	99-22, TT-JJ    every pair between the endpoints
//	A2s-A5s         kickers between the endpoints, same top card and kind
//	TT+             the pair and every higher pair
//	A9s+            the top card with the given kicker and every lower one
//
// Ranks are case-insensitive. Tokens matching none of these are dropped.
func Parse(text string) (Range, ParseStats) {
	var (
		r     Range
		stats ParseStats
	)
	for _, raw := range strings.Split(text, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		stats.Tokens++
		if parseToken(&r, normalize(raw)) {
			stats.Matched++
		} else {
			stats.Dropped = append(stats.Dropped, raw)
		}
	}
	return r, stats
}

// MustParse parses text and panics if any token was dropped.
func MustParse(text string) Range {
	r, stats := Parse(text)
	if len(stats.Dropped) > 0 {
		panic("ranges: unrecognised tokens " + strings.Join(stats.Dropped, ","))
	}
	return r
}

// normalize upper-cases ranks and lower-cases a trailing s/o marker.
func normalize(tok string) string {
	tok = strings.TrimSpace(tok)
	if len(tok) >= 3 {
		last := tok[len(tok)-1] | 0x20
		if last == 's' || last == 'o' {
			return strings.ToUpper(tok[:len(tok)-1]) + string(last)
		}
	}
	return strings.ToUpper(tok)
}

func parseToken(r *Range, tok string) bool {
	if c, err := hands.ParseClass(tok); err == nil {
		r.Add(c)
		return true
	}

	if len(tok) == 2 {
		hi, lo, ok := ranks(tok)
		if !ok || hi <= lo {
			return false
		}
		r.Add(hands.Class{High: hi, Low: lo, Kind: hands.Suited})
		r.Add(hands.Class{High: hi, Low: lo, Kind: hands.Offsuit})
		return true
	}

	if start, end, found := strings.Cut(tok, "-"); found {
		return parseDash(r, normalize(start), normalize(end))
	}

	if base, found := strings.CutSuffix(tok, "+"); found {
		return parsePlus(r, normalize(base))
	}

	return false
}

func parseDash(r *Range, start, end string) bool {
	if isPair(start) && isPair(end) {
		a, b := hands.MustParseClass(start).High, hands.MustParseClass(end).High
		if a > b {
			a, b = b, a
		}
		for rank := a; rank <= b; rank++ {
			r.Add(hands.NewPair(rank))
		}
		return true
	}

	s, err1 := hands.ParseClass(start)
	e, err2 := hands.ParseClass(end)
	if err1 != nil || err2 != nil || s.Kind == hands.Pair || s.Kind != e.Kind || s.High != e.High {
		return false
	}
	lo, hi := s.Low, e.Low
	if lo > hi {
		lo, hi = hi, lo
	}
	for k := lo; k <= hi; k++ {
		r.Add(hands.Class{High: s.High, Low: k, Kind: s.Kind})
	}
	return true
}

func parsePlus(r *Range, base string) bool {
	c, err := hands.ParseClass(base)
	if err != nil {
		return false
	}
	if c.Kind == hands.Pair {
		for rank := c.High; rank <= poker.Ace; rank++ {
			r.Add(hands.NewPair(rank))
		}
		return true
	}
	for k := c.Low; ; k-- {
		r.Add(hands.Class{High: c.High, Low: k, Kind: c.Kind})
		if k == poker.Two {
			break
		}
	}
	return true
}

func isPair(s string) bool {
	c, err := hands.ParseClass(s)
	return err == nil && c.Kind == hands.Pair
}

func ranks(s string) (hi, lo poker.Rank, ok bool) {
	a, err := poker.ParseRank(s[0])
	if err != nil {
		return 0, 0, false
	}
	b, err := poker.ParseRank(s[1])
	if err != nil {
		return 0, 0, false
	}
	return a, b, true
}
