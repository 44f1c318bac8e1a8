package ranges

import (
	"strings"

	"github.com/lox/pushfold/poker"
	"github.com/lox/pushfold/sdk/hands"
)

// minCollapse is the shortest contiguous run written as "HIGH-LOW".
const minCollapse = 3

// Format writes r in condensed notation: pairs, then suited hands, then
// offsuit hands, each from the highest rank down. Runs of three or more
// adjacent pairs, or adjacent kickers under one top card, collapse to a
// dashed span. Parse(Format(r)) always yields r.
func Format(r Range) string {
	var parts []string

	var pairs []hands.Class
	for rank := poker.Ace; ; rank-- {
		if c := hands.NewPair(rank); r.Contains(c) {
			pairs = append(pairs, c)
		}
		if rank == poker.Two {
			break
		}
	}
	parts = appendRuns(parts, pairs, func(c hands.Class) poker.Rank { return c.High })

	for _, kind := range []hands.Kind{hands.Suited, hands.Offsuit} {
		for hi := poker.Ace; hi > poker.Two; hi-- {
			var row []hands.Class
			for lo := hi - 1; ; lo-- {
				if c := (hands.Class{High: hi, Low: lo, Kind: kind}); r.Contains(c) {
					row = append(row, c)
				}
				if lo == poker.Two {
					break
				}
			}
			parts = appendRuns(parts, row, func(c hands.Class) poker.Rank { return c.Low })
		}
	}

	return strings.Join(parts, ",")
}

// appendRuns splits classes (ordered with key descending) into runs of
// consecutive keys and writes each run.
func appendRuns(parts []string, classes []hands.Class, key func(hands.Class) poker.Rank) []string {
	for i := 0; i < len(classes); {
		j := i + 1
		for j < len(classes) && key(classes[j-1])-key(classes[j]) == 1 {
			j++
		}
		if j-i >= minCollapse {
			parts = append(parts, classes[i].String()+"-"+classes[j-1].String())
		} else {
			for _, c := range classes[i:j] {
				parts = append(parts, c.String())
			}
		}
		i = j
	}
	return parts
}
