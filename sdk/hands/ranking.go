package hands

import "github.com/lox/pushfold/poker"

// The push/fold advice is defined against this ordering, so it is policy
// data and must not be replaced by an equity-derived ranking: all pairs from
// AA down, then suited hands grouped by their top card with kickers falling
// (AKs..A2s, KQs..K2s, ..., 32s), then offsuit hands in the same pattern.
var strengthRanking = buildStrengthRanking()

var strengthPosition = func() map[Class]int {
	pos := make(map[Class]int, NumClasses)
	for i, c := range strengthRanking {
		pos[c] = i
	}
	return pos
}()

func buildStrengthRanking() []Class {
	out := make([]Class, 0, NumClasses)
	for r := poker.Ace; ; r-- {
		out = append(out, NewPair(r))
		if r == poker.Two {
			break
		}
	}
	for _, kind := range []Kind{Suited, Offsuit} {
		for hi := poker.Ace; hi > poker.Two; hi-- {
			for lo := hi - 1; ; lo-- {
				out = append(out, Class{High: hi, Low: lo, Kind: kind})
				if lo == poker.Two {
					break
				}
			}
		}
	}
	return out
}

// StrengthRanking returns the 169 classes strongest first. The slice is a
// copy and may be modified by the caller.
func StrengthRanking() []Class {
	out := make([]Class, len(strengthRanking))
	copy(out, strengthRanking)
	return out
}

// StrengthPosition returns the zero-based place of c in StrengthRanking, or
// -1 for an invalid class.
func StrengthPosition(c Class) int {
	if p, ok := strengthPosition[c]; ok {
		return p
	}
	return -1
}
