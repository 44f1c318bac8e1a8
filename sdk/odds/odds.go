// Package odds holds the pot arithmetic used alongside equity: pot odds,
// defence frequencies, stack-to-pot ratio and a chip-proportional payout
// split.
package odds

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrInvalidInput is returned for amounts outside a formula's domain.
var ErrInvalidInput = errors.New("invalid input")

// MaxOuts is the most outs a drawing hand can have with two cards to come.
const MaxOuts = 47

func finite(vals ...float64) error {
	for _, v := range vals {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite amount", ErrInvalidInput)
		}
	}
	return nil
}

// PotOdds returns the share of the final pot that a call represents, in
// percent: call / (pot + call).
func PotOdds(call, pot float64) (float64, error) {
	if err := finite(call, pot); err != nil {
		return 0, err
	}
	if call <= 0 {
		return 0, fmt.Errorf("%w: call must be > 0", ErrInvalidInput)
	}
	total := pot + call
	if total <= 0 {
		return 0, fmt.Errorf("%w: final pot must be > 0", ErrInvalidInput)
	}
	return call / total * 100, nil
}

// RequiredEquity is the break-even equity for a call, in percent. It is the
// same ratio as PotOdds.
func RequiredEquity(call, pot float64) (float64, error) {
	return PotOdds(call, pot)
}

// EquityFromOuts approximates drawing equity with the rule of 2 and 4:
// outs*4 on the flop, outs*2 on the turn, capped at 100.
func EquityFromOuts(outs int, street string) (float64, error) {
	if outs < 0 || outs > MaxOuts {
		return 0, fmt.Errorf("%w: outs must be 0-%d", ErrInvalidInput, MaxOuts)
	}
	switch strings.ToLower(strings.TrimSpace(street)) {
	case "flop":
		return math.Min(float64(outs*4), 100), nil
	case "turn":
		return math.Min(float64(outs*2), 100), nil
	}
	return 0, fmt.Errorf("%w: street must be flop or turn", ErrInvalidInput)
}

// MDF is the minimum defence frequency against a bet, in percent:
// pot / (pot + bet).
func MDF(bet, pot float64) (float64, error) {
	if err := finite(bet, pot); err != nil {
		return 0, err
	}
	if bet <= 0 || pot < 0 {
		return 0, fmt.Errorf("%w: bet must be > 0 and pot >= 0", ErrInvalidInput)
	}
	return pot / (pot + bet) * 100, nil
}

// BluffBreakEven is how often a bluff must work to break even, in percent:
// bet / (pot + bet).
func BluffBreakEven(bet, pot float64) (float64, error) {
	if err := finite(bet, pot); err != nil {
		return 0, err
	}
	if bet <= 0 || pot < 0 {
		return 0, fmt.Errorf("%w: bet must be > 0 and pot >= 0", ErrInvalidInput)
	}
	return bet / (pot + bet) * 100, nil
}

// SPR is the effective stack divided by the pot.
func SPR(stack, pot float64) (float64, error) {
	if err := finite(stack, pot); err != nil {
		return 0, err
	}
	if stack < 0 || pot <= 0 {
		return 0, fmt.Errorf("%w: stack must be >= 0 and pot > 0", ErrInvalidInput)
	}
	return stack / pot, nil
}

// BetSize returns fraction of the pot.
func BetSize(pot, fraction float64) (float64, error) {
	if err := finite(pot, fraction); err != nil {
		return 0, err
	}
	if pot <= 0 || fraction <= 0 {
		return 0, fmt.Errorf("%w: pot and fraction must be > 0", ErrInvalidInput)
	}
	return pot * fraction, nil
}

// ChipChop splits the prize pool for the top len(stacks) places in
// proportion to chip stacks. This is the linear chip-chop model, not ICM.
func ChipChop(stacks, payouts []float64) ([]float64, error) {
	if len(stacks) == 0 {
		return nil, nil
	}
	if len(payouts) < len(stacks) {
		return nil, fmt.Errorf("%w: need %d payouts, got %d", ErrInvalidInput, len(stacks), len(payouts))
	}
	if err := finite(stacks...); err != nil {
		return nil, err
	}
	if err := finite(payouts...); err != nil {
		return nil, err
	}

	var chips float64
	for _, s := range stacks {
		if s < 0 {
			return nil, fmt.Errorf("%w: negative stack", ErrInvalidInput)
		}
		chips += s
	}
	if chips <= 0 {
		return nil, fmt.Errorf("%w: total chips must be > 0", ErrInvalidInput)
	}

	var pool float64
	for _, p := range payouts[:len(stacks)] {
		pool += p
	}

	out := make([]float64, len(stacks))
	for i, s := range stacks {
		out[i] = s / chips * pool
	}
	return out, nil
}
