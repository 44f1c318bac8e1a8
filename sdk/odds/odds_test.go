package odds

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPotOdds(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		call    float64
		pot     float64
		want    float64
		wantErr bool
	}{
		{"half pot bet", 50, 150, 25, false},
		{"pot sized", 100, 200, 100.0 / 3, false},
		{"zero call", 0, 100, 0, true},
		{"negative final pot", 10, -20, 0, true},
		{"nan", math.NaN(), 10, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := PotOdds(tt.call, tt.pot)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)

			req, err := RequiredEquity(tt.call, tt.pot)
			require.NoError(t, err)
			assert.Equal(t, got, req)
		})
	}
}

func TestEquityFromOuts(t *testing.T) {
	t.Parallel()

	got, err := EquityFromOuts(9, "flop")
	require.NoError(t, err)
	assert.Equal(t, 36.0, got)

	got, err = EquityFromOuts(9, "Turn")
	require.NoError(t, err)
	assert.Equal(t, 18.0, got)

	got, err = EquityFromOuts(30, "flop")
	require.NoError(t, err)
	assert.Equal(t, 100.0, got)

	got, err = EquityFromOuts(0, "flop")
	require.NoError(t, err)
	assert.Zero(t, got)

	_, err = EquityFromOuts(48, "flop")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = EquityFromOuts(-1, "turn")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = EquityFromOuts(4, "river")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDefenceAndBluff(t *testing.T) {
	t.Parallel()

	mdf, err := MDF(50, 100)
	require.NoError(t, err)
	assert.InDelta(t, 200.0/3, mdf, 1e-9)

	be, err := BluffBreakEven(50, 100)
	require.NoError(t, err)
	assert.InDelta(t, 100.0/3, be, 1e-9)
	assert.InDelta(t, 100, mdf+be, 1e-9)

	mdf, err = MDF(10, 0)
	require.NoError(t, err)
	assert.Zero(t, mdf)

	_, err = MDF(0, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = BluffBreakEven(10, -1)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSPRAndBetSize(t *testing.T) {
	t.Parallel()

	spr, err := SPR(200, 50)
	require.NoError(t, err)
	assert.Equal(t, 4.0, spr)

	spr, err = SPR(0, 50)
	require.NoError(t, err)
	assert.Zero(t, spr)

	_, err = SPR(-1, 50)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = SPR(100, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bet, err := BetSize(90, 2.0/3)
	require.NoError(t, err)
	assert.InDelta(t, 60, bet, 1e-9)

	_, err = BetSize(90, 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestChipChop(t *testing.T) {
	t.Parallel()

	ev, err := ChipChop([]float64{5000, 3000, 2000}, []float64{50, 30, 20, 10})
	require.NoError(t, err)
	require.Len(t, ev, 3)
	assert.InDelta(t, 50, ev[0], 1e-9)
	assert.InDelta(t, 30, ev[1], 1e-9)
	assert.InDelta(t, 20, ev[2], 1e-9)

	ev, err = ChipChop(nil, []float64{1})
	require.NoError(t, err)
	assert.Empty(t, ev)

	_, err = ChipChop([]float64{1, 2, 3}, []float64{10, 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ChipChop([]float64{0, 0}, []float64{10, 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ChipChop([]float64{10, -1}, []float64{10, 5})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
