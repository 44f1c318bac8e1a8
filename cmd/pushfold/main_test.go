package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lox/pushfold/sdk/pushfold"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartPath = "../../sdk/pushfold/testdata/push_ranges.csv"

// runCLI runs the command with an isolated config, chart and database.
func runCLI(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	return runWithDB(t, filepath.Join(t.TempDir(), "ranges.db"), stdin, args...)
}

func runWithDB(t *testing.T, db, stdin string, args ...string) (string, error) {
	t.Helper()
	base := []string{
		"--no-color",
		"--config", filepath.Join(t.TempDir(), "missing.hcl"),
		"--table", chartPath,
		"--db", db,
		"--log-level", "error",
	}
	var out, errOut bytes.Buffer
	err := run(append(base, args...), strings.NewReader(stdin), &out, &errOut)
	return out.String(), err
}

// The --no-color flag sets a process-wide lipgloss profile, so these tests
// run serially.

func TestRangeCommands(t *testing.T) {
	out, err := runCLI(t, "", "range", "parse", "AK, qq+, nope", "--classes")
	require.NoError(t, err)
	assert.Contains(t, out, "AA-QQ,AKs,AKo")
	assert.Contains(t, out, "34 combos")
	assert.Contains(t, out, "AA KK QQ AKs AKo")
	assert.Contains(t, out, "Ignored: nope")

	out, err = runCLI(t, "", "range", "format", "AKs", "AQs,AJs", "77")
	require.NoError(t, err)
	assert.Contains(t, out, "77,AKs-AJs")

	_, err = runCLI(t, "", "range", "format", "AKx")
	assert.Error(t, err)

	out, err = runCLI(t, "", "range", "presets")
	require.NoError(t, err)
	assert.Contains(t, out, "Suited Connectors")
	assert.Contains(t, out, "Top 40%")
}

func TestTopCommand(t *testing.T) {
	out, err := runCLI(t, "", "top", "0.4")
	require.NoError(t, err)
	assert.Contains(t, out, "AA\n6 combos")

	out, err = runCLI(t, "", "top", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "1326 combos")
}

func TestAdviseCommand(t *testing.T) {
	out, err := runCLI(t, "", "advise", "--stack", "10", "--seat", "co", "--hand", "AA")
	require.NoError(t, err)
	assert.Contains(t, out, "Push top 23.0%")
	assert.Contains(t, out, "AA: PUSH")

	out, err = runCLI(t, "", "advise", "--stack", "10", "--seat", "UTG", "--hand", "72o")
	require.NoError(t, err)
	assert.Contains(t, out, "72o: FOLD")

	_, err = runCLI(t, "", "advise", "--stack", "10", "--seat", "MP")
	assert.ErrorIs(t, err, pushfold.ErrInvalidInput)
}

func TestEquityCommand(t *testing.T) {
	out, err := runCLI(t, "", "equity", "AsAd", "KK", "--trials", "500", "--seed", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "preflop")
	assert.Contains(t, out, "computed")
	assert.Contains(t, out, "500/500")
	assert.Contains(t, out, "seed 3")

	out, err = runCLI(t, "", "equity", "AhKh", "pairs", "-b", "Qh7h2c5d", "-i", "200", "--seed", "3", "-e", "hankin")
	require.NoError(t, err)
	assert.Contains(t, out, "flop")
	assert.Contains(t, out, "turn")
	assert.NotContains(t, out, "river")

	_, err = runCLI(t, "", "equity", "AsAd", "KK, bogus")
	assert.Error(t, err)
	_, err = runCLI(t, "", "equity", "As", "KK")
	assert.Error(t, err)
}

func TestStrengthCommand(t *testing.T) {
	out, err := runCLI(t, "", "strength", "AhKh", "QhJhTh")
	require.NoError(t, err)
	assert.Contains(t, out, "Straight Flush")

	_, err = runCLI(t, "", "strength", "AhKh", "Qh")
	assert.Error(t, err)
}

func TestOddsCommands(t *testing.T) {
	out, err := runCLI(t, "", "odds", "pot", "--call", "50", "--pot", "150")
	require.NoError(t, err)
	assert.Contains(t, out, "Pot odds: 25.00%")

	out, err = runCLI(t, "", "odds", "outs", "9", "--street", "turn")
	require.NoError(t, err)
	assert.Contains(t, out, "18.00%")

	out, err = runCLI(t, "", "odds", "mdf", "--bet", "50", "--pot", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "MDF: 66.67%")
	assert.Contains(t, out, "Bluff break-even: 33.33%")

	out, err = runCLI(t, "", "odds", "spr", "--stack", "200", "--pot", "50")
	require.NoError(t, err)
	assert.Contains(t, out, "SPR: 4.00")

	out, err = runCLI(t, "", "odds", "bet", "--pot", "90", "--fraction", "0.5")
	require.NoError(t, err)
	assert.Contains(t, out, "Bet: 45.00")

	out, err = runCLI(t, "", "odds", "chop", "--stacks", "5000,3000,2000", "--payouts", "50,30,20")
	require.NoError(t, err)
	assert.Contains(t, out, "50.00")
	assert.Contains(t, out, "20.00")

	_, err = runCLI(t, "", "odds", "chop", "--stacks", "1,2,3", "--payouts", "10")
	assert.Error(t, err)
}

func TestTrainCommand(t *testing.T) {
	out, err := runCLI(t, "p\nmaybe\nf\np\n", "train", "--questions", "3", "--seed", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "Question 1 of 3")
	assert.Contains(t, out, "Question 3 of 3")
	assert.Contains(t, out, `unknown action "maybe"`)
	assert.Contains(t, out, "/3\n")

	// Input ends early: the score covers what was answered.
	out, err = runCLI(t, "p\n", "train", "--questions", "4", "--seed", "8")
	require.NoError(t, err)
	assert.Contains(t, out, "/1\n")
}

func TestRangesCommands(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "ranges.db")
	with := func(args ...string) (string, error) {
		return runWithDB(t, db, "", args...)
	}

	out, err := with("ranges", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No saved ranges")

	out, err = with("ranges", "save", "sb", "22+, A2s+")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved sb: AA-22,A2s (82 combos)")

	_, err = with("ranges", "save", "tight", "Top 5%")
	require.NoError(t, err)

	out, err = with("ranges", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "sb")
	assert.Contains(t, out, "tight")

	out, err = with("ranges", "get", "tight")
	require.NoError(t, err)
	assert.Contains(t, out, "AA-TT,AKs,AQs,AKo")

	file := filepath.Join(dir, "sb.txt")
	_, err = with("ranges", "export", "sb", file)
	require.NoError(t, err)
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "AA-22,A2s\n", string(data))

	require.NoError(t, os.WriteFile(file, []byte("AA, KK\nAKs\n"), 0o644))
	out, err = with("ranges", "import", "premium", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported premium: AA,KK,AKs (16 combos)")

	_, err = with("ranges", "delete", "sb")
	require.NoError(t, err)
	_, err = with("ranges", "get", "sb")
	assert.Error(t, err)
}
