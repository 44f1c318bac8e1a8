// Package pushfold answers short-stack shove decisions from a chart of
// push percentages keyed by stack depth (big blinds) and seat.
package pushfold

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
)

const stackColumn = "Stack"

// Table maps stack depth to per-seat push percentages. It is built once by
// Load and never mutated, so a single *Table may be shared by any number of
// goroutines.
type Table struct {
	stacks []float64 // ascending
	rows   map[float64]map[Seat]float64
}

// Empty reports whether the table holds no stack rows.
func (t *Table) Empty() bool { return t == nil || len(t.stacks) == 0 }

// Stacks returns the stack depths in ascending order.
func (t *Table) Stacks() []float64 {
	if t == nil {
		return nil
	}
	return append([]float64(nil), t.stacks...)
}

// LoadFile reads a chart from a CSV file.
func LoadFile(path string, logger *log.Logger) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return &Table{}, fmt.Errorf("open push/fold table: %w", err)
	}
	defer f.Close()
	return Load(f, logger)
}

// Load reads a chart in CSV form. The header must contain a "Stack" column;
// seat columns are matched by name and "B" is read as the button. Rows with
// an unreadable or negative stack and cells with an unreadable or out of range
// percentage are skipped with a warning; of two columns naming the same
// seat the first is kept. A missing Stack header fails the
// whole load and returns an empty table.
func Load(r io.Reader, logger *log.Logger) (*Table, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix("pushfold")

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return &Table{}, fmt.Errorf("read push/fold header: %w", err)
	}

	stackIdx := -1
	seatIdx := make(map[int]Seat)
	seatCol := make(map[Seat]int)
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		if name == stackColumn {
			stackIdx = i
			continue
		}
		seat, err := ParseSeat(name)
		if err != nil {
			continue
		}
		if first, dup := seatCol[seat]; dup {
			logger.Warn("Ignoring duplicate seat column", "seat", seat, "column", i+1, "kept", first+1)
			continue
		}
		seatCol[seat] = i
		seatIdx[i] = seat
	}
	if stackIdx < 0 {
		return &Table{}, fmt.Errorf("push/fold table: missing %q column", stackColumn)
	}

	t := &Table{rows: make(map[float64]map[Seat]float64)}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			logger.Warn("Skipping unreadable row", "line", line, "error", err)
			continue
		}
		if stackIdx >= len(rec) || strings.TrimSpace(rec[stackIdx]) == "" {
			continue
		}
		stack, err := strconv.ParseFloat(strings.TrimSpace(rec[stackIdx]), 64)
		if err != nil || math.IsNaN(stack) || math.IsInf(stack, 0) || stack < 0 {
			logger.Warn("Skipping row with invalid stack", "line", line, "stack", rec[stackIdx])
			continue
		}

		row := make(map[Seat]float64, len(seatIdx))
		for i, seat := range seatIdx {
			if i >= len(rec) {
				continue
			}
			cell := strings.TrimSpace(rec[i])
			if cell == "" {
				continue
			}
			pct, err := strconv.ParseFloat(cell, 64)
			if err != nil || math.IsNaN(pct) || pct < 0 || pct > 100 {
				logger.Warn("Skipping invalid percentage", "stack", stack, "seat", seat, "value", cell)
				continue
			}
			row[seat] = pct
		}
		if _, seen := t.rows[stack]; !seen {
			t.stacks = append(t.stacks, stack)
		}
		t.rows[stack] = row
	}
	sort.Float64s(t.stacks)

	logger.Debug("Loaded push/fold table", "stacks", len(t.stacks))
	return t, nil
}

// Nearest returns the stored stack depth closest to stack. Ties go to the
// smaller depth. A NaN or infinite stack is ErrInvalidInput.
func (t *Table) Nearest(stack float64) (float64, error) {
	if math.IsNaN(stack) || math.IsInf(stack, 0) {
		return 0, fmt.Errorf("%w: stack must be finite, got %g", ErrInvalidInput, stack)
	}
	if t.Empty() {
		return 0, fmt.Errorf("%w: table is empty", ErrDataUnavailable)
	}
	best := t.stacks[0]
	for _, s := range t.stacks[1:] {
		if math.Abs(s-stack) < math.Abs(best-stack) {
			best = s
		}
	}
	return best, nil
}

// Lookup returns the push percentage for the nearest stored stack depth.
func (t *Table) Lookup(stack float64, seat Seat) (pct, nearest float64, err error) {
	nearest, err = t.Nearest(stack)
	if err != nil {
		return 0, 0, err
	}
	pct, ok := t.rows[nearest][seat]
	if !ok {
		return 0, nearest, fmt.Errorf("%w: no %s entry at %gBB", ErrDataUnavailable, seat, nearest)
	}
	return pct, nearest, nil
}
