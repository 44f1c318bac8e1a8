package pushfold

import (
	"fmt"
	"strings"
)

// Seat is a table position as used by push/fold charts.
type Seat string

const (
	SB   Seat = "SB"
	BTN  Seat = "BTN"
	CO   Seat = "CO"
	HJ   Seat = "HJ"
	LJ   Seat = "LJ"
	UTG3 Seat = "UTG+3"
	UTG2 Seat = "UTG+2"
	UTG1 Seat = "UTG+1"
	UTG  Seat = "UTG"
)

// Seats lists every seat from the small blind outwards.
func Seats() []Seat {
	return []Seat{SB, BTN, CO, HJ, LJ, UTG3, UTG2, UTG1, UTG}
}

// ParseSeat accepts a seat name in any case. "B" and "BU" name the button.
func ParseSeat(s string) (Seat, error) {
	switch v := Seat(strings.ToUpper(strings.TrimSpace(s))); v {
	case "B", "BU":
		return BTN, nil
	case SB, BTN, CO, HJ, LJ, UTG3, UTG2, UTG1, UTG:
		return v, nil
	}
	return "", fmt.Errorf("%w: unknown seat %q", ErrInvalidInput, s)
}

func (s Seat) String() string { return string(s) }
