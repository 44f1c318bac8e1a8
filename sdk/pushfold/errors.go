package pushfold

import "errors"

var (
	// ErrInvalidInput is returned for a bad stack, seat or player count.
	ErrInvalidInput = errors.New("invalid input")
	// ErrDataUnavailable is returned when the table has no usable entry.
	ErrDataUnavailable = errors.New("push/fold data unavailable")
)
