package analytics

import "errors"

var (
	// ErrInsufficientData is returned when a snapshot carries no strikes.
	// Not retryable without a better snapshot.
	ErrInsufficientData = errors.New("insufficient option chain data")

	// ErrInvalidStrike is returned for non-positive or duplicate strike
	// values; the caller must fix the snapshot.
	ErrInvalidStrike = errors.New("invalid strike in option chain")
)
