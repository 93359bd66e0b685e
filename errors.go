package steg

import (
	"errors"
	"fmt"
)

// Errors returned by the engine. Callers check them with errors.Is; most are
// wrapped with detail about the failing value.
var (
	// ErrInsufficientCapacity is returned when the cover cannot hold the header
	// plus payload at the chosen granularity. Nothing is written in that case.
	ErrInsufficientCapacity = errors.New("steg: cover image too small for payload")

	// ErrInvalidHeader is returned when the image carries no recognizable
	// header, or one written by an incompatible version.
	ErrInvalidHeader = errors.New("steg: invalid header")

	// ErrDecompression is returned when the header declares compression but
	// the extracted bytes do not decompress.
	ErrDecompression = errors.New("steg: decompression failed")

	// ErrChecksumMismatch is returned when the extracted payload does not match
	// the checksum recorded in the header.
	ErrChecksumMismatch = errors.New("steg: payload checksum mismatch")

	// ErrTruncatedUnitStream is returned by Join when there are not enough
	// units to rebuild the requested byte count.
	ErrTruncatedUnitStream = errors.New("steg: truncated unit stream")

	// ErrCapacityExceeded is returned when the channel cursor runs past the
	// last channel of the grid.
	ErrCapacityExceeded = errors.New("steg: channel capacity exceeded")

	ErrInvalidGranularity = errors.New("steg: invalid granularity")
	ErrInvalidCompression = errors.New("steg: invalid compression mode")
	ErrInvalidGrid        = errors.New("steg: invalid pixel grid")
	ErrPayloadTooLarge    = errors.New("steg: payload too large")
)

// CapacityError describes a failed capacity check.
type CapacityError struct {
	Required    int // bits needed at Granularity, header included
	Available   int // bits the cover offers at Granularity
	Granularity Granularity
}

func (e *CapacityError) Error() string {
	if e.Granularity == 0 {
		return fmt.Sprintf("%v: need %d bits, have %d bits", ErrInsufficientCapacity, e.Required, e.Available)
	}
	return fmt.Sprintf("%v: need %d bits, have %d bits at %d bit(s) per channel; try a higher granularity or compression",
		ErrInsufficientCapacity, e.Required, e.Available, e.Granularity)
}

func (e *CapacityError) Unwrap() error {
	return ErrInsufficientCapacity
}
