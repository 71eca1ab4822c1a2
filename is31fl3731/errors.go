package is31fl3731

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLocation matches every LocationError.
	ErrInvalidLocation = errors.New("is31fl3731: invalid location")
	ErrUnknownMode     = errors.New("is31fl3731: unknown mode")
	ErrUnknownBlink    = errors.New("is31fl3731: unknown blink setting")
)

// LocationError reports a pixel index, frame number or board coordinate outside
// its valid range. It is always returned before anything is written to the bus.
type LocationError struct {
	Value int
}

func (e *LocationError) Error() string {
	return fmt.Sprintf("is31fl3731: invalid location %d", e.Value)
}

func (e *LocationError) Is(target error) bool { return target == ErrInvalidLocation }

func invalidLocation(v uint8) error { return &LocationError{Value: int(v)} }
