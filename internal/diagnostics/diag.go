// Package diagnostics describes failures in a form the control plane can hand
// back to clients.
package diagnostics

import (
	"context"
	"errors"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/bus"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	LikelyCauses   []string       `json:"likely_causes,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// FromError classifies err. Request errors are warnings, bus failures are
// errors.
func FromError(err error) Diagnostic {
	d := Diagnostic{Severity: Warn, Detail: err.Error()}
	var loc *is31fl3731.LocationError
	switch {
	case errors.As(err, &loc):
		d.Code, d.Summary = "LOCATION.INVALID", "Location out of range"
		d.Evidence = map[string]any{"value": loc.Value}
		d.SuggestedFixes = []string{"Check the board's grid size and the frame number (0 to 8)"}
	case errors.Is(err, board.ErrRGB):
		d.Code, d.Summary = "BOARD.RGB", "Board has RGB pixels"
		d.SuggestedFixes = []string{"Use the rgb op"}
	case errors.Is(err, board.ErrNotRGB):
		d.Code, d.Summary = "BOARD.MONO", "Board has monochrome pixels"
		d.SuggestedFixes = []string{"Use the pixel op"}
	case errors.Is(err, is31fl3731.ErrUnknownMode), errors.Is(err, is31fl3731.ErrUnknownBlink):
		d.Code, d.Summary = "REQ.VALUE", "Unknown setting"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		d.Severity = Err
		d.Code, d.Summary = "BUS.TIMEOUT", "Bus transaction did not complete"
		d.LikelyCauses = []string{"Bus is busy or clock stretched", "Client went away"}
	case errors.Is(err, bus.ErrNoDevice):
		d.Severity = Err
		d.Code, d.Summary = "BUS.NO_DEVICE", "No chip answered"
		d.LikelyCauses = []string{"Wrong address", "AD pin strapped differently"}
		d.SuggestedFixes = []string{"Try address 0x74 or 0x75", "Run i2cdetect on the bus"}
	default:
		d.Severity = Err
		d.Code, d.Summary = "BUS.WRITE", "Bus write failed"
		d.LikelyCauses = []string{"Wiring", "Missing pull-ups", "Chip not powered"}
	}
	return d
}
