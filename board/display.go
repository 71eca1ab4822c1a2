package board

import (
	"context"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// Display addresses a Device through a board layout.
type Display struct {
	dev  *is31fl3731.Device
	kind Kind
}

// New wraps dev, which must already point at the board's address.
func New(dev *is31fl3731.Device, kind Kind) *Display {
	return &Display{dev: dev, kind: kind}
}

// Open returns a Display for kind on t. A zero addr selects the board's
// default address.
func Open(t is31fl3731.Transport, kind Kind, addr uint8) (*Display, error) {
	if !kind.Valid() {
		return nil, ErrUnknownBoard
	}
	if addr == 0 {
		addr = kind.DefaultAddress()
	}
	return New(is31fl3731.New(t, addr), kind), nil
}

func (d *Display) Device() *is31fl3731.Device { return d.dev }

func (d *Display) Kind() Kind { return d.kind }

// SetPixel sets the brightness of (x, y) on a monochrome board.
func (d *Display) SetPixel(ctx context.Context, x, y, brightness uint8) error {
	if d.kind.RGB() {
		return ErrRGB
	}
	led, err := d.kind.Translate(x, y)
	if err != nil {
		return err
	}
	return d.dev.SetPixel(ctx, led, brightness)
}

// SetPixelRGB sets the colour of grid pixel (x, y) on an RGB board with one
// write per channel. A failed write is returned as is; channels already
// written keep their new value.
func (d *Display) SetPixelRGB(ctx context.Context, x, y, r, g, b uint8) error {
	p, err := d.kind.Pixel(x, y)
	if err != nil {
		return err
	}
	for ch, v := range [3]uint8{r, g, b} {
		led, err := d.kind.Translate(p, uint8(ch))
		if err != nil {
			return err
		}
		if err := d.dev.SetPixel(ctx, led, v); err != nil {
			return err
		}
	}
	return nil
}

// Clear blanks the current frame.
func (d *Display) Clear(ctx context.Context) error {
	return d.dev.Fill(ctx, 0, is31fl3731.BlinkUnchanged, d.dev.Frame())
}
