// Package pattern generates wiring test patterns for a board.
package pattern

import (
	"errors"
	"math"

	"github.com/coreman2200/funtimes-ledmatrix/board"
	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

type Kind string

const (
	None       Kind = ""
	IndexSweep Kind = "index_sweep"  // one register at a time, 0 to 143
	Channels   Kind = "rgb_channels" // all red, green, blue in turn
	RowSweep   Kind = "row_sweep"    // one logical row at a time
	Rainbow    Kind = "rainbow"      // one turn of a diagonal colour wheel
)

// RainbowSteps is the length of one Rainbow pass.
const RainbowSteps = 120

var ErrUnknownPattern = errors.New("pattern: unknown pattern")

func Parse(s string) (Kind, error) {
	switch k := Kind(s); k {
	case IndexSweep, Channels, RowSweep, Rainbow:
		return k, nil
	}
	return None, ErrUnknownPattern
}

type Runner struct {
	kind  Kind
	board board.Kind
	level uint8
	step  int
}

// NewRunner returns a Runner for pattern k on b, lighting LEDs at level.
func NewRunner(k Kind, b board.Kind, level uint8) *Runner {
	return &Runner{kind: k, board: b, level: level}
}

func (r *Runner) Kind() Kind { return r.kind }

// Step fills buf with the next frame; returns false when complete.
func (r *Runner) Step(buf *[is31fl3731.NumLEDs]byte) bool {
	*buf = [is31fl3731.NumLEDs]byte{}

	switch r.kind {
	case IndexSweep:
		if r.step >= is31fl3731.NumLEDs {
			return false
		}
		buf[r.step] = r.level
	case Channels:
		if r.step >= 3 {
			return false
		}
		r.lightChannel(buf, uint8(r.step))
	case RowSweep:
		w, h := r.board.Grid()
		if r.step >= h {
			return false
		}
		for x := 0; x < w; x++ {
			r.light(buf, uint8(x), uint8(r.step))
		}
	case Rainbow:
		if r.step >= RainbowSteps {
			return false
		}
		r.rainbow(buf, float64(r.step)/RainbowSteps)
	default:
		return false
	}
	r.step++
	return true
}

// lightChannel lights one colour channel of every pixel. Monochrome boards
// light everything for channel 0 and nothing for the others.
func (r *Runner) lightChannel(buf *[is31fl3731.NumLEDs]byte, ch uint8) {
	if !r.board.RGB() {
		if ch == 0 {
			w, h := r.board.Grid()
			for y := 0; y < h; y++ {
				for x := 0; x < w; x++ {
					r.light(buf, uint8(x), uint8(y))
				}
			}
		}
		return
	}
	n, _ := r.board.Size()
	for p := uint8(0); p < n; p++ {
		if led, err := r.board.Translate(p, ch); err == nil {
			buf[led] = r.level
		}
	}
}

func (r *Runner) light(buf *[is31fl3731.NumLEDs]byte, x, y uint8) {
	if !r.board.RGB() {
		if led, err := r.board.Translate(x, y); err == nil {
			buf[led] = r.level
		}
		return
	}
	p, err := r.board.Pixel(x, y)
	if err != nil {
		return
	}
	for ch := uint8(0); ch < 3; ch++ {
		if led, err := r.board.Translate(p, ch); err == nil {
			buf[led] = r.level
		}
	}
}

// rainbow paints hues along the grid diagonal, shifted by phase. Monochrome
// boards show the red channel of the wheel as a travelling wave.
func (r *Runner) rainbow(buf *[is31fl3731.NumLEDs]byte, phase float64) {
	w, h := r.board.Grid()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			hue := math.Mod(float64(x)/float64(w)+float64(y)/float64(2*h)+phase, 1)
			c := colorWheel(hue)
			if !r.board.RGB() {
				if led, err := r.board.Translate(uint8(x), uint8(y)); err == nil {
					buf[led] = r.scale(c[0])
				}
				continue
			}
			p, err := r.board.Pixel(uint8(x), uint8(y))
			if err != nil {
				continue
			}
			for ch := uint8(0); ch < 3; ch++ {
				if led, err := r.board.Translate(p, ch); err == nil {
					buf[led] = r.scale(c[ch])
				}
			}
		}
	}
}

// scale caps v at the runner's level.
func (r *Runner) scale(v uint8) uint8 {
	return uint8(uint16(v) * uint16(r.level) / 255)
}

// colorWheel maps h in [0, 1) to a fully saturated RGB colour.
func colorWheel(h float64) [3]uint8 {
	h *= 6
	switch {
	case h < 1:
		return [3]uint8{255, uint8(255 * h), 0}
	case h < 2:
		return [3]uint8{uint8(255 * (2 - h)), 255, 0}
	case h < 3:
		return [3]uint8{0, 255, uint8(255 * (h - 2))}
	case h < 4:
		return [3]uint8{0, uint8(255 * (4 - h)), 255}
	case h < 5:
		return [3]uint8{uint8(255 * (h - 4)), 0, 255}
	default:
		return [3]uint8{255, 0, uint8(255 * (6 - h))}
	}
}
