// Package board maps the logical pixel coordinates of IS31FL3731 based boards
// to the chip's LED registers.
//
// Each Kind carries a translation from an (x, y) coordinate to a register index
// in [0, 144) and the bus address the board ships with. Monochrome boards
// translate their pixel grid directly. RGB boards translate (pixel, channel)
// pairs, and Display.SetPixelRGB composes three channel writes per pixel.
package board

import (
	"errors"
	"strings"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

var (
	ErrUnknownBoard = errors.New("board: unknown board")
	ErrNotRGB       = errors.New("board: layout has no RGB pixels")
	ErrRGB          = errors.New("board: layout has RGB pixels")
)

// Kind identifies a supported board layout.
type Kind uint8

const (
	Matrix        Kind = iota + 1 // Adafruit 16x9 CharliePlex matrix
	CharlieWing                   // Adafruit 15x7 CharliePlex FeatherWing (16x8 addressable)
	CharlieBonnet                 // Adafruit 16x8 CharliePlex Bonnet
	ScrollPhatHD                  // Pimoroni Scroll pHAT HD, 17x7
	LEDShim                       // Pimoroni LED SHIM, 28 RGB pixels
	RGBMatrix5x5                  // Pimoroni 5x5 RGB matrix
	Keybow2040                    // Pimoroni Keybow 2040, 4x4 RGB keys
)

type layout struct {
	name string
	// w and h bound the coordinates accepted by Translate.
	w, h uint8
	// gw and gh are the logical pixel grid.
	gw, gh int
	rgb    bool
	addr   uint8
	index  func(x, y uint8) uint8
	// pixel maps a grid coordinate of an RGB layout to its table row.
	pixel func(x, y uint8) uint8
}

var layouts = map[Kind]layout{
	Matrix: {
		name: "matrix", w: 16, h: 9, gw: 16, gh: 9,
		addr:  is31fl3731.AddressDefault,
		index: func(x, y uint8) uint8 { return x + y*16 },
	},
	CharlieWing: {
		name: "charlie-wing", w: 16, h: 8, gw: 16, gh: 8,
		addr:  is31fl3731.AddressDefault,
		index: charlieWing,
	},
	CharlieBonnet: {
		name: "charlie-bonnet", w: 16, h: 8, gw: 16, gh: 8,
		addr:  is31fl3731.AddressDefault,
		index: charlieBonnet,
	},
	ScrollPhatHD: {
		name: "scroll-phat-hd", w: 17, h: 7, gw: 17, gh: 7,
		addr:  is31fl3731.AddressDefault,
		index: scrollPhatHD,
	},
	LEDShim: {
		name: "led-shim", w: 28, h: 3, gw: 28, gh: 1, rgb: true,
		addr:  is31fl3731.AddressAlt,
		index: func(x, y uint8) uint8 { return shimTable[x][y] },
		pixel: func(x, _ uint8) uint8 { return x },
	},
	RGBMatrix5x5: {
		name: "rgb-matrix-5x5", w: 25, h: 3, gw: 5, gh: 5, rgb: true,
		addr:  is31fl3731.AddressAlt,
		index: func(x, y uint8) uint8 { return rgb5x5Table[x][y] },
		pixel: func(x, y uint8) uint8 { return x + y*5 },
	},
	Keybow2040: {
		name: "keybow-2040", w: 16, h: 3, gw: 4, gh: 4, rgb: true,
		addr:  is31fl3731.AddressDefault,
		index: func(x, y uint8) uint8 { return keybowTable[x][y] },
		pixel: func(x, y uint8) uint8 { return 4*(3-x) + y },
	},
}

// The right half of the wing is wired mirrored.
func charlieWing(x, y uint8) uint8 {
	if x > 7 {
		x = 15 - x
		y += 8
	} else {
		y = 7 - y
	}
	return x*16 + y
}

func charlieBonnet(x, y uint8) uint8 {
	if x >= 8 {
		return (x-6)*16 - (y + 1)
	}
	return (x+1)*16 + (7 - y)
}

// Columns 0-8 run right to left from register column 8 with rows bottom up;
// columns 9-16 continue from register 8 with rows top down.
func scrollPhatHD(x, y uint8) uint8 {
	if x > 8 {
		return (x-8)*16 + y - 8
	}
	return (8-x)*16 + 6 - y
}

// Kinds returns every supported layout.
func Kinds() []Kind {
	return []Kind{Matrix, CharlieWing, CharlieBonnet, ScrollPhatHD, LEDShim, RGBMatrix5x5, Keybow2040}
}

// Parse returns the Kind named s, ignoring case and accepting '_' for '-'.
func Parse(s string) (Kind, error) {
	s = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
	for k, l := range layouts {
		if l.name == s {
			return k, nil
		}
	}
	return 0, ErrUnknownBoard
}

func (k Kind) String() string {
	if l, ok := layouts[k]; ok {
		return l.name
	}
	return "unknown"
}

// Valid reports whether k is a supported layout.
func (k Kind) Valid() bool {
	_, ok := layouts[k]
	return ok
}

// DefaultAddress returns the bus address the board ships with.
func (k Kind) DefaultAddress() uint8 { return layouts[k].addr }

// RGB reports whether the board's pixels are RGB triples.
func (k Kind) RGB() bool { return layouts[k].rgb }

// Size returns the bounds of the coordinates accepted by Translate. For RGB
// boards x is the pixel number and y the channel.
func (k Kind) Size() (w, h uint8) {
	l := layouts[k]
	return l.w, l.h
}

// Grid returns the dimensions of the board's logical pixel grid.
func (k Kind) Grid() (w, h int) {
	l := layouts[k]
	return l.gw, l.gh
}

// Translate returns the LED register index for (x, y). Coordinates outside the
// layout fail with an is31fl3731.LocationError carrying the offending value.
func (k Kind) Translate(x, y uint8) (uint8, error) {
	l, ok := layouts[k]
	if !ok {
		return 0, ErrUnknownBoard
	}
	if x >= l.w {
		return 0, &is31fl3731.LocationError{Value: int(x)}
	}
	if y >= l.h {
		return 0, &is31fl3731.LocationError{Value: int(y)}
	}
	return l.index(x, y), nil
}

// Pixel returns the pixel number of grid coordinate (x, y) on an RGB board,
// suitable as the x argument of Translate.
func (k Kind) Pixel(x, y uint8) (uint8, error) {
	l, ok := layouts[k]
	if !ok {
		return 0, ErrUnknownBoard
	}
	if !l.rgb {
		return 0, ErrNotRGB
	}
	if int(x) >= l.gw {
		return 0, &is31fl3731.LocationError{Value: int(x)}
	}
	if int(y) >= l.gh {
		return 0, &is31fl3731.LocationError{Value: int(y)}
	}
	return l.pixel(x, y), nil
}
