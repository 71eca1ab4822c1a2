package board

import (
	"context"
	"image"
	"image/color"

	"periph.io/x/conn/v3/display"

	"github.com/coreman2200/funtimes-ledmatrix/is31fl3731"
)

// Drawer renders images onto a board's current frame. Every Draw pushes the
// whole frame in one bulk write; pixels outside the drawn rectangle keep the
// value of the previous Draw.
type Drawer struct {
	disp  *Display
	gamma bool
	buf   [is31fl3731.NumLEDs]byte
}

var _ display.Drawer = (*Drawer)(nil)

// NewDrawer returns a Drawer on disp. With gamma set, brightness values are
// passed through is31fl3731.Gamma.
func NewDrawer(disp *Display, gamma bool) *Drawer {
	return &Drawer{disp: disp, gamma: gamma}
}

func (d *Drawer) String() string {
	return "is31fl3731{" + d.disp.kind.String() + "}"
}

// Halt blanks the current frame.
func (d *Drawer) Halt() error {
	d.buf = [is31fl3731.NumLEDs]byte{}
	return d.disp.Clear(context.Background())
}

func (d *Drawer) ColorModel() color.Model {
	if d.disp.kind.RGB() {
		return color.NRGBAModel
	}
	return color.GrayModel
}

func (d *Drawer) Bounds() image.Rectangle {
	w, h := d.disp.kind.Grid()
	return image.Rect(0, 0, w, h)
}

func (d *Drawer) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(d.Bounds())
	k := d.disp.kind
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			if !k.RGB() {
				led, err := k.Translate(uint8(x), uint8(y))
				if err != nil {
					return err
				}
				d.buf[led] = d.level(color.GrayModel.Convert(c).(color.Gray).Y)
				continue
			}
			p, err := k.Pixel(uint8(x), uint8(y))
			if err != nil {
				return err
			}
			n := color.NRGBAModel.Convert(c).(color.NRGBA)
			for ch, v := range [3]uint8{n.R, n.G, n.B} {
				led, err := k.Translate(p, uint8(ch))
				if err != nil {
					return err
				}
				d.buf[led] = d.level(v)
			}
		}
	}
	return d.disp.dev.SetAllPixels(context.Background(), &d.buf)
}

func (d *Drawer) level(v uint8) uint8 {
	if d.gamma {
		return is31fl3731.Gamma(v)
	}
	return v
}

// Image renders a frame's brightness registers onto kind's pixel grid, as an
// *image.Gray for monochrome boards and an *image.NRGBA for RGB boards.
func (k Kind) Image(regs *[is31fl3731.NumLEDs]byte) image.Image {
	w, h := k.Grid()
	if !k.RGB() {
		img := image.NewGray(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				led, _ := k.Translate(uint8(x), uint8(y))
				img.SetGray(x, y, color.Gray{Y: regs[led]})
			}
		}
		return img
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			p, _ := k.Pixel(uint8(x), uint8(y))
			var c [3]uint8
			for ch := range c {
				led, _ := k.Translate(p, uint8(ch))
				c[ch] = regs[led]
			}
			img.SetNRGBA(x, y, color.NRGBA{R: c[0], G: c[1], B: c[2], A: 255})
		}
	}
	return img
}
