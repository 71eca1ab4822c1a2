// Package scroll renders text into grayscale strips and scrolls them across a
// display.Drawer one column per step.
package scroll

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/display"
)

// Render draws text in the 7x13 basic font, cropped to its inked rows and
// scaled to h rows. h <= 0 keeps the cropped height.
func Render(text string, h int) *image.Gray {
	face := basicfont.Face7x13
	w := font.MeasureString(face, text).Ceil()
	if w <= 0 {
		if h <= 0 {
			h = face.Height
		}
		return image.NewGray(image.Rect(0, 0, 0, h))
	}

	cell := image.NewGray(image.Rect(0, 0, w, face.Height))
	d := font.Drawer{Dst: cell, Src: image.White, Face: face, Dot: fixed.P(0, face.Ascent)}
	d.DrawString(text)
	src := cell.SubImage(inkedRows(cell)).(*image.Gray)
	gh := src.Bounds().Dy()
	if h <= 0 || h == gh {
		out := image.NewGray(image.Rect(0, 0, w, gh))
		xdraw.Copy(out, image.Point{}, src, src.Bounds(), xdraw.Src, nil)
		return out
	}

	sw := w * h / gh
	if sw < 1 {
		sw = 1
	}
	dst := image.NewGray(image.Rect(0, 0, sw, h))
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return dst
}

// inkedRows returns the rows of img holding any lit pixel, or all of img when
// nothing is lit.
func inkedRows(img *image.Gray) image.Rectangle {
	b := img.Bounds()
	top, bottom := -1, -1
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for _, v := range row {
			if v != 0 {
				if top < 0 {
					top = y
				}
				bottom = y + 1
				break
			}
		}
	}
	if top < 0 {
		return b
	}
	return image.Rect(b.Min.X, top, b.Max.X, bottom)
}

// Scroller moves a strip from right to left through a viewport. The strip
// enters from beyond the right edge and leaves past the left edge.
type Scroller struct {
	strip *image.Gray
	view  image.Rectangle
	pos   int
	Loop  bool
}

// New returns a Scroller of text over a viewport of size view.
func New(text string, view image.Rectangle) *Scroller {
	view = view.Sub(view.Min)
	txt := Render(text, view.Dy())
	w := txt.Bounds().Dx() + 2*view.Dx()
	strip := image.NewGray(image.Rect(0, 0, w, view.Dy()))
	xdraw.Copy(strip, image.Pt(view.Dx(), 0), txt, txt.Bounds(), xdraw.Src, nil)
	return &Scroller{strip: strip, view: view}
}

// Steps is the number of Step calls for one pass.
func (s *Scroller) Steps() int {
	return s.strip.Bounds().Dx() - s.view.Dx() + 1
}

// Strip returns the padded text strip.
func (s *Scroller) Strip() *image.Gray { return s.strip }

// Step draws the next window onto dst. It returns false once the pass is
// complete, unless Loop is set.
func (s *Scroller) Step(dst display.Drawer) (bool, error) {
	if s.pos >= s.Steps() {
		if !s.Loop {
			return false, nil
		}
		s.pos = 0
	}
	if err := dst.Draw(s.view, s.strip, image.Pt(s.pos, 0)); err != nil {
		return false, err
	}
	s.pos++
	return true, nil
}
