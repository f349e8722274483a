package mozaik

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	xdraw "golang.org/x/image/draw"
)

// Renderer composites a board into an offscreen RGBA buffer. The GL and
// ebiten frontends draw on the GPU; this renderer backs screenshots and
// defines what a frame must contain: background, then every tile in
// ascending ID order, then outlines over all tiles.
type Renderer struct {
	buf      *image.RGBA
	bg       color.Color
	outlines bool
	outline  color.Color
}

func NewRenderer() *Renderer {
	return &Renderer{
		bg:      color.RGBA{0x20, 0x20, 0x28, 0xff},
		outline: color.RGBA{0xff, 0xff, 0xff, 0xff},
	}
}

func (r *Renderer) SetBackground(c color.Color) { r.bg = c }

func (r *Renderer) SetOutlineColor(c color.Color) { r.outline = c }

func (r *Renderer) SetOutlines(on bool) { r.outlines = on }

func (r *Renderer) Outlines() bool { return r.outlines }

// Render composites the board's current arrangement and returns the
// frame. The buffer is reused across calls and is only valid until the
// next Render. Returns nil when the canvas has no area.
func (r *Renderer) Render(b *Board) *image.RGBA {
	size := b.Canvas()
	if size.X < 1 || size.Y < 1 {
		r.buf = nil
		return nil
	}
	if r.buf == nil || r.buf.Bounds().Dx() != size.X || r.buf.Bounds().Dy() != size.Y {
		r.buf = image.NewRGBA(image.Rect(0, 0, size.X, size.Y))
	}
	draw.Draw(r.buf, r.buf.Bounds(), image.NewUniform(r.bg), image.Point{}, draw.Src)
	tiles := b.Tiles()
	if img := b.Image(); img != nil {
		for _, t := range tiles {
			if t.Src.Empty() || t.Dst.Empty() {
				continue
			}
			xdraw.ApproxBiLinear.Scale(r.buf, t.Dst, img, t.Src, xdraw.Over, nil)
		}
	}
	if r.outlines {
		for _, t := range tiles {
			r.strokeRect(t.Dst)
		}
	}
	return r.buf
}

// strokeRect draws a one-pixel frame just inside rc. Parts outside the
// buffer clip away.
func (r *Renderer) strokeRect(rc Rect) {
	u := image.NewUniform(r.outline)
	edges := []Rect{
		image.Rect(rc.Min.X, rc.Min.Y, rc.Max.X, rc.Min.Y+1),
		image.Rect(rc.Min.X, rc.Max.Y-1, rc.Max.X, rc.Max.Y),
		image.Rect(rc.Min.X, rc.Min.Y, rc.Min.X+1, rc.Max.Y),
		image.Rect(rc.Max.X-1, rc.Min.Y, rc.Max.X, rc.Max.Y),
	}
	for _, e := range edges {
		draw.Draw(r.buf, e, u, image.Point{}, draw.Src)
	}
}

// EncodePNG writes the most recently rendered frame to w.
func (r *Renderer) EncodePNG(w io.Writer) error {
	if r.buf == nil {
		return fmt.Errorf("nothing rendered")
	}
	return png.Encode(w, r.buf)
}

// SavePNG renders the board and writes the frame to path.
func (r *Renderer) SavePNG(path string, b *Board) error {
	if frame := r.Render(b); frame == nil {
		return fmt.Errorf("empty canvas")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return r.EncodePNG(f)
}
