package mozaik

import (
	"image"
	"math"
)

const (
	DefaultRows       = 3
	DefaultCols       = 3
	DefaultWidthFrac  = 0.60
	DefaultHeightFrac = 0.90
)

// Params controls how the puzzle square is sized and partitioned.
// WidthFrac sizes the candidate square as a fraction of the canvas width;
// when that candidate is taller than the canvas, HeightFrac of the canvas
// height is used instead. The chosen square is centered in the canvas.
type Params struct {
	Rows       int
	Cols       int
	WidthFrac  float64
	HeightFrac float64
}

func DefaultParams() Params {
	return Params{
		Rows:       DefaultRows,
		Cols:       DefaultCols,
		WidthFrac:  DefaultWidthFrac,
		HeightFrac: DefaultHeightFrac,
	}
}

// computeLayout builds the pristine tile set for a canvas and a source
// bounds rectangle: destination rects tile the centered square, source
// rects tile src, both row-major with ID = row*Cols + col. Returns nil
// when the canvas, the source or the grid is degenerate.
func computeLayout(canvas Size, src Rect, p Params) []Tile {
	if canvas.X <= 0 || canvas.Y <= 0 || src.Dx() <= 0 || src.Dy() <= 0 {
		return nil
	}
	if p.Rows <= 0 || p.Cols <= 0 {
		return nil
	}
	w := float64(canvas.X)
	h := float64(canvas.Y)
	side := p.WidthFrac * w
	if side > h {
		side = p.HeightFrac * h
	}
	marginX := (w - side) / 2
	marginY := (h - side) / 2

	xs := splitSpan(marginX, side, p.Cols)
	ys := splitSpan(marginY, side, p.Rows)
	us := splitSpan(float64(src.Min.X), float64(src.Dx()), p.Cols)
	vs := splitSpan(float64(src.Min.Y), float64(src.Dy()), p.Rows)

	tiles := make([]Tile, 0, p.Rows*p.Cols)
	for i := 0; i < p.Rows; i++ {
		for j := 0; j < p.Cols; j++ {
			tiles = append(tiles, Tile{
				ID:  i*p.Cols + j,
				Src: image.Rect(us[j], vs[i], us[j+1], vs[i+1]),
				Dst: image.Rect(xs[j], ys[i], xs[j+1], ys[i+1]),
			})
		}
	}
	return tiles
}

// splitSpan returns the n+1 integer cell boundaries of a span of the given
// length starting at origin. Each boundary is rounded independently, so
// adjacent cells always share an edge and the outermost boundaries land on
// the rounded span ends.
func splitSpan(origin, length float64, n int) []int {
	edges := make([]int, n+1)
	for k := 0; k <= n; k++ {
		edges[k] = int(math.Round(origin + float64(k)*length/float64(n)))
	}
	return edges
}
