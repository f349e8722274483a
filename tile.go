package mozaik

// Tile is one cell of the puzzle grid. Src is the fixed rectangle of the
// source image the tile displays; Dst is the canvas rectangle it currently
// occupies, moved around as the tile is dragged. IDs are row-major and
// stable for the lifetime of one layout.
type Tile struct {
	ID  int
	Src Rect
	Dst Rect
}

// Contains reports whether p lies within the tile's destination rect.
// All four edges are inclusive, unlike image.Point.In which excludes Max.
func (t Tile) Contains(p Point) bool {
	return p.X >= t.Dst.Min.X && p.X <= t.Dst.Max.X &&
		p.Y >= t.Dst.Min.Y && p.Y <= t.Dst.Max.Y
}
