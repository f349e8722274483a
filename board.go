package mozaik

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/bytedance/sonic"
)

// DragMode selects how a move event repositions the dragged tile.
type DragMode int

const (
	// DragRelative translates the tile by the pointer's movement since the
	// previous event, preserving the grab point inside the tile.
	DragRelative DragMode = iota
	// DragCenter recenters the tile on the pointer position each event.
	DragCenter
)

func ParseDragMode(s string) (DragMode, error) {
	switch s {
	case "relative":
		return DragRelative, nil
	case "center":
		return DragCenter, nil
	}
	return 0, fmt.Errorf("invalid drag mode: %q", s)
}

func (m DragMode) String() string {
	if m == DragCenter {
		return "center"
	}
	return "relative"
}

// Board owns the tile collection and the drag state machine. It is not
// safe for concurrent use; all methods are expected to run on the event
// thread of the owning frontend.
type Board struct {
	params   Params
	mode     DragMode
	img      image.Image
	canvas   Size
	tiles    []Tile
	active   int   // ID of the dragged tile, -1 while idle
	last     Point // previous pointer position during a drag
	rev      uint64
	onChange func()
	rng      *rand.Rand
}

func NewBoard(p Params) *Board {
	return &Board{params: p, active: -1}
}

// SetOnChange registers fn to be called after every state mutation.
// Frontends use it to schedule a redraw before the next frame; the
// callback must be cheap.
func (b *Board) SetOnChange(fn func()) { b.onChange = fn }

func (b *Board) SetDragMode(m DragMode) { b.mode = m }

func (b *Board) DragMode() DragMode { return b.mode }

// Revision returns a counter that increases with every state mutation.
// Comparing revisions across frames is the dirty check of the GL frontend.
func (b *Board) Revision() uint64 { return b.rev }

func (b *Board) Canvas() Size { return b.canvas }

func (b *Board) Image() image.Image { return b.img }

// SetImage replaces the source image and rebuilds all tiles. A nil image
// empties the board.
func (b *Board) SetImage(img image.Image) {
	b.img = img
	b.rebuild()
}

// Resize sets the canvas size and rebuilds all tiles, discarding their
// positions. No-op when the size is unchanged.
func (b *Board) Resize(w, h int) {
	s := Size{X: w, Y: h}
	if s == b.canvas {
		return
	}
	b.canvas = s
	b.rebuild()
}

// Reset restores the pristine layout for the current canvas and image.
func (b *Board) Reset() { b.rebuild() }

// rebuild recreates the tile collection wholesale. A drag in progress
// keeps its tile ID, so the fresh tile picks up subsequent move events.
func (b *Board) rebuild() {
	var src Rect
	if b.img != nil {
		src = b.img.Bounds()
	}
	b.tiles = computeLayout(b.canvas, src, b.params)
	logger().Debug("layout rebuilt", "canvas", b.canvas, "tiles", len(b.tiles))
	b.touch()
}

// Tiles returns a copy of the tile collection in ascending ID order,
// which is also the paint order.
func (b *Board) Tiles() []Tile {
	out := make([]Tile, len(b.tiles))
	copy(out, b.tiles)
	return out
}

// TileAt returns the first tile in ID order whose destination rect
// contains p. Tiles may overlap after dragging; the scan order is the
// tie-break.
func (b *Board) TileAt(p Point) (Tile, bool) {
	for _, t := range b.tiles {
		if t.Contains(p) {
			return t, true
		}
	}
	return Tile{}, false
}

// Dragging returns the ID of the tile currently being dragged.
func (b *Board) Dragging() (int, bool) {
	if b.active < 0 {
		return 0, false
	}
	return b.active, true
}

// StartDrag runs the hit test at p and, on a hit, begins dragging the
// found tile. It reports whether a drag started; a miss leaves the board
// idle.
func (b *Board) StartDrag(p Point) bool {
	t, ok := b.TileAt(p)
	if !ok {
		return false
	}
	b.active = t.ID
	b.last = p
	b.touch()
	return true
}

// DragTo moves the dragged tile according to the drag mode: translated by
// the delta from the previous event, or recentered on p. The tile keeps
// its size and may overlap or leave the canvas; nothing snaps or collides.
// No-op while idle.
func (b *Board) DragTo(p Point) {
	if b.active < 0 {
		return
	}
	i := b.tileIndex(b.active)
	if i < 0 {
		b.last = p
		return
	}
	t := &b.tiles[i]
	old := t.Dst
	switch b.mode {
	case DragCenter:
		half := Point{X: t.Dst.Dx() / 2, Y: t.Dst.Dy() / 2}
		t.Dst = t.Dst.Sub(t.Dst.Min).Add(p.Sub(half))
	default:
		t.Dst = t.Dst.Add(p.Sub(b.last))
	}
	b.last = p
	if t.Dst != old {
		b.touch()
	}
}

// EndDrag releases the dragged tile where it is: no snapping, no
// completion check.
func (b *Board) EndDrag() {
	if b.active < 0 {
		return
	}
	b.active = -1
	b.touch()
}

func (b *Board) tileIndex(id int) int {
	for i := range b.tiles {
		if b.tiles[i].ID == id {
			return i
		}
	}
	return -1
}

// Scatter moves every tile to a random position at which it still fits
// inside the canvas, keeping tile sizes. Pass nil to use an internal
// time-seeded source.
func (b *Board) Scatter(rng *rand.Rand) {
	if len(b.tiles) == 0 {
		return
	}
	if rng == nil {
		if b.rng == nil {
			b.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
		}
		rng = b.rng
	}
	for i := range b.tiles {
		t := &b.tiles[i]
		w, h := t.Dst.Dx(), t.Dst.Dy()
		x := randCoord(rng, b.canvas.X-w)
		y := randCoord(rng, b.canvas.Y-h)
		t.Dst = image.Rect(x, y, x+w, y+h)
	}
	b.touch()
}

func randCoord(rng *rand.Rand, max int) int {
	if max <= 0 {
		return 0
	}
	return rng.Intn(max + 1)
}

type tilePos struct {
	ID  int    `json:"id"`
	Dst [4]int `json:"dst"` // left, top, right, bottom
}

type layoutSnapshot struct {
	Canvas [2]int    `json:"canvas"`
	Tiles  []tilePos `json:"tiles"`
}

// LayoutJSON renders the current tile arrangement as JSON, suitable for
// pasting into a bug report or diffing two arrangements.
func (b *Board) LayoutJSON() ([]byte, error) {
	snap := layoutSnapshot{Canvas: [2]int{b.canvas.X, b.canvas.Y}}
	for _, t := range b.tiles {
		snap.Tiles = append(snap.Tiles, tilePos{
			ID:  t.ID,
			Dst: [4]int{t.Dst.Min.X, t.Dst.Min.Y, t.Dst.Max.X, t.Dst.Max.Y},
		})
	}
	return sonic.Marshal(&snap)
}

func (b *Board) touch() {
	b.rev++
	if b.onChange != nil {
		b.onChange()
	}
}
