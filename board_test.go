package mozaik

import (
	"image"
	"math/rand"
	"testing"

	"github.com/bytedance/sonic"
)

func testBoard(t *testing.T) *Board {
	t.Helper()
	b := NewBoard(DefaultParams())
	b.SetImage(image.NewRGBA(image.Rect(0, 0, 300, 300)))
	b.Resize(900, 600)
	if len(b.Tiles()) != 9 {
		t.Fatalf("test board has %d tiles, want 9", len(b.Tiles()))
	}
	return b
}

func TestTileContains(t *testing.T) {
	tile := Tile{Dst: image.Rect(10, 20, 110, 220)}
	tests := []struct {
		name string
		p    Point
		want bool
	}{
		{"interior", Point{X: 60, Y: 120}, true},
		{"min corner", Point{X: 10, Y: 20}, true},
		{"max corner", Point{X: 110, Y: 220}, true},
		{"right edge", Point{X: 110, Y: 120}, true},
		{"bottom edge", Point{X: 60, Y: 220}, true},
		{"left of tile", Point{X: 9, Y: 120}, false},
		{"above tile", Point{X: 60, Y: 19}, false},
		{"past max", Point{X: 111, Y: 221}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tile.Contains(tt.p); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

// TestTileAtSharedEdge: a point on the edge between two tiles belongs to
// both rects, and the lower ID wins.
func TestTileAtSharedEdge(t *testing.T) {
	b := testBoard(t)
	tile, ok := b.TileAt(Point{X: 360, Y: 100})
	if !ok {
		t.Fatal("TileAt missed a shared edge point")
	}
	if tile.ID != 0 {
		t.Errorf("TileAt on shared edge = tile %d, want 0", tile.ID)
	}
}

func TestTileAtMiss(t *testing.T) {
	b := testBoard(t)
	for _, p := range []Point{{X: 0, Y: 0}, {X: 179, Y: 100}, {X: 721, Y: 100}, {X: 450, Y: 29}, {X: 450, Y: 571}} {
		if tile, ok := b.TileAt(p); ok {
			t.Errorf("TileAt(%v) hit tile %d, want miss", p, tile.ID)
		}
	}
}

func TestTileAtEveryTileCenter(t *testing.T) {
	b := testBoard(t)
	for _, want := range b.Tiles() {
		center := Point{
			X: want.Dst.Min.X + want.Dst.Dx()/2,
			Y: want.Dst.Min.Y + want.Dst.Dy()/2,
		}
		got, ok := b.TileAt(center)
		if !ok {
			t.Fatalf("TileAt(%v) missed tile %d", center, want.ID)
		}
		if got.ID != want.ID {
			t.Errorf("TileAt(%v) = tile %d, want %d", center, got.ID, want.ID)
		}
	}
}

func TestTileAtZeroCanvas(t *testing.T) {
	b := NewBoard(DefaultParams())
	b.SetImage(image.NewRGBA(image.Rect(0, 0, 300, 300)))
	b.Resize(0, 600)
	if len(b.Tiles()) != 0 {
		t.Fatalf("zero-width canvas produced %d tiles", len(b.Tiles()))
	}
	if _, ok := b.TileAt(Point{X: 1, Y: 1}); ok {
		t.Error("TileAt hit on a zero-width canvas")
	}
}

func TestStartDragMissLeavesIdle(t *testing.T) {
	b := testBoard(t)
	rev := b.Revision()
	if b.StartDrag(Point{X: 5, Y: 5}) {
		t.Fatal("StartDrag on the margin reported a hit")
	}
	if _, ok := b.Dragging(); ok {
		t.Error("board is dragging after a miss")
	}
	if b.Revision() != rev {
		t.Error("revision changed on a miss")
	}
}

func TestDragRelative(t *testing.T) {
	b := testBoard(t)
	orig := b.Tiles()[0].Dst
	if !b.StartDrag(Point{X: 200, Y: 50}) {
		t.Fatal("StartDrag missed tile 0")
	}
	if id, ok := b.Dragging(); !ok || id != 0 {
		t.Fatalf("Dragging() = %d, %v, want 0, true", id, ok)
	}
	// the grab itself must not move the tile
	if got := b.Tiles()[0].Dst; got != orig {
		t.Errorf("tile moved on grab: %v, want %v", got, orig)
	}
	b.DragTo(Point{X: 210, Y: 65})
	want := orig.Add(Point{X: 10, Y: 15})
	if got := b.Tiles()[0].Dst; got != want {
		t.Errorf("after first move: Dst = %v, want %v", got, want)
	}
	b.DragTo(Point{X: 190, Y: 65})
	want = orig.Add(Point{X: -10, Y: 15})
	if got := b.Tiles()[0].Dst; got != want {
		t.Errorf("after second move: Dst = %v, want %v", got, want)
	}
	// returning to the grab point undoes the whole drag
	b.DragTo(Point{X: 200, Y: 50})
	if got := b.Tiles()[0].Dst; got != orig {
		t.Errorf("after round trip: Dst = %v, want %v", got, orig)
	}
	want = orig
	b.EndDrag()
	if _, ok := b.Dragging(); ok {
		t.Error("board still dragging after EndDrag")
	}
	// the drop leaves the tile where it is
	if got := b.Tiles()[0].Dst; got != want {
		t.Errorf("after drop: Dst = %v, want %v", got, want)
	}
	if got := b.Tiles()[0].Dst.Size(); got != orig.Size() {
		t.Errorf("tile size changed: %v, want %v", got, orig.Size())
	}
}

func TestDragCenter(t *testing.T) {
	b := testBoard(t)
	b.SetDragMode(DragCenter)
	if !b.StartDrag(Point{X: 200, Y: 50}) {
		t.Fatal("StartDrag missed tile 0")
	}
	b.DragTo(Point{X: 450, Y: 300})
	want := image.Rect(360, 210, 540, 390)
	if got := b.Tiles()[0].Dst; got != want {
		t.Errorf("Dst = %v, want %v", got, want)
	}
}

func TestDragOverlapAllowed(t *testing.T) {
	b := testBoard(t)
	tile4 := b.Tiles()[4].Dst
	if !b.StartDrag(Point{X: 270, Y: 120}) {
		t.Fatal("StartDrag missed tile 0")
	}
	b.DragTo(Point{X: 450, Y: 300})
	b.EndDrag()
	if got := b.Tiles()[0].Dst; got != tile4 {
		t.Fatalf("tile 0 not over tile 4: %v, want %v", got, tile4)
	}
	if got := b.Tiles()[4].Dst; got != tile4 {
		t.Errorf("tile 4 moved: %v, want %v", got, tile4)
	}
	// both tiles contain the point now; tile 0 wins the scan
	tile, ok := b.TileAt(Point{X: 450, Y: 300})
	if !ok {
		t.Fatal("TileAt missed the overlap")
	}
	if tile.ID != 0 {
		t.Errorf("TileAt over the overlap = tile %d, want 0", tile.ID)
	}
}

func TestDragOutsideCanvasAllowed(t *testing.T) {
	b := testBoard(t)
	if !b.StartDrag(Point{X: 200, Y: 50}) {
		t.Fatal("StartDrag missed tile 0")
	}
	b.DragTo(Point{X: -500, Y: 50})
	got := b.Tiles()[0].Dst
	if got.Min.X >= 0 {
		t.Errorf("tile was clamped to the canvas: %v", got)
	}
	if got.Size() != (Point{X: 180, Y: 180}) {
		t.Errorf("tile size changed off canvas: %v", got.Size())
	}
}

func TestDragOpsIdleAreNoops(t *testing.T) {
	b := testBoard(t)
	rev := b.Revision()
	before := b.Tiles()
	b.DragTo(Point{X: 450, Y: 300})
	b.EndDrag()
	if b.Revision() != rev {
		t.Error("idle drag ops changed the revision")
	}
	after := b.Tiles()
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("tile %d changed while idle", i)
		}
	}
}

func TestResize(t *testing.T) {
	b := testBoard(t)
	b.StartDrag(Point{X: 200, Y: 50})
	b.DragTo(Point{X: 400, Y: 400})
	b.EndDrag()

	rev := b.Revision()
	b.Resize(1000, 700)
	if b.Revision() == rev {
		t.Error("resize did not bump the revision")
	}
	// side = 600, margins (200, 50): positions are rebuilt, the dragged
	// tile snaps back into the grid
	if got, want := b.Tiles()[0].Dst, image.Rect(200, 50, 400, 250); got != want {
		t.Errorf("tile 0 after resize: %v, want %v", got, want)
	}

	rev = b.Revision()
	b.Resize(1000, 700)
	if b.Revision() != rev {
		t.Error("same-size resize bumped the revision")
	}
}

// TestResizeDuringDrag: a rebuild mid-drag keeps the grab, so the fresh
// tile follows the next move event.
func TestResizeDuringDrag(t *testing.T) {
	b := testBoard(t)
	if !b.StartDrag(Point{X: 200, Y: 50}) {
		t.Fatal("StartDrag missed tile 0")
	}
	b.Resize(1000, 700)
	if id, ok := b.Dragging(); !ok || id != 0 {
		t.Fatalf("Dragging() after resize = %d, %v, want 0, true", id, ok)
	}
	b.DragTo(Point{X: 210, Y: 60})
	if got, want := b.Tiles()[0].Dst, image.Rect(210, 60, 410, 260); got != want {
		t.Errorf("tile 0 = %v, want %v", got, want)
	}
}

func TestSetImageNilEmptiesBoard(t *testing.T) {
	b := testBoard(t)
	b.SetImage(nil)
	if got := len(b.Tiles()); got != 0 {
		t.Errorf("len(Tiles()) = %d, want 0", got)
	}
	if _, ok := b.TileAt(Point{X: 450, Y: 300}); ok {
		t.Error("TileAt hit on an empty board")
	}
}

func TestScatter(t *testing.T) {
	b := testBoard(t)
	rev := b.Revision()
	b.Scatter(rand.New(rand.NewSource(1)))
	if b.Revision() == rev {
		t.Error("scatter did not bump the revision")
	}
	canvas := image.Rect(0, 0, 900, 600)
	for _, tile := range b.Tiles() {
		if tile.Dst.Size() != (Point{X: 180, Y: 180}) {
			t.Errorf("tile %d: size %v, want (180,180)", tile.ID, tile.Dst.Size())
		}
		if !tile.Dst.In(canvas) {
			t.Errorf("tile %d: %v outside the canvas", tile.ID, tile.Dst)
		}
	}
}

func TestScatterEmptyBoard(t *testing.T) {
	b := NewBoard(DefaultParams())
	rev := b.Revision()
	b.Scatter(rand.New(rand.NewSource(1)))
	if b.Revision() != rev {
		t.Error("scatter on an empty board bumped the revision")
	}
}

func TestResetRestoresLayout(t *testing.T) {
	b := testBoard(t)
	pristine := b.Tiles()
	b.StartDrag(Point{X: 200, Y: 50})
	b.DragTo(Point{X: 700, Y: 500})
	b.EndDrag()
	b.Scatter(rand.New(rand.NewSource(2)))
	b.Reset()
	got := b.Tiles()
	for i := range pristine {
		if got[i] != pristine[i] {
			t.Errorf("tile %d after reset: %+v, want %+v", i, got[i], pristine[i])
		}
	}
}

func TestRevisionAndOnChange(t *testing.T) {
	b := NewBoard(DefaultParams())
	var calls int
	var seen []uint64
	// a frontend redraws from the callback, so the callback must already
	// observe the advanced revision
	b.SetOnChange(func() {
		calls++
		seen = append(seen, b.Revision())
	})

	b.SetImage(image.NewRGBA(image.Rect(0, 0, 300, 300)))
	b.Resize(900, 600)
	b.StartDrag(Point{X: 200, Y: 50})
	b.DragTo(Point{X: 210, Y: 60})
	b.EndDrag()
	if calls != 5 {
		t.Errorf("onChange calls = %d, want 5", calls)
	}
	if b.Revision() != 5 {
		t.Errorf("Revision() = %d, want 5", b.Revision())
	}
	for i, rev := range seen {
		if rev != uint64(i+1) {
			t.Errorf("callback %d observed revision %d, want %d", i, rev, i+1)
		}
	}

	b.SetDragMode(DragCenter)
	if calls != 5 {
		t.Error("SetDragMode fired onChange")
	}
}

func TestLayoutJSON(t *testing.T) {
	b := testBoard(t)
	data, err := b.LayoutJSON()
	if err != nil {
		t.Fatalf("LayoutJSON() error: %v", err)
	}
	var snap struct {
		Canvas [2]int `json:"canvas"`
		Tiles  []struct {
			ID  int    `json:"id"`
			Dst [4]int `json:"dst"`
		} `json:"tiles"`
	}
	if err := sonic.Unmarshal(data, &snap); err != nil {
		t.Fatalf("cannot parse layout JSON: %v", err)
	}
	if snap.Canvas != [2]int{900, 600} {
		t.Errorf("canvas = %v, want [900 600]", snap.Canvas)
	}
	if len(snap.Tiles) != 9 {
		t.Fatalf("len(tiles) = %d, want 9", len(snap.Tiles))
	}
	if snap.Tiles[0].ID != 0 {
		t.Errorf("tiles[0].id = %d, want 0", snap.Tiles[0].ID)
	}
	if snap.Tiles[0].Dst != [4]int{180, 30, 360, 210} {
		t.Errorf("tiles[0].dst = %v, want [180 30 360 210]", snap.Tiles[0].Dst)
	}
}

func TestParseDragMode(t *testing.T) {
	tests := []struct {
		in      string
		want    DragMode
		wantErr bool
	}{
		{"relative", DragRelative, false},
		{"center", DragCenter, false},
		{"", 0, true},
		{"snap", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseDragMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDragMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseDragMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
