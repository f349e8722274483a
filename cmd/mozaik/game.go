package main

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/mozaik-game/mozaik"
	"github.com/mozaik-game/mozaik/sound"
)

const helpText = "drag tiles with the mouse\n" +
	"o: outlines  s: scatter  r: reset\n" +
	"c: copy layout  p: screenshot  h: help  q: quit"

var (
	bgColor      = color.RGBA{0x20, 0x20, 0x28, 0xff}
	outlineColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Game adapts the board to ebiten's loop: input mutates the board in
// Update, Draw rebuilds the whole frame from board state alone. The
// image decodes on its own goroutine and Update applies it, so the
// window opens immediately on an empty board.
type Game struct {
	cfg      mozaik.Config
	board    *mozaik.Board
	src      *ebiten.Image
	shots    *mozaik.Renderer
	player   *sound.Player
	loaded   chan loadResult
	outlines bool
	showHelp bool
	touchID  ebiten.TouchID
	touching bool
	touches  []ebiten.TouchID
}

type loadResult struct {
	img *image.RGBA
	err error
}

func NewGame(cfg mozaik.Config, imagePath string) (*Game, error) {
	mode, err := mozaik.ParseDragMode(cfg.DragMode)
	if err != nil {
		return nil, err
	}
	board := mozaik.NewBoard(cfg.Params())
	board.SetDragMode(mode)
	g := &Game{
		cfg:      cfg,
		board:    board,
		shots:    mozaik.NewRenderer(),
		loaded:   make(chan loadResult, 1),
		outlines: cfg.Outlines,
		showHelp: true,
	}
	if !cfg.Mute {
		player, err := sound.NewPlayer()
		if err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			g.player = player
			if cfg.ClickSample != "" {
				if err := player.LoadClick(cfg.ClickSample); err != nil {
					logger.Warn("cannot load click sample", "path", cfg.ClickSample, "error", err)
				}
			}
		}
	}
	go g.load(imagePath)
	return g, nil
}

// load decodes off the game loop; Update picks up the result.
func (g *Game) load(path string) {
	img, err := mozaik.LoadImage(path)
	if err != nil {
		g.loaded <- loadResult{err: err}
		return
	}
	g.loaded <- loadResult{img: mozaik.ToRGBA(img)}
}

func (g *Game) Update() error {
	select {
	case res := <-g.loaded:
		if res.err != nil {
			return res.err
		}
		g.board.SetImage(res.img)
		g.src = ebiten.NewImageFromImage(res.img)
	default:
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyO) {
		g.outlines = !g.outlines
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.showHelp = !g.showHelp
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.board.Scatter(nil)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.board.Reset()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copyLayout()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.screenshot()
	}
	g.mouseUpdate()
	g.touchUpdate()
	return nil
}

func (g *Game) mouseUpdate() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		if g.board.StartDrag(mozaik.Point{X: x, Y: y}) {
			g.player.Pick()
		}
	} else if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.board.DragTo(mozaik.Point{X: x, Y: y})
	} else if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		if _, ok := g.board.Dragging(); ok {
			g.board.EndDrag()
			g.player.Drop()
		}
	}
}

// touchUpdate treats the first touch as the pointer and ignores the rest
// until it lifts.
func (g *Game) touchUpdate() {
	if !g.touching {
		g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
		if len(g.touches) == 0 {
			return
		}
		g.touchID = g.touches[0]
		g.touching = true
		x, y := ebiten.TouchPosition(g.touchID)
		if g.board.StartDrag(mozaik.Point{X: x, Y: y}) {
			g.player.Pick()
		}
		return
	}
	if inpututil.IsTouchJustReleased(g.touchID) {
		g.touching = false
		if _, ok := g.board.Dragging(); ok {
			g.board.EndDrag()
			g.player.Drop()
		}
		return
	}
	x, y := ebiten.TouchPosition(g.touchID)
	g.board.DragTo(mozaik.Point{X: x, Y: y})
}

func (g *Game) copyLayout() {
	data, err := g.board.LayoutJSON()
	if err != nil {
		logger.Error("layout export failed", "error", err)
		return
	}
	if err := clipboard.WriteAll(string(data)); err != nil {
		logger.Error("clipboard write failed", "error", err)
		return
	}
	logger.Info("layout copied to clipboard")
}

func (g *Game) screenshot() {
	g.shots.SetOutlines(g.outlines)
	name := fmt.Sprintf("mozaik-%s.png", time.Now().Format("20060102-150405"))
	if err := g.shots.SavePNG(name, g.board); err != nil {
		logger.Error("screenshot failed", "error", err)
		return
	}
	logger.Info("screenshot saved", "path", name)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	for _, t := range g.board.Tiles() {
		if t.Src.Empty() || t.Dst.Empty() {
			continue
		}
		sub := g.src.SubImage(t.Src).(*ebiten.Image)
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(
			float64(t.Dst.Dx())/float64(t.Src.Dx()),
			float64(t.Dst.Dy())/float64(t.Src.Dy()),
		)
		op.GeoM.Translate(float64(t.Dst.Min.X), float64(t.Dst.Min.Y))
		op.Filter = ebiten.FilterLinear
		screen.DrawImage(sub, op)
	}
	if g.outlines {
		for _, t := range g.board.Tiles() {
			vector.StrokeRect(screen,
				float32(t.Dst.Min.X), float32(t.Dst.Min.Y),
				float32(t.Dst.Dx()), float32(t.Dst.Dy()),
				1, outlineColor, false)
		}
	}
	if g.showHelp {
		ebitenutil.DebugPrint(screen, helpText)
	} else {
		hud := fmt.Sprintf("%d tiles", len(g.board.Tiles()))
		if id, ok := g.board.Dragging(); ok {
			hud = fmt.Sprintf("%s  dragging %d", hud, id)
		}
		ebitenutil.DebugPrint(screen, hud)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.board.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
