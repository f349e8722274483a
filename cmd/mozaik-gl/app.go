package main

import (
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/mozaik-game/mozaik"
	"github.com/mozaik-game/mozaik/sound"
)

// Event is the type of callback functions sent to the app's events channel
type Event func()

type PuzzleApp struct {
	cfg        mozaik.Config
	imagePath  string
	board      *mozaik.Board
	view       *TileView
	shots      *mozaik.Renderer
	player     *sound.Player
	keyMap     KeyMap
	events     chan Event
	shouldExit bool
	outlines   bool
	dirty      bool
	lastRev    uint64
}

func CreateApp(cfg mozaik.Config, imagePath string) *PuzzleApp {
	return &PuzzleApp{
		cfg:       cfg,
		imagePath: imagePath,
		outlines:  cfg.Outlines,
	}
}

func (app *PuzzleApp) Init() error {
	// Event queue used by background image loading to post updates to the
	// main thread.
	app.events = make(chan Event, 64)

	mode, err := mozaik.ParseDragMode(app.cfg.DragMode)
	if err != nil {
		return err
	}
	app.board = mozaik.NewBoard(app.cfg.Params())
	app.board.SetDragMode(mode)
	// any board mutation wakes WithGL out of WaitEventsTimeout, so the
	// NeedsRedraw check runs before the next frame
	app.board.SetOnChange(glfw.PostEmptyEvent)
	app.board.Resize(fbSize.X, fbSize.Y)

	view, err := CreateTileView()
	if err != nil {
		return err
	}
	app.view = view
	app.shots = mozaik.NewRenderer()

	if !app.cfg.Mute {
		player, err := sound.NewPlayer()
		if err != nil {
			logger.Warn("audio unavailable", "error", err)
		} else {
			app.player = player
			if app.cfg.ClickSample != "" {
				if err := player.LoadClick(app.cfg.ClickSample); err != nil {
					logger.Warn("cannot load click sample", "path", app.cfg.ClickSample, "error", err)
				}
			}
		}
	}

	keyMap := CreateKeyMap()
	keyMap.Bind("o", app.ToggleOutlines)
	keyMap.Bind("s", app.Scatter)
	keyMap.Bind("r", app.ResetBoard)
	keyMap.Bind("c", app.CopyLayout)
	keyMap.Bind("p", app.Screenshot)
	keyMap.Bind("q", app.Quit)
	keyMap.Bind("Escape", app.Quit)
	app.keyMap = keyMap

	go app.loadImage()
	return nil
}

// loadImage decodes off the main thread; texture upload and the board
// update run on it.
func (app *PuzzleApp) loadImage() {
	img, err := mozaik.LoadImage(app.imagePath)
	if err != nil {
		app.postEvent(func() {
			logger.Error("cannot load image", "path", app.imagePath, "error", err)
			app.shouldExit = true
		})
		return
	}
	rgba := mozaik.ToRGBA(img)
	app.postEvent(func() {
		app.view.SetImage(rgba)
		app.board.SetImage(rgba)
		app.dirty = true
	})
}

func (app *PuzzleApp) postEvent(ev Event) {
	app.events <- ev
	glfw.PostEmptyEvent()
}

func (app *PuzzleApp) drainEvents() {
	for {
		select {
		case ev := <-app.events:
			ev()
		default:
			return // nothing queued right now
		}
	}
}

func (app *PuzzleApp) Update() error {
	app.drainEvents()
	return nil
}

func (app *PuzzleApp) IsRunning() bool {
	return !app.shouldExit
}

func (app *PuzzleApp) Quit() {
	app.shouldExit = true
}

func (app *PuzzleApp) ToggleOutlines() {
	app.outlines = !app.outlines
	app.dirty = true
}

func (app *PuzzleApp) Scatter() {
	app.board.Scatter(nil)
}

func (app *PuzzleApp) ResetBoard() {
	app.board.Reset()
}

func (app *PuzzleApp) CopyLayout() {
	data, err := app.board.LayoutJSON()
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

func (app *PuzzleApp) Screenshot() {
	app.shots.SetOutlines(app.outlines)
	name := fmt.Sprintf("mozaik-%s.png", time.Now().Format("20060102-150405"))
	if err := app.shots.SavePNG(name, app.board); err != nil {
		logger.Error("screenshot failed", "error", err)
		return
	}
	logger.Info("screenshot saved", "path", name)
}

func (app *PuzzleApp) OnKey(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	name := KeyName(key, scancode, mods)
	if name == "" {
		return
	}
	app.keyMap.HandleKey(name)
}

func (app *PuzzleApp) OnMouseButton(button glfw.MouseButton, action glfw.Action, pos mozaik.Point) {
	if button != glfw.MouseButtonLeft {
		return
	}
	switch action {
	case glfw.Press:
		if app.board.StartDrag(pos) {
			app.player.Pick()
		}
	case glfw.Release:
		if _, ok := app.board.Dragging(); ok {
			app.board.EndDrag()
			app.player.Drop()
		}
	}
}

func (app *PuzzleApp) OnCursorPos(pos mozaik.Point) {
	app.board.DragTo(pos)
}

func (app *PuzzleApp) OnFramebufferSize(width, height int) {
	logger.Debug("OnFramebufferSize", "width", width, "height", height)
	// the first callback fires before Init; Init reads fbSize itself
	if app.board == nil {
		return
	}
	app.board.Resize(width, height)
	app.dirty = true
}

func (app *PuzzleApp) NeedsRedraw() bool {
	return app.dirty || app.board.Revision() != app.lastRev
}

func (app *PuzzleApp) BgColor() (r, g, b, a float32) {
	return 0x20 / 255.0, 0x20 / 255.0, 0x28 / 255.0, 1
}

func (app *PuzzleApp) Render() error {
	app.view.Render(app.board.Tiles(), app.outlines)
	app.lastRev = app.board.Revision()
	app.dirty = false
	return nil
}

func (app *PuzzleApp) Close() error {
	app.player.Close()
	if app.view != nil {
		app.view.Close()
	}
	return nil
}
