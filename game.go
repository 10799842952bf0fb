package main

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/campusmap/config"
	"github.com/milk9111/campusmap/floors"
	"github.com/milk9111/campusmap/viewer"
)

type GameOptions struct {
	Config  *config.Config
	Profile viewer.Profile
	Table   *floors.Table
	Floor   string
	Visits  int
	Debug   bool
}

type Game struct {
	ticks  int
	debug  bool
	width  int
	height int
	cancel context.CancelFunc

	frames     *viewer.FrameQueue
	controller *viewer.Controller
	surface    *MapSurface
	controls   *ControlsUI
	input      *Input

	table    *floors.Table
	cache    *floors.Preloader
	selector *floors.Selector
	watcher  *floors.Watcher
}

// indicators fans the selector's loading state out to several widgets.
type indicators []floors.Indicator

func (is indicators) SetLoading(loading bool) {
	for _, i := range is {
		i.SetLoading(loading)
	}
}

func NewGame(opts GameOptions) (*Game, error) {
	cfg := opts.Config
	g := &Game{
		debug:  opts.Debug,
		width:  cfg.Window.Width,
		height: cfg.Window.Height,
		frames: viewer.NewFrameQueue(),
		table:  opts.Table,
	}

	g.surface = NewMapSurface(image.Rect(0, toolbarHeight, g.width, g.height))
	g.controls = NewControlsUI(g.table, ControlActions{
		ZoomIn:  func() { g.controller.ZoomIn() },
		ZoomOut: func() { g.controller.ZoomOut() },
		Reset:   func() { g.controller.Reset() },
		SelectFloor: func(id string) {
			if err := g.selector.Select(id); err != nil {
				log.Printf("select floor: %v", err)
			}
		},
	})
	g.controller = viewer.NewController(opts.Profile, g.surface, g.controls, g.frames)
	g.input = NewInput(g.controller, g.controller, g.surface.Contains)

	ctx, cancel := context.WithCancel(context.Background())
	g.cancel = cancel
	g.cache = floors.NewPreloader(cfg.AssetsDir, floors.DecodeFile, cfg.PreloadWorkers)
	g.cache.Start(ctx, g.table.Floors)

	g.selector = floors.NewSelector(g.table, g.cache, g.controller, g.surface)
	g.selector.SetIndicator(indicators{g.controls, g.surface})
	g.selector.SetSettleDelay(cfg.SettleDelay())
	g.selector.OnChange(func(f floors.Floor) {
		g.controls.SetActiveFloor(f)
		g.controls.SetSidebarOpen(false)
		if g.debug {
			log.Printf("floor %s (%s)", f.ID, f.File)
		}
	})

	if opts.Visits >= 0 {
		g.controls.SetVisits(opts.Visits)
	}

	if cfg.WatchAssets {
		w, err := floors.NewWatcher(cfg.AssetsDir)
		if err != nil {
			log.Printf("asset watcher disabled: %v", err)
		} else {
			g.watcher = w
		}
	}

	if err := g.selector.Select(startFloor(g.table, opts.Floor)); err != nil {
		g.Close()
		return nil, err
	}
	return g, nil
}

// startFloor resolves a floor id, asset name or sidebar link to a floor id,
// falling back to the table default.
func startFloor(t *floors.Table, name string) string {
	if name == "" {
		return t.Default
	}
	if f, ok := t.Resolve(name); ok {
		return f.ID
	}
	if f, ok := t.ByFile(name); ok {
		return f.ID
	}
	if id, ok := floors.ParseLinkID(name); ok {
		if f, ok := t.Resolve(id); ok {
			return f.ID
		}
	}
	log.Printf("unknown floor %q, showing %s", name, t.Default)
	return t.Default
}

func (g *Game) Close() {
	if g.watcher != nil {
		if err := g.watcher.Close(); err != nil {
			log.Printf("closing asset watcher: %v", err)
		}
	}
	g.cancel()
}

func (g *Game) Update() error {
	g.ticks++

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		g.Close()
		os.Exit(0)
	}
	g.handleKeys()

	g.reloadChangedAssets()
	g.selector.Update()

	g.controls.UI.Update()
	g.input.Update()
	g.surface.Update()
	return nil
}

func (g *Game) handleKeys() {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		g.controls.ToggleSidebar()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.controls.SetSidebarOpen(false)
	}
}

func (g *Game) reloadChangedAssets() {
	if g.watcher == nil {
		return
	}
	select {
	case err := <-g.watcher.Errors:
		log.Printf("asset watcher: %v", err)
	default:
	}
	for _, name := range g.watcher.Drain() {
		f, ok := g.table.ByFile(name)
		if !ok {
			continue
		}
		if g.selector.Refresh(f.ID) {
			log.Printf("reloaded %s", name)
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	// Draw is the frame boundary: queued syncs are applied exactly once here.
	g.frames.Flush()

	g.surface.Draw(screen)
	g.controls.UI.Draw(screen)

	if g.debug {
		st := g.controller.State()
		ebitenutil.DebugPrintAt(screen, fmt.Sprintf("FPS: %.2f  %s  in flight: %d", ebiten.ActualFPS(), st, g.cache.InFlight()), 4, g.height-16)
	}
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	return float64(g.width), float64(g.height)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}
