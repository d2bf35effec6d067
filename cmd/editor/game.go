package main

import (
	"context"
	"fmt"
	"image/color"
	"log"
	"path/filepath"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/votemap/api"
	"github.com/milk9111/votemap/config"
	"github.com/milk9111/votemap/dispatch"
	"github.com/milk9111/votemap/journal"
	"github.com/milk9111/votemap/panel"
	"github.com/milk9111/votemap/render"
	"github.com/milk9111/votemap/session"
	"github.com/milk9111/votemap/svgmap"
	"github.com/milk9111/votemap/transform"
	"github.com/milk9111/votemap/viewmode"
	"github.com/milk9111/votemap/watch"
)

const controlsHelp = "Wheel: zoom   Drag: pan   Click: edit   Shift/Ctrl+Click: select   Ctrl+C: copy ids   V: view   Esc: close"

// EditorGame wires the controllers to the ebiten loop. Everything it touches
// is mutated on the Update goroutine; network work comes back through queue.
type EditorGame struct {
	cfg config.Config

	state  *session.State
	queue  *dispatch.Queue
	cancel context.CancelFunc
	view   *transform.Engine
	orch   *render.Orchestrator
	ctl    *panel.Controller
	canvas *Canvas
	hover  *Hover
	ui     *EditorUI

	journal *journal.Journal
	watcher *watch.Watcher

	dirty   bool
	screenW int
	screenH int
}

func NewEditorGame(cfg config.Config) (*EditorGame, error) {
	g := &EditorGame{cfg: cfg}

	palette, err := loadPalette(cfg.PaletteScript)
	if err != nil {
		return nil, err
	}
	g.state = session.New(palette)
	if cfg.Mode != "" {
		mode, err := viewmode.ParseMode(cfg.Mode)
		if err != nil {
			return nil, err
		}
		g.state.View.Set(mode)
	}

	ctx, cancel := context.WithCancel(context.Background())
	g.queue = dispatch.NewQueue(ctx)
	g.cancel = cancel

	g.view = transform.New(nil)
	g.view.MinScale = cfg.Zoom.Min
	g.view.MaxScale = cfg.Zoom.Max
	g.view.TopMargin = cfg.Zoom.TopMargin

	// the dialog is built after the controllers that raise alerts
	var alerts *alertDialog
	alert := session.AlertFunc(func(msg string) {
		if alerts != nil {
			alerts.Alert(msg)
			return
		}
		log.Printf("alert: %s", msg)
	})

	client := api.New(cfg.Server, cfg.Timeout)
	g.orch = render.New(client, g.queue, g.view, alert)
	g.orch.SetForm(render.Form{
		SVGPath:     cfg.SVG,
		CSVPath:     cfg.CSV,
		Title:       cfg.Title,
		StrokeWidth: cfg.StrokeWidth,
	})
	g.ctl = panel.New(g.state, client, g.queue, g.orch, alert)

	if cfg.Journal != "" {
		j, err := journal.Open(cfg.Journal)
		if err != nil {
			log.Printf("Journal disabled: %v", err)
		} else {
			g.journal = j
			g.ctl.SetJournal(j)
		}
	}

	g.hover = &Hover{}
	g.canvas = NewCanvas(g.view, g.hover, cfg.Zoom.Step)
	g.canvas.LeftPanelW = leftPanelWidth
	g.canvas.RightPanelW = rightPanelWidth
	g.canvas.OnClick = func(id string, toggle bool) {
		if toggle {
			g.ctl.ToggleSelect(id)
			return
		}
		g.ctl.OpenSingle(id)
	}
	g.canvas.OnClickEmpty = g.ctl.ClearSelection
	g.view.SetTarget(g.canvas)

	g.orch.AddTarget(g.canvas)
	g.orch.AddTarget(render.AttachFunc(func(doc *svgmap.Document) { g.state.Selection.Attach(doc) }))
	g.orch.AddTarget(render.AttachFunc(func(doc *svgmap.Document) { g.state.View.Attach(doc) }))
	g.orch.AddTarget(g.hover)

	g.ui = BuildEditorUI(g.state, g.orch, g.ctl, g.zoomStep, g.resetView, g.download)
	alerts = g.ui.Alerts

	markDirty := func() { g.dirty = true }
	g.orch.OnChange(markDirty)
	g.ctl.OnChange(markDirty)
	g.state.View.OnChange(func(viewmode.Mode) { g.dirty = true })
	g.dirty = true

	if cfg.WatchInputs || cfg.PaletteScript != "" {
		if err := g.startWatcher(); err != nil {
			log.Printf("Watch disabled: %v", err)
		}
	}

	if cfg.SVG != "" {
		if err := g.orch.Render(false); err != nil {
			log.Printf("Initial render: %v", err)
		}
	}
	return g, nil
}

func loadPalette(path string) (viewmode.Palette, error) {
	if path == "" {
		return nil, nil
	}
	p, err := viewmode.LoadScriptPalette(path)
	if err != nil {
		return nil, fmt.Errorf("palette script: %w", err)
	}
	log.Printf("Loaded palette script %s", path)
	return p, nil
}

func (g *EditorGame) startWatcher() error {
	var paths []string
	if g.cfg.WatchInputs {
		paths = append(paths, g.cfg.SVG, g.cfg.CSV)
	}
	paths = append(paths, g.cfg.PaletteScript)
	w, err := watch.NewWatcher(paths...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

// Close stops background work and releases the journal and watcher.
func (g *EditorGame) Close() {
	g.cancel()
	g.queue.Wait()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if g.journal != nil {
		if err := g.journal.Close(); err != nil {
			log.Printf("journal close: %v", err)
		}
	}
}

func (g *EditorGame) Update() error {
	g.ui.UI.Update()
	g.queue.Drain()
	g.pollWatcher()

	// If the UI has a focused text widget (user is typing), suppress hotkeys.
	suppressHotkeys := g.ui.Alerts.Open()
	if fw := g.ui.UI.GetFocusedWidget(); fw != nil {
		switch fw.(type) {
		case *widget.TextInput:
			suppressHotkeys = true
		}
	}
	if !suppressHotkeys {
		if err := g.hotkeys(); err != nil {
			return err
		}
	}

	mx, my := ebiten.CursorPosition()
	g.canvas.Update(mx, my, g.pointerBlocked(mx, my))

	if g.dirty {
		g.dirty = false
		g.ui.Sync(g.state.View.Mode())
	}
	return nil
}

func (g *EditorGame) hotkeys() error {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)

	if inpututil.IsKeyJustPressed(ebiten.KeyF12) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		g.ctl.Close()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyV) && !ctrl {
		mode := g.state.View.Toggle()
		log.Printf("View mode: %s", mode)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) && ctrl {
		copySelection(g.state.Selection.IDs())
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) && ctrl && g.ctl.Mode() != panel.Closed {
		if err := g.ctl.Primary(); err != nil {
			log.Printf("%s: %v", g.ctl.Mode(), err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) && ctrl {
		if err := g.orch.Render(false); err != nil {
			log.Printf("Render: %v", err)
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.Key0) && ctrl {
		g.resetView()
	}
	return nil
}

// pointerBlocked reports whether the cursor is over a widget rather than the
// map.
func (g *EditorGame) pointerBlocked(mx, my int) bool {
	if g.ui.Alerts.Open() {
		return true
	}
	// toolbar strip at the top centre
	return my < 48 && abs(mx-g.screenW/2) < 200
}

func (g *EditorGame) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			g.fileChanged(path)
		case err, ok := <-g.watcher.Errors:
			if ok {
				log.Printf("watch: %v", err)
			}
		default:
			return
		}
	}
}

func (g *EditorGame) fileChanged(path string) {
	if g.cfg.PaletteScript != "" && samePath(path, g.cfg.PaletteScript) {
		p, err := viewmode.LoadScriptPalette(path)
		if err != nil {
			log.Printf("Palette reload failed: %v", err)
			return
		}
		g.state.View.SetPalette(p)
		log.Printf("Reloaded palette script %s", path)
		return
	}
	log.Printf("Input changed: %s", path)
	if err := g.orch.Reupload(path); err != nil {
		log.Printf("Re-upload: %v", err)
	}
}

func samePath(a, b string) bool {
	aa, err1 := filepath.Abs(a)
	bb, err2 := filepath.Abs(b)
	return err1 == nil && err2 == nil && aa == bb
}

func (g *EditorGame) zoomStep(dir int) {
	g.view.Zoom(float64(dir) * g.cfg.Zoom.Step)
}

func (g *EditorGame) resetView() {
	doc := g.orch.Document()
	if doc == nil {
		return
	}
	w, h := doc.Size()
	g.view.Reset(transform.Size{W: w, H: h})
}

func (g *EditorGame) download() {
	url := g.orch.DownloadURL()
	name := filepath.Base(url)
	if name == "." || name == "/" || name == "" {
		name = "map.svg"
	}
	dst, err := saveOutputDialog(name)
	if err != nil {
		log.Printf("Save dialog unavailable (%v); saving to %s", err, name)
		dst = name
	}
	if dst == "" {
		return
	}
	if err := g.orch.Download(dst); err != nil {
		g.ui.Alerts.Alert(err.Error())
	}
}

func (g *EditorGame) Draw(screen *ebiten.Image) {
	mx, my := ebiten.CursorPosition()
	g.canvas.Draw(screen, g.ui.Face, mx, my)

	op := &text.DrawOptions{}
	op.GeoM.Translate(float64(leftPanelWidth+8), float64(g.screenH-22))
	op.ColorScale.ScaleWithColor(color.Gray{Y: 70})
	text.Draw(screen, fmt.Sprintf("%s   zoom %.0f%%", controlsHelp, g.view.Scale()*100), g.ui.Face, op)

	g.ui.UI.Draw(screen)
}

func (g *EditorGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.screenW, g.screenH = outsideWidth, outsideHeight
	g.canvas.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
