package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/votemap/svgmap"
	"github.com/milk9111/votemap/transform"
)

// clickSlop is how far (in pixels) the pointer may travel between press and
// release for the gesture to count as a click rather than a pan.
const clickSlop = 4

// Canvas is the map viewport between the two side panels. It owns pointer
// input over the map and draws the current document through the view
// transform.
type Canvas struct {
	// UI/layout
	LeftPanelW  int
	RightPanelW int
	screenW     int
	screenH     int

	View  *transform.Engine
	Hover *Hover
	Step  float64

	doc    *svgmap.Document
	paths  *pathCache
	matrix transform.Matrix

	// press state
	pressed bool
	pressX  int
	pressY  int
	moved   bool

	// OnClick receives a click on a district; toggle is set for modifier-clicks.
	OnClick func(id string, toggle bool)
	// OnClickEmpty receives a non-modifier click on empty map space.
	OnClickEmpty func()
}

func NewCanvas(view *transform.Engine, hover *Hover, step float64) *Canvas {
	c := &Canvas{View: view, Hover: hover, Step: step, paths: newPathCache()}
	c.matrix = view.Matrix()
	return c
}

// ApplyTransform records the transform the engine pushed; Draw uses it.
func (c *Canvas) ApplyTransform(m transform.Matrix) { c.matrix = m }

// Attach binds the canvas to a freshly rendered document.
func (c *Canvas) Attach(doc *svgmap.Document) {
	c.doc = doc
	c.paths.Attach(doc)
}

// Resize records the screen size and hands the viewport to the engine.
func (c *Canvas) Resize(w, h int) {
	if w == c.screenW && h == c.screenH {
		return
	}
	c.screenW, c.screenH = w, h
	c.View.SetViewport(float64(c.width()), float64(h))
}

func (c *Canvas) width() int {
	w := c.screenW - c.LeftPanelW - c.RightPanelW
	if w < 0 {
		return 0
	}
	return w
}

func (c *Canvas) inside(mx, my int) bool {
	return mx >= c.LeftPanelW && mx < c.LeftPanelW+c.width() && my >= 0 && my < c.screenH
}

// local converts a screen pixel to viewport-local coordinates.
func (c *Canvas) local(mx, my int) (float64, float64) {
	return float64(mx - c.LeftPanelW), float64(my)
}

// Update handles wheel zoom, drag pan, click routing and hover. blocked is
// set while a modal overlay or a panel owns the pointer.
func (c *Canvas) Update(mx, my int, blocked bool) {
	over := !blocked && c.inside(mx, my)

	if over {
		if _, wy := ebiten.Wheel(); wy != 0 {
			lx, ly := c.local(mx, my)
			if wy > 0 {
				c.View.ZoomAt(c.Step, lx, ly)
			} else {
				c.View.ZoomAt(-c.Step, lx, ly)
			}
		}
	}

	if over && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		c.pressed = true
		c.moved = false
		c.pressX, c.pressY = mx, my
		lx, ly := c.local(mx, my)
		c.View.BeginDrag(lx, ly)
	}

	if c.pressed {
		if abs(mx-c.pressX) > clickSlop || abs(my-c.pressY) > clickSlop {
			c.moved = true
		}
		if c.moved {
			lx, ly := c.local(mx, my)
			c.View.DragTo(lx, ly)
		}
		if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
			c.pressed = false
			c.View.EndDrag()
			if !c.moved {
				c.click(mx, my)
			}
		}
	}
	// one transform application per frame however many moves arrived
	c.View.Flush()

	if over && !c.View.Dragging() {
		wx, wy := c.View.ScreenToWorld(c.local(mx, my))
		c.Hover.Move(wx, wy)
	} else {
		c.Hover.Leave()
	}
}

func (c *Canvas) click(mx, my int) {
	if c.doc == nil {
		return
	}
	toggle := modifierHeld()
	wx, wy := c.View.ScreenToWorld(c.local(mx, my))
	if e := c.doc.EntityAt(wx, wy); e != nil {
		if c.OnClick != nil {
			c.OnClick(e.ID, toggle)
		}
		return
	}
	if !toggle && c.OnClickEmpty != nil {
		c.OnClickEmpty()
	}
}

func modifierHeld() bool {
	return ebiten.IsKeyPressed(ebiten.KeyShift) ||
		ebiten.IsKeyPressed(ebiten.KeyControl) ||
		ebiten.IsKeyPressed(ebiten.KeyMeta)
}

var (
	canvasBackground = color.RGBA{235, 235, 235, 255}
	paperColor       = color.RGBA{255, 255, 255, 255}
	tooltipBG        = color.RGBA{30, 30, 30, 230}
)

// Draw paints the document shapes, the highlight overlay, the map texts and
// the tooltip into the viewport.
func (c *Canvas) Draw(screen *ebiten.Image, face text.Face, mx, my int) {
	ox := float64(c.LeftPanelW)
	vector.FillRect(screen, float32(ox), 0, float32(c.width()), float32(c.screenH), canvasBackground, false)
	if c.doc == nil {
		msg := "Choose an SVG and CSV file, then Render"
		op := &text.DrawOptions{}
		op.GeoM.Translate(ox+float64(c.width())/2, float64(c.screenH)/2)
		op.PrimaryAlign = text.AlignCenter
		op.ColorScale.ScaleWithColor(color.Gray{Y: 90})
		text.Draw(screen, msg, face, op)
		return
	}

	m := c.matrix
	w, h := c.doc.Size()
	x0, y0 := m.Apply(0, 0)
	vector.FillRect(screen, float32(x0+ox), float32(y0), float32(w*m.Scale), float32(h*m.Scale), paperColor, false)

	for _, s := range c.doc.Shapes() {
		fill, ok := shapeFill(s)
		if !ok || !s.Closed {
			continue
		}
		c.fillShape(screen, s, fill, ox)
	}

	for _, s := range c.doc.Shapes() {
		if s.Style.HasStroke {
			c.strokeShape(screen, s, s.Style.Stroke, s.Style.StrokeWidth, ox)
		}
	}

	overlay := c.doc.Overlay()
	overlay.Each(func(_ string, s *svgmap.Shape) {
		c.fillShape(screen, s, s.Style.Fill, ox)
	})
	overlay.Each(func(_ string, s *svgmap.Shape) {
		c.strokeShape(screen, s, s.Style.Stroke, s.Style.StrokeWidth, ox)
	})

	for _, t := range c.doc.Texts() {
		c.drawText(screen, face, t, ox)
	}

	if e := c.Hover.Entity(); e != nil {
		c.strokeShape(screen, e.Shape, color.RGBA{20, 20, 20, 255}, e.Shape.Style.StrokeWidth+1, ox)
		drawTooltip(screen, face, c.Hover.Lines(), mx, my)
	}
}

func shapeFill(s *svgmap.Shape) (color.RGBA, bool) {
	if s.Entity != nil {
		return s.Entity.Fill, true
	}
	return s.Style.Fill, s.Style.HasFill
}

func (c *Canvas) fillShape(screen *ebiten.Image, s *svgmap.Shape, fill color.RGBA, ox float64) {
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(fill)
	vector.FillPath(screen, c.paths.placed(s, c.matrix, ox), fillEvenOdd, op)
}

func (c *Canvas) strokeShape(screen *ebiten.Image, s *svgmap.Shape, clr color.RGBA, width, ox float64) {
	sw := float32(width * c.matrix.Scale)
	if sw < 1 {
		sw = 1
	}
	op := &vector.DrawPathOptions{AntiAlias: true}
	op.ColorScale.ScaleWithColor(clr)
	vector.StrokePath(screen, c.paths.placed(s, c.matrix, ox), &vector.StrokeOptions{Width: sw, LineJoin: vector.LineJoinRound}, op)
}

func (c *Canvas) drawText(screen *ebiten.Image, face text.Face, t svgmap.Text, ox float64) {
	if t.Content == "" {
		return
	}
	x, y := c.matrix.Apply(t.X, t.Y)
	size := t.Size * c.matrix.Scale
	if size < 4 {
		return
	}
	f := face
	if gf, ok := face.(*text.GoTextFace); ok {
		f = &text.GoTextFace{Source: gf.Source, Size: size}
	}
	op := &text.DrawOptions{}
	// svg text sits on its baseline
	op.GeoM.Translate(x+ox, y-size)
	switch t.Anchor {
	case "middle":
		op.PrimaryAlign = text.AlignCenter
	case "end":
		op.PrimaryAlign = text.AlignEnd
	}
	op.ColorScale.ScaleWithColor(t.Color)
	text.Draw(screen, t.Content, f, op)
}

func drawTooltip(screen *ebiten.Image, face text.Face, lines []string, mx, my int) {
	if len(lines) == 0 {
		return
	}
	const pad, lineH = 6, 18
	w := 0.0
	for _, l := range lines {
		if lw, _ := text.Measure(l, face, lineH); lw > w {
			w = lw
		}
	}
	bw := float32(w) + 2*pad
	bh := float32(len(lines)*lineH) + 2*pad
	x := float32(mx + 16)
	y := float32(my + 16)
	sw, sh := screen.Bounds().Dx(), screen.Bounds().Dy()
	if x+bw > float32(sw) {
		x = float32(mx) - bw - 8
	}
	if y+bh > float32(sh) {
		y = float32(my) - bh - 8
	}
	vector.FillRect(screen, x, y, bw, bh, tooltipBG, false)
	for i, l := range lines {
		op := &text.DrawOptions{}
		op.GeoM.Translate(float64(x)+pad, float64(y)+pad+float64(i*lineH))
		op.ColorScale.ScaleWithColor(color.White)
		text.Draw(screen, l, face, op)
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
