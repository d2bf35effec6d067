package transform

import (
	"fmt"
	"math"
)

const (
	DefaultMinScale  = 0.2
	DefaultMaxScale  = 10.0
	DefaultTopMargin = 20.0
)

// Matrix is the affine transform applied to the map content:
// screen = world*Scale + (TX, TY).
type Matrix struct {
	Scale  float64
	TX, TY float64
}

// Apply maps a content-space point to screen space.
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return x*m.Scale + m.TX, y*m.Scale + m.TY
}

// Invert maps a screen-space point back to content space.
func (m Matrix) Invert(x, y float64) (float64, float64) {
	s := m.Scale
	if s == 0 {
		s = 1
	}
	return (x - m.TX) / s, (y - m.TY) / s
}

// String renders the CSS-equivalent transform.
func (m Matrix) String() string {
	return fmt.Sprintf("translate(%spx, %spx) scale(%s)", trimFloat(m.TX), trimFloat(m.TY), trimFloat(m.Scale))
}

// Target receives the full transform every time it changes.
type Target interface {
	ApplyTransform(m Matrix)
}

// TargetFunc adapts a function to Target.
type TargetFunc func(m Matrix)

func (f TargetFunc) ApplyTransform(m Matrix) { f(m) }

// Size is a width/height pair in pixels.
type Size struct {
	W, H float64
}

// Engine holds the view transform for a zoomable, pannable canvas.
type Engine struct {
	// bounds
	MinScale  float64
	MaxScale  float64
	TopMargin float64

	// current transform
	scale float64
	tx    float64
	ty    float64

	// drag state
	dragging    bool
	startX      float64
	startY      float64
	startTX     float64
	startTY     float64
	pendingMove bool
	pendingX    float64
	pendingY    float64

	viewport Size
	target   Target
}

// New creates an engine with the default scale bounds at identity.
func New(target Target) *Engine {
	return &Engine{
		MinScale:  DefaultMinScale,
		MaxScale:  DefaultMaxScale,
		TopMargin: DefaultTopMargin,
		scale:     1,
		target:    target,
	}
}

// SetTarget swaps the receiver of transform updates and pushes the current state to it.
func (e *Engine) SetTarget(t Target) {
	e.target = t
	e.apply()
}

// SetViewport records the viewport size used for centre-anchored zoom and reset.
func (e *Engine) SetViewport(w, h float64) {
	e.viewport = Size{W: w, H: h}
}

func (e *Engine) Scale() float64 { return e.scale }

func (e *Engine) Translation() (float64, float64) { return e.tx, e.ty }

func (e *Engine) Matrix() Matrix {
	return Matrix{Scale: e.scale, TX: e.tx, TY: e.ty}
}

func (e *Engine) String() string { return e.Matrix().String() }

func (e *Engine) Dragging() bool { return e.dragging }

// Zoom changes the scale by delta around the viewport centre.
func (e *Engine) Zoom(delta float64) {
	e.ZoomAt(delta, e.viewport.W/2, e.viewport.H/2)
}

// ZoomAt changes the scale by delta, keeping the content point under
// (anchorX, anchorY) at the same screen position.
func (e *Engine) ZoomAt(delta, anchorX, anchorY float64) {
	newScale := e.clamp(e.scale + delta)
	worldX := (anchorX - e.tx) / e.scale
	worldY := (anchorY - e.ty) / e.scale
	e.scale = newScale
	e.tx = anchorX - worldX*newScale
	e.ty = anchorY - worldY*newScale
	e.apply()
}

// BeginDrag snapshots the pointer position and the translation.
func (e *Engine) BeginDrag(x, y float64) {
	e.dragging = true
	e.startX, e.startY = x, y
	e.startTX, e.startTY = e.tx, e.ty
	e.pendingMove = false
}

// DragTo records the latest pointer position. The move is applied by Flush,
// so any number of moves within one frame cost a single transform application.
func (e *Engine) DragTo(x, y float64) {
	if !e.dragging {
		return
	}
	e.pendingX, e.pendingY = x, y
	e.pendingMove = true
}

// Flush applies the pending drag move, if any. Call once per frame.
func (e *Engine) Flush() bool {
	if !e.pendingMove {
		return false
	}
	e.pendingMove = false
	e.Pan(e.pendingX-e.startX, e.pendingY-e.startY)
	return true
}

// EndDrag applies any pending move and leaves drag mode.
func (e *Engine) EndDrag() {
	if !e.dragging {
		return
	}
	e.Flush()
	e.dragging = false
}

// Pan sets the translation to the drag-start translation plus the delta.
func (e *Engine) Pan(deltaX, deltaY float64) {
	e.tx = e.startTX + deltaX
	e.ty = e.startTY + deltaY
	e.apply()
}

// Reset restores scale 1, centres the content horizontally and places its
// top edge TopMargin pixels below the viewport top.
func (e *Engine) Reset(content Size) {
	e.scale = 1
	e.tx = (e.viewport.W - content.W) / 2
	e.ty = e.TopMargin
	e.dragging = false
	e.pendingMove = false
	e.apply()
}

// Reapply pushes the unchanged transform to the target again.
func (e *Engine) Reapply() { e.apply() }

func (e *Engine) ScreenToWorld(x, y float64) (float64, float64) {
	return e.Matrix().Invert(x, y)
}

func (e *Engine) WorldToScreen(x, y float64) (float64, float64) {
	return e.Matrix().Apply(x, y)
}

func (e *Engine) clamp(s float64) float64 {
	lo, hi := e.MinScale, e.MaxScale
	if lo <= 0 {
		lo = DefaultMinScale
	}
	if hi < lo {
		hi = lo
	}
	return math.Max(lo, math.Min(hi, s))
}

func (e *Engine) apply() {
	if e.target != nil {
		e.target.ApplyTransform(e.Matrix())
	}
}

func trimFloat(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	for len(s) > 1 && s[len(s)-1] == '0' {
		s = s[:len(s)-1]
	}
	if s[len(s)-1] == '.' {
		s = s[:len(s)-1]
	}
	if s == "-0" {
		s = "0"
	}
	return s
}
