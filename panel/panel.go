// Package panel drives the editor side panel: the single-district vote
// editor and the batch swing form, and the primary action each one owns.
package panel

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/votemap/api"
	"github.com/milk9111/votemap/dispatch"
	"github.com/milk9111/votemap/journal"
	"github.com/milk9111/votemap/ledger"
	"github.com/milk9111/votemap/session"
)

type Mode int

const (
	Closed Mode = iota
	Single
	Batch
)

func (m Mode) String() string {
	switch m {
	case Single:
		return "single"
	case Batch:
		return "batch"
	}
	return "closed"
}

var (
	ErrZeroSwing      = errors.New("swing percent must not be zero")
	ErrNoParty        = errors.New("choose a party to swing")
	ErrEmptySelection = errors.New("no districts selected")
	ErrNotEditing     = errors.New("no district is open")
	ErrBusy           = errors.New("an edit is already in flight")
)

// Server is the part of the HTTP contract the panel uses.
type Server interface {
	District(ctx context.Context, id string) (api.District, error)
	UpdateDistrict(ctx context.Context, r api.UpdateRequest) error
	BatchSwing(ctx context.Context, r api.SwingRequest) error
}

// Renderer re-renders the map after a committed edit.
type Renderer interface {
	Render(preserve bool) error
}

// Recorder journals committed edits.
type Recorder interface {
	Record(ctx context.Context, kind journal.Kind, districts []string, payload any) (journal.Entry, error)
}

// SwingForm is the batch panel's form state.
type SwingForm struct {
	PartyID   string
	Percent   float64
	LockTotal bool
}

type Controller struct {
	state    *session.State
	server   Server
	runner   dispatch.Runner
	renderer Renderer
	alert    session.Alerter
	journal  Recorder

	mode    Mode
	title   string
	ledger  *ledger.Ledger
	seats   int
	loading bool
	busy    bool
	swing   SwingForm

	listeners []func()
}

func New(state *session.State, server Server, runner dispatch.Runner, renderer Renderer, alert session.Alerter) *Controller {
	c := &Controller{
		state:    state,
		server:   server,
		runner:   runner,
		renderer: renderer,
		alert:    alert,
		swing:    SwingForm{LockTotal: true},
	}
	state.Selection.OnChange(c.selectionChanged)
	return c
}

// SetJournal enables journaling of committed edits.
func (c *Controller) SetJournal(r Recorder) { c.journal = r }

// OnChange registers a callback run after any visible panel state changes.
func (c *Controller) OnChange(fn func()) { c.listeners = append(c.listeners, fn) }

func (c *Controller) Mode() Mode             { return c.mode }
func (c *Controller) Title() string          { return c.title }
func (c *Controller) Ledger() *ledger.Ledger { return c.ledger }
func (c *Controller) Seats() int             { return c.seats }
func (c *Controller) Loading() bool          { return c.loading }
func (c *Controller) Busy() bool             { return c.busy }
func (c *Controller) Swing() SwingForm       { return c.swing }
func (c *Controller) SelectedCount() int     { return c.state.Selection.Len() }

// PrimaryLabel is the text of the primary action button for the current mode.
func (c *Controller) PrimaryLabel() string {
	switch c.mode {
	case Single:
		if c.busy {
			return "Saving…"
		}
		return "Save"
	case Batch:
		if c.busy {
			return "Applying…"
		}
		return "Apply swing"
	}
	return ""
}

// PrimaryEnabled reports whether the primary button accepts clicks.
func (c *Controller) PrimaryEnabled() bool {
	switch c.mode {
	case Single:
		return !c.busy && !c.loading && c.ledger != nil
	case Batch:
		return !c.busy
	}
	return false
}

// Primary runs the action of the current mode.
func (c *Controller) Primary() error {
	switch c.mode {
	case Single:
		return c.Save()
	case Batch:
		return c.ApplySwing()
	}
	return nil
}

func (c *Controller) SetSeats(n int) {
	if n < 0 {
		n = 0
	}
	c.seats = n
	c.changed()
}

func (c *Controller) SetSwingParty(id string) {
	c.swing.PartyID = id
	c.changed()
}

func (c *Controller) SetSwingPercent(p float64) {
	c.swing.Percent = p
	c.changed()
}

func (c *Controller) SetSwingLock(on bool) {
	c.swing.LockTotal = on
	c.changed()
}

// Close hides the panel. The selection is left alone.
func (c *Controller) Close() {
	c.mode = Closed
	c.state.Editing = ""
	c.ledger = nil
	c.title = ""
	c.loading = false
	c.changed()
}

// ToggleSelect flips id in the selection (a modifier-click) and switches to
// the batch form while anything is selected.
func (c *Controller) ToggleSelect(id string) bool {
	on := c.state.Selection.Toggle(id)
	if c.state.Selection.Len() > 0 && c.mode != Batch {
		c.mode = Batch
		c.state.Editing = ""
		c.ledger = nil
		c.loading = false
		c.title = fmt.Sprintf("%d selected", c.state.Selection.Len())
		c.changed()
	}
	return on
}

// ClearSelection empties the selection, closing the batch form.
func (c *Controller) ClearSelection() { c.state.Selection.Clear() }

func (c *Controller) selectionChanged(count int) {
	if c.mode != Batch {
		return
	}
	if count == 0 {
		c.mode = Closed
		c.title = ""
	} else {
		c.title = fmt.Sprintf("%d selected", count)
	}
	c.changed()
}

func (c *Controller) fail(action string, err error) {
	log.Printf("%s failed: %v", action, err)
	c.alert.Alert(api.Describe(action, err))
}

func (c *Controller) changed() {
	for _, fn := range c.listeners {
		fn()
	}
}
