// Package session holds the editor's shared application state. One State is
// created at start-up and handed by reference to every controller.
package session

import (
	"github.com/milk9111/votemap/selection"
	"github.com/milk9111/votemap/viewmode"
)

// Alerter shows a blocking message to the user.
type Alerter interface {
	Alert(msg string)
}

// AlertFunc adapts a function to Alerter.
type AlertFunc func(msg string)

func (f AlertFunc) Alert(msg string) { f(msg) }

type State struct {
	Selection *selection.Manager
	View      *viewmode.Switch
	Catalog   *Catalog

	// Editing is the district open in the single editor, "" when none.
	Editing string
}

// New creates the state with an empty selection, result view and catalog.
// A nil palette selects the bucket table.
func New(p viewmode.Palette) *State {
	return &State{
		Selection: selection.New(),
		View:      viewmode.New(p),
		Catalog:   NewCatalog(),
	}
}
