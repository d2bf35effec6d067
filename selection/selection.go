// Package selection tracks the multi-selected districts and mirrors them as
// highlight shapes on the document overlay.
package selection

import (
	"sort"

	"github.com/milk9111/votemap/svgmap"
)

// Document is what the manager needs from the rendered map.
type Document interface {
	Entity(id string) *svgmap.Entity
	Overlay() *svgmap.Overlay
}

// Manager owns the selection set.
type Manager struct {
	ids       map[string]struct{}
	doc       Document
	listeners []func(count int)
}

func New() *Manager {
	return &Manager{ids: make(map[string]struct{})}
}

// OnChange registers a listener called with the new selection size after
// every change.
func (m *Manager) OnChange(fn func(count int)) {
	m.listeners = append(m.listeners, fn)
}

// Attach binds the manager to a freshly rendered document. Identifiers that
// no longer exist are dropped and the overlay is rebuilt for the rest.
// Calling it twice with the same document is a no-op.
func (m *Manager) Attach(doc Document) {
	m.doc = doc
	if doc == nil {
		return
	}
	overlay := doc.Overlay()
	overlay.Clear()
	before := len(m.ids)
	for id := range m.ids {
		ent := doc.Entity(id)
		if ent == nil {
			delete(m.ids, id)
			continue
		}
		overlay.Add(id, svgmap.HighlightShape(ent))
	}
	if len(m.ids) != before {
		m.notify()
	}
}

// Toggle flips the selection state of id and reports whether it is now
// selected. Unknown identifiers are ignored.
func (m *Manager) Toggle(id string) bool {
	if _, ok := m.ids[id]; ok {
		delete(m.ids, id)
		if m.doc != nil {
			m.doc.Overlay().Remove(id)
		}
		m.notify()
		return false
	}
	if m.doc != nil {
		ent := m.doc.Entity(id)
		if ent == nil {
			return false
		}
		m.doc.Overlay().Add(id, svgmap.HighlightShape(ent))
	}
	m.ids[id] = struct{}{}
	m.notify()
	return true
}

// Clear empties the set and the whole overlay layer in one step.
func (m *Manager) Clear() {
	if len(m.ids) == 0 {
		return
	}
	m.ids = make(map[string]struct{})
	if m.doc != nil {
		m.doc.Overlay().Clear()
	}
	m.notify()
}

func (m *Manager) Contains(id string) bool {
	_, ok := m.ids[id]
	return ok
}

func (m *Manager) Len() int { return len(m.ids) }

// IDs returns the selection sorted, so requests built from it are stable.
func (m *Manager) IDs() []string {
	out := make([]string, 0, len(m.ids))
	for id := range m.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

func (m *Manager) notify() {
	n := len(m.ids)
	for _, fn := range m.listeners {
		fn(n)
	}
}
