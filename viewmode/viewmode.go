// Package viewmode switches the painted fill of every district between the
// election result colours and a seat-count heat map.
package viewmode

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/milk9111/votemap/svgmap"
)

type Mode string

const (
	Result Mode = "result"
	Seats  Mode = "seats"
)

func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Result, "":
		return Result, nil
	case Seats:
		return Seats, nil
	}
	return "", fmt.Errorf("viewmode: unknown mode %q", s)
}

// Palette maps a seat count to a fill colour.
type Palette interface {
	Color(seats int) color.RGBA
}

// Document is the part of a rendered map the switch repaints.
type Document interface {
	Entities() []*svgmap.Entity
}

// Switch owns the current view mode and repaints the attached document.
type Switch struct {
	mode      Mode
	palette   Palette
	doc       Document
	listeners []func(Mode)
}

// New starts in result mode. A nil palette selects BucketPalette.
func New(p Palette) *Switch {
	if p == nil {
		p = BucketPalette{}
	}
	return &Switch{mode: Result, palette: p}
}

func (s *Switch) Mode() Mode { return s.mode }

func (s *Switch) SetPalette(p Palette) {
	if p == nil {
		p = BucketPalette{}
	}
	s.palette = p
	s.repaint()
}

func (s *Switch) OnChange(fn func(Mode)) {
	s.listeners = append(s.listeners, fn)
}

// Set changes the mode and repaints the attached document.
func (s *Switch) Set(m Mode) {
	if m != Seats {
		m = Result
	}
	changed := m != s.mode
	s.mode = m
	s.repaint()
	if changed {
		for _, fn := range s.listeners {
			fn(m)
		}
	}
}

// Toggle flips between result and seats and returns the new mode.
func (s *Switch) Toggle() Mode {
	if s.mode == Seats {
		s.Set(Result)
	} else {
		s.Set(Seats)
	}
	return s.mode
}

// Attach binds a freshly rendered document and paints it in the current
// mode. Safe to call repeatedly with the same document.
func (s *Switch) Attach(doc Document) {
	s.doc = doc
	s.repaint()
}

// Apply paints doc in the current mode without binding it.
func (s *Switch) Apply(doc Document) {
	if doc == nil {
		return
	}
	for _, e := range doc.Entities() {
		if s.mode == Seats {
			e.Fill = s.palette.Color(e.Seats)
		} else {
			e.Fill = e.OriginalFill
		}
	}
}

func (s *Switch) repaint() { s.Apply(s.doc) }
