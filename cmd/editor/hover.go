package main

import (
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/milk9111/votemap/svgmap"
)

// Hover tracks the district under the cursor and the tooltip shown for it.
type Hover struct {
	doc *svgmap.Document
	id  string
}

// Attach rebinds to a new document; the hovered id is dropped if it is gone.
func (h *Hover) Attach(doc *svgmap.Document) {
	h.doc = doc
	if doc == nil || doc.Entity(h.id) == nil {
		h.id = ""
	}
}

// Move updates the hovered district from a content-space point.
func (h *Hover) Move(x, y float64) {
	if h.doc == nil {
		h.id = ""
		return
	}
	if e := h.doc.EntityAt(x, y); e != nil {
		h.id = e.ID
		return
	}
	h.id = ""
}

func (h *Hover) Leave() { h.id = "" }

// Entity returns the hovered district, or nil.
func (h *Hover) Entity() *svgmap.Entity {
	if h.doc == nil || h.id == "" {
		return nil
	}
	return h.doc.Entity(h.id)
}

// Lines is the tooltip text for the hovered district.
func (h *Hover) Lines() []string {
	return tooltipLines(h.Entity())
}

func tooltipLines(e *svgmap.Entity) []string {
	if e == nil {
		return nil
	}
	party := e.Party
	if party == "" {
		party = "-"
	}
	rate := e.Rate
	if rate == "" {
		rate = "-"
	}
	return []string{
		e.ID,
		"Winner: " + party,
		"Rate: " + rate,
		fmt.Sprintf("Seats: %s", humanize.Comma(int64(e.Seats))),
	}
}
