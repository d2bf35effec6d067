package main

import (
	"reflect"
	"testing"

	"github.com/milk9111/votemap/svgmap"
)

const hoverMap = `<svg xmlns="http://www.w3.org/2000/svg" width="200" height="100">
  <path id="N-1" d="M 0 0 L 100 0 L 100 100 L 0 100 Z" data-party="Blue" data-rate="62%" data-seats="1200" fill="#3355cc"/>
  <path id="N-2" d="M 100 0 L 200 0 L 200 100 L 100 100 Z" data-party="" fill="#cc3333"/>
</svg>`

func TestHoverTracksEntityAndTooltip(t *testing.T) {
	doc, err := svgmap.Parse(hoverMap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var h Hover
	h.Attach(doc)

	h.Move(50, 50)
	want := []string{"N-1", "Winner: Blue", "Rate: 62%", "Seats: 1,200"}
	if got := h.Lines(); !reflect.DeepEqual(got, want) {
		t.Fatalf("tooltip %q, want %q", got, want)
	}

	h.Move(150, 50)
	if got := h.Lines(); got[1] != "Winner: -" || got[2] != "Rate: -" || got[3] != "Seats: 1" {
		t.Fatalf("tooltip for unannotated district %q", got)
	}

	h.Move(500, 500)
	if h.Entity() != nil || h.Lines() != nil {
		t.Fatalf("expected no tooltip off the map")
	}
}

func TestHoverAttachDropsMissingEntity(t *testing.T) {
	doc, err := svgmap.Parse(hoverMap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var h Hover
	h.Attach(doc)
	h.Move(50, 50)

	next, err := svgmap.Parse(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><path id="Z" d="M0 0 L1 0 L1 1 Z"/></svg>`)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	h.Attach(next)
	if h.Entity() != nil {
		t.Fatalf("hover survived a render that removed the district")
	}
}
