package selection

import (
	"reflect"
	"testing"

	"github.com/milk9111/votemap/svgmap"
)

const threeDistricts = `<svg viewBox="0 0 300 100">
  <path id="d1" d="M0 0 H100 V100 H0 Z" data-party="A" style="fill:#ff0000"/>
  <path id="d2" d="M100 0 H200 V100 H100 Z" data-party="B" style="fill:#00ff00"/>
  <path id="d3" d="M200 0 H300 V100 H200 Z" data-party="A" style="fill:#0000ff"/>
</svg>`

func mustParse(t *testing.T, markup string) *svgmap.Document {
	t.Helper()
	doc, err := svgmap.Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestToggleRoundTripIsIdempotent(t *testing.T) {
	doc := mustParse(t, threeDistricts)
	m := New()
	m.Attach(doc)
	m.Toggle("d1")

	beforeOverlay := doc.Overlay().Len()
	beforeIDs := m.IDs()

	if !m.Toggle("d2") {
		t.Fatalf("first toggle should select")
	}
	if doc.Overlay().Len() != beforeOverlay+1 {
		t.Fatalf("overlay should grow by one")
	}
	if m.Toggle("d2") {
		t.Fatalf("second toggle should deselect")
	}

	if doc.Overlay().Len() != beforeOverlay {
		t.Fatalf("overlay child count %d, want %d", doc.Overlay().Len(), beforeOverlay)
	}
	if !reflect.DeepEqual(m.IDs(), beforeIDs) {
		t.Fatalf("selection %v, want %v", m.IDs(), beforeIDs)
	}
}

func TestClearEmptiesSetAndOverlay(t *testing.T) {
	doc := mustParse(t, threeDistricts)
	m := New()
	m.Attach(doc)
	var counts []int
	m.OnChange(func(n int) { counts = append(counts, n) })

	m.Toggle("d1")
	m.Toggle("d3")
	m.Clear()
	m.Clear()

	if m.Len() != 0 || doc.Overlay().Len() != 0 {
		t.Fatalf("clear left %d ids / %d overlay nodes", m.Len(), doc.Overlay().Len())
	}
	if want := []int{1, 2, 0}; !reflect.DeepEqual(counts, want) {
		t.Fatalf("listener saw %v, want %v", counts, want)
	}
}

func TestToggleUnknownIDIgnored(t *testing.T) {
	doc := mustParse(t, threeDistricts)
	m := New()
	m.Attach(doc)
	if m.Toggle("nope") {
		t.Fatalf("unknown id must not be selected")
	}
	if m.Len() != 0 || doc.Overlay().Len() != 0 {
		t.Fatalf("unknown id changed state")
	}
}

func TestAttachRebuildsOverlayForSurvivors(t *testing.T) {
	first := mustParse(t, threeDistricts)
	m := New()
	m.Attach(first)
	m.Toggle("d1")
	m.Toggle("d3")

	second := mustParse(t, `<svg viewBox="0 0 200 100">
  <path id="d1" d="M0 0 H100 V100 H0 Z" data-party="A"/>
  <path id="d2" d="M100 0 H200 V100 H100 Z" data-party="B"/>
</svg>`)
	m.Attach(second)
	m.Attach(second)

	if got := m.IDs(); !reflect.DeepEqual(got, []string{"d1"}) {
		t.Fatalf("selection after re-render %v", got)
	}
	if second.Overlay().Len() != 1 || !second.Overlay().Has("d1") {
		t.Fatalf("overlay not rebuilt on new document")
	}
}
