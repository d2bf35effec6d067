package session

import (
	"reflect"
	"testing"

	"github.com/milk9111/votemap/viewmode"
)

func TestCatalogKeepsFirstSeenOrder(t *testing.T) {
	c := NewCatalog()
	c.Add("B", "Beta")
	c.Add("A", "")
	c.Add("B", "Beta Party")
	c.Add("", "ignored")

	want := []Party{{"B", "Beta Party"}, {"A", "A"}}
	if got := c.Parties(); !reflect.DeepEqual(got, want) {
		t.Fatalf("parties %v, want %v", got, want)
	}
	if c.Name("zzz") != "zzz" || !c.Has("A") || c.Has("zzz") {
		t.Fatalf("lookup mismatch")
	}
}

func TestNewState(t *testing.T) {
	s := New(nil)
	if s.Selection.Len() != 0 || s.View.Mode() != viewmode.Result || s.Catalog.Len() != 0 || s.Editing != "" {
		t.Fatalf("unexpected initial state %+v", s)
	}
}
