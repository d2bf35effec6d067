package viewmode

import (
	"testing"

	"github.com/milk9111/votemap/svgmap"
)

const seatMap = `<svg viewBox="0 0 500 100">
  <path id="s0" d="M0 0 H100 V100 H0 Z" data-party="A" data-seats="0" style="fill:#112233"/>
  <path id="s1" d="M100 0 H200 V100 H100 Z" data-party="B" data-seats="1" style="fill:#445566"/>
  <path id="s2" d="M200 0 H300 V100 H200 Z" data-party="A" data-seats="2" data-original-fill="#778899"/>
  <path id="s3" d="M300 0 H400 V100 H300 Z" data-party="C" data-seats="3" style="fill:#aabbcc"/>
  <path id="s9" d="M400 0 H500 V100 H400 Z" data-party="C" data-seats="9" style="fill:#ddeeff"/>
</svg>`

func parse(t *testing.T) *svgmap.Document {
	t.Helper()
	doc, err := svgmap.Parse(seatMap)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return doc
}

func TestSeatsPaintsBuckets(t *testing.T) {
	doc := parse(t)
	s := New(nil)
	s.Attach(doc)
	s.Set(Seats)

	want := map[string]string{
		"s0": "#d9d9d9",
		"s1": "#fce7a1",
		"s2": "#ffd23f",
		"s3": "#f4a300",
		"s9": "#d9480f",
	}
	for id, hex := range want {
		if got := svgmap.Hex(doc.Entity(id).Fill); got != hex {
			t.Fatalf("%s painted %s, want %s", id, got, hex)
		}
	}
}

func TestSeatsThenResultRestoresOriginalFills(t *testing.T) {
	doc := parse(t)
	s := New(nil)
	s.Attach(doc)

	if s.Toggle() != Seats {
		t.Fatalf("toggle from result should give seats")
	}
	if s.Toggle() != Result {
		t.Fatalf("toggle from seats should give result")
	}
	for _, e := range doc.Entities() {
		if e.Fill != e.OriginalFill {
			t.Fatalf("%s fill %s, want original %s", e.ID, svgmap.Hex(e.Fill), svgmap.Hex(e.OriginalFill))
		}
	}
}

func TestAttachReappliesSeatsAfterRerender(t *testing.T) {
	s := New(nil)
	s.Attach(parse(t))
	s.Set(Seats)

	fresh := parse(t)
	s.Attach(fresh)
	if got := svgmap.Hex(fresh.Entity("s2").Fill); got != "#ffd23f" {
		t.Fatalf("re-rendered document not repainted: %s", got)
	}
}

func TestScriptPalette(t *testing.T) {
	p, err := NewScriptPalette(`
color := func(seats) {
	if seats >= 2 {
		return "#000000"
	}
	if seats == 1 {
		return "not a colour"
	}
	return "#ffffff"
}`)
	if err != nil {
		t.Fatalf("NewScriptPalette: %v", err)
	}

	cases := []struct {
		seats int
		want  string
	}{
		{0, "#ffffff"},
		{1, "#fce7a1"}, // falls back to the bucket table
		{2, "#000000"},
		{7, "#000000"},
	}
	for _, c := range cases {
		if got := svgmap.Hex(p.Color(c.seats)); got != c.want {
			t.Fatalf("Color(%d) = %s, want %s", c.seats, got, c.want)
		}
	}
	if len(p.cache) != 4 {
		t.Fatalf("expected 4 cached colours, got %d", len(p.cache))
	}
}

func TestScriptPaletteCompileError(t *testing.T) {
	if _, err := NewScriptPalette(`color := func(`); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"": Result, "result": Result, "SEATS": Seats} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("party"); err == nil {
		t.Fatalf("expected error")
	}
}
