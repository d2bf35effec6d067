// Package svgmap turns the map markup returned by the render server into a
// document the editor can draw, hit-test and recolour.
package svgmap

import (
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrNoSVG is returned when the markup has no <svg> root.
var ErrNoSVG = errors.New("svgmap: markup contains no <svg> element")

// Shape is one painted element, flattened into rings in content space.
type Shape struct {
	Rings  [][]Point
	Closed bool
	Style  Style
	Bounds Rect
	// Entity is set when the shape belongs to a district.
	Entity *Entity
}

// Contains reports whether a content-space point falls inside the shape.
func (s *Shape) Contains(x, y float64) bool {
	if !s.Closed || !s.Bounds.Contains(x, y) {
		return false
	}
	return insidePolygons(s.Rings, x, y)
}

// Entity is a district: a shape plus the annotations the server attaches.
type Entity struct {
	ID           string
	Party        string
	Rate         string
	Seats        int
	OriginalFill color.RGBA
	// Fill is the colour currently painted; view modes rewrite it.
	Fill  color.RGBA
	Shape *Shape
}

// Text is a positioned run of text (legend labels and the map title).
type Text struct {
	X, Y    float64
	Content string
	Size    float64
	Color   color.RGBA
	Anchor  string
}

// Document is the parsed map.
type Document struct {
	Width, Height float64

	shapes   []*Shape
	entities []*Entity
	byID     map[string]*Entity
	texts    []Text
	overlay  *Overlay
}

func (d *Document) Shapes() []*Shape { return d.shapes }

func (d *Document) Entities() []*Entity { return d.entities }

func (d *Document) Texts() []Text { return d.texts }

func (d *Document) Overlay() *Overlay { return d.overlay }

func (d *Document) Entity(id string) *Entity { return d.byID[id] }

// Size returns the content size (the viewBox extent).
func (d *Document) Size() (float64, float64) { return d.Width, d.Height }

// EntityAt returns the topmost district under the content-space point, or nil.
func (d *Document) EntityAt(x, y float64) *Entity {
	for i := len(d.entities) - 1; i >= 0; i-- {
		if d.entities[i].Shape.Contains(x, y) {
			return d.entities[i]
		}
	}
	return nil
}

// HighlightShape builds the overlay duplicate for an entity: same geometry,
// no fill, thick dark stroke.
func HighlightShape(e *Entity) *Shape {
	st := e.Shape.Style
	st.HasFill = true
	st.Fill = color.RGBA{R: 0x20, G: 0x60, B: 0xff, A: 0x50}
	st.HasStroke = true
	st.Stroke = color.RGBA{R: 0x10, G: 0x30, B: 0xc0, A: 0xff}
	st.StrokeWidth = e.Shape.Style.StrokeWidth*2 + 1
	return &Shape{Rings: e.Shape.Rings, Closed: true, Style: st, Bounds: e.Shape.Bounds}
}

type frame struct {
	m     affine
	style Style
	text  *Text
}

// skipped subtrees never paint
var skipped = map[string]bool{
	"defs": true, "clipPath": true, "mask": true, "style": true,
	"title": true, "desc": true, "metadata": true, "symbol": true, "pattern": true,
}

// Parse reads server markup.
func Parse(markup string) (*Document, error) {
	doc := &Document{byID: make(map[string]*Entity), overlay: newOverlay()}
	dec := xml.NewDecoder(strings.NewReader(markup))
	dec.Strict = false
	dec.AutoClose = xml.HTMLAutoClose
	dec.Entity = xml.HTMLEntity

	var stack []frame
	skipDepth := 0
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("svgmap: parse: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if skipDepth > 0 || skipped[t.Name.Local] {
				skipDepth++
				continue
			}
			attrs := attrMap(t.Attr)
			parent := frame{m: identity, style: defaultStyle()}
			if len(stack) > 0 {
				parent = stack[len(stack)-1]
			}
			f := frame{m: parent.m, style: applyDeclarations(parent.style, attrs)}
			if tr, ok := attrs["transform"]; ok {
				f.m = f.m.mul(parseTransform(tr))
			}

			switch t.Name.Local {
			case "svg":
				if !sawRoot {
					sawRoot = true
					f.m = doc.rootTransform(attrs)
				}
			case "path":
				rings, err := parsePathData(attrs["d"])
				if err != nil {
					return nil, fmt.Errorf("svgmap: path %q: %w", attrs["id"], err)
				}
				doc.addShape(rings, pathClosed(attrs["d"]), f, attrs)
			case "polygon", "polyline":
				pts := parsePoints(attrs["points"])
				doc.addShape([][]Point{pts}, t.Name.Local == "polygon", f, attrs)
			case "rect":
				doc.addRect(f, attrs)
			case "text", "tspan":
				doc.beginText(&f, parent, attrs)
			}
			stack = append(stack, f)

		case xml.EndElement:
			if skipDepth > 0 {
				skipDepth--
				continue
			}
			if len(stack) == 0 {
				continue
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if top.text != nil && strings.TrimSpace(top.text.Content) != "" {
				doc.texts = append(doc.texts, *top.text)
			}

		case xml.CharData:
			if skipDepth > 0 || len(stack) == 0 {
				continue
			}
			if tx := stack[len(stack)-1].text; tx != nil {
				tx.Content += strings.TrimSpace(string(t))
			}
		}
	}

	if !sawRoot {
		return nil, ErrNoSVG
	}
	return doc, nil
}

// rootTransform maps the viewBox onto content space starting at (0,0).
func (d *Document) rootTransform(attrs map[string]string) affine {
	if vb := parseNumberList(attrs["viewBox"]); len(vb) == 4 {
		d.Width, d.Height = vb[2], vb[3]
		return affine{a: 1, d: 1, e: -vb[0], f: -vb[1]}
	}
	d.Width, _ = parseLength(attrs["width"])
	d.Height, _ = parseLength(attrs["height"])
	if d.Width == 0 {
		d.Width = 1000
	}
	if d.Height == 0 {
		d.Height = 1000
	}
	return identity
}

func (d *Document) addShape(rings [][]Point, closed bool, f frame, attrs map[string]string) {
	sh := &Shape{Closed: closed, Style: f.style, Bounds: emptyRect()}
	sh.Style.StrokeWidth *= f.m.scaleFactor()
	for _, r := range rings {
		if len(r) < 2 {
			continue
		}
		out := make([]Point, len(r))
		for i, p := range r {
			out[i] = f.m.apply(p)
			sh.Bounds.extend(out[i])
		}
		sh.Rings = append(sh.Rings, out)
	}
	if len(sh.Rings) == 0 {
		return
	}
	d.shapes = append(d.shapes, sh)

	id := attrs["id"]
	party, isDistrict := attrs["data-party"]
	if id == "" || !isDistrict {
		return
	}
	if _, dup := d.byID[id]; dup {
		return
	}
	ent := &Entity{
		ID:           id,
		Party:        party,
		Rate:         attrs["data-rate"],
		Seats:        parseSeats(attrs["data-seats"]),
		OriginalFill: originalFill(attrs, f.style),
		Shape:        sh,
	}
	ent.Fill = ent.OriginalFill
	sh.Entity = ent
	d.entities = append(d.entities, ent)
	d.byID[id] = ent
}

func (d *Document) addRect(f frame, attrs map[string]string) {
	x, _ := parseLength(attrs["x"])
	y, _ := parseLength(attrs["y"])
	w, _ := parseLength(attrs["width"])
	h, _ := parseLength(attrs["height"])
	if w <= 0 || h <= 0 {
		return
	}
	ring := []Point{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	d.addShape([][]Point{ring}, true, f, attrs)
}

func (d *Document) beginText(f *frame, parent frame, attrs map[string]string) {
	t := &Text{Size: f.style.FontSize * f.m.scaleFactor(), Anchor: f.style.TextAnchor}
	if f.style.HasFill {
		t.Color = f.style.Fill
	}
	var pos Point
	if parent.text != nil {
		// tspans continue from the enclosing run
		pos = Point{X: parent.text.X, Y: parent.text.Y}
	}
	if v, ok := attrs["x"]; ok {
		x, _ := parseLength(v)
		pos.X = f.m.apply(Point{X: x}).X
	}
	if v, ok := attrs["y"]; ok {
		y, _ := parseLength(v)
		pos.Y = f.m.apply(Point{Y: y}).Y
	}
	if v, ok := attrs["dy"]; ok {
		pos.Y += parseEm(v, f.style.FontSize) * f.m.scaleFactor()
	}
	t.X, t.Y = pos.X, pos.Y
	f.text = t
	if parent.text != nil {
		// following tspans continue below the last line
		parent.text.Y = pos.Y
	}
}

func pathClosed(d string) bool {
	return strings.ContainsAny(d, "Zz")
}

// parseSeats reads data-seats. Missing or unreadable values count as one
// seat; negative values as none.
func parseSeats(s string) int {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 1
	}
	if f < 0 {
		return 0
	}
	return int(f)
}

func parseEm(s string, fontSize float64) float64 {
	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, "em") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "em"), 64)
		if err != nil {
			return 0
		}
		return v * fontSize
	}
	v, _ := parseLength(s)
	return v
}

func originalFill(attrs map[string]string, st Style) color.RGBA {
	for _, k := range []string{"data-original-fill", "data-color"} {
		if c, ok := ParseColor(attrs[k]); ok {
			return c
		}
	}
	if st.HasFill {
		return st.Fill
	}
	return color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
}

func attrMap(attrs []xml.Attr) map[string]string {
	m := make(map[string]string, len(attrs))
	for _, a := range attrs {
		m[a.Name.Local] = a.Value
	}
	return m
}
