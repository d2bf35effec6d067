package svgmap

import (
	"math"
	"strconv"
	"strings"
)

type Point struct {
	X, Y float64
}

// Rect is an axis-aligned box in content space.
type Rect struct {
	MinX, MinY, MaxX, MaxY float64
}

func emptyRect() Rect {
	return Rect{MinX: math.Inf(1), MinY: math.Inf(1), MaxX: math.Inf(-1), MaxY: math.Inf(-1)}
}

func (r Rect) Contains(x, y float64) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

func (r *Rect) extend(p Point) {
	r.MinX = math.Min(r.MinX, p.X)
	r.MinY = math.Min(r.MinY, p.Y)
	r.MaxX = math.Max(r.MaxX, p.X)
	r.MaxY = math.Max(r.MaxY, p.Y)
}

// affine is the SVG matrix(a b c d e f).
type affine struct {
	a, b, c, d, e, f float64
}

var identity = affine{a: 1, d: 1}

func (m affine) mul(n affine) affine {
	return affine{
		a: m.a*n.a + m.c*n.b,
		b: m.b*n.a + m.d*n.b,
		c: m.a*n.c + m.c*n.d,
		d: m.b*n.c + m.d*n.d,
		e: m.a*n.e + m.c*n.f + m.e,
		f: m.b*n.e + m.d*n.f + m.f,
	}
}

func (m affine) apply(p Point) Point {
	return Point{X: m.a*p.X + m.c*p.Y + m.e, Y: m.b*p.X + m.d*p.Y + m.f}
}

// scaleFactor is the mean linear scale, used for stroke widths and font sizes.
func (m affine) scaleFactor() float64 {
	return math.Sqrt(math.Abs(m.a*m.d - m.b*m.c))
}

// parseTransform understands translate, scale, rotate and matrix lists.
func parseTransform(s string) affine {
	m := identity
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open < 0 || end < open {
			break
		}
		name := strings.TrimSpace(strings.Trim(s[:open], ", "))
		args := parseNumberList(s[open+1 : end])
		s = strings.TrimSpace(s[end+1:])

		var t affine
		switch name {
		case "translate":
			t = identity
			if len(args) > 0 {
				t.e = args[0]
			}
			if len(args) > 1 {
				t.f = args[1]
			}
		case "scale":
			t = identity
			if len(args) > 0 {
				t.a, t.d = args[0], args[0]
			}
			if len(args) > 1 {
				t.d = args[1]
			}
		case "rotate":
			if len(args) == 0 {
				continue
			}
			rad := args[0] * math.Pi / 180
			cos, sin := math.Cos(rad), math.Sin(rad)
			t = affine{a: cos, b: sin, c: -sin, d: cos}
			if len(args) == 3 {
				pre := affine{a: 1, d: 1, e: args[1], f: args[2]}
				post := affine{a: 1, d: 1, e: -args[1], f: -args[2]}
				t = pre.mul(t).mul(post)
			}
		case "matrix":
			if len(args) != 6 {
				continue
			}
			t = affine{a: args[0], b: args[1], c: args[2], d: args[3], e: args[4], f: args[5]}
		default:
			continue
		}
		m = m.mul(t)
	}
	return m
}

func parseNumberList(s string) []float64 {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r' })
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			continue
		}
		out = append(out, v)
	}
	return out
}

// insidePolygons applies the even-odd rule across all rings.
func insidePolygons(rings [][]Point, x, y float64) bool {
	inside := false
	for _, ring := range rings {
		n := len(ring)
		if n < 3 {
			continue
		}
		j := n - 1
		for i := 0; i < n; i++ {
			pi, pj := ring[i], ring[j]
			if (pi.Y > y) != (pj.Y > y) {
				xCross := (pj.X-pi.X)*(y-pi.Y)/(pj.Y-pi.Y) + pi.X
				if x < xCross {
					inside = !inside
				}
			}
			j = i
		}
	}
	return inside
}
