package svgmap

import (
	"fmt"
	"math"
	"strings"

	"github.com/tdewolff/canvas"
)

// flattenTolerance is how far, in local units, a flattened curve or arc may
// stray from the true outline.
const flattenTolerance = 0.05

// parsePathData flattens path data into rings of points in the element's
// local coordinate space. Curves and elliptical arcs become line segments.
func parsePathData(d string) ([][]Point, error) {
	trimmed := strings.TrimSpace(d)
	if trimmed == "" {
		return nil, nil
	}
	if c := trimmed[0]; c != 'M' && c != 'm' {
		return nil, fmt.Errorf("path data must start with a moveto")
	}
	p, err := canvas.ParseSVGPath(trimmed)
	if err != nil {
		return nil, err
	}

	var rings [][]Point
	for _, sub := range p.Flatten(flattenTolerance).Split() {
		coords := sub.Coords()
		ring := make([]Point, 0, len(coords))
		for _, c := range coords {
			pt := Point{X: c.X, Y: c.Y}
			if n := len(ring); n > 0 && nearlyEqual(ring[n-1], pt) {
				continue
			}
			ring = append(ring, pt)
		}
		if n := len(ring); n > 2 && nearlyEqual(ring[0], ring[n-1]) {
			ring = ring[:n-1]
		}
		if len(ring) > 1 {
			rings = append(rings, ring)
		}
	}
	return rings, nil
}

// parsePoints reads a polygon/polyline points attribute.
func parsePoints(s string) []Point {
	nums := parseNumberList(s)
	pts := make([]Point, 0, len(nums)/2)
	for i := 0; i+1 < len(nums); i += 2 {
		pts = append(pts, Point{X: nums[i], Y: nums[i+1]})
	}
	return pts
}

func nearlyEqual(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}
