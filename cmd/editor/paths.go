package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/milk9111/votemap/svgmap"
	"github.com/milk9111/votemap/transform"
)

// fillEvenOdd matches svgmap hit-testing: a ring inside another is a hole.
var fillEvenOdd = &vector.FillOptions{FillRule: vector.FillRuleEvenOdd}

// shapePath builds every ring of s into one content-space path.
func shapePath(s *svgmap.Shape) *vector.Path {
	p := &vector.Path{}
	for _, ring := range s.Rings {
		if len(ring) < 2 {
			continue
		}
		p.MoveTo(float32(ring[0].X), float32(ring[0].Y))
		for _, pt := range ring[1:] {
			p.LineTo(float32(pt.X), float32(pt.Y))
		}
		if s.Closed {
			p.Close()
		}
	}
	return p
}

// pathCache keeps one content-space path per shape of the attached document
// and places it on screen per frame.
type pathCache struct {
	byShape map[*svgmap.Shape]*vector.Path
	scratch vector.Path
}

func newPathCache() *pathCache {
	return &pathCache{byShape: make(map[*svgmap.Shape]*vector.Path)}
}

// Attach drops the paths of the previous document.
func (c *pathCache) Attach(doc *svgmap.Document) {
	clear(c.byShape)
}

func (c *pathCache) path(s *svgmap.Shape) *vector.Path {
	p, ok := c.byShape[s]
	if !ok {
		p = shapePath(s)
		c.byShape[s] = p
	}
	return p
}

// placed returns s's path in screen space under mat, shifted right by ox.
// The result is overwritten by the next call; vector.FillPath copies it.
func (c *pathCache) placed(s *svgmap.Shape, mat transform.Matrix, ox float64) *vector.Path {
	c.scratch.Reset()
	c.scratch.AddPath(c.path(s), &vector.AddPathOptions{GeoM: screenGeoM(mat, ox)})
	return &c.scratch
}

func screenGeoM(mat transform.Matrix, ox float64) ebiten.GeoM {
	var g ebiten.GeoM
	g.Scale(mat.Scale, mat.Scale)
	g.Translate(mat.TX+ox, mat.TY)
	return g
}
