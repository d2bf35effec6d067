package svgmap

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Style is the subset of SVG presentation used to paint a shape.
type Style struct {
	Fill        color.RGBA
	HasFill     bool
	Stroke      color.RGBA
	HasStroke   bool
	StrokeWidth float64
	FontSize    float64
	TextAnchor  string
}

func defaultStyle() Style {
	return Style{
		Fill:        color.RGBA{A: 0xff},
		HasFill:     true,
		StrokeWidth: 1,
		FontSize:    16,
		TextAnchor:  "start",
	}
}

var namedColors = map[string]color.RGBA{
	"black":  {0x00, 0x00, 0x00, 0xff},
	"white":  {0xff, 0xff, 0xff, 0xff},
	"gray":   {0x80, 0x80, 0x80, 0xff},
	"grey":   {0x80, 0x80, 0x80, 0xff},
	"red":    {0xff, 0x00, 0x00, 0xff},
	"green":  {0x00, 0x80, 0x00, 0xff},
	"blue":   {0x00, 0x00, 0xff, 0xff},
	"yellow": {0xff, 0xff, 0x00, 0xff},
	"orange": {0xff, 0xa5, 0x00, 0xff},
	"gold":   {0xff, 0xd7, 0x00, 0xff},
}

// ParseColor parses #rgb, #rrggbb, rgb(r,g,b) and a handful of colour names.
// ok is false for "none", "transparent" and anything unparseable.
func ParseColor(s string) (c color.RGBA, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "none" || s == "transparent":
		return color.RGBA{}, false
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return color.RGBA{}, false
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}, true
	case strings.HasPrefix(s, "rgb(") && strings.HasSuffix(s, ")"):
		parts := strings.Split(s[4:len(s)-1], ",")
		if len(parts) != 3 {
			return color.RGBA{}, false
		}
		var rgb [3]uint8
		for i, p := range parts {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil || n < 0 || n > 255 {
				return color.RGBA{}, false
			}
			rgb[i] = uint8(n)
		}
		return color.RGBA{R: rgb[0], G: rgb[1], B: rgb[2], A: 0xff}, true
	}
	c, ok = namedColors[s]
	return c, ok
}

// Hex formats a colour as #rrggbb.
func Hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// applyDeclarations overlays presentation attributes and the style attribute
// (which wins) on top of the inherited style.
func applyDeclarations(st Style, attrs map[string]string) Style {
	decls := make(map[string]string)
	for _, k := range []string{"fill", "stroke", "stroke-width", "font-size", "text-anchor"} {
		if v, ok := attrs[k]; ok {
			decls[k] = v
		}
	}
	for _, d := range strings.Split(attrs["style"], ";") {
		k, v, found := strings.Cut(d, ":")
		if !found {
			continue
		}
		decls[strings.TrimSpace(strings.ToLower(k))] = strings.TrimSpace(v)
	}

	if v, ok := decls["fill"]; ok {
		st.Fill, st.HasFill = ParseColor(v)
	}
	if v, ok := decls["stroke"]; ok {
		st.Stroke, st.HasStroke = ParseColor(v)
	}
	if v, ok := decls["stroke-width"]; ok {
		if f, err := parseLength(v); err == nil {
			st.StrokeWidth = f
		}
	}
	if v, ok := decls["font-size"]; ok {
		if f, err := parseLength(v); err == nil {
			st.FontSize = f
		}
	}
	if v, ok := decls["text-anchor"]; ok {
		st.TextAnchor = v
	}
	return st
}

func parseLength(s string) (float64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "px")
	return strconv.ParseFloat(s, 64)
}
