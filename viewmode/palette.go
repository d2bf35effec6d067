package viewmode

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/votemap/svgmap"
)

var seatBuckets = [...]color.RGBA{
	{0xd9, 0xd9, 0xd9, 0xff}, // 0: neutral gray
	{0xfc, 0xe7, 0xa1, 0xff}, // 1: pale gold
	{0xff, 0xd2, 0x3f, 0xff}, // 2: bright gold
	{0xf4, 0xa3, 0x00, 0xff}, // 3: orange-gold
	{0xd9, 0x48, 0x0f, 0xff}, // 4+: deep orange-red
}

// BucketPalette is the fixed seat-count colour table.
type BucketPalette struct{}

func (BucketPalette) Color(seats int) color.RGBA {
	if seats < 0 {
		seats = 0
	}
	if seats >= len(seatBuckets) {
		seats = len(seatBuckets) - 1
	}
	return seatBuckets[seats]
}

const paletteDispatchScript = `
__out = color(__seats)
`

// ScriptPalette asks a tengo script for the colour of each seat count. The
// script defines `color := func(seats) { ... }` returning a hex string.
// Results are cached per seat count; anything the script cannot answer falls
// back to the bucket table.
type ScriptPalette struct {
	mu       sync.Mutex
	compiled *tengo.Compiled
	cache    map[int]color.RGBA
	fallback Palette
}

func LoadScriptPalette(path string) (*ScriptPalette, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette script: %w", err)
	}
	return NewScriptPalette(string(src))
}

func NewScriptPalette(src string) (*ScriptPalette, error) {
	script := tengo.NewScript([]byte(src + "\n" + paletteDispatchScript))
	_ = script.Add("__seats", 0)
	_ = script.Add("__out", "")
	script.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := script.Compile()
	if err != nil {
		return nil, fmt.Errorf("compile palette script: %w", err)
	}
	return &ScriptPalette{
		compiled: compiled,
		cache:    map[int]color.RGBA{},
		fallback: BucketPalette{},
	}, nil
}

func (p *ScriptPalette) Color(seats int) color.RGBA {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.cache[seats]; ok {
		return c
	}
	c, err := p.eval(seats)
	if err != nil {
		log.Printf("palette script: seats=%d: %v", seats, err)
		c = p.fallback.Color(seats)
	}
	p.cache[seats] = c
	return c
}

func (p *ScriptPalette) eval(seats int) (color.RGBA, error) {
	if err := p.compiled.Set("__seats", seats); err != nil {
		return color.RGBA{}, err
	}
	if err := p.compiled.Run(); err != nil {
		return color.RGBA{}, err
	}
	out := p.compiled.Get("__out").String()
	c, ok := svgmap.ParseColor(out)
	if !ok {
		return color.RGBA{}, fmt.Errorf("not a colour: %q", out)
	}
	return c, nil
}
