package main

import (
	"image/color"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/votemap/viewmode"
)

var viewModes = []viewmode.Mode{viewmode.Result, viewmode.Seats}

// ToolBar holds the view-mode radio group and the zoom buttons.
type ToolBar struct {
	group    *widget.RadioGroup
	buttons  []*widget.Button
	suppress bool
}

func (tb *ToolBar) SetMode(m viewmode.Mode) {
	if tb == nil || tb.group == nil {
		return
	}
	for i, vm := range viewModes {
		if vm == m && tb.group.Active() != tb.buttons[i] {
			tb.suppress = true
			tb.group.SetActive(tb.buttons[i])
			tb.suppress = false
		}
	}
}

func buildToolBar(theme *widget.Theme, fontFace *text.Face, onMode func(viewmode.Mode), onZoom func(dir int), onReset func(), initial viewmode.Mode) (*widget.Container, *ToolBar) {
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.RGBA{0, 0, 200, 255},
		Disabled: color.Gray{Y: 128},
	}

	toolbar := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(360, 44),
		),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 4, Left: 8, Right: 8, Bottom: 4}),
			),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 240, 255})),
	)

	tb := &ToolBar{}
	labels := map[viewmode.Mode]string{viewmode.Result: "Result", viewmode.Seats: "Seats"}
	for _, m := range viewModes {
		btn := widget.NewButton(
			widget.ButtonOpts.Image(theme.ButtonTheme.Image),
			widget.ButtonOpts.Text(labels[m], fontFace, buttonTextColor),
			widget.ButtonOpts.ToggleMode(),
			widget.ButtonOpts.WidgetOpts(
				widget.WidgetOpts.MinSize(72, 34),
			),
		)
		tb.buttons = append(tb.buttons, btn)
		toolbar.AddChild(btn)
	}

	elements := make([]widget.RadioGroupElement, 0, len(tb.buttons))
	for _, b := range tb.buttons {
		elements = append(elements, b)
	}
	tb.group = widget.NewRadioGroup(
		widget.RadioGroupOpts.Elements(elements...),
		widget.RadioGroupOpts.ChangedHandler(func(args *widget.RadioGroupChangedEventArgs) {
			if tb.suppress || onMode == nil {
				return
			}
			for idx, b := range tb.buttons {
				if args.Active == b {
					onMode(viewModes[idx])
					return
				}
			}
		}),
	)
	tb.SetMode(initial)

	toolbar.AddChild(newButton(theme, fontFace, "−", 34, func() { onZoom(-1) }))
	toolbar.AddChild(newButton(theme, fontFace, "+", 34, func() { onZoom(1) }))
	toolbar.AddChild(newButton(theme, fontFace, "Fit", 48, onReset))

	return toolbar, tb
}
