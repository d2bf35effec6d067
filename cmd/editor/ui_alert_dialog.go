package main

import (
	"image/color"
	"log"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// alertDialog is the modal message box. Messages raised while one is open
// queue up behind it.
type alertDialog struct {
	Overlay *widget.Container
	message *widget.Label
	pending []string
}

func newAlertDialog(theme *widget.Theme, fontFace *text.Face) *alertDialog {
	a := &alertDialog{}

	a.Overlay = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
				StretchHorizontal:  true,
				StretchVertical:    true,
			}),
			widget.WidgetOpts.MinSize(1, 1),
		),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{0, 0, 0, 160})),
	)
	a.Overlay.GetWidget().Visibility = widget.Visibility_Hide

	box := widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(360, 120),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				HorizontalPosition: widget.AnchorLayoutPositionCenter,
				VerticalPosition:   widget.AnchorLayoutPositionCenter,
			}),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(color.RGBA{220, 220, 220, 255})),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(12),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 16, Left: 16, Right: 16, Bottom: 16}),
			),
		),
	)

	a.message = widget.NewLabel(widget.LabelOpts.Text("", fontFace, dialogLabel))
	box.AddChild(a.message)
	box.AddChild(newButton(theme, fontFace, "OK", 80, a.dismiss))
	a.Overlay.AddChild(box)
	return a
}

// Alert shows msg, or queues it when another message is showing.
func (a *alertDialog) Alert(msg string) {
	log.Printf("alert: %s", msg)
	a.pending = append(a.pending, msg)
	if len(a.pending) == 1 {
		a.show()
	}
}

func (a *alertDialog) Open() bool { return len(a.pending) > 0 }

func (a *alertDialog) dismiss() {
	if len(a.pending) > 0 {
		a.pending = a.pending[1:]
	}
	a.show()
}

func (a *alertDialog) show() {
	if len(a.pending) == 0 {
		a.Overlay.GetWidget().Visibility = widget.Visibility_Hide
		return
	}
	a.message.Label = a.pending[0]
	a.Overlay.GetWidget().Visibility = widget.Visibility_Show
	a.Overlay.RequestRelayout()
}
