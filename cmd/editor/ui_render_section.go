package main

import (
	"log"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/votemap/render"
)

// RenderFormUI is the left panel: input files, map title, stroke width and
// the render / download actions.
type RenderFormUI struct {
	Container *widget.Container

	orch *render.Orchestrator

	svgInput    *widget.TextInput
	csvInput    *widget.TextInput
	titleInput  *widget.TextInput
	strokeInput *widget.TextInput
	renderBtn   *widget.Button
	downloadBtn *widget.Button
	status      *widget.Label

	suppress bool
}

func buildRenderForm(theme *widget.Theme, fontFace *text.Face, orch *render.Orchestrator, onDownload func()) *RenderFormUI {
	f := &RenderFormUI{orch: orch}

	f.Container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(leftPanelWidth, 400),
		),
		widget.ContainerOpts.BackgroundImage(solidNineSlice(panelBackground)),
		widget.ContainerOpts.Layout(
			widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionVertical),
				widget.RowLayoutOpts.Spacing(8),
				widget.RowLayoutOpts.Padding(&widget.Insets{Top: 8, Left: 8, Right: 8, Bottom: 8}),
			),
		),
	)

	f.svgInput = f.addFileField(theme, fontFace, "Boundary map (SVG)", "svg", orch.SetSVGPath)
	f.csvInput = f.addFileField(theme, fontFace, "Vote counts (CSV)", "csv", orch.SetCSVPath)

	f.Container.AddChild(widget.NewLabel(widget.LabelOpts.Text("Map title", fontFace, sectionLabel)))
	f.titleInput = newTextInput(fontFace, leftPanelWidth-16, func(s string) {
		if !f.suppress {
			orch.SetTitle(s)
		}
	}, nil)
	f.Container.AddChild(f.titleInput)

	f.Container.AddChild(widget.NewLabel(widget.LabelOpts.Text("Stroke width", fontFace, sectionLabel)))
	f.strokeInput = newTextInput(fontFace, 80, func(s string) {
		if f.suppress {
			return
		}
		if w, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil && w > 0 {
			orch.SetStrokeWidth(w)
		}
	}, nil)
	f.Container.AddChild(f.strokeInput)

	f.renderBtn = newButton(theme, fontFace, "Render map", leftPanelWidth-16, func() {
		if err := orch.Render(false); err != nil {
			log.Printf("Render: %v", err)
		}
	})
	f.Container.AddChild(f.renderBtn)

	f.downloadBtn = newButton(theme, fontFace, "Download SVG", leftPanelWidth-16, onDownload)
	f.Container.AddChild(f.downloadBtn)

	f.status = widget.NewLabel(widget.LabelOpts.Text("", fontFace, sectionLabel))
	f.Container.AddChild(f.status)
	return f
}

func (f *RenderFormUI) addFileField(theme *widget.Theme, fontFace *text.Face, label, kind string, set func(string)) *widget.TextInput {
	f.Container.AddChild(widget.NewLabel(widget.LabelOpts.Text(label, fontFace, sectionLabel)))
	row := newRow(6)
	input := newTextInput(fontFace, leftPanelWidth-92, func(s string) {
		if !f.suppress {
			set(strings.TrimSpace(s))
		}
	}, nil)
	row.AddChild(input)
	row.AddChild(newButton(theme, fontFace, "Browse", 70, func() {
		path, err := openInputDialog(kind)
		if err != nil {
			log.Printf("Browse failed: %v", err)
			return
		}
		set(path)
	}))
	f.Container.AddChild(row)
	return input
}

// Sync mirrors the orchestrator's form and busy state into the widgets.
func (f *RenderFormUI) Sync() {
	f.suppress = true
	defer func() { f.suppress = false }()

	form := f.orch.Form()
	syncInput(f.svgInput, form.SVGPath)
	syncInput(f.csvInput, form.CSVPath)
	syncInput(f.titleInput, form.Title)
	syncInput(f.strokeInput, strconv.FormatFloat(form.StrokeWidth, 'f', -1, 64))

	busy := f.orch.Busy()
	f.renderBtn.GetWidget().Disabled = busy
	if busy {
		f.renderBtn.SetText("Rendering…")
	} else {
		f.renderBtn.SetText("Render map")
	}

	url := f.orch.DownloadURL()
	setVisible(f.downloadBtn, url != "")
	switch {
	case busy:
		f.status.Label = "Waiting for the map server"
	case f.orch.Document() == nil:
		f.status.Label = "No map yet"
	default:
		f.status.Label = "Rendered: " + filepath.Base(url)
	}
	f.Container.RequestRelayout()
}

func syncInput(in *widget.TextInput, value string) {
	if !in.IsFocused() && in.GetText() != value {
		in.SetText(value)
	}
}
