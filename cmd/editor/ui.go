package main

import (
	"bytes"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/milk9111/votemap/panel"
	"github.com/milk9111/votemap/render"
	"github.com/milk9111/votemap/session"
	"github.com/milk9111/votemap/viewmode"
)

const (
	leftPanelWidth  = 260
	rightPanelWidth = 320
)

// EditorUI is the composed widget tree plus the stateful pieces the game
// loop syncs.
type EditorUI struct {
	UI      *ebitenui.UI
	Face    text.Face
	Form    *RenderFormUI
	Panel   *EditorPanelUI
	ToolBar *ToolBar
	Alerts  *alertDialog
}

func BuildEditorUI(
	state *session.State,
	orch *render.Orchestrator,
	ctl *panel.Controller,
	onZoom func(dir int),
	onReset func(),
	onDownload func(),
) *EditorUI {
	ui := &ebitenui.UI{}

	s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		panic("Failed to load font: " + err.Error())
	}

	var fontFace text.Face = &text.GoTextFace{Source: s, Size: 14}
	ui.PrimaryTheme = newEditorTheme(&fontFace)

	form := buildRenderForm(ui.PrimaryTheme, &fontFace, orch, onDownload)
	editorPanel := buildEditorPanel(ui.PrimaryTheme, &fontFace, ctl, state.Catalog)
	toolbarContainer, toolBar := buildToolBar(ui.PrimaryTheme, &fontFace, state.View.Set, onZoom, onReset, state.View.Mode())
	alerts := newAlertDialog(ui.PrimaryTheme, &fontFace)

	// Root container: anchor layout
	root := widget.NewContainer(widget.ContainerOpts.Layout(widget.NewAnchorLayout()))
	form.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionStart,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	editorPanel.Container.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionEnd,
		VerticalPosition:   widget.AnchorLayoutPositionCenter,
		StretchVertical:    true,
	}
	// Toolbar: top center
	toolbarContainer.GetWidget().LayoutData = widget.AnchorLayoutData{
		HorizontalPosition: widget.AnchorLayoutPositionCenter,
		VerticalPosition:   widget.AnchorLayoutPositionStart,
	}
	root.AddChild(form.Container)
	root.AddChild(editorPanel.Container)
	root.AddChild(toolbarContainer)
	root.AddChild(alerts.Overlay)

	ui.Container = root

	return &EditorUI{
		UI:      ui,
		Face:    fontFace,
		Form:    form,
		Panel:   editorPanel,
		ToolBar: toolBar,
		Alerts:  alerts,
	}
}

// Sync refreshes every stateful widget from the controllers.
func (u *EditorUI) Sync(view viewmode.Mode) {
	u.Form.Sync()
	u.Panel.Sync()
	u.ToolBar.SetMode(view)
}
