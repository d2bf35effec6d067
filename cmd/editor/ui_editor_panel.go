package main

import (
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2/text/v2"

	"github.com/milk9111/votemap/ledger"
	"github.com/milk9111/votemap/panel"
	"github.com/milk9111/votemap/session"
)

// swingSliderRange is the batch slider span in tenths of a percent.
const swingSliderRange = 200

// partyRow is one party's count input, share slider and share label.
type partyRow struct {
	id      string
	count   *widget.TextInput
	slider  *widget.Slider
	percent *widget.Label
	// synced is the slider value last set from the ledger; the slider fires
	// its change event for programmatic updates too.
	synced int
}

// EditorPanelUI is the right-hand panel: the single-district vote editor and
// the batch swing form share it, with one primary button.
type EditorPanelUI struct {
	Container *widget.Container

	theme    *widget.Theme
	fontFace *text.Face
	ctl      *panel.Controller
	catalog  *session.Catalog

	title   *widget.Label
	primary *widget.Button

	single     *widget.Container
	seatsInput *widget.TextInput
	lockBtn    *widget.Button
	rowsBox    *widget.Container
	rows       []*partyRow
	builtFor   *ledger.Ledger

	batch        *widget.Container
	partyList    *widget.List
	partyCount   int
	percentInput *widget.TextInput
	swingSlider  *widget.Slider
	swingSynced  int
	swingLockBtn *widget.Button
	countLabel   *widget.Label

	suppress bool
}

func buildEditorPanel(theme *widget.Theme, fontFace *text.Face, ctl *panel.Controller, catalog *session.Catalog) *EditorPanelUI {
	p := &EditorPanelUI{theme: theme, fontFace: fontFace, ctl: ctl, catalog: catalog}

	p.Container = widget.NewContainer(
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(rightPanelWidth, 400),
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

	header := newRow(8)
	p.title = widget.NewLabel(widget.LabelOpts.Text("", fontFace, sectionLabel))
	header.AddChild(p.title)
	header.AddChild(newButton(theme, fontFace, "Close", 60, ctl.Close))
	p.Container.AddChild(header)

	p.buildSingle()
	p.buildBatch()

	p.primary = newButton(theme, fontFace, "Save", rightPanelWidth-16, func() {
		if err := ctl.Primary(); err != nil {
			log.Printf("%s: %v", ctl.Mode(), err)
		}
	})
	p.Container.AddChild(p.primary)

	setVisible(p.Container, false)
	return p
}

func (p *EditorPanelUI) buildSingle() {
	p.single = newColumn(6)

	p.single.AddChild(widget.NewLabel(widget.LabelOpts.Text("Seats", p.fontFace, sectionLabel)))
	p.seatsInput = newTextInput(p.fontFace, 120, func(s string) {
		if p.suppress {
			return
		}
		p.ctl.SetSeats(parseCount(s))
	}, nil)
	p.single.AddChild(p.seatsInput)

	p.lockBtn = newButton(p.theme, p.fontFace, lockLabel(true), 180, func() {
		if l := p.ctl.Ledger(); l != nil {
			l.SetLock(!l.Locked())
			p.refreshRows(nil)
		}
	})
	p.single.AddChild(p.lockBtn)

	p.rowsBox = newColumn(4)
	p.single.AddChild(p.rowsBox)
	p.Container.AddChild(p.single)
}

func (p *EditorPanelUI) buildBatch() {
	p.batch = newColumn(6)

	p.countLabel = widget.NewLabel(widget.LabelOpts.Text("", p.fontFace, sectionLabel))
	p.batch.AddChild(p.countLabel)
	p.batch.AddChild(widget.NewLabel(widget.LabelOpts.Text("Party", p.fontFace, sectionLabel)))

	p.partyList = widget.NewList(
		widget.ListOpts.ContainerOpts(widget.ContainerOpts.WidgetOpts(widget.WidgetOpts.MinSize(rightPanelWidth-16, 140))),
		widget.ListOpts.Entries([]any{}),
		widget.ListOpts.EntryLabelFunc(func(e any) string {
			if party, ok := e.(session.Party); ok {
				if party.Name != "" && party.Name != party.ID {
					return fmt.Sprintf("%s (%s)", party.Name, party.ID)
				}
				return party.ID
			}
			return ""
		}),
		widget.ListOpts.EntrySelectedHandler(func(args *widget.ListEntrySelectedEventArgs) {
			if p.suppress {
				return
			}
			if party, ok := args.Entry.(session.Party); ok {
				p.ctl.SetSwingParty(party.ID)
			}
		}),
	)
	p.batch.AddChild(p.partyList)

	p.batch.AddChild(widget.NewLabel(widget.LabelOpts.Text("Swing (%)", p.fontFace, sectionLabel)))
	p.percentInput = newTextInput(p.fontFace, 120, func(s string) {
		if p.suppress {
			return
		}
		p.ctl.SetSwingPercent(parsePercent(s))
	}, nil)
	p.batch.AddChild(p.percentInput)

	p.swingSlider = widget.NewSlider(
		widget.SliderOpts.Direction(widget.DirectionHorizontal),
		widget.SliderOpts.MinMax(-swingSliderRange, swingSliderRange),
		widget.SliderOpts.InitialCurrent(0),
		widget.SliderOpts.WidgetOpts(widget.WidgetOpts.MinSize(rightPanelWidth-16, 16)),
		widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
			if p.suppress || args.Current == p.swingSynced {
				return
			}
			p.swingSynced = args.Current
			p.ctl.SetSwingPercent(float64(args.Current) / 10)
		}),
	)
	p.batch.AddChild(p.swingSlider)

	p.swingLockBtn = newButton(p.theme, p.fontFace, lockLabel(true), 180, func() {
		p.ctl.SetSwingLock(!p.ctl.Swing().LockTotal)
	})
	p.batch.AddChild(p.swingLockBtn)
	p.Container.AddChild(p.batch)
}

func lockLabel(on bool) string {
	if on {
		return "Lock total: On"
	}
	return "Lock total: Off"
}

// Sync mirrors the controller state into the widgets.
func (p *EditorPanelUI) Sync() {
	p.suppress = true
	defer func() { p.suppress = false }()

	mode := p.ctl.Mode()
	setVisible(p.Container, mode != panel.Closed)
	setVisible(p.single, mode == panel.Single)
	setVisible(p.batch, mode == panel.Batch)
	p.title.Label = p.ctl.Title()

	p.primary.SetText(p.ctl.PrimaryLabel())
	p.primary.GetWidget().Disabled = !p.ctl.PrimaryEnabled()

	switch mode {
	case panel.Single:
		p.syncSingle()
	case panel.Batch:
		p.syncBatch()
	}
	p.Container.RequestRelayout()
}

func (p *EditorPanelUI) syncSingle() {
	if !p.seatsInput.IsFocused() {
		p.seatsInput.SetText(strconv.Itoa(p.ctl.Seats()))
	}
	l := p.ctl.Ledger()
	disabled := p.ctl.Loading() || l == nil
	p.seatsInput.GetWidget().Disabled = disabled
	p.lockBtn.GetWidget().Disabled = disabled
	if l != p.builtFor {
		p.buildRows(l)
	}
	p.refreshRows(nil)
}

// buildRows recreates one row per party of the freshly loaded ledger.
func (p *EditorPanelUI) buildRows(l *ledger.Ledger) {
	p.rowsBox.RemoveChildren()
	p.rows = nil
	p.builtFor = l
	if l == nil {
		return
	}
	for _, e := range l.Entries() {
		row := &partyRow{id: e.PartyID}
		name := e.Name
		if name == "" {
			name = e.PartyID
		}

		box := newColumn(2)
		top := newRow(6)
		top.AddChild(widget.NewLabel(widget.LabelOpts.Text(name, p.fontFace, sectionLabel)))
		row.count = newTextInput(p.fontFace, 110, func(s string) {
			if p.suppress {
				return
			}
			if err := l.SetCount(row.id, parseCount(s)); err != nil {
				log.Printf("set count %s: %v", row.id, err)
				return
			}
			p.refreshRows(row)
		}, nil)
		top.AddChild(row.count)
		box.AddChild(top)

		bottom := newRow(6)
		row.slider = widget.NewSlider(
			widget.SliderOpts.Direction(widget.DirectionHorizontal),
			widget.SliderOpts.MinMax(0, 1000),
			widget.SliderOpts.InitialCurrent(0),
			widget.SliderOpts.WidgetOpts(widget.WidgetOpts.MinSize(rightPanelWidth-90, 14)),
			widget.SliderOpts.ChangedHandler(func(args *widget.SliderChangedEventArgs) {
				if p.suppress || args.Current == row.synced {
					return
				}
				row.synced = args.Current
				if err := l.SetPercent(row.id, float64(args.Current)/10); err != nil {
					log.Printf("set percent %s: %v", row.id, err)
					return
				}
				p.refreshRows(nil)
			}),
		)
		bottom.AddChild(row.slider)
		row.percent = widget.NewLabel(widget.LabelOpts.Text("", p.fontFace, sectionLabel))
		bottom.AddChild(row.percent)
		box.AddChild(bottom)

		p.rowsBox.AddChild(box)
		p.rows = append(p.rows, row)
	}
}

// refreshRows rewrites counts and shares from the ledger, leaving the input
// the user is typing into alone.
func (p *EditorPanelUI) refreshRows(editing *partyRow) {
	l := p.ctl.Ledger()
	if l == nil {
		return
	}
	prev := p.suppress
	p.suppress = true
	defer func() { p.suppress = prev }()

	p.lockBtn.SetText(lockLabel(l.Locked()))
	// rows were built from Entries, so they share its order
	entries, shares := l.Entries(), l.Percents()
	for i, row := range p.rows {
		if i >= len(entries) {
			break
		}
		if row != editing && !row.count.IsFocused() {
			row.count.SetText(strconv.Itoa(entries[i].Count))
		}
		share := shares[i]
		row.synced = int(math.Round(share * 10))
		row.slider.Current = row.synced
		row.percent.Label = ledger.FormatPercent(share)
	}
}

func (p *EditorPanelUI) syncBatch() {
	form := p.ctl.Swing()
	p.countLabel.Label = fmt.Sprintf("%s districts selected", humanize.Comma(int64(p.ctl.SelectedCount())))

	if n := p.catalog.Len(); n != p.partyCount {
		entries := make([]any, 0, n)
		for _, party := range p.catalog.Parties() {
			entries = append(entries, party)
		}
		p.partyList.SetEntries(entries)
		p.partyCount = n
	}
	for _, e := range p.partyList.Entries() {
		if party, ok := e.(session.Party); ok && party.ID == form.PartyID && p.partyList.SelectedEntry() != e {
			p.partyList.SetSelectedEntry(e)
		}
	}

	if !p.percentInput.IsFocused() {
		p.percentInput.SetText(formatSwing(form.Percent))
	}
	p.swingSynced = int(math.Round(form.Percent * 10))
	p.swingSlider.Current = p.swingSynced
	p.swingLockBtn.SetText(lockLabel(form.LockTotal))
}

// parseCount reads a vote or seat count; anything unparseable is zero.
func parseCount(s string) int {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// parsePercent reads a signed percentage such as "-2.5" or "+3%".
func parsePercent(s string) float64 {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func formatSwing(p float64) string {
	if p == 0 {
		return "0"
	}
	return strconv.FormatFloat(p, 'f', -1, 64)
}
