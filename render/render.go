// Package render drives the upload, server render, parse and re-attach cycle
// that replaces the displayed map.
package render

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/milk9111/votemap/api"
	"github.com/milk9111/votemap/dispatch"
	"github.com/milk9111/votemap/session"
	"github.com/milk9111/votemap/svgmap"
	"github.com/milk9111/votemap/transform"
)

var (
	ErrMissingSVG = errors.New("choose an SVG boundary file first")
	ErrBusy       = errors.New("a render is already in flight")
	ErrNoDownload = errors.New("nothing rendered yet")
)

// Form is the render form: input files and the two style parameters.
type Form struct {
	SVGPath     string
	CSVPath     string
	Title       string
	StrokeWidth float64
}

// Processor is the part of the HTTP contract the orchestrator uses.
type Processor interface {
	Process(ctx context.Context, r api.ProcessRequest) (api.ProcessResult, error)
	Download(ctx context.Context, url string, w io.Writer) (int64, error)
}

// Attacher is re-bound to every freshly rendered document.
type Attacher interface {
	Attach(doc *svgmap.Document)
}

// AttachFunc adapts a function to Attacher.
type AttachFunc func(doc *svgmap.Document)

func (f AttachFunc) Attach(doc *svgmap.Document) { f(doc) }

type Orchestrator struct {
	client  Processor
	runner  dispatch.Runner
	view    *transform.Engine
	alert   session.Alerter
	targets []Attacher

	form        Form
	doc         *svgmap.Document
	downloadURL string
	busy        bool

	readFile  func(string) ([]byte, error)
	listeners []func()
}

func New(client Processor, runner dispatch.Runner, view *transform.Engine, alert session.Alerter) *Orchestrator {
	return &Orchestrator{
		client: client,
		runner: runner,
		view:   view,
		alert:  alert,
		form: Form{
			Title:       api.DefaultTitle,
			StrokeWidth: api.DefaultStrokeWidth,
		},
		readFile: os.ReadFile,
	}
}

// AddTarget registers a component to re-attach after each render, in
// registration order.
func (o *Orchestrator) AddTarget(t Attacher) { o.targets = append(o.targets, t) }

// OnChange registers a callback run when the document, busy flag or form
// changes.
func (o *Orchestrator) OnChange(fn func()) { o.listeners = append(o.listeners, fn) }

func (o *Orchestrator) Document() *svgmap.Document { return o.doc }
func (o *Orchestrator) DownloadURL() string        { return o.downloadURL }
func (o *Orchestrator) Busy() bool                 { return o.busy }
func (o *Orchestrator) Form() Form                 { return o.form }

func (o *Orchestrator) SetForm(f Form) {
	o.form = f
	o.changed()
}

func (o *Orchestrator) SetSVGPath(p string) {
	o.form.SVGPath = p
	o.changed()
}

func (o *Orchestrator) SetCSVPath(p string) {
	o.form.CSVPath = p
	o.changed()
}

func (o *Orchestrator) SetTitle(title string) {
	o.form.Title = title
	o.changed()
}

func (o *Orchestrator) SetStrokeWidth(w float64) {
	o.form.StrokeWidth = w
	o.changed()
}

// Render uploads the form and swaps in the returned map. A fresh render
// resets the view; a preserving one keeps zoom and pan. Failures leave the
// displayed map untouched.
func (o *Orchestrator) Render(preserve bool) error {
	if o.busy {
		return ErrBusy
	}
	form := o.form
	if o.doc == nil && form.SVGPath == "" {
		o.alert.Alert(ErrMissingSVG.Error())
		return ErrMissingSVG
	}
	o.busy = true
	o.changed()

	var (
		doc *svgmap.Document
		res api.ProcessResult
	)
	o.runner.Go(func(ctx context.Context) error {
		req, err := o.buildRequest(form)
		if err != nil {
			return err
		}
		res, err = o.client.Process(ctx, req)
		if err != nil {
			return err
		}
		doc, err = svgmap.Parse(res.SVGContent)
		if err != nil {
			return fmt.Errorf("parse rendered map: %w", err)
		}
		return nil
	}, func(err error) {
		o.busy = false
		if err != nil {
			o.changed()
			log.Printf("Render failed: %v", err)
			o.alert.Alert(api.Describe("Render", err))
			return
		}
		o.install(doc, res.DownloadURL, preserve)
	})
	return nil
}

// Reupload re-sends one changed input file through a preserving render.
func (o *Orchestrator) Reupload(path string) error {
	switch filepath.Ext(path) {
	case ".svg", ".SVG":
		o.form.SVGPath = path
	default:
		o.form.CSVPath = path
	}
	return o.Render(true)
}

func (o *Orchestrator) buildRequest(form Form) (api.ProcessRequest, error) {
	req := api.ProcessRequest{Title: form.Title, StrokeWidth: form.StrokeWidth}
	if form.SVGPath != "" {
		data, err := o.readFile(form.SVGPath)
		if err != nil {
			return req, fmt.Errorf("read svg: %w", err)
		}
		req.SVG = &api.Upload{Name: filepath.Base(form.SVGPath), Data: data}
	}
	if form.CSVPath != "" {
		data, err := o.readFile(form.CSVPath)
		if err != nil {
			return req, fmt.Errorf("read csv: %w", err)
		}
		req.CSV = &api.Upload{Name: filepath.Base(form.CSVPath), Data: data}
	}
	return req, nil
}

func (o *Orchestrator) install(doc *svgmap.Document, downloadURL string, preserve bool) {
	hadMap := o.doc != nil
	o.doc = doc
	o.downloadURL = downloadURL
	for _, t := range o.targets {
		t.Attach(doc)
	}
	if preserve && hadMap {
		o.view.Reapply()
	} else {
		w, h := doc.Size()
		o.view.Reset(transform.Size{W: w, H: h})
	}
	o.form.SVGPath = ""
	o.form.CSVPath = ""
	o.changed()
}

// Download saves the last rendered map to dst.
func (o *Orchestrator) Download(dst string) error {
	if o.downloadURL == "" {
		return ErrNoDownload
	}
	url := o.downloadURL
	o.runner.Go(func(ctx context.Context) error {
		f, err := os.Create(dst)
		if err != nil {
			return err
		}
		n, err := o.client.Download(ctx, url, f)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return err
		}
		log.Printf("saved %s (%s)", dst, humanize.Bytes(uint64(n)))
		return nil
	}, func(err error) {
		if err != nil {
			log.Printf("Download failed: %v", err)
			o.alert.Alert(api.Describe("Download", err))
		}
	})
	return nil
}

func (o *Orchestrator) changed() {
	for _, fn := range o.listeners {
		fn()
	}
}
