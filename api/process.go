package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
)

// Default form values, matching what the server assumes when they are absent.
const (
	DefaultTitle       = "选情地图"
	DefaultStrokeWidth = 1.0
)

// Upload is one file part of the process form.
type Upload struct {
	Name string
	Data []byte
}

// ProcessRequest is the multipart form posted to /api/process. Files are
// optional: the server keeps the last uploaded ones.
type ProcessRequest struct {
	SVG         *Upload
	CSV         *Upload
	Title       string
	StrokeWidth float64
}

type ProcessResult struct {
	SVGContent  string `json:"svg_content"`
	DownloadURL string `json:"download_url"`
}

func (r ProcessRequest) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	mw := multipart.NewWriter(buf)

	parts := []struct {
		field string
		file  *Upload
	}{
		{"svg_file", r.SVG},
		{"csv_file", r.CSV},
	}
	for _, p := range parts {
		if p.file == nil {
			continue
		}
		fw, err := mw.CreateFormFile(p.field, p.file.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := fw.Write(p.file.Data); err != nil {
			return nil, "", err
		}
	}

	title := r.Title
	if title == "" {
		title = DefaultTitle
	}
	stroke := r.StrokeWidth
	if stroke <= 0 {
		stroke = DefaultStrokeWidth
	}
	if err := mw.WriteField("map_title", title); err != nil {
		return nil, "", err
	}
	if err := mw.WriteField("stroke_width", strconv.FormatFloat(stroke, 'f', -1, 64)); err != nil {
		return nil, "", err
	}
	if err := mw.Close(); err != nil {
		return nil, "", err
	}
	return buf, mw.FormDataContentType(), nil
}

// Process uploads the form and returns the rendered markup.
func (c *Client) Process(ctx context.Context, r ProcessRequest) (ProcessResult, error) {
	body, contentType, err := r.encode()
	if err != nil {
		return ProcessResult{}, fmt.Errorf("encode process form: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/api/process", body)
	if err != nil {
		return ProcessResult{}, err
	}
	req.Header.Set("Content-Type", contentType)

	var out ProcessResult
	if err := c.send(req, &out); err != nil {
		return ProcessResult{}, err
	}
	if out.SVGContent == "" {
		return ProcessResult{}, &Error{Status: http.StatusOK, Message: "response has no svg_content", RequestID: req.Header.Get(RequestIDHeader)}
	}
	return out, nil
}

// Download streams the rendered SVG at url (relative or absolute) into w and
// returns the byte count.
func (c *Client) Download(ctx context.Context, url string, w io.Writer) (int64, error) {
	req, err := c.newRequest(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("Accept", "image/svg+xml")
	resp, err := c.do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: GET %s: %w", ErrTransport, url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return 0, &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode), RequestID: req.Header.Get(RequestIDHeader)}
	}
	n, err := io.Copy(w, resp.Body)
	if err != nil {
		return n, fmt.Errorf("%w: download %s: %w", ErrTransport, url, err)
	}
	return n, nil
}
