package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second), srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestProcessSendsMultipartForm(t *testing.T) {
	var gotTitle, gotStroke, gotSVG, reqID string
	var hasCSV bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/process" {
			http.NotFound(w, r)
			return
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		reqID = r.Header.Get(RequestIDHeader)
		gotTitle = r.FormValue("map_title")
		gotStroke = r.FormValue("stroke_width")
		if f, _, err := r.FormFile("svg_file"); err == nil {
			b, _ := io.ReadAll(f)
			gotSVG = string(b)
		}
		_, _, err := r.FormFile("csv_file")
		hasCSV = err == nil
		writeJSON(w, http.StatusOK, map[string]string{
			"status":       "success",
			"svg_content":  "<svg/>",
			"download_url": "/uploads/final_result.svg",
		})
	}))

	res, err := c.Process(context.Background(), ProcessRequest{
		SVG:         &Upload{Name: "map.svg", Data: []byte("<svg>raw</svg>")},
		StrokeWidth: 2.5,
	})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if res.SVGContent != "<svg/>" || res.DownloadURL != "/uploads/final_result.svg" {
		t.Fatalf("unexpected result %+v", res)
	}
	if gotTitle != DefaultTitle || gotStroke != "2.5" {
		t.Fatalf("form fields title=%q stroke=%q", gotTitle, gotStroke)
	}
	if gotSVG != "<svg>raw</svg>" || hasCSV {
		t.Fatalf("file parts svg=%q csv=%v", gotSVG, hasCSV)
	}
	if reqID == "" {
		t.Fatalf("missing %s header", RequestIDHeader)
	}
}

func TestProcessServerError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "upload both files"})
	}))

	_, err := c.Process(context.Background(), ProcessRequest{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *Error, got %v", err)
	}
	if apiErr.Status != http.StatusBadRequest || apiErr.Message != "upload both files" {
		t.Fatalf("unexpected error %+v", apiErr)
	}
	if apiErr.RequestID == "" || !strings.Contains(apiErr.Error(), apiErr.RequestID) {
		t.Fatalf("request id not reported: %v", apiErr)
	}
}

func TestTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c := New(srv.URL, time.Second)
	srv.Close()

	err := c.BatchSwing(context.Background(), SwingRequest{DistrictIDs: []string{"d1"}, PartyID: "A", Percent: 1})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		t.Fatalf("transport failure must not look like a server error")
	}
}

func TestDistrictDecoding(t *testing.T) {
	cases := []struct {
		name  string
		body  string
		seats int
		votes []PartyVotes
	}{
		{
			name:  "mapping_keeps_order",
			body:  `{"status":"success","data":{"info":{"Seats":3},"votes":{"Zed":70000,"Amy":30000}}}`,
			seats: 3,
			votes: []PartyVotes{{"Zed", "Zed", 70000}, {"Amy", "Amy", 30000}},
		},
		{
			name:  "list_with_names",
			body:  `{"status":"success","data":{"info":{"Seats":"2"},"votes":[{"id":"A","name":"Alpha","count":10},{"id":"B","name":"","count":5}]}}`,
			seats: 2,
			votes: []PartyVotes{{"A", "Alpha", 10}, {"B", "B", 5}},
		},
		{
			name:  "missing_seats_defaults_to_one",
			body:  `{"status":"success","data":{"info":{},"votes":{}}}`,
			seats: 1,
			votes: nil,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/district/P-1" {
					http.NotFound(w, r)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				_, _ = io.WriteString(w, tc.body)
			}))
			d, err := c.District(context.Background(), "P-1")
			if err != nil {
				t.Fatalf("District: %v", err)
			}
			if d.Seats != tc.seats {
				t.Fatalf("seats %d, want %d", d.Seats, tc.seats)
			}
			if len(d.Votes) != len(tc.votes) || (len(tc.votes) > 0 && !reflect.DeepEqual(d.Votes, tc.votes)) {
				t.Fatalf("votes %+v, want %+v", d.Votes, tc.votes)
			}
		})
	}
}

func TestDistrictNonSuccessStatus(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "not_found"})
	}))
	_, err := c.District(context.Background(), "nope")
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Message != "not_found" {
		t.Fatalf("expected not_found server error, got %v", err)
	}
}

func TestUpdateAndSwingBodies(t *testing.T) {
	bodies := map[string]map[string]any{}
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			writeJSON(w, http.StatusUnsupportedMediaType, map[string]string{"error": ct})
			return
		}
		var m map[string]any
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
			return
		}
		bodies[r.URL.Path] = m
		w.WriteHeader(http.StatusOK)
	}))

	ctx := context.Background()
	if err := c.UpdateDistrict(ctx, UpdateRequest{DistrictID: "d1", Seats: 2, Votes: map[string]int{"A": 5}}); err != nil {
		t.Fatalf("UpdateDistrict: %v", err)
	}
	if err := c.BatchSwing(ctx, SwingRequest{DistrictIDs: []string{"d1", "d2"}, PartyID: "A", Percent: -2.5, LockTotal: true}); err != nil {
		t.Fatalf("BatchSwing: %v", err)
	}

	upd := bodies["/api/district/update"]
	if upd["district_id"] != "d1" || upd["seats"] != float64(2) {
		t.Fatalf("update body %v", upd)
	}
	swing := bodies["/api/batch/swing"]
	if swing["party_id"] != "A" || swing["percent"] != -2.5 || swing["lock_total"] != true {
		t.Fatalf("swing body %v", swing)
	}
	if ids, _ := swing["district_ids"].([]any); len(ids) != 2 {
		t.Fatalf("swing ids %v", swing["district_ids"])
	}
}

func TestDownload(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/uploads/final_result.svg" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, "<svg>done</svg>")
	}))

	var buf bytes.Buffer
	n, err := c.Download(context.Background(), "/uploads/final_result.svg", &buf)
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	if n != int64(buf.Len()) || buf.String() != "<svg>done</svg>" {
		t.Fatalf("downloaded %d bytes: %q", n, buf.String())
	}

	if _, err := c.Download(context.Background(), "/missing", io.Discard); err == nil {
		t.Fatalf("expected error for missing download")
	}
}

func TestURL(t *testing.T) {
	c := New("http://host:5000/", 0)
	if got := c.URL("/api/process"); got != "http://host:5000/api/process" {
		t.Fatalf("URL = %q", got)
	}
	if got := c.URL("https://cdn/x.svg"); got != "https://cdn/x.svg" {
		t.Fatalf("absolute URL rewritten: %q", got)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"server", &Error{Status: 500, Message: "render broke"}, "Save failed: render broke"},
		{"transport", fmt.Errorf("%w: dial", ErrTransport), "Network request failed"},
		{"other", errors.New("bad markup"), "Save failed: bad markup"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := Describe("Save", c.err); got != c.want {
				t.Fatalf("Describe = %q, want %q", got, c.want)
			}
		})
	}
}
