package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/milk9111/votemap/journal"
)

func TestPrintHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	j, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	ctx := context.Background()
	if _, err := j.Record(ctx, journal.KindUpdate, []string{"D-1"}, map[string]int{"A": 10}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := j.Record(ctx, journal.KindSwing, []string{"D-1", "D-2", "D-3", "D-4"}, map[string]any{"percent": 2.5}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	var out bytes.Buffer
	if err := printHistory(&out, path, 10); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines:\n%s", len(lines), out.String())
	}
	if !strings.Contains(lines[0], "swing") || !strings.Contains(lines[0], "(4 districts)") {
		t.Fatalf("newest entry should be the swing: %q", lines[0])
	}
	if !strings.Contains(lines[1], "update") || !strings.Contains(lines[1], `{"A":10}`) {
		t.Fatalf("unexpected update line: %q", lines[1])
	}
}

func TestPrintHistoryEmptyAndUnset(t *testing.T) {
	var out bytes.Buffer
	if err := printHistory(&out, filepath.Join(t.TempDir(), "empty.db"), 5); err != nil {
		t.Fatalf("printHistory: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "no edits recorded" {
		t.Fatalf("got %q", got)
	}
	if err := printHistory(&out, "", 5); err == nil {
		t.Fatalf("expected an error without a journal path")
	}
}

func TestParseHelpers(t *testing.T) {
	counts := map[string]int{"1,200": 1200, " 42 ": 42, "": 0, "abc": 0, "-5": 0}
	for in, want := range counts {
		if got := parseCount(in); got != want {
			t.Errorf("parseCount(%q) = %d, want %d", in, got, want)
		}
	}
	percents := map[string]float64{"-2.5": -2.5, "+3%": 3, "x": 0, " 10 % ": 10}
	for in, want := range percents {
		if got := parsePercent(in); got != want {
			t.Errorf("parsePercent(%q) = %v, want %v", in, got, want)
		}
	}
	if got := selectionText([]string{"a", "b"}); got != "a\nb" {
		t.Errorf("selectionText = %q", got)
	}
}
