package journal

import (
	"context"
	"encoding/json"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestJournal(t *testing.T) *Journal {
	t.Helper()
	j, err := Open(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func TestRecordAndRecent(t *testing.T) {
	j := openTestJournal(t)
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	tick := 0
	j.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	ctx := context.Background()
	first, err := j.Record(ctx, KindUpdate, []string{"d1"}, map[string]any{"seats": 2})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := j.Record(ctx, KindSwing, []string{"d1", "d2"}, map[string]any{"percent": -1.5}); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if first.ID == "" {
		t.Fatalf("entry has no id")
	}

	got, err := j.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Kind != KindSwing || !reflect.DeepEqual(got[0].Districts, []string{"d1", "d2"}) {
		t.Fatalf("newest entry %+v", got[0])
	}
	if got[1].ID != first.ID || !got[1].CreatedAt.Equal(base.Add(time.Minute)) {
		t.Fatalf("oldest entry %+v", got[1])
	}

	var payload map[string]float64
	if err := json.Unmarshal(got[0].Payload, &payload); err != nil || payload["percent"] != -1.5 {
		t.Fatalf("payload %s (%v)", got[0].Payload, err)
	}
}

func TestRecentLimit(t *testing.T) {
	j := openTestJournal(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		if _, err := j.Record(ctx, KindUpdate, []string{"d"}, nil); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	got, err := j.Recent(ctx, 3)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(got))
	}
}
