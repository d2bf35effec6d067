package ledger

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestLockedEditRedistributes(t *testing.T) {
	l := New([]Entry{{"A", "Alpha", 70000}, {"B", "Beta", 30000}}, true)
	if l.Total() != 100000 {
		t.Fatalf("session total %d", l.Total())
	}
	if err := l.SetCount("A", 50000); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if got, _ := l.Count("B"); got != 50000 {
		t.Fatalf("B = %d, want 50000", got)
	}
	got := []string{FormatPercent(l.Percent("A")), FormatPercent(l.Percent("B"))}
	if want := []string{"50.0%", "50.0%"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("percents %v, want %v", got, want)
	}
}

func TestProportionalShareAcrossOthers(t *testing.T) {
	l := New([]Entry{{"A", "", 50}, {"B", "", 30}, {"C", "", 20}}, true)
	if err := l.SetCount("A", 20); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	// 80 left, split 30:20
	want := map[string]int{"A": 20, "B": 48, "C": 32}
	if got := l.Votes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("votes %v, want %v", got, want)
	}
}

func TestRoundingSlackGoesToOthers(t *testing.T) {
	l := New([]Entry{{"A", "", 1}, {"B", "", 1}, {"C", "", 1}}, true)
	if err := l.SetCount("A", 0); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if l.Sum() != 3 {
		t.Fatalf("sum %d, want 3", l.Sum())
	}
	if got, _ := l.Count("A"); got != 0 {
		t.Fatalf("edited party lost its typed value: %d", got)
	}
	// 3 split over two equal parties: the first in display order takes the slack
	if b, _ := l.Count("B"); b != 2 {
		t.Fatalf("B = %d, want 2", b)
	}
}

func TestUniformSplitWhenOthersAreZero(t *testing.T) {
	l := New([]Entry{{"A", "", 10}, {"B", "", 0}, {"C", "", 0}}, true)
	if err := l.SetCount("A", 4); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	want := map[string]int{"A": 4, "B": 3, "C": 3}
	if got := l.Votes(); !reflect.DeepEqual(got, want) {
		t.Fatalf("votes %v, want %v", got, want)
	}
}

func TestLockedSumInvariantUnderRandomEdits(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for round := 0; round < 50; round++ {
		n := 2 + rng.Intn(6)
		entries := make([]Entry, n)
		for i := range entries {
			entries[i] = Entry{PartyID: string(rune('A' + i)), Count: rng.Intn(50000)}
		}
		l := New(entries, true)
		total := l.Total()

		for step := 0; step < 40; step++ {
			party := entries[rng.Intn(n)].PartyID
			var err error
			if rng.Intn(2) == 0 {
				err = l.SetCount(party, rng.Intn(total+total/4))
			} else {
				err = l.SetPercent(party, rng.Float64()*100)
			}
			if err != nil {
				t.Fatalf("edit: %v", err)
			}
			if l.Sum() != total {
				t.Fatalf("round %d step %d: sum %d drifted from %d", round, step, l.Sum(), total)
			}
		}
	}
}

func TestUnlockedEditDoesNotRedistribute(t *testing.T) {
	l := New([]Entry{{"A", "", 600}, {"B", "", 400}}, false)
	if err := l.SetCount("A", 1000); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if b, _ := l.Count("B"); b != 400 {
		t.Fatalf("B changed to %d", b)
	}
	if l.Sum() != 1400 {
		t.Fatalf("sum %d", l.Sum())
	}
	if got := FormatPercent(l.Percent("B")); got != "28.6%" {
		t.Fatalf("B share %s against live sum, want 28.6%%", got)
	}
}

func TestSetPercentUsesBaseTotal(t *testing.T) {
	locked := New([]Entry{{"A", "", 700}, {"B", "", 300}}, true)
	if err := locked.SetPercent("B", 45.5); err != nil {
		t.Fatalf("SetPercent: %v", err)
	}
	if b, _ := locked.Count("B"); b != 455 {
		t.Fatalf("locked B = %d, want 455", b)
	}
	if a, _ := locked.Count("A"); a != 545 {
		t.Fatalf("locked A = %d, want 545", a)
	}

	unlocked := New([]Entry{{"A", "", 700}, {"B", "", 300}}, false)
	if err := unlocked.SetPercent("B", 50); err != nil {
		t.Fatalf("SetPercent: %v", err)
	}
	if b, _ := unlocked.Count("B"); b != 500 {
		t.Fatalf("unlocked B = %d, want 500", b)
	}
}

func TestDefaultTotalWithoutVotes(t *testing.T) {
	l := New([]Entry{{"A", "", 0}, {"B", "", 0}}, true)
	if l.Total() != DefaultTotal {
		t.Fatalf("total %d, want %d", l.Total(), DefaultTotal)
	}
	if err := l.SetPercent("A", 25); err != nil {
		t.Fatalf("SetPercent: %v", err)
	}
	if b, _ := l.Count("B"); b != 75000 {
		t.Fatalf("B = %d, want 75000", b)
	}
}

func TestLockedValueClampedToTotal(t *testing.T) {
	l := New([]Entry{{"A", "", 60}, {"B", "", 40}}, true)
	if err := l.SetCount("A", 500); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if a, _ := l.Count("A"); a != 100 {
		t.Fatalf("A = %d, want clamp to 100", a)
	}
	if b, _ := l.Count("B"); b != 0 {
		t.Fatalf("B = %d, want 0", b)
	}
}

func TestUnknownParty(t *testing.T) {
	l := New([]Entry{{"A", "", 1}}, true)
	if err := l.SetCount("Z", 1); !errors.Is(err, ErrUnknownParty) {
		t.Fatalf("expected ErrUnknownParty, got %v", err)
	}
	if err := l.SetPercent("Z", 1); !errors.Is(err, ErrUnknownParty) {
		t.Fatalf("expected ErrUnknownParty, got %v", err)
	}
}

func TestSinglePartyLockedKeepsTypedValue(t *testing.T) {
	l := New([]Entry{{"A", "", 100}}, true)
	if err := l.SetCount("A", 40); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	if a, _ := l.Count("A"); a != 40 {
		t.Fatalf("A = %d", a)
	}
	if got := FormatPercent(l.Percent("A")); got != "40.0%" {
		t.Fatalf("share %s", got)
	}
}

func TestPercentsFollowEntryOrder(t *testing.T) {
	l := New([]Entry{{"A", "", 25}, {"B", "", 75}}, false)
	if got, want := l.Percents(), []float64{25, 75}; !reflect.DeepEqual(got, want) {
		t.Fatalf("unlocked percents %v, want %v", got, want)
	}
	l.SetLock(true)
	if err := l.SetCount("A", 10); err != nil {
		t.Fatalf("SetCount: %v", err)
	}
	got := l.Percents()
	if len(got) != 2 || got[0] != 10 || got[1] != 90 {
		t.Fatalf("locked percents %v", got)
	}
	for i, e := range l.Entries() {
		if got[i] != l.Percent(e.PartyID) {
			t.Fatalf("Percents[%d]=%v disagrees with Percent(%s)=%v", i, got[i], e.PartyID, l.Percent(e.PartyID))
		}
	}
}
