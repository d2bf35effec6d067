// Package ledger keeps a district's per-party vote counts consistent while
// one party is edited, optionally holding the district total fixed.
package ledger

import (
	"errors"
	"fmt"
	"math"
)

// DefaultTotal is the session total used when a district has no votes yet.
const DefaultTotal = 100000

var ErrUnknownParty = errors.New("ledger: unknown party")

type Entry struct {
	PartyID string
	Name    string
	Count   int
}

// Ledger is the vote state of one edit session.
type Ledger struct {
	entries []Entry
	index   map[string]int
	total   int
	lock    bool
}

// New starts an edit session. The session total is captured here, once.
func New(entries []Entry, lock bool) *Ledger {
	l := &Ledger{
		entries: make([]Entry, len(entries)),
		index:   make(map[string]int, len(entries)),
		lock:    lock,
	}
	copy(l.entries, entries)
	for i, e := range l.entries {
		if e.Count < 0 {
			l.entries[i].Count = 0
		}
		l.index[e.PartyID] = i
	}
	l.total = l.Sum()
	if l.total == 0 {
		l.total = DefaultTotal
	}
	return l
}

// Total is the session total captured when the ledger was created.
func (l *Ledger) Total() int { return l.total }

// Sum is the live sum of all counts.
func (l *Ledger) Sum() int {
	s := 0
	for _, e := range l.entries {
		s += e.Count
	}
	return s
}

func (l *Ledger) Locked() bool { return l.lock }

func (l *Ledger) SetLock(on bool) { l.lock = on }

func (l *Ledger) Len() int { return len(l.entries) }

// Entries returns a copy of the ledger rows in display order.
func (l *Ledger) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *Ledger) Count(party string) (int, bool) {
	i, ok := l.index[party]
	if !ok {
		return 0, false
	}
	return l.entries[i].Count, true
}

// Votes is the party -> count mapping sent back to the server.
func (l *Ledger) Votes() map[string]int {
	out := make(map[string]int, len(l.entries))
	for _, e := range l.entries {
		out[e.PartyID] = e.Count
	}
	return out
}

// SetCount sets party's count to v. With the lock on, the remaining budget
// total-v is shared across the other parties in proportion to their current
// counts (evenly when they are all zero). Largest remainders absorb the
// rounding slack, so the locked sum stays exact and v is kept as typed.
func (l *Ledger) SetCount(party string, v int) error {
	i, ok := l.index[party]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}
	if v < 0 {
		v = 0
	}
	if l.lock && v > l.total {
		v = l.total
	}
	l.entries[i].Count = v

	if !l.lock || len(l.entries) < 2 {
		return nil
	}
	l.redistribute(i, l.total-v)
	return nil
}

// SetPercent converts a slider percentage to a count against the locked total
// (or the live sum when unlocked) and applies it through SetCount.
func (l *Ledger) SetPercent(party string, p float64) error {
	if _, ok := l.index[party]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParty, party)
	}
	p = math.Max(0, math.Min(100, p))
	base := l.Sum()
	if l.lock {
		base = l.total
	}
	return l.SetCount(party, int(math.Round(p/100*float64(base))))
}

// Percent is party's share of the effective total, in percent.
func (l *Ledger) Percent(party string) float64 {
	i, ok := l.index[party]
	if !ok {
		return 0
	}
	return float64(l.entries[i].Count) / float64(l.effectiveTotal()) * 100
}

// Percents returns every share in display order.
func (l *Ledger) Percents() []float64 {
	eff := float64(l.effectiveTotal())
	out := make([]float64, len(l.entries))
	for i, e := range l.entries {
		out[i] = float64(e.Count) / eff * 100
	}
	return out
}

// FormatPercent renders a share with one decimal place.
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

func (l *Ledger) effectiveTotal() int {
	t := l.Sum()
	if l.lock {
		t = l.total
	}
	if t < 1 {
		t = 1
	}
	return t
}

func (l *Ledger) redistribute(edited, remaining int) {
	others := make([]int, 0, len(l.entries)-1)
	othersSum := int64(0)
	for j, e := range l.entries {
		if j == edited {
			continue
		}
		others = append(others, j)
		othersSum += int64(e.Count)
	}

	n := int64(len(others))
	R := int64(remaining)
	shares := make([]int64, len(others))
	rems := make([]int64, len(others))
	assigned := int64(0)
	for k, j := range others {
		if othersSum > 0 {
			num := R * int64(l.entries[j].Count)
			shares[k] = num / othersSum
			rems[k] = num % othersSum
		} else {
			shares[k] = R / n
			rems[k] = R % n
		}
		assigned += shares[k]
	}

	// Hand out the leftover units to the largest remainders; ties keep
	// display order.
	for left := R - assigned; left > 0; left-- {
		best := -1
		for k := range others {
			if rems[k] < 0 {
				continue
			}
			if best < 0 || rems[k] > rems[best] {
				best = k
			}
		}
		if best < 0 {
			break
		}
		shares[best]++
		rems[best] = -1
	}

	for k, j := range others {
		l.entries[j].Count = int(shares[k])
	}
}
