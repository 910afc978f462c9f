package schedule

import (
	"container/heap"
	"fmt"
	"time"

	"github.com/sboehler/foresight/lib/common/compare"
)

// Scheduled is what the schedule knows about a handler: its identity, the
// date it first applies, and its recurrence, if any.
type Scheduled interface {
	Name() string
	Start() time.Time
	Period() *Periodic
}

// PastDateError reports an attempt to mutate or run the schedule at or
// before its last-processed watermark.
type PastDateError struct {
	Date    time.Time
	LastRun time.Time
	Handler string
}

func (e PastDateError) Error() string {
	if len(e.Handler) > 0 {
		return fmt.Sprintf("cannot schedule %s at %s: already ran to %s",
			e.Handler, e.Date.Format("2006-01-02"), e.LastRun.Format("2006-01-02"))
	}
	return fmt.Sprintf("cannot run to %s: already ran to %s",
		e.Date.Format("2006-01-02"), e.LastRun.Format("2006-01-02"))
}

// Entry is a scheduled handler together with its private recurrence cursor
// and its position in the queue. Entries are owned by exactly one Schedule.
type Entry[H Scheduled] struct {
	Handler H
	Date    time.Time

	dates *Dates
	seq   uint64
}

// Schedule is a priority queue of handlers, ordered by (date, insertion
// sequence). The sequence breaks date ties deterministically: among entries
// due on the same date, insertion order wins.
type Schedule[H Scheduled] struct {
	entries entries[H]
	seq     uint64
	lastRun time.Time
}

// New creates an empty schedule.
func New[H Scheduled]() *Schedule[H] {
	return &Schedule[H]{}
}

// Add registers a handler. Its first due date is the first recurrence date
// if periodic, or its start date otherwise. Adding an entry due at or
// before the watermark is a contract violation: settled history is never
// rewritten.
func (s *Schedule[H]) Add(h H) error {
	var dates *Dates
	if p := h.Period(); p != nil {
		dates = p.Dates()
	} else {
		dates = Once(h.Start())
	}
	due, ok := dates.Next()
	if !ok {
		return fmt.Errorf("handler %s has an empty recurrence", h.Name())
	}
	if !s.lastRun.IsZero() && !due.After(s.lastRun) {
		return PastDateError{Date: due, LastRun: s.lastRun, Handler: h.Name()}
	}
	s.seq++
	heap.Push(&s.entries, &Entry[H]{
		Handler: h,
		Date:    due,
		dates:   dates,
		seq:     s.seq,
	})
	return nil
}

// RunUntil invokes fn for every entry due at or before until, in ascending
// (date, sequence) order. A recurring entry is re-queued at its next date
// before fn returns, so it is absent from the queue only during its own
// invocation. The watermark advances to until even if nothing was due.
func (s *Schedule[H]) RunUntil(until time.Time, fn func(due time.Time, handler H) error) error {
	if !s.lastRun.IsZero() && !until.After(s.lastRun) {
		return PastDateError{Date: until, LastRun: s.lastRun}
	}
	s.lastRun = until
	for len(s.entries) > 0 && !s.entries[0].Date.After(until) {
		entry := heap.Pop(&s.entries).(*Entry[H])
		due := entry.Date
		if next, ok := entry.dates.Next(); ok {
			entry.Date = next
			heap.Push(&s.entries, entry)
		}
		if err := fn(due, entry.Handler); err != nil {
			return err
		}
	}
	return nil
}

// LastRun returns the watermark.
func (s *Schedule[H]) LastRun() time.Time {
	return s.lastRun
}

// Len returns the number of queued entries.
func (s *Schedule[H]) Len() int {
	return len(s.entries)
}

// Copy deep-copies the schedule: each entry gets an independent cursor at
// the same position, sequence numbers are preserved, and the watermark is
// reset so the copy can run from the beginning of its own series.
func (s *Schedule[H]) Copy() *Schedule[H] {
	res := &Schedule[H]{
		entries: make(entries[H], len(s.entries)),
		seq:     s.seq,
	}
	for i, entry := range s.entries {
		res.entries[i] = &Entry[H]{
			Handler: entry.Handler,
			Date:    entry.Date,
			dates:   entry.dates.Copy(),
			seq:     entry.seq,
		}
	}
	// The heap invariant is position-independent, so the copied slice is
	// already a valid heap.
	return res
}

// Entries returns a snapshot of the queued entries in (date, sequence)
// order.
func (s *Schedule[H]) Entries() []*Entry[H] {
	res := make([]*Entry[H], len(s.entries))
	copy(res, s.entries)
	compare.Sort(res, func(e1, e2 *Entry[H]) compare.Order {
		if o := compare.Time(e1.Date, e2.Date); o != compare.Equal {
			return o
		}
		return compare.Ordered(e1.seq, e2.seq)
	})
	return res
}

type entries[H Scheduled] []*Entry[H]

func (es entries[H]) Len() int {
	return len(es)
}

func (es entries[H]) Less(i, j int) bool {
	if !es[i].Date.Equal(es[j].Date) {
		return es[i].Date.Before(es[j].Date)
	}
	return es[i].seq < es[j].seq
}

func (es entries[H]) Swap(i, j int) {
	es[i], es[j] = es[j], es[i]
}

func (es *entries[H]) Push(x any) {
	*es = append(*es, x.(*Entry[H]))
}

func (es *entries[H]) Pop() any {
	old := *es
	n := len(old)
	res := old[n-1]
	old[n-1] = nil
	*es = old[:n-1]
	return res
}
