// Package schedule implements a date-ordered priority queue of scheduled
// handlers and the recurrence arithmetic which drives it.
package schedule

import (
	"fmt"
	"time"

	"github.com/sboehler/foresight/lib/common/date"
)

// Periodic describes a recurrence: every N intervals starting at Start,
// optionally bounded by End (the last permitted date). It is immutable;
// the lazy date sequence lives in the cursor returned by Dates.
type Periodic struct {
	Start    time.Time
	N        int
	Interval date.Interval
	End      time.Time
}

// NewPeriodic creates a recurrence. N must be positive and the interval
// must be a real unit; violations are configuration errors, detected here
// rather than at simulation time.
func NewPeriodic(start time.Time, n int, interval date.Interval) (*Periodic, error) {
	if n < 1 {
		return nil, fmt.Errorf("invalid recurrence: n must be positive, got %d", n)
	}
	if interval == date.Once {
		return nil, fmt.Errorf("invalid recurrence: interval %v is not periodic", interval)
	}
	return &Periodic{Start: start, N: n, Interval: interval}, nil
}

// Until bounds the recurrence: no date after end is produced.
func (p Periodic) Until(end time.Time) *Periodic {
	p.End = end
	return &p
}

func (p *Periodic) String() string {
	return fmt.Sprintf("%d %s", p.N, p.Interval)
}

// Dates returns a fresh cursor positioned at Start. Cursors are fully
// independent; restarting a recurrence is simply calling Dates again.
func (p *Periodic) Dates() *Dates {
	return &Dates{periodic: p, next: p.Start}
}

// Dates is a cursor over the lazy, unbounded-unless-bounded sequence of
// recurrence dates.
type Dates struct {
	periodic *Periodic // nil for a one-time occurrence
	next     time.Time
	done     bool
}

// Once returns a cursor yielding a single date.
func Once(d time.Time) *Dates {
	return &Dates{next: d}
}

// Next returns the next date in the sequence, or false when the sequence
// is exhausted.
func (ds *Dates) Next() (time.Time, bool) {
	if ds.done {
		return time.Time{}, false
	}
	if ds.periodic == nil {
		ds.done = true
		return ds.next, true
	}
	p := ds.periodic
	if !p.End.IsZero() && ds.next.After(p.End) {
		ds.done = true
		return time.Time{}, false
	}
	res := ds.next
	ds.next = date.Add(ds.next, p.Interval, p.N)
	return res, true
}

// Copy returns an independent cursor at the same position.
func (ds *Dates) Copy() *Dates {
	copy := *ds
	return &copy
}
