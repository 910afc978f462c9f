// Package handler builds schedule-compatible handlers from pure calculation
// functions. An event computes an update for one account; a transaction
// moves an amount between two accounts. The wrapping types carry the
// scheduling metadata (start, recurrence, description), so the schedule and
// the timeline never care which kind they hold.
package handler

import (
	"fmt"
	"time"

	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/schedule"
	"github.com/sboehler/foresight/lib/timeline"
)

type base struct {
	name        string
	start       time.Time
	period      *schedule.Periodic
	description string
}

// Name returns the handler's identity.
func (b *base) Name() string {
	return b.name
}

// Start returns the first date at which the handler applies.
func (b *base) Start() time.Time {
	return b.start
}

// Period returns the recurrence, or nil for a one-time handler.
func (b *base) Period() *schedule.Periodic {
	return b.period
}

// Description returns the human-readable description.
func (b *base) Description() string {
	return b.description
}

func (b *base) errorf(step *timeline.Step, format string, args ...any) error {
	return fmt.Errorf("%s at %s: %w", b.name, date.FormatMonth(step.Date),
		fmt.Errorf(format, args...))
}

func (b *base) wrap(step *timeline.Step, err error) error {
	return fmt.Errorf("%s at %s: %w", b.name, date.FormatMonth(step.Date), err)
}
