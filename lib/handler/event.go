package handler

import (
	"time"

	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/schedule"
	"github.com/sboehler/foresight/lib/timeline"
)

// EventFunc computes an update for a single account from the tick's date
// and the account's snapshot value. It must be pure: it sees a snapshot,
// never the live handle.
type EventFunc func(d time.Time, value account.Value) (account.Update, error)

// Event applies an EventFunc to one account.
type Event struct {
	base
	account string
	fn      EventFunc
}

var _ timeline.Handler = (*Event)(nil)

// NewEvent builds an event handler.
func NewEvent(name, acct string, start time.Time, period *schedule.Periodic, description string, fn EventFunc) *Event {
	return &Event{
		base: base{
			name:        name,
			start:       start,
			period:      period,
			description: description,
		},
		account: acct,
		fn:      fn,
	}
}

// Accounts returns the bound account.
func (e *Event) Accounts() []string {
	return []string{e.account}
}

// Invoke computes the update from the step's snapshot value and applies it
// to the account handle. Before the handler's start date it is a no-op.
// Delta and Replace updates are recorded in the step's transaction log.
func (e *Event) Invoke(step *timeline.Step) error {
	if step.Date.Before(e.start) {
		return nil
	}
	value, ok := step.Values[e.account]
	if !ok {
		return e.errorf(step, "unknown account %q", e.account)
	}
	update, err := e.fn(step.Date, value)
	if err != nil {
		return e.wrap(step, err)
	}
	balance := step.Balances[e.account]
	prev := balance.Current()
	res, err := balance.Apply(update)
	if err != nil {
		return e.wrap(step, err)
	}
	switch u := update.(type) {
	case account.Delta:
		step.Record(e.account, e, u.Amount, res)
	case account.Replace:
		step.Record(e.account, e, res.Amount.Sub(prev.Amount), res)
	}
	return nil
}
