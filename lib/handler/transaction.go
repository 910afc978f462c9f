package handler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/schedule"
	"github.com/sboehler/foresight/lib/timeline"
)

// TransferFunc computes the signed amount to move between two accounts from
// the tick's date and both snapshot values. A negative amount reverses the
// direction.
type TransferFunc func(d time.Time, from, to account.Value) (decimal.Decimal, error)

// Transaction applies a TransferFunc to a pair of accounts: the amount is
// subtracted from the source and added to the destination, in that order,
// and both legs are logged.
type Transaction struct {
	base
	from, to string
	fn       TransferFunc
}

var _ timeline.Handler = (*Transaction)(nil)

// NewTransaction builds a transaction handler.
func NewTransaction(name, from, to string, start time.Time, period *schedule.Periodic, description string, fn TransferFunc) *Transaction {
	return &Transaction{
		base: base{
			name:        name,
			start:       start,
			period:      period,
			description: description,
		},
		from: from,
		to:   to,
		fn:   fn,
	}
}

// Accounts returns the source and destination accounts.
func (t *Transaction) Accounts() []string {
	return []string{t.from, t.to}
}

// Invoke computes the amount from the snapshot values and applies both
// legs. Before the handler's start date it is a no-op. Either leg failing
// aborts the handler; the transaction never partially applies across ticks
// because an error terminates the run.
func (t *Transaction) Invoke(step *timeline.Step) error {
	if step.Date.Before(t.start) {
		return nil
	}
	from, ok := step.Values[t.from]
	if !ok {
		return t.errorf(step, "unknown account %q", t.from)
	}
	to, ok := step.Values[t.to]
	if !ok {
		return t.errorf(step, "unknown account %q", t.to)
	}
	amount, err := t.fn(step.Date, from, to)
	if err != nil {
		return t.wrap(step, err)
	}
	res, err := step.Balances[t.from].Apply(account.Delta{Amount: amount.Neg()})
	if err != nil {
		return t.wrap(step, err)
	}
	step.Record(t.from, t, amount.Neg(), res)
	res, err = step.Balances[t.to].Apply(account.Delta{Amount: amount})
	if err != nil {
		return t.wrap(step, err)
	}
	step.Record(t.to, t, amount, res)
	return nil
}

// BelowMinimumBalanceError reports a transfer which would take the source
// account below its configured floor. Nothing is applied.
type BelowMinimumBalanceError struct {
	Date    time.Time
	Account string
	Balance decimal.Decimal
	Minimum decimal.Decimal
}

func (e BelowMinimumBalanceError) Error() string {
	return fmt.Sprintf("account %s at %s: balance %s would fall below minimum %s",
		e.Account, e.Date.Format("2006-01-02"), e.Balance, e.Minimum)
}
