package handler

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/rate"
	"github.com/sboehler/foresight/lib/schedule"
)

// Interest returns an event handler which accrues compound interest on an
// account. The annual rate is converted to the recurrence's interval, so a
// quarterly recurrence accrues a quarter's growth per invocation; a one-time
// interest event accrues one month. Non-open accounts accrue nothing.
func Interest(acct string, start time.Time, period *schedule.Periodic, annual float64) (*Event, error) {
	perTick := rate.Monthly(annual)
	if period != nil {
		r, err := rate.PerInterval(annual, period.Interval)
		if err != nil {
			return nil, err
		}
		// N intervals per recurrence compound N times per tick.
		perTick = compound(r, period.N)
	}
	factor := decimal.NewFromFloat(perTick)
	fn := func(d time.Time, value account.Value) (account.Update, error) {
		if value.Status != account.Open {
			return account.NoOp{}, nil
		}
		return account.Delta{Amount: value.Amount.Mul(factor).Round(value.Currency.Digits())}, nil
	}
	description := fmt.Sprintf("%.2f%% APR", annual*100)
	return NewEvent("interest", acct, start, period, description, fn), nil
}

func compound(r float64, n int) float64 {
	res := 1.0
	for i := 0; i < n; i++ {
		res *= 1 + r
	}
	return res - 1
}

// TransferOption configures a transfer.
type TransferOption func(*transferConfig)

type transferConfig struct {
	minimum *decimal.Decimal
	maximum *decimal.Decimal
}

// WithMinimumBalance sets a floor on the source account. A transfer which
// would take the source below the floor fails with
// BelowMinimumBalanceError; nothing is applied.
func WithMinimumBalance(min decimal.Decimal) TransferOption {
	return func(cfg *transferConfig) {
		cfg.minimum = &min
	}
}

// WithMaximumBalance sets a cap on the destination account. A transfer
// which would push the destination above the cap is clamped so the
// destination lands exactly on the cap; it never overshoots and never
// fails. This asymmetry with the source floor is deliberate: the cap
// protects the destination without blocking the rest of the transfer.
func WithMaximumBalance(max decimal.Decimal) TransferOption {
	return func(cfg *transferConfig) {
		cfg.maximum = &max
	}
}

// Transfer returns a transaction handler moving a fixed amount between two
// accounts.
func Transfer(from, to string, start time.Time, period *schedule.Periodic, amount decimal.Decimal, options ...TransferOption) *Transaction {
	var cfg transferConfig
	for _, option := range options {
		option(&cfg)
	}
	fn := func(d time.Time, fromValue, toValue account.Value) (decimal.Decimal, error) {
		amt := amount
		if cfg.maximum != nil && toValue.Status == account.Open {
			if room := cfg.maximum.Sub(toValue.Amount); room.LessThan(amt) {
				amt = decimal.Max(room, decimal.Zero)
			}
		}
		if cfg.minimum != nil && fromValue.Status == account.Open {
			if fromValue.Amount.Sub(amt).LessThan(*cfg.minimum) {
				return decimal.Zero, BelowMinimumBalanceError{
					Date:    d,
					Account: from,
					Balance: fromValue.Amount.Sub(amt),
					Minimum: *cfg.minimum,
				}
			}
		}
		return amt, nil
	}
	description := amount.String()
	return NewTransaction("transfer", from, to, start, period, description, fn)
}

// FixedAmount returns an event handler applying a constant delta, e.g. a
// salary deposit or a recurring expense.
func FixedAmount(name, acct string, start time.Time, period *schedule.Periodic, amount decimal.Decimal) *Event {
	fn := func(d time.Time, value account.Value) (account.Update, error) {
		return account.Delta{Amount: amount}, nil
	}
	return NewEvent(name, acct, start, period, amount.String(), fn)
}

// CloseAccount returns a one-time event handler which closes an account at
// the given month.
func CloseAccount(acct string, start time.Time) *Event {
	fn := func(d time.Time, value account.Value) (account.Update, error) {
		return account.SetStatus{Status: account.Closed}, nil
	}
	return NewEvent("close", acct, start, nil, "close "+acct, fn)
}
