// Package account implements named accounts and the incremental state
// machine which tracks their balances over a simulation run.
package account

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/common/compare"
	"github.com/sboehler/foresight/lib/common/set"
	"github.com/sboehler/foresight/lib/model/currency"
)

// Status is the status of an account.
type Status int

const (
	// Open is an active account.
	Open Status = iota
	// Closed is an account which no longer accepts balance changes.
	Closed
	// Future is an account which becomes active on its first funding.
	Future
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Closed:
		return "closed"
	case Future:
		return "future"
	}
	return ""
}

// ParseStatus parses an account status.
func ParseStatus(s string) (Status, error) {
	switch s {
	case "open":
		return Open, nil
	case "closed":
		return Closed, nil
	case "future":
		return Future, nil
	}
	return Open, fmt.Errorf("invalid account status %q", s)
}

// Value is the immutable state of an account at a point in time: an amount,
// a status and a currency. Arithmetic is defined only on open values; on any
// other status the value is returned unchanged.
type Value struct {
	Amount   decimal.Decimal
	Status   Status
	Currency *currency.Currency
}

// NewValue creates an account value rounded to the currency's digits.
func NewValue(amount decimal.Decimal, status Status, cur *currency.Currency) Value {
	return Value{
		Amount:   amount.Round(cur.Digits()),
		Status:   status,
		Currency: cur,
	}
}

// Add returns the value increased by d.
func (v Value) Add(d decimal.Decimal) Value {
	if v.Status != Open {
		return v
	}
	return NewValue(v.Amount.Add(d), Open, v.Currency)
}

// Sub returns the value decreased by d.
func (v Value) Sub(d decimal.Decimal) Value {
	if v.Status != Open {
		return v
	}
	return NewValue(v.Amount.Sub(d), Open, v.Currency)
}

// Scale returns the value multiplied by f.
func (v Value) Scale(f decimal.Decimal) Value {
	if v.Status != Open {
		return v
	}
	return NewValue(v.Amount.Mul(f), Open, v.Currency)
}

// Neg returns the negated value.
func (v Value) Neg() Value {
	if v.Status != Open {
		return v
	}
	return NewValue(v.Amount.Neg(), Open, v.Currency)
}

func (v Value) String() string {
	if v.Status != Open {
		return "--"
	}
	return fmt.Sprintf("%s %s", v.Currency.Symbol(), v.Amount.StringFixed(v.Currency.Digits()))
}

// Account is the immutable configuration of an account: a unique name, an
// initial value and a set of category tags used for filtering and reporting.
// The engine never mutates an Account; its evolving balance lives in the
// Balance handle returned by Open.
type Account struct {
	name       string
	value      Value
	categories set.Set[string]
}

// New creates an account.
func New(name string, value Value, categories ...string) (*Account, error) {
	if len(name) == 0 {
		return nil, fmt.Errorf("invalid account name %q", name)
	}
	return &Account{
		name:       name,
		value:      value,
		categories: set.Of(categories...),
	}, nil
}

// Name returns the name of this account.
func (a *Account) Name() string {
	return a.name
}

// Value returns the initial value.
func (a *Account) Value() Value {
	return a.value
}

// Categories returns the sorted category tags.
func (a *Account) Categories() []string {
	return a.categories.Sorted(compare.Ordered[string])
}

// HasCategory returns whether the account carries the given tag.
func (a *Account) HasCategory(c string) bool {
	return a.categories.Has(c)
}

func (a *Account) String() string {
	return fmt.Sprintf("<acct %s: %s>", a.name, a.value)
}

func Compare(a1, a2 *Account) compare.Order {
	return compare.Ordered(a1.name, a2.name)
}
