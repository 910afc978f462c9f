package handler

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/model/currency"
	"github.com/sboehler/foresight/lib/timeline"
)

var usd = currency.Default("USD")

func newStep(t *testing.T, d time.Time, accounts map[string]account.Value) *timeline.Step {
	t.Helper()
	step := &timeline.Step{
		Date:     d,
		Balances: make(map[string]*account.Balance),
		Values:   make(map[string]account.Value),
	}
	for name, v := range accounts {
		acct, err := account.New(name, v)
		if err != nil {
			t.Fatal(err)
		}
		step.Balances[name] = acct.Open()
		step.Values[name] = v
	}
	return step
}

func open(amount float64) account.Value {
	return account.NewValue(decimal.NewFromFloat(amount), account.Open, usd)
}

func TestEventBeforeStart(t *testing.T) {
	called := false
	e := NewEvent("test", "a", date.Date(2022, 5, 1), nil, "",
		func(d time.Time, v account.Value) (account.Update, error) {
			called = true
			return account.NoOp{}, nil
		})
	step := newStep(t, date.Date(2022, 4, 1), map[string]account.Value{"a": open(100)})

	if err := e.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("event fired before its start date")
	}
}

func TestEventAppliesAndLogs(t *testing.T) {
	e := NewEvent("bonus", "a", date.Date(2022, 1, 1), nil, "",
		func(d time.Time, v account.Value) (account.Update, error) {
			return account.Delta{Amount: decimal.NewFromInt(50)}, nil
		})
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{"a": open(100)})

	if err := e.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if got := step.Balances["a"].Current().Amount; !got.Equal(decimal.NewFromInt(150)) {
		t.Errorf("balance: got %s, wanted 150", got)
	}
	if len(step.Transactions) != 1 {
		t.Fatalf("transactions: got %d, wanted 1", len(step.Transactions))
	}
	tx := step.Transactions[0]
	if tx.Account != "a" || !tx.Delta.Equal(decimal.NewFromInt(50)) {
		t.Errorf("logged %+v", tx)
	}
	if !tx.Balance.Amount.Equal(decimal.NewFromInt(150)) {
		t.Errorf("logged balance: got %s", tx.Balance.Amount)
	}
}

func TestEventUnknownAccount(t *testing.T) {
	e := NewEvent("test", "nope", date.Date(2022, 1, 1), nil, "",
		func(d time.Time, v account.Value) (account.Update, error) {
			return account.NoOp{}, nil
		})
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{"a": open(100)})

	if err := e.Invoke(step); err == nil {
		t.Error("expected error for unknown account")
	}
}

func TestInterestDelta(t *testing.T) {
	e, err := Interest("a", date.Date(2022, 1, 1), nil, 0.12)
	if err != nil {
		t.Fatal(err)
	}
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{"a": open(1000)})

	if err := e.Invoke(step); err != nil {
		t.Fatal(err)
	}
	// (1.12)^(1/12) - 1 on 1000, rounded to cents.
	want := decimal.RequireFromString("1009.49")
	if got := step.Balances["a"].Current().Amount; !got.Equal(want) {
		t.Errorf("balance: got %s, wanted %s", got, want)
	}
}

func TestInterestSkipsNonOpen(t *testing.T) {
	e, err := Interest("a", date.Date(2022, 1, 1), nil, 0.12)
	if err != nil {
		t.Fatal(err)
	}
	v := account.NewValue(decimal.NewFromInt(1000), account.Future, usd)
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{"a": v})

	if err := e.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if got := step.Balances["a"].Current(); got.Status != account.Future {
		t.Errorf("status changed: %v", got)
	}
	if len(step.Transactions) != 0 {
		t.Errorf("unexpected transactions %v", step.Transactions)
	}
}

func TestTransferBothLegs(t *testing.T) {
	tr := Transfer("a", "b", date.Date(2022, 1, 1), nil, decimal.NewFromInt(100))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{
		"a": open(1000),
		"b": open(0),
	})

	if err := tr.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if got := step.Balances["a"].Current().Amount; !got.Equal(decimal.NewFromInt(900)) {
		t.Errorf("from balance: got %s, wanted 900", got)
	}
	if got := step.Balances["b"].Current().Amount; !got.Equal(decimal.NewFromInt(100)) {
		t.Errorf("to balance: got %s, wanted 100", got)
	}
	if len(step.Transactions) != 2 {
		t.Fatalf("transactions: got %d, wanted 2", len(step.Transactions))
	}
	if step.Transactions[0].Account != "a" || !step.Transactions[0].Delta.Equal(decimal.NewFromInt(-100)) {
		t.Errorf("first leg: %+v", step.Transactions[0])
	}
	if step.Transactions[1].Account != "b" || !step.Transactions[1].Delta.Equal(decimal.NewFromInt(100)) {
		t.Errorf("second leg: %+v", step.Transactions[1])
	}
}

func TestTransferFundsFutureAccount(t *testing.T) {
	tr := Transfer("a", "b", date.Date(2022, 1, 1), nil, decimal.NewFromInt(250))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{
		"a": open(1000),
		"b": account.NewValue(decimal.Zero, account.Future, usd),
	})

	if err := tr.Invoke(step); err != nil {
		t.Fatal(err)
	}
	got := step.Balances["b"].Current()
	if got.Status != account.Open || !got.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("future account after funding: %v", got)
	}
}

func TestTransferMinimumBalance(t *testing.T) {
	tr := Transfer("a", "b", date.Date(2022, 1, 1), nil, decimal.NewFromInt(100),
		WithMinimumBalance(decimal.NewFromInt(950)))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{
		"a": open(1000),
		"b": open(0),
	})

	err := tr.Invoke(step)
	var below BelowMinimumBalanceError
	if !errors.As(err, &below) {
		t.Fatalf("expected BelowMinimumBalanceError, got %v", err)
	}
	if below.Account != "a" {
		t.Errorf("error account: %q", below.Account)
	}
	// All-or-nothing: neither leg was applied.
	if got := step.Balances["a"].Current().Amount; !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("from balance changed: %s", got)
	}
	if got := step.Balances["b"].Current().Amount; !got.Equal(decimal.Zero) {
		t.Errorf("to balance changed: %s", got)
	}
	if len(step.Transactions) != 0 {
		t.Errorf("unexpected transactions %v", step.Transactions)
	}
}

func TestTransferMaximumBalanceClamps(t *testing.T) {
	tr := Transfer("a", "b", date.Date(2022, 1, 1), nil, decimal.NewFromInt(100),
		WithMaximumBalance(decimal.NewFromInt(1030)))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{
		"a": open(1000),
		"b": open(1000),
	})

	if err := tr.Invoke(step); err != nil {
		t.Fatal(err)
	}
	// The destination lands exactly on the cap, the remainder stays put.
	if got := step.Balances["b"].Current().Amount; !got.Equal(decimal.NewFromInt(1030)) {
		t.Errorf("to balance: got %s, wanted 1030", got)
	}
	if got := step.Balances["a"].Current().Amount; !got.Equal(decimal.NewFromInt(970)) {
		t.Errorf("from balance: got %s, wanted 970", got)
	}
}

func TestTransferMaximumAlreadyExceeded(t *testing.T) {
	tr := Transfer("a", "b", date.Date(2022, 1, 1), nil, decimal.NewFromInt(100),
		WithMaximumBalance(decimal.NewFromInt(500)))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{
		"a": open(1000),
		"b": open(600),
	})

	if err := tr.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if got := step.Balances["b"].Current().Amount; !got.Equal(decimal.NewFromInt(600)) {
		t.Errorf("to balance: got %s, wanted 600", got)
	}
	if got := step.Balances["a"].Current().Amount; !got.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("from balance: got %s, wanted 1000", got)
	}
}

func TestCloseAccount(t *testing.T) {
	e := CloseAccount("a", date.Date(2022, 1, 1))
	step := newStep(t, date.Date(2022, 1, 1), map[string]account.Value{"a": open(100)})

	if err := e.Invoke(step); err != nil {
		t.Fatal(err)
	}
	if got := step.Balances["a"].Current().Status; got != account.Closed {
		t.Errorf("status: got %v, wanted closed", got)
	}
}
