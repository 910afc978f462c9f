package account

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/model/currency"
)

var usd = currency.Default("USD")

func open(amount float64) Value {
	return NewValue(decimal.NewFromFloat(amount), Open, usd)
}

func TestApplyDelta(t *testing.T) {
	acct, err := New("checking", open(1000))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	got, err := b.Apply(Delta{Amount: decimal.NewFromInt(100)})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1100)) {
		t.Errorf("after +100: got %s, wanted 1100", got.Amount)
	}
	got, err = b.Apply(Delta{Amount: decimal.NewFromInt(-30)})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1070)) {
		t.Errorf("after -30: got %s, wanted 1070", got.Amount)
	}
}

func TestApplyDeltaFuture(t *testing.T) {
	acct, err := New("retirement", NewValue(decimal.NewFromInt(9999), Future, usd))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	got, err := b.Apply(Delta{Amount: decimal.NewFromInt(250)})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != Open {
		t.Errorf("status: got %v, wanted open", got.Status)
	}
	// The prior amount is discarded on first funding.
	if !got.Amount.Equal(decimal.NewFromInt(250)) {
		t.Errorf("amount: got %s, wanted 250", got.Amount)
	}
}

func TestApplyDeltaClosed(t *testing.T) {
	acct, err := New("old", NewValue(decimal.NewFromInt(10), Closed, usd))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	_, err = b.Apply(Delta{Amount: decimal.NewFromInt(1)})
	var invalid InvalidUpdateError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidUpdateError, got %v", err)
	}
	if invalid.Account != "old" {
		t.Errorf("error account: got %q", invalid.Account)
	}
}

func TestApplyReplace(t *testing.T) {
	acct, err := New("checking", open(1000))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	want := NewValue(decimal.NewFromInt(5), Closed, usd)
	got, err := b.Apply(Replace{Value: want})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != Closed || !got.Amount.Equal(decimal.NewFromInt(5)) {
		t.Errorf("replace: got %v", got)
	}
}

func TestApplySetStatus(t *testing.T) {
	acct, err := New("checking", open(1000))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	got, err := b.Apply(SetStatus{Status: Closed})
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != Closed {
		t.Errorf("status: got %v, wanted closed", got.Status)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("amount: got %s, wanted 1000", got.Amount)
	}
}

func TestApplyInvalidShape(t *testing.T) {
	acct, err := New("checking", open(1000))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	if _, err := b.Apply(nil); err == nil {
		t.Error("expected error for nil update")
	}
	got, err := b.Apply(NoOp{})
	if err != nil {
		t.Fatal(err)
	}
	if !got.Amount.Equal(decimal.NewFromInt(1000)) {
		t.Errorf("noop changed amount: %s", got.Amount)
	}
}

func TestApplyRounds(t *testing.T) {
	acct, err := New("checking", open(100))
	if err != nil {
		t.Fatal(err)
	}
	b := acct.Open()

	got, err := b.Apply(Delta{Amount: decimal.NewFromFloat(0.005)})
	if err != nil {
		t.Fatal(err)
	}
	// USD rounds to two digits, half away from zero.
	if got.Amount.String() != "100.01" {
		t.Errorf("got %s, wanted 100.01", got.Amount)
	}
}

func TestValueArithmeticNonOpen(t *testing.T) {
	v := NewValue(decimal.NewFromInt(100), Closed, usd)
	for _, got := range []Value{
		v.Add(decimal.NewFromInt(5)),
		v.Sub(decimal.NewFromInt(5)),
		v.Scale(decimal.NewFromInt(2)),
		v.Neg(),
	} {
		if got != v {
			t.Errorf("arithmetic on closed value: got %v, wanted unchanged", got)
		}
	}
}

func TestParseStatus(t *testing.T) {
	for _, name := range []string{"open", "closed", "future"} {
		got, err := ParseStatus(name)
		if err != nil {
			t.Fatalf("ParseStatus(%q): %v", name, err)
		}
		if got.String() != name {
			t.Errorf("ParseStatus(%q): got %v", name, got)
		}
	}
	if _, err := ParseStatus("pending"); err == nil {
		t.Error("ParseStatus(pending): expected error")
	}
}
