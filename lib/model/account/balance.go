package account

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Update is one of the recognized balance update shapes. The concrete
// variants are Replace, Delta, SetStatus and NoOp; any other implementation
// (or a nil Update) is rejected with InvalidUpdateError.
type Update interface {
	isUpdate()
}

// Replace swaps amount, status and currency wholesale. It is used for
// forced overrides.
type Replace struct {
	Value Value
}

// Delta adds an amount to an open account. On a future account the delta
// becomes the new amount and the account opens.
type Delta struct {
	Amount decimal.Decimal
}

// SetStatus changes the status without touching the amount.
type SetStatus struct {
	Status Status
}

// NoOp leaves the balance untouched.
type NoOp struct{}

func (Replace) isUpdate()   {}
func (Delta) isUpdate()     {}
func (SetStatus) isUpdate() {}
func (NoOp) isUpdate()      {}

// InvalidUpdateError is returned when a balance receives an update it
// cannot apply.
type InvalidUpdateError struct {
	Account string
	Update  Update
}

func (e InvalidUpdateError) Error() string {
	return fmt.Sprintf("account %s: invalid update %#v", e.Account, e.Update)
}

// Balance is the single-owner handle to an account's evolving state. It is
// created by Open and must only ever be advanced by the timeline series
// which owns it.
type Balance struct {
	account *Account
	value   Value
}

// Open starts the account's state machine at its initial value.
func (a *Account) Open() *Balance {
	return &Balance{
		account: a,
		value:   a.value,
	}
}

// Account returns the account this balance belongs to.
func (b *Balance) Account() *Account {
	return b.account
}

// Current returns the current value.
func (b *Balance) Current() Value {
	return b.value
}

// Apply advances the state machine by one update and returns the new value.
// The amount is rounded to the currency's digits after every update.
func (b *Balance) Apply(update Update) (Value, error) {
	switch u := update.(type) {
	case Replace:
		b.value = NewValue(u.Value.Amount, u.Value.Status, u.Value.Currency)
	case Delta:
		switch b.value.Status {
		case Open:
			b.value = b.value.Add(u.Amount)
		case Future:
			b.value = NewValue(u.Amount, Open, b.value.Currency)
		default:
			return b.value, InvalidUpdateError{Account: b.account.name, Update: update}
		}
	case SetStatus:
		b.value = Value{Amount: b.value.Amount, Status: u.Status, Currency: b.value.Currency}
	case NoOp:
	default:
		return b.value, InvalidUpdateError{Account: b.account.name, Update: update}
	}
	return b.value, nil
}
