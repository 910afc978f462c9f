// Package timeline implements the step-by-step driver which advances a set
// of accounts through monthly ticks, applying scheduled handlers in date
// order.
package timeline

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/schedule"
)

// Handler is a scheduled callable bound to specific accounts. Handlers are
// built by the handler package and are opaque to the schedule and the
// timeline; recurring handlers are re-queued by the schedule itself.
type Handler interface {
	Name() string
	Start() time.Time
	Period() *schedule.Periodic
	Accounts() []string
	Description() string
	Invoke(step *Step) error
}

// Schedule is a schedule of timeline handlers.
type Schedule = schedule.Schedule[Handler]

// NewSchedule creates an empty handler schedule.
func NewSchedule() *Schedule {
	return schedule.New[Handler]()
}

// Transaction is one logged balance change: which account changed, the
// handler responsible, the signed delta and the resulting balance.
type Transaction struct {
	Account string
	Handler Handler
	Delta   decimal.Decimal
	Balance account.Value
}

// Step is one tick's observable state. Balances are the live account
// handles, owned by the series which produced the step; Values are the
// balances as observed at the top of the tick. Handlers firing within the
// tick all see these same snapshot values, so their effects within one tick
// are independent of each other and of their relative order beyond the
// transaction log sequence.
type Step struct {
	Date         time.Time
	Schedule     *Schedule
	Balances     map[string]*account.Balance
	Values       map[string]account.Value
	Transactions []Transaction
}

// Record appends a transaction to this tick's log.
func (s *Step) Record(name string, h Handler, delta decimal.Decimal, balance account.Value) {
	s.Transactions = append(s.Transactions, Transaction{
		Account: name,
		Handler: h,
		Delta:   delta,
		Balance: balance,
	})
}

// Timeline is the immutable configuration of a simulation: an initial
// schedule, a start month and a set of accounts. Iterating it never mutates
// it, so any number of independent series can be produced from the same
// timeline.
type Timeline struct {
	schedule *Schedule
	start    time.Time
	accounts map[string]*account.Account
}

// New creates a timeline. Account names must be unique.
func New(sched *Schedule, start time.Time, accounts []*account.Account) (*Timeline, error) {
	if sched == nil {
		sched = NewSchedule()
	}
	index := make(map[string]*account.Account, len(accounts))
	for _, a := range accounts {
		if _, ok := index[a.Name()]; ok {
			return nil, fmt.Errorf("duplicate account %q", a.Name())
		}
		index[a.Name()] = a
	}
	return &Timeline{
		schedule: sched,
		start:    date.Month(start),
		accounts: index,
	}, nil
}

// Start returns the start month.
func (t *Timeline) Start() time.Time {
	return t.start
}

// Accounts returns the account configurations by name.
func (t *Timeline) Accounts() map[string]*account.Account {
	return t.accounts
}

// Iterate starts a fresh series: its own copy of the schedule and its own
// account handles. Calling Iterate again replays the simulation from the
// same initial conditions.
func (t *Timeline) Iterate() *Series {
	balances := make(map[string]*account.Balance, len(t.accounts))
	for name, a := range t.accounts {
		balances[name] = a.Open()
	}
	return &Series{
		timeline: t,
		schedule: t.schedule.Copy(),
		balances: balances,
		date:     t.start,
	}
}

// Series is a live simulation run. It is advanced only by Next and never
// completes on its own. A series exclusively owns its schedule and account
// handles; to run a second simulation, restart instead of sharing.
type Series struct {
	timeline *Timeline
	schedule *Schedule
	balances map[string]*account.Balance
	date     time.Time
	started  bool
}

// Timeline returns the configuration this series was started from.
func (s *Series) Timeline() *Timeline {
	return s.timeline
}

// Restart returns a brand-new independent series from the same timeline.
// The receiver is left untouched and remains usable.
func (s *Series) Restart() *Series {
	return s.timeline.Iterate()
}

// Next produces the next step. The first step reports the initial balances
// at the start month without running any handlers. Every later step
// advances the date by one calendar month, snapshots all balances, and then
// runs the schedule up to the new date: each due handler reads the same
// pre-tick snapshots while applying its updates to the live handles.
func (s *Series) Next() (*Step, error) {
	if !s.started {
		s.started = true
		return s.step(), nil
	}
	s.date = date.NextMonth(s.date)
	step := s.step()
	err := s.schedule.RunUntil(s.date, func(due time.Time, h Handler) error {
		return h.Invoke(step)
	})
	if err != nil {
		return nil, err
	}
	return step, nil
}

func (s *Series) step() *Step {
	values := make(map[string]account.Value, len(s.balances))
	for name, b := range s.balances {
		values[name] = b.Current()
	}
	return &Step{
		Date:     s.date,
		Schedule: s.schedule,
		Balances: s.balances,
		Values:   values,
	}
}
