// Package report renders simulation results as tables.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/sboehler/foresight/lib/common/compare"
	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/common/dict"
	"github.com/sboehler/foresight/lib/common/set"
	"github.com/sboehler/foresight/lib/common/table"
	"github.com/sboehler/foresight/lib/model/account"
	"github.com/sboehler/foresight/lib/schedule"
	"github.com/sboehler/foresight/lib/timeline"
)

// Balances collects the account balances of each simulated month. Steps
// share live account handles, so balances are captured when a step is
// added, not when the table is rendered.
type Balances struct {
	accounts []string
	rows     []balanceRow
}

type balanceRow struct {
	date   time.Time
	values map[string]account.Value
}

// NewBalances creates a balance report over the timeline's accounts.
func NewBalances(tl *timeline.Timeline) *Balances {
	return &Balances{
		accounts: dict.SortedKeys(tl.Accounts(), compare.Ordered[string]),
	}
}

// Add captures the balances after the given step.
func (b *Balances) Add(step *timeline.Step) {
	values := make(map[string]account.Value, len(step.Balances))
	for name, bal := range step.Balances {
		values[name] = bal.Current()
	}
	b.rows = append(b.rows, balanceRow{date: step.Date, values: values})
}

// Table renders one row per month and one column per account. Accounts
// which are not open in a month show a placeholder instead of a number.
func (b *Balances) Table() *table.Table {
	tbl := table.New(1, len(b.accounts))
	tbl.AddSeparatorRow()
	header := tbl.AddRow().AddText("Month", table.Center)
	for _, name := range b.accounts {
		header.AddText(name, table.Center)
	}
	tbl.AddSeparatorRow()
	for _, row := range b.rows {
		r := tbl.AddRow().AddText(date.FormatMonth(row.date), table.Left)
		for _, name := range b.accounts {
			if v, ok := row.values[name]; ok && v.Status == account.Open {
				r.AddNumber(v.Amount)
			} else {
				r.AddText("--", table.Center)
			}
		}
	}
	tbl.AddSeparatorRow()
	return tbl
}

// Schedule renders the pending schedule entries, soonest first.
func Schedule(entries []*schedule.Entry[timeline.Handler]) *table.Table {
	tbl := table.New(1, 1, 1, 1, 1)
	tbl.AddSeparatorRow()
	tbl.AddRow().
		AddText("Next", table.Center).
		AddText("Recurrence", table.Center).
		AddText("Handler", table.Center).
		AddText("Accounts", table.Center).
		AddText("Description", table.Center)
	tbl.AddSeparatorRow()
	for _, e := range entries {
		tbl.AddRow().
			AddText(date.FormatMonth(e.Date), table.Left).
			AddText(formatPeriod(e.Handler.Period()), table.Left).
			AddText(e.Handler.Name(), table.Left).
			AddText(strings.Join(e.Handler.Accounts(), ", "), table.Left).
			AddText(e.Handler.Description(), table.Left)
	}
	tbl.AddSeparatorRow()
	return tbl
}

func formatPeriod(p *schedule.Periodic) string {
	if p == nil {
		return "once"
	}
	var b strings.Builder
	if p.N == 1 {
		fmt.Fprintf(&b, "every %s", p.Interval)
	} else {
		fmt.Fprintf(&b, "every %d %ss", p.N, p.Interval)
	}
	if !p.End.IsZero() {
		fmt.Fprintf(&b, " until %s", date.FormatMonth(p.End))
	}
	return b.String()
}

// Register collects the transaction log of each simulated month,
// optionally restricted to a set of accounts.
type Register struct {
	accounts set.Set[string]
	rows     []registerRow
}

type registerRow struct {
	date time.Time
	txs  []timeline.Transaction
}

// NewRegister creates a transaction register. With no accounts given,
// every transaction is kept.
func NewRegister(accounts ...string) *Register {
	return &Register{accounts: set.Of(accounts...)}
}

// Add captures the transactions of the given step which match the account
// filter. Months without matches are skipped.
func (r *Register) Add(step *timeline.Step) {
	var txs []timeline.Transaction
	for _, tx := range step.Transactions {
		if len(r.accounts) > 0 && !r.accounts.Has(tx.Account) {
			continue
		}
		txs = append(txs, tx)
	}
	if len(txs) == 0 {
		return
	}
	r.rows = append(r.rows, registerRow{date: step.Date, txs: txs})
}

// Table renders the register. The month is printed once per group of
// transactions.
func (r *Register) Table() *table.Table {
	tbl := table.New(1, 2, 2)
	tbl.AddSeparatorRow()
	tbl.AddRow().
		AddText("Month", table.Center).
		AddText("Account", table.Center).
		AddText("Handler", table.Center).
		AddText("Amount", table.Center).
		AddText("Balance", table.Center)
	tbl.AddSeparatorRow()
	for _, row := range r.rows {
		for i, tx := range row.txs {
			tr := tbl.AddRow()
			if i == 0 {
				tr.AddText(date.FormatMonth(row.date), table.Left)
			} else {
				tr.AddEmpty()
			}
			tr.AddText(tx.Account, table.Left).
				AddText(tx.Handler.Name(), table.Left).
				AddNumber(tx.Delta).
				AddNumber(tx.Balance.Amount)
		}
	}
	tbl.AddSeparatorRow()
	return tbl
}
