// Copyright 2021 Silvio Böhler
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package commands

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sboehler/foresight/cmd/flags"
	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/common/table"
	"github.com/sboehler/foresight/lib/report"
	"github.com/sboehler/foresight/lib/scenario"
)

// CreateSimulateCommand creates the command.
func CreateSimulateCommand() *cobra.Command {
	var r simulateRunner
	c := &cobra.Command{
		Use:   "simulate <scenario>",
		Short: "simulate a scenario and print monthly balances",
		Long: `Run the scenario month by month and print a table with one row per
month and one column per account.`,

		Args: cobra.ExactValidArgs(1),

		Run: r.run,
	}
	r.setupFlags(c)
	return c
}

type simulateRunner struct {
	months      int
	until       flags.MonthFlag
	csv         string
	registerCSV string
	color       bool
	digits      int32
	progress    bool
}

func (r *simulateRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *simulateRunner) setupFlags(c *cobra.Command) {
	c.Flags().IntVarP(&r.months, "months", "n", 12, "number of months to simulate")
	c.Flags().Var(&r.until, "until", "simulate up to and including this month")
	c.Flags().StringVar(&r.csv, "csv", "", "write the balances as CSV to this file")
	c.Flags().StringVar(&r.registerCSV, "register-csv", "", "write the transaction register as CSV to this file")
	c.Flags().BoolVar(&r.color, "color", true, "print output in color")
	c.Flags().Int32Var(&r.digits, "digits", 2, "round to number of digits")
	c.Flags().BoolVar(&r.progress, "progress", false, "show a progress bar")
}

func (r *simulateRunner) execute(cmd *cobra.Command, args []string) error {
	tl, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	months, err := countMonths(tl.Start(), r.months, r.until)
	if err != nil {
		return err
	}
	var (
		balances = report.NewBalances(tl)
		register = report.NewRegister()
		series   = tl.Iterate()
	)
	var bar *pb.ProgressBar
	if r.progress {
		bar = pb.New(months).SetWriter(cmd.ErrOrStderr()).Start()
	}
	for i := 0; i < months; i++ {
		step, err := series.Next()
		if err != nil {
			return err
		}
		balances.Add(step)
		register.Add(step)
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	renderer := table.TextRenderer{Color: r.color, Round: r.digits}
	if err := renderer.Render(balances.Table(), out); err != nil {
		return err
	}

	var grp errgroup.Group
	if len(r.csv) > 0 {
		grp.Go(func() error {
			return writeCSV(balances.Table(), r.csv)
		})
	}
	if len(r.registerCSV) > 0 {
		grp.Go(func() error {
			return writeCSV(register.Table(), r.registerCSV)
		})
	}
	return grp.Wait()
}

// countMonths determines how many steps to simulate. The until flag wins
// over the month count and includes both endpoints.
func countMonths(start time.Time, months int, until flags.MonthFlag) (int, error) {
	if u := until.Value(); !u.IsZero() {
		months = 12*(u.Year()-start.Year()) + int(u.Month()) - int(start.Month()) + 1
	}
	if months < 1 {
		return 0, fmt.Errorf("nothing to simulate before %s", date.FormatMonth(start))
	}
	return months, nil
}

// writeCSV renders the table and replaces the target file atomically, so a
// failed render never truncates an existing export.
func writeCSV(t *table.Table, path string) error {
	var (
		buf      bytes.Buffer
		renderer table.CSVRenderer
	)
	if err := renderer.Render(t, &buf); err != nil {
		return err
	}
	return atomic.WriteFile(path, &buf)
}
