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
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sboehler/foresight/cmd/flags"
	"github.com/sboehler/foresight/lib/common/table"
	"github.com/sboehler/foresight/lib/report"
	"github.com/sboehler/foresight/lib/scenario"
)

// CreateRegisterCommand creates the command.
func CreateRegisterCommand() *cobra.Command {
	var r registerRunner
	c := &cobra.Command{
		Use:   "register <scenario>",
		Short: "print the transaction register of a scenario",
		Long: `Run the scenario month by month and print every balance change with the
handler which caused it.`,

		Args: cobra.ExactValidArgs(1),

		Run: r.run,
	}
	r.setupFlags(c)
	return c
}

type registerRunner struct {
	months   int
	until    flags.MonthFlag
	accounts []string
	csv      string
	color    bool
	digits   int32
}

func (r *registerRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *registerRunner) setupFlags(c *cobra.Command) {
	c.Flags().IntVarP(&r.months, "months", "n", 12, "number of months to simulate")
	c.Flags().Var(&r.until, "until", "simulate up to and including this month")
	c.Flags().StringArrayVar(&r.accounts, "account", nil, "only show transactions of this account")
	c.Flags().StringVar(&r.csv, "csv", "", "write the register as CSV to this file")
	c.Flags().BoolVar(&r.color, "color", true, "print output in color")
	c.Flags().Int32Var(&r.digits, "digits", 2, "round to number of digits")
}

func (r *registerRunner) execute(cmd *cobra.Command, args []string) error {
	tl, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	months, err := countMonths(tl.Start(), r.months, r.until)
	if err != nil {
		return err
	}
	var (
		register = report.NewRegister(r.accounts...)
		series   = tl.Iterate()
	)
	for i := 0; i < months; i++ {
		step, err := series.Next()
		if err != nil {
			return err
		}
		register.Add(step)
	}
	if len(r.csv) > 0 {
		return writeCSV(register.Table(), r.csv)
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	renderer := table.TextRenderer{Color: r.color, Round: r.digits}
	return renderer.Render(register.Table(), out)
}
