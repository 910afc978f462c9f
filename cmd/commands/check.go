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
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/sboehler/foresight/lib/common/date"
	"github.com/sboehler/foresight/lib/scenario"
)

// CreateCheckCommand creates the command.
func CreateCheckCommand() *cobra.Command {
	var r checkRunner
	return &cobra.Command{
		Use:   "check <scenario>",
		Short: "validate a scenario file",
		Long:  `Load and validate the scenario, reporting every error instead of only the first.`,

		Args: cobra.ExactValidArgs(1),

		Run: r.run,
	}
}

type checkRunner struct{}

func (r *checkRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		for _, e := range multierr.Errors(err) {
			fmt.Fprintln(cmd.ErrOrStderr(), e)
		}
		os.Exit(1)
	}
}

func (r *checkRunner) execute(cmd *cobra.Command, args []string) error {
	tl, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %d accounts, starting %s\n",
		args[0], len(tl.Accounts()), date.FormatMonth(tl.Start()))
	return nil
}
