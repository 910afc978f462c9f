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

	"github.com/sboehler/foresight/lib/common/table"
	"github.com/sboehler/foresight/lib/report"
	"github.com/sboehler/foresight/lib/scenario"
)

// CreateScheduleCommand creates the command.
func CreateScheduleCommand() *cobra.Command {
	var r scheduleRunner
	c := &cobra.Command{
		Use:   "schedule <scenario>",
		Short: "print the pending schedule of a scenario",
		Long:  `Print the scheduled handlers of the scenario, soonest first, without simulating.`,

		Args: cobra.ExactValidArgs(1),

		Run: r.run,
	}
	r.setupFlags(c)
	return c
}

type scheduleRunner struct {
	color bool
}

func (r *scheduleRunner) run(cmd *cobra.Command, args []string) {
	if err := r.execute(cmd, args); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}

func (r *scheduleRunner) setupFlags(c *cobra.Command) {
	c.Flags().BoolVar(&r.color, "color", true, "print output in color")
}

func (r *scheduleRunner) execute(cmd *cobra.Command, args []string) error {
	tl, err := scenario.Load(args[0])
	if err != nil {
		return err
	}
	// The first step reports the initial state without running handlers.
	step, err := tl.Iterate().Next()
	if err != nil {
		return err
	}
	out := bufio.NewWriter(cmd.OutOrStdout())
	defer out.Flush()
	renderer := table.TextRenderer{Color: r.color}
	return renderer.Render(report.Schedule(step.Schedule.Entries()), out)
}
