package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/csv"
)

// Run executes the runs command.
func (c *RunsCmd) Run(deps *Dependencies) error {
	filter := harvest.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		return reportError(deps, err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs found. Use 'harvest run --save' to store one.")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, r := range runs {
		rows = append(rows, []string{
			r.ID,
			r.Source,
			strconv.Itoa(r.Size),
			r.CreatedAt.Local().Format(time.DateTime),
		})
	}
	renderTable(deps.Stdout, []string{"ID", "Source", "Records", "Created"}, rows)
	return nil
}

// Run executes the show command.
func (c *ShowCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.ID)
	if err != nil {
		return reportError(deps, err)
	}

	if c.Format == "csv" {
		if err := csv.NewWriter(deps.Stdout).WriteRecords(deps.Ctx, run.Targets, run.Records); err != nil {
			return reportError(deps, err)
		}
		return nil
	}
	renderRecords(deps.Stdout, run.Targets, run.Records)
	return nil
}

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return harvest.Errorf(harvest.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.ID); err != nil {
		if harvest.ErrorCode(err) == harvest.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'harvest runs' to see stored runs.\n", c.ID)
			return err
		}
		return reportError(deps, err)
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.ID)
	return nil
}
