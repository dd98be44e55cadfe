package main

import (
	"strconv"
	"strings"

	"github.com/fwojciec/harvest"
)

// Run executes the presets command.
func (c *PresetsCmd) Run(deps *Dependencies) error {
	rows := make([][]string, 0, len(harvest.Presets))
	for _, p := range harvest.Presets {
		targets := make([]string, len(p.Targets))
		for i, t := range p.Targets {
			targets[i] = t.Label()
		}
		rows = append(rows, []string{
			p.Name,
			p.Description,
			strings.Join(targets, ", "),
			strconv.Itoa(len(p.Paths)),
		})
	}
	renderTable(deps.Stdout, []string{"Preset", "Description", "Targets", "Paths"}, rows)
	return nil
}
