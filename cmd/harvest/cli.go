package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	Debug     bool
	DB        *sqlite.DB
	Runs      harvest.RunService
	Transport http.RoundTripper
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Debug bool   `help:"Trace every organization, page and finding on stderr"`
	DB    string `name:"db" type:"path" env:"HARVEST_DB" default:"${db_path}" help:"Results database path"`

	Run     RunCmd     `cmd:"" help:"Harvest facts for every organization in a CSV file"`
	Presets PresetsCmd `cmd:"" help:"List built-in presets"`
	Runs    RunsCmd    `cmd:"" help:"List stored runs"`
	Show    ShowCmd    `cmd:"" help:"Print the records of a stored run"`
	Delete  DeleteCmd  `cmd:"" help:"Delete a stored run"`
}

// RunCmd is the "run" subcommand. Settings left unset fall back to the
// configuration file, then to the preset, then to built-in defaults.
type RunCmd struct {
	Input       string        `arg:"" type:"existingfile" help:"CSV file with a Name column and an optional Website column"`
	Config      string        `short:"C" type:"path" help:"JSON5 run configuration; non-empty values in <name>.local.<ext> next to it override it (cache: false included)"`
	Preset      string        `short:"P" env:"HARVEST_PRESET" help:"Preset to start from: executives, hr, founding, leadership, debug"`
	Target      []string      `short:"t" name:"target" sep:"none" help:"Fact to look for, e.g. 'title:Chief Financial Officer=CFO', 'email:hr,jobs', 'founding-year' (repeatable)"`
	Path        []string      `short:"p" name:"path" sep:"none" help:"Candidate page path, probed in order (repeatable)"`
	Timeout     time.Duration `env:"HARVEST_TIMEOUT" help:"Per-page fetch timeout (default 5s)"`
	UserAgent   string        `env:"HARVEST_USER_AGENT" help:"User-Agent header sent with every request"`
	Delay       time.Duration `env:"HARVEST_DELAY" help:"Minimum interval between requests to the same host"`
	Concurrency int           `short:"c" env:"HARVEST_CONCURRENCY" help:"Organizations probed at once (default 1)"`
	Cache       bool          `help:"Fetch each page once when organizations share a domain"`
	Output      string        `short:"o" type:"path" help:"Write results to a CSV file"`
	Format      string        `short:"f" enum:"table,csv" default:"table" help:"Format of results on stdout (table, csv)"`
	Save        bool          `help:"Store the run in the results database"`
	Postgres    string        `env:"HARVEST_POSTGRES_DSN" help:"Also store the run in PostgreSQL"`
}

// PresetsCmd is the "presets" subcommand.
type PresetsCmd struct{}

// RunsCmd is the "runs" subcommand.
type RunsCmd struct {
	Source string `help:"Only runs read from this input file"`
	Limit  int    `short:"n" default:"20" help:"Maximum number of runs to list"`
}

// ShowCmd is the "show" subcommand.
type ShowCmd struct {
	ID     string `arg:"" help:"Run ID"`
	Format string `short:"f" enum:"table,csv" default:"table" help:"Output format (table, csv)"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	ID    string `arg:"" help:"Run ID"`
	Force bool   `help:"Confirm deletion"`
}
