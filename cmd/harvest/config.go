package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/fwojciec/harvest"
	"github.com/titanous/json5"
)

// defaultPreset is used when neither flags nor the config file name one.
const defaultPreset = "executives"

// fileConfig is the JSON5 form of a run configuration. Durations use
// time.ParseDuration syntax ("5s", "250ms"). Cache is a pointer so a
// local file can turn it back off; other fields are only replaced by
// non-empty values.
type fileConfig struct {
	Preset      string   `json:"preset"`
	Targets     []string `json:"targets"`
	Paths       []string `json:"paths"`
	Timeout     string   `json:"timeout"`
	UserAgent   string   `json:"userAgent"`
	Delay       string   `json:"delay"`
	Concurrency int      `json:"concurrency"`
	Cache       *bool    `json:"cache"`
}

// settings are the run options before presets and defaults are applied.
type settings struct {
	Preset      string
	Targets     []string
	Paths       []string
	Timeout     time.Duration
	UserAgent   string
	Delay       time.Duration
	Concurrency int
	Cache       bool
}

// readConfig reads name and merges <name>.local.<ext> over it when that
// file exists.
func readConfig(name string, logger *slog.Logger) (fileConfig, error) {
	var out fileConfig

	data, err := os.ReadFile(name)
	if err != nil {
		return out, err
	}
	if err := json5.Unmarshal(data, &out); err != nil {
		return out, harvest.Errorf(harvest.EINVALID, "config %s: %s", name, err)
	}

	local := localConfigPath(name)
	data, err = os.ReadFile(local)
	if os.IsNotExist(err) {
		return out, nil
	} else if err != nil {
		return out, err
	}

	var override fileConfig
	if err := json5.Unmarshal(data, &override); err != nil {
		return out, harvest.Errorf(harvest.EINVALID, "config %s: %s", local, err)
	}
	if err := mergo.Merge(&out, override, mergo.WithOverride); err != nil {
		return out, fmt.Errorf("failed to merge %s: %w", local, err)
	}
	// mergo skips empty values, even behind a pointer.
	if override.Cache != nil {
		out.Cache = override.Cache
	}
	logger.Debug("merged local config overrides", "local", local)
	return out, nil
}

// localConfigPath returns the override path for name: "harvest.json5"
// becomes "harvest.local.json5".
func localConfigPath(name string) string {
	dir, base := filepath.Split(name)
	ext := filepath.Ext(base)
	return filepath.Join(dir, strings.TrimSuffix(base, ext)+".local"+ext)
}

func (f fileConfig) settings() (settings, error) {
	s := settings{
		Preset:      f.Preset,
		Targets:     f.Targets,
		Paths:       f.Paths,
		UserAgent:   f.UserAgent,
		Concurrency: f.Concurrency,
		Cache:       f.Cache != nil && *f.Cache,
	}
	var err error
	if s.Timeout, err = parseDuration("timeout", f.Timeout); err != nil {
		return s, err
	}
	if s.Delay, err = parseDuration("delay", f.Delay); err != nil {
		return s, err
	}
	return s, nil
}

func parseDuration(field, s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, harvest.Errorf(harvest.EINVALID, "config %s: invalid duration %q", field, s)
	}
	return d, nil
}

// withFile fills the options s leaves unset from the config file.
func (s settings) withFile(f fileConfig) (settings, error) {
	fs, err := f.settings()
	if err != nil {
		return s, err
	}
	if err := mergo.Merge(&s, fs); err != nil {
		return s, fmt.Errorf("failed to merge config: %w", err)
	}
	return s, nil
}

// config builds the run configuration: explicit settings first, then the
// preset's targets and paths, then defaults.
func (s settings) config() (harvest.Config, error) {
	cfg := harvest.Config{
		Paths:       s.Paths,
		Timeout:     s.Timeout,
		UserAgent:   s.UserAgent,
		Delay:       s.Delay,
		Concurrency: s.Concurrency,
		Cache:       s.Cache,
	}
	for _, raw := range s.Targets {
		t, err := harvest.ParseTarget(raw)
		if err != nil {
			return cfg, err
		}
		cfg.Targets = append(cfg.Targets, t)
	}

	name := s.Preset
	if name == "" {
		name = defaultPreset
	}
	preset, err := harvest.LookupPreset(name)
	if err != nil {
		return cfg, err
	}
	return preset.Apply(cfg).WithDefaults(), nil
}
