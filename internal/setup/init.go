// Package setup writes a starter config and scenario for a new simulation.
package setup

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/sim"
	atomicyaml "github.com/msageha/colonysim/internal/yaml"
	"github.com/msageha/colonysim/templates"
)

const (
	ConfigFile   = "config.yaml"
	ScenarioFile = "scenario.yaml"
	RunsDir      = "runs"
)

// Run writes config.yaml, scenario.yaml and an empty runs/ directory into
// dir. name overrides the scenario name, which defaults to the directory
// basename. Existing files are never overwritten.
func Run(dir, name string) error {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("resolve dir: %w", err)
	}
	for _, f := range []string{ConfigFile, ScenarioFile} {
		if _, err := os.Stat(filepath.Join(absDir, f)); err == nil {
			return fmt.Errorf("%s already exists", filepath.Join(absDir, f))
		}
	}
	if err := os.MkdirAll(filepath.Join(absDir, RunsDir), 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", RunsDir, err)
	}

	cfg, err := generateConfig()
	if err != nil {
		return fmt.Errorf("generate config: %w", err)
	}
	if err := atomicyaml.AtomicWrite(filepath.Join(absDir, ConfigFile), cfg); err != nil {
		return fmt.Errorf("write %s: %w", ConfigFile, err)
	}

	sc, err := generateScenario(absDir, name)
	if err != nil {
		return fmt.Errorf("generate scenario: %w", err)
	}
	if err := atomicyaml.AtomicWrite(filepath.Join(absDir, ScenarioFile), sc); err != nil {
		return fmt.Errorf("write %s: %w", ScenarioFile, err)
	}
	return nil
}

func generateConfig() (*model.Config, error) {
	data, err := fs.ReadFile(templates.FS, ConfigFile)
	if err != nil {
		return nil, fmt.Errorf("read config template: %w", err)
	}
	cfg := model.DefaultConfig()
	if err := yamlv3.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config template: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func generateScenario(dir, name string) (*sim.Scenario, error) {
	data, err := fs.ReadFile(templates.FS, ScenarioFile)
	if err != nil {
		return nil, fmt.Errorf("read scenario template: %w", err)
	}
	var sc sim.Scenario
	if err := yamlv3.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scenario template: %w", err)
	}
	if name != "" {
		sc.Name = name
	} else {
		sc.Name = filepath.Base(dir)
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}
