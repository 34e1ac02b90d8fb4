package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/msageha/colonysim/internal/lock"
	"github.com/msageha/colonysim/internal/logging"
	"github.com/msageha/colonysim/internal/model"
	"github.com/msageha/colonysim/internal/setup"
	"github.com/msageha/colonysim/internal/sim"
	"github.com/msageha/colonysim/internal/status"
)

type runFlags struct {
	config string
	report string
	audit  string
	ticks  int
}

func newRootCmd() *cobra.Command {
	var envFile string
	root := &cobra.Command{
		Use:           "colonysim",
		Short:         "Run colony mission scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load %s: %w", envFile, err)
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&envFile, "env", ".env", "environment file loaded before the config")
	root.AddCommand(newInitCmd(), newRunCmd(), newValidateCmd(), newStatusCmd(), newVersionCmd())
	return root
}

func newInitCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: "Write a starter config and scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			if err := setup.Run(dir, name); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s in %s\n", setup.ConfigFile, setup.ScenarioFile, dir)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "scenario name (default: directory name)")
	return cmd
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run <scenario.yaml>",
		Short: "Simulate a scenario until its missions are done",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScenario(cmd.Context(), args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.config, "config", "", "config file, watched for log level and tick interval changes")
	cmd.Flags().StringVar(&f.report, "report", "report.yaml", "where to write the run report")
	cmd.Flags().StringVar(&f.audit, "audit", "", "JSONL file receiving mission events")
	cmd.Flags().IntVar(&f.ticks, "ticks", 0, "stop after this many ticks (default simulation.max_ticks)")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <scenario.yaml>",
		Short: "Check a scenario file without running it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sc, err := sim.LoadScenario(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d settlements, %d missions\n", args[0], len(sc.Settlements), len(sc.Missions))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	var audit string
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "status <report.yaml>",
		Short: "Summarise a run report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return status.Run(cmd.OutOrStdout(), args[0], audit, jsonOutput)
		},
	}
	cmd.Flags().StringVar(&audit, "audit", "", "audit log of the same run, adds event counts")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "print JSON")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "colonysim %s\n", version)
		},
	}
}

func loadConfig(path string) (model.Config, error) {
	cfg, err := model.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

func runScenario(ctx context.Context, path string, f runFlags) error {
	cfg, err := loadConfig(f.config)
	if err != nil {
		return err
	}
	sc, err := sim.LoadScenario(path)
	if err != nil {
		return err
	}

	// two runs must not share a report
	lk := lock.ForOutput(f.report)
	if err := lk.TryLock(); err != nil {
		return err
	}
	defer func() { _ = lk.Unlock() }()

	// the global level does the filtering so a config reload can raise or lower it
	logger := logging.New(os.Stderr, zerolog.TraceLevel.String(), cfg.Logging.Console)
	logging.SetGlobalLevel(cfg.Logging.Level)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runner, err := sim.NewRunner(sc, cfg, logger, sim.Options{
		ConfigPath: f.config,
		AuditPath:  f.audit,
		MaxTicks:   f.ticks,
	})
	if err != nil {
		return err
	}
	rep, runErr := runner.Run(ctx)
	if rep != nil {
		if err := rep.Write(f.report); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		logger.Info().Str("path", f.report).Int("ticks", rep.Ticks).Bool("all_done", rep.AllDone).Msg("report written")
	}
	if errors.Is(runErr, context.Canceled) {
		return nil
	}
	return runErr
}
