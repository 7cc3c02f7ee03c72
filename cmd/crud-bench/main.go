package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/surrealdb/crud-bench/internal/bench"
	"github.com/surrealdb/crud-bench/internal/config"
	"github.com/surrealdb/crud-bench/internal/databases"
	"github.com/surrealdb/crud-bench/internal/logging"
	"github.com/surrealdb/crud-bench/internal/report"
	"github.com/surrealdb/crud-bench/internal/sysinfo"
	"github.com/surrealdb/crud-bench/internal/values"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "crud-bench",
		Short: "CRUD benchmarking tool for various databases",
		Long: `crud-bench is a benchmarking tool for testing and comparing the performance
of create/read/update/delete/scan/batch workloads across embedded, networked,
and remote databases.`,
		RunE: runBenchmark,
	}

	config.RegisterFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(bench.ExitCode(err))
	}
}

func runBenchmark(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromCommand(cmd)
	if err != nil {
		return &bench.ConfigError{Err: err}
	}

	if cfg.ShowSample {
		tmpl, err := values.Parse(cfg.Value)
		if err != nil {
			return &bench.ConfigError{Err: err}
		}
		sampleJSON, err := values.Sample(tmpl)
		if err != nil {
			return fmt.Errorf("failed to generate sample: %w", err)
		}
		fmt.Println(sampleJSON)
		return nil
	}

	logger := logging.New(logging.Config{Format: logging.FormatText})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signalCh
		logger.Warn().Msg("received interrupt signal, shutting down")
		cancel()
	}()

	adapter, err := databases.NewAdapter(cfg.Database)
	if err != nil {
		return &bench.ConfigError{Err: err}
	}

	engine, err := bench.New(adapter, cfg.EngineConfig(), logger)
	if err != nil {
		return err
	}

	logger.Info().Str("database", adapter.Name()).Int("samples", cfg.Samples).Msg("starting benchmark")
	start := time.Now()
	snapshots, runErr := engine.Run(ctx)
	duration := time.Since(start)

	phases := report.FromSnapshots(snapshots)
	fmt.Printf("\nBenchmark completed in %v\n\n", duration)
	fmt.Print(report.PrintTable(phases))

	var proc *sysinfo.Sample
	if cfg.PID != 0 {
		proc, err = sysinfo.Read(cfg.PID)
		if err != nil {
			logger.Warn().Err(err).Int("pid", cfg.PID).Msg("failed to sample process info")
		}
	}

	path, werr := report.Write(adapter.Name(), cfg.Name, cfg.Samples, cfg.Clients, cfg.Threads, cfg.Sync, cfg.Optimised, duration, phases, proc)
	if werr != nil {
		logger.Error().Err(werr).Msg("failed to write results file")
	} else {
		fmt.Printf("\nResults saved to %s\n", path)
	}

	return runErr
}
