package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/jamesainslie/dupescan/pkg/dupescan/config"
	"github.com/jamesainslie/dupescan/pkg/dupescan/enumerate"
	"github.com/jamesainslie/dupescan/pkg/dupescan/logging"
	"github.com/jamesainslie/dupescan/pkg/dupescan/metadata"
	"github.com/jamesainslie/dupescan/pkg/dupescan/report"
	"github.com/jamesainslie/dupescan/pkg/dupescan/scan"
	"github.com/jamesainslie/dupescan/pkg/dupescan/tuner"
	"github.com/jamesainslie/dupescan/pkg/dupescan/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runScan is the main scan command handler.
func runScan(_ *cobra.Command, args []string) error {
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	// Parse minimum size (empty means no filter)
	var minSize int64
	if minSizeStr := viper.GetString("min_size"); minSizeStr != "" {
		minSize, err = types.ParseSize(minSizeStr)
		if err != nil {
			return fmt.Errorf("invalid minimum size %q: %w", minSizeStr, err)
		}
	}

	// Resolve the report formatter before doing any work
	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = config.DefaultOutputFormat
	}
	formatter, err := report.Get(outFormat)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, report.Available())
	}

	reportPath := viper.GetString("report")
	if reportPath == "" {
		reportPath = config.DefaultReportPath
	}
	reportPath, err = config.ExpandPath(reportPath)
	if err != nil {
		return fmt.Errorf("failed to expand report path: %w", err)
	}

	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer func() { _ = logging.Close() }()

	workers := viper.GetInt("workers")
	if resources, detectErr := tuner.Detect(); detectErr == nil {
		printVerbose("System: %d CPUs, %s RAM, %s available",
			resources.CPUCores,
			types.FormatSize(resources.TotalRAM),
			types.FormatSize(resources.AvailableRAM))
	}

	exclude := viper.GetStringSlice("exclude")
	opts := scan.Options{
		Roots:       roots,
		Exclude:     enumerate.Patterns(exclude),
		MinSize:     minSize,
		Workers:     workers,
		FileTimeout: time.Duration(viper.GetInt("file_timeout")) * time.Second,
	}

	if !getQuiet() {
		opts.OnProgress = func(p scan.Progress) {
			fmt.Fprintf(os.Stderr, "\rHashed %d/%d files (%s, %d failures)",
				p.FilesHashed+p.HashFailures,
				p.FilesEnumerated,
				types.FormatSize(p.BytesHashed),
				p.HashFailures)
		}
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		<-sigChan
		fmt.Fprintln(os.Stderr, "\nInterrupted, stopping scan...")
		cancel()
	}()

	session, err := scan.New(opts)
	if err != nil {
		return err
	}

	printVerbose("Session %s: scanning %d roots with %d workers", session.ID(), len(roots), session.Workers())

	result, err := session.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			printInfo("Scan cancelled, no report written")
			return nil
		}
		return fmt.Errorf("scan failed: %w", err)
	}
	if !getQuiet() {
		fmt.Fprintln(os.Stderr)
	}

	// Attach per-file metadata to each duplicate group
	enricher := metadata.NewEnricher(metadata.NewOSProvider())
	groups := enricher.Enrich(result.Groups)

	rep := &report.Result{
		Groups:      groups,
		Stats:       result.Stats,
		SessionID:   result.SessionID,
		Roots:       result.Roots,
		Warnings:    collectWarnings(result),
		GeneratedAt: time.Now(),
	}

	if err := report.Write(reportPath, formatter, rep); err != nil {
		return err
	}

	printInfo("Found %d duplicate groups among %d files in %s",
		len(groups), result.Stats.FilesEnumerated, result.Stats.Elapsed.Round(time.Millisecond))
	if result.Stats.HashFailures > 0 {
		printInfo("Skipped %d unreadable files", result.Stats.HashFailures)
	}
	printInfo("Report written to %s", reportPath)

	return nil
}

// resolveRoots expands, absolutizes, and validates the scan roots.
func resolveRoots(args []string) ([]string, error) {
	roots := make([]string, 0, len(args))
	for _, arg := range args {
		expanded, err := config.ExpandPath(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path: %w", err)
		}

		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path: %w", err)
		}

		info, err := os.Stat(absPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, fmt.Errorf("path does not exist: %s", absPath)
			}
			return nil, fmt.Errorf("cannot access path: %w", err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("path is not a directory: %s", absPath)
		}

		roots = append(roots, absPath)
	}
	return roots, nil
}

// initLogging configures file logging from viper settings. Verbose mode
// mirrors debug output to stderr.
func initLogging() error {
	cfg := logging.DefaultConfig()
	if level := viper.GetString("logging.level"); level != "" {
		cfg.Level = level
	}
	if path := viper.GetString("logging.path"); path != "" {
		cfg.Path = path
	}
	if getVerbose() {
		cfg.Level = "debug"
		cfg.ConsoleLevel = "debug"
	}

	return logging.Init(cfg)
}

// collectWarnings flattens enumeration warnings and hash failures into
// report warning strings.
func collectWarnings(result *scan.Result) []string {
	warnings := make([]string, 0, len(result.Warnings)+len(result.Failures))
	for _, w := range result.Warnings {
		warnings = append(warnings, fmt.Sprintf("%s: %s", w.Path, w.Error))
	}
	for _, f := range result.Failures {
		warnings = append(warnings, fmt.Sprintf("%s: %s", f.Path, f.Error))
	}
	return warnings
}
