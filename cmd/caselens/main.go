// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"caselens/internal/analysis"
	"caselens/internal/config"
	"caselens/internal/extract"
	"caselens/internal/observability"
	"caselens/internal/pipeline"
	"caselens/internal/store"
	"caselens/internal/version"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// app carries the state shared by all subcommands once flags are parsed.
type app struct {
	configFile string
	debug      bool
	noColor    bool

	cfg    *config.Config
	logger zerolog.Logger
}

// NewRootCmd constructs the root CLI command; exposed for unit testing.
func NewRootCmd() *cobra.Command {
	a := &app{logger: observability.Nop()}

	rootCmd := &cobra.Command{
		Use:           "caselens",
		Short:         "Analyze legal case documents for procedural violations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "Path to configuration file (yaml, toml or json)")
	rootCmd.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	rootCmd.AddCommand(newCaseCmd(a))
	rootCmd.AddCommand(newSearchCmd(a))
	rootCmd.AddCommand(newWatchCmd(a))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	// A missing .env is normal; variables may come from the environment.
	_ = godotenv.Load()

	cfg, err := config.LoadConfigOrDefault(a.configFile)
	if err != nil {
		if a.configFile != "" {
			return fmt.Errorf("load config: %w", err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Error loading config file: %v\n", err)
		fmt.Fprintf(cmd.ErrOrStderr(), "Using default configuration\n")
	}
	if a.debug {
		cfg.Debug = true
	}
	if a.noColor {
		cfg.Report.NoColor = true
	}
	a.cfg = cfg

	stderr := cmd.ErrOrStderr()
	a.logger = observability.NewLogger("caselens", stderr, isTerminal(stderr), cfg.Debug)
	if cfg.Report.NoColor || !isTerminal(cmd.OutOrStdout()) {
		color.NoColor = true
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (a *app) openStore(ctx context.Context) (store.CaseStore, error) {
	s, err := store.Open(ctx, a.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", a.cfg.Storage.Backend, err)
	}
	return s, nil
}

func (a *app) newAnalyzer(ctx context.Context) (analysis.Analyzer, error) {
	analyzer, err := analysis.New(ctx, a.cfg.Analysis, a.logger)
	if err != nil {
		return nil, fmt.Errorf("analysis provider: %w", err)
	}
	return analyzer, nil
}

func closeAnalyzer(analyzer analysis.Analyzer) {
	if c, ok := analyzer.(io.Closer); ok {
		_ = c.Close()
	}
}

// ingest bundles the collaborators used to add documents to a case.
type ingest struct {
	pipeline  *pipeline.Pipeline
	extractor *extract.Extractor
	observer  *observability.StandardObserver
	analyzer  analysis.Analyzer
}

func (in *ingest) Close() {
	closeAnalyzer(in.analyzer)
}

// newIngest wires extraction and analysis from configuration.
func (a *app) newIngest(ctx context.Context, advanced bool) (*ingest, error) {
	analyzer, err := a.newAnalyzer(ctx)
	if err != nil {
		return nil, err
	}

	level := observability.ObservabilityMetrics
	if a.cfg.Debug {
		level = observability.ObservabilityDebug
	}
	observer := observability.NewObserverWithLogger(level, a.logger)

	extractor := extract.New(a.cfg.Extraction, a.logger)
	extractor.SetObserver(observer)

	p, err := pipeline.New(pipeline.Config{
		Extractor:        extractor,
		Analyzer:         analyzer,
		Observer:         observer,
		Logger:           &a.logger,
		AdvancedAnalysis: advanced,
	})
	if err != nil {
		closeAnalyzer(analyzer)
		return nil, err
	}
	return &ingest{pipeline: p, extractor: extractor, observer: observer, analyzer: analyzer}, nil
}

func newVersionCmd() *cobra.Command {
	var short bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), version.Short())
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), version.Info())
			return nil
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "Print only the version number")
	return cmd
}
