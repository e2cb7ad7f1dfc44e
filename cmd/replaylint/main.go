package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/viant/replaylint/analyzer"
	"github.com/viant/replaylint/config"
	"github.com/viant/replaylint/determinism"
	"github.com/viant/replaylint/fixer"
	"github.com/viant/replaylint/inspector"
	"github.com/viant/replaylint/report"
)

type options struct {
	configURL string
	showFixes bool
	verbose   bool
}

func main() {
	if err := newCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

func newCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "replaylint [packages]",
		Short: "Detect replay-determinism violations in durable workflow code",
		Long: `replaylint inspects orchestration functions for operations that break
deterministic replay: wall-clock reads, ambient randomness, external I/O,
shared mutable state, blocking and non-durable asynchronous work.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, args)
		},
		SilenceUsage: true,
	}
	cmd.Flags().StringVarP(&opts.configURL, "config", "c", "", "YAML configuration profile")
	cmd.Flags().BoolVar(&opts.showFixes, "fix", false, "print proposed fix edits for fixable violations")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	cmd.SetContext(ctx)
	cobra.OnFinalize(cancel)
	return cmd
}

func run(ctx context.Context, opts *options, patterns []string) error {
	logLevel := slog.LevelInfo
	if opts.verbose {
		logLevel = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(handler))

	cfg := config.Default()
	if opts.configURL != "" {
		loaded, err := config.Load(ctx, opts.configURL)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	units, err := inspector.LoadPackages(ctx, patterns...)
	if err != nil {
		return err
	}
	slog.Debug("loaded packages", "units", len(units))

	engine := analyzer.New(cfg)
	reporter := report.New(cfg)
	var diagnostics []determinism.Diagnostic
	for _, unit := range units {
		violations, err := engine.Run(ctx, unit)
		if err != nil {
			return err
		}
		slog.Debug("analyzed unit", "package", unit.PackagePath(), "violations", len(violations))
		diagnostics = append(diagnostics, reporter.Diagnostics(engine.Registry(), violations)...)

		if opts.showFixes {
			for _, violation := range violations {
				if !violation.Fixable {
					continue
				}
				if edit := fixer.Synthesize(unit, cfg, violation); edit != nil {
					fmt.Printf("%s:%d:%d: %s fix: replace with %q\n",
						edit.Span.FilePath, edit.Span.Line, edit.Span.Column, edit.RuleID, edit.Replacement)
				}
			}
		}
	}

	if err := reporter.Render(os.Stdout, diagnostics); err != nil {
		return err
	}
	if report.HasErrors(diagnostics) {
		os.Exit(1)
	}
	return nil
}
