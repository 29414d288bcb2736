package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wellcomecollection/ssreport/internal/chart"
	"github.com/wellcomecollection/ssreport/internal/config"
	"github.com/wellcomecollection/ssreport/internal/exitcode"
	"github.com/wellcomecollection/ssreport/internal/logging"
	"github.com/wellcomecollection/ssreport/internal/report"
)

var (
	v          = viper.New()
	configPath string
	summaryOut string
)

var rootCmd = &cobra.Command{
	Use:   "ssreport <INGESTS_JSON_DUMP>",
	Short: "Storage service ingest status report",
	Long: "Reads a newline-delimited JSON dump of storage-service ingests and prints the\n" +
		"failed ingests grouped by reason, the longest-running processing ingests, and a\n" +
		"bar chart of ingest statuses.",
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE:         runReport,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "Path to YAML config file (default ./ssreport.yaml if present)")
	pf.String("known-failures", "known_failures.txt", "File of ingest IDs to leave out, one per line")
	pf.String("log-format", "text", "Log format: text or json")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.Bool("no-color", false, "Disable terminal colour (also honours NO_COLOR)")
	bindFlag(pf, "known_failures", "known-failures")
	bindFlag(pf, "log_format", "log-format")
	bindFlag(pf, "log_level", "log-level")
	bindFlag(pf, "no_color", "no-color")

	f := rootCmd.Flags()
	f.StringVar(&summaryOut, "summary-out", "", "Also write a YAML run summary to this path")
	f.Int("processing-limit", report.DefaultProcessingLimit, "Number of longest-running processing ingests to list")
	f.Int("chart-levels", chart.DefaultLevels, "Width of the longest chart bar, in characters")
	bindFlag(f, "processing_limit", "processing-limit")
	bindFlag(f, "chart_levels", "chart-levels")
}

func bindFlag(fs *pflag.FlagSet, key, name string) {
	if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
		panic(fmt.Sprintf("bind flag %s: %v", name, err))
	}
}

// loadConfig resolves the configuration or exits with ConfigError.
func loadConfig() *config.Config {
	c, err := config.Load(configPath, v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(exitcode.ConfigError)
	}
	return c
}

// newLogger builds the run logger, tagged with a fresh run ID.
func newLogger(c *config.Config) (zerolog.Logger, string) {
	runID := uuid.NewString()
	log := logging.Setup(c.LogFormat, c.Level()).With().Str("run_id", runID).Logger()
	return log, runID
}

func colorEnabled(c *config.Config) bool {
	return !c.NoColor && os.Getenv("NO_COLOR") == "" && !color.NoColor
}

func runReport(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "Usage: ssreport <INGESTS_JSON_DUMP>")
		os.Exit(exitcode.UsageError)
	}
	if code := runReportDump(args[0]); code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

// runReportDump prints the report for dump and returns the process exit code,
// so deferred cleanup runs before the caller exits.
func runReportDump(dump string) int {
	c := loadConfig()
	log, runID := newLogger(c)

	colors, err := c.ChartColors()
	if err != nil {
		log.Error().Err(err).Msg("config validation failed")
		return exitcode.ConfigError
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	summary, err := report.Run(ctx, log, report.Options{
		DumpPath:          dump,
		KnownFailuresPath: c.KnownFailures,
		Now:               time.Now(),
		RunID:             runID,
		Renderer: &report.Renderer{
			Out:             os.Stdout,
			Styles:          chart.Styles{Enabled: colorEnabled(c)},
			ProcessingLimit: c.ProcessingLimit,
			ChartLevels:     c.ChartLevels,
			Colors:          colors,
		},
	})
	if err != nil {
		var pe *report.PhaseError
		if errors.As(err, &pe) {
			log.Error().Err(pe.Err).Str("phase", pe.Phase).Msg("report failed")
		} else {
			log.Error().Err(err).Msg("report failed")
		}
		return phaseExitCode(err)
	}

	if summaryOut != "" {
		if err := report.WriteSummary(summary, summaryOut); err != nil {
			log.Error().Err(err).Str("phase", report.PhaseSummary).Msg("report failed")
			return exitcode.RenderError
		}
		log.Debug().Str("path", summaryOut).Msg("wrote run summary")
	}
	return exitcode.Success
}

// phaseExitCode maps a failed run to its exit code.
func phaseExitCode(err error) int {
	var pe *report.PhaseError
	if !errors.As(err, &pe) {
		return exitcode.InputError
	}
	switch pe.Phase {
	case report.PhaseExclusions, report.PhaseRead:
		return exitcode.InputError
	default:
		return exitcode.RenderError
	}
}
