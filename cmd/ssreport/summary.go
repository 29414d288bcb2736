package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/wellcomecollection/ssreport/internal/dashboard"
	"github.com/wellcomecollection/ssreport/internal/exitcode"
)

var summaryHTMLOut string

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Render manifest comparison logs as an HTML dashboard",
	Args:  cobra.NoArgs,
	RunE:  runSummary,
}

func init() {
	f := summaryCmd.Flags()
	f.String("dir", "output", "Directory of per-bag .log files")
	f.StringVar(&summaryHTMLOut, "out", "", "Write the page to this file instead of stdout")
	bindFlag(f, "dashboard_dir", "dir")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	c := loadConfig()
	log, _ := newLogger(c)

	entries, err := dashboard.Collect(c.DashboardDir)
	if err != nil {
		log.Error().Err(err).Str("dir", c.DashboardDir).Msg("failed to read logs")
		os.Exit(exitcode.InputError)
	}

	var w io.Writer = os.Stdout
	if summaryHTMLOut != "" {
		f, err := os.Create(summaryHTMLOut)
		if err != nil {
			log.Error().Err(err).Msg("failed to create output file")
			os.Exit(exitcode.RenderError)
		}
		defer f.Close()
		w = f
	}

	if err := dashboard.Render(w, entries); err != nil {
		log.Error().Err(err).Msg("failed to render dashboard")
		os.Exit(exitcode.RenderError)
	}

	log.Info().Int("logs", len(entries)).Str("dir", c.DashboardDir).Msg("dashboard complete")
	if summaryHTMLOut != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", summaryHTMLOut)
	}
	return nil
}
