package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/wellcomecollection/ssreport/internal/exitcode"
	"github.com/wellcomecollection/ssreport/internal/ingestread"
	"github.com/wellcomecollection/ssreport/internal/parquetexport"
)

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export <INGESTS_JSON_DUMP>",
	Short: "Write one Parquet row per ingest",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportOut, "out", "ingests.parquet", "Output Parquet file")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if code := export(args[0]); code != exitcode.Success {
		os.Exit(code)
	}
	return nil
}

// export runs the export and returns the process exit code, so deferred
// cleanup runs before the caller exits.
func export(dump string) int {
	c := loadConfig()
	log, runID := newLogger(c)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	exclusions, found, err := ingestread.LoadKnownFailures(c.KnownFailures)
	if err != nil {
		log.Error().Err(err).Msg("failed to load known failures")
		return exitcode.InputError
	}
	if !found {
		log.Warn().Str("path", c.KnownFailures).Msg("known failures file not found, nothing excluded")
	}

	digest, err := ingestread.DigestFile(dump)
	if err != nil {
		log.Error().Err(err).Msg("failed to hash file")
		return exitcode.InputError
	}

	start := time.Now()
	rows, excluded, err := parquetexport.Collect(ctx, dump, exclusions, runID, start)
	if err != nil {
		log.Error().Err(err).Msg("failed to read dump")
		return exitcode.InputError
	}

	if err := parquetexport.Write(exportOut, rows); err != nil {
		log.Error().Err(err).Msg("failed to write parquet")
		return exitcode.ExportError
	}
	if err := parquetexport.Verify(exportOut, len(rows)); err != nil {
		log.Error().Err(err).Msg("written parquet failed verification")
		return exitcode.ExportError
	}

	log.Info().
		Str("sha256", digest.SHA256).
		Int("rows", len(rows)).
		Int("excluded", excluded).
		Dur("duration", time.Since(start)).
		Msg("export complete")
	fmt.Printf("Export complete: %d rows written to %s\n", len(rows), exportOut)
	return exitcode.Success
}
