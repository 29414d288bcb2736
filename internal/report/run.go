package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/wellcomecollection/ssreport/internal/ingestread"
	"github.com/wellcomecollection/ssreport/internal/model"
)

// Run phases, reported in PhaseError.
const (
	PhaseExclusions = "exclusions"
	PhaseRead       = "read"
	PhaseRender     = "render"
	PhaseSummary    = "summary"
)

// PhaseError wraps an error with the phase where it occurred.
type PhaseError struct {
	Phase string
	Err   error
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Phase, e.Err)
}

func (e *PhaseError) Unwrap() error {
	return e.Err
}

// Options configures a report run.
type Options struct {
	DumpPath          string
	KnownFailuresPath string
	// Now is the reference time for every elapsed duration in the run.
	Now      time.Time
	RunID    string
	Renderer *Renderer
}

// Run executes a report: load exclusions → read and aggregate → render.
func Run(ctx context.Context, log zerolog.Logger, opts Options) (*model.ReportSummary, error) {
	start := time.Now()

	exclusions, found, err := ingestread.LoadKnownFailures(opts.KnownFailuresPath)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseExclusions, Err: err}
	}
	if !found {
		log.Warn().Str("path", opts.KnownFailuresPath).Msg("known failures file not found, nothing excluded")
	} else {
		log.Debug().Int("count", len(exclusions)).Msg("loaded known failures")
	}

	digest, err := ingestread.DigestFile(opts.DumpPath)
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRead, Err: err}
	}

	agg := NewAggregation()
	lines, excluded, err := ingestread.Each(opts.DumpPath, exclusions, func(rec model.IngestRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return agg.Add(opts.Now, rec)
	})
	if err != nil {
		return nil, &PhaseError{Phase: PhaseRead, Err: err}
	}

	for status, n := range agg.Other {
		log.Warn().Str("status", string(status)).Int("count", n).Msg("unrecognised ingest status")
	}

	if err := opts.Renderer.Render(agg); err != nil {
		return nil, &PhaseError{Phase: PhaseRender, Err: err}
	}

	summary := BuildSummary(agg)
	summary.RunID = opts.RunID
	summary.InputPath = opts.DumpPath
	summary.InputSHA256 = digest.SHA256
	summary.InputBytes = digest.Bytes
	summary.GeneratedAt = opts.Now
	summary.RecordsRead = lines
	summary.Excluded = excluded
	summary.Duration = time.Since(start)

	log.Info().
		Str("file", filepath.Base(opts.DumpPath)).
		Str("sha256", digest.SHA256).
		Int("lines", lines).
		Int("excluded", excluded).
		Int("failed", len(agg.Failed)).
		Int("processing", len(agg.Processing)).
		Dur("duration", summary.Duration).
		Msg("report complete")

	return summary, nil
}
