// Package parquetexport writes one Parquet row per ingest, for loading report
// inputs into notebooks and warehouses.
package parquetexport

import (
	"fmt"
	"time"

	"github.com/wellcomecollection/ssreport/internal/model"
	"github.com/wellcomecollection/ssreport/internal/normalize"
	"github.com/wellcomecollection/ssreport/internal/report"
)

// Row is the Parquet schema of an exported ingest.
type Row struct {
	RunID          string  `parquet:"run_id"`
	IngestID       string  `parquet:"ingest_id"`
	Status         string  `parquet:"status"`
	LastActivityMs int64   `parquet:"last_activity_ms"`
	ActivitySource string  `parquet:"activity_source"`
	ElapsedSeconds int64   `parquet:"elapsed_seconds"`
	FailureReason  *string `parquet:"failure_reason,optional"`
}

// FromRecord resolves rec against now. FailureReason is set only for failed
// ingests, normalized the same way the report groups them.
func FromRecord(runID string, now time.Time, rec model.IngestRecord) (Row, error) {
	activity, err := model.ResolveLastActivity(rec)
	if err != nil {
		return Row{}, fmt.Errorf("ingest %s: %w", rec.ID, err)
	}

	row := Row{
		RunID:          runID,
		IngestID:       rec.ID,
		Status:         string(rec.Status),
		LastActivityMs: activity.At.UnixMilli(),
		ActivitySource: activity.Source.String(),
		ElapsedSeconds: int64(model.Elapsed(now, activity) / time.Second),
	}
	if rec.Status == model.StatusFailed {
		reason := report.NoDescription
		if desc, ok := rec.LastDescription(); ok {
			reason = normalize.FailureReason(desc)
		}
		row.FailureReason = &reason
	}
	return row, nil
}
