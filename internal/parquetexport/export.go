package parquetexport

import (
	"context"
	"time"

	"github.com/wellcomecollection/ssreport/internal/ingestread"
	"github.com/wellcomecollection/ssreport/internal/model"
)

// Collect reads the dump at path and converts every non-excluded record to a
// Row. It returns the rows and the number of excluded records.
func Collect(ctx context.Context, path string, exclude ingestread.Exclusions, runID string, now time.Time) ([]Row, int, error) {
	var rows []Row
	_, excluded, err := ingestread.Each(path, exclude, func(rec model.IngestRecord) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		row, err := FromRecord(runID, now, rec)
		if err != nil {
			return err
		}
		rows = append(rows, row)
		return nil
	})
	if err != nil {
		return nil, excluded, err
	}
	return rows, excluded, nil
}
