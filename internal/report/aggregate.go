package report

import (
	"fmt"
	"io"
	"time"

	"github.com/wellcomecollection/ssreport/internal/model"
)

// NoDescription stands in for a failed ingest whose events carry no
// description to report.
const NoDescription = "(no failure description)"

// FailedIngest is a failed ingest and its latest failure description.
type FailedIngest struct {
	ID          string
	Elapsed     time.Duration
	Description string
}

// ProcessingIngest is an ingest still in progress.
type ProcessingIngest struct {
	ID      string
	Elapsed time.Duration
}

// Aggregation is the result of one pass over the ingest stream.
type Aggregation struct {
	// Tally always holds every status in model.KnownStatuses.
	Tally map[model.Status]int
	// Other counts statuses outside model.KnownStatuses.
	Other map[model.Status]int
	// Failed and Processing are in first-seen order. A repeated ID
	// replaces the earlier entry in place.
	Failed     []FailedIngest
	Processing []ProcessingIngest

	failedIdx     map[string]int
	processingIdx map[string]int
}

// NewAggregation returns an empty Aggregation.
func NewAggregation() *Aggregation {
	a := &Aggregation{
		Tally:         make(map[model.Status]int, len(model.KnownStatuses)),
		Other:         make(map[model.Status]int),
		failedIdx:     make(map[string]int),
		processingIdx: make(map[string]int),
	}
	for _, s := range model.KnownStatuses {
		a.Tally[s] = 0
	}
	return a
}

// Add classifies one record. Elapsed times are measured against now, which
// callers capture once per run so that all records are comparable.
func (a *Aggregation) Add(now time.Time, rec model.IngestRecord) error {
	act, err := model.ResolveLastActivity(rec)
	if err != nil {
		return fmt.Errorf("ingest %s: %w", rec.ID, err)
	}
	elapsed := model.Elapsed(now, act)

	switch rec.Status {
	case model.StatusFailed:
		desc, ok := rec.LastDescription()
		if !ok {
			desc = NoDescription
		}
		f := FailedIngest{ID: rec.ID, Elapsed: elapsed, Description: desc}
		if i, seen := a.failedIdx[rec.ID]; seen {
			a.Failed[i] = f
		} else {
			a.failedIdx[rec.ID] = len(a.Failed)
			a.Failed = append(a.Failed, f)
		}
	case model.StatusProcessing:
		p := ProcessingIngest{ID: rec.ID, Elapsed: elapsed}
		if i, seen := a.processingIdx[rec.ID]; seen {
			a.Processing[i] = p
		} else {
			a.processingIdx[rec.ID] = len(a.Processing)
			a.Processing = append(a.Processing, p)
		}
	}

	if rec.Status.Known() {
		a.Tally[rec.Status]++
	} else {
		a.Other[rec.Status]++
	}
	return nil
}

// KnownTotal is the sum of the known-status tallies.
func (a *Aggregation) KnownTotal() int {
	total := 0
	for _, s := range model.KnownStatuses {
		total += a.Tally[s]
	}
	return total
}

// Aggregate drains next until io.EOF.
func Aggregate(now time.Time, next func() (model.IngestRecord, error)) (*Aggregation, error) {
	agg := NewAggregation()
	for {
		rec, err := next()
		if err == io.EOF {
			return agg, nil
		}
		if err != nil {
			return nil, err
		}
		if err := agg.Add(now, rec); err != nil {
			return nil, err
		}
	}
}
