package report

import (
	"sort"

	"github.com/wellcomecollection/ssreport/internal/normalize"
)

// FailureGroup is a normalized failure reason and the ingests that hit it,
// longest-failed first.
type FailureGroup struct {
	Reason    string
	IngestIDs []string
}

// GroupFailures buckets failures by normalized reason. Entries are visited
// most-recent first and each ID is pushed to the front of its bucket, so
// buckets end up oldest first. Buckets keep first-insertion order.
func GroupFailures(failed []FailedIngest) []FailureGroup {
	sorted := make([]FailedIngest, len(failed))
	copy(sorted, failed)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Elapsed < sorted[j].Elapsed
	})

	var groups []FailureGroup
	index := make(map[string]int)
	for _, f := range sorted {
		reason := normalize.FailureReason(f.Description)
		i, ok := index[reason]
		if !ok {
			i = len(groups)
			index[reason] = i
			groups = append(groups, FailureGroup{Reason: reason})
		}
		groups[i].IngestIDs = append([]string{f.ID}, groups[i].IngestIDs...)
	}
	return groups
}

// LongestProcessing returns up to limit in-progress ingests with the largest
// elapsed times, in ascending order of elapsed time.
func LongestProcessing(processing []ProcessingIngest, limit int) []ProcessingIngest {
	sorted := make([]ProcessingIngest, len(processing))
	copy(sorted, processing)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Elapsed < sorted[j].Elapsed
	})
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[len(sorted)-limit:]
	}
	return sorted
}
