package report

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wellcomecollection/ssreport/internal/model"
)

// BuildSummary captures the counts and failure groups of an aggregation.
// Run metadata (IDs, paths, timings) is left for the caller to fill in.
func BuildSummary(agg *Aggregation) *model.ReportSummary {
	s := &model.ReportSummary{
		Tally:      make(map[model.Status]int, len(agg.Tally)),
		Processing: len(agg.Processing),
	}
	for status, n := range agg.Tally {
		s.Tally[status] = n
	}
	if len(agg.Other) > 0 {
		s.OtherStatuses = make(map[model.Status]int, len(agg.Other))
		for status, n := range agg.Other {
			s.OtherStatuses[status] = n
		}
	}
	for _, g := range GroupFailures(agg.Failed) {
		s.FailureGroups = append(s.FailureGroups, model.FailureGroupSummary{
			Reason:    g.Reason,
			IngestIDs: g.IngestIDs,
		})
	}
	return s
}

// WriteSummary writes summary as YAML to path, creating parent directories
// as needed. CI jobs read it instead of scraping the terminal report.
func WriteSummary(summary *model.ReportSummary, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create directory for summary: %w", err)
	}

	data, err := yaml.Marshal(summary)
	if err != nil {
		return fmt.Errorf("marshal summary: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
