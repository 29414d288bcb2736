package model

import "time"

// FailureGroupSummary is one normalized failure reason and its ingests.
type FailureGroupSummary struct {
	Reason    string   `yaml:"reason"`
	IngestIDs []string `yaml:"ingest_ids"`
}

// ReportSummary captures the outcome of a single report run.
type ReportSummary struct {
	RunID         string                `yaml:"run_id"`
	InputPath     string                `yaml:"input_path"`
	InputSHA256   string                `yaml:"input_sha256"`
	InputBytes    int64                 `yaml:"input_bytes"`
	GeneratedAt   time.Time             `yaml:"generated_at"`
	RecordsRead   int                   `yaml:"records_read"`
	Excluded      int                   `yaml:"excluded"`
	Tally         map[Status]int        `yaml:"tally"`
	OtherStatuses map[Status]int        `yaml:"other_statuses,omitempty"`
	FailureGroups []FailureGroupSummary `yaml:"failure_groups,omitempty"`
	Processing    int                   `yaml:"processing"`
	Duration      time.Duration         `yaml:"duration"`
}
