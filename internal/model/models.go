package model

import "time"

// AnalysisJobSpec is the configuration for one transit-analysis run,
// accepted by POST /api/v1/analyses and by the batch CLI.
type AnalysisJobSpec struct {
	// Source is a local path or HTTP URL of the raw tracking export
	// (a JSON array of root entries, each holding trackDetails).
	Source string `json:"source" binding:"required"`
	// Label is an optional human-readable description of the run.
	Label string `json:"label"`
	// Workers is the size of the metric-calculation worker pool.
	// Zero means the configured default.
	Workers int `json:"workers"`
}

// ExportResult describes one generated report file.
type ExportResult struct {
	Report      string    `json:"report"` // "detailed" or "summary"
	Path        string    `json:"path"`
	RecordCount int       `json:"record_count"`
	Success     bool      `json:"success"`
	Error       string    `json:"error,omitempty"`
	ExportedAt  time.Time `json:"exported_at"`
}
