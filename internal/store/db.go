package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"transit-analytics/internal/model"
)

var db *sql.DB

// InitDB opens the sqlite job store and creates the bookkeeping tables.
// Only job lifecycle data lives here; the analytic dataset itself is
// never persisted.
func InitDB(dbPath string) error {
	var err error
	db, err = sql.Open("sqlite3", dbPath)
	if err != nil {
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS jobs (
			id TEXT PRIMARY KEY,
			spec TEXT,
			status TEXT,
			created_at DATETIME,
			updated_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_errors (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			error_message TEXT,
			created_at DATETIME
		);`,
		`CREATE TABLE IF NOT EXISTS job_reports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			job_id TEXT,
			report TEXT,
			path TEXT,
			record_count INTEGER,
			created_at DATETIME
		);`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the job store.
func Close() error {
	if db == nil {
		return nil
	}
	return db.Close()
}

// SaveJob stores a new analysis job in pending state.
func SaveJob(jobID string, spec model.AnalysisJobSpec) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	_, err = db.Exec(`INSERT INTO jobs (id, spec, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, specJSON, "pending", now, now)
	return err
}

// UpdateJobStatus advances a job through its lifecycle.
func UpdateJobStatus(jobID string, status string) error {
	now := time.Now().UTC()
	_, err := db.Exec(`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`, status, now, jobID)
	return err
}

// SaveJobError records an error for a job.
func SaveJobError(jobID string, jobErr error) error {
	if jobErr == nil {
		return nil
	}
	now := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO job_errors (job_id, error_message, created_at) VALUES (?, ?, ?)`,
		jobID, jobErr.Error(), now)
	return err
}

// ListJobs returns all jobs with basic info, newest first.
func ListJobs() ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT id, status, created_at, updated_at FROM jobs ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var jobs []map[string]interface{}
	for rows.Next() {
		var id, status string
		var createdAt, updatedAt time.Time
		if err := rows.Scan(&id, &status, &createdAt, &updatedAt); err != nil {
			return nil, err
		}
		jobs = append(jobs, map[string]interface{}{
			"id":        id,
			"status":    status,
			"createdAt": createdAt,
			"updatedAt": updatedAt,
		})
	}
	return jobs, rows.Err()
}

// GetJob fetches full job spec and status.
func GetJob(jobID string) (map[string]interface{}, error) {
	var specJSON, status string
	var createdAt, updatedAt time.Time

	err := db.QueryRow(`SELECT spec, status, created_at, updated_at FROM jobs WHERE id = ?`, jobID).
		Scan(&specJSON, &status, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	var spec model.AnalysisJobSpec
	if err := json.Unmarshal([]byte(specJSON), &spec); err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"id":        jobID,
		"spec":      spec,
		"status":    status,
		"createdAt": createdAt,
		"updatedAt": updatedAt,
	}, nil
}

// GetJobErrors returns the recorded errors for a job, oldest first.
func GetJobErrors(jobID string) ([]map[string]interface{}, error) {
	rows, err := db.Query(`SELECT error_message, created_at FROM job_errors WHERE job_id = ? ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var errs []map[string]interface{}
	for rows.Next() {
		var message string
		var createdAt time.Time
		if err := rows.Scan(&message, &createdAt); err != nil {
			return nil, err
		}
		errs = append(errs, map[string]interface{}{
			"message":   message,
			"createdAt": createdAt,
		})
	}
	return errs, rows.Err()
}

// SaveJobReport registers a generated report file for download.
func SaveJobReport(jobID string, result model.ExportResult) error {
	_, err := db.Exec(`INSERT INTO job_reports (job_id, report, path, record_count, created_at) VALUES (?, ?, ?, ?, ?)`,
		jobID, result.Report, result.Path, result.RecordCount, result.ExportedAt.UTC())
	return err
}

// ListJobReports returns the registered report files for a job.
func ListJobReports(jobID string) ([]model.ExportResult, error) {
	rows, err := db.Query(`SELECT report, path, record_count, created_at FROM job_reports WHERE job_id = ? ORDER BY created_at ASC`, jobID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.ExportResult
	for rows.Next() {
		var result model.ExportResult
		if err := rows.Scan(&result.Report, &result.Path, &result.RecordCount, &result.ExportedAt); err != nil {
			return nil, err
		}
		result.Success = true
		reports = append(reports, result)
	}
	return reports, rows.Err()
}

// GetJobReportPath resolves a registered report file name to its path on
// disk. Unregistered names are rejected so the download endpoint cannot
// serve arbitrary files.
func GetJobReportPath(jobID, fileName string) (string, error) {
	reports, err := ListJobReports(jobID)
	if err != nil {
		return "", err
	}
	for _, report := range reports {
		if filepath.Base(report.Path) == fileName {
			return report.Path, nil
		}
	}
	return "", fmt.Errorf("report %q not found for job %s", fileName, jobID)
}
