package handler

import (
	"context"
	"encoding/csv"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"transit-analytics/internal/model"
	"transit-analytics/internal/pipeline"
	"transit-analytics/internal/store"
	"transit-analytics/pkg/utils"
)

// Handler carries the collaborators shared by the analysis endpoints.
type Handler struct {
	Logger         zerolog.Logger
	Outputs        *utils.OutputManager
	DefaultWorkers int
}

// CreateAnalysis submits a new transit-analysis job
// @Summary Create a new analysis
// @Description Submit a tracking export for transit analysis; the job runs asynchronously
// @Tags analyses
// @Accept json
// @Produce json
// @Param analysis body model.AnalysisJobSpec true "Analysis configuration"
// @Success 202 {object} map[string]interface{} "Analysis accepted"
// @Failure 400 {object} map[string]interface{} "Invalid request payload"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [post]
func (h *Handler) CreateAnalysis(c *gin.Context) {
	var spec model.AnalysisJobSpec
	if err := c.ShouldBindJSON(&spec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid analysis spec: " + err.Error()})
		return
	}
	if spec.Workers <= 0 {
		spec.Workers = h.DefaultWorkers
	}

	jobID := uuid.New().String()
	if err := store.SaveJob(jobID, spec); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save analysis job"})
		return
	}

	go func() {
		if err := pipeline.Run(context.Background(), h.Logger, jobID, spec, h.Outputs); err != nil {
			// Run already records the failure; nothing more to do here.
			h.Logger.Debug().Str("job_id", jobID).Msg("background analysis ended with error")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message":   "analysis accepted",
		"jobID":     jobID,
		"status":    "pending",
		"createdAt": time.Now().UTC(),
	})
}

// ListAnalyses lists all analysis jobs
// @Summary List analyses
// @Description List all analysis jobs with their current status
// @Tags analyses
// @Produce json
// @Success 200 {array} map[string]interface{} "List of analyses"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses [get]
func (h *Handler) ListAnalyses(c *gin.Context) {
	jobs, err := store.ListJobs()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list analyses"})
		return
	}
	if jobs == nil {
		jobs = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, jobs)
}

// GetAnalysis returns one analysis job
// @Summary Get analysis
// @Description Retrieve spec and status of one analysis job
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} map[string]interface{} "Analysis details"
// @Failure 404 {object} map[string]interface{} "Analysis not found"
// @Router /analyses/{id} [get]
func (h *Handler) GetAnalysis(c *gin.Context) {
	job, err := store.GetJob(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "analysis not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// GetAnalysisErrors returns the errors recorded for a job
// @Summary Get analysis errors
// @Description List the errors recorded while running one analysis
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {array} map[string]interface{} "Recorded errors"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/errors [get]
func (h *Handler) GetAnalysisErrors(c *gin.Context) {
	errs, err := store.GetJobErrors(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch errors"})
		return
	}
	if errs == nil {
		errs = []map[string]interface{}{}
	}
	c.JSON(http.StatusOK, errs)
}

// ListAnalysisReports lists the generated report files for a job
// @Summary List analysis reports
// @Description List generated report files with their download URLs
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {array} map[string]interface{} "Generated reports"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /analyses/{id}/reports [get]
func (h *Handler) ListAnalysisReports(c *gin.Context) {
	jobID := c.Param("id")
	reports, err := store.ListJobReports(jobID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list reports"})
		return
	}

	out := make([]map[string]interface{}, 0, len(reports))
	for _, report := range reports {
		out = append(out, map[string]interface{}{
			"report":      report.Report,
			"recordCount": report.RecordCount,
			"exportedAt":  report.ExportedAt,
			"downloadURL": h.Outputs.DownloadURL(jobID, report.Path),
			"type":        h.Outputs.ReportType(report.Path),
		})
	}
	c.JSON(http.StatusOK, out)
}

// DownloadReport serves one generated report file
// @Summary Download report
// @Description Download a generated report file by name
// @Tags analyses
// @Produce text/csv
// @Param id path string true "Analysis ID"
// @Param file path string true "Report file name"
// @Success 200 {file} file "Report file"
// @Failure 404 {object} map[string]interface{} "Report not found"
// @Router /analyses/{id}/reports/{file} [get]
func (h *Handler) DownloadReport(c *gin.Context) {
	path, err := store.GetJobReportPath(c.Param("id"), c.Param("file"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
		return
	}
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "report file missing on disk"})
		return
	}
	c.FileAttachment(path, c.Param("file"))
}

// GetAnalysisSummary returns the network summary of a completed job
// @Summary Get network summary
// @Description Return the network-wide summary row of a completed analysis as ordered fields
// @Tags analyses
// @Produce json
// @Param id path string true "Analysis ID"
// @Success 200 {object} model.NetworkSummary "Network summary"
// @Failure 404 {object} map[string]interface{} "Summary not available"
// @Router /analyses/{id}/summary [get]
func (h *Handler) GetAnalysisSummary(c *gin.Context) {
	path, err := store.GetJobReportPath(c.Param("id"), pipeline.SummaryReportFile)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "summary not available"})
		return
	}

	summary, err := readSummaryCSV(path)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "summary not readable"})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Healthz reports service liveness
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string "Service is up"
// @Router /healthz [get]
func Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readSummaryCSV reconstructs the ordered summary fields from the
// generated summary report. The schema is data-dependent, so the header
// row is the source of truth for field names.
func readSummaryCSV(path string) (model.NetworkSummary, error) {
	file, err := os.Open(path)
	if err != nil {
		return model.NetworkSummary{}, err
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return model.NetworkSummary{}, err
	}

	var summary model.NetworkSummary
	if len(rows) < 2 {
		return summary, nil
	}
	header, values := rows[0], rows[1]
	for i, name := range header {
		if i >= len(values) || values[i] == "" {
			summary.Add(name, nil)
			continue
		}
		if v, err := strconv.ParseFloat(values[i], 64); err == nil {
			value := v
			summary.Add(name, &value)
		} else {
			summary.Add(name, nil)
		}
	}
	return summary, nil
}
