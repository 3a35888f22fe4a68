package controllers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"github.com/surveyguy/surveyguy-server/config"
	"github.com/surveyguy/surveyguy-server/middleware"
	"github.com/surveyguy/surveyguy-server/models"
)

type exportRequest struct {
	Format    string  `json:"format"` // csv (default) or xlsx
	RangeFrom *string `json:"range_from,omitempty"`
	RangeTo   *string `json:"range_to,omitempty"`
}

/* ========== POST /api/surveys/:id/export ========== */

func CreateExport(c *gin.Context) {
	s := c.MustGet(middleware.CtxSurvey).(models.Survey)

	// An empty body means a full CSV export.
	var req exportRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid payload"})
		return
	}
	if req.Format == "" {
		req.Format = "csv"
	}
	if req.Format != "csv" && req.Format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Format must be csv or xlsx"})
		return
	}

	var fromPtr, toPtr *time.Time
	if req.RangeFrom != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeFrom); err == nil {
			fromPtr = &t
		}
	}
	if req.RangeTo != nil {
		if t, err := time.Parse(time.RFC3339, *req.RangeTo); err == nil {
			toPtr = &t
		}
	}

	job := models.ExportJob{
		JobID:     uuid.New().String(),
		SurveyID:  s.ID,
		Format:    req.Format,
		RangeFrom: fromPtr,
		RangeTo:   toPtr,
		Status:    "queued",
	}
	if err := config.DB.Create(&job).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not queue export"})
		return
	}

	go processExportJob(job.JobID)

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
	})
}

/* ========== GET /api/exports/:job_id ========== */

// canReadExport gates job polling and download: the survey's owner, or an
// admin. Job ids are not capability tokens.
func canReadExport(u models.User, s models.Survey) bool {
	if u.IsAdmin {
		return true
	}
	return s.OwnerID != nil && *s.OwnerID == u.ID
}

func GetExport(c *gin.Context) {
	u := c.MustGet(middleware.CtxUser).(models.User)

	jobID := c.Param("job_id")
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			c.JSON(http.StatusNotFound, gin.H{"message": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load job"})
		return
	}

	var survey models.Survey
	if err := config.DB.First(&survey, "id = ?", job.SurveyID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Could not load survey"})
		return
	}
	if !canReadExport(u, survey) {
		c.JSON(http.StatusForbidden, gin.H{"message": "You do not own this export"})
		return
	}

	if job.Status == "done" && job.FilePath != nil {
		c.FileAttachment(*job.FilePath, path.Base(*job.FilePath))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"job_id": job.JobID,
		"status": job.Status,
		"error":  job.ErrorMsg,
	})
}

func failJob(job *models.ExportJob, err error) {
	em := err.Error()
	config.DB.Model(job).Updates(map[string]interface{}{"status": "failed", "error_msg": em})
	log.Printf("export job %s failed: %v", job.JobID, err)
}

// processExportJob runs in the background and writes one row per response,
// one column per question, ordered like the survey.
func processExportJob(jobID string) {
	var job models.ExportJob
	if err := config.DB.First(&job, "job_id = ?", jobID).Error; err != nil {
		return
	}
	config.DB.Model(&job).Update("status", "processing")

	doc, err := loadDocument(job.SurveyID)
	if err != nil {
		failJob(&job, err)
		return
	}

	query := config.DB.Preload("Answers").Where("survey_id = ?", job.SurveyID)
	if job.RangeFrom != nil {
		query = query.Where("submitted_at >= ?", job.RangeFrom)
	}
	if job.RangeTo != nil {
		query = query.Where("submitted_at <= ?", job.RangeTo)
	}
	var responses []models.Response
	if err := query.Order("submitted_at ASC").Find(&responses).Error; err != nil {
		failJob(&job, err)
		return
	}

	header := []string{"response_id", "session_id", "email", "submitted_at", "completion_seconds"}
	for _, q := range doc.Questions {
		header = append(header, q.Title)
	}

	rows := make([][]string, 0, len(responses))
	for _, r := range responses {
		byQuestion := make(map[string]string, len(r.Answers))
		for _, a := range r.Answers {
			byQuestion[a.QuestionID] = exportCell(a.ValueJSON)
		}

		email := ""
		if r.Email != nil {
			email = *r.Email
		}
		row := []string{
			r.ID,
			r.SessionID,
			email,
			r.SubmittedAt.Format(time.RFC3339),
			fmt.Sprintf("%d", r.CompletionTimeSeconds),
		}
		for _, q := range doc.Questions {
			row = append(row, byQuestion[q.ID])
		}
		rows = append(rows, row)
	}

	outDir := "./exports"
	os.MkdirAll(outDir, 0755)

	var outPath string
	switch job.Format {
	case "xlsx":
		outPath = path.Join(outDir, fmt.Sprintf("export_%s.xlsx", job.JobID))
		err = writeXLSX(outPath, header, rows)
	default:
		outPath = path.Join(outDir, fmt.Sprintf("export_%s.csv", job.JobID))
		err = writeCSV(outPath, header, rows)
	}
	if err != nil {
		failJob(&job, err)
		return
	}

	config.DB.Model(&job).Updates(map[string]interface{}{"status": "done", "file_path": outPath})
}

// exportCell flattens a stored answer value into one spreadsheet cell.
func exportCell(valueJSON string) string {
	var value any
	if err := json.Unmarshal([]byte(valueJSON), &value); err != nil {
		return valueJSON
	}
	switch v := value.(type) {
	case string:
		return v
	case float64:
		return fmt.Sprintf("%g", v)
	case []any:
		out := ""
		for i, item := range v {
			if i > 0 {
				out += "; "
			}
			out += fmt.Sprintf("%v", item)
		}
		return out
	case map[string]any:
		out := ""
		first := true
		for k, item := range v {
			if !first {
				out += "; "
			}
			first = false
			out += fmt.Sprintf("%s: %v", k, item)
		}
		return out
	default:
		return valueJSON
	}
}

func writeCSV(outPath string, header []string, rows [][]string) error {
	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func writeXLSX(outPath string, header []string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := "Responses"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return err
	}

	writeRow := func(rowIdx int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := writeRow(1, header); err != nil {
		return err
	}
	for i, row := range rows {
		if err := writeRow(i+2, row); err != nil {
			return err
		}
	}
	return f.SaveAs(outPath)
}
