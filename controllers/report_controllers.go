package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-ordering/services"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

type ReportController struct {
	Reports *services.ReportService
}

func NewReportController(reports *services.ReportService) *ReportController {
	return &ReportController{Reports: reports}
}

// parseRequest reads ?range=today|week|month|custom&start_date=&end_date=.
func (rc *ReportController) parseRequest(c *gin.Context) (services.ReportRequest, error) {
	req := services.ReportRequest{Range: c.DefaultQuery("range", services.RangeToday)}
	req.ExcludeCancelled, _ = strconv.ParseBool(c.Query("exclude_cancelled"))
	req.CountGuests, _ = strconv.ParseBool(c.Query("count_guests"))

	loc := rc.Reports.Location()
	for _, p := range []struct {
		name string
		dst  **time.Time
	}{{"start_date", &req.StartDate}, {"end_date", &req.EndDate}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		t, err := time.ParseInLocation("2006-01-02", raw, loc)
		if err != nil {
			return req, &services.ValidationError{Field: p.name, Reason: "must be YYYY-MM-DD"}
		}
		*p.dst = &t
	}
	return req, nil
}

func (rc *ReportController) generate(c *gin.Context) (services.ReportData, bool) {
	req, err := rc.parseRequest(c)
	if err != nil {
		respondServiceError(c, err)
		return services.ReportData{}, false
	}
	report, err := rc.Reports.Generate(c.Request.Context(), session(c), req)
	if err != nil {
		respondServiceError(c, err)
		return services.ReportData{}, false
	}
	return report, true
}

func (rc *ReportController) GetReport(c *gin.Context) {
	report, ok := rc.generate(c)
	if !ok {
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Sales report", report)
}

func (rc *ReportController) ExportCSV(c *gin.Context) {
	report, ok := rc.generate(c)
	if !ok {
		return
	}
	body, err := services.ExportCSV(report)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+rc.Reports.FileName("csv")+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", body)
}

func (rc *ReportController) ExportPDF(c *gin.Context) {
	report, ok := rc.generate(c)
	if !ok {
		return
	}
	body, err := services.ExportPDF(report, "Sales report")
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+rc.Reports.FileName("pdf")+`"`)
	c.Data(http.StatusOK, "application/pdf", body)
}

// EmailReport -> kirim di background, respon 202 langsung
func (rc *ReportController) EmailReport(c *gin.Context) {
	var body struct {
		To []string `json:"to" binding:"required,min=1,dive,email"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	report, ok := rc.generate(c)
	if !ok {
		return
	}
	rc.Reports.EmailAsync(body.To, report)
	utils.RespondJSON(c, http.StatusAccepted, "Report email queued", gin.H{"to": body.To})
}

func (rc *ReportController) ArchiveReport(c *gin.Context) {
	report, ok := rc.generate(c)
	if !ok {
		return
	}
	keys, err := rc.Reports.Archive(c.Request.Context(), report)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if keys == nil {
		utils.RespondError(c, http.StatusServiceUnavailable, errArchiveDisabled)
		return
	}
	utils.RespondJSON(c, http.StatusCreated, "Report archived", gin.H{"keys": keys})
}
