package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/fire22/compliance-backend/internal/models"
	"github.com/fire22/compliance-backend/internal/services/compliance"
)

// ComplianceHandler exposes the compliance engine over HTTP
type ComplianceHandler struct {
	reports   *compliance.ReportService
	filings   *compliance.FilingService
	alerts    *compliance.AlertService
	checker   *compliance.TransactionChecker
	schedules *compliance.ScheduleService
	store     compliance.Store
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(
	reports *compliance.ReportService,
	filings *compliance.FilingService,
	alerts *compliance.AlertService,
	checker *compliance.TransactionChecker,
	schedules *compliance.ScheduleService,
	store compliance.Store,
) *ComplianceHandler {
	return &ComplianceHandler{
		reports:   reports,
		filings:   filings,
		alerts:    alerts,
		checker:   checker,
		schedules: schedules,
		store:     store,
	}
}

func callerSubject(c *gin.Context) string {
	if subject, exists := c.Get("subject"); exists {
		if s, ok := subject.(string); ok {
			return s
		}
	}
	return "unknown"
}

// GenerateReportRequest is the payload for manual report generation
type GenerateReportRequest struct {
	ReportType   models.ReportType `json:"report_type" binding:"required"`
	Jurisdiction string            `json:"jurisdiction" binding:"required"`
	PeriodStart  time.Time         `json:"period_start" binding:"required"`
	PeriodEnd    time.Time         `json:"period_end" binding:"required"`
}

// GenerateReport generates a report for an explicit period
func (h *ComplianceHandler) GenerateReport(c *gin.Context) {
	var req GenerateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.reports.GenerateReport(c.Request.Context(), req.ReportType, req.Jurisdiction, req.PeriodStart, req.PeriodEnd, callerSubject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "report": report})
}

// ApproveReport approves a report
func (h *ComplianceHandler) ApproveReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.reports.ApproveReport(reportID, callerSubject(c)); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// SubmitReport marks an approved report as sent to the regulator
func (h *ComplianceHandler) SubmitReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	if err := h.reports.MarkReportSubmitted(reportID); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ResolveReportRequest is the payload for recording a regulator verdict
// on a report
type ResolveReportRequest struct {
	Accepted        bool   `json:"accepted"`
	RejectionReason string `json:"rejection_reason"`
}

// ResolveReport records the regulator's accept/reject verdict
func (h *ComplianceHandler) ResolveReport(c *gin.Context) {
	reportID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid report id"})
		return
	}

	var req ResolveReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.reports.ResolveReport(reportID, req.Accepted, req.RejectionReason); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "report not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// GetReports lists reports with optional filters
func (h *ComplianceHandler) GetReports(c *gin.Context) {
	filters := compliance.ReportFilters{
		ReportType:   models.ReportType(c.Query("report_type")),
		Jurisdiction: c.Query("jurisdiction"),
		Status:       models.ReportStatus(c.Query("status")),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.To = &to
	}

	reports, err := h.reports.GetReports(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "reports": reports})
}

// SubmitFilingRequest is the payload for a manual filing submission
type SubmitFilingRequest struct {
	FilingType models.FilingType `json:"filing_type" binding:"required"`
	Data       models.JSON       `json:"data" binding:"required"`
}

// SubmitFiling creates and submits a regulatory filing
func (h *ComplianceHandler) SubmitFiling(c *gin.Context) {
	var req SubmitFilingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	filing, err := h.filings.SubmitFiling(c.Request.Context(), req.FilingType, req.Data, callerSubject(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "filing": filing})
}

// GetFilings lists filings with optional filters
func (h *ComplianceHandler) GetFilings(c *gin.Context) {
	filters := compliance.FilingFilters{
		FilingType: models.FilingType(c.Query("filing_type")),
		Status:     models.FilingStatus(c.Query("status")),
	}
	if from, err := time.Parse(time.RFC3339, c.Query("from")); err == nil {
		filters.From = &from
	}
	if to, err := time.Parse(time.RFC3339, c.Query("to")); err == nil {
		filters.To = &to
	}

	filings, err := h.filings.GetFilings(filters)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "filings": filings})
}

// RegulatorResponseRequest is the payload for recording a regulator's verdict
type RegulatorResponseRequest struct {
	Status          models.FilingStatus `json:"status" binding:"required"`
	ReferenceNumber string              `json:"reference_number"`
}

// RecordRegulatorResponse records the regulator's verdict on a filing
func (h *ComplianceHandler) RecordRegulatorResponse(c *gin.Context) {
	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filing id"})
		return
	}

	var req RegulatorResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.filings.RecordRegulatorResponse(filingID, req.Status, req.ReferenceNumber); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "filing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// AddAttachmentRequest is the payload for attaching a document to a filing
type AddAttachmentRequest struct {
	Filename string `json:"filename" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

// AddAttachment attaches a supporting document to a filing
func (h *ComplianceHandler) AddAttachment(c *gin.Context) {
	filingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid filing id"})
		return
	}

	var req AddAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	attachment, err := h.filings.AddAttachment(filingID, req.Filename, req.URL)
	if err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "filing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "attachment": attachment})
}

// CreateAlertRequest is the payload for raising an alert by hand
type CreateAlertRequest struct {
	AlertType     models.AlertType     `json:"alert_type" binding:"required"`
	Severity      models.AlertSeverity `json:"severity" binding:"required"`
	Description   string               `json:"description" binding:"required"`
	Details       models.JSON          `json:"details"`
	CustomerID    string               `json:"customer_id"`
	TransactionID string               `json:"transaction_id"`
}

// CreateAlert raises a compliance alert
func (h *ComplianceHandler) CreateAlert(c *gin.Context) {
	var req CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	alert, err := h.alerts.CreateAlert(compliance.CreateAlertInput{
		AlertType:     req.AlertType,
		Severity:      req.Severity,
		Description:   req.Description,
		Details:       req.Details,
		CustomerID:    req.CustomerID,
		TransactionID: req.TransactionID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "alert": alert})
}

// GetActiveAlerts lists active alerts, severity-descending
func (h *ComplianceHandler) GetActiveAlerts(c *gin.Context) {
	alerts, err := h.alerts.GetActiveAlerts()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "alerts": alerts})
}

// AssignAlertRequest is the payload for assigning an alert
type AssignAlertRequest struct {
	Assignee string `json:"assignee" binding:"required"`
}

// AssignAlert assigns an alert to an investigator
func (h *ComplianceHandler) AssignAlert(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req AssignAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.alerts.AssignAlert(alertID, req.Assignee); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ResolveAlertRequest is the payload for closing an alert
type ResolveAlertRequest struct {
	Note      string `json:"note" binding:"required"`
	Dismissed bool   `json:"dismissed"`
}

// ResolveAlert closes an alert as resolved or dismissed
func (h *ComplianceHandler) ResolveAlert(c *gin.Context) {
	alertID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid alert id"})
		return
	}

	var req ResolveAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.alerts.ResolveAlert(alertID, callerSubject(c), req.Note, req.Dismissed); err != nil {
		if errors.Is(err, compliance.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "alert not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// CheckTransactionRequest is the payload for a transaction compliance check
type CheckTransactionRequest struct {
	CustomerID      string      `json:"customer_id" binding:"required"`
	TransactionID   string      `json:"transaction_id" binding:"required"`
	Amount          float64     `json:"amount" binding:"required,gt=0"`
	TransactionType string      `json:"transaction_type" binding:"required"`
	Metadata        models.JSON `json:"metadata"`
}

// CheckTransaction evaluates a transaction against compliance rules
func (h *ComplianceHandler) CheckTransaction(c *gin.Context) {
	var req CheckTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.checker.CheckTransaction(c.Request.Context(), req.CustomerID, req.TransactionID, req.Amount, req.TransactionType, req.Metadata)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "result": result})
}

// CreateScheduleRequest is the payload for a new recurring schedule
type CreateScheduleRequest struct {
	ReportType       models.ReportType        `json:"report_type" binding:"required"`
	Jurisdiction     string                   `json:"jurisdiction" binding:"required"`
	Frequency        models.ScheduleFrequency `json:"frequency" binding:"required"`
	DueDay           int                      `json:"due_day"`
	DueTime          string                   `json:"due_time" binding:"required"`
	AutoGenerate     bool                     `json:"auto_generate"`
	AutoSubmit       bool                     `json:"auto_submit"`
	NotifyDaysBefore []int                    `json:"notify_days_before"`
}

// CreateSchedule creates a recurring compliance schedule
func (h *ComplianceHandler) CreateSchedule(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	schedule, err := h.schedules.CreateSchedule(compliance.CreateScheduleInput{
		ReportType:       req.ReportType,
		Jurisdiction:     req.Jurisdiction,
		Frequency:        req.Frequency,
		DueDay:           req.DueDay,
		DueTime:          req.DueTime,
		AutoGenerate:     req.AutoGenerate,
		AutoSubmit:       req.AutoSubmit,
		NotifyDaysBefore: req.NotifyDaysBefore,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success", "schedule": schedule})
}

// GetSchedules lists all schedules
func (h *ComplianceHandler) GetSchedules(c *gin.Context) {
	schedules, err := h.schedules.GetSchedules()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "schedules": schedules})
}

// GetStats returns the operational snapshot
func (h *ComplianceHandler) GetStats(c *gin.Context) {
	stats, err := compliance.GetStats(h.store, time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success", "stats": stats})
}
