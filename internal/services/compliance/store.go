package compliance

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/fire22/compliance-backend/internal/models"
)

// ErrNotFound is returned when an operation references an unknown id,
// so callers can tell "nothing to do" from "wrong id".
var ErrNotFound = errors.New("compliance: record not found")

// ReportFilters narrows a report listing. Zero values mean "any".
// From/To are inclusive bounds on GeneratedAt.
type ReportFilters struct {
	ReportType   models.ReportType
	Jurisdiction string
	Status       models.ReportStatus
	From         *time.Time
	To           *time.Time
}

// FilingFilters narrows a filing listing. Zero values mean "any".
type FilingFilters struct {
	FilingType models.FilingType
	Status     models.FilingStatus
	From       *time.Time
	To         *time.Time
}

// Store persists the four compliance collections. Implementations must
// preserve the listing contracts: reports and filings newest-first,
// active alerts in insertion order (the alert service applies the
// severity ordering on top).
type Store interface {
	CreateReport(report *models.ComplianceReport) error
	GetReport(id uuid.UUID) (*models.ComplianceReport, error)
	UpdateReport(report *models.ComplianceReport) error
	ListReports(filters ReportFilters) ([]models.ComplianceReport, error)
	CountReports() (int64, error)
	CountReportsByStatus(status models.ReportStatus) (int64, error)

	CreateFiling(filing *models.RegulatoryFiling) error
	GetFiling(id uuid.UUID) (*models.RegulatoryFiling, error)
	UpdateFiling(filing *models.RegulatoryFiling) error
	ListFilings(filters FilingFilters) ([]models.RegulatoryFiling, error)
	AddFilingAttachment(attachment *models.FilingAttachment) error

	CreateAlert(alert *models.ComplianceAlert) error
	GetAlert(id uuid.UUID) (*models.ComplianceAlert, error)
	UpdateAlert(alert *models.ComplianceAlert) error
	ListAlertsByStatus(status models.AlertStatus) ([]models.ComplianceAlert, error)
	CountAlertsByStatus(status models.AlertStatus) (int64, error)

	CreateSchedule(schedule *models.ComplianceSchedule) error
	GetSchedule(id uuid.UUID) (*models.ComplianceSchedule, error)
	UpdateSchedule(schedule *models.ComplianceSchedule) error
	ListSchedules() ([]models.ComplianceSchedule, error)
	CountSchedules() (int64, error)
	CountSchedulesDueBefore(cutoff time.Time) (int64, error)
}
