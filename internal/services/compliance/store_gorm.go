package compliance

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fire22/compliance-backend/internal/models"
)

// GormStore is the database-backed Store implementation
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new database-backed store
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateReport stores a new compliance report
func (s *GormStore) CreateReport(report *models.ComplianceReport) error {
	if err := s.db.Create(report).Error; err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	return nil
}

// GetReport retrieves a report by id
func (s *GormStore) GetReport(id uuid.UUID) (*models.ComplianceReport, error) {
	var report models.ComplianceReport
	if err := s.db.First(&report, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get report: %w", err)
	}
	return &report, nil
}

// UpdateReport persists changes to a report
func (s *GormStore) UpdateReport(report *models.ComplianceReport) error {
	if err := s.db.Save(report).Error; err != nil {
		return fmt.Errorf("failed to update report: %w", err)
	}
	return nil
}

// ListReports returns reports matching the filters, newest-first by
// generation time
func (s *GormStore) ListReports(filters ReportFilters) ([]models.ComplianceReport, error) {
	query := s.db.Model(&models.ComplianceReport{})

	if filters.ReportType != "" {
		query = query.Where("report_type = ?", filters.ReportType)
	}
	if filters.Jurisdiction != "" {
		query = query.Where("jurisdiction = ?", filters.Jurisdiction)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.From != nil {
		query = query.Where("generated_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("generated_at <= ?", *filters.To)
	}

	var reports []models.ComplianceReport
	if err := query.Order("generated_at DESC").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

// CountReports returns the total number of reports
func (s *GormStore) CountReports() (int64, error) {
	var count int64
	if err := s.db.Model(&models.ComplianceReport{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports: %w", err)
	}
	return count, nil
}

// CountReportsByStatus returns the number of reports in a given status
func (s *GormStore) CountReportsByStatus(status models.ReportStatus) (int64, error) {
	var count int64
	if err := s.db.Model(&models.ComplianceReport{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count reports by status: %w", err)
	}
	return count, nil
}

// CreateFiling stores a new regulatory filing
func (s *GormStore) CreateFiling(filing *models.RegulatoryFiling) error {
	if err := s.db.Create(filing).Error; err != nil {
		return fmt.Errorf("failed to create filing: %w", err)
	}
	return nil
}

// GetFiling retrieves a filing by id, with attachments
func (s *GormStore) GetFiling(id uuid.UUID) (*models.RegulatoryFiling, error) {
	var filing models.RegulatoryFiling
	if err := s.db.Preload("Attachments").First(&filing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get filing: %w", err)
	}
	return &filing, nil
}

// UpdateFiling persists changes to a filing
func (s *GormStore) UpdateFiling(filing *models.RegulatoryFiling) error {
	if err := s.db.Save(filing).Error; err != nil {
		return fmt.Errorf("failed to update filing: %w", err)
	}
	return nil
}

// ListFilings returns filings matching the filters, newest-first by
// creation time
func (s *GormStore) ListFilings(filters FilingFilters) ([]models.RegulatoryFiling, error) {
	query := s.db.Model(&models.RegulatoryFiling{})

	if filters.FilingType != "" {
		query = query.Where("filing_type = ?", filters.FilingType)
	}
	if filters.Status != "" {
		query = query.Where("status = ?", filters.Status)
	}
	if filters.From != nil {
		query = query.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		query = query.Where("created_at <= ?", *filters.To)
	}

	var filings []models.RegulatoryFiling
	if err := query.Preload("Attachments").Order("created_at DESC").Find(&filings).Error; err != nil {
		return nil, fmt.Errorf("failed to list filings: %w", err)
	}
	return filings, nil
}

// AddFilingAttachment stores a supporting document for a filing
func (s *GormStore) AddFilingAttachment(attachment *models.FilingAttachment) error {
	if err := s.db.Create(attachment).Error; err != nil {
		return fmt.Errorf("failed to add filing attachment: %w", err)
	}
	return nil
}

// CreateAlert stores a new compliance alert
func (s *GormStore) CreateAlert(alert *models.ComplianceAlert) error {
	if err := s.db.Create(alert).Error; err != nil {
		return fmt.Errorf("failed to create alert: %w", err)
	}
	return nil
}

// GetAlert retrieves an alert by id
func (s *GormStore) GetAlert(id uuid.UUID) (*models.ComplianceAlert, error) {
	var alert models.ComplianceAlert
	if err := s.db.First(&alert, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get alert: %w", err)
	}
	return &alert, nil
}

// UpdateAlert persists changes to an alert
func (s *GormStore) UpdateAlert(alert *models.ComplianceAlert) error {
	if err := s.db.Save(alert).Error; err != nil {
		return fmt.Errorf("failed to update alert: %w", err)
	}
	return nil
}

// ListAlertsByStatus returns alerts in a status, oldest-first so the
// severity sort applied above it is stable on insertion order
func (s *GormStore) ListAlertsByStatus(status models.AlertStatus) ([]models.ComplianceAlert, error) {
	var alerts []models.ComplianceAlert
	if err := s.db.Where("status = ?", status).Order("created_at ASC").Find(&alerts).Error; err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// CountAlertsByStatus returns the number of alerts in a given status
func (s *GormStore) CountAlertsByStatus(status models.AlertStatus) (int64, error) {
	var count int64
	if err := s.db.Model(&models.ComplianceAlert{}).Where("status = ?", status).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count alerts: %w", err)
	}
	return count, nil
}

// CreateSchedule stores a new compliance schedule
func (s *GormStore) CreateSchedule(schedule *models.ComplianceSchedule) error {
	if err := s.db.Create(schedule).Error; err != nil {
		return fmt.Errorf("failed to create schedule: %w", err)
	}
	return nil
}

// GetSchedule retrieves a schedule by id
func (s *GormStore) GetSchedule(id uuid.UUID) (*models.ComplianceSchedule, error) {
	var schedule models.ComplianceSchedule
	if err := s.db.First(&schedule, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

// UpdateSchedule persists changes to a schedule
func (s *GormStore) UpdateSchedule(schedule *models.ComplianceSchedule) error {
	if err := s.db.Save(schedule).Error; err != nil {
		return fmt.Errorf("failed to update schedule: %w", err)
	}
	return nil
}

// ListSchedules returns all schedules, oldest-first
func (s *GormStore) ListSchedules() ([]models.ComplianceSchedule, error) {
	var schedules []models.ComplianceSchedule
	if err := s.db.Order("created_at ASC").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// CountSchedules returns the total number of schedules
func (s *GormStore) CountSchedules() (int64, error) {
	var count int64
	if err := s.db.Model(&models.ComplianceSchedule{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count schedules: %w", err)
	}
	return count, nil
}

// CountSchedulesDueBefore returns the number of schedules whose next
// due date falls before the cutoff
func (s *GormStore) CountSchedulesDueBefore(cutoff time.Time) (int64, error) {
	var count int64
	if err := s.db.Model(&models.ComplianceSchedule{}).Where("next_due < ?", cutoff).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count due schedules: %w", err)
	}
	return count, nil
}
