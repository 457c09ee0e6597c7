package compliance

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fire22/compliance-backend/internal/models"
)

// MemoryStore is an in-memory Store for tests and local development.
// It mirrors the listing contracts of GormStore.
type MemoryStore struct {
	mu        sync.RWMutex
	reports   []*models.ComplianceReport
	filings   []*models.RegulatoryFiling
	alerts    []*models.ComplianceAlert
	schedules []*models.ComplianceSchedule
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func ensureID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

// CreateReport stores a new compliance report
func (s *MemoryStore) CreateReport(report *models.ComplianceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&report.ID)
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now()
	}
	copied := *report
	s.reports = append(s.reports, &copied)
	return nil
}

// GetReport retrieves a report by id
func (s *MemoryStore) GetReport(id uuid.UUID) (*models.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.reports {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateReport persists changes to a report
func (s *MemoryStore) UpdateReport(report *models.ComplianceReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.reports {
		if r.ID == report.ID {
			copied := *report
			s.reports[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

// ListReports returns reports matching the filters, newest-first by
// generation time
func (s *MemoryStore) ListReports(filters ReportFilters) ([]models.ComplianceReport, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.ComplianceReport
	for _, r := range s.reports {
		if filters.ReportType != "" && r.ReportType != filters.ReportType {
			continue
		}
		if filters.Jurisdiction != "" && r.Jurisdiction != filters.Jurisdiction {
			continue
		}
		if filters.Status != "" && r.Status != filters.Status {
			continue
		}
		if filters.From != nil && r.GeneratedAt.Before(*filters.From) {
			continue
		}
		if filters.To != nil && r.GeneratedAt.After(*filters.To) {
			continue
		}
		out = append(out, *r)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out, nil
}

// CountReports returns the total number of reports
func (s *MemoryStore) CountReports() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.reports)), nil
}

// CountReportsByStatus returns the number of reports in a given status
func (s *MemoryStore) CountReportsByStatus(status models.ReportStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, r := range s.reports {
		if r.Status == status {
			count++
		}
	}
	return count, nil
}

// CreateFiling stores a new regulatory filing
func (s *MemoryStore) CreateFiling(filing *models.RegulatoryFiling) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&filing.ID)
	if filing.CreatedAt.IsZero() {
		filing.CreatedAt = time.Now()
	}
	copied := *filing
	s.filings = append(s.filings, &copied)
	return nil
}

// GetFiling retrieves a filing by id
func (s *MemoryStore) GetFiling(id uuid.UUID) (*models.RegulatoryFiling, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, f := range s.filings {
		if f.ID == id {
			copied := *f
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateFiling persists changes to a filing
func (s *MemoryStore) UpdateFiling(filing *models.RegulatoryFiling) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.filings {
		if f.ID == filing.ID {
			copied := *filing
			s.filings[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

// ListFilings returns filings matching the filters, newest-first by
// creation time
func (s *MemoryStore) ListFilings(filters FilingFilters) ([]models.RegulatoryFiling, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RegulatoryFiling
	for _, f := range s.filings {
		if filters.FilingType != "" && f.FilingType != filters.FilingType {
			continue
		}
		if filters.Status != "" && f.Status != filters.Status {
			continue
		}
		if filters.From != nil && f.CreatedAt.Before(*filters.From) {
			continue
		}
		if filters.To != nil && f.CreatedAt.After(*filters.To) {
			continue
		}
		out = append(out, *f)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// AddFilingAttachment stores a supporting document for a filing
func (s *MemoryStore) AddFilingAttachment(attachment *models.FilingAttachment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&attachment.ID)
	for i, f := range s.filings {
		if f.ID == attachment.FilingID {
			s.filings[i].Attachments = append(s.filings[i].Attachments, *attachment)
			return nil
		}
	}
	return ErrNotFound
}

// CreateAlert stores a new compliance alert
func (s *MemoryStore) CreateAlert(alert *models.ComplianceAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&alert.ID)
	if alert.CreatedAt.IsZero() {
		alert.CreatedAt = time.Now()
	}
	copied := *alert
	s.alerts = append(s.alerts, &copied)
	return nil
}

// GetAlert retrieves an alert by id
func (s *MemoryStore) GetAlert(id uuid.UUID) (*models.ComplianceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.alerts {
		if a.ID == id {
			copied := *a
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateAlert persists changes to an alert
func (s *MemoryStore) UpdateAlert(alert *models.ComplianceAlert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, a := range s.alerts {
		if a.ID == alert.ID {
			copied := *alert
			s.alerts[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

// ListAlertsByStatus returns alerts in a status in insertion order
func (s *MemoryStore) ListAlertsByStatus(status models.AlertStatus) ([]models.ComplianceAlert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.ComplianceAlert
	for _, a := range s.alerts {
		if a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

// CountAlertsByStatus returns the number of alerts in a given status
func (s *MemoryStore) CountAlertsByStatus(status models.AlertStatus) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, a := range s.alerts {
		if a.Status == status {
			count++
		}
	}
	return count, nil
}

// CreateSchedule stores a new compliance schedule
func (s *MemoryStore) CreateSchedule(schedule *models.ComplianceSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	ensureID(&schedule.ID)
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now()
	}
	copied := *schedule
	s.schedules = append(s.schedules, &copied)
	return nil
}

// GetSchedule retrieves a schedule by id
func (s *MemoryStore) GetSchedule(id uuid.UUID) (*models.ComplianceSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sc := range s.schedules {
		if sc.ID == id {
			copied := *sc
			return &copied, nil
		}
	}
	return nil, ErrNotFound
}

// UpdateSchedule persists changes to a schedule
func (s *MemoryStore) UpdateSchedule(schedule *models.ComplianceSchedule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sc := range s.schedules {
		if sc.ID == schedule.ID {
			copied := *schedule
			s.schedules[i] = &copied
			return nil
		}
	}
	return ErrNotFound
}

// ListSchedules returns all schedules in insertion order
func (s *MemoryStore) ListSchedules() ([]models.ComplianceSchedule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ComplianceSchedule, 0, len(s.schedules))
	for _, sc := range s.schedules {
		out = append(out, *sc)
	}
	return out, nil
}

// CountSchedules returns the total number of schedules
func (s *MemoryStore) CountSchedules() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.schedules)), nil
}

// CountSchedulesDueBefore returns the number of schedules whose next
// due date falls before the cutoff
func (s *MemoryStore) CountSchedulesDueBefore(cutoff time.Time) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var count int64
	for _, sc := range s.schedules {
		if sc.NextDue.Before(cutoff) {
			count++
		}
	}
	return count, nil
}
