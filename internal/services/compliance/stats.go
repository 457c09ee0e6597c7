package compliance

import (
	"fmt"
	"time"

	"github.com/fire22/compliance-backend/internal/models"
)

// Stats is an operational snapshot of the compliance engine
type Stats struct {
	TotalReports         int64   `json:"total_reports"`
	SubmittedReports     int64   `json:"submitted_reports"`
	ActiveAlerts         int64   `json:"active_alerts"`
	Schedules            int64   `json:"schedules"`
	SchedulesDueIn30Days int64   `json:"schedules_due_in_30_days"`
	ComplianceRate       float64 `json:"compliance_rate"`
}

// GetStats computes the snapshot. ComplianceRate is the share of
// reports submitted, as a percentage; with no reports yet it reads 100.
func GetStats(store Store, now time.Time) (*Stats, error) {
	totalReports, err := store.CountReports()
	if err != nil {
		return nil, fmt.Errorf("failed to count reports: %w", err)
	}
	submitted, err := store.CountReportsByStatus(models.ReportStatusSubmitted)
	if err != nil {
		return nil, fmt.Errorf("failed to count submitted reports: %w", err)
	}
	activeAlerts, err := store.CountAlertsByStatus(models.AlertStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to count active alerts: %w", err)
	}
	schedules, err := store.CountSchedules()
	if err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}
	dueSoon, err := store.CountSchedulesDueBefore(now.AddDate(0, 0, 30))
	if err != nil {
		return nil, fmt.Errorf("failed to count due schedules: %w", err)
	}

	rate := 100.0
	if totalReports > 0 {
		rate = float64(submitted) / float64(totalReports) * 100
	}

	return &Stats{
		TotalReports:         totalReports,
		SubmittedReports:     submitted,
		ActiveAlerts:         activeAlerts,
		Schedules:            schedules,
		SchedulesDueIn30Days: dueSoon,
		ComplianceRate:       rate,
	}, nil
}
