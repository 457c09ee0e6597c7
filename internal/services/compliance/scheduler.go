package compliance

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/fire22/compliance-backend/internal/models"
	"github.com/fire22/compliance-backend/internal/utils"
)

// filingTypeFor maps a report type to the filing package a regulator
// expects for it. Types without an entry never auto-submit.
var filingTypeFor = map[models.ReportType]models.FilingType{
	models.ReportTypeAML:                   models.FilingTypeAMLReport,
	models.ReportTypeSuspiciousActivity:    models.FilingTypeFincenSAR,
	models.ReportTypeCurrencyTransaction:   models.FilingTypeFincenCTR,
	models.ReportTypeCrossBorder:           models.FilingTypeEUMiFIR,
	models.ReportTypeSuspiciousTransaction: models.FilingTypeSuspiciousActivity,
}

// ScheduleService owns the recurring report schedules and the periodic
// due-check tick. The mutex serializes the tick against direct API
// mutations: the collections assume a single writer, and concurrent
// ticks must never interleave.
type ScheduleService struct {
	mu       sync.Mutex
	store    Store
	reports  *ReportService
	filings  *FilingService
	notifier Notifier
}

// NewScheduleService creates a new schedule service
func NewScheduleService(store Store, reports *ReportService, filings *FilingService, notifier Notifier) *ScheduleService {
	return &ScheduleService{
		store:    store,
		reports:  reports,
		filings:  filings,
		notifier: notifier,
	}
}

// CreateScheduleInput describes a new recurring obligation
type CreateScheduleInput struct {
	ReportType       models.ReportType
	Jurisdiction     string
	Frequency        models.ScheduleFrequency
	DueDay           int
	DueTime          string
	AutoGenerate     bool
	AutoSubmit       bool
	NotifyDaysBefore []int
}

// CreateSchedule stores a schedule with its initial next-due timestamp
func (s *ScheduleService) CreateSchedule(input CreateScheduleInput) (*models.ComplianceSchedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.createScheduleLocked(input, time.Now())
}

func (s *ScheduleService) createScheduleLocked(input CreateScheduleInput, now time.Time) (*models.ComplianceSchedule, error) {
	if !input.ReportType.Valid() {
		return nil, fmt.Errorf("unknown report type %q", input.ReportType)
	}

	schedule := &models.ComplianceSchedule{
		Reference:        utils.GenerateReference(utils.SchedulePrefix),
		ReportType:       input.ReportType,
		Jurisdiction:     input.Jurisdiction,
		Frequency:        input.Frequency,
		DueDay:           input.DueDay,
		DueTime:          input.DueTime,
		AutoGenerate:     input.AutoGenerate,
		AutoSubmit:       input.AutoSubmit,
		NotifyDaysBefore: models.IntSlice(input.NotifyDaysBefore),
		NextDue:          NextDueDate(input.Frequency, input.DueDay, input.DueTime, now),
	}
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	if err := s.store.CreateSchedule(schedule); err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}

	log.Printf("Created %s schedule %s, next due %s", schedule.Frequency, schedule.Reference, schedule.NextDue.Format(time.RFC3339))
	return schedule, nil
}

// InitializeSchedules seeds the fixed default schedules at process
// start. Already-seeded report types are left alone so restarts do not
// duplicate them.
func (s *ScheduleService) InitializeSchedules(jurisdiction string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	defaults := []CreateScheduleInput{
		{
			ReportType:       models.ReportTypeAML,
			Jurisdiction:     jurisdiction,
			Frequency:        models.FrequencyMonthly,
			DueDay:           15,
			DueTime:          "09:00",
			AutoGenerate:     true,
			NotifyDaysBefore: []int{7, 3, 1},
		},
		{
			ReportType:       models.ReportTypeCurrencyTransaction,
			Jurisdiction:     jurisdiction,
			Frequency:        models.FrequencyMonthly,
			DueDay:           25,
			DueTime:          "09:00",
			AutoGenerate:     true,
			NotifyDaysBefore: []int{7, 3, 1},
		},
		{
			ReportType:       models.ReportTypeTransactionMonitoring,
			Jurisdiction:     jurisdiction,
			Frequency:        models.FrequencyWeekly,
			DueDay:           1,
			DueTime:          "09:00",
			AutoGenerate:     true,
			NotifyDaysBefore: []int{1},
		},
	}

	existing, err := s.store.ListSchedules()
	if err != nil {
		return fmt.Errorf("failed to list schedules: %w", err)
	}
	seeded := make(map[models.ReportType]bool, len(existing))
	for _, sc := range existing {
		seeded[sc.ReportType] = true
	}

	now := time.Now()
	for _, input := range defaults {
		if seeded[input.ReportType] {
			continue
		}
		if _, err := s.createScheduleLocked(input, now); err != nil {
			return err
		}
	}
	return nil
}

// GetSchedules returns all schedules
func (s *ScheduleService) GetSchedules() ([]models.ComplianceSchedule, error) {
	return s.store.ListSchedules()
}

// RunDueSchedules is one scheduler tick. For every schedule it sends
// any exact-date pre-due notifications, then fires the schedule if due:
// generate the report, optionally auto-submit the matching filing, and
// roll the schedule forward. A failure in one schedule is logged and
// never blocks the rest of the tick.
func (s *ScheduleService) RunDueSchedules(ctx context.Context, now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules, err := s.store.ListSchedules()
	if err != nil {
		log.Printf("Scheduler tick: failed to list schedules: %v", err)
		return
	}

	for i := range schedules {
		schedule := schedules[i]
		s.sendPreDueNotifications(&schedule, now)

		if now.Before(schedule.NextDue) {
			continue
		}
		// Schedules with auto-generate off are skipped entirely, stale
		// next-due included. Known operational gap; see DESIGN.md.
		if !schedule.AutoGenerate {
			continue
		}

		if err := s.fireSchedule(ctx, &schedule, now); err != nil {
			log.Printf("Scheduler tick: schedule %s failed: %v", schedule.Reference, err)
		}
	}
}

// sendPreDueNotifications sends a notice for each configured
// days-before offset whose date matches today exactly. A tick missed on
// the matching day skips that notice; there is no catch-up.
func (s *ScheduleService) sendPreDueNotifications(schedule *models.ComplianceSchedule, now time.Time) {
	for _, daysBefore := range schedule.NotifyDaysBefore {
		notifyDate := schedule.NextDue.AddDate(0, 0, -daysBefore)
		if !SameDate(now, notifyDate) {
			continue
		}
		s.notifier.Notify(Notification{
			Kind:      "schedule_due",
			Subject:   fmt.Sprintf("%s report due in %d day(s)", schedule.ReportType, daysBefore),
			Body:      fmt.Sprintf("Schedule %s (%s, %s) is due %s", schedule.Reference, schedule.ReportType, schedule.Jurisdiction, schedule.NextDue.Format(time.RFC3339)),
			Reference: schedule.Reference,
		})
	}
}

// fireSchedule generates the report for the schedule's period, submits
// the filing when auto-submit applies, and recomputes the next due date
func (s *ScheduleService) fireSchedule(ctx context.Context, schedule *models.ComplianceSchedule, now time.Time) error {
	periodStart, periodEnd := ReportingPeriod(schedule.Frequency, now)

	report, err := s.reports.GenerateReport(ctx, schedule.ReportType, schedule.Jurisdiction, periodStart, periodEnd, SystemIdentity)
	if err != nil {
		// The whole period retries on the next tick; nothing partial
		// is recorded.
		return fmt.Errorf("report generation failed: %w", err)
	}

	if schedule.AutoSubmit {
		if filingType, ok := filingTypeFor[schedule.ReportType]; ok {
			data := models.JSON{
				"report_reference": report.Reference,
				"report_type":      string(report.ReportType),
				"jurisdiction":     report.Jurisdiction,
				"period_start":     periodStart.Format(time.RFC3339),
				"period_end":       periodEnd.Format(time.RFC3339),
				"data":             map[string]interface{}(report.Data),
			}
			if _, err := s.filings.SubmitFiling(ctx, filingType, data, SystemIdentity); err != nil {
				log.Printf("Auto-submit for schedule %s failed: %v", schedule.Reference, err)
			} else if err := s.reports.MarkReportSubmitted(report.ID); err != nil {
				log.Printf("Failed to mark report %s submitted: %v", report.Reference, err)
			}
		}
	}

	schedule.LastGenerated = &now
	next := NextDueDate(schedule.Frequency, schedule.DueDay, schedule.DueTime, now)
	if !next.After(now) {
		// A weekly schedule firing on its due weekday recomputes to
		// today's already-past due time. Step past it to the following
		// occurrence, otherwise every later tick today fires again.
		next = NextDueDate(schedule.Frequency, schedule.DueDay, schedule.DueTime, now.AddDate(0, 0, 1))
	}
	schedule.NextDue = next
	schedule.UpdatedAt = now

	if err := s.store.UpdateSchedule(schedule); err != nil {
		return fmt.Errorf("failed to roll schedule forward: %w", err)
	}

	log.Printf("Schedule %s fired: report %s, next due %s", schedule.Reference, report.Reference, schedule.NextDue.Format(time.RFC3339))
	return nil
}
