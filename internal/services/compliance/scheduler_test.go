package compliance

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fire22/compliance-backend/internal/models"
)

func newSchedulerFixture(gatherers GathererRegistry) (*ScheduleService, *MemoryStore, *recorderNotifier) {
	store := NewMemoryStore()
	notifier := &recorderNotifier{}
	if gatherers == nil {
		gatherers = DefaultGatherers(store, "")
	}
	reports := NewReportService(store, gatherers, 5*time.Second)
	filings := NewFilingService(store, NoopPreparer{}, LogGateway{}, 5*time.Second)
	service := NewScheduleService(store, reports, filings, notifier)
	return service, store, notifier
}

func TestCreateScheduleComputesNextDue(t *testing.T) {
	service, _, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeAML,
		Jurisdiction: "US",
		Frequency:    models.FrequencyMonthly,
		DueDay:       15,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)

	assert.Equal(t, 15, schedule.NextDue.Day())
	assert.Equal(t, 9, schedule.NextDue.Hour())
	assert.Equal(t, 0, schedule.NextDue.Minute())
	assert.True(t, schedule.NextDue.After(time.Now()))
	assert.Contains(t, schedule.Reference, "sch_")
}

func TestCreateScheduleUnknownReportType(t *testing.T) {
	service, _, _ := newSchedulerFixture(nil)

	_, err := service.CreateSchedule(CreateScheduleInput{
		ReportType: "espionage",
		Frequency:  models.FrequencyMonthly,
		DueDay:     1,
		DueTime:    "09:00",
	})
	assert.Error(t, err)
}

func TestInitializeSchedules(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	require.NoError(t, service.InitializeSchedules("US"))

	schedules, err := store.ListSchedules()
	require.NoError(t, err)
	require.Len(t, schedules, 3)

	byType := make(map[models.ReportType]models.ComplianceSchedule)
	for _, s := range schedules {
		byType[s.ReportType] = s
	}

	aml := byType[models.ReportTypeAML]
	assert.Equal(t, models.FrequencyMonthly, aml.Frequency)
	assert.Equal(t, 15, aml.DueDay)

	ctr := byType[models.ReportTypeCurrencyTransaction]
	assert.Equal(t, models.FrequencyMonthly, ctr.Frequency)
	assert.Equal(t, 25, ctr.DueDay)

	monitoring := byType[models.ReportTypeTransactionMonitoring]
	assert.Equal(t, models.FrequencyWeekly, monitoring.Frequency)
	assert.Equal(t, 1, monitoring.DueDay)
}

func TestInitializeSchedulesIdempotent(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	require.NoError(t, service.InitializeSchedules("US"))
	require.NoError(t, service.InitializeSchedules("US"))

	count, err := store.CountSchedules()
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestRunDueSchedulesFires(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeTransactionMonitoring,
		Jurisdiction: "US",
		Frequency:    models.FrequencyWeekly,
		DueDay:       1,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)

	tick := schedule.NextDue.Add(5 * time.Minute)
	service.RunDueSchedules(context.Background(), tick)

	reports, err := store.ListReports(ReportFilters{ReportType: models.ReportTypeTransactionMonitoring})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, SystemIdentity, reports[0].CreatedBy)
	assert.Equal(t, "US", reports[0].Jurisdiction)

	updated, err := store.GetSchedule(schedule.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastGenerated)
	assert.Equal(t, tick, *updated.LastGenerated)
	assert.True(t, updated.NextDue.After(tick))
}

func TestRunDueSchedulesWeeklyNoSameDayRefire(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeTransactionMonitoring,
		Jurisdiction: "US",
		Frequency:    models.FrequencyWeekly,
		DueDay:       1,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)

	// Fire on the due weekday shortly after the due time, then keep
	// ticking hourly for the rest of the day. The schedule must fire
	// exactly once and come out due the following week, not at today's
	// already-past due time.
	firstTick := schedule.NextDue.Add(5 * time.Minute)
	service.RunDueSchedules(context.Background(), firstTick)
	for i := 1; i <= 5; i++ {
		service.RunDueSchedules(context.Background(), firstTick.Add(time.Duration(i)*time.Hour))
	}

	reports, err := store.ListReports(ReportFilters{ReportType: models.ReportTypeTransactionMonitoring})
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	updated, err := store.GetSchedule(schedule.ID)
	require.NoError(t, err)
	assert.True(t, updated.NextDue.After(firstTick))
	assert.True(t, SameDate(updated.NextDue, schedule.NextDue.AddDate(0, 0, 7)))
	assert.Equal(t, 9, updated.NextDue.Hour())
}

func TestRunDueSchedulesNotYetDue(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeAML,
		Jurisdiction: "US",
		Frequency:    models.FrequencyMonthly,
		DueDay:       15,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)

	service.RunDueSchedules(context.Background(), schedule.NextDue.Add(-time.Hour))

	count, err := store.CountReports()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestRunDueSchedulesSkipsManualSchedules(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeAML,
		Jurisdiction: "US",
		Frequency:    models.FrequencyMonthly,
		DueDay:       15,
		DueTime:      "09:00",
		AutoGenerate: false,
	})
	require.NoError(t, err)

	service.RunDueSchedules(context.Background(), schedule.NextDue.Add(time.Hour))

	count, err := store.CountReports()
	require.NoError(t, err)
	assert.Zero(t, count)

	// A skipped schedule is not rolled forward either; its next-due
	// goes stale by design.
	updated, err := store.GetSchedule(schedule.ID)
	require.NoError(t, err)
	assert.Equal(t, schedule.NextDue, updated.NextDue)
	assert.Nil(t, updated.LastGenerated)
}

func TestRunDueSchedulesIsolatesFailures(t *testing.T) {
	store := NewMemoryStore()
	notifier := &recorderNotifier{}
	gatherers := DefaultGatherers(store, "")
	gatherers[models.ReportTypeAML] = GathererFunc(func(ctx context.Context, jurisdiction string, start, end time.Time) (models.JSON, error) {
		return nil, errors.New("aml source down")
	})
	reports := NewReportService(store, gatherers, 5*time.Second)
	filings := NewFilingService(store, NoopPreparer{}, LogGateway{}, 5*time.Second)
	service := NewScheduleService(store, reports, filings, notifier)

	amlSchedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeAML,
		Jurisdiction: "US",
		Frequency:    models.FrequencyMonthly,
		DueDay:       15,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)
	monitoringSchedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeTransactionMonitoring,
		Jurisdiction: "US",
		Frequency:    models.FrequencyWeekly,
		DueDay:       1,
		DueTime:      "09:00",
		AutoGenerate: true,
	})
	require.NoError(t, err)

	// Far enough ahead that both schedules are due.
	tick := amlSchedule.NextDue.AddDate(0, 2, 0)
	service.RunDueSchedules(context.Background(), tick)

	// The broken AML schedule produced nothing and stays due for the
	// next tick.
	amlReports, err := store.ListReports(ReportFilters{ReportType: models.ReportTypeAML})
	require.NoError(t, err)
	assert.Empty(t, amlReports)

	updatedAML, err := store.GetSchedule(amlSchedule.ID)
	require.NoError(t, err)
	assert.Equal(t, amlSchedule.NextDue, updatedAML.NextDue)

	// The healthy schedule fired regardless.
	monitoringReports, err := store.ListReports(ReportFilters{ReportType: models.ReportTypeTransactionMonitoring})
	require.NoError(t, err)
	assert.Len(t, monitoringReports, 1)

	updatedMonitoring, err := store.GetSchedule(monitoringSchedule.ID)
	require.NoError(t, err)
	assert.True(t, updatedMonitoring.NextDue.After(tick))
}

func TestRunDueSchedulesAutoSubmit(t *testing.T) {
	service, store, _ := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:   models.ReportTypeAML,
		Jurisdiction: "US",
		Frequency:    models.FrequencyMonthly,
		DueDay:       15,
		DueTime:      "09:00",
		AutoGenerate: true,
		AutoSubmit:   true,
	})
	require.NoError(t, err)

	service.RunDueSchedules(context.Background(), schedule.NextDue.Add(time.Minute))

	filings, err := store.ListFilings(FilingFilters{FilingType: models.FilingTypeAMLReport})
	require.NoError(t, err)
	require.Len(t, filings, 1)
	assert.Equal(t, models.FilingStatusSubmitted, filings[0].Status)
	assert.Equal(t, SystemIdentity, filings[0].SubmittedBy)

	reports, err := store.ListReports(ReportFilters{ReportType: models.ReportTypeAML})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, models.ReportStatusSubmitted, reports[0].Status)
	require.NotNil(t, reports[0].SubmittedAt)
}

func TestRunDueSchedulesPreDueNotification(t *testing.T) {
	service, _, notifier := newSchedulerFixture(nil)

	schedule, err := service.CreateSchedule(CreateScheduleInput{
		ReportType:       models.ReportTypeAML,
		Jurisdiction:     "US",
		Frequency:        models.FrequencyMonthly,
		DueDay:           15,
		DueTime:          "09:00",
		AutoGenerate:     true,
		NotifyDaysBefore: []int{3},
	})
	require.NoError(t, err)

	// Three days ahead of due, same calendar date as the offset.
	service.RunDueSchedules(context.Background(), schedule.NextDue.AddDate(0, 0, -3))

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, "schedule_due", notifications[0].Kind)
	assert.Equal(t, schedule.Reference, notifications[0].Reference)

	// A day with no matching offset sends nothing: matching is exact,
	// not at-or-after.
	service.RunDueSchedules(context.Background(), schedule.NextDue.AddDate(0, 0, -5))
	assert.Len(t, notifier.all(), 1)
}

func TestGetStatsEmpty(t *testing.T) {
	store := NewMemoryStore()

	stats, err := GetStats(store, time.Now())
	require.NoError(t, err)

	assert.Zero(t, stats.TotalReports)
	assert.Equal(t, 100.0, stats.ComplianceRate)
}

func TestGetStats(t *testing.T) {
	store := NewMemoryStore()
	now := time.Now()

	for i := 0; i < 4; i++ {
		status := models.ReportStatusDraft
		if i < 2 {
			status = models.ReportStatusSubmitted
		}
		require.NoError(t, store.CreateReport(&models.ComplianceReport{
			Reference:   fmt.Sprintf("rpt_test_%d", i),
			ReportType:  models.ReportTypeAML,
			Status:      status,
			GeneratedAt: now,
		}))
	}

	require.NoError(t, store.CreateAlert(&models.ComplianceAlert{
		AlertType: models.AlertTypeThresholdBreach,
		Severity:  models.SeverityLow,
		Status:    models.AlertStatusActive,
	}))

	require.NoError(t, store.CreateSchedule(&models.ComplianceSchedule{
		ReportType: models.ReportTypeAML,
		Frequency:  models.FrequencyMonthly,
		NextDue:    now.AddDate(0, 0, 10),
	}))
	require.NoError(t, store.CreateSchedule(&models.ComplianceSchedule{
		ReportType: models.ReportTypeAudit,
		Frequency:  models.FrequencyAnnual,
		NextDue:    now.AddDate(0, 6, 0),
	}))

	stats, err := GetStats(store, now)
	require.NoError(t, err)

	assert.Equal(t, int64(4), stats.TotalReports)
	assert.Equal(t, int64(2), stats.SubmittedReports)
	assert.Equal(t, 50.0, stats.ComplianceRate)
	assert.Equal(t, int64(1), stats.ActiveAlerts)
	assert.Equal(t, int64(2), stats.Schedules)
	assert.Equal(t, int64(1), stats.SchedulesDueIn30Days)
}
