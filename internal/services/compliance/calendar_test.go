package compliance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fire22/compliance-backend/internal/models"
)

func TestParseDueTime(t *testing.T) {
	hour, minute := ParseDueTime("09:30")
	assert.Equal(t, 9, hour)
	assert.Equal(t, 30, minute)

	hour, minute = ParseDueTime("23:59")
	assert.Equal(t, 23, hour)
	assert.Equal(t, 59, minute)

	// Invalid values fall back to midnight
	hour, minute = ParseDueTime("garbage")
	assert.Equal(t, 0, hour)
	assert.Equal(t, 0, minute)

	hour, minute = ParseDueTime("25:00")
	assert.Equal(t, 0, hour)
	assert.Equal(t, 0, minute)
}

func TestNextDueDateDaily(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 45, 0, time.UTC)
	next := NextDueDate(models.FrequencyDaily, 0, "09:00", now)

	assert.Equal(t, time.Date(2026, time.March, 11, 9, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))
}

func TestNextDueDateWeekly(t *testing.T) {
	// Wednesday, due Monday (1) at 09:00 -> following Monday
	wednesday := time.Date(2026, time.March, 11, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Wednesday, wednesday.Weekday())

	next := NextDueDate(models.FrequencyWeekly, 1, "09:00", wednesday)
	assert.Equal(t, time.Monday, next.Weekday())
	assert.Equal(t, time.Date(2026, time.March, 16, 9, 0, 0, 0, time.UTC), next)
}

func TestNextDueDateWeeklySameDayPastTime(t *testing.T) {
	// Monday 10:00, due Monday at 09:00: resolves to today, already in
	// the past. Documented edge; see the NextDueDate doc comment.
	monday := time.Date(2026, time.March, 9, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Monday, monday.Weekday())

	next := NextDueDate(models.FrequencyWeekly, 1, "09:00", monday)
	assert.Equal(t, time.Date(2026, time.March, 9, 9, 0, 0, 0, time.UTC), next)
	assert.True(t, next.Before(monday))
}

func TestNextDueDateMonthly(t *testing.T) {
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	next := NextDueDate(models.FrequencyMonthly, 15, "09:00", now)

	assert.Equal(t, time.Date(2026, time.April, 15, 9, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))
}

func TestNextDueDateMonthlyOverflow(t *testing.T) {
	// Due day 31 in a 30-day month rolls into the following month per
	// standard date normalization.
	now := time.Date(2026, time.March, 20, 12, 0, 0, 0, time.UTC)
	next := NextDueDate(models.FrequencyMonthly, 31, "09:00", now)

	assert.Equal(t, time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC), next)
}

func TestNextDueDateQuarterly(t *testing.T) {
	// February is in Q1; the next quarter starts in April.
	now := time.Date(2026, time.February, 10, 8, 0, 0, 0, time.UTC)
	next := NextDueDate(models.FrequencyQuarterly, 10, "12:00", now)

	assert.Equal(t, time.Date(2026, time.April, 10, 12, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))

	// Q4 rolls into January of the next year.
	now = time.Date(2026, time.November, 5, 8, 0, 0, 0, time.UTC)
	next = NextDueDate(models.FrequencyQuarterly, 10, "12:00", now)
	assert.Equal(t, time.Date(2027, time.January, 10, 12, 0, 0, 0, time.UTC), next)
}

func TestNextDueDateAnnual(t *testing.T) {
	now := time.Date(2026, time.June, 1, 0, 0, 0, 0, time.UTC)
	next := NextDueDate(models.FrequencyAnnual, 31, "09:00", now)

	assert.Equal(t, time.Date(2027, time.January, 31, 9, 0, 0, 0, time.UTC), next)
	assert.True(t, next.After(now))
}

func TestNextDueDateZeroesSeconds(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 30, 45, 999, time.UTC)
	for _, freq := range []models.ScheduleFrequency{
		models.FrequencyDaily,
		models.FrequencyWeekly,
		models.FrequencyMonthly,
		models.FrequencyQuarterly,
		models.FrequencyAnnual,
	} {
		next := NextDueDate(freq, 5, "10:15", now)
		assert.Equal(t, 10, next.Hour(), "frequency %s", freq)
		assert.Equal(t, 15, next.Minute(), "frequency %s", freq)
		assert.Equal(t, 0, next.Second(), "frequency %s", freq)
		assert.Equal(t, 0, next.Nanosecond(), "frequency %s", freq)
	}
}

func TestReportingPeriodDaily(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	start, end := ReportingPeriod(models.FrequencyDaily, now)

	assert.Equal(t, time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 9, 23, 59, 59, 0, time.UTC), end)
}

func TestReportingPeriodWeekly(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	start, end := ReportingPeriod(models.FrequencyWeekly, now)

	assert.Equal(t, time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.March, 9, 23, 59, 59, 0, time.UTC), end)
}

func TestReportingPeriodMonthly(t *testing.T) {
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)
	start, end := ReportingPeriod(models.FrequencyMonthly, now)

	assert.Equal(t, time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, time.February, 28, 23, 59, 59, 0, time.UTC), end)
}

func TestReportingPeriodFallback(t *testing.T) {
	// Quarterly and annual use the trailing-30-day window.
	now := time.Date(2026, time.March, 10, 14, 0, 0, 0, time.UTC)

	for _, freq := range []models.ScheduleFrequency{models.FrequencyQuarterly, models.FrequencyAnnual} {
		start, end := ReportingPeriod(freq, now)
		assert.Equal(t, now.AddDate(0, 0, -30), start, "frequency %s", freq)
		assert.Equal(t, now, end, "frequency %s", freq)
	}
}

func TestSameDate(t *testing.T) {
	a := time.Date(2026, time.March, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2026, time.March, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2026, time.March, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, SameDate(a, b))
	assert.False(t, SameDate(b, c))
}
