package compliance

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/fire22/compliance-backend/internal/models"
)

// ParseDueTime parses an "HH:MM" due time into hour and minute.
// Invalid input falls back to midnight.
func ParseDueTime(dueTime string) (hour, minute int) {
	parts := strings.SplitN(dueTime, ":", 2)
	if len(parts) != 2 {
		return 0, 0
	}
	h, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, 0
	}
	return h, m
}

// NextDueDate computes the next due timestamp for a schedule given the
// current time. Seconds and sub-seconds are always zeroed.
//
// Weekly schedules due today resolve to today even when dueTime has
// already passed, so the result can land in the past. The scheduler
// fires such schedules on its next tick and then rolls forward to the
// following occurrence rather than recomputing through this function
// alone.
//
// Monthly and quarterly due days beyond the days in the target month
// roll into the following month per standard date normalization.
func NextDueDate(frequency models.ScheduleFrequency, dueDay int, dueTime string, now time.Time) time.Time {
	hour, minute := ParseDueTime(dueTime)
	loc := now.Location()

	switch frequency {
	case models.FrequencyDaily:
		return time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
	case models.FrequencyWeekly:
		daysAhead := (dueDay - int(now.Weekday()) + 7) % 7
		return time.Date(now.Year(), now.Month(), now.Day()+daysAhead, hour, minute, 0, 0, loc)
	case models.FrequencyMonthly:
		return time.Date(now.Year(), now.Month()+1, dueDay, hour, minute, 0, 0, loc)
	case models.FrequencyQuarterly:
		quarter := (int(now.Month()) - 1) / 3
		firstMonthOfNextQuarter := time.Month(quarter*3 + 4)
		return time.Date(now.Year(), firstMonthOfNextQuarter, dueDay, hour, minute, 0, 0, loc)
	case models.FrequencyAnnual:
		return time.Date(now.Year()+1, time.January, dueDay, hour, minute, 0, 0, loc)
	default:
		// Unknown frequencies behave like daily so a misconfigured
		// schedule keeps advancing instead of firing forever.
		return time.Date(now.Year(), now.Month(), now.Day()+1, hour, minute, 0, 0, loc)
	}
}

// ReportingPeriod computes the inclusive reporting window a report
// generated now should cover.
//
// Quarterly and annual schedules fall back to a trailing 30-day window
// ending now. That fallback is load-bearing: downstream consumers key
// off it, so it stays instead of a derived quarter boundary.
func ReportingPeriod(frequency models.ScheduleFrequency, now time.Time) (start, end time.Time) {
	loc := now.Location()

	switch frequency {
	case models.FrequencyDaily:
		yesterday := now.AddDate(0, 0, -1)
		start = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, loc)
		end = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, loc)
		return start, end
	case models.FrequencyWeekly:
		// Trailing seven full days, ending yesterday.
		weekAgo := now.AddDate(0, 0, -7)
		yesterday := now.AddDate(0, 0, -1)
		start = time.Date(weekAgo.Year(), weekAgo.Month(), weekAgo.Day(), 0, 0, 0, 0, loc)
		end = time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 23, 59, 59, 0, loc)
		return start, end
	case models.FrequencyMonthly:
		firstOfThisMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		start = firstOfThisMonth.AddDate(0, -1, 0)
		end = firstOfThisMonth.Add(-time.Second)
		return start, end
	default:
		return now.AddDate(0, 0, -30), now
	}
}

// SameDate reports whether two timestamps fall on the same calendar day
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// FormatPeriod renders a reporting period for log lines and references
func FormatPeriod(start, end time.Time) string {
	return fmt.Sprintf("%s..%s", start.Format("2006-01-02"), end.Format("2006-01-02"))
}
