package models

import (
	"time"
)

// ScheduleFrequency controls how often a schedule recurs
type ScheduleFrequency string

const (
	FrequencyDaily     ScheduleFrequency = "daily"
	FrequencyWeekly    ScheduleFrequency = "weekly"
	FrequencyMonthly   ScheduleFrequency = "monthly"
	FrequencyQuarterly ScheduleFrequency = "quarterly"
	FrequencyAnnual    ScheduleFrequency = "annual"
)

// ComplianceSchedule is a recurring obligation to produce a report type
// for a jurisdiction. DueDay semantics depend on frequency: day-of-week
// (0=Sunday) for weekly, day-of-month for monthly/quarterly/annual,
// ignored for daily. DueTime is "HH:MM" in 24-hour local time.
type ComplianceSchedule struct {
	Base
	Reference        string            `gorm:"uniqueIndex;not null" json:"reference"`
	ReportType       ReportType        `gorm:"index;not null" json:"report_type"`
	Jurisdiction     string            `json:"jurisdiction"`
	Frequency        ScheduleFrequency `gorm:"not null" json:"frequency"`
	DueDay           int               `json:"due_day"`
	DueTime          string            `json:"due_time"`
	AutoGenerate     bool              `gorm:"default:true" json:"auto_generate"`
	AutoSubmit       bool              `gorm:"default:false" json:"auto_submit"`
	NotifyDaysBefore IntSlice          `gorm:"type:jsonb" json:"notify_days_before"`
	LastGenerated    *time.Time        `json:"last_generated,omitempty"`
	NextDue          time.Time         `gorm:"index" json:"next_due"`
}
