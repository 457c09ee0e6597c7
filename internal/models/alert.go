package models

import (
	"time"
)

// AlertType classifies a compliance alert
type AlertType string

const (
	AlertTypeSuspiciousTransaction AlertType = "suspicious_transaction"
	AlertTypePEPMatch              AlertType = "pep_match"
	AlertTypeSanctionsMatch        AlertType = "sanctions_match"
	AlertTypeThresholdBreach       AlertType = "threshold_breach"
	AlertTypeComplianceViolation   AlertType = "compliance_violation"
)

// AlertSeverity is totally ordered: critical > high > medium > low
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Rank returns the numeric order of a severity for sorting and
// comparison. Unknown severities rank below low.
func (s AlertSeverity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// AlertStatus tracks alert triage
type AlertStatus string

const (
	AlertStatusActive        AlertStatus = "active"
	AlertStatusInvestigating AlertStatus = "investigating"
	AlertStatusResolved      AlertStatus = "resolved"
	AlertStatusDismissed     AlertStatus = "dismissed"
)

// ComplianceAlert is a flagged condition requiring follow-up. Alerts are
// never deleted; resolution closes them in place.
type ComplianceAlert struct {
	Base
	Reference       string        `gorm:"uniqueIndex;not null" json:"reference"`
	AlertType       AlertType     `gorm:"index;not null" json:"alert_type"`
	Severity        AlertSeverity `gorm:"index;not null" json:"severity"`
	CustomerID      string        `gorm:"index" json:"customer_id,omitempty"`
	TransactionID   string        `gorm:"index" json:"transaction_id,omitempty"`
	Description     string        `json:"description"`
	Details         JSON          `gorm:"type:jsonb" json:"details"`
	Status          AlertStatus   `gorm:"index;default:'active'" json:"status"`
	AssignedTo      string        `json:"assigned_to,omitempty"`
	ResolvedAt      *time.Time    `json:"resolved_at,omitempty"`
	ResolvedBy      string        `json:"resolved_by,omitempty"`
	ResolutionNote  string        `json:"resolution_note,omitempty"`
	FollowUpActions StringSlice   `gorm:"type:jsonb" json:"follow_up_actions"`
}
