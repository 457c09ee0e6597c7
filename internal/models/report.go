package models

import (
	"time"
)

// ReportType identifies the regulatory report category
type ReportType string

const (
	ReportTypeSuspiciousActivity    ReportType = "suspicious_activity"
	ReportTypeCurrencyTransaction   ReportType = "currency_transaction"
	ReportTypeSuspiciousTransaction ReportType = "suspicious_transaction"
	ReportTypeCrossBorder           ReportType = "cross_border_transaction"
	ReportTypeAML                   ReportType = "aml"
	ReportTypeAudit                 ReportType = "audit"
	ReportTypeTransactionMonitoring ReportType = "transaction_monitoring"
)

// ReportTypes lists every supported report type
var ReportTypes = []ReportType{
	ReportTypeSuspiciousActivity,
	ReportTypeCurrencyTransaction,
	ReportTypeSuspiciousTransaction,
	ReportTypeCrossBorder,
	ReportTypeAML,
	ReportTypeAudit,
	ReportTypeTransactionMonitoring,
}

// Valid reports whether t is a known report type
func (t ReportType) Valid() bool {
	for _, known := range ReportTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ReportStatus tracks a report through its lifecycle
type ReportStatus string

const (
	ReportStatusDraft     ReportStatus = "draft"
	ReportStatusReview    ReportStatus = "review"
	ReportStatusApproved  ReportStatus = "approved"
	ReportStatusSubmitted ReportStatus = "submitted"
	ReportStatusAccepted  ReportStatus = "accepted"
	ReportStatusRejected  ReportStatus = "rejected"
)

// ComplianceReport is a generated regulatory document. Reports are
// append-only: they are never deleted, only transitioned.
type ComplianceReport struct {
	Base
	Reference       string       `gorm:"uniqueIndex;not null" json:"reference"`
	ReportType      ReportType   `gorm:"index;not null" json:"report_type"`
	Jurisdiction    string       `gorm:"index" json:"jurisdiction"`
	PeriodStart     time.Time    `json:"period_start"`
	PeriodEnd       time.Time    `json:"period_end"`
	Status          ReportStatus `gorm:"index;default:'draft'" json:"status"`
	Data            JSON         `gorm:"type:jsonb" json:"data"`
	GeneratedAt     time.Time    `json:"generated_at"`
	SubmittedAt     *time.Time   `json:"submitted_at,omitempty"`
	AcceptedAt      *time.Time   `json:"accepted_at,omitempty"`
	RejectedAt      *time.Time   `json:"rejected_at,omitempty"`
	CreatedBy       string       `json:"created_by"`
	ApprovedBy      string       `json:"approved_by,omitempty"`
	RejectionReason string       `json:"rejection_reason,omitempty"`
	Metadata        JSON         `gorm:"type:jsonb" json:"metadata"`
}
