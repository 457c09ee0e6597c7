package models

import (
	"time"

	"github.com/google/uuid"
)

// FilingType identifies the regulator submission package format
type FilingType string

const (
	FilingTypeFincenSAR          FilingType = "fincen_sar"
	FilingTypeFincenCTR          FilingType = "fincen_ctr"
	FilingTypeEUMiFIR            FilingType = "eu_mifir"
	FilingTypeAMLReport          FilingType = "aml_report"
	FilingTypeSuspiciousActivity FilingType = "suspicious_activity"
)

// FilingStatus tracks a filing through submission
type FilingStatus string

const (
	FilingStatusPreparing   FilingStatus = "preparing"
	FilingStatusSubmitted   FilingStatus = "submitted"
	FilingStatusAccepted    FilingStatus = "accepted"
	FilingStatusRejected    FilingStatus = "rejected"
	FilingStatusUnderReview FilingStatus = "under_review"
)

// RegulatoryFiling is a submission package sent to an external regulator.
// ReferenceNumber is regulator-assigned and only meaningful once the
// filing has left the preparing state.
type RegulatoryFiling struct {
	Base
	Reference       string             `gorm:"uniqueIndex;not null" json:"reference"`
	FilingType      FilingType         `gorm:"index;not null" json:"filing_type"`
	ReferenceNumber string             `json:"reference_number,omitempty"`
	Status          FilingStatus       `gorm:"index;default:'preparing'" json:"status"`
	SubmissionDate  *time.Time         `json:"submission_date,omitempty"`
	AcceptanceDate  *time.Time         `json:"acceptance_date,omitempty"`
	RejectionDate   *time.Time         `json:"rejection_date,omitempty"`
	Data            JSON               `gorm:"type:jsonb" json:"data"`
	SubmittedBy     string             `json:"submitted_by"`
	Attachments     []FilingAttachment `gorm:"foreignKey:FilingID" json:"attachments,omitempty"`
}

// FilingAttachment is a supporting document attached to a filing
type FilingAttachment struct {
	Base
	FilingID   uuid.UUID `gorm:"type:uuid;index;not null" json:"filing_id"`
	Filename   string    `gorm:"not null" json:"filename"`
	URL        string    `json:"url"`
	UploadedAt time.Time `json:"uploaded_at"`
}
