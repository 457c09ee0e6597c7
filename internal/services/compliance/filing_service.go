package compliance

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/fire22/compliance-backend/internal/models"
	"github.com/fire22/compliance-backend/internal/utils"
)

// FilingService owns regulatory filings: it prepares the submission
// package and sends it through the regulator gateway.
type FilingService struct {
	store          Store
	preparer       FilingPreparer
	gateway        RegulatorGateway
	gatewayTimeout time.Duration
}

// NewFilingService creates a new filing service
func NewFilingService(store Store, preparer FilingPreparer, gateway RegulatorGateway, gatewayTimeout time.Duration) *FilingService {
	return &FilingService{
		store:          store,
		preparer:       preparer,
		gateway:        gateway,
		gatewayTimeout: gatewayTimeout,
	}
}

// SubmitFiling creates a filing in preparing state, runs the per-type
// preparer, then submits through the gateway. A gateway failure leaves
// the filing parked in preparing with no retry; the caller decides
// whether to resubmit.
func (s *FilingService) SubmitFiling(ctx context.Context, filingType models.FilingType, data models.JSON, submittedBy string) (*models.RegulatoryFiling, error) {
	now := time.Now()
	filing := &models.RegulatoryFiling{
		Reference:   utils.GenerateReference(utils.FilingPrefix),
		FilingType:  filingType,
		Status:      models.FilingStatusPreparing,
		Data:        data,
		SubmittedBy: submittedBy,
	}
	filing.CreatedAt = now
	filing.UpdatedAt = now

	if err := s.store.CreateFiling(filing); err != nil {
		return nil, fmt.Errorf("failed to create filing: %w", err)
	}

	submitCtx, cancel := context.WithTimeout(ctx, s.gatewayTimeout)
	defer cancel()

	if err := s.preparer.Prepare(submitCtx, filing); err != nil {
		return nil, fmt.Errorf("failed to prepare %s filing %s: %w", filingType, filing.Reference, err)
	}

	if err := s.gateway.Submit(submitCtx, filing); err != nil {
		return nil, fmt.Errorf("failed to submit %s filing %s: %w", filingType, filing.Reference, err)
	}

	submittedAt := time.Now()
	filing.Status = models.FilingStatusSubmitted
	filing.SubmissionDate = &submittedAt
	filing.UpdatedAt = submittedAt

	if err := s.store.UpdateFiling(filing); err != nil {
		return nil, fmt.Errorf("failed to record filing submission: %w", err)
	}

	log.Printf("Submitted %s filing %s", filing.FilingType, filing.Reference)
	return filing, nil
}

// RecordRegulatorResponse applies the regulator's verdict to a
// submitted filing. referenceNumber is the regulator-assigned case id.
func (s *FilingService) RecordRegulatorResponse(filingID uuid.UUID, status models.FilingStatus, referenceNumber string) error {
	switch status {
	case models.FilingStatusAccepted, models.FilingStatusRejected, models.FilingStatusUnderReview:
	default:
		return fmt.Errorf("invalid regulator response status %q", status)
	}

	filing, err := s.store.GetFiling(filingID)
	if err != nil {
		return err
	}

	now := time.Now()
	filing.Status = status
	filing.ReferenceNumber = referenceNumber
	// At most one terminal date may be set; a verdict reversal clears
	// the opposite one.
	switch status {
	case models.FilingStatusAccepted:
		filing.AcceptanceDate = &now
		filing.RejectionDate = nil
	case models.FilingStatusRejected:
		filing.RejectionDate = &now
		filing.AcceptanceDate = nil
	}
	filing.UpdatedAt = now

	if err := s.store.UpdateFiling(filing); err != nil {
		return fmt.Errorf("failed to record regulator response: %w", err)
	}
	return nil
}

// AddAttachment attaches a supporting document to a filing
func (s *FilingService) AddAttachment(filingID uuid.UUID, filename, url string) (*models.FilingAttachment, error) {
	if _, err := s.store.GetFiling(filingID); err != nil {
		return nil, err
	}

	attachment := &models.FilingAttachment{
		FilingID:   filingID,
		Filename:   filename,
		URL:        url,
		UploadedAt: time.Now(),
	}
	if err := s.store.AddFilingAttachment(attachment); err != nil {
		return nil, fmt.Errorf("failed to add attachment: %w", err)
	}
	return attachment, nil
}

// GetFilings returns filings matching the filters, newest-first
func (s *FilingService) GetFilings(filters FilingFilters) ([]models.RegulatoryFiling, error) {
	return s.store.ListFilings(filters)
}
