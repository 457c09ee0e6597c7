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

// SystemIdentity is the creator/approver identity used for automated
// transitions
const SystemIdentity = "system"

// autoApprovable report types skip the human review step entirely
var autoApprovable = map[models.ReportType]bool{
	models.ReportTypeAudit:                 true,
	models.ReportTypeTransactionMonitoring: true,
}

// ReportService owns the compliance report lifecycle. Reports are
// append-only: draft, review, approved, submitted, then accepted or
// rejected.
type ReportService struct {
	store         Store
	gatherers     GathererRegistry
	gatherTimeout time.Duration
}

// NewReportService creates a new report service
func NewReportService(store Store, gatherers GathererRegistry, gatherTimeout time.Duration) *ReportService {
	return &ReportService{
		store:         store,
		gatherers:     gatherers,
		gatherTimeout: gatherTimeout,
	}
}

// GenerateReport gathers data for the period through the per-type
// gatherer and creates the report. Gathering failures propagate to the
// caller; no report is created and no retry is attempted here.
// Auto-approvable types come back already approved by the system.
func (s *ReportService) GenerateReport(ctx context.Context, reportType models.ReportType, jurisdiction string, periodStart, periodEnd time.Time, createdBy string) (*models.ComplianceReport, error) {
	if !reportType.Valid() {
		return nil, fmt.Errorf("unknown report type %q", reportType)
	}
	if periodEnd.Before(periodStart) {
		return nil, fmt.Errorf("reporting period end %s precedes start %s", periodEnd.Format(time.RFC3339), periodStart.Format(time.RFC3339))
	}

	gatherer, err := s.gatherers.Lookup(reportType)
	if err != nil {
		return nil, err
	}

	gatherCtx, cancel := context.WithTimeout(ctx, s.gatherTimeout)
	defer cancel()

	data, err := gatherer.Gather(gatherCtx, jurisdiction, periodStart, periodEnd)
	if err != nil {
		return nil, fmt.Errorf("data gathering failed for %s report: %w", reportType, err)
	}

	now := time.Now()
	report := &models.ComplianceReport{
		Reference:    utils.GenerateReference(utils.ReportPrefix),
		ReportType:   reportType,
		Jurisdiction: jurisdiction,
		PeriodStart:  periodStart,
		PeriodEnd:    periodEnd,
		Status:       models.ReportStatusDraft,
		Data:         data,
		GeneratedAt:  now,
		CreatedBy:    createdBy,
		Metadata:     models.JSON{},
	}
	report.CreatedAt = now
	report.UpdatedAt = now

	if autoApprovable[reportType] {
		report.Status = models.ReportStatusApproved
		report.ApprovedBy = SystemIdentity
		report.Metadata["approved_at"] = now.Format(time.RFC3339)
	}

	if err := s.store.CreateReport(report); err != nil {
		return nil, fmt.Errorf("failed to store report: %w", err)
	}

	log.Printf("Generated %s report %s for %s (%s)", report.ReportType, report.Reference, report.Jurisdiction, FormatPeriod(periodStart, periodEnd))
	return report, nil
}

// ApproveReport marks a report approved and records the approver. It
// does not validate the current status, so repeated or out-of-order
// calls simply re-stamp the approval.
func (s *ReportService) ApproveReport(reportID uuid.UUID, approvedBy string) error {
	report, err := s.store.GetReport(reportID)
	if err != nil {
		return err
	}

	now := time.Now()
	report.Status = models.ReportStatusApproved
	report.ApprovedBy = approvedBy
	if report.Metadata == nil {
		report.Metadata = models.JSON{}
	}
	report.Metadata["approved_at"] = now.Format(time.RFC3339)
	report.UpdatedAt = now

	if err := s.store.UpdateReport(report); err != nil {
		return fmt.Errorf("failed to approve report: %w", err)
	}
	return nil
}

// MarkReportSubmitted records that an approved report was sent out
func (s *ReportService) MarkReportSubmitted(reportID uuid.UUID) error {
	report, err := s.store.GetReport(reportID)
	if err != nil {
		return err
	}

	now := time.Now()
	report.Status = models.ReportStatusSubmitted
	report.SubmittedAt = &now
	report.UpdatedAt = now

	if err := s.store.UpdateReport(report); err != nil {
		return fmt.Errorf("failed to mark report submitted: %w", err)
	}
	return nil
}

// ResolveReport records the regulator's verdict on a submitted report.
// A rejection requires a reason.
func (s *ReportService) ResolveReport(reportID uuid.UUID, accepted bool, rejectionReason string) error {
	report, err := s.store.GetReport(reportID)
	if err != nil {
		return err
	}

	now := time.Now()
	if accepted {
		report.Status = models.ReportStatusAccepted
		report.AcceptedAt = &now
	} else {
		if rejectionReason == "" {
			return fmt.Errorf("rejection requires a reason")
		}
		report.Status = models.ReportStatusRejected
		report.RejectedAt = &now
		report.RejectionReason = rejectionReason
	}
	if report.SubmittedAt == nil {
		report.SubmittedAt = &now
	}
	report.UpdatedAt = now

	if err := s.store.UpdateReport(report); err != nil {
		return fmt.Errorf("failed to resolve report: %w", err)
	}
	return nil
}

// GetReports returns reports matching the filters, newest-first
func (s *ReportService) GetReports(filters ReportFilters) ([]models.ComplianceReport, error) {
	return s.store.ListReports(filters)
}
