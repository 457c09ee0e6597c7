package compliance

import (
	"context"
	"log"
	"time"

	"github.com/fire22/compliance-backend/internal/models"
)

// DataGatherer collects the structured payload for one report type.
// Implementations may call external systems and should honor ctx.
type DataGatherer interface {
	Gather(ctx context.Context, jurisdiction string, periodStart, periodEnd time.Time) (models.JSON, error)
}

// FilingPreparer performs type-specific formatting and validation of a
// filing payload before submission
type FilingPreparer interface {
	Prepare(ctx context.Context, filing *models.RegulatoryFiling) error
}

// RegulatorGateway submits a prepared filing to the external regulator
type RegulatorGateway interface {
	Submit(ctx context.Context, filing *models.RegulatoryFiling) error
}

// MatchDetails describes a screening hit
type MatchDetails struct {
	ListName  string      `json:"list_name"`
	MatchedAs string      `json:"matched_as"`
	Score     float64     `json:"score"`
	Details   models.JSON `json:"details,omitempty"`
}

// PEPLookup screens a customer against politically-exposed-person lists.
// A nil result means no match.
type PEPLookup interface {
	Check(ctx context.Context, customerID string) (*MatchDetails, error)
}

// SanctionsLookup screens a customer against sanctions lists.
// A nil result means no match.
type SanctionsLookup interface {
	Check(ctx context.Context, customerID string) (*MatchDetails, error)
}

// Notification is what the Notifier delivers: either an alert raised or
// an upcoming-schedule notice.
type Notification struct {
	Kind      string      `json:"kind"` // "alert" or "schedule_due"
	Subject   string      `json:"subject"`
	Body      string      `json:"body"`
	Severity  string      `json:"severity,omitempty"`
	Reference string      `json:"reference,omitempty"`
	Payload   models.JSON `json:"payload,omitempty"`
}

// Notifier delivers notifications. Calls are fire-and-forget: failures
// are logged by implementations, never returned to the caller.
type Notifier interface {
	Notify(notification Notification)
}

// LogNotifier writes notifications to the process log. It is the
// default Notifier for development and tests.
type LogNotifier struct{}

// Notify implements Notifier
func (LogNotifier) Notify(n Notification) {
	log.Printf("notification [%s] %s: %s", n.Kind, n.Subject, n.Body)
}

// NoopPreparer is a FilingPreparer that accepts every payload unchanged
type NoopPreparer struct{}

// Prepare implements FilingPreparer
func (NoopPreparer) Prepare(ctx context.Context, filing *models.RegulatoryFiling) error {
	return nil
}

// LogGateway is a RegulatorGateway that records the submission in the
// process log and reports success. Real regulator integrations replace
// it per filing type.
type LogGateway struct{}

// Submit implements RegulatorGateway
func (LogGateway) Submit(ctx context.Context, filing *models.RegulatoryFiling) error {
	log.Printf("submitting %s filing %s to regulator", filing.FilingType, filing.Reference)
	return nil
}
