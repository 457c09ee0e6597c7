package compliance

import (
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/fire22/compliance-backend/internal/models"
	"github.com/fire22/compliance-backend/internal/utils"
)

// followUpActions maps severity to the ordered follow-up checklist
// attached to every new alert
var followUpActions = map[models.AlertSeverity][]string{
	models.SeverityCritical: {
		"Immediate investigation required",
		"Freeze related accounts",
		"Notify regulatory authorities",
	},
	models.SeverityHigh: {
		"Enhanced monitoring initiated",
		"Customer verification required",
		"Document all findings",
	},
	models.SeverityMedium: {
		"Monitor customer activity",
		"Review transaction history",
	},
	models.SeverityLow: {
		"Log for future reference",
	},
}

// AlertService creates and triages compliance alerts
type AlertService struct {
	store              Store
	notifier           Notifier
	escalationAssignee string
}

// NewAlertService creates a new alert service
func NewAlertService(store Store, notifier Notifier, escalationAssignee string) *AlertService {
	return &AlertService{
		store:              store,
		notifier:           notifier,
		escalationAssignee: escalationAssignee,
	}
}

// CreateAlertInput carries the optional identifiers for a new alert
type CreateAlertInput struct {
	AlertType     models.AlertType
	Severity      models.AlertSeverity
	Description   string
	Details       models.JSON
	CustomerID    string
	TransactionID string
}

// CreateAlert records a new alert, attaches the severity-derived
// follow-up actions, and dispatches a notification. Critical alerts are
// auto-assigned to the escalation assignee before they are stored.
func (s *AlertService) CreateAlert(input CreateAlertInput) (*models.ComplianceAlert, error) {
	alert := &models.ComplianceAlert{
		Reference:       utils.GenerateReference(utils.AlertPrefix),
		AlertType:       input.AlertType,
		Severity:        input.Severity,
		CustomerID:      input.CustomerID,
		TransactionID:   input.TransactionID,
		Description:     input.Description,
		Details:         input.Details,
		Status:          models.AlertStatusActive,
		FollowUpActions: followUpActions[input.Severity],
	}
	alert.CreatedAt = time.Now()
	alert.UpdatedAt = alert.CreatedAt

	if input.Severity == models.SeverityCritical {
		alert.AssignedTo = s.escalationAssignee
	}

	if err := s.store.CreateAlert(alert); err != nil {
		return nil, fmt.Errorf("failed to create alert: %w", err)
	}

	// Fire-and-forget: delivery is the notifier's problem, a failure
	// never fails the alert.
	s.notifier.Notify(Notification{
		Kind:      "alert",
		Subject:   fmt.Sprintf("Compliance alert: %s", alert.AlertType),
		Body:      alert.Description,
		Severity:  string(alert.Severity),
		Reference: alert.Reference,
		Payload:   alert.Details,
	})

	log.Printf("Created %s alert %s (severity %s)", alert.AlertType, alert.Reference, alert.Severity)
	return alert, nil
}

// GetActiveAlerts returns all active alerts ordered by severity
// descending, stable on insertion order within a severity
func (s *AlertService) GetActiveAlerts() ([]models.ComplianceAlert, error) {
	alerts, err := s.store.ListAlertsByStatus(models.AlertStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to get active alerts: %w", err)
	}
	sort.SliceStable(alerts, func(i, j int) bool {
		return alerts[i].Severity.Rank() > alerts[j].Severity.Rank()
	})
	return alerts, nil
}

// AssignAlert sets the assignee on an alert
func (s *AlertService) AssignAlert(alertID uuid.UUID, assignee string) error {
	alert, err := s.store.GetAlert(alertID)
	if err != nil {
		return err
	}

	alert.AssignedTo = assignee
	alert.Status = models.AlertStatusInvestigating
	alert.UpdatedAt = time.Now()

	if err := s.store.UpdateAlert(alert); err != nil {
		return fmt.Errorf("failed to assign alert: %w", err)
	}
	return nil
}

// ResolveAlert closes an alert with a resolution note. dismissed
// controls whether the alert ends resolved or dismissed.
func (s *AlertService) ResolveAlert(alertID uuid.UUID, resolvedBy, note string, dismissed bool) error {
	alert, err := s.store.GetAlert(alertID)
	if err != nil {
		return err
	}

	now := time.Now()
	if dismissed {
		alert.Status = models.AlertStatusDismissed
	} else {
		alert.Status = models.AlertStatusResolved
	}
	alert.ResolvedAt = &now
	alert.ResolvedBy = resolvedBy
	alert.ResolutionNote = note
	alert.UpdatedAt = now

	if err := s.store.UpdateAlert(alert); err != nil {
		return fmt.Errorf("failed to resolve alert: %w", err)
	}
	return nil
}
