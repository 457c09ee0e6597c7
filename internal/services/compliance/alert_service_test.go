package compliance

import (
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fire22/compliance-backend/internal/models"
)

// recorderNotifier captures dispatched notifications for assertions
type recorderNotifier struct {
	mu            sync.Mutex
	notifications []Notification
}

func (r *recorderNotifier) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
}

func (r *recorderNotifier) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.notifications...)
}

func newAlertFixture() (*AlertService, *MemoryStore, *recorderNotifier) {
	store := NewMemoryStore()
	notifier := &recorderNotifier{}
	return NewAlertService(store, notifier, "compliance_team"), store, notifier
}

func TestCreateAlertFollowUpActions(t *testing.T) {
	service, _, _ := newAlertFixture()

	tests := []struct {
		severity models.AlertSeverity
		actions  []string
	}{
		{models.SeverityCritical, []string{"Immediate investigation required", "Freeze related accounts", "Notify regulatory authorities"}},
		{models.SeverityHigh, []string{"Enhanced monitoring initiated", "Customer verification required", "Document all findings"}},
		{models.SeverityMedium, []string{"Monitor customer activity", "Review transaction history"}},
		{models.SeverityLow, []string{"Log for future reference"}},
	}

	for _, tt := range tests {
		alert, err := service.CreateAlert(CreateAlertInput{
			AlertType:   models.AlertTypeThresholdBreach,
			Severity:    tt.severity,
			Description: "test alert",
		})
		require.NoError(t, err)
		assert.Equal(t, models.StringSlice(tt.actions), alert.FollowUpActions, "severity %s", tt.severity)
	}
}

func TestCreateAlertCriticalAutoAssigned(t *testing.T) {
	service, _, _ := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypeSanctionsMatch,
		Severity:    models.SeverityCritical,
		Description: "sanctions hit",
	})
	require.NoError(t, err)

	assert.Equal(t, "compliance_team", alert.AssignedTo)
	assert.Equal(t, models.AlertStatusActive, alert.Status)
}

func TestCreateAlertNonCriticalUnassigned(t *testing.T) {
	service, _, _ := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypePEPMatch,
		Severity:    models.SeverityHigh,
		Description: "pep hit",
	})
	require.NoError(t, err)

	assert.Empty(t, alert.AssignedTo)
}

func TestCreateAlertDispatchesNotification(t *testing.T) {
	service, _, notifier := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypeSuspiciousTransaction,
		Severity:    models.SeverityMedium,
		Description: "odd pattern",
	})
	require.NoError(t, err)

	notifications := notifier.all()
	require.Len(t, notifications, 1)
	assert.Equal(t, "alert", notifications[0].Kind)
	assert.Equal(t, alert.Reference, notifications[0].Reference)
	assert.Equal(t, "medium", notifications[0].Severity)
}

func TestGetActiveAlertsSeverityOrder(t *testing.T) {
	service, _, _ := newAlertFixture()

	// Insert out of order, with two mediums to check stability.
	inputs := []struct {
		severity    models.AlertSeverity
		description string
	}{
		{models.SeverityLow, "low"},
		{models.SeverityMedium, "medium first"},
		{models.SeverityCritical, "critical"},
		{models.SeverityMedium, "medium second"},
		{models.SeverityHigh, "high"},
	}
	for _, input := range inputs {
		_, err := service.CreateAlert(CreateAlertInput{
			AlertType:   models.AlertTypeComplianceViolation,
			Severity:    input.severity,
			Description: input.description,
		})
		require.NoError(t, err)
	}

	alerts, err := service.GetActiveAlerts()
	require.NoError(t, err)
	require.Len(t, alerts, 5)

	assert.Equal(t, models.SeverityCritical, alerts[0].Severity)
	assert.Equal(t, models.SeverityHigh, alerts[1].Severity)
	assert.Equal(t, "medium first", alerts[2].Description)
	assert.Equal(t, "medium second", alerts[3].Description)
	assert.Equal(t, models.SeverityLow, alerts[4].Severity)
}

func TestAssignAlert(t *testing.T) {
	service, store, _ := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypePEPMatch,
		Severity:    models.SeverityHigh,
		Description: "pep hit",
	})
	require.NoError(t, err)

	require.NoError(t, service.AssignAlert(alert.ID, "analyst_1"))

	stored, err := store.GetAlert(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, "analyst_1", stored.AssignedTo)
	assert.Equal(t, models.AlertStatusInvestigating, stored.Status)
}

func TestAssignAlertUnknownID(t *testing.T) {
	service, _, _ := newAlertFixture()

	err := service.AssignAlert(uuid.New(), "analyst_1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAlert(t *testing.T) {
	service, store, _ := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypeThresholdBreach,
		Severity:    models.SeverityMedium,
		Description: "breach",
	})
	require.NoError(t, err)

	require.NoError(t, service.ResolveAlert(alert.ID, "analyst_2", "false positive", false))

	stored, err := store.GetAlert(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusResolved, stored.Status)
	assert.Equal(t, "analyst_2", stored.ResolvedBy)
	assert.Equal(t, "false positive", stored.ResolutionNote)
	require.NotNil(t, stored.ResolvedAt)

	// Resolved alerts drop out of the active listing.
	active, err := service.GetActiveAlerts()
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestDismissAlert(t *testing.T) {
	service, store, _ := newAlertFixture()

	alert, err := service.CreateAlert(CreateAlertInput{
		AlertType:   models.AlertTypeThresholdBreach,
		Severity:    models.SeverityLow,
		Description: "noise",
	})
	require.NoError(t, err)

	require.NoError(t, service.ResolveAlert(alert.ID, "analyst_2", "duplicate", true))

	stored, err := store.GetAlert(alert.ID)
	require.NoError(t, err)
	assert.Equal(t, models.AlertStatusDismissed, stored.Status)
}
