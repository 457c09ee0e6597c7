package compliance

import (
	"context"
	"fmt"
	"log"

	"github.com/fire22/compliance-backend/internal/config"
	"github.com/fire22/compliance-backend/internal/models"
)

// Compliance flags pushed by the threshold and pattern checks
const (
	FlagAMLThresholdBreach = "aml_threshold_breach"

	PatternLargeWithdrawal          = "large_withdrawal"
	PatternInternationalTransaction = "international_transaction"
)

// suspiciousPatternFloor is the amount above which a withdrawal is
// treated as a suspicious pattern, independent of the AML threshold
const suspiciousPatternFloor = 10000

// CheckResult is the outcome of a transaction compliance check.
//
// Compliant derives from Flags alone. PEP and sanctions matches raise
// alerts but push no flag, so a transaction can come back compliant
// with a critical alert attached. Downstream consumers key off that
// asymmetry; see DESIGN.md before changing it.
type CheckResult struct {
	Compliant bool                     `json:"compliant"`
	Alerts    []models.ComplianceAlert `json:"alerts"`
	Flags     []string                 `json:"flags"`
}

// TransactionChecker evaluates single transactions against the
// configured thresholds and screening collaborators, raising alerts as
// a side effect.
type TransactionChecker struct {
	cfg       config.ComplianceConfig
	alerts    *AlertService
	pep       PEPLookup
	sanctions SanctionsLookup
}

// NewTransactionChecker creates a new transaction checker
func NewTransactionChecker(cfg config.ComplianceConfig, alerts *AlertService, pep PEPLookup, sanctions SanctionsLookup) *TransactionChecker {
	return &TransactionChecker{
		cfg:       cfg,
		alerts:    alerts,
		pep:       pep,
		sanctions: sanctions,
	}
}

// CheckTransaction runs the four independent checks: AML threshold,
// suspicious patterns, PEP screening, and sanctions screening. Each is
// gated by its own configuration. Screening lookup errors fail the
// check call; raised alerts are never rolled back.
func (c *TransactionChecker) CheckTransaction(ctx context.Context, customerID, transactionID string, amount float64, transactionType string, metadata models.JSON) (*CheckResult, error) {
	result := &CheckResult{
		Alerts: []models.ComplianceAlert{},
		Flags:  []string{},
	}

	// AML threshold: flag only, no alert.
	if c.cfg.EnableAMLThresholdCheck && amount >= c.cfg.AMLThresholdAmount {
		result.Flags = append(result.Flags, FlagAMLThresholdBreach)
	}

	// Suspicious pattern heuristics bundle into a single medium alert.
	if c.cfg.EnableSuspiciousPatterns {
		var patterns []string
		if amount > suspiciousPatternFloor && transactionType == "withdrawal" {
			patterns = append(patterns, PatternLargeWithdrawal)
		}
		if country := metadataCountry(metadata); country != "" && country != "US" {
			patterns = append(patterns, PatternInternationalTransaction)
		}
		if len(patterns) > 0 {
			result.Flags = append(result.Flags, patterns...)
			alert, err := c.alerts.CreateAlert(CreateAlertInput{
				AlertType:     models.AlertTypeSuspiciousTransaction,
				Severity:      models.SeverityMedium,
				Description:   fmt.Sprintf("Suspicious transaction patterns detected: %v", patterns),
				Details:       models.JSON{"patterns": patterns, "amount": amount, "transaction_type": transactionType},
				CustomerID:    customerID,
				TransactionID: transactionID,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to raise suspicious transaction alert: %w", err)
			}
			result.Alerts = append(result.Alerts, *alert)
		}
	}

	checkCtx, cancel := context.WithTimeout(ctx, c.cfg.CollaboratorTimeout)
	defer cancel()

	if c.cfg.EnablePEPScreening {
		match, err := c.pep.Check(checkCtx, customerID)
		if err != nil {
			return nil, fmt.Errorf("PEP screening failed: %w", err)
		}
		if match != nil {
			alert, err := c.alerts.CreateAlert(CreateAlertInput{
				AlertType:     models.AlertTypePEPMatch,
				Severity:      models.SeverityHigh,
				Description:   fmt.Sprintf("Customer matched PEP list %s", match.ListName),
				Details:       matchDetails(match),
				CustomerID:    customerID,
				TransactionID: transactionID,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to raise PEP alert: %w", err)
			}
			result.Alerts = append(result.Alerts, *alert)
		}
	}

	if c.cfg.EnableSanctionsScreening {
		match, err := c.sanctions.Check(checkCtx, customerID)
		if err != nil {
			return nil, fmt.Errorf("sanctions screening failed: %w", err)
		}
		if match != nil {
			alert, err := c.alerts.CreateAlert(CreateAlertInput{
				AlertType:     models.AlertTypeSanctionsMatch,
				Severity:      models.SeverityCritical,
				Description:   fmt.Sprintf("Customer matched sanctions list %s", match.ListName),
				Details:       matchDetails(match),
				CustomerID:    customerID,
				TransactionID: transactionID,
			})
			if err != nil {
				return nil, fmt.Errorf("failed to raise sanctions alert: %w", err)
			}
			result.Alerts = append(result.Alerts, *alert)
		}
	}

	result.Compliant = len(result.Flags) == 0
	if !result.Compliant || len(result.Alerts) > 0 {
		log.Printf("Transaction %s for customer %s: compliant=%t flags=%v alerts=%d",
			transactionID, customerID, result.Compliant, result.Flags, len(result.Alerts))
	}
	return result, nil
}

// metadataCountry digs the transaction's origin country out of the
// metadata bag, tolerating missing levels
func metadataCountry(metadata models.JSON) string {
	if metadata == nil {
		return ""
	}
	location, ok := metadata["location"].(map[string]interface{})
	if !ok {
		return ""
	}
	country, _ := location["country"].(string)
	return country
}

func matchDetails(match *MatchDetails) models.JSON {
	details := models.JSON{
		"list_name":  match.ListName,
		"matched_as": match.MatchedAs,
		"score":      match.Score,
	}
	if match.Details != nil {
		details["details"] = map[string]interface{}(match.Details)
	}
	return details
}
