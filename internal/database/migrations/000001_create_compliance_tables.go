package migrations

import (
	"github.com/go-gormigrate/gormigrate/v2"
	"gorm.io/gorm"
)

// CreateComplianceTables creates the four compliance collections and
// the filing attachments table
func CreateComplianceTables() *gormigrate.Migration {
	return &gormigrate.Migration{
		ID: "000001_create_compliance_tables",
		Migrate: func(tx *gorm.DB) error {
			if err := tx.Exec(`
				CREATE EXTENSION IF NOT EXISTS "uuid-ossp";

				CREATE TABLE IF NOT EXISTS compliance_reports (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					reference VARCHAR(64) NOT NULL UNIQUE,
					report_type VARCHAR(64) NOT NULL,
					jurisdiction VARCHAR(128),
					period_start TIMESTAMP WITH TIME ZONE NOT NULL,
					period_end TIMESTAMP WITH TIME ZONE NOT NULL,
					status VARCHAR(32) NOT NULL DEFAULT 'draft',
					data JSONB,
					generated_at TIMESTAMP WITH TIME ZONE NOT NULL,
					submitted_at TIMESTAMP WITH TIME ZONE,
					accepted_at TIMESTAMP WITH TIME ZONE,
					rejected_at TIMESTAMP WITH TIME ZONE,
					created_by VARCHAR(128),
					approved_by VARCHAR(128),
					rejection_reason TEXT,
					metadata JSONB,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_compliance_reports_report_type ON compliance_reports(report_type);
				CREATE INDEX idx_compliance_reports_jurisdiction ON compliance_reports(jurisdiction);
				CREATE INDEX idx_compliance_reports_status ON compliance_reports(status);
				CREATE INDEX idx_compliance_reports_generated_at ON compliance_reports(generated_at);
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS regulatory_filings (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					reference VARCHAR(64) NOT NULL UNIQUE,
					filing_type VARCHAR(64) NOT NULL,
					reference_number VARCHAR(128),
					status VARCHAR(32) NOT NULL DEFAULT 'preparing',
					submission_date TIMESTAMP WITH TIME ZONE,
					acceptance_date TIMESTAMP WITH TIME ZONE,
					rejection_date TIMESTAMP WITH TIME ZONE,
					data JSONB,
					submitted_by VARCHAR(128),
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_regulatory_filings_filing_type ON regulatory_filings(filing_type);
				CREATE INDEX idx_regulatory_filings_status ON regulatory_filings(status);

				CREATE TABLE IF NOT EXISTS filing_attachments (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					filing_id UUID NOT NULL REFERENCES regulatory_filings(id),
					filename VARCHAR(255) NOT NULL,
					url TEXT,
					uploaded_at TIMESTAMP WITH TIME ZONE,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_filing_attachments_filing_id ON filing_attachments(filing_id);
			`).Error; err != nil {
				return err
			}

			if err := tx.Exec(`
				CREATE TABLE IF NOT EXISTS compliance_alerts (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					reference VARCHAR(64) NOT NULL UNIQUE,
					alert_type VARCHAR(64) NOT NULL,
					severity VARCHAR(16) NOT NULL,
					customer_id VARCHAR(128),
					transaction_id VARCHAR(128),
					description TEXT,
					details JSONB,
					status VARCHAR(32) NOT NULL DEFAULT 'active',
					assigned_to VARCHAR(128),
					resolved_at TIMESTAMP WITH TIME ZONE,
					resolved_by VARCHAR(128),
					resolution_note TEXT,
					follow_up_actions JSONB,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_compliance_alerts_alert_type ON compliance_alerts(alert_type);
				CREATE INDEX idx_compliance_alerts_severity ON compliance_alerts(severity);
				CREATE INDEX idx_compliance_alerts_status ON compliance_alerts(status);
				CREATE INDEX idx_compliance_alerts_customer_id ON compliance_alerts(customer_id);
			`).Error; err != nil {
				return err
			}

			return tx.Exec(`
				CREATE TABLE IF NOT EXISTS compliance_schedules (
					id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
					reference VARCHAR(64) NOT NULL UNIQUE,
					report_type VARCHAR(64) NOT NULL,
					jurisdiction VARCHAR(128),
					frequency VARCHAR(16) NOT NULL,
					due_day INTEGER,
					due_time VARCHAR(8),
					auto_generate BOOLEAN DEFAULT TRUE,
					auto_submit BOOLEAN DEFAULT FALSE,
					notify_days_before JSONB,
					last_generated TIMESTAMP WITH TIME ZONE,
					next_due TIMESTAMP WITH TIME ZONE NOT NULL,
					created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
					deleted_at TIMESTAMP WITH TIME ZONE
				);

				CREATE INDEX idx_compliance_schedules_report_type ON compliance_schedules(report_type);
				CREATE INDEX idx_compliance_schedules_next_due ON compliance_schedules(next_due);
			`).Error
		},
		Rollback: func(tx *gorm.DB) error {
			return tx.Exec(`
				DROP TABLE IF EXISTS compliance_schedules;
				DROP TABLE IF EXISTS compliance_alerts;
				DROP TABLE IF EXISTS filing_attachments;
				DROP TABLE IF EXISTS regulatory_filings;
				DROP TABLE IF EXISTS compliance_reports;
			`).Error
		},
	}
}
