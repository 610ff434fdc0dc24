package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS "pgcrypto";`,
	`DO $$
	BEGIN
		IF NOT EXISTS (SELECT 1 FROM pg_type WHERE typname = 'work_type') THEN
			CREATE TYPE work_type AS ENUM ('ordinary', 'on_call', 'extraordinary');
		END IF;
	END
	$$;`,
	`CREATE TABLE IF NOT EXISTS reports (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		technician_name VARCHAR(128) NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		report_date DATE NOT NULL,
		work_type work_type NOT NULL DEFAULT 'ordinary',
		intervention_hours NUMERIC(6,2) NOT NULL CHECK (intervention_hours >= 0),
		travel_hours NUMERIC(6,2) NOT NULL DEFAULT 0 CHECK (travel_hours >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS report_photos (
		report_id UUID NOT NULL REFERENCES reports(id) ON DELETE CASCADE,
		position INT NOT NULL,
		content BYTEA NOT NULL,
		PRIMARY KEY (report_id, position)
	);`,
	`CREATE TABLE IF NOT EXISTS day_flags (
		report_date DATE PRIMARY KEY,
		closed BOOLEAN NOT NULL DEFAULT FALSE,
		sent BOOLEAN NOT NULL DEFAULT FALSE
	);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_technician_date ON reports (technician_name, report_date);`,
	`CREATE INDEX IF NOT EXISTS idx_reports_date ON reports (report_date);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
