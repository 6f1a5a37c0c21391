package db

import (
	"fmt"

	"gorm.io/gorm"
)

var migrationStatements = []string{
	`CREATE TABLE IF NOT EXISTS carbon_projects (
		id BIGSERIAL PRIMARY KEY,
		project_type TEXT NOT NULL DEFAULT '',
		area DOUBLE PRECISION,
		location TEXT NOT NULL DEFAULT '',
		estimated_carbon_capture DOUBLE PRECISION,
		actual_carbon_capture DOUBLE PRECISION,
		start_date DATE,
		end_date DATE,
		duration_years DOUBLE PRECISION,
		credit_value DOUBLE PRECISION,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_carbon_projects_project_type ON carbon_projects (project_type);`,
}

func runMigrations(db *gorm.DB) error {
	for i, stmt := range migrationStatements {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}
	return nil
}
