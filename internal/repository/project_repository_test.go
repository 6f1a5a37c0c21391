package repository

import (
	"context"
	"os"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nurpe/carbon-valuation/internal/config"
	"github.com/nurpe/carbon-valuation/internal/db"
	"github.com/nurpe/carbon-valuation/internal/training"
)

var _ training.RowSource = (*ProjectRepository)(nil)

// Runs against a disposable database named by TEST_DB_DSN.
func TestListProjectRows(t *testing.T) {
	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	cfg := &config.Config{
		Environment: "test",
		DB:          config.DBConfig{DSN: dsn, MaxOpenConns: 2, MaxIdleConns: 1, ConnMaxLifetime: "1m"},
	}
	database, err := db.New(cfg, zerolog.Nop())
	require.NoError(t, err)

	tx := database.Begin()
	t.Cleanup(func() { tx.Rollback() })

	require.NoError(t, tx.Exec(`
		INSERT INTO carbon_projects (project_type, area, location, estimated_carbon_capture, start_date, end_date)
		VALUES ('solar farm', 120.5, 'Great Plains, USA', 2410, '2021-03-01', NULL)
	`).Error)

	repo := NewProjectRepository(tx)
	count, err := repo.CountProjects(context.Background())
	require.NoError(t, err)

	rows, err := repo.ListProjectRows(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, int(count))

	last := rows[len(rows)-1]
	assert.Equal(t, "solar farm", last.ProjectType)
	assert.Equal(t, 120.5, *last.Area)
	assert.Equal(t, "2021-03-01", last.StartDate)
	assert.Equal(t, "", last.EndDate)
	assert.Nil(t, last.ActualCarbonCapture)
	assert.Nil(t, last.CreditValue)
}
