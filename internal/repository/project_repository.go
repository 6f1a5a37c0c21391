package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/nurpe/carbon-valuation/internal/model"
)

// ProjectRepository reads raw project rows that feed the training pipeline.
type ProjectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

func (r *ProjectRepository) ListProjectRows(ctx context.Context) ([]model.TrainingRow, error) {
	var rows []model.TrainingRow
	if err := r.db.WithContext(ctx).Raw(`
		SELECT
			project_type,
			area,
			location,
			estimated_carbon_capture,
			actual_carbon_capture,
			COALESCE(TO_CHAR(start_date, 'YYYY-MM-DD'), '') AS start_date,
			COALESCE(TO_CHAR(end_date, 'YYYY-MM-DD'), '') AS end_date,
			duration_years,
			credit_value
		FROM carbon_projects
		ORDER BY id ASC
	`).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *ProjectRepository) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Raw(`SELECT COUNT(*) FROM carbon_projects`).Scan(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
