package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
)

// DashboardRepository aggregates headline counts across tables.
type DashboardRepository struct {
	db *sqlx.DB
}

// NewDashboardRepository constructs the repository.
func NewDashboardRepository(db *sqlx.DB) *DashboardRepository {
	return &DashboardRepository{db: db}
}

// Summary computes the dashboard counters in a single round trip.
func (r *DashboardRepository) Summary(ctx context.Context, today time.Time) (*models.DashboardSummary, error) {
	const query = `SELECT
        (SELECT COUNT(*) FROM students WHERE status = 'active') AS active_students,
        (SELECT COUNT(*) FROM courses WHERE status = 'active') AS active_courses,
        (SELECT COUNT(*) FROM enrollments) AS total_enrollments,
        (SELECT COUNT(*) FROM attendance WHERE date = $1 AND status = 'present') AS present_today,
        (SELECT COUNT(*) FROM attendance WHERE date = $1) AS recorded_today`
	var summary models.DashboardSummary
	if err := r.db.GetContext(ctx, &summary, query, today); err != nil {
		return nil, fmt.Errorf("dashboard summary: %w", err)
	}
	return &summary, nil
}
