package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// AssignmentRepository handles persistence of assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment record.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	const query = `INSERT INTO assignments (course_id, title, description, due_date, max_points, type, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		assignment.CourseID, assignment.Title, assignment.Description, assignment.DueDate,
		assignment.MaxPoints, assignment.Type, assignment.Status,
	).Scan(&assignment.ID, &assignment.CreatedAt, &assignment.UpdatedAt); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment by its ID.
func (r *AssignmentRepository) FindByID(ctx context.Context, id int64) (*models.Assignment, error) {
	const query = `SELECT id, course_id, title, description, due_date, max_points, type, status, created_at, updated_at FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindByCourse returns a course's assignments ordered by due date.
func (r *AssignmentRepository) FindByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	const query = `SELECT id, course_id, title, description, due_date, max_points, type, status, created_at, updated_at FROM assignments WHERE course_id = $1 ORDER BY due_date ASC`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, courseID); err != nil {
		return nil, fmt.Errorf("find assignments by course: %w", err)
	}
	return assignments, nil
}

// List returns assignments with the joined course name.
func (r *AssignmentRepository) List(ctx context.Context, limit, offset int) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.course_id, a.title, a.description, a.due_date, a.max_points, a.type, a.status, a.created_at, a.updated_at,
        c.name AS course_name
        FROM assignments a
        JOIN courses c ON c.id = a.course_id
        ORDER BY a.due_date ASC LIMIT $1 OFFSET $2`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}
	return assignments, nil
}

// Update writes the non-nil patch fields and returns the stored record.
func (r *AssignmentRepository) Update(ctx context.Context, id int64, patch models.AssignmentPatch) (*models.Assignment, error) {
	var sets []string
	var args []interface{}

	if patch.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", len(args)+1))
		args = append(args, *patch.Title)
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *patch.Description)
	}
	if patch.DueDate != nil {
		sets = append(sets, fmt.Sprintf("due_date = $%d", len(args)+1))
		args = append(args, *patch.DueDate)
	}
	if patch.MaxPoints != nil {
		sets = append(sets, fmt.Sprintf("max_points = $%d", len(args)+1))
		args = append(args, *patch.MaxPoints)
	}
	if patch.Type != nil {
		sets = append(sets, fmt.Sprintf("type = $%d", len(args)+1))
		args = append(args, *patch.Type)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE assignments SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, course_id, title, description, due_date, max_points, type, status, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, args...); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// Delete removes an assignment by id and reports whether a row was deleted.
func (r *AssignmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM assignments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete assignment: %w", err)
	}
	return affected > 0, nil
}
