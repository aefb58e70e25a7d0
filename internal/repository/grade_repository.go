package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// GradeRepository handles grade entry persistence.
type GradeRepository struct {
	db *sqlx.DB
}

// NewGradeRepository creates a new grade repository.
func NewGradeRepository(db *sqlx.DB) *GradeRepository {
	return &GradeRepository{db: db}
}

// Create inserts a new grade entry. Weight is expected to be populated by
// the caller (1.0 when the request omitted it).
func (r *GradeRepository) Create(ctx context.Context, grade *models.Grade) error {
	const query = `INSERT INTO grades (student_id, course_id, assignment_id, grade_value, grade_letter, weight, graded_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        RETURNING id, graded_at, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		grade.StudentID, grade.CourseID, grade.AssignmentID, grade.GradeValue,
		grade.GradeLetter, grade.Weight, grade.GradedBy,
	).Scan(&grade.ID, &grade.GradedAt, &grade.CreatedAt, &grade.UpdatedAt); err != nil {
		return fmt.Errorf("create grade: %w", err)
	}
	return nil
}

// FindByID returns a grade entry by its ID.
func (r *GradeRepository) FindByID(ctx context.Context, id int64) (*models.Grade, error) {
	const query = `SELECT id, student_id, course_id, assignment_id, grade_value, grade_letter, weight, graded_by, graded_at, created_at, updated_at FROM grades WHERE id = $1`
	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, id); err != nil {
		return nil, err
	}
	return &grade, nil
}

// FindByStudent returns a student's grade history with course context,
// newest first.
func (r *GradeRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.GradeWithCourse, error) {
	const query = `SELECT g.id, g.student_id, g.course_id, g.assignment_id, g.grade_value, g.grade_letter, g.weight, g.graded_by, g.graded_at, g.created_at, g.updated_at,
        c.name AS course_name, c.code AS course_code
        FROM grades g
        JOIN courses c ON c.id = g.course_id
        WHERE g.student_id = $1
        ORDER BY g.graded_at DESC`
	var grades []models.GradeWithCourse
	if err := r.db.SelectContext(ctx, &grades, query, studentID); err != nil {
		return nil, fmt.Errorf("find grades by student: %w", err)
	}
	return grades, nil
}

// FindByStudentAndCourse returns the grades for a (student, course) pair
// with the optional assignment title joined in, newest first.
func (r *GradeRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) ([]models.GradeWithAssignment, error) {
	const query = `SELECT g.id, g.student_id, g.course_id, g.assignment_id, g.grade_value, g.grade_letter, g.weight, g.graded_by, g.graded_at, g.created_at, g.updated_at,
        a.title AS assignment_title
        FROM grades g
        LEFT JOIN assignments a ON a.id = g.assignment_id
        WHERE g.student_id = $1 AND g.course_id = $2
        ORDER BY g.graded_at DESC`
	var grades []models.GradeWithAssignment
	if err := r.db.SelectContext(ctx, &grades, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("find grades by student and course: %w", err)
	}
	return grades, nil
}

// FindByCourse returns a course's grade book with student identity.
func (r *GradeRepository) FindByCourse(ctx context.Context, courseID int64) ([]models.GradeWithStudent, error) {
	const query = `SELECT g.id, g.student_id, g.course_id, g.assignment_id, g.grade_value, g.grade_letter, g.weight, g.graded_by, g.graded_at, g.created_at, g.updated_at,
        u.first_name, u.last_name, s.student_number
        FROM grades g
        JOIN students s ON s.id = g.student_id
        JOIN users u ON u.id = s.user_id
        WHERE g.course_id = $1
        ORDER BY g.graded_at DESC`
	var grades []models.GradeWithStudent
	if err := r.db.SelectContext(ctx, &grades, query, courseID); err != nil {
		return nil, fmt.Errorf("find grades by course: %w", err)
	}
	return grades, nil
}

// Update writes the non-nil patch fields and returns the stored record.
func (r *GradeRepository) Update(ctx context.Context, id int64, patch models.GradePatch) (*models.Grade, error) {
	var sets []string
	var args []interface{}

	if patch.GradeValue != nil {
		sets = append(sets, fmt.Sprintf("grade_value = $%d", len(args)+1))
		args = append(args, *patch.GradeValue)
	}
	if patch.GradeLetter != nil {
		sets = append(sets, fmt.Sprintf("grade_letter = $%d", len(args)+1))
		args = append(args, *patch.GradeLetter)
	}
	if patch.Weight != nil {
		sets = append(sets, fmt.Sprintf("weight = $%d", len(args)+1))
		args = append(args, *patch.Weight)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE grades SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, student_id, course_id, assignment_id, grade_value, grade_letter, weight, graded_by, graded_at, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var grade models.Grade
	if err := r.db.GetContext(ctx, &grade, query, args...); err != nil {
		return nil, err
	}
	return &grade, nil
}

// Delete removes a grade entry by id and reports whether a row was deleted.
func (r *GradeRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM grades WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete grade: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete grade: %w", err)
	}
	return affected > 0, nil
}
