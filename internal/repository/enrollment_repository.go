package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// EnrollmentRepository handles persistence of enrollments.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs the repository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// Create persists a new enrollment record. The unique (student_id,
// course_id) constraint surfaces as a pq unique violation.
func (r *EnrollmentRepository) Create(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrollments (student_id, course_id, enrollment_date, status)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		enrollment.StudentID, enrollment.CourseID, enrollment.EnrollmentDate, enrollment.Status,
	).Scan(&enrollment.ID, &enrollment.CreatedAt, &enrollment.UpdatedAt); err != nil {
		return fmt.Errorf("create enrollment: %w", err)
	}
	return nil
}

// FindByID returns an enrollment by its ID.
func (r *EnrollmentRepository) FindByID(ctx context.Context, id int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, enrollment_date, status, grade, final_score, created_at, updated_at FROM enrollments WHERE id = $1`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, id); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByStudentAndCourse returns the enrollment for a (student, course) pair.
func (r *EnrollmentRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error) {
	const query = `SELECT id, student_id, course_id, enrollment_date, status, grade, final_score, created_at, updated_at FROM enrollments WHERE student_id = $1 AND course_id = $2`
	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, studentID, courseID); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// FindByStudent returns a student's enrollments with course context.
func (r *EnrollmentRepository) FindByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentWithCourse, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade, e.final_score, e.created_at, e.updated_at,
        c.name AS course_name, c.code AS course_code
        FROM enrollments e
        JOIN courses c ON c.id = e.course_id
        WHERE e.student_id = $1
        ORDER BY e.enrollment_date DESC`
	var enrollments []models.EnrollmentWithCourse
	if err := r.db.SelectContext(ctx, &enrollments, query, studentID); err != nil {
		return nil, fmt.Errorf("find enrollments by student: %w", err)
	}
	return enrollments, nil
}

// FindByCourse returns a course roster with student identity.
func (r *EnrollmentRepository) FindByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentWithStudent, error) {
	const query = `SELECT e.id, e.student_id, e.course_id, e.enrollment_date, e.status, e.grade, e.final_score, e.created_at, e.updated_at,
        u.first_name, u.last_name, s.student_number
        FROM enrollments e
        JOIN students s ON s.id = e.student_id
        JOIN users u ON u.id = s.user_id
        WHERE e.course_id = $1
        ORDER BY e.enrollment_date DESC`
	var enrollments []models.EnrollmentWithStudent
	if err := r.db.SelectContext(ctx, &enrollments, query, courseID); err != nil {
		return nil, fmt.Errorf("find enrollments by course: %w", err)
	}
	return enrollments, nil
}

// Update writes the non-nil patch fields and returns the stored record.
func (r *EnrollmentRepository) Update(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	var sets []string
	var args []interface{}

	if patch.EnrollmentDate != nil {
		sets = append(sets, fmt.Sprintf("enrollment_date = $%d", len(args)+1))
		args = append(args, *patch.EnrollmentDate)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}
	if patch.Grade != nil {
		sets = append(sets, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, *patch.Grade)
	}
	if patch.FinalScore != nil {
		sets = append(sets, fmt.Sprintf("final_score = $%d", len(args)+1))
		args = append(args, *patch.FinalScore)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE enrollments SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, student_id, course_id, enrollment_date, status, grade, final_score, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var enrollment models.Enrollment
	if err := r.db.GetContext(ctx, &enrollment, query, args...); err != nil {
		return nil, err
	}
	return &enrollment, nil
}

// Delete removes an enrollment by id and reports whether a row was deleted.
func (r *EnrollmentRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM enrollments WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete enrollment: %w", err)
	}
	return affected > 0, nil
}
