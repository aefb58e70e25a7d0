package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// AttendanceRepository handles persistence of attendance records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a new attendance record.
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance) error {
	const query = `INSERT INTO attendance (student_id, course_id, date, status, notes)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		attendance.StudentID, attendance.CourseID, attendance.Date, attendance.Status, attendance.Notes,
	).Scan(&attendance.ID, &attendance.CreatedAt, &attendance.UpdatedAt); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// FindByID returns an attendance record by its ID.
func (r *AttendanceRepository) FindByID(ctx context.Context, id int64) (*models.Attendance, error) {
	const query = `SELECT id, student_id, course_id, date, status, notes, created_at, updated_at FROM attendance WHERE id = $1`
	var attendance models.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, id); err != nil {
		return nil, err
	}
	return &attendance, nil
}

// FindByStudentAndCourse returns a student's attendance history in a course,
// most recent date first.
func (r *AttendanceRepository) FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) ([]models.Attendance, error) {
	const query = `SELECT id, student_id, course_id, date, status, notes, created_at, updated_at FROM attendance WHERE student_id = $1 AND course_id = $2 ORDER BY date DESC`
	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, studentID, courseID); err != nil {
		return nil, fmt.Errorf("find attendance by student and course: %w", err)
	}
	return records, nil
}

// FindByCourseAndDate returns a course's attendance sheet for one day with
// student identity joined in.
func (r *AttendanceRepository) FindByCourseAndDate(ctx context.Context, courseID int64, date time.Time) ([]models.AttendanceWithStudent, error) {
	const query = `SELECT a.id, a.student_id, a.course_id, a.date, a.status, a.notes, a.created_at, a.updated_at,
        u.first_name, u.last_name, s.student_number
        FROM attendance a
        JOIN students s ON s.id = a.student_id
        JOIN users u ON u.id = s.user_id
        WHERE a.course_id = $1 AND a.date = $2`
	var records []models.AttendanceWithStudent
	if err := r.db.SelectContext(ctx, &records, query, courseID, date); err != nil {
		return nil, fmt.Errorf("find attendance by course and date: %w", err)
	}
	return records, nil
}

// Update writes the non-nil patch fields and returns the stored record.
func (r *AttendanceRepository) Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error) {
	var sets []string
	var args []interface{}

	if patch.Date != nil {
		sets = append(sets, fmt.Sprintf("date = $%d", len(args)+1))
		args = append(args, *patch.Date)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}
	if patch.Notes != nil {
		sets = append(sets, fmt.Sprintf("notes = $%d", len(args)+1))
		args = append(args, *patch.Notes)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE attendance SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, student_id, course_id, date, status, notes, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var attendance models.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, args...); err != nil {
		return nil, err
	}
	return &attendance, nil
}

// Delete removes an attendance record by id and reports whether a row was
// deleted.
func (r *AttendanceRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM attendance WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete attendance: %w", err)
	}
	return affected > 0, nil
}
