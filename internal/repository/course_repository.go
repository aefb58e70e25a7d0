package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

// CourseRepository handles persistence of courses.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository constructs the repository.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Create inserts a new course record.
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	const query = `INSERT INTO courses (code, name, description, teacher_id, credits, level, subject, start_date, end_date, status, max_students)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        RETURNING id, created_at, updated_at`
	if err := r.db.QueryRowxContext(ctx, query,
		course.Code, course.Name, course.Description, course.TeacherID, course.Credits,
		course.Level, course.Subject, course.StartDate, course.EndDate, course.Status, course.MaxStudents,
	).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt); err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

// FindByID returns a course by its ID.
func (r *CourseRepository) FindByID(ctx context.Context, id int64) (*models.Course, error) {
	const query = `SELECT id, code, name, description, teacher_id, credits, level, subject, start_date, end_date, status, max_students, created_at, updated_at FROM courses WHERE id = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, id); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByCode returns a course by its unique code.
func (r *CourseRepository) FindByCode(ctx context.Context, code string) (*models.Course, error) {
	const query = `SELECT id, code, name, description, teacher_id, credits, level, subject, start_date, end_date, status, max_students, created_at, updated_at FROM courses WHERE code = $1`
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, code); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindByTeacher returns the courses owned by a teacher.
func (r *CourseRepository) FindByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	const query = `SELECT id, code, name, description, teacher_id, credits, level, subject, start_date, end_date, status, max_students, created_at, updated_at FROM courses WHERE teacher_id = $1 ORDER BY start_date DESC`
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, teacherID); err != nil {
		return nil, fmt.Errorf("find courses by teacher: %w", err)
	}
	return courses, nil
}

// List returns courses with the joined teacher name.
func (r *CourseRepository) List(ctx context.Context, limit, offset int) ([]models.CourseDetail, error) {
	const query = `SELECT c.id, c.code, c.name, c.description, c.teacher_id, c.credits, c.level, c.subject, c.start_date, c.end_date, c.status, c.max_students, c.created_at, c.updated_at,
        u.first_name || ' ' || u.last_name AS teacher_name
        FROM courses c
        JOIN users u ON u.id = c.teacher_id
        ORDER BY c.created_at DESC LIMIT $1 OFFSET $2`
	var courses []models.CourseDetail
	if err := r.db.SelectContext(ctx, &courses, query, limit, offset); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

// Update writes the non-nil patch fields and returns the stored record.
// Every column except id is writable here; course updates have no
// restricted whitelist.
func (r *CourseRepository) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	var sets []string
	var args []interface{}

	if patch.Code != nil {
		sets = append(sets, fmt.Sprintf("code = $%d", len(args)+1))
		args = append(args, *patch.Code)
	}
	if patch.Name != nil {
		sets = append(sets, fmt.Sprintf("name = $%d", len(args)+1))
		args = append(args, *patch.Name)
	}
	if patch.Description != nil {
		sets = append(sets, fmt.Sprintf("description = $%d", len(args)+1))
		args = append(args, *patch.Description)
	}
	if patch.TeacherID != nil {
		sets = append(sets, fmt.Sprintf("teacher_id = $%d", len(args)+1))
		args = append(args, *patch.TeacherID)
	}
	if patch.Credits != nil {
		sets = append(sets, fmt.Sprintf("credits = $%d", len(args)+1))
		args = append(args, *patch.Credits)
	}
	if patch.Level != nil {
		sets = append(sets, fmt.Sprintf("level = $%d", len(args)+1))
		args = append(args, *patch.Level)
	}
	if patch.Subject != nil {
		sets = append(sets, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, *patch.Subject)
	}
	if patch.StartDate != nil {
		sets = append(sets, fmt.Sprintf("start_date = $%d", len(args)+1))
		args = append(args, *patch.StartDate)
	}
	if patch.EndDate != nil {
		sets = append(sets, fmt.Sprintf("end_date = $%d", len(args)+1))
		args = append(args, *patch.EndDate)
	}
	if patch.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *patch.Status)
	}
	if patch.MaxStudents != nil {
		sets = append(sets, fmt.Sprintf("max_students = $%d", len(args)+1))
		args = append(args, *patch.MaxStudents)
	}

	if len(sets) == 0 {
		return nil, appErrors.ErrNoFieldsToUpdate
	}

	args = append(args, id)
	query := fmt.Sprintf(`UPDATE courses SET %s, updated_at = NOW() WHERE id = $%d
        RETURNING id, code, name, description, teacher_id, credits, level, subject, start_date, end_date, status, max_students, created_at, updated_at`,
		strings.Join(sets, ", "), len(args))

	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, args...); err != nil {
		return nil, err
	}
	return &course, nil
}

// Delete removes a course by id and reports whether a row was deleted.
func (r *CourseRepository) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete course: %w", err)
	}
	return affected > 0, nil
}
