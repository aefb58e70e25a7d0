package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
)

func courseRows(now time.Time) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "code", "name", "description", "teacher_id", "credits", "level", "subject", "start_date", "end_date", "status", "max_students", "created_at", "updated_at"})
}

func TestCourseRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO courses").
		WithArgs("MATH-101", "Algebra I", nil, int64(3), 3.0, "beginner", "mathematics", sqlmock.AnyArg(), sqlmock.AnyArg(), models.CourseStatusActive, nil).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(2), now, now))

	course := &models.Course{
		Code:      "MATH-101",
		Name:      "Algebra I",
		TeacherID: 3,
		Credits:   3.0,
		Level:     "beginner",
		Subject:   "mathematics",
		StartDate: now,
		EndDate:   now.AddDate(0, 4, 0),
		Status:    models.CourseStatusActive,
	}
	err := repo.Create(context.Background(), course)
	require.NoError(t, err)
	assert.Equal(t, int64(2), course.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCourseRepositoryListJoinsTeacherName(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "code", "name", "description", "teacher_id", "credits", "level", "subject", "start_date", "end_date", "status", "max_students", "created_at", "updated_at", "teacher_name"}).
		AddRow(int64(2), "MATH-101", "Algebra I", nil, int64(3), 3.0, "beginner", "mathematics", now, now, "active", nil, now, now, "Jane Doe")
	mock.ExpectQuery(`JOIN users u ON u.id = c.teacher_id`).
		WithArgs(20, 0).
		WillReturnRows(rows)

	courses, err := repo.List(context.Background(), 20, 0)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Jane Doe", courses[0].TeacherName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Course updates deliberately accept every column except id.
func TestCourseRepositoryUpdateAcceptsEveryColumn(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCourseRepository(db)

	now := time.Now()
	code := "MATH-102"
	name := "Algebra II"
	teacherID := int64(4)
	credits := 4.0
	status := models.CourseStatusArchived
	maxStudents := 25

	rows := courseRows(now).
		AddRow(int64(2), code, name, nil, teacherID, credits, "beginner", "mathematics", now, now, "archived", maxStudents, now, now)
	mock.ExpectQuery(`UPDATE courses SET code = \$1, name = \$2, teacher_id = \$3, credits = \$4, status = \$5, max_students = \$6, updated_at = NOW\(\) WHERE id = \$7`).
		WithArgs(code, name, teacherID, credits, status, maxStudents, int64(2)).
		WillReturnRows(rows)

	course, err := repo.Update(context.Background(), 2, models.CoursePatch{
		Code:        &code,
		Name:        &name,
		TeacherID:   &teacherID,
		Credits:     &credits,
		Status:      &status,
		MaxStudents: &maxStudents,
	})
	require.NoError(t, err)
	assert.Equal(t, "MATH-102", course.Code)
	assert.Equal(t, int64(4), course.TeacherID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
