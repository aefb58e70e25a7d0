package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
)

func TestEnrollmentRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	mock.ExpectQuery("INSERT INTO enrollments").
		WithArgs(int64(5), int64(2), sqlmock.AnyArg(), models.EnrollmentStatusEnrolled).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(int64(1), now, now))

	enrollment := &models.Enrollment{
		StudentID:      5,
		CourseID:       2,
		EnrollmentDate: now,
		Status:         models.EnrollmentStatusEnrolled,
	}
	err := repo.Create(context.Background(), enrollment)
	require.NoError(t, err)
	assert.Equal(t, int64(1), enrollment.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryCreateDuplicatePairSurfacesUniqueViolation(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	pqErr := &pq.Error{Code: "23505", Constraint: "enrollments_student_id_course_id_key"}
	mock.ExpectQuery("INSERT INTO enrollments").
		WillReturnError(pqErr)

	err := repo.Create(context.Background(), &models.Enrollment{StudentID: 5, CourseID: 2})
	require.Error(t, err)
	var got *pq.Error
	require.True(t, errors.As(err, &got))
	assert.Equal(t, pq.ErrorCode("23505"), got.Code)
}

func TestEnrollmentRepositoryFindByStudentJoinsCourse(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrollment_date", "status", "grade", "final_score", "created_at", "updated_at", "course_name", "course_code"}).
		AddRow(int64(1), int64(5), int64(2), now, "enrolled", nil, nil, now, now, "Algebra I", "MATH-101")
	mock.ExpectQuery(`JOIN courses c ON c.id = e.course_id\s+WHERE e.student_id = \$1`).
		WithArgs(int64(5)).
		WillReturnRows(rows)

	enrollments, err := repo.FindByStudent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, enrollments, 1)
	assert.Equal(t, "MATH-101", enrollments[0].CourseCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnrollmentRepositoryUpdateStatusAndScore(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	status := models.EnrollmentStatusCompleted
	score := 91.5
	rows := sqlmock.NewRows([]string{"id", "student_id", "course_id", "enrollment_date", "status", "grade", "final_score", "created_at", "updated_at"}).
		AddRow(int64(1), int64(5), int64(2), now, "completed", nil, score, now, now)
	mock.ExpectQuery(`UPDATE enrollments SET status = \$1, final_score = \$2, updated_at = NOW\(\) WHERE id = \$3`).
		WithArgs(status, score, int64(1)).
		WillReturnRows(rows)

	enrollment, err := repo.Update(context.Background(), 1, models.EnrollmentPatch{Status: &status, FinalScore: &score})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusCompleted, enrollment.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}
