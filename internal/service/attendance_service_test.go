package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeAttendanceRepo struct {
	created   *models.Attendance
	byStudent []models.Attendance
	deleted   bool
}

func (f *fakeAttendanceRepo) Create(_ context.Context, attendance *models.Attendance) error {
	attendance.ID = 1
	f.created = attendance
	return nil
}

func (f *fakeAttendanceRepo) FindByID(context.Context, int64) (*models.Attendance, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) FindByStudentAndCourse(context.Context, int64, int64) ([]models.Attendance, error) {
	return f.byStudent, nil
}

func (f *fakeAttendanceRepo) FindByCourseAndDate(context.Context, int64, time.Time) ([]models.AttendanceWithStudent, error) {
	return nil, nil
}

func (f *fakeAttendanceRepo) Update(context.Context, int64, models.AttendancePatch) (*models.Attendance, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeAttendanceRepo) Delete(context.Context, int64) (bool, error) {
	return f.deleted, nil
}

func TestAttendanceRecord(t *testing.T) {
	repo := &fakeAttendanceRepo{}
	svc := NewAttendanceService(repo, &fakeStudentLookup{}, nil, nil)

	record, err := svc.Record(context.Background(), RecordAttendanceRequest{
		StudentID: 5,
		CourseID:  2,
		Date:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Status:    models.AttendanceStatusLate,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), record.ID)
	assert.Equal(t, models.AttendanceStatusLate, record.Status)
}

func TestAttendanceRecordRejectsUnknownStatus(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeStudentLookup{}, nil, nil)

	_, err := svc.Record(context.Background(), RecordAttendanceRequest{
		StudentID: 5,
		CourseID:  2,
		Date:      time.Now(),
		Status:    "tardy",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceListOwnRecords(t *testing.T) {
	repo := &fakeAttendanceRepo{byStudent: []models.Attendance{{ID: 1, StudentID: 5}}}
	lookup := &fakeStudentLookup{student: &models.Student{ID: 5, UserID: 11}}
	svc := NewAttendanceService(repo, lookup, nil, nil)

	caller := &models.JWTClaims{UserID: 11, Role: models.RoleStudent}
	records, err := svc.ListByStudentAndCourse(context.Background(), caller, 5, 2)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestAttendanceListOtherStudentForbidden(t *testing.T) {
	lookup := &fakeStudentLookup{student: &models.Student{ID: 6, UserID: 11}}
	svc := NewAttendanceService(&fakeAttendanceRepo{}, lookup, nil, nil)

	caller := &models.JWTClaims{UserID: 11, Role: models.RoleStudent}
	_, err := svc.ListByStudentAndCourse(context.Background(), caller, 5, 2)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAttendanceGetMissing(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{}, &fakeStudentLookup{}, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestAttendanceDeleteMissing(t *testing.T) {
	svc := NewAttendanceService(&fakeAttendanceRepo{deleted: false}, &fakeStudentLookup{}, nil, nil)

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
