package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeCourseRepo struct {
	created *models.Course
	byID    *models.Course
	byIDErr error
}

func (f *fakeCourseRepo) Create(_ context.Context, course *models.Course) error {
	course.ID = 2
	f.created = course
	return nil
}

func (f *fakeCourseRepo) FindByID(context.Context, int64) (*models.Course, error) {
	if f.byIDErr != nil {
		return nil, f.byIDErr
	}
	return f.byID, nil
}

func (f *fakeCourseRepo) FindByCode(context.Context, string) (*models.Course, error) {
	return f.byID, nil
}

func (f *fakeCourseRepo) FindByTeacher(context.Context, int64) ([]models.Course, error) {
	return nil, nil
}

func (f *fakeCourseRepo) List(context.Context, int, int) ([]models.CourseDetail, error) {
	return nil, nil
}

func (f *fakeCourseRepo) Update(context.Context, int64, models.CoursePatch) (*models.Course, error) {
	return f.byID, nil
}

func (f *fakeCourseRepo) Delete(context.Context, int64) (bool, error) {
	return true, nil
}

type fakeCourseEnrollmentRepo struct {
	created *models.Enrollment
	roster  []models.EnrollmentWithStudent
	err     error
}

func (f *fakeCourseEnrollmentRepo) Create(_ context.Context, enrollment *models.Enrollment) error {
	if f.err != nil {
		return f.err
	}
	enrollment.ID = 1
	f.created = enrollment
	return nil
}

func (f *fakeCourseEnrollmentRepo) FindByCourse(context.Context, int64) ([]models.EnrollmentWithStudent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.roster, nil
}

func validCourseRequest() CreateCourseRequest {
	start := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	return CreateCourseRequest{
		Code:      "MATH-101",
		Name:      "Algebra I",
		TeacherID: 3,
		Credits:   3,
		Level:     "beginner",
		Subject:   "mathematics",
		StartDate: start,
		EndDate:   start.AddDate(0, 4, 0),
	}
}

func TestCourseServiceCreateDefaultsToDraft(t *testing.T) {
	repo := &fakeCourseRepo{}
	svc := NewCourseService(repo, &fakeCourseEnrollmentRepo{}, nil, nil)

	course, err := svc.Create(context.Background(), validCourseRequest())
	require.NoError(t, err)
	assert.Equal(t, models.CourseStatusDraft, course.Status)
	assert.Equal(t, int64(2), course.ID)
}

func TestCourseServiceCreateRejectsEndBeforeStart(t *testing.T) {
	svc := NewCourseService(&fakeCourseRepo{}, &fakeCourseEnrollmentRepo{}, nil, nil)

	req := validCourseRequest()
	req.EndDate = req.StartDate.AddDate(0, -1, 0)
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCourseServiceCreateRejectsExcessiveCredits(t *testing.T) {
	svc := NewCourseService(&fakeCourseRepo{}, &fakeCourseEnrollmentRepo{}, nil, nil)

	req := validCourseRequest()
	req.Credits = 9
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestCourseServiceEnrollCreatesEnrolledMembership(t *testing.T) {
	courses := &fakeCourseRepo{byID: &models.Course{ID: 2}}
	enrollments := &fakeCourseEnrollmentRepo{}
	svc := NewCourseService(courses, enrollments, nil, nil)

	enrollment, err := svc.Enroll(context.Background(), 2, EnrollStudentRequest{StudentID: 5})
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentStatusEnrolled, enrollment.Status)
	assert.Equal(t, int64(2), enrollment.CourseID)
	assert.Equal(t, int64(5), enrollment.StudentID)
	assert.False(t, enrollment.EnrollmentDate.IsZero())
}

func TestCourseServiceEnrollDuplicateIsConflict(t *testing.T) {
	courses := &fakeCourseRepo{byID: &models.Course{ID: 2}}
	enrollments := &fakeCourseEnrollmentRepo{err: &pq.Error{Code: "23505", Constraint: "enrollments_student_id_course_id_key"}}
	svc := NewCourseService(courses, enrollments, nil, nil)

	_, err := svc.Enroll(context.Background(), 2, EnrollStudentRequest{StudentID: 5})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCourseServiceEnrollUnknownCourse(t *testing.T) {
	courses := &fakeCourseRepo{byIDErr: sql.ErrNoRows}
	svc := NewCourseService(courses, &fakeCourseEnrollmentRepo{}, nil, nil)

	_, err := svc.Enroll(context.Background(), 99, EnrollStudentRequest{StudentID: 5})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
