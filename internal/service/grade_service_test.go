package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeGradeRepo struct {
	created          *models.Grade
	byID             *models.Grade
	byStudent        []models.GradeWithCourse
	byStudentCourse  []models.GradeWithAssignment
	byCourse         []models.GradeWithStudent
	updated          *models.Grade
	deleted          bool
	err              error
}

func (f *fakeGradeRepo) Create(_ context.Context, grade *models.Grade) error {
	if f.err != nil {
		return f.err
	}
	grade.ID = 9
	f.created = grade
	return nil
}

func (f *fakeGradeRepo) FindByID(context.Context, int64) (*models.Grade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

func (f *fakeGradeRepo) FindByStudent(context.Context, int64) ([]models.GradeWithCourse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStudent, nil
}

func (f *fakeGradeRepo) FindByStudentAndCourse(context.Context, int64, int64) ([]models.GradeWithAssignment, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byStudentCourse, nil
}

func (f *fakeGradeRepo) FindByCourse(context.Context, int64) ([]models.GradeWithStudent, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byCourse, nil
}

func (f *fakeGradeRepo) Update(context.Context, int64, models.GradePatch) (*models.Grade, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeGradeRepo) Delete(context.Context, int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.deleted, nil
}

type fakeStudentLookup struct {
	student *models.Student
	err     error
}

func (f *fakeStudentLookup) FindByUserID(context.Context, int64) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.student, nil
}

func gradeEntry(value, weight float64) models.GradeWithAssignment {
	return models.GradeWithAssignment{Grade: models.Grade{GradeValue: value, Weight: weight}}
}

func TestWeightedAverage(t *testing.T) {
	avg := weightedAverage([]weightedValue{
		{Value: 85, Weight: 1.0},
		{Value: 90, Weight: 1.5},
		{Value: 80, Weight: 1.0},
	})
	require.NotNil(t, avg)
	assert.InDelta(t, 85.714285, *avg, 1e-6)
}

func TestWeightedAverageEmptyIsAbsent(t *testing.T) {
	assert.Nil(t, weightedAverage(nil))
	assert.Nil(t, weightedAverage([]weightedValue{}))
}

func TestWeightedAverageZeroScoresStillPresent(t *testing.T) {
	avg := weightedAverage([]weightedValue{{Value: 0, Weight: 1.0}})
	require.NotNil(t, avg)
	assert.Equal(t, 0.0, *avg)
}

func TestGradeServiceCreateDefaultsWeightAndGrader(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := NewGradeService(repo, &fakeStudentLookup{}, nil, nil)

	caller := &models.JWTClaims{UserID: 3, Role: models.RoleTeacher}
	grade, err := svc.Create(context.Background(), caller, CreateGradeRequest{
		StudentID:  5,
		CourseID:   2,
		GradeValue: 87.5,
	})
	require.NoError(t, err)
	assert.Equal(t, 1.0, grade.Weight)
	assert.Equal(t, int64(3), grade.GradedBy)
	assert.Equal(t, int64(9), grade.ID)
}

func TestGradeServiceCreateKeepsExplicitWeight(t *testing.T) {
	repo := &fakeGradeRepo{}
	svc := NewGradeService(repo, &fakeStudentLookup{}, nil, nil)

	weight := 2.5
	grade, err := svc.Create(context.Background(), &models.JWTClaims{UserID: 3, Role: models.RoleTeacher}, CreateGradeRequest{
		StudentID:  5,
		CourseID:   2,
		GradeValue: 70,
		Weight:     &weight,
	})
	require.NoError(t, err)
	assert.Equal(t, 2.5, grade.Weight)
}

func TestGradeServiceCreateRejectsMissingCaller(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{}, &fakeStudentLookup{}, nil, nil)

	_, err := svc.Create(context.Background(), nil, CreateGradeRequest{StudentID: 5, CourseID: 2, GradeValue: 50})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErr.Code)
}

func TestGradeServiceStudentCourseReportComputesAverage(t *testing.T) {
	repo := &fakeGradeRepo{byStudentCourse: []models.GradeWithAssignment{
		gradeEntry(85, 1.0),
		gradeEntry(90, 1.5),
		gradeEntry(80, 1.0),
	}}
	svc := NewGradeService(repo, &fakeStudentLookup{}, nil, nil)

	report, err := svc.StudentCourseReport(context.Background(), &models.JWTClaims{UserID: 1, Role: models.RoleAdmin}, 5, 2)
	require.NoError(t, err)
	require.NotNil(t, report.Average)
	assert.InDelta(t, 85.714285, *report.Average, 1e-6)
	assert.Len(t, report.Grades, 3)
}

func TestGradeServiceStudentCourseReportEmptyHasNoAverage(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{}, &fakeStudentLookup{}, nil, nil)

	report, err := svc.StudentCourseReport(context.Background(), nil, 5, 2)
	require.NoError(t, err)
	assert.Nil(t, report.Average)
	assert.Empty(t, report.Grades)
}

func TestGradeServiceStudentOwnershipAllowsOwnGrades(t *testing.T) {
	repo := &fakeGradeRepo{byStudent: []models.GradeWithCourse{{Grade: models.Grade{ID: 1, StudentID: 5}}}}
	lookup := &fakeStudentLookup{student: &models.Student{ID: 5, UserID: 11}}
	svc := NewGradeService(repo, lookup, nil, nil)

	grades, err := svc.ListByStudent(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.NoError(t, err)
	assert.Len(t, grades, 1)
}

func TestGradeServiceStudentOwnershipRejectsOtherStudents(t *testing.T) {
	lookup := &fakeStudentLookup{student: &models.Student{ID: 6, UserID: 11}}
	svc := NewGradeService(&fakeGradeRepo{}, lookup, nil, nil)

	_, err := svc.ListByStudent(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestGradeServiceStudentWithoutRecordIsForbidden(t *testing.T) {
	lookup := &fakeStudentLookup{err: sql.ErrNoRows}
	svc := NewGradeService(&fakeGradeRepo{}, lookup, nil, nil)

	_, err := svc.ListByStudent(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestGradeServiceGetMapsMissingRow(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{err: sql.ErrNoRows}, &fakeStudentLookup{}, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGradeServiceDeleteMissingRowIsNotFound(t *testing.T) {
	svc := NewGradeService(&fakeGradeRepo{deleted: false}, &fakeStudentLookup{}, nil, nil)

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestGradeServiceCourseAverage(t *testing.T) {
	repo := &fakeGradeRepo{byCourse: []models.GradeWithStudent{
		{Grade: models.Grade{GradeValue: 60, Weight: 1.0}},
		{Grade: models.Grade{GradeValue: 100, Weight: 1.0}},
	}}
	svc := NewGradeService(repo, &fakeStudentLookup{}, nil, nil)

	avg, err := svc.CourseAverage(context.Background(), 2)
	require.NoError(t, err)
	require.NotNil(t, avg)
	assert.Equal(t, 80.0, *avg)
}
