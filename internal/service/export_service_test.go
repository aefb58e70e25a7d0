package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeExportGradeRepo struct {
	byCourse  []models.GradeWithStudent
	byStudent []models.GradeWithCourse
}

func (f *fakeExportGradeRepo) FindByCourse(context.Context, int64) ([]models.GradeWithStudent, error) {
	return f.byCourse, nil
}

func (f *fakeExportGradeRepo) FindByStudent(context.Context, int64) ([]models.GradeWithCourse, error) {
	return f.byStudent, nil
}

type fakeExportStudentRepo struct {
	byID     *models.Student
	byUserID *models.Student
}

func (f *fakeExportStudentRepo) FindByID(context.Context, int64) (*models.Student, error) {
	return f.byID, nil
}

func (f *fakeExportStudentRepo) FindByUserID(context.Context, int64) (*models.Student, error) {
	return f.byUserID, nil
}

func TestCourseGradeBookCSV(t *testing.T) {
	letter := "B"
	grades := &fakeExportGradeRepo{byCourse: []models.GradeWithStudent{
		{
			Grade: models.Grade{
				GradeValue:  87.5,
				GradeLetter: &letter,
				Weight:      1.5,
				GradedAt:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			},
			FirstName:     "Ada",
			LastName:      "Mwangi",
			StudentNumber: "STU-001",
		},
	}}
	svc := NewExportService(grades, &fakeExportStudentRepo{}, nil)

	payload, filename, err := svc.CourseGradeBookCSV(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, "course-2-grades.csv", filename)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Student Number,First Name,Last Name,Grade,Letter,Weight,Graded At", lines[0])
	assert.Equal(t, "STU-001,Ada,Mwangi,87.50,B,1.50,2026-03-10", lines[1])
}

func TestCourseGradeBookCSVEmptyCourse(t *testing.T) {
	svc := NewExportService(&fakeExportGradeRepo{}, &fakeExportStudentRepo{}, nil)

	payload, _, err := svc.CourseGradeBookCSV(context.Background(), 2)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(payload)), "\n")
	require.Len(t, lines, 1, "headers only")
}

func TestStudentReportCardPDF(t *testing.T) {
	grades := &fakeExportGradeRepo{byStudent: []models.GradeWithCourse{
		{Grade: models.Grade{CourseID: 2, GradeValue: 80, Weight: 1}, CourseName: "Algebra I", CourseCode: "MATH-101"},
		{Grade: models.Grade{CourseID: 2, GradeValue: 90, Weight: 1}, CourseName: "Algebra I", CourseCode: "MATH-101"},
		{Grade: models.Grade{CourseID: 3, GradeValue: 70, Weight: 2}, CourseName: "Biology", CourseCode: "BIO-201"},
	}}
	students := &fakeExportStudentRepo{byID: &models.Student{ID: 5, StudentNumber: "STU-001"}}
	svc := NewExportService(grades, students, nil)

	payload, filename, err := svc.StudentReportCardPDF(context.Background(), nil, 5)
	require.NoError(t, err)
	assert.Equal(t, "student-STU-001-report.pdf", filename)
	assert.True(t, bytes.HasPrefix(payload, []byte("%PDF")))
}

func TestStudentReportCardPDFOwnership(t *testing.T) {
	students := &fakeExportStudentRepo{
		byID:     &models.Student{ID: 5, StudentNumber: "STU-001"},
		byUserID: &models.Student{ID: 6, UserID: 11},
	}
	svc := NewExportService(&fakeExportGradeRepo{}, students, nil)

	caller := &models.JWTClaims{UserID: 11, Role: models.RoleStudent}
	_, _, err := svc.StudentReportCardPDF(context.Background(), caller, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}
