package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type gradeRepo interface {
	Create(ctx context.Context, grade *models.Grade) error
	FindByID(ctx context.Context, id int64) (*models.Grade, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.GradeWithCourse, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) ([]models.GradeWithAssignment, error)
	FindByCourse(ctx context.Context, courseID int64) ([]models.GradeWithStudent, error)
	Update(ctx context.Context, id int64, patch models.GradePatch) (*models.Grade, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateGradeRequest is the payload for recording a grade. Weight defaults
// to 1.0 when omitted; the grader is taken from the authenticated caller.
type CreateGradeRequest struct {
	StudentID    int64    `json:"student_id" validate:"required"`
	CourseID     int64    `json:"course_id" validate:"required"`
	AssignmentID *int64   `json:"assignment_id"`
	GradeValue   float64  `json:"grade_value" validate:"gte=0,lte=100"`
	GradeLetter  *string  `json:"grade_letter"`
	Weight       *float64 `json:"weight" validate:"omitempty,gt=0"`
}

// StudentCourseReport is a student's grades in one course plus the
// weighted average over them.
type StudentCourseReport struct {
	Grades  []models.GradeWithAssignment `json:"grades"`
	Average *float64                     `json:"average"`
}

// GradeService orchestrates grade recording and weighted averages.
type GradeService struct {
	grades    gradeRepo
	students  studentLookup
	validator *validator.Validate
	logger    *zap.Logger
}

// NewGradeService constructs GradeService.
func NewGradeService(grades gradeRepo, students studentLookup, validate *validator.Validate, logger *zap.Logger) *GradeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GradeService{grades: grades, students: students, validator: validate, logger: logger}
}

// Create records a grade on behalf of the calling grader.
func (s *GradeService) Create(ctx context.Context, caller *models.JWTClaims, req CreateGradeRequest) (*models.Grade, error) {
	if caller == nil {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "missing caller identity")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}

	grade := &models.Grade{
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		AssignmentID: req.AssignmentID,
		GradeValue:   req.GradeValue,
		GradeLetter:  req.GradeLetter,
		Weight:       weight,
		GradedBy:     caller.UserID,
	}
	if err := s.grades.Create(ctx, grade); err != nil {
		return nil, mapStoreError(err, "grade not found")
	}

	s.logger.Info("grade recorded",
		zap.Int64("grade_id", grade.ID),
		zap.Int64("student_id", grade.StudentID),
		zap.Int64("course_id", grade.CourseID),
		zap.Float64("value", grade.GradeValue))

	return grade, nil
}

// Get returns a grade by id.
func (s *GradeService) Get(ctx context.Context, id int64) (*models.Grade, error) {
	grade, err := s.grades.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "grade not found")
	}
	return grade, nil
}

// ListByStudent returns a student's full grade history across courses.
// Student callers may only read their own grades.
func (s *GradeService) ListByStudent(ctx context.Context, caller *models.JWTClaims, studentID int64) ([]models.GradeWithCourse, error) {
	if err := s.checkOwnership(ctx, caller, studentID); err != nil {
		return nil, err
	}
	grades, err := s.grades.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, mapStoreError(err, "grades not found")
	}
	return grades, nil
}

// StudentCourseReport returns a student's grades in one course together
// with the weighted average. The average is absent when no grades exist.
func (s *GradeService) StudentCourseReport(ctx context.Context, caller *models.JWTClaims, studentID, courseID int64) (*StudentCourseReport, error) {
	if err := s.checkOwnership(ctx, caller, studentID); err != nil {
		return nil, err
	}
	grades, err := s.grades.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, mapStoreError(err, "grades not found")
	}

	values := make([]weightedValue, len(grades))
	for i, g := range grades {
		values[i] = weightedValue{Value: g.GradeValue, Weight: g.Weight}
	}
	return &StudentCourseReport{Grades: grades, Average: weightedAverage(values)}, nil
}

// ListByCourse returns every grade in a course with student identity.
func (s *GradeService) ListByCourse(ctx context.Context, courseID int64) ([]models.GradeWithStudent, error) {
	grades, err := s.grades.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, mapStoreError(err, "grades not found")
	}
	return grades, nil
}

// CourseAverage returns the weighted average over every grade recorded in
// a course, or nil when the course has no grades.
func (s *GradeService) CourseAverage(ctx context.Context, courseID int64) (*float64, error) {
	grades, err := s.grades.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, mapStoreError(err, "grades not found")
	}
	values := make([]weightedValue, len(grades))
	for i, g := range grades {
		values[i] = weightedValue{Value: g.GradeValue, Weight: g.Weight}
	}
	return weightedAverage(values), nil
}

// Update applies the whitelisted patch to a grade.
func (s *GradeService) Update(ctx context.Context, id int64, patch models.GradePatch) (*models.Grade, error) {
	grade, err := s.grades.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "grade not found")
	}
	return grade, nil
}

// Delete hard-deletes a grade. A missing id yields NotFound.
func (s *GradeService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.grades.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "grade not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "grade not found")
	}
	return nil
}

func (s *GradeService) checkOwnership(ctx context.Context, caller *models.JWTClaims, studentID int64) error {
	if caller == nil || caller.Role != models.RoleStudent {
		return nil
	}
	own, err := s.students.FindByUserID(ctx, caller.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrForbidden, "no student record linked to caller")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve caller student")
	}
	if own.ID != studentID {
		return appErrors.Clone(appErrors.ErrForbidden, "students may only access their own records")
	}
	return nil
}

// weightedValue pairs a grade value with its weight for averaging.
type weightedValue struct {
	Value  float64
	Weight float64
}

// weightedAverage computes sum(value*weight)/sum(weight). It returns nil
// for an empty input or when the weights sum to zero, so callers can
// distinguish "no grades" from an average of zero.
func weightedAverage(values []weightedValue) *float64 {
	var sum, weights float64
	for _, v := range values {
		sum += v.Value * v.Weight
		weights += v.Weight
	}
	if weights == 0 {
		return nil
	}
	avg := sum / weights
	return &avg
}
