package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type courseRepo interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id int64) (*models.Course, error)
	FindByCode(ctx context.Context, code string) (*models.Course, error)
	FindByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error)
	List(ctx context.Context, limit, offset int) ([]models.CourseDetail, error)
	Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type courseEnrollmentRepo interface {
	Create(ctx context.Context, enrollment *models.Enrollment) error
	FindByCourse(ctx context.Context, courseID int64) ([]models.EnrollmentWithStudent, error)
}

// CreateCourseRequest is the payload for creating a course.
type CreateCourseRequest struct {
	Code        string              `json:"code" validate:"required"`
	Name        string              `json:"name" validate:"required"`
	Description *string             `json:"description"`
	TeacherID   int64               `json:"teacher_id" validate:"required"`
	Credits     float64             `json:"credits" validate:"required,gt=0,lte=6"`
	Level       string              `json:"level" validate:"required"`
	Subject     string              `json:"subject" validate:"required"`
	StartDate   time.Time           `json:"start_date" validate:"required"`
	EndDate     time.Time           `json:"end_date" validate:"required"`
	Status      models.CourseStatus `json:"status" validate:"omitempty,oneof=draft active archived"`
	MaxStudents *int                `json:"max_students"`
}

// EnrollStudentRequest enrolls a student in a course.
type EnrollStudentRequest struct {
	StudentID int64 `json:"student_id" validate:"required"`
}

// CourseService orchestrates course management and enrollment.
type CourseService struct {
	courses     courseRepo
	enrollments courseEnrollmentRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewCourseService constructs CourseService.
func NewCourseService(courses courseRepo, enrollments courseEnrollmentRepo, validate *validator.Validate, logger *zap.Logger) *CourseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CourseService{courses: courses, enrollments: enrollments, validator: validate, logger: logger}
}

// Create registers a new course.
func (s *CourseService) Create(ctx context.Context, req CreateCourseRequest) (*models.Course, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid course payload")
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "end_date must not precede start_date")
	}

	status := req.Status
	if status == "" {
		status = models.CourseStatusDraft
	}

	course := &models.Course{
		Code:        req.Code,
		Name:        req.Name,
		Description: req.Description,
		TeacherID:   req.TeacherID,
		Credits:     req.Credits,
		Level:       req.Level,
		Subject:     req.Subject,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Status:      status,
		MaxStudents: req.MaxStudents,
	}
	if err := s.courses.Create(ctx, course); err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	return course, nil
}

// Get returns a course by id.
func (s *CourseService) Get(ctx context.Context, id int64) (*models.Course, error) {
	course, err := s.courses.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	return course, nil
}

// GetByCode returns a course by its unique code.
func (s *CourseService) GetByCode(ctx context.Context, code string) (*models.Course, error) {
	course, err := s.courses.FindByCode(ctx, code)
	if err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	return course, nil
}

// ListByTeacher returns the courses owned by a teacher.
func (s *CourseService) ListByTeacher(ctx context.Context, teacherID int64) ([]models.Course, error) {
	courses, err := s.courses.FindByTeacher(ctx, teacherID)
	if err != nil {
		return nil, mapStoreError(err, "courses not found")
	}
	return courses, nil
}

// List returns a page of courses with teacher names.
func (s *CourseService) List(ctx context.Context, limit, offset int) ([]models.CourseDetail, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	courses, err := s.courses.List(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreError(err, "courses not found")
	}
	return courses, nil
}

// Update applies the patch to a course. Course updates accept every column
// except id.
func (s *CourseService) Update(ctx context.Context, id int64, patch models.CoursePatch) (*models.Course, error) {
	course, err := s.courses.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	return course, nil
}

// Delete hard-deletes a course. A missing id yields NotFound.
func (s *CourseService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.courses.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "course not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	return nil
}

// Enroll creates an enrollment for the student in the course with status
// enrolled and today's date.
func (s *CourseService) Enroll(ctx context.Context, courseID int64, req EnrollStudentRequest) (*models.Enrollment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid enrollment payload")
	}

	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapStoreError(err, "course not found")
	}

	enrollment := &models.Enrollment{
		StudentID:      req.StudentID,
		CourseID:       courseID,
		EnrollmentDate: time.Now().UTC(),
		Status:         models.EnrollmentStatusEnrolled,
	}
	if err := s.enrollments.Create(ctx, enrollment); err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	return enrollment, nil
}

// Roster returns a course's enrollments with student identity.
func (s *CourseService) Roster(ctx context.Context, courseID int64) ([]models.EnrollmentWithStudent, error) {
	if _, err := s.courses.FindByID(ctx, courseID); err != nil {
		return nil, mapStoreError(err, "course not found")
	}
	roster, err := s.enrollments.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, mapStoreError(err, "enrollments not found")
	}
	return roster, nil
}
