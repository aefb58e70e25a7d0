package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type enrollmentRepo interface {
	FindByID(ctx context.Context, id int64) (*models.Enrollment, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) (*models.Enrollment, error)
	FindByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentWithCourse, error)
	Update(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// EnrollmentService manages enrollment lifecycle beyond initial creation.
type EnrollmentService struct {
	enrollments enrollmentRepo
	logger      *zap.Logger
}

// NewEnrollmentService constructs EnrollmentService.
func NewEnrollmentService(enrollments enrollmentRepo, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{enrollments: enrollments, logger: logger}
}

// Get returns an enrollment by id.
func (s *EnrollmentService) Get(ctx context.Context, id int64) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "enrollment not found")
	}
	return enrollment, nil
}

// ListByStudent returns a student's enrollments with course context.
func (s *EnrollmentService) ListByStudent(ctx context.Context, studentID int64) ([]models.EnrollmentWithCourse, error) {
	enrollments, err := s.enrollments.FindByStudent(ctx, studentID)
	if err != nil {
		return nil, mapStoreError(err, "enrollments not found")
	}
	return enrollments, nil
}

// Update applies the whitelisted patch to an enrollment.
func (s *EnrollmentService) Update(ctx context.Context, id int64, patch models.EnrollmentPatch) (*models.Enrollment, error) {
	enrollment, err := s.enrollments.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "enrollment not found")
	}
	return enrollment, nil
}

// Delete hard-deletes an enrollment. A missing id yields NotFound.
func (s *EnrollmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.enrollments.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "enrollment not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "enrollment not found")
	}
	return nil
}
