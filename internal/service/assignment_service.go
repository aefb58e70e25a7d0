package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type assignmentRepo interface {
	Create(ctx context.Context, assignment *models.Assignment) error
	FindByID(ctx context.Context, id int64) (*models.Assignment, error)
	FindByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error)
	List(ctx context.Context, limit, offset int) ([]models.AssignmentDetail, error)
	Update(ctx context.Context, id int64, patch models.AssignmentPatch) (*models.Assignment, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateAssignmentRequest is the payload for creating an assignment.
type CreateAssignmentRequest struct {
	CourseID    int64                   `json:"course_id" validate:"required"`
	Title       string                  `json:"title" validate:"required"`
	Description *string                 `json:"description"`
	DueDate     time.Time               `json:"due_date" validate:"required"`
	MaxPoints   float64                 `json:"max_points" validate:"required,gt=0"`
	Type        models.AssignmentType   `json:"type" validate:"required,oneof=homework quiz exam project"`
	Status      models.AssignmentStatus `json:"status" validate:"omitempty,oneof=draft published closed"`
}

// AssignmentService orchestrates assignment management.
type AssignmentService struct {
	assignments assignmentRepo
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAssignmentService constructs AssignmentService.
func NewAssignmentService(assignments assignmentRepo, validate *validator.Validate, logger *zap.Logger) *AssignmentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AssignmentService{assignments: assignments, validator: validate, logger: logger}
}

// Create registers a new assignment.
func (s *AssignmentService) Create(ctx context.Context, req CreateAssignmentRequest) (*models.Assignment, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}

	status := req.Status
	if status == "" {
		status = models.AssignmentStatusDraft
	}

	assignment := &models.Assignment{
		CourseID:    req.CourseID,
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		MaxPoints:   req.MaxPoints,
		Type:        req.Type,
		Status:      status,
	}
	if err := s.assignments.Create(ctx, assignment); err != nil {
		return nil, mapStoreError(err, "assignment not found")
	}
	return assignment, nil
}

// Get returns an assignment by id.
func (s *AssignmentService) Get(ctx context.Context, id int64) (*models.Assignment, error) {
	assignment, err := s.assignments.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "assignment not found")
	}
	return assignment, nil
}

// ListByCourse returns a course's assignments ordered by due date.
func (s *AssignmentService) ListByCourse(ctx context.Context, courseID int64) ([]models.Assignment, error) {
	assignments, err := s.assignments.FindByCourse(ctx, courseID)
	if err != nil {
		return nil, mapStoreError(err, "assignments not found")
	}
	return assignments, nil
}

// List returns a page of assignments with course names.
func (s *AssignmentService) List(ctx context.Context, limit, offset int) ([]models.AssignmentDetail, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	assignments, err := s.assignments.List(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreError(err, "assignments not found")
	}
	return assignments, nil
}

// Update applies the whitelisted patch to an assignment.
func (s *AssignmentService) Update(ctx context.Context, id int64, patch models.AssignmentPatch) (*models.Assignment, error) {
	assignment, err := s.assignments.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "assignment not found")
	}
	return assignment, nil
}

// Delete hard-deletes an assignment. A missing id yields NotFound.
func (s *AssignmentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.assignments.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "assignment not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
	}
	return nil
}
