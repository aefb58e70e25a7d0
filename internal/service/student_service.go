package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type studentRepo interface {
	CreateWithUser(ctx context.Context, user *models.User, student *models.Student) error
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindByUserID(ctx context.Context, userID int64) (*models.Student, error)
	FindByStudentNumber(ctx context.Context, number string) (*models.Student, error)
	List(ctx context.Context, limit, offset int) ([]models.StudentDetail, error)
	Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// CreateStudentRequest carries the combined user + student payload. The
// linked account is always created in the student role.
type CreateStudentRequest struct {
	Username       string               `json:"username" validate:"required"`
	Email          string               `json:"email" validate:"required,email"`
	Password       string               `json:"password" validate:"required,min=8"`
	FirstName      string               `json:"first_name" validate:"required"`
	LastName       string               `json:"last_name" validate:"required"`
	Phone          *string              `json:"phone"`
	StudentNumber  string               `json:"student_number" validate:"required"`
	DateOfBirth    time.Time            `json:"date_of_birth" validate:"required"`
	Gender         string               `json:"gender" validate:"required,oneof=M F Other"`
	Address        *string              `json:"address"`
	ParentName     *string              `json:"parent_name"`
	ParentPhone    *string              `json:"parent_phone"`
	ParentEmail    *string              `json:"parent_email"`
	EnrollmentDate *time.Time           `json:"enrollment_date"`
	Status         models.StudentStatus `json:"status" validate:"omitempty,oneof=active inactive graduated suspended"`
}

// CreateStudentResult returns both created records.
type CreateStudentResult struct {
	Student *models.Student `json:"student"`
	User    *models.User    `json:"user"`
}

// StudentService orchestrates student management including the ownership
// rule for student callers.
type StudentService struct {
	students  studentRepo
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs StudentService.
func NewStudentService(students studentRepo, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{students: students, validator: validate, logger: logger}
}

// Create provisions the user account and student record atomically.
func (s *StudentService) Create(ctx context.Context, req CreateStudentRequest) (*CreateStudentResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         models.RoleStudent,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Phone:        req.Phone,
	}

	enrollmentDate := time.Now().UTC()
	if req.EnrollmentDate != nil {
		enrollmentDate = *req.EnrollmentDate
	}
	status := req.Status
	if status == "" {
		status = models.StudentStatusActive
	}

	student := &models.Student{
		StudentNumber:  req.StudentNumber,
		DateOfBirth:    req.DateOfBirth,
		Gender:         req.Gender,
		Address:        req.Address,
		ParentName:     req.ParentName,
		ParentPhone:    req.ParentPhone,
		ParentEmail:    req.ParentEmail,
		EnrollmentDate: enrollmentDate,
		Status:         status,
	}

	if err := s.students.CreateWithUser(ctx, user, student); err != nil {
		return nil, mapStoreError(err, "student not found")
	}

	s.logger.Info("student created",
		zap.Int64("student_id", student.ID),
		zap.Int64("user_id", user.ID),
		zap.String("student_number", student.StudentNumber))

	return &CreateStudentResult{Student: student, User: user}, nil
}

// Get returns a student by id. Student callers may only read their own
// record; the linked student row must match the requested id.
func (s *StudentService) Get(ctx context.Context, caller *models.JWTClaims, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "student not found")
	}

	if err := s.checkOwnership(ctx, caller, student.ID); err != nil {
		return nil, err
	}
	return student, nil
}

// List returns a page of students with user identity.
func (s *StudentService) List(ctx context.Context, limit, offset int) ([]models.StudentDetail, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	students, err := s.students.List(ctx, limit, offset)
	if err != nil {
		return nil, mapStoreError(err, "students not found")
	}
	return students, nil
}

// Update applies the whitelisted patch to a student.
func (s *StudentService) Update(ctx context.Context, id int64, patch models.StudentPatch) (*models.Student, error) {
	student, err := s.students.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "student not found")
	}
	return student, nil
}

// Delete hard-deletes a student. A missing id yields NotFound.
func (s *StudentService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.students.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "student not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	return nil
}

// checkOwnership enforces that a student-role caller targets their own
// student record. Other roles pass through; role gates live in the RBAC
// middleware.
func (s *StudentService) checkOwnership(ctx context.Context, caller *models.JWTClaims, studentID int64) error {
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
