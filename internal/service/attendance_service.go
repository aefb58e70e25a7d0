package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type attendanceRepo interface {
	Create(ctx context.Context, attendance *models.Attendance) error
	FindByID(ctx context.Context, id int64) (*models.Attendance, error)
	FindByStudentAndCourse(ctx context.Context, studentID, courseID int64) ([]models.Attendance, error)
	FindByCourseAndDate(ctx context.Context, courseID int64, date time.Time) ([]models.AttendanceWithStudent, error)
	Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

type studentLookup interface {
	FindByUserID(ctx context.Context, userID int64) (*models.Student, error)
}

// RecordAttendanceRequest is the payload for recording attendance.
type RecordAttendanceRequest struct {
	StudentID int64                   `json:"student_id" validate:"required"`
	CourseID  int64                   `json:"course_id" validate:"required"`
	Date      time.Time               `json:"date" validate:"required"`
	Status    models.AttendanceStatus `json:"status" validate:"required,oneof=present absent late excused"`
	Notes     *string                 `json:"notes"`
}

// AttendanceService orchestrates attendance records. Student callers are
// restricted to their own history.
type AttendanceService struct {
	attendance attendanceRepo
	students   studentLookup
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAttendanceService constructs AttendanceService.
func NewAttendanceService(attendance attendanceRepo, students studentLookup, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{attendance: attendance, students: students, validator: validate, logger: logger}
}

// Record creates an attendance entry.
func (s *AttendanceService) Record(ctx context.Context, req RecordAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}

	attendance := &models.Attendance{
		StudentID: req.StudentID,
		CourseID:  req.CourseID,
		Date:      req.Date,
		Status:    req.Status,
		Notes:     req.Notes,
	}
	if err := s.attendance.Create(ctx, attendance); err != nil {
		return nil, mapStoreError(err, "attendance record not found")
	}
	return attendance, nil
}

// Get returns an attendance record by id.
func (s *AttendanceService) Get(ctx context.Context, id int64) (*models.Attendance, error) {
	attendance, err := s.attendance.FindByID(ctx, id)
	if err != nil {
		return nil, mapStoreError(err, "attendance record not found")
	}
	return attendance, nil
}

// ListByStudentAndCourse returns a student's attendance history in one
// course, newest first. Student callers may only read their own history.
func (s *AttendanceService) ListByStudentAndCourse(ctx context.Context, caller *models.JWTClaims, studentID, courseID int64) ([]models.Attendance, error) {
	if err := s.checkOwnership(ctx, caller, studentID); err != nil {
		return nil, err
	}
	records, err := s.attendance.FindByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		return nil, mapStoreError(err, "attendance records not found")
	}
	return records, nil
}

// ListByCourseAndDate returns a course's attendance sheet for one day.
func (s *AttendanceService) ListByCourseAndDate(ctx context.Context, courseID int64, date time.Time) ([]models.AttendanceWithStudent, error) {
	records, err := s.attendance.FindByCourseAndDate(ctx, courseID, date)
	if err != nil {
		return nil, mapStoreError(err, "attendance records not found")
	}
	return records, nil
}

// Update applies the whitelisted patch to an attendance record.
func (s *AttendanceService) Update(ctx context.Context, id int64, patch models.AttendancePatch) (*models.Attendance, error) {
	attendance, err := s.attendance.Update(ctx, id, patch)
	if err != nil {
		return nil, mapStoreError(err, "attendance record not found")
	}
	return attendance, nil
}

// Delete hard-deletes an attendance record. A missing id yields NotFound.
func (s *AttendanceService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.attendance.Delete(ctx, id)
	if err != nil {
		return mapStoreError(err, "attendance record not found")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "attendance record not found")
	}
	return nil
}

func (s *AttendanceService) checkOwnership(ctx context.Context, caller *models.JWTClaims, studentID int64) error {
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
