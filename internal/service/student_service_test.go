package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeStudentRepo struct {
	createdUser    *models.User
	createdStudent *models.Student
	byID           *models.Student
	byUserID       *models.Student
	byUserIDErr    error
	list           []models.StudentDetail
	updated        *models.Student
	deleted        bool
	err            error
}

func (f *fakeStudentRepo) CreateWithUser(_ context.Context, user *models.User, student *models.Student) error {
	if f.err != nil {
		return f.err
	}
	user.ID = 11
	student.ID = 5
	student.UserID = user.ID
	f.createdUser = user
	f.createdStudent = student
	return nil
}

func (f *fakeStudentRepo) FindByID(context.Context, int64) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

func (f *fakeStudentRepo) FindByUserID(context.Context, int64) (*models.Student, error) {
	if f.byUserIDErr != nil {
		return nil, f.byUserIDErr
	}
	return f.byUserID, nil
}

func (f *fakeStudentRepo) FindByStudentNumber(context.Context, string) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

func (f *fakeStudentRepo) List(context.Context, int, int) ([]models.StudentDetail, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeStudentRepo) Update(context.Context, int64, models.StudentPatch) (*models.Student, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeStudentRepo) Delete(context.Context, int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.deleted, nil
}

func validStudentRequest() CreateStudentRequest {
	return CreateStudentRequest{
		Username:      "s1001",
		Email:         "s1001@example.com",
		Password:      "s3cret-pass",
		FirstName:     "Amir",
		LastName:      "Diallo",
		StudentNumber: "S-1001",
		DateOfBirth:   time.Date(2010, 3, 14, 0, 0, 0, 0, time.UTC),
		Gender:        "M",
	}
}

func TestStudentServiceCreateLinksStudentRoleAccount(t *testing.T) {
	repo := &fakeStudentRepo{}
	svc := NewStudentService(repo, nil, nil)

	result, err := svc.Create(context.Background(), validStudentRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoleStudent, result.User.Role)
	assert.Equal(t, result.User.ID, result.Student.UserID)
	assert.Equal(t, models.StudentStatusActive, result.Student.Status)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(result.User.PasswordHash), []byte("s3cret-pass")))
}

func TestStudentServiceCreateRejectsShortPassword(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{}, nil, nil)

	req := validStudentRequest()
	req.Password = "short"
	_, err := svc.Create(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestStudentServiceGetAllowsStaffRoles(t *testing.T) {
	repo := &fakeStudentRepo{byID: &models.Student{ID: 5, UserID: 11}}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Get(context.Background(), &models.JWTClaims{UserID: 2, Role: models.RoleStaff}, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), student.ID)
}

func TestStudentServiceGetStudentOwnRecord(t *testing.T) {
	repo := &fakeStudentRepo{
		byID:     &models.Student{ID: 5, UserID: 11},
		byUserID: &models.Student{ID: 5, UserID: 11},
	}
	svc := NewStudentService(repo, nil, nil)

	student, err := svc.Get(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.NoError(t, err)
	assert.Equal(t, int64(5), student.ID)
}

func TestStudentServiceGetStudentOtherRecordForbidden(t *testing.T) {
	repo := &fakeStudentRepo{
		byID:     &models.Student{ID: 5, UserID: 12},
		byUserID: &models.Student{ID: 6, UserID: 11},
	}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Get(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestStudentServiceGetStudentWithoutLinkedRecordForbidden(t *testing.T) {
	repo := &fakeStudentRepo{
		byID:        &models.Student{ID: 5, UserID: 12},
		byUserIDErr: sql.ErrNoRows,
	}
	svc := NewStudentService(repo, nil, nil)

	_, err := svc.Get(context.Background(), &models.JWTClaims{UserID: 11, Role: models.RoleStudent}, 5)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestStudentServiceGetMissingStudent(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{err: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), nil, 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestStudentServiceDeleteMissingRowIsNotFound(t *testing.T) {
	svc := NewStudentService(&fakeStudentRepo{deleted: false}, nil, nil)

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
