package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akili-edu/school-api/internal/models"
	appErrors "github.com/akili-edu/school-api/pkg/errors"
)

type fakeUserRepo struct {
	created *models.User
	byID    *models.User
	list    []models.User
	updated *models.User
	deleted bool
	err     error
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.err != nil {
		return f.err
	}
	user.ID = 1
	f.created = user
	return nil
}

func (f *fakeUserRepo) FindByID(context.Context, int64) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.byID, nil
}

func (f *fakeUserRepo) List(context.Context, int, int) ([]models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.list, nil
}

func (f *fakeUserRepo) Update(context.Context, int64, models.UserPatch) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.updated, nil
}

func (f *fakeUserRepo) Delete(context.Context, int64) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return f.deleted, nil
}

func TestUserServiceCreateHashesPassword(t *testing.T) {
	repo := &fakeUserRepo{}
	svc := NewUserService(repo, nil, nil)

	user, err := svc.Create(context.Background(), CreateUserRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret-pass",
		Role:      models.RoleTeacher,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestUserServiceCreateRejectsUnknownRole(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{}, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret-pass",
		Role:      "superuser",
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestUserServiceCreateMapsUniqueViolationToConflict(t *testing.T) {
	repo := &fakeUserRepo{err: &pq.Error{Code: "23505", Constraint: "users_username_key"}}
	svc := NewUserService(repo, nil, nil)

	_, err := svc.Create(context.Background(), CreateUserRequest{
		Username:  "jdoe",
		Email:     "jdoe@example.com",
		Password:  "s3cret-pass",
		Role:      models.RoleAdmin,
		FirstName: "Jane",
		LastName:  "Doe",
	})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)

	var pqErr *pq.Error
	assert.ErrorAs(t, err, &pqErr)
}

func TestUserServiceGetMapsMissingRow(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{err: sql.ErrNoRows}, nil, nil)

	_, err := svc.Get(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestUserServiceUpdateNoOpPassesThrough(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{err: appErrors.ErrNoFieldsToUpdate}, nil, nil)

	_, err := svc.Update(context.Background(), 1, models.UserPatch{})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNoFieldsToUpdate.Code, appErr.Code)
	assert.Equal(t, 400, appErr.Status)
}

func TestUserServiceDeleteMissingRowIsNotFound(t *testing.T) {
	svc := NewUserService(&fakeUserRepo{deleted: false}, nil, nil)

	err := svc.Delete(context.Background(), 99)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}
