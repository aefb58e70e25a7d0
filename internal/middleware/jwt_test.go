package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/akili-edu/school-api/internal/models"
	"github.com/akili-edu/school-api/internal/service"
)

type fakeAuthRepo struct {
	user *models.User
}

func (f *fakeAuthRepo) FindByUsername(context.Context, string) (*models.User, error) {
	return f.user, nil
}

func (f *fakeAuthRepo) FindByID(context.Context, int64) (*models.User, error) {
	return f.user, nil
}

func (f *fakeAuthRepo) CreateRefreshToken(context.Context, *models.RefreshToken) error {
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(context.Context, string) (*models.RefreshToken, error) {
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(context.Context, string) error {
	return nil
}

func jwtTestService(t *testing.T) (*service.AuthService, string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &fakeAuthRepo{user: &models.User{
		ID:           7,
		Username:     "jdoe",
		PasswordHash: string(hash),
		Role:         models.RoleTeacher,
	}}
	svc := service.NewAuthService(repo, nil, nil, service.AuthConfig{
		AccessTokenSecret:  "test-secret",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "school-api",
	})

	resp, err := svc.Login(context.Background(), models.LoginRequest{Username: "jdoe", Password: "secret123"})
	require.NoError(t, err)
	return svc, resp.AccessToken
}

func jwtRouter(svc *service.AuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", JWT(svc), func(c *gin.Context) {
		claims := c.MustGet(ContextUserKey).(*models.JWTClaims)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func TestJWTAcceptsValidToken(t *testing.T) {
	svc, token := jwtTestService(t)
	r := jwtRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":7`)
}

func TestJWTRejectsMissingHeader(t *testing.T) {
	svc, _ := jwtTestService(t)
	r := jwtRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsMalformedHeader(t *testing.T) {
	svc, token := jwtTestService(t)
	r := jwtRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Token "+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTRejectsGarbageToken(t *testing.T) {
	svc, _ := jwtTestService(t)
	r := jwtRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not.a.token")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
