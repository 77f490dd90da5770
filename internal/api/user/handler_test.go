package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"gowms/internal/api/user"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, reg domain.UserRegistration) (domain.User, error) {
	args := m.Called(ctx, reg)
	return args.Get(0).(domain.User), args.Error(1)
}

func (m *MockUserService) Login(ctx context.Context, email, password string) (string, error) {
	args := m.Called(ctx, email, password)
	return args.String(0), args.Error(1)
}

func (m *MockUserService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(domain.User), args.Error(1)
}

func meRequest(claims *middleware.UserClaims) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if claims != nil {
		req = req.WithContext(middleware.WithUserClaims(req.Context(), *claims))
	}
	return req
}

func TestMeHandler_ReturnsUserFromClaims(t *testing.T) {
	svc := new(MockUserService)
	svc.On("CurrentUser", mock.Anything, "u-7").
		Return(domain.User{ID: "u-7", Email: "ana@gowms.local", PasswordHash: "hash", Role: domain.RoleAdmin}, nil).Once()
	h := user.NewHandler(svc, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.MeHandler(rec, meRequest(&middleware.UserClaims{UserID: "u-7", Role: domain.RoleAdmin}))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "u-7", body["id"])
	assert.Equal(t, "admin", body["role"])
	assert.NotContains(t, body, "password_hash")
	svc.AssertExpectations(t)
}

func TestMeHandler_WithoutClaims(t *testing.T) {
	svc := new(MockUserService)
	h := user.NewHandler(svc, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.MeHandler(rec, meRequest(nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	svc.AssertNotCalled(t, "CurrentUser", mock.Anything, mock.Anything)
}

func TestMeHandler_DeletedUser(t *testing.T) {
	svc := new(MockUserService)
	svc.On("CurrentUser", mock.Anything, "u-gone").
		Return(domain.User{}, apperror.NewUnauthorizedError("Usuário do token não existe mais.")).Once()
	h := user.NewHandler(svc, logger.NewLogger("error"))

	rec := httptest.NewRecorder()
	h.MeHandler(rec, meRequest(&middleware.UserClaims{UserID: "u-gone", Role: domain.RoleUser}))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
