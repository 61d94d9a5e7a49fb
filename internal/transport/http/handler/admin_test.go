package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/campus-trust-api/internal/config"
	"github.com/campus-trust-api/internal/domain"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserModerator struct{ mock.Mock }

func (m *mockUserModerator) Get(ctx context.Context, userID string) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if u, _ := args.Get(0).(*domain.User); u != nil {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserModerator) Update(ctx context.Context, userID string, updates map[string]interface{}) error {
	return m.Called(ctx, userID, updates).Error(0)
}

func adminRouter(users UserModerator) http.Handler {
	r := chi.NewRouter()
	h := NewAdminHandler(config.Load(), users)
	r.Get("/v1/admin/reports", h.Reports)
	r.Put("/v1/admin/users/{id}/verification", h.SetVerification)
	return r
}

func TestSetVerification_Updates(t *testing.T) {
	users := new(mockUserModerator)
	users.On("Get", mock.Anything, "u1").Return(&domain.User{UserID: "u1"}, nil)
	users.On("Update", mock.Anything, "u1", map[string]interface{}{
		"verification_status": domain.VerificationVerified,
	}).Return(nil)

	req := authedRequest(t, http.MethodPut, "/v1/admin/users/u1/verification",
		map[string]string{"status": "verified"})
	rr := httptest.NewRecorder()
	adminRouter(users).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	users.AssertExpectations(t)
}

func TestSetVerification_TrustedNotSettable(t *testing.T) {
	users := new(mockUserModerator)

	req := authedRequest(t, http.MethodPut, "/v1/admin/users/u1/verification",
		map[string]string{"status": "trusted"})
	rr := httptest.NewRecorder()
	adminRouter(users).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSetVerification_UnknownUser(t *testing.T) {
	users := new(mockUserModerator)
	users.On("Get", mock.Anything, "ghost").Return(nil, domain.ErrNotFound)

	req := authedRequest(t, http.MethodPut, "/v1/admin/users/ghost/verification",
		map[string]string{"status": "rejected"})
	rr := httptest.NewRecorder()
	adminRouter(users).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestReports_NamesEveryLimiter(t *testing.T) {
	req := authedRequest(t, http.MethodGet, "/v1/admin/reports", nil)
	rr := httptest.NewRecorder()
	adminRouter(new(mockUserModerator)).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	for _, name := range []string{
		config.LimiterPostSubmission,
		config.LimiterOTPRequest,
		config.LimiterDirectMessage,
	} {
		assert.Contains(t, rr.Body.String(), name)
	}
}
