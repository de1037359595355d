package userlist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	args := m.Called(ctx)
	users, _ := args.Get(0).([]models.UserSummary)
	return users, args.Error(1)
}

func TestUserListHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListUsers", mock.Anything).Return([]models.UserSummary{
		{ID: "u-2", Email: "bob@example.com", Role: models.RoleUser},
		{ID: "u-1", Email: "alice@example.com", Role: models.RoleAdmin},
	}, nil).Once()

	rec := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.UserSummary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "u-2", got[0].ID)
	assert.NotContains(t, rec.Body.String(), "password")
	svc.AssertExpectations(t)
}

func TestUserListHandler_Error(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("ListUsers", mock.Anything).Return(nil, errors.New("boom")).Once()

	rec := httptest.NewRecorder()
	New(sl.Discard(), svc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/users", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Failed to retrieve users.")
}
