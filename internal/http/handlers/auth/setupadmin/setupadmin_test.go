package setupadmin

import (
	"bytes"
	"context"
	"encoding/json"
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

func (m *ServiceMock) SetupAdmin(ctx context.Context, email string) (*models.UserSummary, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.UserSummary)
	return user, args.Error(1)
}

func TestSetupAdminHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		user       *models.UserSummary
		err        error
		call       bool
		wantStatus int
		wantText   string
	}{
		{
			name:       "promoted",
			body:       `{"email":"bob@example.com"}`,
			user:       &models.UserSummary{ID: "u-2", Email: "bob@example.com", Role: models.RoleAdmin},
			call:       true,
			wantStatus: http.StatusOK,
			wantText:   "Admin user created successfully.",
		},
		{
			name:       "admin exists",
			body:       `{"email":"bob@example.com"}`,
			err:        models.ErrAdminAlreadyExists,
			call:       true,
			wantStatus: http.StatusBadRequest,
			wantText:   "Admin user already exists.",
		},
		{
			name:       "unknown email",
			body:       `{"email":"bob@example.com"}`,
			err:        models.ErrNotFound,
			call:       true,
			wantStatus: http.StatusNotFound,
			wantText:   "User not found.",
		},
		{
			name:       "missing email",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantText:   "Email is required.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.call {
				svc.On("SetupAdmin", mock.Anything, "bob@example.com").Return(tt.user, tt.err).Once()
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/setup-admin", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantText, body["message"])
			if tt.user != nil {
				user, ok := body["user"].(map[string]any)
				require.True(t, ok)
				assert.Equal(t, "ADMIN", user["role"])
			}
			svc.AssertExpectations(t)
		})
	}
}
