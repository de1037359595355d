package me

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

	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Me(ctx context.Context, userID string) (*models.UserSummary, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*models.UserSummary)
	return user, args.Error(1)
}

func request(identity *middlewarectx.Identity) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	if identity != nil {
		req = req.WithContext(middlewarectx.WithIdentity(req.Context(), *identity))
	}
	return req
}

func TestMeHandler(t *testing.T) {
	caller := &middlewarectx.Identity{ID: "u-1", Email: "a@b.c", Role: models.RoleUser}

	tests := []struct {
		name       string
		identity   *middlewarectx.Identity
		setup      func(m *ServiceMock)
		wantStatus int
		wantError  string
	}{
		{
			name:     "ok",
			identity: caller,
			setup: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "u-1").Return(&models.UserSummary{ID: "u-1", Email: "a@b.c", Role: models.RoleUser}, nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "no identity",
			setup:      func(*ServiceMock) {},
			wantStatus: http.StatusUnauthorized,
			wantError:  "Authentication required.",
		},
		{
			name:     "user deleted",
			identity: caller,
			setup: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "u-1").Return(nil, models.ErrNotFound).Once()
			},
			wantStatus: http.StatusNotFound,
			wantError:  "User not found.",
		},
		{
			name:     "store failure",
			identity: caller,
			setup: func(m *ServiceMock) {
				m.On("Me", mock.Anything, "u-1").Return(nil, errors.New("boom")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to get user information.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setup(svc)
			rec := httptest.NewRecorder()
			New(sl.Discard(), svc).ServeHTTP(rec, request(tt.identity))

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			} else {
				assert.Equal(t, "u-1", body["id"])
				assert.Equal(t, "USER", body["role"])
			}
			svc.AssertExpectations(t)
		})
	}
}
