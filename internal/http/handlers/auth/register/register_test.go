package register

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, email, password, name string) (bool, error) {
	args := m.Called(ctx, email, password, name)
	return args.Bool(0), args.Error(1)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(m *ServiceMock)
		wantStatus int
		wantAdmin  bool
		wantError  string
	}{
		{
			name: "first account is admin",
			body: `{"email":"alice@example.com","password":"secret-one","name":"Alice"}`,
			setup: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "secret-one", "Alice").Return(true, nil).Once()
			},
			wantStatus: http.StatusCreated,
			wantAdmin:  true,
		},
		{
			name: "regular account",
			body: `{"email":"bob@example.com","password":"secret-two"}`,
			setup: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "bob@example.com", "secret-two", "").Return(false, nil).Once()
			},
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing password",
			body:       `{"email":"bob@example.com"}`,
			setup:      func(*ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "Email and password are required.",
		},
		{
			name:       "invalid json",
			body:       `not json`,
			setup:      func(*ServiceMock) {},
			wantStatus: http.StatusBadRequest,
			wantError:  "invalid request body",
		},
		{
			name: "duplicate email",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setup: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "pw", "").
					Return(false, models.ErrDuplicateIdentity).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantError:  "Email already registered.",
		},
		{
			name: "store failure",
			body: `{"email":"alice@example.com","password":"pw"}`,
			setup: func(m *ServiceMock) {
				m.On("Register", mock.Anything, "alice@example.com", "pw", "").Return(false, errors.New("db down")).Once()
			},
			wantStatus: http.StatusInternalServerError,
			wantError:  "Failed to register user.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			tt.setup(svc)
			handler := New(sl.Discard(), svc)

			req := httptest.NewRequest(http.MethodPost, "/api/auth/register", bytes.NewBufferString(tt.body))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
				assert.Equal(t, tt.wantError, body["message"])
				assert.Equal(t, "reqid123", body["request_id"])
			} else {
				assert.Equal(t, "Registration successful.", body["message"])
				assert.Equal(t, tt.wantAdmin, body["isAdmin"])
				assert.NotContains(t, rec.Body.String(), "secret")
			}
			svc.AssertExpectations(t)
		})
	}
}
