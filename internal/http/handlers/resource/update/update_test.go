package update

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Update(ctx context.Context, userID, id string, patch json.RawMessage) (models.Contact, error) {
	args := m.Called(ctx, userID, id, string(patch))
	return args.Get(0).(models.Contact), args.Error(1)
}

func newRequest(id, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPut, "/api/contacts/"+id, bytes.NewBufferString(body))
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", id)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	return req.WithContext(middlewarectx.WithIdentity(ctx, middlewarectx.Identity{ID: "u-1"}))
}

func TestUpdateHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("Update", mock.Anything, "u-1", "c-1", `{"phone":"555"}`).
		Return(models.Contact{Meta: models.Meta{ID: "c-1"}, Name: "Acme", Phone: "555"}, nil).Once()

	rec := httptest.NewRecorder()
	New[models.Contact](sl.Discard(), resource.Contacts, svc).ServeHTTP(rec, newRequest("c-1", "  {\"phone\":\"555\"}\n"))

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Acme", got.Name)
	assert.Equal(t, "555", got.Phone)
	svc.AssertExpectations(t)
}

func TestUpdateHandler_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantError  string
	}{
		{"array body", `[1,2]`, nil, http.StatusBadRequest, "invalid request body"},
		{"empty body", ``, nil, http.StatusBadRequest, "invalid request body"},
		{"malformed", `{"name":`, nil, http.StatusBadRequest, "invalid request body"},
		{"too large", `{"name":"` + strings.Repeat("a", MaxBodySize) + `"}`, nil, http.StatusBadRequest, "invalid request body"},
		{"not found", `{"name":"x"}`, models.ErrNotFound, http.StatusNotFound, "Contact not found."},
		{"cleared name", `{"name":""}`, fmt.Errorf("resource.Update: %w", models.ErrInvalidInput), http.StatusBadRequest, "Contact name is required."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(ServiceMock)
			if tt.err != nil {
				svc.On("Update", mock.Anything, "u-1", "c-1", tt.body).Return(models.Contact{}, tt.err).Once()
			}

			rec := httptest.NewRecorder()
			New[models.Contact](sl.Discard(), resource.Contacts, svc).ServeHTTP(rec, newRequest("c-1", tt.body))

			require.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantError, body["error"])
			svc.AssertExpectations(t)
		})
	}
}
