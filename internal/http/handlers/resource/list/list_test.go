package list

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

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) List(ctx context.Context, userID string) ([]models.Contact, error) {
	args := m.Called(ctx, userID)
	items, _ := args.Get(0).([]models.Contact)
	return items, args.Error(1)
}

func asUser(req *http.Request, id string) *http.Request {
	return req.WithContext(middlewarectx.WithIdentity(req.Context(), middlewarectx.Identity{ID: id}))
}

func TestListHandler(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, "u-1").Return([]models.Contact{
		{Meta: models.Meta{ID: "c-1"}, Name: "Acme"},
		{Meta: models.Meta{ID: "c-2"}, Name: "Zeta"},
	}, nil).Once()

	rec := httptest.NewRecorder()
	h := New[models.Contact](sl.Discard(), resource.Contacts, svc)
	h.ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/contacts", nil), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []models.Contact
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "Acme", got[0].Name)
	svc.AssertExpectations(t)
}

func TestListHandler_Empty(t *testing.T) {
	svc := new(ServiceMock)
	svc.On("List", mock.Anything, "u-1").Return([]models.Contact{}, nil).Once()

	rec := httptest.NewRecorder()
	New[models.Contact](sl.Discard(), resource.Contacts, svc).
		ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/contacts", nil), "u-1"))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListHandler_Errors(t *testing.T) {
	t.Run("unauthenticated", func(t *testing.T) {
		svc := new(ServiceMock)
		rec := httptest.NewRecorder()
		New[models.Contact](sl.Discard(), resource.Contacts, svc).
			ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contacts", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
	})

	t.Run("store failure", func(t *testing.T) {
		svc := new(ServiceMock)
		svc.On("List", mock.Anything, "u-1").Return(nil, errors.New("boom")).Once()
		rec := httptest.NewRecorder()
		New[models.Contact](sl.Discard(), resource.Contacts, svc).
			ServeHTTP(rec, asUser(httptest.NewRequest(http.MethodGet, "/api/contacts", nil), "u-1"))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Contains(t, rec.Body.String(), "Failed to retrieve contacts.")
	})
}
