package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/invoicer/internal/migrations"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

func setupPostgres(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("invoicer"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := New(ctx, dsn, 5*time.Second)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, migrations.Run(s.DB, "../../../migrations"))
	return s
}

func TestStorageIntegration(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	first, err := s.RegisterUser(ctx, models.User{
		ID: uuid.NewString(), Email: "first@example.com", Name: "First", PasswordHash: "h1",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, first.Role)

	second, err := s.RegisterUser(ctx, models.User{
		ID: uuid.NewString(), Email: "second@example.com", PasswordHash: "h2",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, second.Role)
	assert.Empty(t, second.Name)

	_, err = s.RegisterUser(ctx, models.User{
		ID: uuid.NewString(), Email: "second@example.com", PasswordHash: "h3",
	})
	assert.ErrorIs(t, err, models.ErrDuplicateIdentity)

	users, err := s.ListUsers(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)

	_, err = s.GetUser(ctx, "not-a-uuid")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = s.PromoteFirstAdmin(ctx, "second@example.com")
	assert.ErrorIs(t, err, models.ErrAdminAlreadyExists)

	updated, err := s.UpdateUserRole(ctx, second.ID, models.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, updated.Role)

	require.NoError(t, s.SetUserImage(ctx, second.ID, "/uploads/logo.png"))
	got, err := s.GetUserByEmail(ctx, "second@example.com")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/logo.png", got.ImagePath)
	require.NoError(t, s.SetUserImage(ctx, second.ID, ""))
	got, err = s.GetUser(ctx, second.ID)
	require.NoError(t, err)
	assert.Empty(t, got.ImagePath)

	require.NoError(t, s.UpdatePreferences(ctx, second.ID, func(p models.Preferences) error {
		p[models.KeyContacts] = []byte(`[{"id":"c-1","name":"Bob"}]`)
		return nil
	}))
	afterPrefs, err := s.GetUser(ctx, second.ID)
	require.NoError(t, err)
	assert.True(t, afterPrefs.UpdatedAt.Equal(got.UpdatedAt))
	assert.JSONEq(t, `[{"id":"c-1","name":"Bob"}]`, string(afterPrefs.Preferences[models.KeyContacts]))
}

func TestStorageIntegration_PreferencesSerialized(t *testing.T) {
	s := setupPostgres(t)
	ctx := context.Background()

	u, err := s.RegisterUser(ctx, models.User{
		ID: uuid.NewString(), Email: "owner@example.com", PasswordHash: "h",
	})
	require.NoError(t, err)

	require.NoError(t, s.UpdatePreferences(ctx, u.ID, func(p models.Preferences) error {
		p["theme"] = []byte(`"dark"`)
		return nil
	}))

	const writers = 20
	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.UpdatePreferences(ctx, u.ID, func(p models.Preferences) error {
				items, err := models.Collection[models.Contact](p, models.KeyContacts)
				if err != nil {
					return err
				}
				items = append(items, models.Contact{Meta: models.Meta{ID: uuid.NewString()}, Name: "c"})
				return models.SetCollection(p, models.KeyContacts, items)
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	prefs, err := s.GetPreferences(ctx, u.ID)
	require.NoError(t, err)
	contacts, err := models.Collection[models.Contact](prefs, models.KeyContacts)
	require.NoError(t, err)
	assert.Len(t, contacts, writers)
	assert.JSONEq(t, `"dark"`, string(prefs["theme"]))
}
