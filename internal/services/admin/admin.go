// Package admin содержит операции администратора над учётными записями.
package admin

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/invoicer/internal/cache"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// UserRepository описывает операции хранилища, нужные администратору.
type UserRepository interface {
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.User, error)
}

// Invalidator сбрасывает закэшированную сводку пользователя.
type Invalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// Service управляет ролями пользователей.
type Service struct {
	log    *slog.Logger
	users  UserRepository
	cache  Invalidator
	events EventPublisher
}

// New создаёт сервис администратора.
func New(log *slog.Logger, users UserRepository, c Invalidator, events EventPublisher) *Service {
	return &Service{log: log, users: users, cache: c, events: events}
}

// ListUsers возвращает сводки всех пользователей, новые первыми.
func (s *Service) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	const op = "services.admin.ListUsers"

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.UserSummary, 0, len(users))
	for _, u := range users {
		result = append(result, u.Summary())
	}
	return result, nil
}

// SetRole меняет роль пользователя targetID. Администратор не может
// изменить собственную роль, независимо от запрошенного значения.
func (s *Service) SetRole(ctx context.Context, callerID, targetID string, role models.Role) (*models.UserSummary, error) {
	const op = "services.admin.SetRole"

	if callerID == targetID {
		return nil, fmt.Errorf("%s: %w: cannot change your own role", op, models.ErrInvalidOperation)
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%s: %w: invalid role %q", op, models.ErrInvalidInput, role)
	}

	user, err := s.users.UpdateUserRole(ctx, targetID, role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err = s.cache.Invalidate(ctx, cache.UserKey(user.ID)); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("op", op), sl.Err(err))
	}
	if err = s.events.Publish(ctx, models.EventUserRoleChanged, models.UserRoleChangedEvent{
		UserID:    user.ID,
		Role:      user.Role,
		ChangedBy: callerID,
	}); err != nil {
		s.log.Warn("failed to publish event", slog.String("op", op), sl.Err(err))
	}

	summary := user.Summary()
	return &summary, nil
}
