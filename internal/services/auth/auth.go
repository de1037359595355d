// Package auth содержит логику регистрации, входа и проверки токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/invoicer/internal/cache"
	"github.com/magabrotheeeer/invoicer/internal/lib/jwt"
	"github.com/magabrotheeeer/invoicer/internal/lib/password"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// RegisterUser сохраняет пользователя; роль назначает хранилище.
	RegisterUser(ctx context.Context, user models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	// PromoteFirstAdmin назначает администратора, если его ещё нет.
	PromoteFirstAdmin(ctx context.Context, email string) (*models.User, error)
}

// Cache описывает кэш сводок пользователей.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Invalidate(ctx context.Context, key string) error
}

// EventPublisher публикует доменные события.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, data any) error
}

// AuthService отвечает за регистрацию, вход и валидацию JWT.
type AuthService struct {
	log      *slog.Logger
	users    UserRepository
	jwtMaker jwt.Maker
	cache    Cache
	events   EventPublisher
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(log *slog.Logger, users UserRepository, jwtMaker jwt.Maker, c Cache, events EventPublisher) *AuthService {
	return &AuthService{
		log:      log,
		users:    users,
		jwtMaker: jwtMaker,
		cache:    c,
		events:   events,
	}
}

// Register создаёт пользователя и сообщает, стал ли он первым (администратором).
func (s *AuthService) Register(ctx context.Context, email, rawPassword, name string) (bool, error) {
	const op = "services.auth.Register"

	if strings.TrimSpace(email) == "" || rawPassword == "" {
		return false, fmt.Errorf("%s: %w: email and password are required", op, models.ErrInvalidInput)
	}
	hashed, err := password.Hash(rawPassword)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	created, err := s.users.RegisterUser(ctx, models.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	isAdmin := created.Role == models.RoleAdmin
	s.publish(ctx, models.EventUserRegistered, models.UserRegisteredEvent{
		UserID:  created.ID,
		Email:   created.Email,
		IsAdmin: isAdmin,
	})
	return isAdmin, nil
}

// Login проверяет пароль и выдаёт токен. Неизвестный email и неверный
// пароль неразличимы для вызывающего.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, *models.UserSummary, error) {
	const op = "services.auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}

	ok, err := password.Verify(user.PasswordHash, rawPassword)
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return "", nil, fmt.Errorf("%s: %w", op, models.ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", nil, fmt.Errorf("%s: %w", op, err)
	}
	summary := user.Summary()
	return token, &summary, nil
}

// Me возвращает сводку пользователя, по возможности из кэша.
func (s *AuthService) Me(ctx context.Context, userID string) (*models.UserSummary, error) {
	const op = "services.auth.Me"

	var summary models.UserSummary
	found, err := s.cache.Get(ctx, cache.UserKey(userID), &summary)
	if err != nil {
		s.log.Warn("cache read failed", slog.String("op", op), sl.Err(err))
	}
	if found {
		return &summary, nil
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	summary = user.Summary()
	if err = s.cache.Set(ctx, cache.UserKey(userID), summary); err != nil {
		s.log.Warn("cache write failed", slog.String("op", op), sl.Err(err))
	}
	return &summary, nil
}

// SetupAdmin назначает администратором пользователя с данным email,
// если в системе ещё нет администратора.
func (s *AuthService) SetupAdmin(ctx context.Context, email string) (*models.UserSummary, error) {
	const op = "services.auth.SetupAdmin"

	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%s: %w: email is required", op, models.ErrInvalidInput)
	}
	user, err := s.users.PromoteFirstAdmin(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, user.ID)
	s.publish(ctx, models.EventUserRoleChanged, models.UserRoleChangedEvent{
		UserID:    user.ID,
		Role:      user.Role,
		ChangedBy: "setup-admin",
	})
	summary := user.Summary()
	return &summary, nil
}

// ValidateToken проверяет подпись и срок действия токена.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	const op = "services.auth.ValidateToken"

	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, models.ErrInvalidToken, err)
	}
	return claims, nil
}

// CurrentRole возвращает актуальную роль пользователя из хранилища.
func (s *AuthService) CurrentRole(ctx context.Context, userID string) (models.Role, error) {
	const op = "services.auth.CurrentRole"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return user.Role, nil
}

func (s *AuthService) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, cache.UserKey(userID)); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("user_id", userID), sl.Err(err))
	}
}

// publish только логирует ошибку публикации.
func (s *AuthService) publish(ctx context.Context, routingKey string, data any) {
	if err := s.events.Publish(ctx, routingKey, data); err != nil {
		s.log.Warn("failed to publish event", slog.String("event", routingKey), sl.Err(err))
	}
}
