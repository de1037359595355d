// Package logo управляет логотипом компании пользователя.
package logo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/invoicer/internal/cache"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
	"github.com/magabrotheeeer/invoicer/internal/storage/objectstore"
)

// DefaultMaxSize — предельный размер логотипа.
const DefaultMaxSize int64 = 5 << 20

var extPattern = regexp.MustCompile(`^\.[a-z0-9]{1,8}$`)

// UserRepository описывает операции хранилища пользователей.
type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*models.User, error)
	SetUserImage(ctx context.Context, userID, imagePath string) error
}

// Invalidator сбрасывает закэшированную сводку пользователя.
type Invalidator interface {
	Invalidate(ctx context.Context, key string) error
}

// Upload — загружаемый файл.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service сохраняет, отдаёт и удаляет логотипы.
type Service struct {
	log     *slog.Logger
	users   UserRepository
	store   objectstore.Store
	cache   Invalidator
	maxSize int64
}

// New создаёт сервис логотипов.
func New(log *slog.Logger, users UserRepository, store objectstore.Store, c Invalidator, maxSize int64) *Service {
	if maxSize <= 0 {
		maxSize = DefaultMaxSize
	}
	return &Service{log: log, users: users, store: store, cache: c, maxSize: maxSize}
}

// MaxSize возвращает предельный размер файла.
func (s *Service) MaxSize() int64 { return s.maxSize }

// Upload сохраняет изображение и делает его логотипом пользователя.
// Предыдущий логотип удаляется.
func (s *Service) Upload(ctx context.Context, userID string, up Upload) (string, error) {
	const op = "services.logo.Upload"

	if up.Size > s.maxSize {
		return "", fmt.Errorf("%s: %w: file exceeds %d bytes", op, models.ErrInvalidInput, s.maxSize)
	}
	if !strings.HasPrefix(up.ContentType, "image/") {
		return "", fmt.Errorf("%s: %w: only image files are allowed", op, models.ErrInvalidInput)
	}

	br := bufio.NewReaderSize(up.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	sniffed := http.DetectContentType(head)
	if !strings.HasPrefix(sniffed, "image/") {
		return "", fmt.Errorf("%s: %w: only image files are allowed", op, models.ErrInvalidInput)
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	key := uuid.NewString() + extension(up.Filename)
	path, err := s.store.Put(ctx, key, io.LimitReader(br, s.maxSize+1), up.Size, sniffed)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if err = s.users.SetUserImage(ctx, userID, path); err != nil {
		s.remove(ctx, path)
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if user.ImagePath != "" && user.ImagePath != path {
		s.remove(ctx, user.ImagePath)
	}
	s.invalidate(ctx, userID)
	return path, nil
}

// Get возвращает путь к логотипу или ErrNotFound.
func (s *Service) Get(ctx context.Context, userID string) (string, error) {
	const op = "services.logo.Get"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if user.ImagePath == "" {
		return "", fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return user.ImagePath, nil
}

// Delete отвязывает логотип от пользователя и удаляет объект.
func (s *Service) Delete(ctx context.Context, userID string) error {
	const op = "services.logo.Delete"

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if user.ImagePath == "" {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	if err = s.users.SetUserImage(ctx, userID, ""); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.remove(ctx, user.ImagePath)
	s.invalidate(ctx, userID)
	return nil
}

// remove удаляет объект; ошибка только логируется.
func (s *Service) remove(ctx context.Context, path string) {
	if err := s.store.Delete(ctx, path); err != nil {
		s.log.Warn("failed to delete logo object", slog.String("path", path), sl.Err(err))
	}
}

func (s *Service) invalidate(ctx context.Context, userID string) {
	if err := s.cache.Invalidate(ctx, cache.UserKey(userID)); err != nil {
		s.log.Warn("cache invalidate failed", slog.String("user_id", userID), sl.Err(err))
	}
}

func extension(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if !extPattern.MatchString(ext) {
		return ""
	}
	return ext
}
