// Package repository реализует хранилище пользователей на PostgreSQL.
//
// Пользователь хранится одной строкой; его контакты, счета, шаблоны и
// каталог лежат в jsonb-колонке preferences. Изменения этих коллекций
// выполняются в транзакции с блокировкой строки пользователя, поэтому
// параллельные запросы одного пользователя не затирают друг друга.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	// Регистрация драйвера pgx для использования с database/sql.
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

// DefaultTimeout ограничивает одно обращение к базе, если таймаут не задан.
const DefaultTimeout = 5 * time.Second

// adminBootstrapLock — ключ pg_advisory_xact_lock, под которым выполняются
// назначение первого администратора и setup-admin.
const adminBootstrapLock int64 = 0x1e5c0_ad31

// Storage инкапсулирует пул соединений с PostgreSQL.
type Storage struct {
	DB      *sql.DB
	timeout time.Duration
}

// New открывает пул соединений и проверяет доступность базы.
func New(ctx context.Context, storageConnectionString string, timeout time.Duration) (*Storage, error) {
	const op = "storage.New"

	db, err := sql.Open("pgx", storageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxIdleTime(5 * time.Minute)

	s := NewWithDB(db, timeout)
	pingCtx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s, nil
}

// NewWithDB оборачивает готовое соединение.
func NewWithDB(db *sql.DB, timeout time.Duration) *Storage {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Storage{DB: db, timeout: timeout}
}

// Close закрывает пул соединений.
func (s *Storage) Close() error {
	return s.DB.Close()
}

// Ping проверяет соединение с базой.
func (s *Storage) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.DB.PingContext(ctx)
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.timeout)
}

// inTx выполняет fn в транзакции. Ошибка fn откатывает транзакцию.
func (s *Storage) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// wrap приводит ошибки драйвера к доменным и добавляет имя операции.
func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	case errors.Is(err, context.DeadlineExceeded):
		return fmt.Errorf("%s: %w: %w", op, models.ErrUnavailable, err)
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation:
		return fmt.Errorf("%s: %w", op, models.ErrDuplicateIdentity)
	case errors.As(err, &pgErr) && pgErr.Code == pgerrcode.InvalidTextRepresentation:
		// id не является uuid: такой записи заведомо нет.
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return fmt.Errorf("%s: %w", op, err)
}
