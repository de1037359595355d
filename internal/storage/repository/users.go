package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

const userColumns = `id, email, name, password_hash, role, image_path, preferences, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var (
		u               models.User
		name, imagePath sql.NullString
		role            string
	)
	if err := row.Scan(&u.ID, &u.Email, &name, &u.PasswordHash, &role, &imagePath,
		&u.Preferences, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Name = name.String
	u.ImagePath = imagePath.String
	u.Role = models.Role(role)
	if u.Preferences == nil {
		u.Preferences = models.Preferences{}
	}
	return &u, nil
}

// RegisterUser сохраняет нового пользователя. Роль определяется внутри
// транзакции под advisory-блокировкой: первый пользователь в пустой
// таблице получает ADMIN, все остальные — USER. Поле user.Role игнорируется.
func (s *Storage) RegisterUser(ctx context.Context, user models.User) (*models.User, error) {
	const op = "storage.RegisterUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var created *models.User
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, adminBootstrapLock); err != nil {
			return err
		}
		var exists bool
		if err := tx.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM users)`).Scan(&exists); err != nil {
			return err
		}
		role := models.RoleUser
		if !exists {
			role = models.RoleAdmin
		}

		query := `INSERT INTO users (id, email, name, password_hash, role, preferences)
				  VALUES ($1, $2, NULLIF($3, ''), $4, $5, '{}'::jsonb)
				  RETURNING ` + userColumns
		u, err := scanUser(tx.QueryRowContext(ctx, query,
			user.ID, user.Email, user.Name, user.PasswordHash, string(role)))
		if err != nil {
			return err
		}
		created = u
		return nil
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return created, nil
}

// GetUserByEmail возвращает пользователя по email (с учётом регистра).
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUser возвращает пользователя по id.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей, новые первыми.
func (s *Storage) ListUsers(ctx context.Context) ([]*models.User, error) {
	const op = "storage.ListUsers"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.DB.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []*models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		result = append(result, u)
	}
	if err = rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return result, nil
}

// UpdateUserRole меняет роль пользователя и возвращает обновлённую запись.
func (s *Storage) UpdateUserRole(ctx context.Context, userID string, role models.Role) (*models.User, error) {
	const op = "storage.UpdateUserRole"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `UPDATE users SET role = $1, updated_at = NOW()
			  WHERE id = $2
			  RETURNING ` + userColumns
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, string(role), userID))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// PromoteFirstAdmin назначает администратором пользователя с данным email,
// только если в системе ещё нет ни одного администратора.
func (s *Storage) PromoteFirstAdmin(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.PromoteFirstAdmin"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var promoted *models.User
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, adminBootstrapLock); err != nil {
			return err
		}
		var exists bool
		if err := tx.QueryRowContext(ctx,
			`SELECT EXISTS (SELECT 1 FROM users WHERE role = 'ADMIN')`).Scan(&exists); err != nil {
			return err
		}
		if exists {
			return models.ErrAdminAlreadyExists
		}

		query := `UPDATE users SET role = 'ADMIN', updated_at = NOW()
				  WHERE email = $1
				  RETURNING ` + userColumns
		u, err := scanUser(tx.QueryRowContext(ctx, query, email))
		if err != nil {
			return err
		}
		promoted = u
		return nil
	})
	if err != nil {
		return nil, wrap(op, err)
	}
	return promoted, nil
}

// SetUserImage сохраняет путь к логотипу; пустая строка очищает его.
func (s *Storage) SetUserImage(ctx context.Context, userID, imagePath string) error {
	const op = "storage.SetUserImage"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.DB.ExecContext(ctx,
		`UPDATE users SET image_path = NULLIF($1, ''), updated_at = NOW() WHERE id = $2`,
		imagePath, userID)
	if err != nil {
		return wrap(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	return nil
}
