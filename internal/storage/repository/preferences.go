package repository

import (
	"context"
	"database/sql"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

// GetPreferences читает preferences пользователя.
func (s *Storage) GetPreferences(ctx context.Context, userID string) (models.Preferences, error) {
	const op = "storage.GetPreferences"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var prefs models.Preferences
	err := s.DB.QueryRowContext(ctx, `SELECT preferences FROM users WHERE id = $1`, userID).Scan(&prefs)
	if err != nil {
		return nil, wrap(op, err)
	}
	if prefs == nil {
		prefs = models.Preferences{}
	}
	return prefs, nil
}

// UpdatePreferences читает preferences под блокировкой строки, передаёт их в
// fn для изменения на месте и записывает документ целиком. Ошибка fn
// откатывает транзакцию и возвращается вызывающему без изменений.
// updated_at не трогается: он отражает изменения учётной записи, а не её
// коллекций.
func (s *Storage) UpdatePreferences(ctx context.Context, userID string, fn func(models.Preferences) error) error {
	const op = "storage.UpdatePreferences"
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var fnErr error
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		var prefs models.Preferences
		err := tx.QueryRowContext(ctx,
			`SELECT preferences FROM users WHERE id = $1 FOR UPDATE`, userID).Scan(&prefs)
		if err != nil {
			return err
		}
		if prefs == nil {
			prefs = models.Preferences{}
		}
		if fnErr = fn(prefs); fnErr != nil {
			return fnErr
		}
		_, err = tx.ExecContext(ctx,
			`UPDATE users SET preferences = $1::jsonb WHERE id = $2`, prefs, userID)
		return err
	})
	if fnErr != nil {
		return fnErr
	}
	return wrap(op, err)
}
