package login

import (
	"context"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Service описывает вход по email и паролю.
type Service interface {
	Login(ctx context.Context, email, password string) (string, *models.UserSummary, error)
}
