// Package jwt реализует выпуск и проверку подписанных HS256 токенов доступа.
//
// Токен несёт идентификатор, email и роль пользователя. Сервер не хранит
// выданные токены: выход из системы — это удаление токена на клиенте.
package jwt

import (
	"time"
)

// DevelopmentSecret используется, если секрет не задан в конфигурации.
const DevelopmentSecret = "default_development_secret"

// DefaultTTL — время жизни токена по умолчанию.
const DefaultTTL = 24 * time.Hour

// Maker описывает выпуск и разбор токенов.
type Maker interface {
	GenerateToken(userID, email, role string) (string, error)
	ParseToken(tokenStr string) (*CustomClaims, error)
}

// MakerImpl подписывает токены общим секретом.
type MakerImpl struct {
	secretKey string
	tokenTTL  time.Duration
	now       func() time.Time
}

// NewJWTMaker создаёт MakerImpl. Пустой секрет заменяется на DevelopmentSecret,
// нулевой TTL — на DefaultTTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	if secretKey == "" {
		secretKey = DevelopmentSecret
	}
	if ttl == 0 {
		ttl = DefaultTTL
	}
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
		now:       time.Now,
	}
}

// TTL возвращает время жизни выпускаемых токенов.
func (j *MakerImpl) TTL() time.Duration {
	return j.tokenTTL
}
