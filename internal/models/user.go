// Package models содержит доменные структуры приложения: пользователя,
// его настройки (preferences) и вложенные в них коллекции — контакты,
// счета, шаблоны и позиции каталога.
package models

import "time"

// Role — роль учётной записи.
type Role string

const (
	// RoleUser — обычный пользователь.
	RoleUser Role = "USER"
	// RoleAdmin — администратор.
	RoleAdmin Role = "ADMIN"
)

// Valid сообщает, является ли значение одной из известных ролей.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           string      // Уникальный идентификатор (uuid)
	Email        string      // Электронная почта, ключ для входа
	Name         string      // Отображаемое имя, может быть пустым
	PasswordHash string      // bcrypt-хэш пароля, наружу не отдаётся
	Role         Role        // USER или ADMIN
	ImagePath    string      // Путь к загруженному логотипу
	Preferences  Preferences // Вложенные коллекции пользователя
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserSummary — представление пользователя для клиента, без хэша пароля.
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	ImagePath string    `json:"imagePath,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Summary возвращает безопасное для отдачи клиенту представление.
func (u *User) Summary() UserSummary {
	return UserSummary{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		ImagePath: u.ImagePath,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
