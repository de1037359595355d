package models

import "time"

// Ключи маршрутизации доменных событий.
const (
	EventUserRegistered  = "user.registered"
	EventUserRoleChanged = "user.role_changed"
	EventInvoiceCreated  = "invoice.created"
)

// UserRegisteredEvent публикуется после успешной регистрации.
type UserRegisteredEvent struct {
	UserID  string `json:"userId"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

// UserRoleChangedEvent публикуется после смены роли администратором.
type UserRoleChangedEvent struct {
	UserID    string `json:"userId"`
	Role      Role   `json:"role"`
	ChangedBy string `json:"changedBy"`
}

// InvoiceCreatedEvent публикуется после создания счёта.
type InvoiceCreatedEvent struct {
	UserID    string    `json:"userId"`
	InvoiceID string    `json:"invoiceId"`
	Client    string    `json:"client"`
	Total     float64   `json:"total"`
	CreatedAt time.Time `json:"createdAt"`
}
