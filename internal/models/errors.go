package models

import "errors"

// Доменные ошибки. HTTP-слой сопоставляет их со статусами ответа,
// поэтому при оборачивании важно сохранять цепочку через %w.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthenticated    = errors.New("authentication required")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenMalformed     = errors.New("token malformed")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrDuplicateIdentity  = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAdminAlreadyExists = errors.New("admin already exists")
	ErrInvalidOperation   = errors.New("invalid operation")
	ErrUnavailable        = errors.New("service unavailable")
)
