// Package response содержит вспомогательные типы и функции для формирования
// унифицированных JSON-ответов HTTP-обработчиков: ошибок, сообщений
// валидации и сопоставления доменных ошибок со статусами HTTP.
package response

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/invoicer/internal/models"
)

// StatusError — значение статуса для ответа с ошибкой.
const StatusError = "Error"

// Общие тексты ошибок аутентификации.
const (
	MsgAuthRequired = "Authentication required."
	MsgInvalidToken = "Invalid or expired token."
	MsgAdminOnly    = "Admin access required."
)

// ErrorResponse — тело ответа с ошибкой. Message дублирует Error для
// клиентов, читающих поле message. Details заполняется только вне боевого режима.
type ErrorResponse struct {
	Status    string `json:"status" example:"Error"`
	Error     string `json:"error" example:"Contact not found."`
	Message   string `json:"message" example:"Contact not found."`
	RequestID string `json:"request_id,omitempty" example:"host/abc-000001"`
	Details   string `json:"details,omitempty"`
}

// MessageResponse — тело ответа с текстовым сообщением.
type MessageResponse struct {
	Message string `json:"message" example:"Registration successful."`
}

// Error возвращает ErrorResponse с переданным сообщением.
func Error(msg string) ErrorResponse {
	return ErrorResponse{
		Status:  StatusError,
		Error:   msg,
		Message: msg,
	}
}

// ValidationError формирует сообщение из ошибок валидации.
// Каждое нарушение переводится в человекочитаемый текст, объединённый через запятую.
func ValidationError(errs validator.ValidationErrors) ErrorResponse {
	var errsMsgs []string

	for _, err := range errs {
		switch err.ActualTag() {
		case "required":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is a required field", err.Field()))
		case "email":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be a valid email", err.Field()))
		case "min":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must have at least %s element(s)", err.Field(), err.Param()))
		case "gte":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be greater than or equal to %s", err.Field(), err.Param()))
		case "oneof":
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s must be one of [%s]", err.Field(), err.Param()))
		default:
			errsMsgs = append(errsMsgs, fmt.Sprintf("field %s is not valid", err.Field()))
		}
	}
	return Error(strings.Join(errsMsgs, ", "))
}

type detailsKey struct{}

// WithDetails включает или выключает подробности ошибок для запроса.
func WithDetails(ctx context.Context, enabled bool) context.Context {
	return context.WithValue(ctx, detailsKey{}, enabled)
}

func detailsEnabled(ctx context.Context) bool {
	enabled, _ := ctx.Value(detailsKey{}).(bool)
	return enabled
}

// Fail отправляет ответ с ошибкой. Текст err попадает в details, только если
// это разрешено контекстом запроса.
func Fail(w http.ResponseWriter, r *http.Request, status int, msg string, err error) {
	body := Error(msg)
	body.RequestID = middleware.GetReqID(r.Context())
	if err != nil && detailsEnabled(r.Context()) {
		body.Details = err.Error()
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

// Invalid отправляет 400 с текстом нарушений валидации, если они есть в err,
// иначе с сообщением msg.
func Invalid(w http.ResponseWriter, r *http.Request, msg string, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		body := ValidationError(verrs)
		body.RequestID = middleware.GetReqID(r.Context())
		if detailsEnabled(r.Context()) {
			body.Details = body.Error
		}
		body.Error = msg
		body.Message = msg
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, body)
		return
	}
	Fail(w, r, http.StatusBadRequest, msg, err)
}

// StatusFor сопоставляет доменную ошибку со статусом HTTP.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, models.ErrInvalidInput),
		errors.Is(err, models.ErrDuplicateIdentity),
		errors.Is(err, models.ErrInvalidOperation),
		errors.Is(err, models.ErrAdminAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrUnauthenticated),
		errors.Is(err, models.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, models.ErrInvalidToken),
		errors.Is(err, models.ErrTokenExpired),
		errors.Is(err, models.ErrTokenMalformed),
		errors.Is(err, models.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Messages — тексты ответов для ошибок одной операции. Пустые поля
// заменяются общими формулировками.
type Messages struct {
	Invalid  string
	NotFound string
	Conflict string
	Internal string
}

// Problem отправляет ответ для доменной ошибки err и возвращает выбранный статус.
func Problem(w http.ResponseWriter, r *http.Request, err error, msgs Messages) int {
	status := StatusFor(err)
	switch status {
	case http.StatusBadRequest:
		if errors.Is(err, models.ErrDuplicateIdentity) || errors.Is(err, models.ErrAdminAlreadyExists) ||
			errors.Is(err, models.ErrInvalidOperation) {
			Fail(w, r, status, or(msgs.Conflict, "Invalid operation."), err)
			return status
		}
		Invalid(w, r, or(msgs.Invalid, "Invalid request."), err)
	case http.StatusUnauthorized:
		if errors.Is(err, models.ErrUnauthenticated) {
			Fail(w, r, status, MsgAuthRequired, err)
			return status
		}
		Fail(w, r, status, "Invalid email or password.", err)
	case http.StatusForbidden:
		if errors.Is(err, models.ErrForbidden) {
			Fail(w, r, status, "Forbidden.", err)
			return status
		}
		Fail(w, r, status, MsgInvalidToken, err)
	case http.StatusNotFound:
		Fail(w, r, status, or(msgs.NotFound, "Not found."), err)
	case http.StatusServiceUnavailable:
		Fail(w, r, status, "Service temporarily unavailable.", err)
	default:
		Fail(w, r, status, or(msgs.Internal, "Internal server error."), err)
	}
	return status
}

func or(msg, fallback string) string {
	if msg != "" {
		return msg
	}
	return fallback
}
