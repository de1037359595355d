// Package register реализует HTTP-обработчик регистрации пользователя.
package register

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Request — входные данные для регистрации.
type Request struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	Name     string `json:"name,omitempty"`
}

// Response — ответ на успешную регистрацию.
type Response struct {
	Message string `json:"message" example:"Registration successful."`
	IsAdmin bool   `json:"isAdmin"`
}

// Handler обрабатывает POST /auth/register.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создаёт учётную запись. Первый зарегистрированный пользователь становится администратором.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email, пароль и имя"
// @Success 201 {object} Response
// @Failure 400 {object} response.ErrorResponse "Нет email/пароля или email занят"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/register [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", sl.Err(err))
		response.Invalid(w, r, "Email and password are required.", err)
		return
	}

	isAdmin, err := h.service.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, models.ErrDuplicateIdentity) {
			log.Info("email already registered", slog.String("email", req.Email))
		} else {
			log.Error("registration failed", sl.Err(err))
		}
		response.Problem(w, r, err, response.Messages{
			Invalid:  "Email and password are required.",
			Conflict: "Email already registered.",
			Internal: "Failed to register user.",
		})
		return
	}

	log.Info("user registered", slog.String("email", req.Email), slog.Bool("is_admin", isAdmin))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, Response{Message: "Registration successful.", IsAdmin: isAdmin})
}
