// Package setupadmin реализует разовое назначение первого администратора.
//
// Маршрут не требует аутентификации и работает, только пока в системе нет
// ни одного администратора.
package setupadmin

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Service описывает назначение первого администратора.
type Service interface {
	SetupAdmin(ctx context.Context, email string) (*models.UserSummary, error)
}

// Request — email пользователя, которого нужно сделать администратором.
type Request struct {
	Email string `json:"email" validate:"required"`
}

// Response — сообщение и обновлённая сводка пользователя.
type Response struct {
	Message string             `json:"message" example:"Admin user created successfully."`
	User    models.UserSummary `json:"user"`
}

// Handler обрабатывает POST /auth/setup-admin.
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
// @Summary Назначение первого администратора
// @Description Повышает пользователя до ADMIN, если администраторов ещё нет
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body Request true "Email пользователя"
// @Success 200 {object} Response
// @Failure 400 {object} response.ErrorResponse "Администратор уже существует"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse
// @Router /auth/setup-admin [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.setupadmin"

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
		response.Invalid(w, r, "Email is required.", err)
		return
	}

	user, err := h.service.SetupAdmin(r.Context(), req.Email)
	if err != nil {
		status := response.Problem(w, r, err, response.Messages{
			Invalid:  "Email is required.",
			NotFound: "User not found.",
			Conflict: "Admin user already exists.",
			Internal: "Failed to set up admin.",
		})
		if status >= http.StatusInternalServerError {
			log.Error("setup admin failed", sl.Err(err))
		} else {
			log.Warn("setup admin rejected", slog.String("email", req.Email), sl.Err(err))
		}
		return
	}

	log.Warn("user promoted through setup-admin", slog.String("user_id", user.ID))
	render.JSON(w, r, Response{Message: "Admin user created successfully.", User: *user})
}
