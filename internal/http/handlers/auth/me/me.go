// Package me реализует HTTP-обработчик получения сводки текущего пользователя.
package me

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Service описывает получение сводки пользователя.
type Service interface {
	Me(ctx context.Context, userID string) (*models.UserSummary, error)
}

// Handler обрабатывает GET /auth/me.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Текущий пользователь
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.UserSummary
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Router /auth/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.me"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.MsgAuthRequired, nil)
		return
	}

	user, err := h.service.Me(r.Context(), id.ID)
	if err != nil {
		if response.Problem(w, r, err, response.Messages{
			NotFound: "User not found.",
			Internal: "Failed to get user information.",
		}) >= http.StatusInternalServerError {
			log.Error("failed to load user", sl.Err(err))
		}
		return
	}

	render.JSON(w, r, user)
}
