// Package userrole реализует HTTP-обработчик смены роли пользователя.
//
// Администратор не может менять собственную роль; допустимые роли — USER и ADMIN.
package userrole

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/middlewarectx"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// Service описывает смену роли.
type Service interface {
	SetRole(ctx context.Context, callerID, targetID string, role models.Role) (*models.UserSummary, error)
}

// Request — новая роль пользователя.
type Request struct {
	Role models.Role `json:"role" example:"ADMIN"`
}

// Handler обрабатывает PUT /admin/users/{id}/role.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Смена роли пользователя
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID пользователя"
// @Param request body Request true "Новая роль"
// @Success 200 {object} models.UserSummary
// @Failure 400 {object} response.ErrorResponse "Недопустимая роль или попытка сменить свою роль"
// @Failure 401 {object} response.ErrorResponse
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Failure 500 {object} response.ErrorResponse
// @Router /admin/users/{id}/role [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.admin.userrole"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	caller, ok := middlewarectx.IdentityFrom(r.Context())
	if !ok {
		response.Fail(w, r, http.StatusUnauthorized, response.MsgAuthRequired, nil)
		return
	}

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	targetID := chi.URLParam(r, "id")
	user, err := h.service.SetRole(r.Context(), caller.ID, targetID, req.Role)
	if err != nil {
		status := response.Problem(w, r, err, response.Messages{
			Invalid:  "Invalid role.",
			NotFound: "User not found.",
			Conflict: "Cannot change your own role.",
			Internal: "Failed to update user role.",
		})
		if status >= http.StatusInternalServerError {
			log.Error("failed to update role", sl.Err(err))
		} else {
			log.Info("role change rejected", slog.String("target_id", targetID), sl.Err(err))
		}
		return
	}

	log.Info("role changed",
		slog.String("target_id", targetID),
		slog.String("role", string(user.Role)),
		slog.String("changed_by", caller.ID),
	)
	render.JSON(w, r, user)
}
