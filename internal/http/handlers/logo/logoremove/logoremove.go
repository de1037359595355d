// Package logoremove реализует HTTP-обработчик удаления логотипа.
package logoremove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Service описывает удаление логотипа.
type Service interface {
	Delete(ctx context.Context, userID string) error
}

// Handler обрабатывает DELETE /upload/logo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Удаление логотипа
// @Tags Logo
// @Security BearerAuth
// @Success 204
// @Failure 404 {object} response.ErrorResponse "Логотип не загружен"
// @Router /upload/logo [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logo.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID); err != nil {
		if response.Problem(w, r, err, response.Messages{
			NotFound: "No logo found.",
			Internal: "Failed to delete logo.",
		}) >= http.StatusInternalServerError {
			log.Error("failed to delete logo", sl.Err(err))
		}
		return
	}

	log.Info("logo deleted")
	w.WriteHeader(http.StatusNoContent)
}
