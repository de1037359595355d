// Package remove реализует HTTP-обработчик удаления элемента коллекции.
package remove

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Service описывает удаление элемента.
type Service interface {
	Delete(ctx context.Context, userID, id string) error
}

// Handler обрабатывает DELETE /{kind}/{id}.
type Handler struct {
	log     *slog.Logger
	kind    resource.Kind
	service Service
}

// New создает новый экземпляр Handler для вида kind.
func New(log *slog.Logger, kind resource.Kind, service Service) *Handler {
	return &Handler{log: log, kind: kind, service: service}
}

// ServeHTTP удаляет элемент и отвечает 204. Повторное удаление даёт 404.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.remove"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		if response.Problem(w, r, err, h.kind.Messages("delete "+h.kind.Name)) >= http.StatusInternalServerError {
			log.Error("failed to delete item", slog.String("id", id), sl.Err(err))
		}
		return
	}

	log.Info("item deleted", slog.String("id", id))
	w.WriteHeader(http.StatusNoContent)
}
