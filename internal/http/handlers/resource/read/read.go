// Package read реализует HTTP-обработчик получения элемента коллекции по ID.
package read

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Service описывает чтение элемента.
type Service[T any] interface {
	Get(ctx context.Context, userID, id string) (T, error)
}

// Handler обрабатывает GET /{kind}/{id}.
type Handler[T any] struct {
	log     *slog.Logger
	kind    resource.Kind
	service Service[T]
}

// New создает новый экземпляр Handler для вида kind.
func New[T any](log *slog.Logger, kind resource.Kind, service Service[T]) *Handler[T] {
	return &Handler[T]{log: log, kind: kind, service: service}
}

// ServeHTTP возвращает элемент вызывающего. Чужие и несуществующие
// элементы неразличимы: оба дают 404.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.read"

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
	item, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		if response.Problem(w, r, err, h.kind.Messages("retrieve "+h.kind.Name)) >= http.StatusInternalServerError {
			log.Error("failed to read item", slog.String("id", id), sl.Err(err))
		}
		return
	}

	render.JSON(w, r, item)
}
