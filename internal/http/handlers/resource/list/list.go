// Package list реализует HTTP-обработчик списка элементов коллекции пользователя.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Service описывает получение коллекции пользователя.
type Service[T any] interface {
	List(ctx context.Context, userID string) ([]T, error)
}

// Handler обрабатывает GET /{kind}.
type Handler[T any] struct {
	log     *slog.Logger
	kind    resource.Kind
	service Service[T]
}

// New создает новый экземпляр Handler для вида kind.
func New[T any](log *slog.Logger, kind resource.Kind, service Service[T]) *Handler[T] {
	return &Handler[T]{log: log, kind: kind, service: service}
}

// ServeHTTP возвращает все элементы коллекции вызывающего.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.list"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	items, err := h.service.List(r.Context(), userID)
	if err != nil {
		log.Error("failed to list items", sl.Err(err))
		response.Problem(w, r, err, h.kind.Messages("retrieve "+h.kind.Plural))
		return
	}

	log.Debug("items listed", slog.Int("count", len(items)))
	render.JSON(w, r, items)
}
