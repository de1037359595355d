// Package create реализует HTTP-обработчик добавления элемента в коллекцию пользователя.
//
// Присланные клиентом id и временные метки игнорируются: сервис назначает их сам.
package create

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Service описывает создание элемента.
type Service[T any] interface {
	Create(ctx context.Context, userID string, item T) (T, error)
}

// Handler обрабатывает POST /{kind}.
type Handler[T any] struct {
	log     *slog.Logger
	kind    resource.Kind
	service Service[T]
}

// New создает новый экземпляр Handler для вида kind.
func New[T any](log *slog.Logger, kind resource.Kind, service Service[T]) *Handler[T] {
	return &Handler[T]{log: log, kind: kind, service: service}
}

// ServeHTTP декодирует элемент из тела запроса и сохраняет его. Ответ — 201
// с сохранённым элементом.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	var item T
	if err := render.DecodeJSON(r.Body, &item); err != nil {
		if errors.Is(err, io.EOF) {
			response.Fail(w, r, http.StatusBadRequest, h.kind.Invalid, err)
			return
		}
		log.Error("failed to decode request body", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.service.Create(r.Context(), userID, item)
	if err != nil {
		if response.Problem(w, r, err, h.kind.Messages("create "+h.kind.Name)) >= http.StatusInternalServerError {
			log.Error("failed to create item", sl.Err(err))
		} else {
			log.Info("item rejected", sl.Err(err))
		}
		return
	}

	log.Info("item created")
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, created)
}
