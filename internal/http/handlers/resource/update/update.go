// Package update реализует HTTP-обработчик изменения элемента коллекции.
//
// Тело запроса — частичный JSON-объект: присланные поля заменяют
// сохранённые, остальные остаются прежними. id и createdAt не меняются.
package update

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/http/handlers/resource"
	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// MaxBodySize ограничивает размер тела запроса на изменение.
const MaxBodySize = 1 << 20

var errNotObject = errors.New("request body must be a JSON object")

// Service описывает изменение элемента.
type Service[T any] interface {
	Update(ctx context.Context, userID, id string, patch json.RawMessage) (T, error)
}

// Handler обрабатывает PUT /{kind}/{id}.
type Handler[T any] struct {
	log     *slog.Logger
	kind    resource.Kind
	service Service[T]
}

// New создает новый экземпляр Handler для вида kind.
func New[T any](log *slog.Logger, kind resource.Kind, service Service[T]) *Handler[T] {
	return &Handler[T]{log: log, kind: kind, service: service}
}

// ServeHTTP применяет изменения к элементу и возвращает его новую версию.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.resource.update"

	log := h.log.With(
		slog.String("op", op),
		slog.String("kind", h.kind.Name),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	patch, err := readPatch(w, r)
	if err != nil {
		log.Info("invalid patch", sl.Err(err))
		response.Fail(w, r, http.StatusBadRequest, "invalid request body", err)
		return
	}

	id := chi.URLParam(r, "id")
	updated, err := h.service.Update(r.Context(), userID, id, patch)
	if err != nil {
		if response.Problem(w, r, err, h.kind.Messages("update "+h.kind.Name)) >= http.StatusInternalServerError {
			log.Error("failed to update item", slog.String("id", id), sl.Err(err))
		}
		return
	}

	log.Info("item updated", slog.String("id", id))
	render.JSON(w, r, updated)
}

func readPatch(w http.ResponseWriter, r *http.Request) (json.RawMessage, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxBodySize))
	if err != nil {
		return nil, err
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		return nil, errNotObject
	}
	return body, nil
}
