// Package logoget реализует HTTP-обработчик получения пути к логотипу.
package logoget

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

// Service описывает получение логотипа.
type Service interface {
	Get(ctx context.Context, userID string) (string, error)
}

// Response — путь к логотипу.
type Response struct {
	ImagePath string `json:"imagePath" example:"/uploads/3f1c9a.png"`
}

// Handler обрабатывает GET /upload/logo.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Путь к логотипу
// @Tags Logo
// @Produce json
// @Security BearerAuth
// @Success 200 {object} Response
// @Failure 404 {object} response.ErrorResponse "Логотип не загружен"
// @Router /upload/logo [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.logo.get"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := resource.Caller(w, r)
	if !ok {
		return
	}

	path, err := h.service.Get(r.Context(), userID)
	if err != nil {
		if response.Problem(w, r, err, response.Messages{
			NotFound: "No logo found.",
			Internal: "Failed to retrieve logo.",
		}) >= http.StatusInternalServerError {
			log.Error("failed to get logo", sl.Err(err))
		}
		return
	}

	render.JSON(w, r, Response{ImagePath: path})
}
