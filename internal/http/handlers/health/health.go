// Package health реализует проверку живости сервиса.
package health

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/render"

	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
)

// Pinger проверяет доступность зависимости.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Response — состояние сервиса.
type Response struct {
	Status      string    `json:"status" example:"healthy"`
	Environment string    `json:"environment" example:"local"`
	Timestamp   time.Time `json:"timestamp"`
}

// Handler обрабатывает GET /health.
type Handler struct {
	log *slog.Logger
	env string
	db  Pinger
	now func() time.Time
}

// New создает новый экземпляр Handler. db может быть nil.
func New(log *slog.Logger, env string, db Pinger) *Handler {
	return &Handler{log: log, env: env, db: db, now: time.Now}
}

// ServeHTTP godoc
// @Summary Проверка состояния
// @Tags Health
// @Produce json
// @Success 200 {object} Response
// @Failure 503 {object} Response
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	resp := Response{Status: "healthy", Environment: h.env, Timestamp: h.now().UTC()}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			h.log.Error("database ping failed", slog.String("op", op), sl.Err(err))
			resp.Status = "unhealthy"
			render.Status(r, http.StatusServiceUnavailable)
		}
	}
	render.JSON(w, r, resp)
}
