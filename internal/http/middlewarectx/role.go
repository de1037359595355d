package middlewarectx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/invoicer/internal/http/response"
	"github.com/magabrotheeeer/invoicer/internal/lib/sl"
	"github.com/magabrotheeeer/invoicer/internal/models"
)

// RoleSource возвращает текущую роль пользователя из хранилища.
type RoleSource interface {
	CurrentRole(ctx context.Context, userID string) (models.Role, error)
}

// RequireRole пропускает только пользователей с ролью role. Роль берётся из
// хранилища, а не из токена, поэтому смена роли действует сразу.
// Должен стоять после JWTMiddleware.
func RequireRole(log *slog.Logger, roles RoleSource, role models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequireRole"
			log := log.With(
				slog.String("op", op),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)

			id, ok := IdentityFrom(r.Context())
			if !ok {
				response.Fail(w, r, http.StatusUnauthorized, response.MsgAuthRequired, nil)
				return
			}

			current, err := roles.CurrentRole(r.Context(), id.ID)
			switch {
			case errors.Is(err, models.ErrNotFound):
				log.Info("token refers to a missing user", slog.String("user_id", id.ID))
				response.Fail(w, r, http.StatusForbidden, response.MsgAdminOnly, err)
				return
			case err != nil:
				log.Error("failed to load user role", sl.Err(err))
				response.Problem(w, r, err, response.Messages{})
				return
			}

			if current != role {
				log.Info("access denied", slog.String("user_id", id.ID), slog.String("role", string(current)))
				response.Fail(w, r, http.StatusForbidden, response.MsgAdminOnly, nil)
				return
			}

			id.Role = current
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
