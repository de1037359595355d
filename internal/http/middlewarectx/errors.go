package middlewarectx

import (
	"net/http"

	"github.com/magabrotheeeer/invoicer/internal/http/response"
)

// ErrorDetails включает поле details в ответах с ошибкой. В боевом режиме
// подключается с enabled=false.
func ErrorDetails(enabled bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(response.WithDetails(r.Context(), enabled)))
		})
	}
}
