package middleware

import (
	"net/http"

	"arena/shared/validator"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"
)

// UUIDParam answers 400 when the named route parameter is not a UUID. Mount it with
// chi's With so the parameter is already resolved.
func UUIDParam(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := validator.ValidateID(name, chi.URLParam(r, name)); err != nil {
				response.WithError(w, err)

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
