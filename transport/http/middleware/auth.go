package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"

	"arena/config"
	"arena/infras/otel"
	"arena/shared/constant"
	"arena/shared/failure"
	"arena/transport/http/response"
)

// Auth guards the admin routes and carries the acting user into the request context.
type Auth interface {
	APIKey(next http.Handler) http.Handler
	User(next http.Handler) http.Handler
}

type authImpl struct {
	otel otel.Otel
	cfg  *config.Config
}

func NewAuthMiddleware(otel otel.Otel, cfg *config.Config) Auth {
	return &authImpl{
		otel: otel,
		cfg:  cfg,
	}
}

// APIKey rejects requests whose X-API-Key does not match APP_API_KEY. An empty configured
// key rejects every request.
func (m *authImpl) APIKey(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		_, scope := m.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, "api_key.middleware")

		apiKey := request.Header.Get(constant.RequestHeaderAPIKey)
		expected := m.cfg.App.APIKey

		if apiKey == "" || expected == "" || subtle.ConstantTimeCompare([]byte(apiKey), []byte(expected)) != 1 {
			err := failure.Unauthorized("invalid api key")

			scope.TraceError(err)
			scope.End()

			response.WithError(writer, err)

			return
		}

		scope.SetAttribute("http.source", "admin")
		scope.End()

		next.ServeHTTP(writer, request)
	})
}

// User stores X-User-ID as the acting user. Without it the system actor is recorded.
func (m *authImpl) User(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user := request.Header.Get(constant.RequestHeaderUserID)
		if user == "" {
			next.ServeHTTP(writer, request)

			return
		}

		ctx := context.WithValue(request.Context(), constant.ContextKeyUserID, user)

		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}
