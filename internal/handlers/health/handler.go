package health

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/shared/constant"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"
	goRedis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const checkTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

type Handler struct {
	checks map[string]Check
	otel   otel.Otel
}

func New(db *postgres.Connection, redis *goRedis.Client, otel otel.Otel) Handler {
	return WithChecks(map[string]Check{
		"postgres": func(ctx context.Context) error {
			return db.Write.PingContext(ctx) //nolint:wrapcheck
		},
		"redis": func(ctx context.Context) error {
			return redis.Ping(ctx).Err() //nolint:wrapcheck
		},
	}, otel)
}

func WithChecks(checks map[string]Check, otel otel.Otel) Handler {
	return Handler{
		checks: checks,
		otel:   otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/healthz", handler.Health)
}

// Health pings every dependency concurrently.
// @Summary Health check
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Failure 503 {object} response.Message
// @Router /healthz [get]
func (handler *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".Health")
	defer scope.End()

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	names := make([]string, 0, len(handler.checks))
	for name := range handler.checks {
		names = append(names, name)
	}

	sort.Strings(names)

	group, groupCtx := errgroup.WithContext(ctx)

	for _, name := range names {
		check := handler.checks[name]

		group.Go(func() error {
			if err := check(groupCtx); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("health check failed")

		response.WithUnhealthy(w)

		return
	}

	response.WithMessage(w, http.StatusOK, "OK")
}
