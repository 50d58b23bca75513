package di

import (
	"context"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/infras/scheduler"
	"arena/internal/jobs/sweep"
	"arena/shared/event"
	"arena/transport/http"

	goRedis "github.com/redis/go-redis/v9"
)

// Application holds the HTTP server together with the background jobs and the
// dependencies that must be released on shutdown.
type Application struct {
	HTTP      *http.HTTP
	Sweep     *sweep.Job
	Scheduler scheduler.Scheduler
	Publisher event.Publisher
	Otel      otel.Otel
	DB        *postgres.Connection
	Redis     *goRedis.Client
}

// Run registers the background jobs and blocks serving HTTP.
func (a *Application) Run() error {
	if err := a.Sweep.Register(a.Scheduler); err != nil {
		return err //nolint:wrapcheck
	}

	a.HTTP.OnShutdown(func(context.Context) error { return a.DB.Close() })
	a.HTTP.OnShutdown(func(context.Context) error { return a.Redis.Close() })
	a.HTTP.OnShutdown(a.Otel.Shutdown)
	a.HTTP.OnShutdown(func(context.Context) error { return a.Publisher.Close() })
	a.HTTP.OnShutdown(func(context.Context) error { return a.Scheduler.Stop() })

	a.Scheduler.Start()
	a.HTTP.Serve()

	return nil
}
