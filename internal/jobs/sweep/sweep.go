package sweep

import (
	"context"
	"time"

	"arena/config"
	"arena/infras/otel"
	"arena/infras/scheduler"
	"arena/shared/constant"
	"arena/shared/timezone"

	"github.com/rs/zerolog/log"
)

const JobName = "opponent-post-sweep"

type PostExpirer interface {
	ExpireOpenPosts(ctx context.Context, before time.Time) (int, error)
}

type BookingCompleter interface {
	CompleteElapsed(ctx context.Context) (int, error)
}

// Job expires open posts whose booking day has passed and, when enabled, completes
// confirmed bookings whose slot has ended. Each run is idempotent.
type Job struct {
	posts    PostExpirer
	bookings BookingCompleter
	cfg      *config.Config
	otel     otel.Otel
}

func New(posts PostExpirer, bookings BookingCompleter, cfg *config.Config, otel otel.Otel) *Job {
	return &Job{
		posts:    posts,
		bookings: bookings,
		cfg:      cfg,
		otel:     otel,
	}
}

// Register adds the job to sched. It is a no-op when the sweep is disabled.
func (j *Job) Register(sched scheduler.Scheduler) error {
	if !j.cfg.Sweep.Enable {
		log.Info().Msg("Opponent post sweep disabled")

		return nil
	}

	if _, err := sched.AddJob(JobName, j.cfg.Sweep.Cron, func() {
		j.Run(context.Background())
	}); err != nil {
		return err //nolint:wrapcheck
	}

	return nil
}

type Result struct {
	Expired   int
	Completed int
}

func (j *Job) Run(ctx context.Context) (res Result) {
	ctx, scope := j.otel.NewScope(ctx, constant.OtelJobScopeName, constant.OtelJobScopeName+".Sweep.Run")
	defer scope.End()

	var err error

	if res.Completed, err = j.complete(ctx); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to complete elapsed bookings")
	}

	res.Expired, err = j.posts.ExpireOpenPosts(ctx, timezone.Today())
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to expire opponent posts")
	}

	log.Info().Int("expired", res.Expired).Int("completed", res.Completed).Msg("Opponent post sweep finished")

	return res
}

// complete runs before expiry so posts of finished bookings go through the booking cascade.
func (j *Job) complete(ctx context.Context) (int, error) {
	if !j.cfg.Sweep.AutoComplete {
		return 0, nil
	}

	return j.bookings.CompleteElapsed(ctx) //nolint:wrapcheck
}
