package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"arena/shared/timezone"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyJobName  = errors.New("job name is required")
	ErrEmptyCronExpr = errors.New("cron expression is required")
)

type Scheduler interface {
	AddJob(name, cronExpr string, task func(), options ...gocron.JobOption) (gocron.Job, error)
	Start()
	Stop() error
}

type schedulerImpl struct {
	scheduler gocron.Scheduler
	stopOnce  sync.Once
	stopErr   error
}

// New creates a scheduler that evaluates cron expressions in the application timezone.
func New() (Scheduler, error) {
	sched, err := gocron.NewScheduler(
		gocron.WithLocation(timezone.GetLocation()),
		gocron.WithGlobalJobOptions(
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithPanic(func(jobID uuid.UUID, jobName string, recoverData any) {
					log.Error().
						Str("job_id", jobID.String()).
						Str("job_name", jobName).
						Interface("panic", recoverData).
						Msg("Scheduler job panicked")
				}),
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	log.Info().Msg("Scheduler initialized")

	return &schedulerImpl{scheduler: sched}, nil
}

func (s *schedulerImpl) Start() {
	log.Info().Msg("Scheduler starting")
	s.scheduler.Start()
}

func (s *schedulerImpl) Stop() error {
	s.stopOnce.Do(func() {
		log.Info().Msg("Scheduler stopping")
		s.stopErr = s.scheduler.Shutdown()
	})

	if s.stopErr != nil {
		return fmt.Errorf("failed to stop scheduler: %w", s.stopErr)
	}

	return nil
}

// AddJob registers a cron job. Jobs run in singleton mode unless options say otherwise, so a
// slow run is never overlapped by the next tick.
func (s *schedulerImpl) AddJob(name, cronExpr string, task func(), options ...gocron.JobOption) (gocron.Job, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrEmptyJobName
	}

	if strings.TrimSpace(cronExpr) == "" {
		return nil, ErrEmptyCronExpr
	}

	jobLogger := log.With().Str("job_name", name).Str("cron", cronExpr).Logger()

	wrappedTask := func() {
		jobLogger.Debug().Msg("Scheduler job started")
		task()
		jobLogger.Debug().Msg("Scheduler job completed")
	}

	opts := append([]gocron.JobOption{
		gocron.WithName(name),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	}, options...)

	job, err := s.scheduler.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(wrappedTask),
		opts...,
	)
	if err != nil {
		jobLogger.Error().Err(err).Msg("Failed to register scheduler job")

		return nil, fmt.Errorf("failed to register job %s: %w", name, err)
	}

	jobLogger.Info().Msg("Scheduler job registered")

	return job, nil
}
