package scheduler_test

import (
	"testing"

	"arena/infras/scheduler"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddJob(t *testing.T) {
	sched, err := scheduler.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = sched.Stop()
	})

	tests := []struct {
		name     string
		jobName  string
		cronExpr string
		err      error
		hasError bool
	}{
		{name: "valid", jobName: "sweep", cronExpr: "*/15 * * * *"},
		{name: "empty name", jobName: " ", cronExpr: "*/15 * * * *", err: scheduler.ErrEmptyJobName},
		{name: "empty cron", jobName: "sweep", cronExpr: "", err: scheduler.ErrEmptyCronExpr},
		{name: "malformed cron", jobName: "sweep", cronExpr: "not a cron", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job, err := sched.AddJob(tt.jobName, tt.cronExpr, func() {})

			switch {
			case tt.err != nil:
				assert.ErrorIs(t, err, tt.err)
			case tt.hasError:
				assert.Error(t, err)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.jobName, job.Name())
			}
		})
	}
}
