package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"reflect"
	"testing"

	otelMocks "arena/infras/otel/mocks"
	"arena/shared"
	"arena/shared/dto"
	"arena/shared/model"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execResult struct {
	affected int64
}

func (r execResult) LastInsertId() (int64, error) { return 0, nil }
func (r execResult) RowsAffected() (int64, error) { return r.affected, nil }

type recordingExecer struct {
	query    string
	args     any
	affected int64
	err      error
}

func (e *recordingExecer) NamedExecContext(_ context.Context, query string, arg interface{}) (sql.Result, error) {
	e.query = query
	e.args = arg

	if e.err != nil {
		return nil, e.err
	}

	return execResult{affected: e.affected}, nil
}

type slotRow struct {
	ID        string `db:"id"`
	FieldID   string `db:"field_id"`
	FieldName string `db:"field_name" table:"fields" column:"name"`
	model.Metadata
}

func TestGetColumns(t *testing.T) {
	columns, insertColumns := getColumns("bookings", reflect.TypeOf(slotRow{}))

	assert.Equal(t, []string{"id", "field_id", "created_at", "modified_at", "created_by", "modified_by"}, insertColumns)
	assert.Contains(t, columns, column{name: "name", table: "fields", alias: "field_name"})
	assert.Contains(t, columns, column{name: "id", table: "bookings"})
}

func TestPqErrorClassification(t *testing.T) {
	unique := fmt.Errorf("failed to insert data (booking): %w", &pq.Error{Code: "23505"})
	serial := &pq.Error{Code: "40001"}
	deadlock := &pq.Error{Code: "40P01"}

	assert.True(t, IsUniqueViolation(unique))
	assert.False(t, IsUniqueViolation(serial))
	assert.True(t, IsSerializationFailure(serial))
	assert.True(t, IsSerializationFailure(deadlock))
	assert.False(t, IsSerializationFailure(errors.New("boom")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestUpdate_ReportsAffectedRows(t *testing.T) {
	repo := Repository[slotRow]{otel: otelMocks.NewOtel(), table: "opponent_posts", entitas: "post"}

	guard := shared.FilterByID("p-1", "id", "opponent_posts")
	guard.AddArg("current_status", "status", "opponent_posts", dto.FilterOperatorIn, []string{"open"})

	tests := []struct {
		name     string
		execer   *recordingExecer
		expected int64
		wantErr  bool
	}{
		{name: "guard matched", execer: &recordingExecer{affected: 1}, expected: 1},
		{name: "guard lost the race", execer: &recordingExecer{affected: 0}, expected: 0},
		{name: "exec failure", execer: &recordingExecer{err: errors.New("conn reset")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			affected, err := repo.update(context.Background(), tt.execer, map[string]any{"status": "cancelled"}, guard)

			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, affected)
			assert.Equal(t,
				"UPDATE opponent_posts SET status = :status  WHERE (opponent_posts.id = :id AND opponent_posts.status IN (:current_status_0) ) ",
				tt.execer.query)
		})
	}
}

func TestUpdate_RequiresFilter(t *testing.T) {
	repo := Repository[slotRow]{otel: otelMocks.NewOtel(), table: "bookings", entitas: "booking"}

	_, err := repo.update(context.Background(), &recordingExecer{}, map[string]any{"status": "cancelled"}, dto.FilterGroup{})

	assert.ErrorIs(t, err, errRequiredFilter)
}
