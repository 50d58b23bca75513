package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/internal/domains/timeslot/model"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/logger"
	gRepo "arena/shared/repository"

	"github.com/jmoiron/sqlx"
)

type TimeSlot interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, slot model.TimeSlot) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.TimeSlot, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.TimeSlot, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TimeSlot, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.TimeSlot, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	LockDefinitionsTx(ctx context.Context, sqltx *sqlx.Tx) error
}

type repositoryImpl struct {
	gRepo.Repository[model.TimeSlot]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) TimeSlot {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.TimeSlot](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// LockDefinitionsTx takes the advisory lock every definition write holds until commit.
// A global definition shares a scope with every field, so there is one lock for the table.
func (r *repositoryImpl) LockDefinitionsTx(ctx context.Context, sqltx *sqlx.Tx) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+"."+model.EntityName+".LockDefinitionsTx")
	defer scope.End()

	query := "SELECT pg_advisory_xact_lock(hashtext($1))"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := sqltx.ExecContext(ctx, query, model.TableName); err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to lock time slot definitions: %w", err)
	}

	return nil
}

// ScopeFilter matches the definitions that apply to fieldID: its own and the global ones.
// An empty fieldID matches only global definitions.
func ScopeFilter(fieldID string) gDto.FilterGroup {
	global := gDto.Filter{Field: model.FieldFieldID, Table: model.TableName, Operator: gDto.FilterIsNull}

	if fieldID == "" {
		return gDto.And(global)
	}

	return gDto.Or(
		gDto.Filter{Field: model.FieldFieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: fieldID},
		global,
	)
}

// ActiveInScope is the ordered definition list used by availability and booking. The
// order start, end, id decides which duplicate is seen first.
func ActiveInScope(fieldID string) (gDto.QueryParams, gDto.FilterGroup) {
	params := gDto.QueryParams{
		SortBy:  model.TableName + "." + model.FieldStartTime + ", " + model.TableName + "." + model.FieldEndTime + ", " + model.TableName + "." + model.FieldID,
		SortDir: gDto.SortDirAsc,
	}

	filter := gDto.And(
		ScopeFilter(fieldID),
		gDto.Filter{Field: model.FieldIsActive, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: true},
	)

	return params, filter
}
