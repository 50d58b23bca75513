package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/internal/domains/opponent/model"
	gDto "arena/shared/dto"
	gRepo "arena/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Post interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, post model.Post) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Post, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Post, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Post, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateAffected(ctx context.Context, req map[string]any, filter gDto.FilterGroup) (int64, error)
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Post]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Post {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Post](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ByBooking matches the post anchored to bookingID.
func ByBooking(bookingID string) gDto.FilterGroup {
	return gDto.And(gDto.Filter{
		Field:    model.FieldBookingID,
		Table:    model.TableName,
		Operator: gDto.FilterOperatorEq,
		Value:    bookingID,
	})
}

// WithStatus guards an update on the current status. The argument is renamed so it does
// not collide with a status value being written.
func WithStatus(filter gDto.FilterGroup, statuses ...model.Status) gDto.FilterGroup {
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}

	filter.AddArg("current_status", model.FieldStatus, model.TableName, gDto.FilterOperatorIn, values)

	return filter
}
