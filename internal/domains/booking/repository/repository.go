package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/internal/domains/booking/model"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gRepo "arena/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Booking interface {
	InsertTx(ctx context.Context, sqltx *sqlx.Tx, booking model.Booking) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetForUpdateTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	ExistTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, sqltx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// ActiveOn matches the bookings holding slots of fieldID on date. Every status except
// cancelled holds a slot, as in the partial unique index uq_bookings_active_slot.
// Pass timeSlotID to narrow the match to one slot.
func ActiveOn(fieldID string, date time.Time, timeSlotID string) gDto.FilterGroup {
	filter := gDto.And(
		gDto.Filter{Field: model.FieldFieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: fieldID},
		gDto.Filter{Field: model.FieldBookingDate, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: date.Format(constant.DateOnlyFormat)},
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorNotEq, Value: string(model.StatusCancelled)},
	)

	filter.Add(model.FieldTimeSlotID, model.TableName, gDto.FilterOperatorEq, timeSlotID)

	return filter
}

// HoldingField matches the pending or confirmed bookings that still reference fieldID.
func HoldingField(fieldID string) gDto.FilterGroup {
	return gDto.And(
		gDto.Filter{Field: model.FieldFieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: fieldID},
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorIn, Value: []string{string(model.StatusPending), string(model.StatusConfirmed)}},
		gDto.Filter{Field: model.FieldDeletedAt, Table: model.TableName, Operator: gDto.FilterIsNull},
	)
}
