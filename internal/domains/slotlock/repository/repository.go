package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"time"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/internal/domains/slotlock/model"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gRepo "arena/shared/repository"

	"github.com/jmoiron/sqlx"
)

type SlotLock interface {
	Upsert(ctx context.Context, lock model.SlotLock, conflictTarget string, updateColumns ...string) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.SlotLock, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.SlotLock, error)
	GetAllTx(ctx context.Context, sqltx *sqlx.Tx, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.SlotLock, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.SlotLock]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) SlotLock {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.SlotLock](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// UpdateColumns are overwritten when a lock or unlock hits an existing key.
var UpdateColumns = []string{model.FieldIsLocked, model.FieldReason, constant.FieldModifiedAt, constant.FieldModifiedBy}

// ForDate matches every row that can decide the lock state of the slots on date: their
// standing rows and the rows for that exact date.
func ForDate(date time.Time, timeSlotIDs ...string) gDto.FilterGroup {
	filter := gDto.And(
		gDto.Or(
			gDto.Filter{Field: model.FieldLockDate, Table: model.TableName, Operator: gDto.FilterIsNull},
			gDto.Filter{Field: model.FieldLockDate, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: date.Format(constant.DateOnlyFormat)},
		),
	)

	if len(timeSlotIDs) > 0 {
		filter.Filters = append(filter.Filters, gDto.Filter{
			Field:    model.FieldTimeSlotID,
			Table:    model.TableName,
			Operator: gDto.FilterOperatorIn,
			Value:    timeSlotIDs,
		})
	}

	return filter
}

// Key matches the single row stored for (timeSlotID, date). A nil date is the standing row.
func Key(timeSlotID string, date *time.Time) gDto.FilterGroup {
	filter := gDto.And(gDto.Filter{Field: model.FieldTimeSlotID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: timeSlotID})

	if date == nil {
		filter.Filters = append(filter.Filters, gDto.Filter{Field: model.FieldLockDate, Table: model.TableName, Operator: gDto.FilterIsNull})
	} else {
		filter.Add(model.FieldLockDate, model.TableName, gDto.FilterOperatorEq, date.Format(constant.DateOnlyFormat))
	}

	return filter
}

// ConflictTarget picks the partial unique index that owns the key.
func ConflictTarget(date *time.Time) string {
	if date == nil {
		return model.ConflictStanding
	}

	return model.ConflictDated
}
