package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"arena/infras/otel"
	"arena/infras/postgres"
	"arena/internal/domains/field/model"
	gDto "arena/shared/dto"
	gRepo "arena/shared/repository"

	"github.com/jmoiron/sqlx"
)

type Field interface {
	Insert(ctx context.Context, field model.Field) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Field, error)
	GetTx(ctx context.Context, sqltx *sqlx.Tx, filter gDto.FilterGroup, columns ...string) (model.Field, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Field, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Field]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Field {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Field](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
