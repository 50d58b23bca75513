package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"arena/config"
	"arena/infras/otel/mocks"
	pgMocks "arena/infras/postgres/mocks"
	fieldMocks "arena/internal/domains/field/mocks"
	fieldModel "arena/internal/domains/field/model"
	timeSlotMocks "arena/internal/domains/timeslot/mocks"
	"arena/internal/domains/timeslot/model"
	"arena/internal/domains/timeslot/model/dto"
	"arena/internal/domains/timeslot/service"
	cacheMocks "arena/shared/cache/mocks"
	gDto "arena/shared/dto"
	"arena/shared/failure"
)

func ptr[T any](v T) *T {
	return &v
}

func TestTimeSlotService_Upsert(t *testing.T) {
	fieldID := "field-1"
	morning := model.TimeSlot{ID: "slot-1", FieldID: ptr(fieldID), StartTime: "08:00:00", EndTime: "09:30:00", IsActive: true}
	otherField := model.TimeSlot{ID: "slot-2", FieldID: ptr("field-2"), StartTime: "08:00:00", EndTime: "10:00:00", IsActive: true}
	global := model.TimeSlot{ID: "slot-3", StartTime: "18:00:00", EndTime: "19:30:00", IsActive: true}

	tests := []struct {
		name      string
		id        string
		req       dto.UpsertTimeSlotRequest
		setupMock func(repo *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField)
		wantErr   error
	}{
		{
			name: "creates a slot adjacent to an existing one",
			req:  dto.UpsertTimeSlotRequest{FieldID: ptr(fieldID), StartTime: "09:30", EndTime: "11:00", WeekdayPrice: 100, WeekendPrice: 150},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField) {
				fields.EXPECT().Get(gomock.Any(), gomock.Any()).Return(fieldModel.Field{ID: fieldID}, nil)
				repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TimeSlot{morning, global}, nil)
				repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "rejects start after end",
			req:  dto.UpsertTimeSlotRequest{StartTime: "11:00", EndTime: "09:00"},
			setupMock: func(_ *timeSlotMocks.MockTimeSlot, _ *fieldMocks.MockField) {
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "rejects zero length",
			req:  dto.UpsertTimeSlotRequest{StartTime: "09:00", EndTime: "09:00"},
			setupMock: func(_ *timeSlotMocks.MockTimeSlot, _ *fieldMocks.MockField) {
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "rejects overlap in the same field",
			req:  dto.UpsertTimeSlotRequest{FieldID: ptr(fieldID), StartTime: "09:00", EndTime: "10:00"},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField) {
				fields.EXPECT().Get(gomock.Any(), gomock.Any()).Return(fieldModel.Field{ID: fieldID}, nil)
				repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TimeSlot{morning}, nil)
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "global slot overlaps a field slot",
			req:  dto.UpsertTimeSlotRequest{StartTime: "09:00", EndTime: "10:00"},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, _ *fieldMocks.MockField) {
				repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TimeSlot{otherField}, nil)
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "slots of different fields may overlap",
			req:  dto.UpsertTimeSlotRequest{FieldID: ptr(fieldID), StartTime: "10:00", EndTime: "11:00"},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField) {
				fields.EXPECT().Get(gomock.Any(), gomock.Any()).Return(fieldModel.Field{ID: fieldID}, nil)
				repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TimeSlot{morning, otherField}, nil)
				repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "inactive slot skips the overlap check",
			req:  dto.UpsertTimeSlotRequest{StartTime: "08:00", EndTime: "09:00", IsActive: ptr(false)},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, _ *fieldMocks.MockField) {
				repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name: "update does not collide with itself",
			id:   morning.ID,
			req:  dto.UpsertTimeSlotRequest{FieldID: ptr(fieldID), StartTime: "08:00", EndTime: "10:00", WeekdayPrice: 200},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField) {
				repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(morning, nil)
				fields.EXPECT().Get(gomock.Any(), gomock.Any()).Return(fieldModel.Field{ID: fieldID}, nil)
				repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return([]model.TimeSlot{morning}, nil)
				repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, mod map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, int64(200), mod[model.FieldWeekdayPrice])

					return nil
				})
			},
		},
		{
			name: "unknown field",
			req:  dto.UpsertTimeSlotRequest{FieldID: ptr("missing"), StartTime: "08:00", EndTime: "09:00"},
			setupMock: func(_ *timeSlotMocks.MockTimeSlot, fields *fieldMocks.MockField) {
				fields.EXPECT().Get(gomock.Any(), gomock.Any()).Return(fieldModel.Field{}, nil)
			},
			wantErr: failure.ErrNotFound,
		},
		{
			name: "unknown slot",
			id:   "missing",
			req:  dto.UpsertTimeSlotRequest{StartTime: "08:00", EndTime: "09:00"},
			setupMock: func(repo *timeSlotMocks.MockTimeSlot, _ *fieldMocks.MockField) {
				repo.EXPECT().GetTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.TimeSlot{}, nil)
			},
			wantErr: failure.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)

			repo := timeSlotMocks.NewMockTimeSlot(ctrl)
			fields := fieldMocks.NewMockField(ctrl)
			transactor := pgMocks.NewTransactor()
			svc := service.New(repo, fields, transactor, &config.Config{}, cacheMocks.NewCache(), mocks.NewOtel())

			repo.EXPECT().LockDefinitionsTx(gomock.Any(), gomock.Any()).Return(nil)
			tt.setupMock(repo, fields)

			res, err := svc.Upsert(context.Background(), tt.id, tt.req)

			assert.Equal(t, 1, transactor.Calls())

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.StartTime, res.StartTime)
			assert.Equal(t, tt.req.EndTime, res.EndTime)
		})
	}
}

func TestTimeSlotService_Upsert_LocksBeforeOverlapCheck(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := timeSlotMocks.NewMockTimeSlot(ctrl)
	svc := service.New(repo, fieldMocks.NewMockField(ctrl), pgMocks.NewTransactor(), &config.Config{}, cacheMocks.NewCache(), mocks.NewOtel())

	gomock.InOrder(
		repo.EXPECT().LockDefinitionsTx(gomock.Any(), gomock.Any()).Return(nil),
		repo.EXPECT().GetAllTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil),
		repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)

	_, err := svc.Upsert(context.Background(), "", dto.UpsertTimeSlotRequest{StartTime: "06:00", EndTime: "07:00"})
	require.NoError(t, err)

	t.Run("lock failure is a storage error", func(t *testing.T) {
		repo.EXPECT().LockDefinitionsTx(gomock.Any(), gomock.Any()).Return(errors.New("lock timeout"))

		_, err := svc.Upsert(context.Background(), "", dto.UpsertTimeSlotRequest{StartTime: "06:00", EndTime: "07:00"})
		assert.ErrorIs(t, err, failure.ErrStorage)
	})
}

func TestTimeSlotService_List(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := timeSlotMocks.NewMockTimeSlot(ctrl)
	svc := service.New(repo, fieldMocks.NewMockField(ctrl), pgMocks.NewTransactor(), &config.Config{}, cacheMocks.NewCache(), mocks.NewOtel())

	repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.TimeSlot, error) {
			where, _ := filter.GetWhereClause()
			assert.Contains(t, where, "time_slots.field_id IS NULL")
			assert.Contains(t, params.SortBy, "time_slots.start_time")

			return []model.TimeSlot{{ID: "slot-1", StartTime: "08:00:00", EndTime: "09:30:00"}}, nil
		})

	res, err := svc.List(context.Background(), "field-1")
	require.NoError(t, err)
	require.Len(t, res.TimeSlots, 1)
	assert.Equal(t, "08:00", res.TimeSlots[0].StartTime)
	assert.Equal(t, "09:30", res.TimeSlots[0].EndTime)
}
