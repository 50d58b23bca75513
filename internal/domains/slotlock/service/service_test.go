package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"arena/infras/otel/mocks"
	slotLockMocks "arena/internal/domains/slotlock/mocks"
	"arena/internal/domains/slotlock/model"
	"arena/internal/domains/slotlock/model/dto"
	"arena/internal/domains/slotlock/service"
	timeSlotMocks "arena/internal/domains/timeslot/mocks"
	timeSlotModel "arena/internal/domains/timeslot/model"
	gDto "arena/shared/dto"
	"arena/shared/failure"
	"arena/shared/timezone"
)

func newService(t *testing.T) (service.SlotLock, *slotLockMocks.MockSlotLock, *timeSlotMocks.MockTimeSlot) {
	t.Helper()

	ctrl := gomock.NewController(t)
	repo := slotLockMocks.NewMockSlotLock(ctrl)
	slots := timeSlotMocks.NewMockTimeSlot(ctrl)

	return service.New(repo, slots, mocks.NewOtel()), repo, slots
}

func TestSlotLockService_Lock(t *testing.T) {
	tests := []struct {
		name         string
		req          dto.LockRequest
		wantConflict string
		wantDate     *string
	}{
		{
			name:         "standing lock",
			req:          dto.LockRequest{TimeSlotID: "slot-1", Reason: "resurfacing"},
			wantConflict: model.ConflictStanding,
		},
		{
			name:         "dated lock",
			req:          dto.LockRequest{TimeSlotID: "slot-1", LockDate: "2099-06-01", Reason: "tournament"},
			wantConflict: model.ConflictDated,
			wantDate:     func() *string { s := "2099-06-01"; return &s }(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, slots := newService(t)

			slots.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeSlotModel.TimeSlot{ID: "slot-1"}, nil)
			repo.EXPECT().Upsert(gomock.Any(), gomock.Any(), tt.wantConflict, gomock.Any()).DoAndReturn(
				func(_ context.Context, lock model.SlotLock, _ string, columns ...string) error {
					assert.True(t, lock.IsLocked)
					assert.Equal(t, tt.req.Reason, lock.Reason)
					assert.Contains(t, columns, model.FieldReason)

					return nil
				})
			repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.SlotLock{}, nil)

			res, err := svc.Lock(context.Background(), tt.req)
			require.NoError(t, err)
			assert.True(t, res.IsLocked)
			assert.Equal(t, tt.wantDate, res.LockDate)
		})
	}
}

func TestSlotLockService_LockErrors(t *testing.T) {
	t.Run("unknown slot", func(t *testing.T) {
		svc, _, slots := newService(t)
		slots.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeSlotModel.TimeSlot{}, nil)

		_, err := svc.Lock(context.Background(), dto.LockRequest{TimeSlotID: "missing"})
		assert.ErrorIs(t, err, failure.ErrNotFound)
	})

	t.Run("bad date", func(t *testing.T) {
		svc, _, _ := newService(t)

		_, err := svc.Lock(context.Background(), dto.LockRequest{TimeSlotID: "slot-1", LockDate: "06/01/2099"})
		assert.ErrorIs(t, err, failure.ErrValidation)
	})
}

func TestSlotLockService_Unlock(t *testing.T) {
	svc, repo, slots := newService(t)

	slots.EXPECT().Get(gomock.Any(), gomock.Any()).Return(timeSlotModel.TimeSlot{ID: "slot-1"}, nil)
	repo.EXPECT().Upsert(gomock.Any(), gomock.Any(), model.ConflictDated, gomock.Any()).DoAndReturn(
		func(_ context.Context, lock model.SlotLock, _ string, _ ...string) error {
			assert.False(t, lock.IsLocked)
			assert.Empty(t, lock.Reason)

			return nil
		})
	repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.SlotLock{ID: "lock-1", TimeSlotID: "slot-1"}, nil)

	res, err := svc.Unlock(context.Background(), dto.UnlockRequest{TimeSlotID: "slot-1", LockDate: "2099-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "lock-1", res.ID)
	assert.False(t, res.IsLocked)
}

func TestSlotLockService_IsLocked(t *testing.T) {
	date := time.Date(2099, 6, 1, 0, 0, 0, 0, timezone.GetLocation())
	standing := model.SlotLock{TimeSlotID: "slot-1", IsLocked: true, Reason: "closed for season"}
	override := model.SlotLock{TimeSlotID: "slot-1", LockDate: &date, IsLocked: false}

	tests := []struct {
		name       string
		locks      []model.SlotLock
		wantLocked bool
		wantReason string
	}{
		{name: "no rows", wantLocked: false},
		{name: "standing lock", locks: []model.SlotLock{standing}, wantLocked: true, wantReason: "closed for season"},
		{name: "dated unlock beats standing lock", locks: []model.SlotLock{standing, override}, wantLocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService(t)

			repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.SlotLock, error) {
					_, args := filter.GetWhereClause()
					assert.Equal(t, "2099-06-01", args[model.FieldLockDate])

					return tt.locks, nil
				})

			res, err := svc.IsLocked(context.Background(), "slot-1", date)
			require.NoError(t, err)
			assert.Equal(t, tt.wantLocked, res.Locked)
			assert.Equal(t, tt.wantReason, res.Reason)
			assert.Equal(t, "2099-06-01", res.Date)
		})
	}
}
