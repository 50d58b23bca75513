package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"arena/infras/otel/mocks"
	availabilityMocks "arena/internal/domains/availability/mocks"
	"arena/internal/domains/availability/model"
	"arena/internal/domains/availability/service"
	bookingModel "arena/internal/domains/booking/model"
	fieldModel "arena/internal/domains/field/model"
	timeSlotModel "arena/internal/domains/timeslot/model"
	"arena/shared/failure"
)

func TestAvailabilityService_GetAvailableSlots(t *testing.T) {
	slots := []timeSlotModel.TimeSlot{
		{ID: "a", StartTime: "08:00:00", EndTime: "09:30:00", WeekdayPrice: 100000, WeekendPrice: 150000, IsActive: true},
		{ID: "b", StartTime: "08:00:00", EndTime: "09:30:00", WeekdayPrice: 90000, WeekendPrice: 90000, IsActive: true},
		{ID: "c", StartTime: "18:00:00", EndTime: "19:30:00", WeekdayPrice: 200000, WeekendPrice: 250000, IsActive: true},
	}

	tests := []struct {
		name      string
		date      string
		setupMock func(snapshot *availabilityMocks.MockSnapshot)
		wantErr   error
	}{
		{
			name: "saturday with a booked duplicate",
			date: "2099-01-03",
			setupMock: func(snapshot *availabilityMocks.MockSnapshot) {
				snapshot.EXPECT().Load(gomock.Any(), gomock.Nil(), "field-1", gomock.Any()).DoAndReturn(
					func(_ context.Context, _ any, _ string, date time.Time) (model.Input, error) {
						return model.Input{
							Field:     fieldModel.Field{ID: "field-1"},
							Date:      date,
							TimeSlots: slots,
							Bookings:  []bookingModel.Booking{{TimeSlotID: "c", Status: bookingModel.StatusConfirmed}},
						}, nil
					})
			},
		},
		{
			name:    "malformed date",
			date:    "03-01-2099",
			wantErr: failure.ErrValidation,
		},
		{
			name: "unknown field",
			date: "2099-01-03",
			setupMock: func(snapshot *availabilityMocks.MockSnapshot) {
				snapshot.EXPECT().Load(gomock.Any(), gomock.Nil(), "field-1", gomock.Any()).Return(model.Input{}, nil)
			},
			wantErr: failure.ErrNotFound,
		},
		{
			name: "storage failure",
			date: "2099-01-03",
			setupMock: func(snapshot *availabilityMocks.MockSnapshot) {
				snapshot.EXPECT().Load(gomock.Any(), gomock.Nil(), "field-1", gomock.Any()).Return(model.Input{}, errors.New("timeout"))
			},
			wantErr: failure.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			snapshot := availabilityMocks.NewMockSnapshot(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(snapshot)
			}

			svc := service.New(snapshot, mocks.NewOtel())

			res, err := svc.GetAvailableSlots(context.Background(), "field-1", tt.date)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.True(t, res.Weekend)
			assert.Equal(t, "2099-01-03", res.Date)
			require.Len(t, res.Slots, 2)

			assert.Equal(t, "a", res.Slots[0].TimeSlotID)
			assert.Equal(t, int64(150000), res.Slots[0].Price)
			assert.True(t, res.Slots[0].Available)

			assert.Equal(t, "c", res.Slots[1].TimeSlotID)
			assert.False(t, res.Slots[1].Available)
			assert.True(t, res.Slots[1].Booked)
		})
	}
}
