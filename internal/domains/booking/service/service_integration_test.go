//go:build integration
// +build integration

package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"arena/config"
	"arena/infras/otel/mocks"
	"arena/infras/postgres"
	availabilityRepo "arena/internal/domains/availability/repository"
	"arena/internal/domains/booking/model/dto"
	bookingRepo "arena/internal/domains/booking/repository"
	"arena/internal/domains/booking/service"
	fieldRepo "arena/internal/domains/field/repository"
	opponentRepo "arena/internal/domains/opponent/repository"
	slotLockRepo "arena/internal/domains/slotlock/repository"
	timeSlotRepo "arena/internal/domains/timeslot/repository"
	"arena/internal/testutil"
	"arena/shared/constant"
	eventMocks "arena/shared/event/mocks"
	"arena/shared/failure"
	gRepo "arena/shared/repository"
	"arena/shared/timezone"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ledger struct {
	conn  *postgres.Connection
	repo  bookingRepo.Booking
	svc   service.Booking
	field string
	slot  string
	date  string
}

func setupLedgerIntegrationTest(t *testing.T) ledger {
	t.Helper()

	conn := testutil.NewPostgres(t)
	otl := mocks.NewOtel()

	cfg := &config.Config{}
	cfg.Booking.PaymentReferencePrefix = "ARENA"

	bookings := bookingRepo.New(conn, otl)
	timeSlots := timeSlotRepo.New(conn, otl)
	snapshot := availabilityRepo.New(fieldRepo.New(conn, otl), timeSlots, bookings, slotLockRepo.New(conn, otl), otl)

	l := ledger{
		conn:  conn,
		repo:  bookings,
		svc:   service.New(bookings, snapshot, opponentRepo.New(conn, otl), postgres.NewTransactor(conn), eventMocks.NewPublisher(), cfg, otl),
		field: uuid.NewString(),
		slot:  uuid.NewString(),
		date:  timezone.Format(timezone.Today().AddDate(0, 0, 1), constant.DateOnlyFormat),
	}

	ctx := context.Background()

	_, err := conn.Write.ExecContext(ctx,
		"INSERT INTO fields (id, name, size, base_rate, status) VALUES ($1, $2, $3, $4, $5)",
		l.field, "Pitch A", "medium", 100000, "available",
	)
	require.NoError(t, err, "insert field")

	_, err = conn.Write.ExecContext(ctx,
		"INSERT INTO time_slots (id, field_id, start_time, end_time, weekday_price, weekend_price) VALUES ($1, $2, $3, $4, $5, $6)",
		l.slot, l.field, "18:00:00", "19:30:00", 100000, 150000,
	)
	require.NoError(t, err, "insert time slot")

	return l
}

func (l ledger) request(phone string) dto.CreateBookingRequest {
	return dto.CreateBookingRequest{
		FieldID:       l.field,
		TimeSlotID:    l.slot,
		BookingDate:   l.date,
		CustomerName:  "Minh Tran",
		CustomerPhone: phone,
	}
}

func TestBookingService_Create_ConcurrentRequestsHoldOneSlot(t *testing.T) {
	l := setupLedgerIntegrationTest(t)

	const racers = 10

	var (
		wg      sync.WaitGroup
		start   = make(chan struct{})
		results = make([]error, racers)
	)

	for i := range racers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			<-start

			_, results[i] = l.svc.Create(context.Background(), l.request("+16502530000"))
		}()
	}

	close(start)
	wg.Wait()

	won := 0

	for _, err := range results {
		if err == nil {
			won++

			continue
		}

		assert.ErrorIs(t, err, failure.ErrSlotUnavailable)
	}

	assert.Equal(t, 1, won)

	var active int

	err := l.conn.Read.Get(&active,
		"SELECT COUNT(*) FROM bookings WHERE field_id = $1 AND time_slot_id = $2 AND booking_date = $3 AND status <> 'cancelled'",
		l.field, l.slot, l.date,
	)
	require.NoError(t, err)
	assert.Equal(t, 1, active)
}

func TestBookingService_Create_CancelledBookingFreesSlot(t *testing.T) {
	l := setupLedgerIntegrationTest(t)
	ctx := context.Background()

	first, err := l.svc.Create(ctx, l.request("+16502530000"))
	require.NoError(t, err)

	_, err = l.svc.Create(ctx, l.request("+16502530001"))
	require.ErrorIs(t, err, failure.ErrSlotUnavailable)

	_, err = l.svc.UpdateStatus(ctx, first.ID, dto.UpdateStatusRequest{Status: "cancelled"})
	require.NoError(t, err)

	_, err = l.svc.Create(ctx, l.request("+16502530001"))
	assert.NoError(t, err)
}

func TestBookingRepository_InsertTx_ActiveSlotIndex(t *testing.T) {
	l := setupLedgerIntegrationTest(t)
	ctx := context.Background()

	date, err := timezone.ParseDate(l.date)
	require.NoError(t, err)

	insert := func() error {
		req := l.request("+16502530000")
		booking := req.ToModel(date, 100000, "ARENA", constant.ContextSystem)

		return postgres.NewTransactor(l.conn).WithTx(ctx, nil, func(tx *sqlx.Tx) error {
			return l.repo.InsertTx(ctx, tx, booking)
		})
	}

	require.NoError(t, insert())

	err = insert()
	require.Error(t, err)
	assert.True(t, gRepo.IsUniqueViolation(err), "second active booking must hit uq_bookings_active_slot, got %v", err)
	assert.False(t, errors.Is(err, failure.ErrSlotUnavailable))
}
