package slotlock

import (
	"net/http"

	"arena/infras/otel"
	"arena/internal/domains/slotlock/model"
	"arena/internal/domains/slotlock/model/dto"
	"arena/internal/domains/slotlock/service"
	"arena/shared/constant"
	"arena/shared/failure"
	"arena/shared/timezone"
	"arena/shared/validator"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.SlotLock
	otel    otel.Otel
}

func New(service service.SlotLock, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/slot-locks", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetSlotLocks)
		routerGroup.Get("/status", handler.GetLockStatus)
		routerGroup.Post("/", handler.LockSlot)
		routerGroup.Delete("/", handler.UnlockSlot)
	})
}

// GetSlotLocks lists the lock entries of a time slot, standing entry first.
// @Summary Get slot locks
// @Tags SlotLock
// @Produce json
// @Param time_slot_id query string true "Time slot ID"
// @Success 200 {object} response.Data[dto.GetSlotLocksResponse] "Lock entries"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/slot-locks [get]
// @Security ApiKeyAuth
func (handler *Handler) GetSlotLocks(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetSlotLocks")
	defer scope.End()

	timeSlotID := r.URL.Query().Get(model.FieldTimeSlotID)
	if err := validator.ValidateID(model.FieldTimeSlotID, timeSlotID); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	locks, err := handler.service.List(ctx, timeSlotID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get slot locks")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, locks)
}

// GetLockStatus resolves whether a slot is locked on a date.
// @Summary Get lock status
// @Tags SlotLock
// @Produce json
// @Param time_slot_id query string true "Time slot ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.LockStatusResponse] "Lock status"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/slot-locks/status [get]
// @Security ApiKeyAuth
func (handler *Handler) GetLockStatus(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetLockStatus")
	defer scope.End()

	date, err := timezone.ParseDate(r.URL.Query().Get(constant.RequestParamDate))
	if err != nil {
		err = failure.Validation("date must be a date in YYYY-MM-DD format")
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	timeSlotID := r.URL.Query().Get(model.FieldTimeSlotID)
	if err = validator.ValidateID(model.FieldTimeSlotID, timeSlotID); err != nil {
		scope.TraceError(err)

		response.WithError(w, err)

		return
	}

	status, err := handler.service.IsLocked(ctx, timeSlotID, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get lock status")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, status)
}

// LockSlot locks a slot on one date, or on every date when lock_date is omitted.
// @Summary Lock a slot
// @Tags SlotLock
// @Accept json
// @Produce json
// @Param request body dto.LockRequest true "Lock Request"
// @Success 200 {object} response.Data[dto.SlotLockResponse] "Lock entry"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/slot-locks [post]
// @Security ApiKeyAuth
func (handler *Handler) LockSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".LockSlot")
	defer scope.End()

	req := dto.LockRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lock, err := handler.service.Lock(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to lock slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot locked " + req.TimeSlotID)

	response.WithJSON(w, http.StatusOK, lock)
}

// UnlockSlot clears a lock. A dated unlock overrides a standing lock for that date only.
// @Summary Unlock a slot
// @Tags SlotLock
// @Accept json
// @Produce json
// @Param request body dto.UnlockRequest true "Unlock Request"
// @Success 200 {object} response.Data[dto.SlotLockResponse] "Lock entry"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/slot-locks [delete]
// @Security ApiKeyAuth
func (handler *Handler) UnlockSlot(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnlockSlot")
	defer scope.End()

	req := dto.UnlockRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	lock, err := handler.service.Unlock(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unlock slot")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Slot unlocked " + req.TimeSlotID)

	response.WithJSON(w, http.StatusOK, lock)
}
