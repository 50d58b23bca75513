package timeslot

import (
	"net/http"

	"arena/infras/otel"
	"arena/internal/domains/timeslot/model"
	"arena/internal/domains/timeslot/model/dto"
	"arena/internal/domains/timeslot/service"
	"arena/shared/constant"
	"arena/shared/validator"
	"arena/transport/http/middleware"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.TimeSlot
	otel    otel.Otel
}

func New(service service.TimeSlot, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/time-slots", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetTimeSlots)
		routerGroup.With(middleware.UUIDParam(constant.RequestParamID)).Get("/{id}", handler.GetTimeSlotByID)
	})
}

func (handler *Handler) AdminRouter(router chi.Router) {
	router.Route("/time-slots", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateTimeSlot)
		routerGroup.With(middleware.UUIDParam(constant.RequestParamID)).Put("/{id}", handler.UpdateTimeSlot)
	})
}

// GetTimeSlots lists the active definitions, optionally scoped to a field.
// @Summary Get time slots
// @Tags TimeSlot
// @Produce json
// @Param field_id query string false "Definitions in the scope of this field"
// @Success 200 {object} response.Data[dto.GetTimeSlotsResponse] "List of time slots"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/time-slots [get]
func (handler *Handler) GetTimeSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeSlots")
	defer scope.End()

	fieldID := r.URL.Query().Get(model.FieldFieldID)
	if fieldID != constant.Empty {
		if err := validator.ValidateID(model.FieldFieldID, fieldID); err != nil {
			scope.TraceError(err)

			response.WithError(w, err)

			return
		}
	}

	slots, err := handler.service.List(ctx, fieldID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}

// GetTimeSlotByID retrieves a definition.
// @Summary Get a time slot by ID
// @Tags TimeSlot
// @Produce json
// @Param id path string true "Time slot ID"
// @Success 200 {object} response.Data[dto.TimeSlotResponse] "Time slot details"
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/time-slots/{id} [get]
func (handler *Handler) GetTimeSlotByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetTimeSlotByID")
	defer scope.End()

	slot, err := handler.service.Get(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get time slot by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slot)
}

// CreateTimeSlot defines a recurring slot, global when field_id is omitted.
// @Summary Create a time slot
// @Tags TimeSlot
// @Accept json
// @Produce json
// @Param request body dto.UpsertTimeSlotRequest true "Upsert Time Slot Request"
// @Success 201 {object} response.Data[dto.TimeSlotResponse] "Time slot created"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/time-slots [post]
// @Security ApiKeyAuth
func (handler *Handler) CreateTimeSlot(w http.ResponseWriter, r *http.Request) {
	handler.upsert(w, r, constant.Empty, http.StatusCreated)
}

// UpdateTimeSlot replaces a definition. Existing bookings keep their frozen price.
// @Summary Update a time slot
// @Tags TimeSlot
// @Accept json
// @Produce json
// @Param id path string true "Time slot ID"
// @Param request body dto.UpsertTimeSlotRequest true "Upsert Time Slot Request"
// @Success 200 {object} response.Data[dto.TimeSlotResponse] "Time slot updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/time-slots/{id} [put]
// @Security ApiKeyAuth
func (handler *Handler) UpdateTimeSlot(w http.ResponseWriter, r *http.Request) {
	handler.upsert(w, r, chi.URLParam(r, constant.RequestParamID), http.StatusOK)
}

func (handler *Handler) upsert(w http.ResponseWriter, r *http.Request, id string, code int) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpsertTimeSlot")
	defer scope.End()

	req := dto.UpsertTimeSlotRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	slot, err := handler.service.Upsert(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to save time slot")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, code, slot)
}
