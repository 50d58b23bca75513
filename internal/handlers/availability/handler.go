package availability

import (
	"net/http"

	"arena/infras/otel"
	"arena/internal/domains/availability/service"
	"arena/shared/constant"
	"arena/transport/http/middleware"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Availability
	otel    otel.Otel
}

func New(service service.Availability, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.With(middleware.UUIDParam(constant.RequestParamID)).Get("/fields/{id}/slots", handler.GetAvailableSlots)
}

// GetAvailableSlots lists the slot instances of a field on one date.
// @Summary Get available slots
// @Description Resolve the slots of a field on a date with price, booking and lock state.
// @Tags Availability
// @Produce json
// @Param id path string true "Field ID"
// @Param date query string true "Date (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetAvailableSlotsResponse] "Slot instances"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/fields/{id}/slots [get]
func (handler *Handler) GetAvailableSlots(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailableSlots")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)
	date := r.URL.Query().Get(constant.RequestParamDate)

	slots, err := handler.service.GetAvailableSlots(ctx, id, date)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("fieldID", id).Str("date", date).Msg("failed to get available slots")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, slots)
}
