package field

import (
	"net/http"

	"arena/infras/otel"
	"arena/internal/domains/field/model"
	"arena/internal/domains/field/model/dto"
	"arena/internal/domains/field/service"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/validator"
	"arena/transport/http/middleware"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Field
	otel    otel.Otel
}

func New(service service.Field, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get("/fields", handler.GetFields)
	router.With(middleware.UUIDParam(constant.RequestParamID)).Get("/fields/{id}", handler.GetFieldByID)
}

func (handler *Handler) AdminRouter(router chi.Router) {
	byID := middleware.UUIDParam(constant.RequestParamID)

	router.Route("/fields", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateField)
		routerGroup.With(byID).Put("/{id}", handler.UpdateField)
		routerGroup.With(byID).Delete("/{id}", handler.DeleteField)
	})
}

// CreateField handles the creation of a new field.
// @Summary Create a new field
// @Description Create a bookable field.
// @Tags Field
// @Accept json
// @Produce json
// @Param request body dto.UpsertFieldRequest true "Upsert Field Request"
// @Success 201 {object} response.Data[dto.FieldResponse] "Field created"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/fields [post]
// @Security ApiKeyAuth
func (handler *Handler) CreateField(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateField")
	defer scope.End()

	req := dto.UpsertFieldRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	field, err := handler.service.Upsert(ctx, constant.Empty, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create field")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Field created " + field.ID)

	response.WithJSON(writer, http.StatusCreated, field)
}

// GetFields retrieves fields.
// @Summary Get all fields
// @Description Retrieve fields with optional filtering and pagination.
// @Tags Field
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by name"
// @Param size query string false "Filter by size (small, medium, large)"
// @Param status query string false "Filter by status (available, maintenance, booked)"
// @Success 200 {object} response.Data[dto.GetFieldsResponse] "List of fields"
// @Failure 400 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/fields [get]
func (handler *Handler) GetFields(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFields")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.And()
	filterGroup.Add(model.FieldName, model.TableName, gDto.FilterOperatorLike, r.URL.Query().Get(model.FieldName))
	filterGroup.Add(model.FieldSize, model.TableName, gDto.FilterOperatorEq, r.URL.Query().Get(model.FieldSize))
	filterGroup.Add(model.FieldStatus, model.TableName, gDto.FilterOperatorEq, r.URL.Query().Get(model.FieldStatus))

	fields, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get fields")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, fields)
}

// GetFieldByID retrieves a field by its ID.
// @Summary Get a field by ID
// @Tags Field
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} response.Data[dto.FieldResponse] "Field details"
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/fields/{id} [get]
func (handler *Handler) GetFieldByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFieldByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	field, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get field by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, field)
}

// UpdateField replaces the attributes of a field.
// @Summary Update a field by ID
// @Tags Field
// @Accept json
// @Produce json
// @Param id path string true "Field ID"
// @Param request body dto.UpsertFieldRequest true "Upsert Field Request"
// @Success 200 {object} response.Data[dto.FieldResponse] "Field updated"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/fields/{id} [put]
// @Security ApiKeyAuth
func (handler *Handler) UpdateField(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateField")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpsertFieldRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	field, err := handler.service.Upsert(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update field")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, field)
}

// DeleteField soft deletes a field without pending or confirmed bookings.
// @Summary Delete a field by ID
// @Tags Field
// @Produce json
// @Param id path string true "Field ID"
// @Success 200 {object} response.Message "Field deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/admin/fields/{id} [delete]
// @Security ApiKeyAuth
func (handler *Handler) DeleteField(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteField")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete field")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Field deleted " + id)

	response.WithMessage(w, http.StatusOK, "Field deleted successfully")
}
