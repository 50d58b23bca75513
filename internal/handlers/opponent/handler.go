package opponent

import (
	"net/http"

	"arena/infras/otel"
	bookingModel "arena/internal/domains/booking/model"
	"arena/internal/domains/opponent/model"
	"arena/internal/domains/opponent/model/dto"
	"arena/internal/domains/opponent/service"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/validator"
	"arena/transport/http/middleware"
	"arena/transport/http/response"

	"github.com/go-chi/chi/v5"

	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Opponent
	otel    otel.Otel
}

func New(service service.Opponent, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/opponents", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreatePost)
		routerGroup.Get("/", handler.GetOpenPosts)

		routerGroup.Route("/{id}", func(byID chi.Router) {
			byID.Use(middleware.UUIDParam(constant.RequestParamID))

			byID.Get("/", handler.GetPostByID)
			byID.Post("/match", handler.MatchPost)
			byID.Post("/unmatch", handler.UnmatchPost)
			byID.Post("/cancel", handler.CancelPost)
		})
	})
}

// CreatePost opens an opponent post on a pending or confirmed booking.
// @Summary Create an opponent post
// @Tags Opponent
// @Accept json
// @Produce json
// @Param request body dto.CreatePostRequest true "Create Post Request"
// @Success 201 {object} response.Data[dto.PostResponse] "Post created"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/opponents [post]
func (handler *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreatePost")
	defer scope.End()

	req := dto.CreatePostRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	post, err := handler.service.CreatePost(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create opponent post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, post)
}

// GetOpenPosts lists open posts, from today onward unless date_from is given.
// @Summary Get open opponent posts
// @Tags Opponent
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param skill_level query string false "Filter by skill level (beginner, intermediate, advanced)"
// @Param field_id query string false "Filter by field ID"
// @Param date_from query string false "Booking date from (YYYY-MM-DD)"
// @Param date_to query string false "Booking date to (YYYY-MM-DD)"
// @Success 200 {object} response.Data[dto.GetPostsResponse] "List of posts"
// @Failure 503 {object} response.Error
// @Router /v1/opponents [get]
func (handler *Handler) GetOpenPosts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOpenPosts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	query := r.URL.Query()
	filter := dto.ListOpenPostsFilter{
		SkillLevel: query.Get(model.FieldSkillLevel),
		FieldID:    query.Get(bookingModel.FieldFieldID),
		DateFrom:   query.Get(constant.RequestParamFrom),
		DateTo:     query.Get(constant.RequestParamTo),
	}

	posts, err := handler.service.ListOpenPosts(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get opponent posts")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, posts)
}

// GetPostByID retrieves a post.
// @Summary Get an opponent post by ID
// @Tags Opponent
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Data[dto.PostResponse] "Post details"
// @Failure 404 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/opponents/{id} [get]
func (handler *Handler) GetPostByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetPostByID")
	defer scope.End()

	post, err := handler.service.GetPost(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get opponent post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, post)
}

// MatchPost pairs the post with another open post.
// @Summary Match two opponent posts
// @Tags Opponent
// @Accept json
// @Produce json
// @Param id path string true "Post ID"
// @Param request body dto.MatchRequest true "Match Request"
// @Success 200 {object} response.Data[dto.MatchResponse] "Matched posts"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/opponents/{id}/match [post]
func (handler *Handler) MatchPost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".MatchPost")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.MatchRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	match, err := handler.service.MatchPosts(ctx, id, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to match opponent posts")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Post " + id + " matched with " + req.OpponentPostID)

	response.WithJSON(w, http.StatusOK, match)
}

// UnmatchPost dissolves a match.
// @Summary Unmatch an opponent post
// @Tags Opponent
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Data[dto.MatchResponse] "Reopened posts"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/opponents/{id}/unmatch [post]
func (handler *Handler) UnmatchPost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UnmatchPost")
	defer scope.End()

	match, err := handler.service.UnmatchPost(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to unmatch opponent post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, match)
}

// CancelPost withdraws a post.
// @Summary Cancel an opponent post
// @Tags Opponent
// @Produce json
// @Param id path string true "Post ID"
// @Success 200 {object} response.Data[dto.PostResponse] "Cancelled post"
// @Failure 404 {object} response.Error
// @Failure 422 {object} response.Error
// @Failure 503 {object} response.Error
// @Router /v1/opponents/{id}/cancel [post]
func (handler *Handler) CancelPost(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CancelPost")
	defer scope.End()

	post, err := handler.service.CancelPost(ctx, chi.URLParam(r, constant.RequestParamID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to cancel opponent post")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, post)
}
