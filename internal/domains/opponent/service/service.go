package service

import (
	"context"
	"fmt"
	"time"

	"arena/infras/otel"
	"arena/infras/postgres"
	bookingModel "arena/internal/domains/booking/model"
	bookingRepo "arena/internal/domains/booking/repository"
	"arena/internal/domains/opponent/model"
	"arena/internal/domains/opponent/model/dto"
	"arena/internal/domains/opponent/repository"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	"arena/shared/failure"
	gRepo "arena/shared/repository"
	"arena/shared/timezone"
	"arena/shared/validator"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

type Opponent interface {
	CreatePost(ctx context.Context, req dto.CreatePostRequest) (dto.PostResponse, error)
	MatchPosts(ctx context.Context, id string, req dto.MatchRequest) (dto.MatchResponse, error)
	UnmatchPost(ctx context.Context, id string) (dto.MatchResponse, error)
	CancelPost(ctx context.Context, id string) (dto.PostResponse, error)
	GetPost(ctx context.Context, id string) (dto.PostResponse, error)
	ListOpenPosts(ctx context.Context, req gDto.QueryParams, filter dto.ListOpenPostsFilter) (dto.GetPostsResponse, error)
	ExpireOpenPosts(ctx context.Context, before time.Time) (int, error)
}

type serviceImpl struct {
	repo        repository.Post
	bookingRepo bookingRepo.Booking
	transactor  postgres.Transactor
	otel        otel.Otel
}

func New(repo repository.Post, bookingRepo bookingRepo.Booking, transactor postgres.Transactor, otel otel.Otel) Opponent {
	return &serviceImpl{
		repo:        repo,
		bookingRepo: bookingRepo,
		transactor:  transactor,
		otel:        otel,
	}
}

func (s *serviceImpl) CreatePost(ctx context.Context, req dto.CreatePostRequest) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.CreatePost")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	req.Normalize()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	var post model.Post

	// The booking row stays locked until the post is inserted, so a concurrent cancel cascades onto it.
	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		booking, err := s.bookingRepo.GetForUpdateTx(ctx, tx, shared.FilterByIDNotDeleted(req.BookingID, bookingModel.FieldID, bookingModel.TableName))
		if err != nil {
			return failure.Storage(fmt.Errorf("failed to get booking: %w", err))
		}

		if booking.ID == constant.Empty {
			return failure.Validation("booking does not exist")
		}

		if !booking.Status.IsActive() {
			return failure.Validation("booking must be pending or confirmed to look for an opponent")
		}

		exist, err := s.repo.ExistTx(ctx, tx, repository.ByBooking(req.BookingID))
		if err != nil {
			return failure.Storage(fmt.Errorf("failed to check opponent post: %w", err))
		}

		if exist {
			return failure.Conflict("booking already has an opponent post")
		}

		post = req.ToModel(booking, shared.UserFromContext(ctx))

		if err := s.repo.InsertTx(ctx, tx, post); err != nil {
			if gRepo.IsUniqueViolation(err) {
				return failure.Conflict("booking already has an opponent post")
			}

			return failure.Storage(fmt.Errorf("failed to create opponent post: %w", err))
		}

		return nil
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindStorage {
			log.Error().Err(err).Str("bookingID", req.BookingID).Msg("failed to create opponent post")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	res.FromModel(post)

	return res, nil
}

// MatchPosts pairs two open posts. Both rows are locked in id order so two matches racing
// over the same posts cannot deadlock.
func (s *serviceImpl) MatchPosts(ctx context.Context, id string, req dto.MatchRequest) (res dto.MatchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.MatchPosts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	if id == req.OpponentPostID {
		return res, failure.Validation("a post cannot be matched with itself") // nolint:wrapcheck
	}

	user := shared.UserFromContext(ctx)

	var post, opponent model.Post

	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		first, second := id, req.OpponentPostID
		if second < first {
			first, second = second, first
		}

		locked := map[string]model.Post{}

		for _, postID := range []string{first, second} {
			row, err := s.getForUpdate(ctx, tx, postID)
			if err != nil {
				return err
			}

			if row.Status != model.StatusOpen {
				return failure.InvalidTransition(fmt.Sprintf("post %s is %s, only open posts can be matched", row.ID, row.Status))
			}

			locked[postID] = row
		}

		post, opponent = locked[id], locked[req.OpponentPostID]

		for _, pair := range [][2]*model.Post{{&post, &opponent}, {&opponent, &post}} {
			mod := map[string]any{
				model.FieldStatus:        string(model.StatusMatched),
				model.FieldMatchedPostID: pair[1].ID,
				constant.FieldModifiedAt: timezone.Now(),
				constant.FieldModifiedBy: user,
			}

			if err := s.repo.UpdateTx(ctx, tx, mod, shared.FilterByID(pair[0].ID, model.FieldID, model.TableName)); err != nil {
				return failure.Storage(fmt.Errorf("failed to match opponent post: %w", err))
			}

			partner := pair[1].ID
			pair[0].Status = model.StatusMatched
			pair[0].MatchedPostID = &partner
		}

		return nil
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Str("opponentID", req.OpponentPostID).Msg("failed to match opponent posts")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	res.Post.FromModel(post)
	res.Opponent.FromModel(opponent)

	return res, nil
}

// UnmatchPost dissolves a match and reopens both posts.
func (s *serviceImpl) UnmatchPost(ctx context.Context, id string) (res dto.MatchResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.UnmatchPost")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.UserFromContext(ctx)

	var post, opponent model.Post

	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if post, err = s.getForUpdate(ctx, tx, id); err != nil {
			return err
		}

		if post.Status != model.StatusMatched {
			return failure.InvalidTransition(fmt.Sprintf("post is %s, only matched posts can be unmatched", post.Status))
		}

		partnerID := post.MatchedPostID

		if err := s.reopen(ctx, tx, &post, user); err != nil {
			return err
		}

		if partnerID == nil {
			return nil
		}

		opponent, err = s.reopenPartner(ctx, tx, id, *partnerID, user)

		return err
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Msg("failed to unmatch opponent post")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	res.Post.FromModel(post)
	res.Opponent.FromModel(opponent)

	return res, nil
}

// CancelPost withdraws a post. A matched partner goes back to open.
func (s *serviceImpl) CancelPost(ctx context.Context, id string) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.CancelPost")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	user := shared.UserFromContext(ctx)

	var post model.Post

	err = s.transactor.WithTx(ctx, nil, func(tx *sqlx.Tx) error {
		if post, err = s.getForUpdate(ctx, tx, id); err != nil {
			return err
		}

		if !post.Status.CanTransitionTo(model.StatusCancelled) {
			return failure.InvalidTransition(fmt.Sprintf("cannot cancel a %s post", post.Status))
		}

		partnerID := post.MatchedPostID

		mod := map[string]any{
			model.FieldStatus:        string(model.StatusCancelled),
			model.FieldMatchedPostID: nil,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		if err := s.repo.UpdateTx(ctx, tx, mod, shared.FilterByID(post.ID, model.FieldID, model.TableName)); err != nil {
			return failure.Storage(fmt.Errorf("failed to cancel opponent post: %w", err))
		}

		post.Status = model.StatusCancelled
		post.MatchedPostID = nil

		if partnerID == nil {
			return nil
		}

		_, err := s.reopenPartner(ctx, tx, id, *partnerID, user)

		return err
	})
	if err != nil {
		if failure.GetKind(err) == failure.KindUnknown {
			log.Error().Err(err).Str("id", id).Msg("failed to cancel opponent post")
		}

		return res, failure.Storage(err) // nolint:wrapcheck
	}

	res.FromModel(post)

	return res, nil
}

func (s *serviceImpl) getForUpdate(ctx context.Context, tx *sqlx.Tx, id string) (model.Post, error) {
	post, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		return post, failure.Storage(fmt.Errorf("failed to get opponent post: %w", err))
	}

	if post.ID == constant.Empty {
		return post, failure.NotFound("opponent post not found") // nolint:wrapcheck
	}

	return post, nil
}

func (s *serviceImpl) reopen(ctx context.Context, tx *sqlx.Tx, post *model.Post, user string) error {
	mod := map[string]any{
		model.FieldStatus:        string(model.StatusOpen),
		model.FieldMatchedPostID: nil,
		constant.FieldModifiedAt: timezone.Now(),
		constant.FieldModifiedBy: user,
	}

	if err := s.repo.UpdateTx(ctx, tx, mod, shared.FilterByID(post.ID, model.FieldID, model.TableName)); err != nil {
		return failure.Storage(fmt.Errorf("failed to reopen opponent post: %w", err))
	}

	post.Status = model.StatusOpen
	post.MatchedPostID = nil

	return nil
}

// reopenPartner reopens partnerID when it still points back at id.
func (s *serviceImpl) reopenPartner(ctx context.Context, tx *sqlx.Tx, id, partnerID, user string) (model.Post, error) {
	partner, err := s.repo.GetForUpdateTx(ctx, tx, shared.FilterByID(partnerID, model.FieldID, model.TableName))
	if err != nil {
		return partner, failure.Storage(fmt.Errorf("failed to get matched opponent post: %w", err))
	}

	if partner.ID == constant.Empty || partner.Status != model.StatusMatched || !partner.MatchedWith(id) {
		return partner, nil
	}

	if err := s.reopen(ctx, tx, &partner, user); err != nil {
		return partner, err
	}

	return partner, nil
}

func (s *serviceImpl) GetPost(ctx context.Context, id string) (res dto.PostResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.GetPost")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	post, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get opponent post")

		return res, failure.Storage(fmt.Errorf("failed to get opponent post: %w", err))
	}

	if post.ID == constant.Empty {
		return res, failure.NotFound("opponent post not found") // nolint:wrapcheck
	}

	res.FromModel(post)

	return res, nil
}

// ListOpenPosts lists open posts. Without a lower date bound only posts for today and later
// are listed.
func (s *serviceImpl) ListOpenPosts(ctx context.Context, req gDto.QueryParams, filter dto.ListOpenPostsFilter) (res dto.GetPostsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.ListOpenPosts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	if filter.DateFrom == constant.Empty {
		filter.DateFrom = timezone.Today().Format(constant.DateOnlyFormat)
	}

	req.Sanitize(bookingModel.FieldBookingDate, model.FieldSkillLevel, model.FieldPlayerCount, constant.FieldCreatedAt)

	switch req.SortBy {
	case constant.Empty:
		req.SortBy, req.SortDir = bookingModel.TableName+"."+bookingModel.FieldBookingDate, gDto.SortDirAsc
	case bookingModel.FieldBookingDate:
		req.SortBy = bookingModel.TableName + "." + req.SortBy
	default:
		req.SortBy = model.TableName + "." + req.SortBy
	}

	where := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to count opponent posts")

		return res, failure.Storage(fmt.Errorf("failed to count opponent posts: %w", err))
	}

	models, err := s.repo.GetAll(ctx, req, where)
	if err != nil {
		log.Error().Err(err).Msg("failed to get opponent posts")

		return res, failure.Storage(fmt.Errorf("failed to get opponent posts: %w", err))
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

// ExpireOpenPosts cancels the open posts whose booking date is before the given day. The
// update is guarded on the open status, so running it twice changes nothing.
func (s *serviceImpl) ExpireOpenPosts(ctx context.Context, before time.Time) (expired int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Opponent.ExpireOpenPosts")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	lastDay := timezone.Date(before).AddDate(0, 0, -1).Format(constant.DateOnlyFormat)

	filter := dto.ListOpenPostsFilter{DateTo: lastDay}.ToFilterGroup()

	posts, err := s.repo.GetAll(ctx, gDto.QueryParams{}, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get expired opponent posts")

		return 0, failure.Storage(fmt.Errorf("failed to get expired opponent posts: %w", err))
	}

	for _, post := range posts {
		mod := map[string]any{
			model.FieldStatus:        string(model.StatusCancelled),
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: constant.ContextSystem,
		}

		guard := repository.WithStatus(shared.FilterByID(post.ID, model.FieldID, model.TableName), model.StatusOpen)

		affected, err := s.repo.UpdateAffected(ctx, mod, guard)
		if err != nil {
			log.Error().Err(err).Str("id", post.ID).Msg("failed to expire opponent post")

			return expired, failure.Storage(fmt.Errorf("failed to expire opponent post: %w", err))
		}

		// zero rows means a match or cancel moved the post on after it was listed
		if affected > 0 {
			expired++
		}
	}

	if expired > 0 {
		log.Info().Int("count", expired).Str("before", before.Format(constant.DateOnlyFormat)).Msg("expired opponent posts")
	}

	return expired, nil
}
