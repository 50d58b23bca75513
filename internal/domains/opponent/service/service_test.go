package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"arena/infras/otel/mocks"
	pgMocks "arena/infras/postgres/mocks"
	bookingMocks "arena/internal/domains/booking/mocks"
	bookingModel "arena/internal/domains/booking/model"
	opponentMocks "arena/internal/domains/opponent/mocks"
	"arena/internal/domains/opponent/model"
	"arena/internal/domains/opponent/model/dto"
	"arena/internal/domains/opponent/service"
	gDto "arena/shared/dto"
	"arena/shared/failure"
)

const (
	postA = "1a2b3c4d-0000-4000-8000-00000000000a"
	postB = "1a2b3c4d-0000-4000-8000-00000000000b"
)

type fixture struct {
	svc        service.Opponent
	repo       *opponentMocks.MockPost
	bookings   *bookingMocks.MockBooking
	transactor *pgMocks.Transactor
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		repo:       opponentMocks.NewMockPost(ctrl),
		bookings:   bookingMocks.NewMockBooking(ctrl),
		transactor: pgMocks.NewTransactor(),
	}
	f.svc = service.New(f.repo, f.bookings, f.transactor, mocks.NewOtel())

	return f
}

func createRequest() dto.CreatePostRequest {
	return dto.CreatePostRequest{
		BookingID:    "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		TeamName:     " Thunder FC ",
		ContactPhone: "+16502530000",
		PlayerCount:  7,
		SkillLevel:   string(model.SkillIntermediate),
	}
}

func TestOpponentService_CreatePost(t *testing.T) {
	booking := bookingModel.Booking{
		ID:          "7c9e6679-7425-40de-944b-e07fc1f90ae7",
		FieldID:     "field-1",
		TimeSlotID:  "slot-1",
		BookingDate: time.Date(2099, time.January, 2, 0, 0, 0, 0, time.UTC),
		Status:      bookingModel.StatusConfirmed,
	}

	tests := []struct {
		name      string
		req       dto.CreatePostRequest
		setupMock func(f fixture)
		wantErr   error
	}{
		{
			name: "success",
			req:  createRequest(),
			setupMock: func(f fixture) {
				gomock.InOrder(
					f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
						func(_ context.Context, _ *sqlx.Tx, filter gDto.FilterGroup, _ ...string) (bookingModel.Booking, error) {
							where, args := filter.GetWhereClause()
							assert.Equal(t, "(bookings.id = :id AND bookings.deleted_at IS NULL)", where)
							assert.Equal(t, booking.ID, args["id"])

							return booking, nil
						}),
					f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil),
					f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, _ *sqlx.Tx, post model.Post) error {
						assert.Equal(t, "Thunder FC", post.TeamName)
						assert.Equal(t, model.StatusOpen, post.Status)
						assert.Nil(t, post.MatchedPostID)

						return nil
					}),
				)
			},
		},
		{
			name: "invalid player count",
			req: func() dto.CreatePostRequest {
				req := createRequest()
				req.PlayerCount = 0

				return req
			}(),
			wantErr: failure.ErrValidation,
		},
		{
			name: "unknown skill level",
			req: func() dto.CreatePostRequest {
				req := createRequest()
				req.SkillLevel = "pro"

				return req
			}(),
			wantErr: failure.ErrValidation,
		},
		{
			name: "booking does not exist",
			req:  createRequest(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, nil)
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "cancelled booking",
			req:  createRequest(),
			setupMock: func(f fixture) {
				cancelled := booking
				cancelled.Status = bookingModel.StatusCancelled
				f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(cancelled, nil)
			},
			wantErr: failure.ErrValidation,
		},
		{
			name: "booking already has a post",
			req:  createRequest(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: failure.ErrConflict,
		},
		{
			name: "lost race on the unique index",
			req:  createRequest(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(booking, nil)
				f.repo.EXPECT().ExistTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(false, nil)
				f.repo.EXPECT().InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(&pq.Error{Code: "23505", Constraint: "uq_opponent_posts_booking"})
			},
			wantErr: failure.ErrConflict,
		},
		{
			name: "storage failure",
			req:  createRequest(),
			setupMock: func(f fixture) {
				f.bookings.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(bookingModel.Booking{}, errors.New("connection reset"))
			},
			wantErr: failure.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)

			if tt.setupMock != nil {
				tt.setupMock(f)
			}

			res, err := f.svc.CreatePost(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, 1, f.transactor.Calls())
			assert.Equal(t, string(model.StatusOpen), res.Status)
			assert.Equal(t, "2099-01-02", res.BookingDate)
			assert.Equal(t, "field-1", res.FieldID)
		})
	}
}

func TestOpponentService_MatchPosts(t *testing.T) {
	t.Run("matches both posts symmetrically", func(t *testing.T) {
		f := newFixture(t)

		// postB is requested first but postA is locked first.
		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusOpen}, nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postB, Status: model.StatusOpen}, nil),
		)

		written := map[string]any{}

		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error {
				_, args := filter.GetWhereClause()
				written[args[model.FieldID].(string)] = mod[model.FieldMatchedPostID]

				assert.Equal(t, string(model.StatusMatched), mod[model.FieldStatus])

				return nil
			}).Times(2)

		res, err := f.svc.MatchPosts(context.Background(), postB, dto.MatchRequest{OpponentPostID: postA})
		require.NoError(t, err)

		assert.Equal(t, postB, res.Post.ID)
		assert.Equal(t, postA, res.Opponent.ID)
		require.NotNil(t, res.Post.MatchedPostID)
		require.NotNil(t, res.Opponent.MatchedPostID)
		assert.Equal(t, postA, *res.Post.MatchedPostID)
		assert.Equal(t, postB, *res.Opponent.MatchedPostID)
		assert.Equal(t, map[string]any{postA: postB, postB: postA}, written)
		assert.Equal(t, 1, f.transactor.Calls())
	})

	t.Run("same post", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.MatchPosts(context.Background(), postA, dto.MatchRequest{OpponentPostID: postA})
		assert.ErrorIs(t, err, failure.ErrValidation)
		assert.Equal(t, 0, f.transactor.Calls())
	})

	t.Run("opponent already matched", func(t *testing.T) {
		f := newFixture(t)

		other := "1a2b3c4d-0000-4000-8000-00000000000c"

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusOpen}, nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postB, Status: model.StatusMatched, MatchedPostID: &other}, nil),
		)

		_, err := f.svc.MatchPosts(context.Background(), postA, dto.MatchRequest{OpponentPostID: postB})
		assert.ErrorIs(t, err, failure.ErrInvalidTransition)
	})

	t.Run("missing opponent", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusOpen}, nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{}, nil),
		)

		_, err := f.svc.MatchPosts(context.Background(), postA, dto.MatchRequest{OpponentPostID: postB})
		assert.ErrorIs(t, err, failure.ErrNotFound)
	})

	t.Run("malformed opponent id", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.svc.MatchPosts(context.Background(), postA, dto.MatchRequest{OpponentPostID: "nope"})
		assert.ErrorIs(t, err, failure.ErrValidation)
	})
}

func matched(id, partner string) model.Post {
	return model.Post{ID: id, Status: model.StatusMatched, MatchedPostID: &partner}
}

func TestOpponentService_UnmatchPost(t *testing.T) {
	t.Run("reopens both posts", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(matched(postA, postB), nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(matched(postB, postA), nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
		)

		res, err := f.svc.UnmatchPost(context.Background(), postA)
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusOpen), res.Post.Status)
		assert.Equal(t, string(model.StatusOpen), res.Opponent.Status)
		assert.Nil(t, res.Post.MatchedPostID)
		assert.Nil(t, res.Opponent.MatchedPostID)
	})

	t.Run("open post", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusOpen}, nil)

		_, err := f.svc.UnmatchPost(context.Background(), postA)
		assert.ErrorIs(t, err, failure.ErrInvalidTransition)
	})
}

func TestOpponentService_CancelPost(t *testing.T) {
	t.Run("matched partner goes back to open", func(t *testing.T) {
		f := newFixture(t)

		statuses := map[string]any{}

		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, _ *sqlx.Tx, mod map[string]any, filter gDto.FilterGroup) error {
				_, args := filter.GetWhereClause()
				statuses[args[model.FieldID].(string)] = mod[model.FieldStatus]

				return nil
			}).Times(2)

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(matched(postA, postB), nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(matched(postB, postA), nil),
		)

		res, err := f.svc.CancelPost(context.Background(), postA)
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusCancelled), res.Status)
		assert.Equal(t, map[string]any{
			postA: string(model.StatusCancelled),
			postB: string(model.StatusOpen),
		}, statuses)
	})

	t.Run("open post without partner", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusOpen}, nil)
		f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

		res, err := f.svc.CancelPost(context.Background(), postA)
		require.NoError(t, err)
		assert.Equal(t, string(model.StatusCancelled), res.Status)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newFixture(t)

		f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postA, Status: model.StatusCancelled}, nil)

		_, err := f.svc.CancelPost(context.Background(), postA)
		assert.ErrorIs(t, err, failure.ErrInvalidTransition)
	})

	t.Run("partner no longer points back", func(t *testing.T) {
		f := newFixture(t)

		gomock.InOrder(
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(matched(postA, postB), nil),
			f.repo.EXPECT().UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
			f.repo.EXPECT().GetForUpdateTx(gomock.Any(), gomock.Any(), gomock.Any()).Return(model.Post{ID: postB, Status: model.StatusOpen}, nil),
		)

		_, err := f.svc.CancelPost(context.Background(), postA)
		require.NoError(t, err)
	})
}

func TestOpponentService_GetPost(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Post{}, nil)

	_, err := f.svc.GetPost(context.Background(), postA)
	assert.ErrorIs(t, err, failure.ErrNotFound)
}

func TestOpponentService_ListOpenPosts(t *testing.T) {
	f := newFixture(t)

	f.repo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(1, nil)
	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, params gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Post, error) {
			assert.Equal(t, "bookings.booking_date", params.SortBy)
			assert.Equal(t, gDto.SortDirAsc, params.SortDir)

			where, args := filter.GetWhereClause()
			assert.Contains(t, where, "opponent_posts.status = :status")
			assert.Contains(t, where, "bookings.booking_date >= :date_from")
			assert.Equal(t, string(model.SkillBeginner), args[model.FieldSkillLevel])
			assert.NotEmpty(t, args["date_from"])

			return []model.Post{{ID: postA, Status: model.StatusOpen}}, nil
		})

	res, err := f.svc.ListOpenPosts(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, dto.ListOpenPostsFilter{SkillLevel: string(model.SkillBeginner)})
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalData)
	assert.Len(t, res.Posts, 1)
}

func TestOpponentService_ListOpenPosts_RejectsMalformedFilters(t *testing.T) {
	for name, filter := range map[string]dto.ListOpenPostsFilter{
		"field id":    {FieldID: "abc"},
		"date from":   {DateFrom: "tomorrow"},
		"skill level": {SkillLevel: "pro"},
	} {
		t.Run(name, func(t *testing.T) {
			f := newFixture(t)

			_, err := f.svc.ListOpenPosts(context.Background(), gDto.QueryParams{Page: 1, Limit: 10}, filter)

			assert.ErrorIs(t, err, failure.ErrValidation)
		})
	}
}

func TestOpponentService_ExpireOpenPosts(t *testing.T) {
	f := newFixture(t)

	before := time.Date(2024, time.June, 8, 0, 0, 0, 0, time.UTC)

	f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ gDto.QueryParams, filter gDto.FilterGroup, _ ...string) ([]model.Post, error) {
			_, args := filter.GetWhereClause()
			assert.Equal(t, "2024-06-07", args["date_to"])
			assert.Equal(t, string(model.StatusOpen), args[model.FieldStatus])

			return []model.Post{{ID: postA, Status: model.StatusOpen}, {ID: postB, Status: model.StatusOpen}}, nil
		})
	f.repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, mod map[string]any, filter gDto.FilterGroup) (int64, error) {
			where, args := filter.GetWhereClause()
			assert.Equal(t, "(opponent_posts.id = :id AND opponent_posts.status IN (:current_status_0) )", where)
			assert.Equal(t, string(model.StatusOpen), args["current_status_0"])
			assert.Equal(t, string(model.StatusCancelled), mod[model.FieldStatus])

			return 1, nil
		}).Times(2)

	expired, err := f.svc.ExpireOpenPosts(context.Background(), before)
	require.NoError(t, err)
	assert.Equal(t, 2, expired)

	t.Run("post moved on after listing is not counted", func(t *testing.T) {
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
			Return([]model.Post{{ID: postA, Status: model.StatusOpen}, {ID: postB, Status: model.StatusOpen}}, nil)
		gomock.InOrder(
			f.repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(1), nil),
			f.repo.EXPECT().UpdateAffected(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), nil),
		)

		expired, err := f.svc.ExpireOpenPosts(context.Background(), before)
		require.NoError(t, err)
		assert.Equal(t, 1, expired)
	})

	t.Run("nothing left to expire", func(t *testing.T) {
		f.repo.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		expired, err := f.svc.ExpireOpenPosts(context.Background(), before)
		require.NoError(t, err)
		assert.Zero(t, expired)
	})
}
