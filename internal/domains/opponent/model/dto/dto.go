package dto

import (
	"strings"

	bookingModel "arena/internal/domains/booking/model"
	"arena/internal/domains/opponent/model"
	"arena/shared"
	"arena/shared/constant"
	gDto "arena/shared/dto"
	gModel "arena/shared/model"
	"arena/shared/timezone"
	"arena/shared/validator"

	"github.com/google/uuid"
)

type CreatePostRequest struct {
	BookingID    string `json:"booking_id"    validate:"required,uuid"`
	TeamName     string `json:"team_name"     validate:"required,max=100"`
	ContactPhone string `json:"contact_phone" validate:"required,phone"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email,max=255"`
	PlayerCount  int    `json:"player_count"  validate:"gte=1,lte=50"`
	SkillLevel   string `json:"skill_level"   validate:"required,oneof=beginner intermediate advanced"`
	Description  string `json:"description"   validate:"omitempty,max=1000"`
}

func (r *CreatePostRequest) Normalize() {
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.ContactPhone = strings.TrimSpace(r.ContactPhone)
	r.ContactEmail = strings.TrimSpace(r.ContactEmail)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *CreatePostRequest) ToModel(booking bookingModel.Booking, user string) model.Post {
	return model.Post{
		ID:           uuid.NewString(),
		BookingID:    r.BookingID,
		TeamName:     r.TeamName,
		ContactPhone: validator.NormalizePhone(r.ContactPhone),
		ContactEmail: r.ContactEmail,
		PlayerCount:  r.PlayerCount,
		SkillLevel:   model.SkillLevel(r.SkillLevel),
		Description:  r.Description,
		Status:       model.StatusOpen,
		FieldID:      booking.FieldID,
		TimeSlotID:   booking.TimeSlotID,
		BookingDate:  booking.BookingDate,
		Metadata:     gModel.NewMetadata(timezone.Now(), user),
	}
}

type MatchRequest struct {
	OpponentPostID string `json:"opponent_post_id" validate:"required,uuid"`
}

// ListOpenPostsFilter narrows discovery by skill, field and booking date range.
type ListOpenPostsFilter struct {
	SkillLevel string `validate:"omitempty,oneof=beginner intermediate advanced"`
	FieldID    string `validate:"omitempty,uuid"`
	DateFrom   string `validate:"omitempty,datetime=2006-01-02"`
	DateTo     string `validate:"omitempty,datetime=2006-01-02"`
}

func (f ListOpenPostsFilter) ToFilterGroup() gDto.FilterGroup {
	filter := gDto.And(gDto.Filter{
		Field:    model.FieldStatus,
		Table:    model.TableName,
		Operator: gDto.FilterOperatorEq,
		Value:    string(model.StatusOpen),
	})

	filter.Add(model.FieldSkillLevel, model.TableName, gDto.FilterOperatorEq, f.SkillLevel)
	filter.Add(bookingModel.FieldFieldID, bookingModel.TableName, gDto.FilterOperatorEq, f.FieldID)

	if f.DateFrom != "" {
		filter.AddArg("date_from", bookingModel.FieldBookingDate, bookingModel.TableName, gDto.FilterOperatorGreaterEq, f.DateFrom)
	}

	if f.DateTo != "" {
		filter.AddArg("date_to", bookingModel.FieldBookingDate, bookingModel.TableName, gDto.FilterOperatorLessEq, f.DateTo)
	}

	return filter
}

type PostResponse struct {
	ID            string  `json:"id"`
	BookingID     string  `json:"booking_id"`
	FieldID       string  `json:"field_id"`
	TimeSlotID    string  `json:"time_slot_id"`
	BookingDate   string  `json:"booking_date"`
	TeamName      string  `json:"team_name"`
	ContactPhone  string  `json:"contact_phone"`
	ContactEmail  string  `json:"contact_email,omitempty"`
	PlayerCount   int     `json:"player_count"`
	SkillLevel    string  `json:"skill_level"`
	Description   string  `json:"description,omitempty"`
	Status        string  `json:"status"`
	MatchedPostID *string `json:"matched_post_id"`
	gDto.Metadata
}

func (r *PostResponse) FromModel(model model.Post) {
	r.ID = model.ID
	r.BookingID = model.BookingID
	r.FieldID = model.FieldID
	r.TimeSlotID = model.TimeSlotID
	r.BookingDate = model.BookingDate.Format(constant.DateOnlyFormat)
	r.TeamName = model.TeamName
	r.ContactPhone = model.ContactPhone
	r.ContactEmail = model.ContactEmail
	r.PlayerCount = model.PlayerCount
	r.SkillLevel = string(model.SkillLevel)
	r.Description = model.Description
	r.Status = string(model.Status)
	r.MatchedPostID = model.MatchedPostID
	r.Metadata.FromModel(model.Metadata)
}

type GetPostsResponse struct {
	Posts     []PostResponse `json:"posts"`
	TotalPage int            `json:"total_page"`
	TotalData int            `json:"total_data"`
}

func (r *GetPostsResponse) FromModels(models []model.Post, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Posts = make([]PostResponse, len(models))
	for i, mod := range models {
		r.Posts[i].FromModel(mod)
	}
}

type MatchResponse struct {
	Post     PostResponse `json:"post"`
	Opponent PostResponse `json:"opponent"`
}
