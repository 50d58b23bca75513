package model

import (
	"slices"
	"time"

	"arena/shared/model"
)

const (
	TableName  = "opponent_posts"
	EntityName = "opponent_post"

	FieldID            = "id"
	FieldBookingID     = "booking_id"
	FieldTeamName      = "team_name"
	FieldContactPhone  = "contact_phone"
	FieldContactEmail  = "contact_email"
	FieldPlayerCount   = "player_count"
	FieldSkillLevel    = "skill_level"
	FieldDescription   = "description"
	FieldStatus        = "status"
	FieldMatchedPostID = "matched_post_id"
)

type SkillLevel string

const (
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillAdvanced     SkillLevel = "advanced"
)

type Status string

const (
	StatusOpen      Status = "open"
	StatusMatched   Status = "matched"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// open -> matched (match), matched -> open (unmatch), open|matched -> cancelled (cancel or
// expire), matched -> completed (booking completed).
var statusTransitions = map[Status][]Status{
	StatusOpen:    {StatusMatched, StatusCancelled},
	StatusMatched: {StatusOpen, StatusCancelled, StatusCompleted},
}

func (s Status) CanTransitionTo(next Status) bool {
	return slices.Contains(statusTransitions[s], next)
}

type Post struct {
	ID            string     `db:"id"`
	BookingID     string     `db:"booking_id"`
	TeamName      string     `db:"team_name"`
	ContactPhone  string     `db:"contact_phone"`
	ContactEmail  string     `db:"contact_email"`
	PlayerCount   int        `db:"player_count"`
	SkillLevel    SkillLevel `db:"skill_level"`
	Description   string     `db:"description"`
	Status        Status     `db:"status"`
	MatchedPostID *string    `db:"matched_post_id"`
	FieldID       string     `db:"field_id"      table:"bookings" column:"field_id"`
	TimeSlotID    string     `db:"time_slot_id"  table:"bookings" column:"time_slot_id"`
	BookingDate   time.Time  `db:"booking_date"  table:"bookings" column:"booking_date"`
	model.Metadata
}

func (Post) GetJoinQuery() string {
	return "JOIN bookings ON bookings.id = opponent_posts.booking_id"
}

// MatchedWith reports whether the post points at other.
func (p Post) MatchedWith(other string) bool {
	return p.MatchedPostID != nil && *p.MatchedPostID == other
}
