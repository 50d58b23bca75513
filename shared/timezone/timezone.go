package timezone

import (
	"time"

	"arena/config"
	"arena/shared/constant"

	"github.com/rs/zerolog/log"
)

var (
	appLocation *time.Location
)

func init() {
	cfg := config.Get()

	if cfg.App.Timezone == "" {
		log.Warn().Msg("No timezone configured, using UTC as default")
		cfg.App.Timezone = "UTC"
	}

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Error().
			Err(err).
			Str("timezone", cfg.App.Timezone).
			Msg("Failed to load timezone, falling back to UTC. Please use standard timezone names like 'Asia/Ho_Chi_Minh', 'UTC', 'America/New_York'")
		appLocation = time.UTC

		return
	}

	appLocation = loc
	log.Info().
		Str("timezone", cfg.App.Timezone).
		Str("location", loc.String()).
		Msg("Application timezone initialized")
}

// Now returns the current time in the application timezone
func Now() time.Time {
	return time.Now().In(GetLocation())
}

// ToAppTime converts a time to the application timezone
func ToAppTime(t time.Time) time.Time {
	return t.In(GetLocation())
}

// GetLocation returns the current application timezone location
func GetLocation() *time.Location {
	if appLocation == nil {
		return time.UTC
	}

	return appLocation
}

// Parse parses a time string in the application timezone
func Parse(layout, value string) (time.Time, error) {
	return time.ParseInLocation(layout, value, GetLocation())
}

// Format formats a time in the application timezone
func Format(t time.Time, layout string) string {
	return ToAppTime(t).Format(layout)
}

// ParseDate parses a YYYY-MM-DD calendar date at midnight in the application timezone.
func ParseDate(value string) (time.Time, error) {
	return Parse(constant.DateOnlyFormat, value)
}

// Date truncates t to its calendar date, keeping the year/month/day as written.
// DATE columns come back from the driver at midnight UTC, so the wall clock fields are
// reinterpreted rather than converted.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()

	return time.Date(y, m, d, 0, 0, 0, 0, GetLocation())
}

// Today returns the current calendar date in the application timezone.
func Today() time.Time {
	return Date(Now())
}

// IsWeekend reports whether the calendar date falls on Saturday or Sunday.
func IsWeekend(date time.Time) bool {
	switch date.Weekday() {
	case time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// At combines a calendar date with a time of day in the application timezone.
func At(date, clock time.Time) time.Time {
	y, m, d := date.Date()

	return time.Date(y, m, d, clock.Hour(), clock.Minute(), clock.Second(), 0, GetLocation())
}
