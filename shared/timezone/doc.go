// Package timezone provides timezone and calendar-date utilities for the application.
//
// Usage Examples:
//
//  1. Current time and date in the app timezone:
//     now := timezone.Now()
//     today := timezone.Today()
//
//  2. Calendar dates (booking dates are dates, not instants):
//     date, err := timezone.ParseDate("2024-06-15")
//     weekend := timezone.IsWeekend(date)
//     slotEnd := timezone.At(date, slot.EndTime)
//
//  3. Formatting times in app timezone:
//     formatted := timezone.Format(time.Now(), "2006-01-02 15:04:05")
//
// The timezone is configured via the APP_TIMEZONE environment variable
// and is automatically initialized when the package is imported.
// Use standard IANA timezone database names for reliable cross-platform compatibility.
package timezone
