package calendar

import (
	"strings"
	"time"
)

// ReminderType is the closed set of offsets a reminder may fire before an
// event starts.
type ReminderType string

const (
	ReminderMinutes15 ReminderType = "MINUTES_15"
	ReminderMinutes30 ReminderType = "MINUTES_30"
	ReminderHour1     ReminderType = "HOUR_1"
	ReminderDay1      ReminderType = "DAY_1"
)

var reminderOffsets = map[ReminderType]time.Duration{
	ReminderMinutes15: 15 * time.Minute,
	ReminderMinutes30: 30 * time.Minute,
	ReminderHour1:     time.Hour,
	ReminderDay1:      24 * time.Hour,
}

var reminderAliases = map[string]ReminderType{
	"15-minutes": ReminderMinutes15,
	"30-minutes": ReminderMinutes30,
	"1-hour":     ReminderHour1,
	"1-day":      ReminderDay1,
}

func (r ReminderType) String() string {
	return string(r)
}

func (r ReminderType) IsValid() bool {
	_, ok := reminderOffsets[r]
	return ok
}

// Offset is how long before the event start the reminder is due. Unknown
// values use the 15 minute offset.
func (r ReminderType) Offset() time.Duration {
	if d, ok := reminderOffsets[r]; ok {
		return d
	}
	return reminderOffsets[ReminderMinutes15]
}

// Label is the offset as people say it, e.g. "1 hour".
func (r ReminderType) Label() string {
	switch r {
	case ReminderMinutes30:
		return "30 minutes"
	case ReminderHour1:
		return "1 hour"
	case ReminderDay1:
		return "1 day"
	default:
		return "15 minutes"
	}
}

// ParseReminderType accepts the enum names and their hyphenated aliases
// ("1-hour"). Anything else, including the empty string, falls back to
// MINUTES_15.
func ParseReminderType(s string) ReminderType {
	s = strings.TrimSpace(s)
	if r := ReminderType(strings.ToUpper(s)); r.IsValid() {
		return r
	}
	if r, ok := reminderAliases[strings.ToLower(s)]; ok {
		return r
	}
	return ReminderMinutes15
}

// ComputeScheduledAt returns the instant a reminder of kind becomes due.
func ComputeScheduledAt(start time.Time, kind ReminderType) time.Time {
	return start.Add(-kind.Offset())
}
