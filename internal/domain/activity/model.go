package activity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Day of week constants. Day names are stored capitalized, matching the
// catalog data and the day query parameter.
const (
	Sunday    = "Sunday"
	Monday    = "Monday"
	Tuesday   = "Tuesday"
	Wednesday = "Wednesday"
	Thursday  = "Thursday"
	Friday    = "Friday"
	Saturday  = "Saturday"
)

// Days contains all valid day values in calendar order (Sunday first).
var Days = []string{Sunday, Monday, Tuesday, Wednesday, Thursday, Friday, Saturday}

// WeekendDays are the days matched by the weekend time-range filter.
var WeekendDays = []string{Saturday, Sunday}

// Domain errors
var (
	ErrEmptyName              = errors.New("activity name cannot be empty")
	ErrInvalidMaxParticipants = errors.New("max participants must be positive")
	ErrInvalidDay             = errors.New("day must be a valid day of the week")
	ErrInvalidTime            = errors.New("time must be in 24-hour HH:MM format")
)

// ScheduleDetails is the structured weekly schedule: a set of days plus a
// start/end time in 24-hour HH:MM format. The interval is half-open,
// [StartTime, EndTime).
type ScheduleDetails struct {
	Days      []string
	StartTime string
	EndTime   string
}

// Activity represents one extracurricular activity. Legacy entries carry only
// the opaque Schedule string; newer entries also carry ScheduleDetails.
// Participants preserves registration order.
type Activity struct {
	Name            string
	Description     string
	Schedule        string // legacy display string
	Details         *ScheduleDetails
	MaxParticipants int
	Participants    []string
}

// Validate checks if the Activity has valid data.
// PRE: Activity struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Activity) Validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return ErrEmptyName
	}
	if a.MaxParticipants <= 0 {
		return ErrInvalidMaxParticipants
	}
	if a.Details != nil {
		for _, d := range a.Details.Days {
			if !isValidDay(d) {
				return ErrInvalidDay
			}
		}
		if !isValidTime(a.Details.StartTime) || !isValidTime(a.Details.EndTime) {
			return ErrInvalidTime
		}
	}
	return nil
}

// FormatSchedule renders the schedule for display and search matching.
// Structured details render as "<days>, <start> - <end>" with 12-hour times;
// legacy entries return the Schedule string verbatim.
// INVARIANT: Activity fields are not mutated
func (a *Activity) FormatSchedule() string {
	if a.Details == nil {
		return a.Schedule
	}
	days := strings.Join(a.Details.Days, ", ")
	return fmt.Sprintf("%s, %s - %s", days, FormatTime12(a.Details.StartTime), FormatTime12(a.Details.EndTime))
}

// MeetsOnWeekend reports whether the structured schedule includes Saturday or
// Sunday. Entries with only a legacy schedule string never match.
func (a *Activity) MeetsOnWeekend() bool {
	if a.Details == nil {
		return false
	}
	for _, d := range a.Details.Days {
		for _, w := range WeekendDays {
			if d == w {
				return true
			}
		}
	}
	return false
}

// SpotsLeft returns the number of open registration spots. Capacity is
// advisory for display; enforcement happens at the signup boundary only.
func (a *Activity) SpotsLeft() int {
	return a.MaxParticipants - len(a.Participants)
}

// IsFull reports whether the activity has no open spots.
func (a *Activity) IsFull() bool {
	return a.SpotsLeft() <= 0
}

// HasParticipant reports whether the email is already registered.
func (a *Activity) HasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// FormatTime12 converts a 24-hour HH:MM string to 12-hour AM/PM display form.
// Hour 0 renders as 12 AM; minutes are zero-padded to two digits.
// PRE: t is in HH:MM format
// POST: Returns e.g. "3:15 PM"; malformed input is returned unchanged
func FormatTime12(t string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return t
	}
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	display := hours % 12
	if display == 0 {
		display = 12
	}
	return fmt.Sprintf("%d:%02d %s", display, minutes, period)
}

func isValidDay(day string) bool {
	for _, d := range Days {
		if d == day {
			return true
		}
	}
	return false
}

func isValidTime(t string) bool {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return false
	}
	hours, err1 := strconv.Atoi(parts[0])
	minutes, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return false
	}
	return hours >= 0 && hours <= 23 && minutes >= 0 && minutes <= 59
}
