package projections

import "mergington/internal/domain/category"

// Presentation mode constants.
const (
	ModeFlat    = "flat"    // single ordered list, category filter applied directly
	ModeGrouped = "grouped" // bucketed by category
)

// Time range constants. Morning and afternoon translate to server-side
// start/end time query bounds; weekend is a day-set check applied locally.
const (
	TimeRangeMorning   = "morning"
	TimeRangeAfternoon = "afternoon"
	TimeRangeWeekend   = "weekend"
)

// Criteria is the full set of active filter/view selections. It is an
// immutable value constructed by the caller and passed by value into each
// engine call; engines never read or write ambient state.
type Criteria struct {
	Category    string // one of the category tags, or category.All
	SearchQuery string // free text, possibly empty
	Weekday     string // one of the seven day names, or empty
	TimeRange   string // morning, afternoon, weekend, or empty
	Mode        string // flat or grouped
}

// DefaultCriteria returns the initial selection: everything visible, flat list.
func DefaultCriteria() Criteria {
	return Criteria{Category: category.All, Mode: ModeFlat}
}

// SetWeekdayFilter returns criteria with the weekday changed. The second
// return value signals that the caller must refetch the catalog before
// reapplying the engines: weekday is a server-side dimension.
// INVARIANT: the receiver is not mutated
func (c Criteria) SetWeekdayFilter(weekday string) (Criteria, bool) {
	c.Weekday = weekday
	return c, true
}

// SetTimeRangeFilter returns criteria with the time range changed. A refetch
// is always required — morning/afternoon are server-side windows, and
// switching to or from weekend must drop any previous window from the query.
// INVARIANT: the receiver is not mutated
func (c Criteria) SetTimeRangeFilter(timeRange string) (Criteria, bool) {
	c.TimeRange = timeRange
	return c, true
}

// TimeRangeWindow translates a time range into the server-side start/end
// bounds the catalog query understands. Weekend (and empty) have no window;
// weekend is re-checked locally against the day set instead.
func TimeRangeWindow(timeRange string) (start, end string, ok bool) {
	switch timeRange {
	case TimeRangeMorning:
		return "06:00", "08:00", true // before school hours
	case TimeRangeAfternoon:
		return "15:00", "18:00", true // after school hours
	default:
		return "", "", false
	}
}
