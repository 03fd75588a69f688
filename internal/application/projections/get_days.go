package projections

import "context"

// ScheduledDaysStore defines the store interface needed by this projection.
type ScheduledDaysStore interface {
	ListDays(ctx context.Context) ([]string, error)
}

// GetDaysDeps holds dependencies for the projection.
type GetDaysDeps struct {
	ActivityStore ScheduledDaysStore
}

// QueryGetScheduledDays returns the distinct weekdays that appear in any
// activity's structured schedule, sorted alphabetically (matching the day
// filter endpoint's historical ordering). Legacy entries without structured
// details contribute nothing.
// POST: Returns a sorted, de-duplicated day list; empty is valid
func QueryGetScheduledDays(ctx context.Context, deps GetDaysDeps) ([]string, error) {
	return deps.ActivityStore.ListDays(ctx)
}
