package projections

import (
	"strings"

	"mergington/internal/domain/activity"
	"mergington/internal/domain/category"
)

// FilterActivities applies the active criteria to a catalog snapshot and
// returns the subset that satisfies every check, preserving catalog order.
// The function is a pure projection: entries are never mutated and repeated
// calls with identical inputs return identical results.
//
// Category is only checked in flat mode — grouped mode applies its own
// category restriction in GroupActivities. Morning/afternoon time ranges are
// assumed already enforced by the upstream catalog query; only the weekend
// day-set rule is re-checked here because it has no server-side equivalent.
func FilterActivities(entries []activity.Activity, c Criteria) []activity.Activity {
	var result []activity.Activity
	for _, entry := range entries {
		if c.Mode != ModeGrouped && c.Category != category.All &&
			category.Classify(entry.Name, entry.Description) != c.Category {
			continue
		}
		if c.TimeRange == TimeRangeWeekend && !entry.MeetsOnWeekend() {
			continue
		}
		if !matchesSearch(entry, c.SearchQuery) {
			continue
		}
		result = append(result, entry)
	}
	return result
}

// matchesSearch performs a case-insensitive substring match over the entry's
// name, description, and formatted schedule. An empty query always passes.
func matchesSearch(entry activity.Activity, query string) bool {
	if query == "" {
		return true
	}
	searchable := strings.ToLower(entry.Name + " " + entry.Description + " " + entry.FormatSchedule())
	return strings.Contains(searchable, strings.ToLower(query))
}
