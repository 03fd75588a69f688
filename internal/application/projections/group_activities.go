package projections

import (
	"mergington/internal/domain/activity"
	"mergington/internal/domain/category"
)

// CategoryGroup is one bucket of the grouped presentation mode.
type CategoryGroup struct {
	Category   string
	Count      int
	Activities []activity.Activity
}

// GroupActivities buckets an already-filtered subset by derived category.
// Buckets are emitted in the fixed category.Precedence order and empty
// buckets are dropped; members keep their relative catalog order inside each
// bucket. When selectedCategory is a specific tag (not category.All) only
// that bucket is emitted — the grouped-mode analogue of the flat-mode
// category filter. An empty result is a valid terminal state, not an error.
func GroupActivities(filtered []activity.Activity, selectedCategory string) []CategoryGroup {
	buckets := make(map[string][]activity.Activity)
	for _, entry := range filtered {
		tag := category.Classify(entry.Name, entry.Description)
		buckets[tag] = append(buckets[tag], entry)
	}

	var groups []CategoryGroup
	for _, tag := range category.Precedence {
		if selectedCategory != category.All && tag != selectedCategory {
			continue
		}
		members := buckets[tag]
		if len(members) == 0 {
			continue
		}
		groups = append(groups, CategoryGroup{
			Category:   tag,
			Count:      len(members),
			Activities: members,
		})
	}
	return groups
}
