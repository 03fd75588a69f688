package projections

import (
	"context"

	activityStore "mergington/internal/adapters/storage/activity"
	"mergington/internal/domain/activity"
	"mergington/internal/domain/category"
)

// CatalogActivityStore defines the store interface needed by the catalog projections.
type CatalogActivityStore interface {
	List(ctx context.Context, filter activityStore.ListFilter) ([]activity.Activity, error)
}

// GetActivitiesDeps holds dependencies for the catalog projections.
type GetActivitiesDeps struct {
	ActivityStore CatalogActivityStore
}

// ActivityView is the per-activity view model handed to the presentation
// layer: the raw attributes plus the derived category tag and formatted
// schedule string for styling and captioning.
type ActivityView struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	Category        string   `json:"category"`
	Days            []string `json:"days,omitempty"`
	StartTime       string   `json:"start_time,omitempty"`
	EndTime         string   `json:"end_time,omitempty"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
	SpotsLeft       int      `json:"spots_left"`
}

// NewActivityView derives the view model for one activity.
func NewActivityView(entry activity.Activity) ActivityView {
	view := ActivityView{
		Name:            entry.Name,
		Description:     entry.Description,
		Schedule:        entry.FormatSchedule(),
		Category:        category.Classify(entry.Name, entry.Description),
		MaxParticipants: entry.MaxParticipants,
		Participants:    entry.Participants,
		SpotsLeft:       entry.SpotsLeft(),
	}
	if entry.Details != nil {
		view.Days = entry.Details.Days
		view.StartTime = entry.Details.StartTime
		view.EndTime = entry.Details.EndTime
	}
	return view
}

// QueryGetCatalog fetches the catalog snapshot with the server-side dimensions
// applied: an optional weekday and, for morning/afternoon time ranges, a
// start/end time window. Weekend and all purely local dimensions (category,
// search, mode) are left to the filter engine. Entries come back in catalog
// insertion order.
// PRE: criteria fields are valid values or empty
// POST: Returns the pre-filtered catalog snapshot
func QueryGetCatalog(ctx context.Context, c Criteria, deps GetActivitiesDeps) ([]activity.Activity, error) {
	filter := activityStore.ListFilter{Day: c.Weekday}
	if start, end, ok := TimeRangeWindow(c.TimeRange); ok {
		filter.StartTime = start
		filter.EndTime = end
	}
	return deps.ActivityStore.List(ctx, filter)
}

// GetFilteredActivitiesResult carries the listing view model. Exactly one of
// Activities (flat mode) or Groups (grouped mode) is populated; both empty is
// the normal "no matches" terminal state.
type GetFilteredActivitiesResult struct {
	Mode       string              `json:"mode"`
	Activities []ActivityView      `json:"activities,omitempty"`
	Groups     []CategoryGroupView `json:"groups,omitempty"`
}

// CategoryGroupView is one rendered category bucket.
type CategoryGroupView struct {
	Category   string         `json:"category"`
	Count      int            `json:"count"`
	Activities []ActivityView `json:"activities"`
}

// QueryGetFilteredActivities runs the full listing pipeline: fetch the
// pre-filtered catalog, apply the local filter engine, then arrange the
// result for the requested presentation mode.
// POST: Returns the flat or grouped listing; never errors on empty results
func QueryGetFilteredActivities(ctx context.Context, c Criteria, deps GetActivitiesDeps) (GetFilteredActivitiesResult, error) {
	entries, err := QueryGetCatalog(ctx, c, deps)
	if err != nil {
		return GetFilteredActivitiesResult{}, err
	}

	filtered := FilterActivities(entries, c)

	if c.Mode == ModeGrouped {
		result := GetFilteredActivitiesResult{Mode: ModeGrouped}
		for _, group := range GroupActivities(filtered, c.Category) {
			view := CategoryGroupView{Category: group.Category, Count: group.Count}
			for _, entry := range group.Activities {
				view.Activities = append(view.Activities, NewActivityView(entry))
			}
			result.Groups = append(result.Groups, view)
		}
		return result, nil
	}

	result := GetFilteredActivitiesResult{Mode: ModeFlat}
	for _, entry := range filtered {
		result.Activities = append(result.Activities, NewActivityView(entry))
	}
	return result, nil
}
