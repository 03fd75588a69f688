package projections

import (
	"context"
)

// CalendarCellView is one (weekday, slot) cell of the rendered grid.
type CalendarCellView struct {
	Slot       TimeSlot       `json:"slot"`
	Density    string         `json:"density,omitempty"`
	Activities []ActivityView `json:"activities,omitempty"`
}

// GetCalendarGridResult is the calendar view model: the seven weekdays in
// calendar order, the canonical slot list, and one cell per (weekday, slot).
type GetCalendarGridResult struct {
	Days  []string                      `json:"days"`
	Slots []TimeSlot                    `json:"slots"`
	Cells map[string][]CalendarCellView `json:"cells"`
}

// QueryGetCalendarGrid runs the calendar pipeline: fetch the pre-filtered
// catalog, apply the local filter engine, then place every surviving activity
// into each grid cell it overlaps.
// POST: Cells contains an entry for all seven weekdays, each with one cell
// per generated slot (possibly empty)
func QueryGetCalendarGrid(ctx context.Context, c Criteria, deps GetActivitiesDeps) (GetCalendarGridResult, error) {
	entries, err := QueryGetCatalog(ctx, c, deps)
	if err != nil {
		return GetCalendarGridResult{}, err
	}

	grid := BuildCalendarGrid(FilterActivities(entries, c))

	result := GetCalendarGridResult{
		Days:  grid.Days,
		Slots: grid.Slots,
		Cells: make(map[string][]CalendarCellView, len(grid.Days)),
	}
	for _, day := range grid.Days {
		cells := make([]CalendarCellView, 0, len(grid.Slots))
		for _, cell := range grid.Columns[day] {
			view := CalendarCellView{Slot: cell.Slot, Density: cell.Density()}
			for _, entry := range cell.Activities {
				view.Activities = append(view.Activities, NewActivityView(entry))
			}
			cells = append(cells, view)
		}
		result.Cells[day] = cells
	}
	return result, nil
}
