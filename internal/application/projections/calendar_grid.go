package projections

import (
	"fmt"
	"sort"

	"mergington/internal/domain/activity"
)

// Cell density constants — layout hints for crowded calendar cells.
const (
	DensityMultiple = "multiple" // exactly 2 activities in a cell
	DensityTriple   = "triple"   // 3 or more
)

// TimeSlot is a fixed half-open interval [Start, End) used as a row of the
// calendar grid. Display is the 12-hour label for the slot's start time.
type TimeSlot struct {
	Start   string
	End     string
	Display string
}

// CalendarCell holds the activities overlapping one (weekday, slot) pair, in
// catalog order.
type CalendarCell struct {
	Slot       TimeSlot
	Activities []activity.Activity
}

// Density returns the layout hint for the cell: "" for 0-1 activities,
// DensityMultiple for 2, DensityTriple for 3 or more.
// INVARIANT: Cell fields are not mutated
func (c CalendarCell) Density() string {
	switch {
	case len(c.Activities) >= 3:
		return DensityTriple
	case len(c.Activities) == 2:
		return DensityMultiple
	default:
		return ""
	}
}

// CalendarGrid is the weekday-by-slot view model. Days lists the seven
// weekdays in calendar order; Columns holds, for each weekday, one cell per
// generated slot in ascending start-time order.
type CalendarGrid struct {
	Days    []string
	Slots   []TimeSlot
	Columns map[string][]CalendarCell
}

// GenerateTimeSlots produces the canonical slot list, independent of the
// catalog: hourly slots for the early-morning window [06:00, 08:00), the
// after-school window [15:00, 18:00), the weekend midday range [10:00, 18:00)
// minus slots already emitted for the afternoon window, and the evening
// window [19:00, 21:00). Slots are sorted ascending by start time;
// zero-padded HH:MM strings compare chronologically within a day.
//
// Activities falling entirely outside these ranges (e.g. 09:00-10:00) never
// appear in the grid. That gap is intentional — the grid only covers
// before/after-school and weekend hours.
func GenerateTimeSlots() []TimeSlot {
	var slots []TimeSlot

	for hour := 6; hour < 8; hour++ {
		slots = append(slots, hourSlot(hour))
	}
	for hour := 15; hour < 18; hour++ {
		slots = append(slots, hourSlot(hour))
	}
	for hour := 10; hour < 18; hour++ {
		candidate := hourSlot(hour)
		if !containsStart(slots, candidate.Start) {
			slots = append(slots, candidate)
		}
	}
	for hour := 19; hour < 21; hour++ {
		slots = append(slots, hourSlot(hour))
	}

	sort.Slice(slots, func(i, j int) bool { return slots[i].Start < slots[j].Start })
	return slots
}

// BuildCalendarGrid places each activity of the filtered subset into every
// (weekday, slot) cell it overlaps. An activity is placed iff it has
// structured schedule details, its day set includes the weekday, and its
// [start, end) interval overlaps the slot's [start, end) interval. Entries
// without structured details never appear in the grid.
func BuildCalendarGrid(filtered []activity.Activity) CalendarGrid {
	slots := GenerateTimeSlots()
	columns := make(map[string][]CalendarCell, len(activity.Days))

	for _, day := range activity.Days {
		cells := make([]CalendarCell, 0, len(slots))
		for _, slot := range slots {
			cell := CalendarCell{Slot: slot}
			for _, entry := range filtered {
				if entry.Details == nil {
					continue
				}
				if !onDay(entry.Details.Days, day) {
					continue
				}
				if timeOverlaps(entry.Details.StartTime, entry.Details.EndTime, slot.Start, slot.End) {
					cell.Activities = append(cell.Activities, entry)
				}
			}
			cells = append(cells, cell)
		}
		columns[day] = cells
	}

	return CalendarGrid{Days: activity.Days, Slots: slots, Columns: columns}
}

// timeOverlaps tests whether two half-open HH:MM intervals share at least one
// instant: aStart < bEnd && aEnd > bStart. Touching endpoints do not overlap.
func timeOverlaps(aStart, aEnd, bStart, bEnd string) bool {
	return aStart < bEnd && aEnd > bStart
}

func hourSlot(hour int) TimeSlot {
	start := fmt.Sprintf("%02d:00", hour)
	return TimeSlot{
		Start:   start,
		End:     fmt.Sprintf("%02d:00", hour+1),
		Display: activity.FormatTime12(start),
	}
}

func containsStart(slots []TimeSlot, start string) bool {
	for _, s := range slots {
		if s.Start == start {
			return true
		}
	}
	return false
}

func onDay(days []string, day string) bool {
	for _, d := range days {
		if d == day {
			return true
		}
	}
	return false
}
