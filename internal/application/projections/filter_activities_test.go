package projections

import (
	"testing"

	"mergington/internal/domain/activity"
	"mergington/internal/domain/category"
)

func catalogFixture() []activity.Activity {
	return []activity.Activity{
		{
			Name:            "Chess Club",
			Description:     "Learn strategies and compete in chess tournaments",
			MaxParticipants: 12,
			Details:         &activity.ScheduleDetails{Days: []string{activity.Monday, activity.Friday}, StartTime: "15:15", EndTime: "16:45"},
		},
		{
			Name:            "Soccer Team",
			Description:     "Join the school soccer team and compete in matches",
			MaxParticipants: 22,
			Details:         &activity.ScheduleDetails{Days: []string{activity.Tuesday, activity.Thursday}, StartTime: "15:30", EndTime: "17:30"},
		},
		{
			Name:            "Art Club",
			Description:     "Explore various art techniques and create masterpieces",
			MaxParticipants: 15,
			Details:         &activity.ScheduleDetails{Days: []string{activity.Thursday}, StartTime: "15:15", EndTime: "17:00"},
		},
		{
			Name:            "Weekend Robotics Workshop",
			Description:     "Build and program robots in our state-of-the-art workshop",
			MaxParticipants: 15,
			Details:         &activity.ScheduleDetails{Days: []string{activity.Saturday}, StartTime: "10:00", EndTime: "14:00"},
		},
		{
			Name:            "Garden Helpers",
			Description:     "Legacy entry with a free-form weekend schedule",
			Schedule:        "Saturday mornings, weather permitting",
			MaxParticipants: 10,
		},
	}
}

func names(entries []activity.Activity) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	return out
}

func assertNames(t *testing.T, got []activity.Activity, want ...string) {
	t.Helper()
	gotNames := names(got)
	if len(gotNames) != len(want) {
		t.Fatalf("got %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("got %v, want %v", gotNames, want)
		}
	}
}

// TestFilterActivities_Category verifies the flat-mode category check.
func TestFilterActivities_Category(t *testing.T) {
	c := DefaultCriteria()
	c.Category = category.Arts

	assertNames(t, FilterActivities(catalogFixture(), c), "Art Club")
}

// TestFilterActivities_CategorySkippedInGroupedMode verifies grouped mode
// leaves the category restriction to the grouping step.
func TestFilterActivities_CategorySkippedInGroupedMode(t *testing.T) {
	c := DefaultCriteria()
	c.Category = category.Arts
	c.Mode = ModeGrouped

	got := FilterActivities(catalogFixture(), c)
	if len(got) != len(catalogFixture()) {
		t.Errorf("grouped mode filtered by category: got %d entries, want %d", len(got), len(catalogFixture()))
	}
}

// TestFilterActivities_Search verifies case-insensitive search across name,
// description, and the formatted schedule.
func TestFilterActivities_Search(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"empty query passes everything", "", names(catalogFixture())},
		{"name match uppercase", "ROBOTICS", []string{"Weekend Robotics Workshop"}},
		{"description match", "masterpieces", []string{"Art Club"}},
		{"formatted schedule match", "3:15 PM", []string{"Chess Club", "Art Club"}},
		{"legacy schedule match", "weather", []string{"Garden Helpers"}},
		{"no match", "underwater basket weaving", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultCriteria()
			c.SearchQuery = tt.query
			assertNames(t, FilterActivities(catalogFixture(), c), tt.want...)
		})
	}
}

// TestFilterActivities_Weekend verifies the weekend day-set rule, including
// the exclusion of legacy entries whose day set is unknown.
func TestFilterActivities_Weekend(t *testing.T) {
	c := DefaultCriteria()
	c, _ = c.SetTimeRangeFilter(TimeRangeWeekend)

	// Garden Helpers mentions Saturday only in its legacy schedule string, so
	// it is excluded: the weekend rule consults the structured day set.
	assertNames(t, FilterActivities(catalogFixture(), c), "Weekend Robotics Workshop")
}

// TestFilterActivities_PreservesOrder verifies catalog order survives filtering.
func TestFilterActivities_PreservesOrder(t *testing.T) {
	c := DefaultCriteria()
	c.SearchQuery = "compete"

	assertNames(t, FilterActivities(catalogFixture(), c), "Chess Club", "Soccer Team")
}

// TestFilterActivities_AllChecksCompose verifies an entry must pass every
// active dimension.
func TestFilterActivities_AllChecksCompose(t *testing.T) {
	c := DefaultCriteria()
	c.Category = category.Technology
	c, _ = c.SetTimeRangeFilter(TimeRangeWeekend)
	c.SearchQuery = "robots"

	assertNames(t, FilterActivities(catalogFixture(), c), "Weekend Robotics Workshop")

	c.SearchQuery = "chess"
	assertNames(t, FilterActivities(catalogFixture(), c))
}

// TestCriteriaMutators verifies the mutators copy and always signal a refetch.
func TestCriteriaMutators(t *testing.T) {
	base := DefaultCriteria()

	withDay, refetch := base.SetWeekdayFilter(activity.Monday)
	if !refetch {
		t.Error("SetWeekdayFilter refetch = false, want true")
	}
	if withDay.Weekday != activity.Monday {
		t.Errorf("Weekday = %q, want Monday", withDay.Weekday)
	}
	if base.Weekday != "" {
		t.Error("SetWeekdayFilter mutated the receiver")
	}

	withRange, refetch := base.SetTimeRangeFilter(TimeRangeWeekend)
	if !refetch {
		t.Error("SetTimeRangeFilter refetch = false, want true")
	}
	if withRange.TimeRange != TimeRangeWeekend {
		t.Errorf("TimeRange = %q, want weekend", withRange.TimeRange)
	}
	if base.TimeRange != "" {
		t.Error("SetTimeRangeFilter mutated the receiver")
	}

	// Clearing back to empty must also request a refetch so a previously
	// applied server-side window is dropped.
	cleared, refetch := withRange.SetTimeRangeFilter("")
	if !refetch {
		t.Error("clearing time range refetch = false, want true")
	}
	if cleared.TimeRange != "" {
		t.Errorf("TimeRange = %q, want empty", cleared.TimeRange)
	}
}

// TestTimeRangeWindow verifies the server-side window translation.
func TestTimeRangeWindow(t *testing.T) {
	start, end, ok := TimeRangeWindow(TimeRangeMorning)
	if !ok || start != "06:00" || end != "08:00" {
		t.Errorf("morning window = %q-%q ok=%v, want 06:00-08:00 true", start, end, ok)
	}
	start, end, ok = TimeRangeWindow(TimeRangeAfternoon)
	if !ok || start != "15:00" || end != "18:00" {
		t.Errorf("afternoon window = %q-%q ok=%v, want 15:00-18:00 true", start, end, ok)
	}
	if _, _, ok := TimeRangeWindow(TimeRangeWeekend); ok {
		t.Error("weekend has a server-side window, want none")
	}
	if _, _, ok := TimeRangeWindow(""); ok {
		t.Error("empty time range has a server-side window, want none")
	}
}
