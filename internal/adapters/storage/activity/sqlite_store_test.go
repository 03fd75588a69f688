package activity

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"mergington/internal/adapters/storage"
	domain "mergington/internal/domain/activity"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(ON)")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	if err := storage.InitDB(db); err != nil {
		t.Fatalf("init db: %v", err)
	}
	return NewSQLiteStore(db)
}

func structuredActivity(name string, days []string, start, end string) domain.Activity {
	return domain.Activity{
		Name:            name,
		Description:     "description of " + name,
		MaxParticipants: 10,
		Details:         &domain.ScheduleDetails{Days: days, StartTime: start, EndTime: end},
	}
}

func TestSQLiteStore_SaveAndGetByName(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	saved := structuredActivity("Chess Club", []string{domain.Monday, domain.Friday}, "15:15", "16:45")
	saved.Participants = []string{"alex@mergington.edu", "sarah@mergington.edu"}
	if err := store.Save(ctx, saved); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.GetByName(ctx, "Chess Club")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.Details == nil {
		t.Fatal("Details not loaded")
	}
	if len(got.Details.Days) != 2 || got.Details.Days[0] != domain.Monday || got.Details.Days[1] != domain.Friday {
		t.Errorf("Days = %v, want [Monday Friday] in insertion order", got.Details.Days)
	}
	if got.Details.StartTime != "15:15" || got.Details.EndTime != "16:45" {
		t.Errorf("times = %s-%s", got.Details.StartTime, got.Details.EndTime)
	}
	if len(got.Participants) != 2 || got.Participants[0] != "alex@mergington.edu" {
		t.Errorf("Participants = %v, want registration order preserved", got.Participants)
	}

	if _, err := store.GetByName(ctx, "Knitting Circle"); err == nil {
		t.Error("GetByName(missing) = nil error, want not found")
	}
}

func TestSQLiteStore_SaveUpdatesInPlace(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, structuredActivity("Art Club", []string{domain.Thursday}, "15:15", "17:00")); err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated := structuredActivity("Art Club", []string{domain.Wednesday}, "16:00", "17:30")
	updated.MaxParticipants = 20
	if err := store.Save(ctx, updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	got, err := store.GetByName(ctx, "Art Club")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.MaxParticipants != 20 || got.Details.StartTime != "16:00" {
		t.Errorf("update not applied: %+v", got)
	}
	if len(got.Details.Days) != 1 || got.Details.Days[0] != domain.Wednesday {
		t.Errorf("Days = %v, want the replaced day set", got.Details.Days)
	}

	all, err := store.List(ctx, ListFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("catalog has %d entries after update, want 1", len(all))
	}
}

func TestSQLiteStore_LegacyActivity(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	legacy := domain.Activity{
		Name:            "Garden Helpers",
		Schedule:        "Saturday mornings, weather permitting",
		MaxParticipants: 10,
	}
	if err := store.Save(ctx, legacy); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := store.GetByName(ctx, "Garden Helpers")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.Details != nil {
		t.Errorf("legacy entry loaded with Details = %+v, want nil", got.Details)
	}
	if got.Schedule != "Saturday mornings, weather permitting" {
		t.Errorf("Schedule = %q", got.Schedule)
	}
}

func TestSQLiteStore_ListFilters(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	fixtures := []domain.Activity{
		structuredActivity("Morning Fitness", []string{domain.Monday, domain.Wednesday}, "06:30", "07:45"),
		structuredActivity("Chess Club", []string{domain.Monday, domain.Friday}, "15:15", "16:45"),
		structuredActivity("Weekend Robotics Workshop", []string{domain.Saturday}, "10:00", "14:00"),
		{Name: "Garden Helpers", Schedule: "Saturday mornings", MaxParticipants: 10},
	}
	for _, f := range fixtures {
		if err := store.Save(ctx, f); err != nil {
			t.Fatalf("Save %s: %v", f.Name, err)
		}
	}

	tests := []struct {
		name   string
		filter ListFilter
		want   []string
	}{
		{"no filter keeps insertion order", ListFilter{}, []string{"Morning Fitness", "Chess Club", "Weekend Robotics Workshop", "Garden Helpers"}},
		{"day filter", ListFilter{Day: domain.Monday}, []string{"Morning Fitness", "Chess Club"}},
		{"time window excludes legacy entries", ListFilter{StartTime: "06:00", EndTime: "08:00"}, []string{"Morning Fitness"}},
		{"day and window compose", ListFilter{Day: domain.Monday, StartTime: "15:00", EndTime: "18:00"}, []string{"Chess Club"}},
		{"no matches", ListFilter{Day: domain.Sunday}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.filter)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d entries, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i].Name != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i].Name, tt.want[i])
				}
			}
		})
	}
}

func TestSQLiteStore_ListDays(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_ = store.Save(ctx, structuredActivity("Chess Club", []string{domain.Monday, domain.Friday}, "15:15", "16:45"))
	_ = store.Save(ctx, structuredActivity("Drama Club", []string{domain.Monday, domain.Wednesday}, "15:30", "17:30"))
	_ = store.Save(ctx, domain.Activity{Name: "Garden Helpers", Schedule: "sometime", MaxParticipants: 5})

	days, err := store.ListDays(ctx)
	if err != nil {
		t.Fatalf("ListDays: %v", err)
	}
	want := []string{"Friday", "Monday", "Wednesday"}
	if len(days) != len(want) {
		t.Fatalf("days = %v, want %v", days, want)
	}
	for i := range want {
		if days[i] != want[i] {
			t.Errorf("days = %v, want sorted de-duplicated %v", days, want)
		}
	}
}

func TestSQLiteStore_Participants(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	if err := store.Save(ctx, structuredActivity("Math Club", []string{domain.Tuesday}, "07:15", "08:00")); err != nil {
		t.Fatal(err)
	}

	emails := []string{"c@mergington.edu", "a@mergington.edu", "b@mergington.edu"}
	for _, email := range emails {
		if err := store.AddParticipant(ctx, "Math Club", email); err != nil {
			t.Fatalf("AddParticipant %s: %v", email, err)
		}
	}

	got, err := store.GetByName(ctx, "Math Club")
	if err != nil {
		t.Fatal(err)
	}
	for i := range emails {
		if got.Participants[i] != emails[i] {
			t.Fatalf("Participants = %v, want registration order %v", got.Participants, emails)
		}
	}

	if err := store.RemoveParticipant(ctx, "Math Club", "a@mergington.edu"); err != nil {
		t.Fatalf("RemoveParticipant: %v", err)
	}
	got, err = store.GetByName(ctx, "Math Club")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c@mergington.edu", "b@mergington.edu"}
	if len(got.Participants) != 2 || got.Participants[0] != want[0] || got.Participants[1] != want[1] {
		t.Errorf("Participants = %v, want %v with order preserved", got.Participants, want)
	}

	if err := store.AddParticipant(ctx, "Knitting Circle", "x@mergington.edu"); err == nil {
		t.Error("AddParticipant to missing activity succeeded")
	}
}
