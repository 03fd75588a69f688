package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/teambition/rrule-go"

	"mergington/internal/application/projections"
	activityDomain "mergington/internal/domain/activity"
)

// rruleWeekdays maps schedule day names onto iCalendar weekdays.
var rruleWeekdays = map[string]rrule.Weekday{
	activityDomain.Sunday:    rrule.SU,
	activityDomain.Monday:    rrule.MO,
	activityDomain.Tuesday:   rrule.TU,
	activityDomain.Wednesday: rrule.WE,
	activityDomain.Thursday:  rrule.TH,
	activityDomain.Friday:    rrule.FR,
	activityDomain.Saturday:  rrule.SA,
}

// handleExportCalendar serves the filtered catalog as an iCalendar feed.
// Each activity with a structured schedule becomes one weekly recurring
// event; legacy entries without structured details are skipped because they
// have no machine-readable meeting times.
func handleExportCalendar(w http.ResponseWriter, r *http.Request) {
	criteria := criteriaFromQuery(r)
	entries, err := projections.QueryGetCatalog(r.Context(), criteria, catalogDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	filtered := projections.FilterActivities(entries, criteria)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Mergington High School//Activities//EN")

	now := timeNow()
	for _, entry := range filtered {
		if entry.Details == nil || len(entry.Details.Days) == 0 {
			continue
		}

		rule, start, end, err := weeklyRecurrence(entry, now)
		if err != nil {
			slog.Warn("calendar_export_skipped", "activity", entry.Name, "error", err.Error())
			continue
		}

		event := cal.AddEvent(eventUID(entry.Name))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetStartAt(start)
		event.SetEndAt(end)
		event.SetSummary(entry.Name)
		event.SetDescription(entry.Description)
		event.SetLocation("Mergington High School")
		event.AddRrule(rule)
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="activities.ics"`)
	fmt.Fprint(w, cal.Serialize())
}

// weeklyRecurrence builds the RRULE string and the first occurrence's
// start/end times for one activity.
func weeklyRecurrence(entry activityDomain.Activity, now time.Time) (rule string, start, end time.Time, err error) {
	var byDay []rrule.Weekday
	for _, day := range entry.Details.Days {
		wd, ok := rruleWeekdays[day]
		if !ok {
			return "", time.Time{}, time.Time{}, fmt.Errorf("unknown day %q", day)
		}
		byDay = append(byDay, wd)
	}

	startHour, startMin, err := splitClock(entry.Details.StartTime)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}
	endHour, endMin, err := splitClock(entry.Details.EndTime)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}

	opt := rrule.ROption{
		Freq:      rrule.WEEKLY,
		Byweekday: byDay,
		Dtstart:   time.Date(now.Year(), now.Month(), now.Day(), startHour, startMin, 0, 0, time.Local),
	}
	rr, err := rrule.NewRRule(opt)
	if err != nil {
		return "", time.Time{}, time.Time{}, err
	}

	// First occurrence on or after today anchors DTSTART.
	first := rr.After(now.AddDate(0, 0, -1), true)
	if first.IsZero() {
		return "", time.Time{}, time.Time{}, fmt.Errorf("no upcoming occurrence")
	}
	start = time.Date(first.Year(), first.Month(), first.Day(), startHour, startMin, 0, 0, time.Local)
	end = time.Date(first.Year(), first.Month(), first.Day(), endHour, endMin, 0, 0, time.Local)
	return rr.OrigOptions.RRuleString(), start, end, nil
}

func splitClock(hhmm string) (hour, minute int, err error) {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time %q", hhmm)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, err
	}
	minute, err = strconv.Atoi(parts[1])
	return hour, minute, err
}

func eventUID(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(name, " ", "-"))
	return slug + "@mergington.edu"
}
