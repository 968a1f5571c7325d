package render

import (
	"fmt"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/trip"
)

const dateLayout = "2006-01-02"

// ICS renders a stored trip as an iCalendar feed with one all-day event per
// itinerary day, so the plan imports cleanly into any calendar client.
func ICS(record *trip.Record) (string, error) {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Yatrika//Trip Planner//EN")

	now := time.Now().UTC()
	for _, day := range record.Content.Itinerary.Plan {
		start, err := time.Parse(dateLayout, day.Date)
		if err != nil {
			return "", fmt.Errorf("parse day %d date %q: %w", day.Day, day.Date, err)
		}

		event := cal.AddEvent(fmt.Sprintf("%s-day-%d", record.ID, day.Day))
		event.SetCreatedTime(now)
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(start)
		event.SetAllDayEndAt(start.AddDate(0, 0, 1))

		summary := fmt.Sprintf("%s: Day %d", record.Content.Request.Destination, day.Day)
		if day.Theme != "" {
			summary = fmt.Sprintf("%s: %s", record.Content.Request.Destination, day.Theme)
		}
		event.SetSummary(summary)
		event.SetLocation(record.Content.Request.Destination)
		event.SetDescription(describeActivities(day))
	}

	return cal.Serialize(), nil
}

func describeActivities(day model.DayPlan) string {
	lines := make([]string, 0, len(day.Activities))
	for _, act := range day.Activities {
		line := act.Description
		if act.Time != "" {
			line = fmt.Sprintf("%s - %s", act.Time, act.Description)
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
