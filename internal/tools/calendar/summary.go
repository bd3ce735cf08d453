package calendar

import (
	"fmt"
	"strings"
	"time"

	gcal "google.golang.org/api/calendar/v3"
)

// summarizeEvents renders today's agenda as one line: a count plus the first
// start time, then up to ten "span — title" entries separated by pipes.
func summarizeEvents(items []*gcal.Event, loc *time.Location) string {
	if len(items) == 0 {
		return "No events for today. 🗓️"
	}

	var lines []string
	for _, ev := range items {
		if len(lines) == 10 {
			break
		}
		lines = append(lines, eventLine(ev, loc))
	}

	top := fmt.Sprintf("%d event(s) today", len(items))
	if first := firstStart(items[0], loc); first != "" {
		top += fmt.Sprintf("; first starts at %s", first)
	}
	return top + ". " + strings.Join(lines, " | ")
}

func eventLine(ev *gcal.Event, loc *time.Location) string {
	title := ev.Summary
	if title == "" {
		title = "(no title)"
	}

	if ev.Start != nil && ev.Start.DateTime != "" && ev.End != nil && ev.End.DateTime != "" {
		s, err1 := time.Parse(time.RFC3339, ev.Start.DateTime)
		e, err2 := time.Parse(time.RFC3339, ev.End.DateTime)
		if err1 == nil && err2 == nil {
			line := fmt.Sprintf("%s–%s — %s", s.In(loc).Format("15:04"), e.In(loc).Format("15:04"), title)
			if ev.Location != "" {
				line += " @ " + ev.Location
			}
			return line
		}
	}

	if ev.Start != nil && ev.Start.Date != "" {
		return fmt.Sprintf("All day — %s (%s)", title, ev.Start.Date)
	}
	return title
}

func firstStart(ev *gcal.Event, loc *time.Location) string {
	if ev.Start == nil {
		return ""
	}
	if ev.Start.DateTime != "" {
		if s, err := time.Parse(time.RFC3339, ev.Start.DateTime); err == nil {
			return s.In(loc).Format("15:04")
		}
		return ""
	}
	if ev.Start.Date != "" {
		return "00:00"
	}
	return ""
}
