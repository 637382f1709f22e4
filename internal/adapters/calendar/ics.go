// Package calendar renders training sessions as an iCalendar feed.
package calendar

import (
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gosimple/slug"

	"clubhouse/internal/domain/trainingsession"
)

// DefaultDuration is the length of a timed training in the feed.
const DefaultDuration = 90 * time.Minute

// uidDomain qualifies event UIDs so they stay unique across calendars.
const uidDomain = "clubhouse"

// Feed describes one published calendar.
type Feed struct {
	Name     string         // calendar display name, usually the category name
	Location *time.Location // wall-clock zone of session dates and times; UTC when nil
	Duration time.Duration  // event length; DefaultDuration when zero
	Now      time.Time      // DTSTAMP; time.Now() when zero
}

// Filename returns a download name such as "u12-juniors.ics".
func (f Feed) Filename() string {
	name := slug.Make(f.Name)
	if name == "" {
		name = "sessions"
	}
	return name + ".ics"
}

// Render builds the calendar. Sessions without a time become all-day events and
// cancelled sessions are kept with STATUS:CANCELLED so subscribers see the change.
// Sessions with unparseable dates are skipped.
func (f Feed) Render(sessions []trainingsession.TrainingSession) string {
	loc := f.Location
	if loc == nil {
		loc = time.UTC
	}
	duration := f.Duration
	if duration <= 0 {
		duration = DefaultDuration
	}
	stamp := f.Now
	if stamp.IsZero() {
		stamp = time.Now()
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//clubhouse//training sessions//EN")
	if f.Name != "" {
		cal.SetXWRCalName(f.Name)
	}
	cal.SetXWRTimezone(loc.String())

	for _, s := range sessions {
		day, err := time.ParseInLocation(trainingsession.DateLayout, s.SessionDate, loc)
		if err != nil {
			continue
		}
		event := cal.AddEvent(s.ID + "@" + uidDomain)
		event.SetDtStampTime(stamp)
		event.SetCreatedTime(s.CreatedAt)
		event.SetModifiedAt(s.UpdatedAt)
		event.SetSummary(s.Title)
		if s.Location != "" {
			event.SetLocation(s.Location)
		}
		if desc := description(s); desc != "" {
			event.SetDescription(desc)
		}

		if start, ok := startTime(day, s.SessionTime, loc); ok {
			event.SetStartAt(start)
			event.SetEndAt(start.Add(duration))
		} else {
			event.SetAllDayStartAt(day)
			event.SetAllDayEndAt(day.AddDate(0, 0, 1))
		}

		switch s.Status {
		case trainingsession.StatusCancelled:
			event.SetStatus(ics.ObjectStatusCancelled)
		default:
			event.SetStatus(ics.ObjectStatusConfirmed)
		}
	}
	return cal.Serialize()
}

func startTime(day time.Time, clock string, loc *time.Location) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(trainingsession.TimeLayout, clock)
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), true
}

func description(s trainingsession.TrainingSession) string {
	parts := []string{}
	if s.Description != "" {
		parts = append(parts, s.Description)
	}
	if s.Status == trainingsession.StatusCancelled && s.StatusReason != "" {
		parts = append(parts, "Cancelled: "+s.StatusReason)
	}
	return strings.Join(parts, "\n")
}
