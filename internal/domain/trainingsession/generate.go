package trainingsession

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError is returned by Generate when the input cannot be expanded.
// It is a user-facing problem with the request, not a system fault.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// GenerateInput describes a recurring block of trainings to expand.
type GenerateInput struct {
	DateFrom       string   // YYYY-MM-DD, inclusive
	DateTo         string   // YYYY-MM-DD, inclusive
	Weekdays       []string // monday..sunday
	Time           string   // HH:MM
	TitleTemplate  string
	IncludeOrdinal bool
	CategoryID     string
}

// Draft is a proposed training session that has not been persisted.
type Draft struct {
	Date       string `json:"date"`
	Time       string `json:"time"`
	Title      string `json:"title"`
	CategoryID string `json:"category_id"`
}

// Generate expands the input into one draft per matching date, in date order.
// PRE: none
// POST: Returns drafts for every date in [DateFrom, DateTo] whose weekday is selected,
//
//	or a *ValidationError and no drafts.
//
// INVARIANT: Ordinals are 1..n in emission order regardless of weekday.
func Generate(input GenerateInput) ([]Draft, error) {
	if input.DateFrom == "" || input.DateTo == "" || len(input.Weekdays) == 0 || input.Time == "" {
		return nil, &ValidationError{Message: "date from, date to, weekdays and time are required"}
	}
	if strings.TrimSpace(input.TitleTemplate) == "" {
		return nil, &ValidationError{Field: "title_template", Message: "cannot be empty"}
	}
	if !IsClockTime(input.Time) {
		return nil, &ValidationError{Field: "time", Message: "must be in HH:MM format"}
	}

	from, err := time.Parse(DateLayout, input.DateFrom)
	if err != nil {
		return nil, &ValidationError{Field: "date_from", Message: "must be in YYYY-MM-DD format"}
	}
	to, err := time.Parse(DateLayout, input.DateTo)
	if err != nil {
		return nil, &ValidationError{Field: "date_to", Message: "must be in YYYY-MM-DD format"}
	}
	// A single-day range is rejected as well.
	if !from.Before(to) {
		return nil, &ValidationError{Field: "date_to", Message: "must be later than date from"}
	}

	selected, unknown := weekdaySet(input.Weekdays)
	if selected == nil {
		return nil, &ValidationError{Field: "weekdays", Message: fmt.Sprintf("unknown weekday %q", unknown)}
	}

	drafts := []Draft{}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if !selected[WeekdayName(d.Weekday())] {
			continue
		}
		title := input.TitleTemplate
		if input.IncludeOrdinal {
			title = fmt.Sprintf("%s %d", input.TitleTemplate, len(drafts)+1)
		}
		drafts = append(drafts, Draft{
			Date:       d.Format(DateLayout),
			Time:       input.Time,
			Title:      title,
			CategoryID: input.CategoryID,
		})
	}
	return drafts, nil
}
