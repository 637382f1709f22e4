package projections

import (
	"context"
	"fmt"
	"time"

	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	domainSession "clubhouse/internal/domain/trainingsession"
)

// SessionViewsQuery carries input for QuerySessionViews.
type SessionViewsQuery struct {
	CategoryID    string
	SeasonID      string
	ReferenceDate string    // YYYY-MM-DD; empty means the date of Now
	Now           time.Time // optional: if zero, time.Now() is used
}

// SessionViewsDeps holds dependencies for QuerySessionViews.
type SessionViewsDeps struct {
	Sessions SessionLister
}

// QuerySessionViews lists a category's sessions for a season and splits them into tabs.
// PRE: query.CategoryID and query.SeasonID are non-empty
// POST: Returns upcoming, past and all sessions relative to the reference date
func QuerySessionViews(ctx context.Context, query SessionViewsQuery, deps SessionViewsDeps) (domainSession.SegmentedView, error) {
	if query.CategoryID == "" || query.SeasonID == "" {
		return domainSession.SegmentedView{}, fmt.Errorf("category_id and season_id are required")
	}
	ref := query.ReferenceDate
	if ref == "" {
		now := query.Now
		if now.IsZero() {
			now = time.Now()
		}
		ref = now.Format(domainSession.DateLayout)
	} else if !domainSession.IsISODate(ref) {
		return domainSession.SegmentedView{}, fmt.Errorf("reference_date must be in YYYY-MM-DD format")
	}

	sessions, err := deps.Sessions.List(ctx, sessionStore.ListFilter{CategoryID: query.CategoryID, SeasonID: query.SeasonID})
	if err != nil {
		return domainSession.SegmentedView{}, err
	}
	return domainSession.Segment(sessions, ref), nil
}
