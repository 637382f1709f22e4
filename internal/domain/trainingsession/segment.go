package trainingsession

import "sort"

// SegmentedView groups sessions into the three coach portal tabs.
type SegmentedView struct {
	Upcoming []TrainingSession `json:"upcoming"`
	Past     []TrainingSession `json:"past"`
	All      []TrainingSession `json:"all"`
}

// Segment classifies sessions relative to referenceDate (YYYY-MM-DD).
// Dates and times are compared as text; the fixed-width format makes that chronological.
// PRE: referenceDate is an ISO date; session dates are ISO dates
// POST: Upcoming holds planned sessions on or after referenceDate, ascending by (date, time);
//
//	Past holds everything else, descending by date only; All is the input slice itself.
//
// INVARIANT: sessions is never mutated; ties keep input order.
func Segment(sessions []TrainingSession, referenceDate string) SegmentedView {
	upcoming := []TrainingSession{}
	past := []TrainingSession{}
	for _, s := range sessions {
		if s.SessionDate >= referenceDate && s.Status == StatusPlanned {
			upcoming = append(upcoming, s)
		} else {
			past = append(past, s)
		}
	}

	sort.SliceStable(upcoming, func(i, j int) bool {
		if upcoming[i].SessionDate != upcoming[j].SessionDate {
			return upcoming[i].SessionDate < upcoming[j].SessionDate
		}
		return upcoming[i].SessionTime < upcoming[j].SessionTime
	})
	sort.SliceStable(past, func(i, j int) bool {
		return past[i].SessionDate > past[j].SessionDate
	})

	return SegmentedView{
		Upcoming: upcoming,
		Past:     past,
		All:      sessions,
	}
}
