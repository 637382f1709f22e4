package trainingsession_test

import (
	"testing"

	"clubhouse/internal/domain/trainingsession"
)

func ids(sessions []trainingsession.TrainingSession) []string {
	out := []string{}
	for _, s := range sessions {
		out = append(out, s.ID)
	}
	return out
}

func equalIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestSegment_AllInPast tests that nothing is upcoming after the last session.
func TestSegment_AllInPast(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "jan", SessionDate: "2024-01-01", Status: trainingsession.StatusPlanned},
		{ID: "mar", SessionDate: "2024-03-01", Status: trainingsession.StatusPlanned},
		{ID: "feb", SessionDate: "2024-02-01", Status: trainingsession.StatusDone},
	}

	view := trainingsession.Segment(sessions, "2024-06-01")

	if len(view.Upcoming) != 0 {
		t.Errorf("Upcoming = %v, want empty", ids(view.Upcoming))
	}
	if got, want := ids(view.Past), []string{"mar", "feb", "jan"}; !equalIDs(got, want) {
		t.Errorf("Past = %v, want %v", got, want)
	}
	if got, want := ids(view.All), []string{"jan", "mar", "feb"}; !equalIDs(got, want) {
		t.Errorf("All = %v, want %v", got, want)
	}
}

// TestSegment_UpcomingOrder tests ascending order by date then time.
func TestSegment_UpcomingOrder(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "b", SessionDate: "2024-05-02", SessionTime: "18:00", Status: trainingsession.StatusPlanned},
		{ID: "c", SessionDate: "2024-05-02", SessionTime: "", Status: trainingsession.StatusPlanned},
		{ID: "a", SessionDate: "2024-05-01", SessionTime: "19:00", Status: trainingsession.StatusPlanned},
		{ID: "today", SessionDate: "2024-04-30", SessionTime: "17:00", Status: trainingsession.StatusPlanned},
	}

	view := trainingsession.Segment(sessions, "2024-04-30")

	if got, want := ids(view.Upcoming), []string{"today", "a", "c", "b"}; !equalIDs(got, want) {
		t.Errorf("Upcoming = %v, want %v", got, want)
	}
	if len(view.Past) != 0 {
		t.Errorf("Past = %v, want empty", ids(view.Past))
	}
}

// TestSegment_NonPlannedFutureIsPast tests that cancelled and done sessions never count as upcoming.
func TestSegment_NonPlannedFutureIsPast(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "cancelled", SessionDate: "2024-09-10", Status: trainingsession.StatusCancelled},
		{ID: "done", SessionDate: "2024-09-01", Status: trainingsession.StatusDone},
		{ID: "planned", SessionDate: "2024-09-05", Status: trainingsession.StatusPlanned},
	}

	view := trainingsession.Segment(sessions, "2024-08-01")

	if got, want := ids(view.Upcoming), []string{"planned"}; !equalIDs(got, want) {
		t.Errorf("Upcoming = %v, want %v", got, want)
	}
	if got, want := ids(view.Past), []string{"cancelled", "done"}; !equalIDs(got, want) {
		t.Errorf("Past = %v, want %v", got, want)
	}
}

// TestSegment_PastTiesKeepInputOrder tests stability of the descending date sort.
func TestSegment_PastTiesKeepInputOrder(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "first", SessionDate: "2024-01-10", SessionTime: "20:00", Status: trainingsession.StatusDone},
		{ID: "second", SessionDate: "2024-01-10", SessionTime: "08:00", Status: trainingsession.StatusDone},
		{ID: "older", SessionDate: "2024-01-03", Status: trainingsession.StatusDone},
	}

	view := trainingsession.Segment(sessions, "2024-02-01")

	if got, want := ids(view.Past), []string{"first", "second", "older"}; !equalIDs(got, want) {
		t.Errorf("Past = %v, want %v", got, want)
	}
}

// TestSegment_UpcomingTiesKeepInputOrder tests stability of the ascending sort.
func TestSegment_UpcomingTiesKeepInputOrder(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "second-timed", SessionDate: "2024-05-02", SessionTime: "18:00", Status: trainingsession.StatusPlanned},
		{ID: "first-untimed", SessionDate: "2024-05-01", Status: trainingsession.StatusPlanned},
		{ID: "first-timed", SessionDate: "2024-05-02", SessionTime: "18:00", Status: trainingsession.StatusPlanned},
		{ID: "second-untimed", SessionDate: "2024-05-01", Status: trainingsession.StatusPlanned},
	}

	view := trainingsession.Segment(sessions, "2024-04-30")

	want := []string{"first-untimed", "second-untimed", "second-timed", "first-timed"}
	if got := ids(view.Upcoming); !equalIDs(got, want) {
		t.Errorf("Upcoming = %v, want %v", got, want)
	}
}

// TestSegment_CancelledFutureWithPlannedPast tests a cancelled future session among earlier planned ones.
func TestSegment_CancelledFutureWithPlannedPast(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "feb", SessionDate: "2024-02-01", Status: trainingsession.StatusPlanned},
		{ID: "jan", SessionDate: "2024-01-01", Status: trainingsession.StatusPlanned},
		{ID: "mar", SessionDate: "2024-03-01", Status: trainingsession.StatusCancelled},
	}

	view := trainingsession.Segment(sessions, "2024-02-15")

	if len(view.Upcoming) != 0 {
		t.Errorf("Upcoming = %v, want empty", ids(view.Upcoming))
	}
	if got, want := ids(view.Past), []string{"mar", "feb", "jan"}; !equalIDs(got, want) {
		t.Errorf("Past = %v, want %v", got, want)
	}
}

// TestSegment_DoesNotMutateInput tests that the caller's slice keeps its order.
func TestSegment_DoesNotMutateInput(t *testing.T) {
	sessions := []trainingsession.TrainingSession{
		{ID: "x", SessionDate: "2024-01-01", Status: trainingsession.StatusDone},
		{ID: "y", SessionDate: "2024-12-01", Status: trainingsession.StatusDone},
	}

	_ = trainingsession.Segment(sessions, "2024-06-01")

	if got, want := ids(sessions), []string{"x", "y"}; !equalIDs(got, want) {
		t.Errorf("input = %v, want %v", got, want)
	}
}

// TestSegment_Empty tests that an empty input yields empty groups.
func TestSegment_Empty(t *testing.T) {
	view := trainingsession.Segment(nil, "2024-01-01")
	if len(view.Upcoming) != 0 || len(view.Past) != 0 || len(view.All) != 0 {
		t.Errorf("Segment(nil) = %+v, want all empty", view)
	}
}
