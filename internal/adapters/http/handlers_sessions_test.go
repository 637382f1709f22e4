package web

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/trainingsession"
)

func generateBody() map[string]any {
	return map[string]any{
		"date_from":       "2026-03-02",
		"date_to":         "2026-03-15",
		"weekdays":        []string{"monday", "wednesday"},
		"time":            "17:30",
		"title_template":  "U12 training",
		"include_ordinal": true,
		"category_id":     "u12",
	}
}

func TestGeneratePreview(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/api/sessions/generate", generateBody())
	expectStatus(t, rr, http.StatusOK)

	got := decode[struct {
		Count  int                     `json:"count"`
		Drafts []trainingsession.Draft `json:"drafts"`
	}](t, rr)
	if got.Count != 4 || len(got.Drafts) != 4 {
		t.Fatalf("count = %d, drafts = %d, want 4", got.Count, len(got.Drafts))
	}
	if got.Drafts[0].Date != "2026-03-02" || got.Drafts[0].Title != "U12 training 1" {
		t.Errorf("first draft = %+v", got.Drafts[0])
	}
	if got.Drafts[3].Date != "2026-03-11" {
		t.Errorf("last draft date = %s, want 2026-03-11", got.Drafts[3].Date)
	}

	all, err := env.stores.Sessions.ListByCategoryAndSeason(context.Background(), "u12", "2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("preview persisted %d sessions", len(all))
	}
}

func TestGeneratePreview_Validation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name   string
		mutate func(map[string]any)
	}{
		{"single day range", func(b map[string]any) { b["date_to"] = b["date_from"] }},
		{"reversed range", func(b map[string]any) { b["date_to"] = "2026-03-01" }},
		{"missing time", func(b map[string]any) { delete(b, "time") }},
		{"no weekdays", func(b map[string]any) { b["weekdays"] = []string{} }},
		{"unknown weekday", func(b map[string]any) { b["weekdays"] = []string{"funday"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := generateBody()
			tt.mutate(body)
			rr := env.do(t, "POST", "/api/sessions/generate", body)
			expectStatus(t, rr, http.StatusBadRequest)
		})
	}
}

func TestGenerate_RangeAndBodyLimits(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/sessions/generate", "/api/sessions/generate/commit"} {
		body := generateBody()
		body["date_from"], body["date_to"] = "0001-01-01", "9999-12-31"
		body["season_id"] = "2026"
		rr := env.do(t, "POST", path, body)
		expectStatus(t, rr, http.StatusBadRequest)
		if !strings.Contains(rr.Body.String(), "366 days") {
			t.Errorf("%s body = %q", path, rr.Body.String())
		}
	}

	body := generateBody()
	body["title_template"] = strings.Repeat("x", 2<<20)
	rr := env.do(t, "POST", "/api/sessions/generate", body)
	expectStatus(t, rr, http.StatusBadRequest)

	all, err := env.stores.Sessions.ListByCategoryAndSeason(context.Background(), "u12", "2026")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 0 {
		t.Errorf("rejected requests persisted %d sessions", len(all))
	}
}

func TestGenerateCommit_WithAttendance(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory(t, "u12", "U12")
	env.seedMember(t, "m1", "u12", "")
	env.seedMember(t, "m2", "u12", "")

	body := generateBody()
	body["season_id"] = "2026"
	body["location"] = "Main pitch"
	body["create_attendance"] = true
	rr := env.do(t, "POST", "/api/sessions/generate/commit", body)
	expectStatus(t, rr, http.StatusCreated)

	result := decode[orchestrators.CreateGeneratedSessionsResult](t, rr)
	if result.Created != 4 || result.Failed != 0 || len(result.SessionIDs) != 4 {
		t.Fatalf("result = %+v", result)
	}
	if result.AttendanceRecords != 8 {
		t.Errorf("AttendanceRecords = %d, want 8", result.AttendanceRecords)
	}

	s, err := env.stores.Sessions.GetByID(context.Background(), result.SessionIDs[0])
	if err != nil {
		t.Fatal(err)
	}
	if s.Status != trainingsession.StatusPlanned || s.Location != "Main pitch" {
		t.Errorf("session = %+v", s)
	}
	if !strings.HasPrefix(s.Description, orchestrators.GeneratedDescriptionPrefix) {
		t.Errorf("Description = %q", s.Description)
	}
}

func TestGenerateCommit_RequiresSeason(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "POST", "/api/sessions/generate/commit", generateBody())
	expectStatus(t, rr, http.StatusBadRequest)
}

func TestListSessions_Segmented(t *testing.T) {
	env := newTestEnv(t)
	env.seedSession(t, "past", "2026-02-20", "17:30", trainingsession.StatusDone)
	env.seedSession(t, "late", "2026-03-10", "18:00", trainingsession.StatusPlanned)
	env.seedSession(t, "early", "2026-03-10", "", trainingsession.StatusPlanned)
	env.seedSession(t, "cancelled", "2026-03-12", "", trainingsession.StatusCancelled)

	rr := env.do(t, "GET", "/api/sessions?category_id=u12&season_id=2026&reference_date=2026-03-01", nil)
	expectStatus(t, rr, http.StatusOK)
	view := decode[trainingsession.SegmentedView](t, rr)

	ids := func(list []trainingsession.TrainingSession) string {
		out := make([]string, len(list))
		for i, s := range list {
			out[i] = s.ID
		}
		return strings.Join(out, ",")
	}
	if got := ids(view.Upcoming); got != "early,late" {
		t.Errorf("upcoming = %s, want early,late", got)
	}
	if got := ids(view.Past); got != "cancelled,past" {
		t.Errorf("past = %s, want cancelled,past", got)
	}
	if len(view.All) != 4 {
		t.Errorf("all = %d, want 4", len(view.All))
	}
}

func TestListSessions_BadParams(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{
		"/api/sessions?season_id=2026",
		"/api/sessions?category_id=u12",
		"/api/sessions?category_id=u12&season_id=2026&reference_date=01.03.2026",
	} {
		rr := env.do(t, "GET", path, nil)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", path, rr.Code)
		}
	}
}

func TestListSessions_EmptyArrays(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/api/sessions?category_id=u12&season_id=2026", nil)
	expectStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"upcoming":[]`) {
		t.Errorf("body = %s", rr.Body.String())
	}
}

func TestSessionCRUD(t *testing.T) {
	env := newTestEnv(t)

	rr := env.do(t, "POST", "/api/sessions", map[string]any{
		"title":        "Extra training",
		"session_date": "2026-03-05",
		"session_time": "18:00",
		"category_id":  "u12",
		"season_id":    "2026",
	})
	expectStatus(t, rr, http.StatusCreated)
	created := decode[trainingsession.TrainingSession](t, rr)
	if created.ID == "" || created.Status != trainingsession.StatusPlanned {
		t.Fatalf("created = %+v", created)
	}

	rr = env.do(t, "PUT", "/api/sessions/"+created.ID, map[string]any{
		"title":        "Extra training (moved)",
		"session_date": "2026-03-06",
		"category_id":  "u12",
		"season_id":    "2026",
	})
	expectStatus(t, rr, http.StatusOK)
	if got := decode[trainingsession.TrainingSession](t, rr); got.SessionDate != "2026-03-06" || got.SessionTime != "" {
		t.Errorf("updated = %+v", got)
	}

	rr = env.do(t, "GET", "/api/sessions/"+created.ID, nil)
	expectStatus(t, rr, http.StatusOK)

	rr = env.do(t, "DELETE", "/api/sessions/"+created.ID, nil)
	expectStatus(t, rr, http.StatusNoContent)

	rr = env.do(t, "GET", "/api/sessions/"+created.ID, nil)
	expectStatus(t, rr, http.StatusNotFound)
}

func TestCreateSession_Validation(t *testing.T) {
	env := newTestEnv(t)
	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty title", map[string]any{"title": " ", "session_date": "2026-03-05", "season_id": "2026"}},
		{"bad date", map[string]any{"title": "T", "session_date": "05.03.2026", "season_id": "2026"}},
		{"bad time", map[string]any{"title": "T", "session_date": "2026-03-05", "session_time": "6pm", "season_id": "2026"}},
		{"no season", map[string]any{"title": "T", "session_date": "2026-03-05"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expectStatus(t, env.do(t, "POST", "/api/sessions", tt.body), http.StatusBadRequest)
		})
	}
}

func TestDeleteSession_LockedAndMissing(t *testing.T) {
	env := newTestEnv(t)
	env.seedSession(t, "done", "2026-02-20", "", trainingsession.StatusDone)

	expectStatus(t, env.do(t, "DELETE", "/api/sessions/done", nil), http.StatusConflict)
	expectStatus(t, env.do(t, "DELETE", "/api/sessions/nope", nil), http.StatusNotFound)
}

func TestSessionStatus_CancelMarksAbsentAndNotifies(t *testing.T) {
	env := newTestEnv(t)
	env.seedCategory(t, "u12", "U12")
	env.seedMember(t, "m1", "u12", "m1@example.com")
	env.seedMember(t, "m2", "u12", "")
	env.seedSession(t, "s1", "2026-03-10", "17:30", trainingsession.StatusPlanned)
	if _, err := env.stores.Attendance.CreateForMembers(context.Background(), "s1", []string{"m1", "m2"}, attendance.StatusPresent, ""); err != nil {
		t.Fatal(err)
	}

	rr := env.do(t, "POST", "/api/sessions/s1/status", map[string]string{"status": "cancelled", "reason": "Pitch frozen"})
	expectStatus(t, rr, http.StatusOK)
	result := decode[orchestrators.UpdateSessionStatusResult](t, rr)
	if result.Session.Status != trainingsession.StatusCancelled || result.Session.StatusReason != "Pitch frozen" {
		t.Errorf("session = %+v", result.Session)
	}
	if result.AttendanceUpdated != 2 {
		t.Errorf("AttendanceUpdated = %d, want 2", result.AttendanceUpdated)
	}
	if result.NoticesSent != 1 {
		t.Errorf("NoticesSent = %d, want 1", result.NoticesSent)
	}

	records, err := env.stores.Attendance.ListBySession(context.Background(), "s1")
	if err != nil {
		t.Fatal(err)
	}
	for _, r := range records {
		if r.Status != attendance.StatusAbsent {
			t.Errorf("record %s status = %s, want absent", r.MemberID, r.Status)
		}
	}
	sent := env.mail.Sent()
	if len(sent) != 1 || sent[0].To[0] != "m1@example.com" {
		t.Fatalf("sent = %+v", sent)
	}
	if !strings.Contains(sent[0].HTML, "Pitch frozen") {
		t.Errorf("notice HTML missing reason: %s", sent[0].HTML)
	}
}

func TestSessionStatus_Errors(t *testing.T) {
	env := newTestEnv(t)
	env.seedSession(t, "s1", "2026-03-10", "", trainingsession.StatusPlanned)

	expectStatus(t, env.do(t, "POST", "/api/sessions/s1/status", map[string]string{"status": "postponed"}), http.StatusBadRequest)
	expectStatus(t, env.do(t, "POST", "/api/sessions/missing/status", map[string]string{"status": "done"}), http.StatusNotFound)
}

func TestSessionStatus_ReasonClearedUnlessCancelled(t *testing.T) {
	env := newTestEnv(t)
	env.seedSession(t, "s1", "2026-03-10", "", trainingsession.StatusPlanned)

	rr := env.do(t, "POST", "/api/sessions/s1/status", map[string]string{"status": "done", "reason": "ignored"})
	expectStatus(t, rr, http.StatusOK)
	got := decode[orchestrators.UpdateSessionStatusResult](t, rr)
	if got.Session.Status != trainingsession.StatusDone || got.Session.StatusReason != "" {
		t.Errorf("session = %+v", got.Session)
	}
	if len(env.mail.Sent()) != 0 {
		t.Error("no notice expected for done")
	}
}
