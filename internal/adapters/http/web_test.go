package web

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"clubhouse/internal/adapters/email"
	"clubhouse/internal/adapters/http/perf"
	attendanceStore "clubhouse/internal/adapters/storage/attendance"
	categoryStore "clubhouse/internal/adapters/storage/category"
	lineupStore "clubhouse/internal/adapters/storage/lineup"
	memberStore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/adapters/storage/storagetest"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	"clubhouse/internal/domain/category"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/trainingsession"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	handler   http.Handler
	db        *sql.DB
	stores    *Stores
	mail      *email.NoopSender
	collector *perf.Collector
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := storagetest.OpenDB(t)
	stores := &Stores{
		Sessions:   sessionStore.NewSQLiteStore(db),
		Attendance: attendanceStore.NewSQLiteStore(db),
		Members:    memberStore.NewSQLiteStore(db),
		Categories: categoryStore.NewSQLiteStore(db),
		Lineups:    lineupStore.NewSQLiteStore(db),
	}
	mail := email.NewNoopSender()
	collector := perf.NewCollector(100)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	h := NewMux(ctx, stores, Options{
		CSRFKey:     bytes.Repeat([]byte("k"), 32),
		EmailSender: mail,
		MailFrom:    "coach@example.com",
		Collector:   collector,
		Ping:        db.PingContext,
	})
	return &testEnv{handler: h, db: db, stores: stores, mail: mail, collector: collector}
}

func newJSONRequest(t *testing.T, method, path string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func (e *testEnv) serve(req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.handler.ServeHTTP(rr, req)
	return rr
}

// do sends a JSON request; body may be nil.
func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rdr)
	req.Header.Set("Content-Type", "application/json")
	return e.serve(req)
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func expectStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d; body: %s", rr.Code, want, strings.TrimSpace(rr.Body.String()))
	}
}

func (e *testEnv) seedCategory(t *testing.T, id, name string) {
	t.Helper()
	c := category.Category{ID: id, Name: name, Active: true}
	if err := e.stores.Categories.Save(context.Background(), c); err != nil {
		t.Fatalf("seed category: %v", err)
	}
}

func (e *testEnv) seedMember(t *testing.T, id, categoryID, mail string) {
	t.Helper()
	m := member.Member{ID: id, Name: "Player", Surname: strings.ToUpper(id), Sex: member.SexMale, CategoryID: categoryID, Email: mail, Active: true}
	if err := e.stores.Members.Save(context.Background(), m); err != nil {
		t.Fatalf("seed member: %v", err)
	}
}

func (e *testEnv) seedSession(t *testing.T, id, date, clock, status string) {
	t.Helper()
	s := trainingsession.TrainingSession{
		ID:          id,
		Title:       "Training " + id,
		SessionDate: date,
		SessionTime: clock,
		CategoryID:  "u12",
		SeasonID:    "2026",
		Status:      status,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
	if err := e.stores.Sessions.Save(context.Background(), s); err != nil {
		t.Fatalf("seed session: %v", err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/healthz", nil)
	expectStatus(t, rr, http.StatusOK)
	if got := decode[map[string]string](t, rr)["status"]; got != "ok" {
		t.Errorf("status = %q, want ok", got)
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
}

func TestMethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "PATCH", "/api/sessions", nil)
	expectStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestPerf_RecordsRequests(t *testing.T) {
	env := newTestEnv(t)
	env.do(t, "GET", "/api/categories", nil)

	rr := env.do(t, "GET", "/api/admin/perf?minutes=5", nil)
	expectStatus(t, rr, http.StatusOK)
	snap := decode[perf.Snapshot](t, rr)
	if snap.Requests < 1 {
		t.Errorf("Requests = %d, want >= 1", snap.Requests)
	}
}

func TestCSRFToken(t *testing.T) {
	env := newTestEnv(t)
	rr := env.do(t, "GET", "/api/csrf", nil)
	expectStatus(t, rr, http.StatusOK)
	if decode[map[string]string](t, rr)["token"] == "" {
		t.Error("empty token")
	}
}

func TestInvalidJSON(t *testing.T) {
	env := newTestEnv(t)
	req := httptest.NewRequest("POST", "/api/sessions", strings.NewReader(`{"title": "x", "bogus": 1}`))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	env.handler.ServeHTTP(rr, req)
	expectStatus(t, rr, http.StatusBadRequest)
}
