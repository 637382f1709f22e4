package web

import (
	"net/http"

	"clubhouse/internal/application/orchestrators"
	"clubhouse/internal/application/projections"
	"clubhouse/internal/domain/trainingsession"
)

// generateRequest is the body of both generate endpoints.
// Persistence fields are ignored by the preview.
type generateRequest struct {
	DateFrom         string   `json:"date_from"`
	DateTo           string   `json:"date_to"`
	Weekdays         []string `json:"weekdays"`
	Time             string   `json:"time"`
	TitleTemplate    string   `json:"title_template"`
	IncludeOrdinal   bool     `json:"include_ordinal"`
	CategoryID       string   `json:"category_id"`
	SeasonID         string   `json:"season_id"`
	CoachID          string   `json:"coach_id"`
	Location         string   `json:"location"`
	CreateAttendance bool     `json:"create_attendance"`
	DefaultStatus    string   `json:"default_status"`
}

func (g generateRequest) input() trainingsession.GenerateInput {
	return trainingsession.GenerateInput{
		DateFrom:       g.DateFrom,
		DateTo:         g.DateTo,
		Weekdays:       g.Weekdays,
		Time:           g.Time,
		TitleTemplate:  g.TitleTemplate,
		IncludeOrdinal: g.IncludeOrdinal,
		CategoryID:     g.CategoryID,
	}
}

// handleGeneratePreview expands the request into drafts without saving anything.
func (s *server) handleGeneratePreview(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	if err := orchestrators.CheckGenerateRange(req.input()); err != nil {
		writeError(w, err)
		return
	}
	drafts, err := trainingsession.Generate(req.input())
	if err != nil {
		writeError(w, err)
		return
	}
	if drafts == nil {
		drafts = []trainingsession.Draft{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"count": len(drafts), "drafts": drafts})
}

// handleGenerateCommit generates drafts and persists them as planned sessions.
// Per-session failures are reported in the summary, not as an error status.
func (s *server) handleGenerateCommit(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteCreateGeneratedSessions(r.Context(), orchestrators.CreateGeneratedSessionsInput{
		Generate:            req.input(),
		SeasonID:            req.SeasonID,
		CoachID:             req.CoachID,
		Location:            req.Location,
		BootstrapAttendance: req.CreateAttendance,
		DefaultStatus:       req.DefaultStatus,
	}, orchestrators.CreateGeneratedSessionsDeps{
		SessionStore:    s.stores.Sessions,
		AttendanceStore: s.stores.Attendance,
		Roster:          s.roster,
		GenerateID:      generateID,
		Now:             s.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	status := http.StatusOK
	if result.Created > 0 {
		status = http.StatusCreated
	}
	writeJSON(w, status, result)
}

// handleListSessions returns the upcoming, past and all tabs for a category and season.
func (s *server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "category_id", "season_id")
	if !ok {
		return
	}
	ref := r.URL.Query().Get("reference_date")
	if ref != "" && !trainingsession.IsISODate(ref) {
		http.Error(w, "reference_date must be in YYYY-MM-DD format", http.StatusBadRequest)
		return
	}
	view, err := projections.QuerySessionViews(r.Context(), projections.SessionViewsQuery{
		CategoryID:    params[0],
		SeasonID:      params[1],
		ReferenceDate: ref,
		Now:           s.today(),
	}, projections.SessionViewsDeps{Sessions: s.stores.Sessions})
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nonNilView(view))
}

func nonNilView(v trainingsession.SegmentedView) trainingsession.SegmentedView {
	if v.Upcoming == nil {
		v.Upcoming = []trainingsession.TrainingSession{}
	}
	if v.Past == nil {
		v.Past = []trainingsession.TrainingSession{}
	}
	if v.All == nil {
		v.All = []trainingsession.TrainingSession{}
	}
	return v
}

type sessionRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	SessionDate string `json:"session_date"`
	SessionTime string `json:"session_time"`
	CategoryID  string `json:"category_id"`
	SeasonID    string `json:"season_id"`
	CoachID     string `json:"coach_id"`
}

func (req sessionRequest) input() orchestrators.SessionInput {
	return orchestrators.SessionInput(req)
}

func (s *server) sessionDeps() orchestrators.SessionDeps {
	return orchestrators.SessionDeps{SessionStore: s.stores.Sessions, GenerateID: generateID, Now: s.now}
}

func (s *server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	created, err := orchestrators.ExecuteCreateSession(r.Context(), req.input(), s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.stores.Sessions.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *server) handleUpdateSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	updated, err := orchestrators.ExecuteUpdateSession(r.Context(), orchestrators.UpdateSessionInput{
		ID:           r.PathValue("id"),
		SessionInput: req.input(),
	}, s.sessionDeps())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// handleDeleteSession removes a planned session; done and cancelled sessions answer 409.
func (s *server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := orchestrators.ExecuteDeleteSession(r.Context(), r.PathValue("id"), s.sessionDeps()); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionStatus changes a session's status. Cancelling marks the attendance
// sheet absent and emails a notice to members with an address.
func (s *server) handleSessionStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
		Reason string `json:"reason"`
	}
	if err := strictDecode(w, r, &req); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}
	result, err := orchestrators.ExecuteUpdateSessionStatus(r.Context(), orchestrators.UpdateSessionStatusInput{
		SessionID: r.PathValue("id"),
		Status:    req.Status,
		Reason:    req.Reason,
	}, orchestrators.UpdateSessionStatusDeps{
		SessionStore:    s.stores.Sessions,
		AttendanceStore: s.stores.Attendance,
		Members:         s.stores.Members,
		Roster:          s.roster,
		EmailSender:     s.opts.EmailSender,
		FromAddress:     s.opts.MailFrom,
		Now:             s.now,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
