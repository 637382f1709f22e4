package web

import "net/http"

func (s *server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /api/csrf", handleCSRFToken)
	mux.HandleFunc("GET /api/admin/perf", s.handlePerf)

	// Sessions
	mux.HandleFunc("POST /api/sessions/generate", s.handleGeneratePreview)
	mux.HandleFunc("POST /api/sessions/generate/commit", s.handleGenerateCommit)
	mux.HandleFunc("GET /api/sessions", s.handleListSessions)
	mux.HandleFunc("POST /api/sessions", s.handleCreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", s.handleGetSession)
	mux.HandleFunc("PUT /api/sessions/{id}", s.handleUpdateSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/status", s.handleSessionStatus)

	// Attendance
	mux.HandleFunc("GET /api/sessions/{id}/attendance", s.handleListAttendance)
	mux.HandleFunc("POST /api/sessions/{id}/attendance", s.handleRecordAttendance)
	mux.HandleFunc("PUT /api/attendance/{id}", s.handleUpdateAttendance)
	mux.HandleFunc("DELETE /api/attendance/{id}", s.handleDeleteAttendance)

	// Statistics
	mux.HandleFunc("GET /api/stats/sessions", s.handleSessionStats)
	mux.HandleFunc("GET /api/stats/members", s.handleMemberStats)
	mux.HandleFunc("GET /api/stats/trends", s.handleAttendanceTrends)
	mux.HandleFunc("GET /api/stats/analytics", s.handleCoachAnalytics)

	// Members
	mux.HandleFunc("GET /api/members", s.handleListMembers)
	mux.HandleFunc("POST /api/members", s.handleRegisterMember)
	mux.HandleFunc("POST /api/members/import", s.handleImportMembers)

	// Club setup
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categories/{id}/calendar.ics", s.handleCategoryCalendar)
	mux.HandleFunc("POST /api/lineups", s.handleCreateLineup)
	mux.HandleFunc("POST /api/lineups/{id}/members/{memberID}", s.handleAddLineupMember)
	mux.HandleFunc("DELETE /api/lineups/{id}/members/{memberID}", s.handleRemoveLineupMember)
}
