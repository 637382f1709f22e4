package web

import (
	"net/http"

	"clubhouse/internal/application/projections"
)

func (s *server) statsDeps() projections.StatsDeps {
	return projections.StatsDeps{
		Sessions:   s.stores.Sessions,
		Attendance: s.stores.Attendance,
		Members:    s.stores.Members,
	}
}

func (s *server) handleSessionStats(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "category_id", "season_id")
	if !ok {
		return
	}
	stats, err := projections.QuerySessionStats(r.Context(), projections.SessionStatsQuery{
		CategoryID: params[0],
		SeasonID:   params[1],
	}, s.statsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *server) handleMemberStats(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "category_id", "season_id")
	if !ok {
		return
	}
	stats, err := projections.QueryMemberAttendanceStats(r.Context(), projections.MemberStatsQuery{
		CategoryID: params[0],
		SeasonID:   params[1],
	}, s.statsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *server) handleAttendanceTrends(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "category_id", "season_id")
	if !ok {
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}
	points, err := projections.QueryAttendanceTrends(r.Context(), projections.AttendanceTrendsQuery{
		CategoryID: params[0],
		SeasonID:   params[1],
		Days:       days,
		Now:        s.today(),
	}, s.statsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, points)
}

// handleCoachAnalytics renders insights in the language picked from the lang
// parameter, then Accept-Language, then the configured locale, then English.
func (s *server) handleCoachAnalytics(w http.ResponseWriter, r *http.Request) {
	params, ok := requireParams(w, r, "category_id", "season_id")
	if !ok {
		return
	}
	days, ok := intParam(w, r, "days")
	if !ok {
		return
	}
	analytics, err := projections.QueryCoachAnalytics(r.Context(), projections.CoachAnalyticsQuery{
		CategoryID: params[0],
		SeasonID:   params[1],
		Days:       days,
		Now:        s.today(),
		Printer:    projections.NewPrinter(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language"), s.opts.Locale),
	}, s.statsDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}
