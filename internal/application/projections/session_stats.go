package projections

import (
	"context"

	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	domainAttendance "clubhouse/internal/domain/attendance"
	domainSession "clubhouse/internal/domain/trainingsession"
)

// SessionStatsQuery selects the sessions of one category and season.
type SessionStatsQuery struct {
	CategoryID string
	SeasonID   string
}

// SessionStats summarizes how a season's trainings went.
type SessionStats struct {
	TotalSessions               int `json:"total_sessions"`
	PlannedSessions             int `json:"planned_sessions"`
	CompletedSessions           int `json:"completed_sessions"`
	CancelledSessions           int `json:"cancelled_sessions"`
	CompletionRate              int `json:"completion_rate"`
	CancellationRate            int `json:"cancellation_rate"`
	AverageAttendancePercentage int `json:"average_attendance_percentage"`
	TotalAttendanceRecords      int `json:"total_attendance_records"`
}

// QuerySessionStats counts sessions by status and measures attendance at completed ones.
// PRE: query.CategoryID and query.SeasonID are set
// POST: Rates are rounded percentages; zero when there is nothing to divide by
func QuerySessionStats(ctx context.Context, query SessionStatsQuery, deps StatsDeps) (SessionStats, error) {
	sessions, err := deps.Sessions.List(ctx, sessionStore.ListFilter{CategoryID: query.CategoryID, SeasonID: query.SeasonID})
	if err != nil {
		return SessionStats{}, err
	}

	var stats SessionStats
	var done []domainSession.TrainingSession
	for _, s := range sessions {
		stats.TotalSessions++
		switch s.Status {
		case domainSession.StatusPlanned:
			stats.PlannedSessions++
		case domainSession.StatusDone:
			stats.CompletedSessions++
			done = append(done, s)
		case domainSession.StatusCancelled:
			stats.CancelledSessions++
		}
	}
	stats.CompletionRate = percent(stats.CompletedSessions, stats.TotalSessions)
	stats.CancellationRate = percent(stats.CancelledSessions, stats.TotalSessions)

	if len(done) == 0 {
		return stats, nil
	}
	records, err := deps.Attendance.ListBySessions(ctx, sessionIDs(done))
	if err != nil {
		return SessionStats{}, err
	}
	present := 0
	for _, r := range records {
		if r.Status == domainAttendance.StatusPresent {
			present++
		}
	}
	stats.TotalAttendanceRecords = len(records)
	stats.AverageAttendancePercentage = percent(present, len(records))
	return stats, nil
}
