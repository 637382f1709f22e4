package projections

import (
	"context"
	"fmt"
	"time"

	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	domainAttendance "clubhouse/internal/domain/attendance"
	domainSession "clubhouse/internal/domain/trainingsession"
)

// DefaultTrendDays is the look-back window when a query does not set one.
const DefaultTrendDays = 30

// AttendanceTrendsQuery carries input for QueryAttendanceTrends.
type AttendanceTrendsQuery struct {
	CategoryID string
	SeasonID   string
	Days       int       // look-back window; 0 uses DefaultTrendDays
	Now        time.Time // optional: if zero, time.Now() is used
}

// AttendanceTrendPoint is the attendance of one completed session.
type AttendanceTrendPoint struct {
	Date                 string `json:"date"`
	SessionID            string `json:"session_id"`
	Present              int    `json:"present"`
	Absent               int    `json:"absent"`
	Late                 int    `json:"late"`
	Excused              int    `json:"excused"`
	TotalMembers         int    `json:"total_members"`
	AttendancePercentage int    `json:"attendance_percentage"`
}

// QueryAttendanceTrends returns one point per completed session in the window, oldest first.
// PRE: query.Days >= 0
// POST: AttendancePercentage is present members over the category's active member count
func QueryAttendanceTrends(ctx context.Context, query AttendanceTrendsQuery, deps StatsDeps) ([]AttendanceTrendPoint, error) {
	if query.Days < 0 {
		return nil, fmt.Errorf("days must not be negative")
	}
	days := query.Days
	if days == 0 {
		days = DefaultTrendDays
	}
	now := query.Now
	if now.IsZero() {
		now = time.Now()
	}

	sessions, err := deps.Sessions.List(ctx, sessionStore.ListFilter{
		CategoryID: query.CategoryID,
		SeasonID:   query.SeasonID,
		Status:     domainSession.StatusDone,
		DateFrom:   now.AddDate(0, 0, -days).Format(domainSession.DateLayout),
		DateTo:     now.Format(domainSession.DateLayout),
	})
	if err != nil {
		return nil, err
	}
	members, err := deps.Members.List(ctx, memberStore.ListFilter{CategoryID: query.CategoryID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	totalMembers := len(members)

	points := make([]AttendanceTrendPoint, 0, len(sessions))
	if len(sessions) == 0 {
		return points, nil
	}
	records, err := deps.Attendance.ListBySessions(ctx, sessionIDs(sessions))
	if err != nil {
		return nil, err
	}
	bySession := make(map[string][]domainAttendance.Record, len(sessions))
	for _, r := range records {
		bySession[r.SessionID] = append(bySession[r.SessionID], r)
	}

	for _, s := range sessions {
		p := AttendanceTrendPoint{Date: s.SessionDate, SessionID: s.ID, TotalMembers: totalMembers}
		for _, r := range bySession[s.ID] {
			switch r.Status {
			case domainAttendance.StatusPresent:
				p.Present++
			case domainAttendance.StatusAbsent:
				p.Absent++
			case domainAttendance.StatusLate:
				p.Late++
			case domainAttendance.StatusExcused:
				p.Excused++
			}
		}
		p.AttendancePercentage = percent(p.Present, totalMembers)
		points = append(points, p)
	}
	return points, nil
}
