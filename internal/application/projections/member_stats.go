package projections

import (
	"context"
	"sort"
	"time"

	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	domainAttendance "clubhouse/internal/domain/attendance"
	domainSession "clubhouse/internal/domain/trainingsession"
)

// Trend labels for a member's recent attendance.
const (
	TrendImproving = "improving"
	TrendDeclining = "declining"
	TrendStable    = "stable"
)

// Trend windows: the last trendWindow records are compared with the trendWindow before them.
const (
	trendWindow     = 5
	trendMinRecords = 3
	trendThreshold  = 0.10
)

// MemberStatsQuery selects a category's members and the season's completed sessions.
type MemberStatsQuery struct {
	CategoryID string
	SeasonID   string
}

// MemberAttendanceStats is one member's attendance over the season's completed sessions.
type MemberAttendanceStats struct {
	MemberID             string     `json:"member_id"`
	MemberName           string     `json:"member_name"`
	MemberSurname        string     `json:"member_surname"`
	TotalSessions        int        `json:"total_sessions"`
	PresentCount         int        `json:"present_count"`
	AbsentCount          int        `json:"absent_count"`
	LateCount            int        `json:"late_count"`
	ExcusedCount         int        `json:"excused_count"`
	AttendancePercentage int        `json:"attendance_percentage"`
	RecentTrend          string     `json:"recent_trend"`
	LastAttendanceAt     *time.Time `json:"last_attendance_at,omitempty"`
	ConsecutiveAbsences  int        `json:"consecutive_absences"`
	ConsecutivePresent   int        `json:"consecutive_present"`
}

// QueryMemberAttendanceStats computes per-member attendance for a category and season.
// PRE: query.CategoryID and query.SeasonID are set
// POST: One entry per active category member, sorted by AttendancePercentage descending;
//
//	ties keep the member list order (surname, name).
func QueryMemberAttendanceStats(ctx context.Context, query MemberStatsQuery, deps StatsDeps) ([]MemberAttendanceStats, error) {
	members, err := deps.Members.List(ctx, memberStore.ListFilter{CategoryID: query.CategoryID, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	done, err := deps.Sessions.List(ctx, sessionStore.ListFilter{
		CategoryID: query.CategoryID,
		SeasonID:   query.SeasonID,
		Status:     domainSession.StatusDone,
	})
	if err != nil {
		return nil, err
	}

	byMember := make(map[string][]domainAttendance.Record)
	if len(done) > 0 {
		records, err := deps.Attendance.ListBySessions(ctx, sessionIDs(done))
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			byMember[r.MemberID] = append(byMember[r.MemberID], r)
		}
	}

	out := make([]MemberAttendanceStats, 0, len(members))
	for _, m := range members {
		records := byMember[m.ID]
		st := MemberAttendanceStats{
			MemberID:      m.ID,
			MemberName:    m.Name,
			MemberSurname: m.Surname,
			TotalSessions: len(done),
			RecentTrend:   memberTrend(records),
		}
		for _, r := range records {
			switch r.Status {
			case domainAttendance.StatusPresent:
				st.PresentCount++
			case domainAttendance.StatusAbsent:
				st.AbsentCount++
			case domainAttendance.StatusLate:
				st.LateCount++
			case domainAttendance.StatusExcused:
				st.ExcusedCount++
			}
		}
		st.AttendancePercentage = percent(st.PresentCount, st.TotalSessions)

		if n := len(records); n > 0 {
			last := records[n-1].RecordedAt
			st.LastAttendanceAt = &last
			status, streak := currentStreak(records)
			switch status {
			case domainAttendance.StatusAbsent:
				st.ConsecutiveAbsences = streak
			case domainAttendance.StatusPresent:
				st.ConsecutivePresent = streak
			}
		}
		out = append(out, st)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].AttendancePercentage > out[j].AttendancePercentage
	})
	return out, nil
}

// memberTrend compares the present rate of the last five records with the five before.
// PRE: records are ordered by RecordedAt ascending
func memberTrend(records []domainAttendance.Record) string {
	n := len(records)
	recent := records[max(0, n-trendWindow):]
	previous := records[max(0, n-2*trendWindow):max(0, n-trendWindow)]
	if len(recent) < trendMinRecords || len(previous) < trendMinRecords {
		return TrendStable
	}
	recentRate := presentRate(recent)
	previousRate := presentRate(previous)
	switch {
	case recentRate > previousRate+trendThreshold:
		return TrendImproving
	case recentRate < previousRate-trendThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}

func presentRate(records []domainAttendance.Record) float64 {
	present := 0
	for _, r := range records {
		if r.Status == domainAttendance.StatusPresent {
			present++
		}
	}
	return float64(present) / float64(len(records))
}

// currentStreak returns the status of the latest record and how many records in a row share it.
func currentStreak(records []domainAttendance.Record) (string, int) {
	last := records[len(records)-1].Status
	streak := 0
	for i := len(records) - 1; i >= 0 && records[i].Status == last; i-- {
		streak++
	}
	return last, streak
}
