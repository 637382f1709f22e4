package projections

import (
	"context"

	memberStore "clubhouse/internal/adapters/storage/member"
	sessionStore "clubhouse/internal/adapters/storage/trainingsession"
	domainAttendance "clubhouse/internal/domain/attendance"
	domainMember "clubhouse/internal/domain/member"
	domainSession "clubhouse/internal/domain/trainingsession"
)

// SessionLister interface for session queries.
type SessionLister interface {
	List(ctx context.Context, filter sessionStore.ListFilter) ([]domainSession.TrainingSession, error)
}

// AttendanceLister interface for attendance queries.
// Records are returned ordered by recorded time.
type AttendanceLister interface {
	ListBySessions(ctx context.Context, sessionIDs []string) ([]domainAttendance.Record, error)
}

// MemberLister interface for member queries.
type MemberLister interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]domainMember.Member, error)
}

// StatsDeps holds dependencies shared by the statistics projections.
type StatsDeps struct {
	Sessions   SessionLister
	Attendance AttendanceLister
	Members    MemberLister
}

func sessionIDs(sessions []domainSession.TrainingSession) []string {
	ids := make([]string, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids
}

// percent returns part/whole as a rounded percentage, 0 when whole is 0.
func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(float64(part)*100/float64(whole) + 0.5)
}
