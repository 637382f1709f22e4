package orchestrators

import (
	"context"
	"log/slog"
	"time"

	emailAdapter "clubhouse/internal/adapters/email"
	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/member"
	"clubhouse/internal/domain/trainingsession"
)

// AttendanceSheet is the per-session view of attendance used when a session changes status.
type AttendanceSheet interface {
	ListBySession(ctx context.Context, sessionID string) ([]attendance.Record, error)
	SetStatusForSession(ctx context.Context, sessionID, status string) (int, error)
}

// ContactLookup resolves members for notifications.
type ContactLookup interface {
	ListByIDs(ctx context.Context, ids []string) ([]member.Member, error)
}

// UpdateSessionStatusInput carries the target status and optional cancellation reason.
type UpdateSessionStatusInput struct {
	SessionID string
	Status    string
	Reason    string
}

// UpdateSessionStatusResult reports the stored session and the side effects applied.
type UpdateSessionStatusResult struct {
	Session           trainingsession.TrainingSession `json:"session"`
	AttendanceUpdated int                             `json:"attendance_updated"`
	NoticesSent       int                             `json:"notices_sent"`
}

// UpdateSessionStatusDeps holds dependencies for UpdateSessionStatus.
// AttendanceStore, Members, Roster and EmailSender are optional.
type UpdateSessionStatusDeps struct {
	SessionStore    SessionStore
	AttendanceStore AttendanceSheet
	Members         ContactLookup
	Roster          RosterSource
	EmailSender     emailAdapter.Sender
	FromAddress     string
	Now             func() time.Time
}

// ExecuteUpdateSessionStatus moves a session to planned, done or cancelled.
// PRE: input.SessionID refers to an existing session
// POST: Status is persisted; StatusReason is kept only for cancelled.
//
//	On cancellation the attendance sheet is set to absent and members with an email
//	are notified. Both side effects are best-effort and never fail the status change.
func ExecuteUpdateSessionStatus(ctx context.Context, input UpdateSessionStatusInput, deps UpdateSessionStatusDeps) (UpdateSessionStatusResult, error) {
	s, err := deps.SessionStore.GetByID(ctx, input.SessionID)
	if err != nil {
		return UpdateSessionStatusResult{}, err
	}
	previous := s.Status
	if err := s.SetStatus(input.Status, input.Reason); err != nil {
		return UpdateSessionStatusResult{}, err
	}
	s.UpdatedAt = deps.Now()
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return UpdateSessionStatusResult{}, err
	}

	result := UpdateSessionStatusResult{Session: s}
	slog.Info("session_status_changed", "session_id", s.ID, "from", previous, "to", s.Status)

	if s.Status != trainingsession.StatusCancelled || previous == trainingsession.StatusCancelled {
		return result, nil
	}

	var recipients []string
	if deps.AttendanceStore != nil {
		records, err := deps.AttendanceStore.ListBySession(ctx, s.ID)
		if err != nil {
			slog.Warn("cancel_attendance_list_failed", "session_id", s.ID, "error", err)
		}
		for _, r := range records {
			recipients = append(recipients, r.MemberID)
		}
		n, err := deps.AttendanceStore.SetStatusForSession(ctx, s.ID, attendance.StatusAbsent)
		if err != nil {
			slog.Warn("cancel_attendance_update_failed", "session_id", s.ID, "error", err)
		}
		result.AttendanceUpdated = n
	}

	if deps.EmailSender == nil || deps.Members == nil {
		return result, nil
	}
	if len(recipients) == 0 && deps.Roster != nil {
		ids, err := deps.Roster.ActiveRosterMemberIDs(ctx, s.CategoryID, s.SeasonID)
		if err != nil {
			slog.Warn("cancel_notice_roster_failed", "session_id", s.ID, "error", err)
		}
		recipients = ids
	}
	sent, err := sendCancellationNotices(ctx, s, recipients, deps)
	if err != nil {
		slog.Warn("cancel_notice_failed", "session_id", s.ID, "error", err)
	}
	result.NoticesSent = sent
	return result, nil
}
