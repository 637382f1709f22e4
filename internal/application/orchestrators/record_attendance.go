package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/trainingsession"
)

// AttendanceStore defines attendance persistence used by the recording orchestrators.
type AttendanceStore interface {
	GetByID(ctx context.Context, id string) (attendance.Record, error)
	GetByMemberAndSession(ctx context.Context, memberID, sessionID string) (attendance.Record, error)
	Save(ctx context.Context, r attendance.Record) error
	Delete(ctx context.Context, id string) error
}

// SessionGetter loads a single session.
type SessionGetter interface {
	GetByID(ctx context.Context, id string) (trainingsession.TrainingSession, error)
}

// RecordAttendanceInput carries one member's attendance at a session.
type RecordAttendanceInput struct {
	SessionID  string
	MemberID   string
	Status     string
	Note       string
	RecordedBy string
}

// AttendanceDeps holds dependencies for attendance recording.
type AttendanceDeps struct {
	AttendanceStore AttendanceStore
	Sessions        SessionGetter
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteRecordAttendance creates or replaces the member's record for a session.
// PRE: SessionID refers to an existing session
// POST: Exactly one record exists for (MemberID, SessionID); an existing record keeps its ID
func ExecuteRecordAttendance(ctx context.Context, input RecordAttendanceInput, deps AttendanceDeps) (attendance.Record, error) {
	if _, err := deps.Sessions.GetByID(ctx, input.SessionID); err != nil {
		return attendance.Record{}, err
	}

	status := input.Status
	if status == "" {
		status = attendance.DefaultStatus
	}
	r := attendance.Record{
		MemberID:   input.MemberID,
		SessionID:  input.SessionID,
		Status:     status,
		Note:       input.Note,
		RecordedBy: input.RecordedBy,
		RecordedAt: deps.Now(),
	}
	if err := r.Validate(); err != nil {
		return attendance.Record{}, err
	}

	existing, err := deps.AttendanceStore.GetByMemberAndSession(ctx, input.MemberID, input.SessionID)
	switch {
	case err == nil:
		r.ID = existing.ID
	case errors.Is(err, sql.ErrNoRows):
		r.ID = deps.GenerateID()
	default:
		return attendance.Record{}, err
	}

	if err := deps.AttendanceStore.Save(ctx, r); err != nil {
		return attendance.Record{}, err
	}
	slog.Info("attendance_recorded", "session_id", r.SessionID, "member_id", r.MemberID, "status", r.Status)
	return r, nil
}

// UpdateAttendanceInput changes status and note of an existing record.
type UpdateAttendanceInput struct {
	ID         string
	Status     string
	Note       string
	RecordedBy string
}

// ExecuteUpdateAttendance updates an existing attendance record.
// PRE: ID refers to an existing record
// POST: Status, Note and RecordedAt are replaced; member and session are unchanged
func ExecuteUpdateAttendance(ctx context.Context, input UpdateAttendanceInput, deps AttendanceDeps) (attendance.Record, error) {
	r, err := deps.AttendanceStore.GetByID(ctx, input.ID)
	if err != nil {
		return attendance.Record{}, err
	}
	r.Status = input.Status
	r.Note = input.Note
	if input.RecordedBy != "" {
		r.RecordedBy = input.RecordedBy
	}
	r.RecordedAt = deps.Now()
	if err := r.Validate(); err != nil {
		return attendance.Record{}, err
	}
	if err := deps.AttendanceStore.Save(ctx, r); err != nil {
		return attendance.Record{}, err
	}
	slog.Info("attendance_updated", "attendance_id", r.ID, "status", r.Status)
	return r, nil
}

// ExecuteDeleteAttendance removes one attendance record.
func ExecuteDeleteAttendance(ctx context.Context, id string, deps AttendanceDeps) error {
	if _, err := deps.AttendanceStore.GetByID(ctx, id); err != nil {
		return err
	}
	if err := deps.AttendanceStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("attendance_deleted", "attendance_id", id)
	return nil
}
