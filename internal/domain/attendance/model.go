package attendance

import (
	"errors"
	"time"
)

// Status constants. The set is closed.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
	StatusExcused = "excused"
)

// DefaultStatus is used when records are bootstrapped for a new session.
const DefaultStatus = StatusPresent

// MaxNoteLength bounds the free-text note.
const MaxNoteLength = 500

// ValidStatuses contains all valid attendance status values.
var ValidStatuses = []string{StatusPresent, StatusAbsent, StatusLate, StatusExcused}

// Domain errors
var (
	ErrEmptyMemberID  = errors.New("attendance must be associated with a member")
	ErrEmptySessionID = errors.New("attendance must be associated with a training session")
	ErrInvalidStatus  = errors.New("status must be one of: present, absent, late, excused")
	ErrNoteTooLong    = errors.New("attendance note cannot exceed 500 characters")
)

// Record is one member's attendance at one training session.
type Record struct {
	ID         string    `json:"id"`
	MemberID   string    `json:"member_id"`
	SessionID  string    `json:"session_id"`
	Status     string    `json:"status"`
	Note       string    `json:"note"`
	RecordedBy string    `json:"recorded_by"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Validate checks if the Record has valid data.
// PRE: Record struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: MemberID and SessionID must not be empty
func (r *Record) Validate() error {
	if r.MemberID == "" {
		return ErrEmptyMemberID
	}
	if r.SessionID == "" {
		return ErrEmptySessionID
	}
	if !IsValidStatus(r.Status) {
		return ErrInvalidStatus
	}
	if len(r.Note) > MaxNoteLength {
		return ErrNoteTooLong
	}
	return nil
}

// Attended reports whether the member was at the session, on time or late.
func (r *Record) Attended() bool {
	return r.Status == StatusPresent || r.Status == StatusLate
}

// IsValidStatus reports whether status is a known attendance status.
func IsValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if v == status {
			return true
		}
	}
	return false
}
