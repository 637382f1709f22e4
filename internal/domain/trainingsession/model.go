package trainingsession

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxTitleLength = 200
)

// Status constants. The set is closed.
const (
	StatusPlanned   = "planned"
	StatusDone      = "done"
	StatusCancelled = "cancelled"
)

// Date and time layouts used for session_date and session_time.
const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04"
)

// ValidStatuses contains all valid status values.
var ValidStatuses = []string{StatusPlanned, StatusDone, StatusCancelled}

// Domain errors
var (
	ErrEmptyTitle     = errors.New("session title cannot be empty")
	ErrTitleTooLong   = errors.New("session title cannot exceed 200 characters")
	ErrInvalidDate    = errors.New("session date must be in YYYY-MM-DD format")
	ErrInvalidTime    = errors.New("session time must be in HH:MM format")
	ErrInvalidStatus  = errors.New("status must be one of: planned, done, cancelled")
	ErrEmptySeasonID  = errors.New("season ID cannot be empty")
	ErrSessionLocked  = errors.New("sessions that are done or cancelled cannot be deleted")
	ErrReasonNotAllow = errors.New("status reason is only allowed for cancelled sessions")
)

// TrainingSession is a single scheduled training for a category in a season.
type TrainingSession struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	SessionDate  string    `json:"session_date"` // YYYY-MM-DD, compared as text
	SessionTime  string    `json:"session_time"` // HH:MM or empty
	CategoryID   string    `json:"category_id"`
	SeasonID     string    `json:"season_id"`
	CoachID      string    `json:"coach_id"`
	Status       string    `json:"status"`
	StatusReason string    `json:"status_reason"` // only when Status == cancelled
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Validate checks if the TrainingSession has valid data.
// PRE: TrainingSession struct is populated
// POST: Returns nil if valid, error otherwise
func (s *TrainingSession) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return ErrEmptyTitle
	}
	if len(s.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if !IsISODate(s.SessionDate) {
		return ErrInvalidDate
	}
	if s.SessionTime != "" && !IsClockTime(s.SessionTime) {
		return ErrInvalidTime
	}
	if strings.TrimSpace(s.SeasonID) == "" {
		return ErrEmptySeasonID
	}
	if !IsValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	if s.StatusReason != "" && s.Status != StatusCancelled {
		return ErrReasonNotAllow
	}
	return nil
}

// IsPlanned returns true if the session has not been held or cancelled.
// INVARIANT: Status field is not mutated
func (s *TrainingSession) IsPlanned() bool {
	return s.Status == StatusPlanned
}

// CanDelete reports whether the session may be removed.
// Done and cancelled sessions are part of the attendance history.
func (s *TrainingSession) CanDelete() bool {
	return s.Status != StatusDone && s.Status != StatusCancelled
}

// SetStatus moves the session to the given status.
// The reason is kept only for cancellations and cleared otherwise.
// PRE: status is one of ValidStatuses
// POST: Status and StatusReason are updated
func (s *TrainingSession) SetStatus(status, reason string) error {
	if !IsValidStatus(status) {
		return ErrInvalidStatus
	}
	s.Status = status
	if status == StatusCancelled {
		s.StatusReason = strings.TrimSpace(reason)
	} else {
		s.StatusReason = ""
	}
	return nil
}

// IsValidStatus reports whether status is a known session status.
func IsValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if v == status {
			return true
		}
	}
	return false
}

// IsISODate reports whether value is a zero-padded YYYY-MM-DD calendar date.
func IsISODate(value string) bool {
	if len(value) != len(DateLayout) {
		return false
	}
	_, err := time.Parse(DateLayout, value)
	return err == nil
}

// IsClockTime reports whether value is a zero-padded HH:MM wall-clock time.
func IsClockTime(value string) bool {
	if len(value) != len(TimeLayout) {
		return false
	}
	_, err := time.Parse(TimeLayout, value)
	return err == nil
}
