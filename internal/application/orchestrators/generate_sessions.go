package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/attendance"
	"clubhouse/internal/domain/trainingsession"
)

// SessionStore defines the session persistence used by orchestrators.
type SessionStore interface {
	GetByID(ctx context.Context, id string) (trainingsession.TrainingSession, error)
	Save(ctx context.Context, s trainingsession.TrainingSession) error
	Delete(ctx context.Context, id string) error
	ListByCategoryAndSeason(ctx context.Context, categoryID, seasonID string) ([]trainingsession.TrainingSession, error)
}

// AttendanceBootstrapper creates the initial attendance sheet of a session.
type AttendanceBootstrapper interface {
	CreateForMembers(ctx context.Context, sessionID string, memberIDs []string, status, recordedBy string) (int, error)
}

// RosterSource resolves the members expected at a category's trainings.
type RosterSource interface {
	ActiveRosterMemberIDs(ctx context.Context, categoryID, seasonID string) ([]string, error)
}

// GeneratedDescriptionPrefix starts the description of every generated session.
const GeneratedDescriptionPrefix = "Automatically generated training - "

// CreateGeneratedSessionsInput carries the generator request plus persistence context.
type CreateGeneratedSessionsInput struct {
	Generate            trainingsession.GenerateInput
	SeasonID            string
	CoachID             string
	Location            string
	BootstrapAttendance bool
	DefaultStatus       string // attendance status for bootstrapped records; empty means present
}

// CreateGeneratedSessionsResult summarizes a batch run. Persistence failures are reported
// here rather than returned as an error.
type CreateGeneratedSessionsResult struct {
	Drafts             []trainingsession.Draft `json:"-"`
	Created            int                     `json:"created"`
	Failed             int                     `json:"failed"`
	Errors             []string                `json:"errors"`
	SessionIDs         []string                `json:"session_ids"`
	AttendanceRecords  int                     `json:"attendance_records"`
	AttendanceFailures int                     `json:"attendance_failures"`
}

// CreateGeneratedSessionsDeps holds dependencies for CreateGeneratedSessions.
type CreateGeneratedSessionsDeps struct {
	SessionStore    SessionStore
	AttendanceStore AttendanceBootstrapper // optional when BootstrapAttendance is false
	Roster          RosterSource           // optional when BootstrapAttendance is false
	GenerateID      func() string
	Now             func() time.Time
}

// MaxGenerateRangeDays bounds the span of one generate request.
const MaxGenerateRangeDays = 366

// CheckGenerateRange rejects date ranges longer than MaxGenerateRangeDays.
// PRE: none
// POST: Returns a *trainingsession.ValidationError for an oversized range; malformed
// dates return nil and are reported by trainingsession.Generate.
func CheckGenerateRange(input trainingsession.GenerateInput) error {
	from, err := time.Parse(trainingsession.DateLayout, input.DateFrom)
	if err != nil {
		return nil
	}
	to, err := time.Parse(trainingsession.DateLayout, input.DateTo)
	if err != nil {
		return nil
	}
	if to.After(from.AddDate(0, 0, MaxGenerateRangeDays)) {
		return &trainingsession.ValidationError{
			Field:   "date_to",
			Message: fmt.Sprintf("range cannot exceed %d days", MaxGenerateRangeDays),
		}
	}
	return nil
}

// ExecuteCreateGeneratedSessions expands the generator input and persists every draft.
// PRE: deps.SessionStore, GenerateID and Now are set
// POST: Returns a *trainingsession.ValidationError before any write when the input is invalid
//
//	or spans more than MaxGenerateRangeDays; otherwise one save is attempted per draft, in draft order, and failures are counted.
//
// INVARIANT: Created + Failed == len(Drafts); attendance failures never count as session failures.
func ExecuteCreateGeneratedSessions(ctx context.Context, input CreateGeneratedSessionsInput, deps CreateGeneratedSessionsDeps) (CreateGeneratedSessionsResult, error) {
	if err := CheckGenerateRange(input.Generate); err != nil {
		return CreateGeneratedSessionsResult{}, err
	}
	drafts, err := trainingsession.Generate(input.Generate)
	if err != nil {
		return CreateGeneratedSessionsResult{}, err
	}
	if strings.TrimSpace(input.SeasonID) == "" {
		return CreateGeneratedSessionsResult{}, &trainingsession.ValidationError{Field: "season_id", Message: "cannot be empty"}
	}

	status := input.DefaultStatus
	if status == "" {
		status = attendance.DefaultStatus
	}
	if !attendance.IsValidStatus(status) {
		return CreateGeneratedSessionsResult{}, &trainingsession.ValidationError{Field: "default_status", Message: attendance.ErrInvalidStatus.Error()}
	}

	// The roster is resolved once for the whole batch.
	var roster []string
	bootstrap := input.BootstrapAttendance && deps.AttendanceStore != nil && deps.Roster != nil
	if bootstrap {
		roster, err = deps.Roster.ActiveRosterMemberIDs(ctx, input.Generate.CategoryID, input.SeasonID)
		if err != nil {
			slog.Warn("roster_resolution_failed",
				"category_id", input.Generate.CategoryID,
				"season_id", input.SeasonID,
				"error", err,
			)
			bootstrap = false
		}
	}

	result := CreateGeneratedSessionsResult{
		Drafts:     drafts,
		Errors:     []string{},
		SessionIDs: []string{},
	}

	for _, d := range drafts {
		now := deps.Now()
		s := trainingsession.TrainingSession{
			ID:          deps.GenerateID(),
			Title:       d.Title,
			Description: GeneratedDescriptionPrefix + d.Title,
			Location:    input.Location,
			SessionDate: d.Date,
			SessionTime: d.Time,
			CategoryID:  d.CategoryID,
			SeasonID:    input.SeasonID,
			CoachID:     input.CoachID,
			Status:      trainingsession.StatusPlanned,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := s.Validate(); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", d.Date, err))
			continue
		}
		if err := deps.SessionStore.Save(ctx, s); err != nil {
			slog.Error("generated_session_save_failed", "date", d.Date, "title", d.Title, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: failed to save session %q", d.Date, d.Title))
			continue
		}
		result.Created++
		result.SessionIDs = append(result.SessionIDs, s.ID)

		if !bootstrap || len(roster) == 0 {
			continue
		}
		n, err := deps.AttendanceStore.CreateForMembers(ctx, s.ID, roster, status, input.CoachID)
		if err != nil {
			slog.Warn("attendance_bootstrap_failed", "session_id", s.ID, "members", len(roster), "error", err)
			result.AttendanceFailures++
			continue
		}
		result.AttendanceRecords += n
	}

	slog.Info("sessions_generated",
		"category_id", input.Generate.CategoryID,
		"season_id", input.SeasonID,
		"drafts", len(drafts),
		"created", result.Created,
		"failed", result.Failed,
		"roster_size", len(roster),
		"attendance_records", result.AttendanceRecords,
	)

	return result, nil
}
