package orchestrators

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"clubhouse/internal/domain/trainingsession"
)

// SessionDeps holds dependencies for single-session create, update and delete.
type SessionDeps struct {
	SessionStore SessionStore
	GenerateID   func() string
	Now          func() time.Time
}

// SessionInput carries the editable fields of a training session.
type SessionInput struct {
	Title       string
	Description string
	Location    string
	SessionDate string
	SessionTime string
	CategoryID  string
	SeasonID    string
	CoachID     string
}

// ExecuteCreateSession creates one planned training session.
// PRE: deps are set
// POST: Session is validated and persisted with a new ID and status planned
func ExecuteCreateSession(ctx context.Context, input SessionInput, deps SessionDeps) (trainingsession.TrainingSession, error) {
	now := deps.Now()
	s := trainingsession.TrainingSession{
		ID:          deps.GenerateID(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		Location:    input.Location,
		SessionDate: input.SessionDate,
		SessionTime: input.SessionTime,
		CategoryID:  input.CategoryID,
		SeasonID:    input.SeasonID,
		CoachID:     input.CoachID,
		Status:      trainingsession.StatusPlanned,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Validate(); err != nil {
		return trainingsession.TrainingSession{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return trainingsession.TrainingSession{}, err
	}
	slog.Info("session_created", "session_id", s.ID, "date", s.SessionDate, "category_id", s.CategoryID)
	return s, nil
}

// UpdateSessionInput identifies the session and its new field values.
type UpdateSessionInput struct {
	ID string
	SessionInput
}

// ExecuteUpdateSession replaces the editable fields of an existing session.
// Status is changed only through ExecuteUpdateSessionStatus.
// PRE: input.ID refers to an existing session
// POST: Session is validated and persisted; CreatedAt and Status are unchanged
func ExecuteUpdateSession(ctx context.Context, input UpdateSessionInput, deps SessionDeps) (trainingsession.TrainingSession, error) {
	s, err := deps.SessionStore.GetByID(ctx, input.ID)
	if err != nil {
		return trainingsession.TrainingSession{}, err
	}
	s.Title = strings.TrimSpace(input.Title)
	s.Description = input.Description
	s.Location = input.Location
	s.SessionDate = input.SessionDate
	s.SessionTime = input.SessionTime
	s.CategoryID = input.CategoryID
	s.SeasonID = input.SeasonID
	s.CoachID = input.CoachID
	s.UpdatedAt = deps.Now()

	if err := s.Validate(); err != nil {
		return trainingsession.TrainingSession{}, err
	}
	if err := deps.SessionStore.Save(ctx, s); err != nil {
		return trainingsession.TrainingSession{}, err
	}
	slog.Info("session_updated", "session_id", s.ID)
	return s, nil
}

// ExecuteDeleteSession removes a planned session and its attendance sheet.
// PRE: id refers to an existing session
// POST: Returns trainingsession.ErrSessionLocked for done or cancelled sessions
func ExecuteDeleteSession(ctx context.Context, id string, deps SessionDeps) error {
	s, err := deps.SessionStore.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !s.CanDelete() {
		return trainingsession.ErrSessionLocked
	}
	if err := deps.SessionStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("session_deleted", "session_id", id)
	return nil
}
