package trainingsession

import (
	"context"

	domain "clubhouse/internal/domain/trainingsession"
)

// Store persists TrainingSession state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.TrainingSession, error)
	Save(ctx context.Context, value domain.TrainingSession) error
	Delete(ctx context.Context, id string) error
	ListByCategoryAndSeason(ctx context.Context, categoryID, seasonID string) ([]domain.TrainingSession, error)
	List(ctx context.Context, filter ListFilter) ([]domain.TrainingSession, error)
}

// ListFilter carries filtering parameters for List operations.
// Empty fields do not filter; date bounds are inclusive.
type ListFilter struct {
	CategoryID string
	SeasonID   string
	Status     string
	DateFrom   string
	DateTo     string
}
