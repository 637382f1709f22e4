package member

import (
	"context"

	domain "clubhouse/internal/domain/member"
)

// Store persists Member state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Member, error)
	GetByRegistrationNumber(ctx context.Context, registrationNumber string) (domain.Member, error)
	Save(ctx context.Context, value domain.Member) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Member, error)
	ListByIDs(ctx context.Context, ids []string) ([]domain.Member, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Limit      int
	Offset     int
	CategoryID string
	ActiveOnly bool
	Search     string // matched against name and surname
}
