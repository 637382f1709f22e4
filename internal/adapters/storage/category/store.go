package category

import (
	"context"

	domain "clubhouse/internal/domain/category"
)

// Store persists Category state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Category, error)
	GetByName(ctx context.Context, name string) (domain.Category, error)
	Save(ctx context.Context, value domain.Category) error
	List(ctx context.Context, activeOnly bool) ([]domain.Category, error)
}
