package lineup

import (
	"context"

	domain "clubhouse/internal/domain/lineup"
)

// Store persists lineups and their memberships.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Lineup, error)
	Save(ctx context.Context, value domain.Lineup) error
	// FindActive returns the active lineup of a category in a season.
	FindActive(ctx context.Context, categoryID, seasonID string) (domain.Lineup, error)
	SaveMembership(ctx context.Context, value domain.Membership) error
	RemoveMembership(ctx context.Context, lineupID, memberID string) error
	// ActiveMemberIDs returns members that are active both in the lineup and in the club.
	ActiveMemberIDs(ctx context.Context, lineupID string) ([]string, error)
}
