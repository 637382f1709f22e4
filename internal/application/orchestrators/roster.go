package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	memberStore "clubhouse/internal/adapters/storage/member"
	"clubhouse/internal/domain/lineup"
	"clubhouse/internal/domain/member"
)

// LineupLookup finds a category's lineup and its active members.
type LineupLookup interface {
	FindActive(ctx context.Context, categoryID, seasonID string) (lineup.Lineup, error)
	ActiveMemberIDs(ctx context.Context, lineupID string) ([]string, error)
}

// MemberLister lists members with a filter.
type MemberLister interface {
	List(ctx context.Context, filter memberStore.ListFilter) ([]member.Member, error)
}

// RosterResolver resolves who is expected at a category's trainings.
type RosterResolver struct {
	Lineups LineupLookup
	Members MemberLister
}

// ActiveRosterMemberIDs returns the active lineup members for the category and season.
// When there is no active lineup, or it has no active members, all active members of
// the category are returned instead.
// PRE: categoryID is non-empty
// POST: Returns member IDs (possibly empty) or a lookup error
func (r RosterResolver) ActiveRosterMemberIDs(ctx context.Context, categoryID, seasonID string) ([]string, error) {
	lu, err := r.Lineups.FindActive(ctx, categoryID, seasonID)
	switch {
	case err == nil:
		ids, err := r.Lineups.ActiveMemberIDs(ctx, lu.ID)
		if err != nil {
			return nil, fmt.Errorf("lineup members: %w", err)
		}
		if len(ids) > 0 {
			return ids, nil
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("find lineup: %w", err)
	}

	members, err := r.Members.List(ctx, memberStore.ListFilter{CategoryID: categoryID, ActiveOnly: true})
	if err != nil {
		return nil, fmt.Errorf("category members: %w", err)
	}
	ids := make([]string, 0, len(members))
	for _, m := range members {
		ids = append(ids, m.ID)
	}
	return ids, nil
}
