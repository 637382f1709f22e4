package lineup

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrEmptyCategoryID = errors.New("lineup must belong to a category")
	ErrEmptySeasonID   = errors.New("lineup must belong to a season")
	ErrEmptyName       = errors.New("lineup name cannot be empty")
	ErrEmptyMemberID   = errors.New("lineup member must reference a member")
)

// Lineup is the squad of a category for one season.
type Lineup struct {
	ID         string `json:"id"`
	CategoryID string `json:"category_id"`
	SeasonID   string `json:"season_id"`
	Name       string `json:"name"`
	Active     bool   `json:"active"`
}

// Validate checks if the Lineup has valid data.
// PRE: Lineup struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: CategoryID and SeasonID must not be empty
func (l *Lineup) Validate() error {
	if strings.TrimSpace(l.CategoryID) == "" {
		return ErrEmptyCategoryID
	}
	if strings.TrimSpace(l.SeasonID) == "" {
		return ErrEmptySeasonID
	}
	if strings.TrimSpace(l.Name) == "" {
		return ErrEmptyName
	}
	return nil
}

// Membership links a member to a lineup.
type Membership struct {
	LineupID string `json:"lineup_id"`
	MemberID string `json:"member_id"`
	Active   bool   `json:"active"`
}

// Validate checks if the Membership has valid data.
func (m *Membership) Validate() error {
	if strings.TrimSpace(m.MemberID) == "" {
		return ErrEmptyMemberID
	}
	return nil
}
