package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"clubhouse/internal/domain/category"
	"clubhouse/internal/domain/lineup"
	"clubhouse/internal/domain/member"
)

// ErrDuplicateCategory is returned when a category with the same name exists.
var ErrDuplicateCategory = errors.New("category with this name already exists")

// CategoryStore defines category persistence used by the setup orchestrators.
type CategoryStore interface {
	GetByName(ctx context.Context, name string) (category.Category, error)
	Save(ctx context.Context, c category.Category) error
}

// CreateCategoryInput carries input for ExecuteCreateCategory.
type CreateCategoryInput struct {
	Name        string
	Description string
	AgeGroup    string
	SortOrder   int
}

// CreateCategoryDeps holds dependencies for ExecuteCreateCategory.
type CreateCategoryDeps struct {
	CategoryStore CategoryStore
	GenerateID    func() string
}

// ExecuteCreateCategory creates an active category.
// PRE: Name is non-empty
// POST: Category persisted; names are unique case-insensitively
func ExecuteCreateCategory(ctx context.Context, input CreateCategoryInput, deps CreateCategoryDeps) (category.Category, error) {
	c := category.Category{
		ID:          deps.GenerateID(),
		Name:        strings.TrimSpace(input.Name),
		Description: input.Description,
		AgeGroup:    input.AgeGroup,
		SortOrder:   input.SortOrder,
		Active:      true,
	}
	if err := c.Validate(); err != nil {
		return category.Category{}, err
	}
	_, err := deps.CategoryStore.GetByName(ctx, c.Name)
	switch {
	case err == nil:
		return category.Category{}, ErrDuplicateCategory
	case !errors.Is(err, sql.ErrNoRows):
		return category.Category{}, fmt.Errorf("check category name: %w", err)
	}
	if err := deps.CategoryStore.Save(ctx, c); err != nil {
		return category.Category{}, err
	}
	slog.Info("category_created", "category_id", c.ID, "name", c.Name)
	return c, nil
}

// LineupStore defines lineup persistence used by the setup orchestrators.
type LineupStore interface {
	GetByID(ctx context.Context, id string) (lineup.Lineup, error)
	Save(ctx context.Context, l lineup.Lineup) error
	SaveMembership(ctx context.Context, m lineup.Membership) error
	RemoveMembership(ctx context.Context, lineupID, memberID string) error
}

// MemberGetter loads a single member.
type MemberGetter interface {
	GetByID(ctx context.Context, id string) (member.Member, error)
}

// LineupDeps holds dependencies for lineup management.
type LineupDeps struct {
	LineupStore LineupStore
	Members     MemberGetter
	GenerateID  func() string
}

// CreateLineupInput carries input for ExecuteCreateLineup.
type CreateLineupInput struct {
	CategoryID string
	SeasonID   string
	Name       string
}

// ExecuteCreateLineup creates an active lineup. The newest active lineup of a
// category and season is the one used for roster resolution.
func ExecuteCreateLineup(ctx context.Context, input CreateLineupInput, deps LineupDeps) (lineup.Lineup, error) {
	l := lineup.Lineup{
		ID:         deps.GenerateID(),
		CategoryID: strings.TrimSpace(input.CategoryID),
		SeasonID:   strings.TrimSpace(input.SeasonID),
		Name:       strings.TrimSpace(input.Name),
		Active:     true,
	}
	if err := l.Validate(); err != nil {
		return lineup.Lineup{}, err
	}
	if err := deps.LineupStore.Save(ctx, l); err != nil {
		return lineup.Lineup{}, err
	}
	slog.Info("lineup_created", "lineup_id", l.ID, "category_id", l.CategoryID, "season_id", l.SeasonID)
	return l, nil
}

// ExecuteAddLineupMember adds (or reactivates) a member in a lineup.
// PRE: lineup and member exist
// POST: Membership is active
func ExecuteAddLineupMember(ctx context.Context, lineupID, memberID string, deps LineupDeps) error {
	if _, err := deps.LineupStore.GetByID(ctx, lineupID); err != nil {
		return err
	}
	if _, err := deps.Members.GetByID(ctx, memberID); err != nil {
		return err
	}
	m := lineup.Membership{LineupID: lineupID, MemberID: memberID, Active: true}
	if err := m.Validate(); err != nil {
		return err
	}
	if err := deps.LineupStore.SaveMembership(ctx, m); err != nil {
		return err
	}
	slog.Info("lineup_member_added", "lineup_id", lineupID, "member_id", memberID)
	return nil
}

// ExecuteRemoveLineupMember removes a member from a lineup.
func ExecuteRemoveLineupMember(ctx context.Context, lineupID, memberID string, deps LineupDeps) error {
	if _, err := deps.LineupStore.GetByID(ctx, lineupID); err != nil {
		return err
	}
	if err := deps.LineupStore.RemoveMembership(ctx, lineupID, memberID); err != nil {
		return err
	}
	slog.Info("lineup_member_removed", "lineup_id", lineupID, "member_id", memberID)
	return nil
}
