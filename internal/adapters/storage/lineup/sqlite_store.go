package lineup

import (
	"context"
	"database/sql"
	"fmt"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/lineup"
)

const selectColumns = "SELECT id, category_id, season_id, name, active FROM lineup"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new lineup store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func scanLineup(row *sql.Row) (domain.Lineup, error) {
	var entity domain.Lineup
	var active int
	err := row.Scan(&entity.ID, &entity.CategoryID, &entity.SeasonID, &entity.Name, &active)
	entity.Active = active == 1
	if err == sql.ErrNoRows {
		return domain.Lineup{}, fmt.Errorf("lineup not found: %w", err)
	}
	return entity, err
}

// GetByID retrieves a Lineup by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Lineup, error) {
	return scanLineup(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
}

// FindActive returns the most recently inserted active lineup for the category and season.
// PRE: categoryID and seasonID are non-empty
// POST: Returns the lineup or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) FindActive(ctx context.Context, categoryID, seasonID string) (domain.Lineup, error) {
	return scanLineup(s.db.QueryRowContext(ctx,
		selectColumns+" WHERE category_id = ? AND season_id = ? AND active = 1 ORDER BY rowid DESC LIMIT 1",
		categoryID, seasonID))
}

// Save persists a Lineup (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Lineup) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO lineup (id, category_id, season_id, name, active)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET category_id=excluded.category_id, season_id=excluded.season_id,
			name=excluded.name, active=excluded.active`,
		entity.ID, entity.CategoryID, entity.SeasonID, entity.Name, storage.BoolToInt(entity.Active))
	return err
}

// SaveMembership adds a member to a lineup or updates the active flag.
// PRE: value has been validated; lineup and member exist
func (s *SQLiteStore) SaveMembership(ctx context.Context, value domain.Membership) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO lineup_member (lineup_id, member_id, active)
		VALUES (?, ?, ?)
		ON CONFLICT(lineup_id, member_id) DO UPDATE SET active=excluded.active`,
		value.LineupID, value.MemberID, storage.BoolToInt(value.Active))
	return err
}

// RemoveMembership deletes the link between a lineup and a member.
func (s *SQLiteStore) RemoveMembership(ctx context.Context, lineupID, memberID string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM lineup_member WHERE lineup_id = ? AND member_id = ?", lineupID, memberID)
	return err
}

// ActiveMemberIDs lists active members of the lineup, ordered by surname.
// POST: Returns an empty slice (not an error) for a lineup without members
func (s *SQLiteStore) ActiveMemberIDs(ctx context.Context, lineupID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT lm.member_id FROM lineup_member lm
		JOIN member m ON m.id = lm.member_id
		WHERE lm.lineup_id = ? AND lm.active = 1 AND m.active = 1
		ORDER BY m.surname, m.name`, lineupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
