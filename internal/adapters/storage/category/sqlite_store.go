package category

import (
	"context"
	"database/sql"
	"fmt"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/category"
)

const selectColumns = "SELECT id, name, description, age_group, sort_order, active FROM category"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new category store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCategory(row scanner) (domain.Category, error) {
	var entity domain.Category
	var description, ageGroup sql.NullString
	var active int
	err := row.Scan(&entity.ID, &entity.Name, &description, &ageGroup, &entity.SortOrder, &active)
	entity.Description = storage.StringOrEmpty(description)
	entity.AgeGroup = storage.StringOrEmpty(ageGroup)
	entity.Active = active == 1
	return entity, err
}

// GetByID retrieves a Category by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Category, error) {
	entity, err := scanCategory(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.Category{}, fmt.Errorf("category not found: %w", err)
	}
	return entity, err
}

// GetByName retrieves a Category by case-insensitive name (used by CSV import).
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Category, error) {
	entity, err := scanCategory(s.db.QueryRowContext(ctx, selectColumns+" WHERE name = ? COLLATE NOCASE", name))
	if err == sql.ErrNoRows {
		return domain.Category{}, fmt.Errorf("category not found: %w", err)
	}
	return entity, err
}

// Save persists a Category (insert or update).
// PRE: entity has been validated
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO category (id, name, description, age_group, sort_order, active)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name, description=excluded.description,
			age_group=excluded.age_group, sort_order=excluded.sort_order, active=excluded.active`,
		entity.ID,
		entity.Name,
		storage.NullableString(entity.Description),
		storage.NullableString(entity.AgeGroup),
		entity.SortOrder,
		storage.BoolToInt(entity.Active),
	)
	return err
}

// List returns categories ordered by sort order then name.
func (s *SQLiteStore) List(ctx context.Context, activeOnly bool) ([]domain.Category, error) {
	query := selectColumns
	if activeOnly {
		query += " WHERE active = 1"
	}
	query += " ORDER BY sort_order, name"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Category
	for rows.Next() {
		entity, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
