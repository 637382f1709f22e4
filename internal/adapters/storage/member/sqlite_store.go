package member

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/member"
)

const selectColumns = "SELECT id, registration_number, name, surname, date_of_birth, sex, category_id, email, active FROM member"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new member store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMember(row scanner) (domain.Member, error) {
	var entity domain.Member
	var regNumber, dob, categoryID, email sql.NullString
	var active int
	err := row.Scan(
		&entity.ID,
		&regNumber,
		&entity.Name,
		&entity.Surname,
		&dob,
		&entity.Sex,
		&categoryID,
		&email,
		&active,
	)
	entity.RegistrationNumber = storage.StringOrEmpty(regNumber)
	entity.DateOfBirth = storage.StringOrEmpty(dob)
	entity.CategoryID = storage.StringOrEmpty(categoryID)
	entity.Email = storage.StringOrEmpty(email)
	entity.Active = active == 1
	return entity, err
}

// GetByID retrieves a Member by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Member, error) {
	entity, err := scanMember(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// GetByRegistrationNumber retrieves a Member by club registration number.
// PRE: registrationNumber is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByRegistrationNumber(ctx context.Context, registrationNumber string) (domain.Member, error) {
	entity, err := scanMember(s.db.QueryRowContext(ctx, selectColumns+" WHERE registration_number = ?", registrationNumber))
	if err == sql.ErrNoRows {
		return domain.Member{}, fmt.Errorf("member not found: %w", err)
	}
	return entity, err
}

// Save persists a Member to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Member) error {
	fields := []string{"id", "registration_number", "name", "surname", "date_of_birth", "sex", "category_id", "email", "active"}
	updates := make([]string, 0, len(fields)-1)
	for _, f := range fields[1:] {
		updates = append(updates, f+"=excluded."+f)
	}

	query := fmt.Sprintf(
		"INSERT INTO member (%s) VALUES (%s) ON CONFLICT(id) DO UPDATE SET %s",
		strings.Join(fields, ", "),
		storage.Placeholders(len(fields)),
		strings.Join(updates, ", "),
	)

	_, err := s.db.ExecContext(ctx, query,
		entity.ID,
		storage.NullableString(entity.RegistrationNumber),
		entity.Name,
		entity.Surname,
		storage.NullableString(entity.DateOfBirth),
		entity.Sex,
		storage.NullableString(entity.CategoryID),
		storage.NullableString(entity.Email),
		storage.BoolToInt(entity.Active),
	)
	return err
}

// Delete removes a Member from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member WHERE id = ?", id)
	return err
}

// List returns members ordered by surname and name.
// A zero Limit means no limit.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.Member, error) {
	var where []string
	var args []any
	if filter.CategoryID != "" {
		where = append(where, "category_id = ?")
		args = append(args, filter.CategoryID)
	}
	if filter.ActiveOnly {
		where = append(where, "active = 1")
	}
	if filter.Search != "" {
		where = append(where, "(name LIKE ? OR surname LIKE ?)")
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY surname, name"
	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	}

	return s.query(ctx, query, args...)
}

// ListByIDs returns the members with the given IDs. Unknown IDs are skipped.
func (s *SQLiteStore) ListByIDs(ctx context.Context, ids []string) ([]domain.Member, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	query := selectColumns + " WHERE id IN (" + storage.Placeholders(len(ids)) + ") ORDER BY surname, name"
	return s.query(ctx, query, args...)
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Member, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.Member
	for rows.Next() {
		entity, err := scanMember(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
