package trainingsession

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/trainingsession"
)

const selectColumns = `SELECT id, title, description, location, session_date, session_time, category_id,
	season_id, coach_id, status, status_reason, created_at, updated_at FROM training_session`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new training session store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (domain.TrainingSession, error) {
	var entity domain.TrainingSession
	var description, location, sessionTime, categoryID, coachID, reason sql.NullString
	var createdAt, updatedAt string
	if err := row.Scan(
		&entity.ID,
		&entity.Title,
		&description,
		&location,
		&entity.SessionDate,
		&sessionTime,
		&categoryID,
		&entity.SeasonID,
		&coachID,
		&entity.Status,
		&reason,
		&createdAt,
		&updatedAt,
	); err != nil {
		return domain.TrainingSession{}, err
	}
	entity.Description = storage.StringOrEmpty(description)
	entity.Location = storage.StringOrEmpty(location)
	entity.SessionTime = storage.StringOrEmpty(sessionTime)
	entity.CategoryID = storage.StringOrEmpty(categoryID)
	entity.CoachID = storage.StringOrEmpty(coachID)
	entity.StatusReason = storage.StringOrEmpty(reason)

	var err error
	if entity.CreatedAt, err = storage.ParseTime(createdAt); err != nil {
		return domain.TrainingSession{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if entity.UpdatedAt, err = storage.ParseTime(updatedAt); err != nil {
		return domain.TrainingSession{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return entity, nil
}

// GetByID retrieves a TrainingSession by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.TrainingSession, error) {
	entity, err := scanSession(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.TrainingSession{}, fmt.Errorf("training session not found: %w", err)
	}
	return entity, err
}

// Save persists a TrainingSession (insert or update).
// PRE: entity has been validated; ID, CreatedAt and UpdatedAt are set
// POST: Entity is persisted; created_at is never overwritten on update
func (s *SQLiteStore) Save(ctx context.Context, entity domain.TrainingSession) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO training_session
		(id, title, description, location, session_date, session_time, category_id, season_id, coach_id,
		 status, status_reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET title=excluded.title, description=excluded.description,
			location=excluded.location, session_date=excluded.session_date, session_time=excluded.session_time,
			category_id=excluded.category_id, season_id=excluded.season_id, coach_id=excluded.coach_id,
			status=excluded.status, status_reason=excluded.status_reason, updated_at=excluded.updated_at`,
		entity.ID,
		entity.Title,
		storage.NullableString(entity.Description),
		storage.NullableString(entity.Location),
		entity.SessionDate,
		storage.NullableString(entity.SessionTime),
		storage.NullableString(entity.CategoryID),
		entity.SeasonID,
		storage.NullableString(entity.CoachID),
		entity.Status,
		storage.NullableString(entity.StatusReason),
		storage.FormatTime(entity.CreatedAt),
		storage.FormatTime(entity.UpdatedAt),
	)
	return err
}

// Delete removes a TrainingSession; its attendance rows cascade.
// PRE: id is non-empty
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM training_session WHERE id = ?", id)
	return err
}

// ListByCategoryAndSeason returns the sessions of a category in a season,
// ordered by date and time ascending.
func (s *SQLiteStore) ListByCategoryAndSeason(ctx context.Context, categoryID, seasonID string) ([]domain.TrainingSession, error) {
	return s.List(ctx, ListFilter{CategoryID: categoryID, SeasonID: seasonID})
}

// List returns sessions matching the filter, ordered by date and time ascending.
func (s *SQLiteStore) List(ctx context.Context, filter ListFilter) ([]domain.TrainingSession, error) {
	var where []string
	var args []any
	add := func(clause, value string) {
		if value != "" {
			where = append(where, clause)
			args = append(args, value)
		}
	}
	add("category_id = ?", filter.CategoryID)
	add("season_id = ?", filter.SeasonID)
	add("status = ?", filter.Status)
	add("session_date >= ?", filter.DateFrom)
	add("session_date <= ?", filter.DateTo)

	query := selectColumns
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY session_date, COALESCE(session_time, '')"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.TrainingSession{}
	for rows.Next() {
		entity, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
