package attendance

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clubhouse/internal/adapters/storage"
	domain "clubhouse/internal/domain/attendance"
)

const selectColumns = "SELECT id, member_id, training_session_id, attendance_status, notes, recorded_by, recorded_at FROM member_attendance"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db  storage.SQLDB
	now func() time.Time
}

// NewSQLiteStore creates a new attendance store.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (domain.Record, error) {
	var entity domain.Record
	var notes, recordedBy sql.NullString
	var recordedAt string
	if err := row.Scan(
		&entity.ID,
		&entity.MemberID,
		&entity.SessionID,
		&entity.Status,
		&notes,
		&recordedBy,
		&recordedAt,
	); err != nil {
		return domain.Record{}, err
	}
	entity.Note = storage.StringOrEmpty(notes)
	entity.RecordedBy = storage.StringOrEmpty(recordedBy)
	t, err := storage.ParseTime(recordedAt)
	if err != nil {
		return domain.Record{}, fmt.Errorf("failed to parse recorded_at: %w", err)
	}
	entity.RecordedAt = t
	return entity, nil
}

// GetByID retrieves a Record by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Record, error) {
	entity, err := scanRecord(s.db.QueryRowContext(ctx, selectColumns+" WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("attendance record not found: %w", err)
	}
	return entity, err
}

// GetByMemberAndSession retrieves the single record of a member at a session.
// POST: Returns the entity or an error wrapping sql.ErrNoRows
func (s *SQLiteStore) GetByMemberAndSession(ctx context.Context, memberID, sessionID string) (domain.Record, error) {
	entity, err := scanRecord(s.db.QueryRowContext(ctx,
		selectColumns+" WHERE member_id = ? AND training_session_id = ?", memberID, sessionID))
	if err == sql.ErrNoRows {
		return domain.Record{}, fmt.Errorf("attendance record not found: %w", err)
	}
	return entity, err
}

// Save persists a Record (insert or update by ID).
// PRE: entity has been validated; ID and RecordedAt are set
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Record) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO member_attendance
		(id, member_id, training_session_id, attendance_status, notes, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET attendance_status=excluded.attendance_status, notes=excluded.notes,
			recorded_by=excluded.recorded_by, recorded_at=excluded.recorded_at`,
		entity.ID,
		entity.MemberID,
		entity.SessionID,
		entity.Status,
		storage.NullableString(entity.Note),
		storage.NullableString(entity.RecordedBy),
		storage.FormatTime(entity.RecordedAt),
	)
	return err
}

// Delete removes a Record.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM member_attendance WHERE id = ?", id)
	return err
}

// ListBySession returns the records of one session ordered by member surname.
func (s *SQLiteStore) ListBySession(ctx context.Context, sessionID string) ([]domain.Record, error) {
	return s.query(ctx, `SELECT a.id, a.member_id, a.training_session_id, a.attendance_status, a.notes,
		a.recorded_by, a.recorded_at
		FROM member_attendance a LEFT JOIN member m ON m.id = a.member_id
		WHERE a.training_session_id = ?
		ORDER BY m.surname, m.name`, sessionID)
}

// ListBySessions returns the records of several sessions ordered by recorded_at ascending.
func (s *SQLiteStore) ListBySessions(ctx context.Context, sessionIDs []string) ([]domain.Record, error) {
	if len(sessionIDs) == 0 {
		return []domain.Record{}, nil
	}
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		args[i] = id
	}
	return s.query(ctx, selectColumns+" WHERE training_session_id IN ("+storage.Placeholders(len(sessionIDs))+
		") ORDER BY recorded_at, rowid", args...)
}

// CreateForMembers inserts one record per member inside a single transaction.
// PRE: status is a valid attendance status
// POST: Returns the number of rows inserted; existing (member, session) pairs are skipped
func (s *SQLiteStore) CreateForMembers(ctx context.Context, sessionID string, memberIDs []string, status, recordedBy string) (int, error) {
	if len(memberIDs) == 0 {
		return 0, nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO member_attendance
		(id, member_id, training_session_id, attendance_status, recorded_by, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(member_id, training_session_id) DO NOTHING`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	recordedAt := storage.FormatTime(s.now())
	created := 0
	for _, memberID := range memberIDs {
		res, err := stmt.ExecContext(ctx, uuid.New().String(), memberID, sessionID, status,
			storage.NullableString(recordedBy), recordedAt)
		if err != nil {
			return 0, fmt.Errorf("insert attendance for member %s: %w", memberID, err)
		}
		if n, err := res.RowsAffected(); err == nil {
			created += int(n)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return created, nil
}

// SetStatusForSession overwrites the status of every record of the session.
// POST: Returns the number of rows changed
func (s *SQLiteStore) SetStatusForSession(ctx context.Context, sessionID, status string) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE member_attendance SET attendance_status = ?, recorded_at = ? WHERE training_session_id = ?",
		status, storage.FormatTime(s.now()), sessionID)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	return int(n), err
}

func (s *SQLiteStore) query(ctx context.Context, query string, args ...any) ([]domain.Record, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Record{}
	for rows.Next() {
		entity, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}
