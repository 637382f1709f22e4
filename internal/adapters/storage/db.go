package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// migration is one forward-only schema step. Steps run in a transaction.
type migration struct {
	version     int
	description string
	apply       func(tx *sql.Tx) error
}

// migrations is the ordered chain. Append only; never edit a released step.
var migrations = []migration{
	{1, "baseline schema", migrateBaseline},
	{2, "session and attendance lookup indexes", migrateLookupIndexes},
}

// LatestSchemaVersion returns the version reached after all migrations.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the applied schema version, or 0 for an untracked database.
// PRE: db is a valid database connection
// POST: Returns the highest recorded version
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to inspect schema_version: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version sql.NullInt64
	if err := db.QueryRow(`SELECT MAX(version) FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema_version: %w", err)
	}
	return int(version.Int64), nil
}

// MigrateDB brings the schema up to LatestSchemaVersion.
// PRE: db is a valid database connection; path names the database for logging
// POST: All pending migrations are applied, WAL mode and foreign keys enabled
// INVARIANT: Existing rows survive; a failed step rolls back and stops the chain
func MigrateDB(db *sql.DB, path string) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (
		version INTEGER PRIMARY KEY,
		description TEXT NOT NULL,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
	)`); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.description, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version, description) VALUES (?, ?)`, m.version, m.description); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
		slog.Info("schema_migrated", "db", path, "version", m.version, "description", m.description)
	}
	return nil
}

func migrateBaseline(tx *sql.Tx) error {
	schema := `
	CREATE TABLE IF NOT EXISTS category (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT,
		age_group TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS member (
		id TEXT PRIMARY KEY,
		registration_number TEXT,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		date_of_birth TEXT,
		sex TEXT NOT NULL,
		category_id TEXT,
		email TEXT,
		active INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (category_id) REFERENCES category(id)
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_member_registration
		ON member(registration_number) WHERE registration_number IS NOT NULL AND registration_number != '';

	CREATE TABLE IF NOT EXISTS lineup (
		id TEXT PRIMARY KEY,
		category_id TEXT NOT NULL,
		season_id TEXT NOT NULL,
		name TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		FOREIGN KEY (category_id) REFERENCES category(id)
	);

	CREATE TABLE IF NOT EXISTS lineup_member (
		lineup_id TEXT NOT NULL,
		member_id TEXT NOT NULL,
		active INTEGER NOT NULL DEFAULT 1,
		PRIMARY KEY (lineup_id, member_id),
		FOREIGN KEY (lineup_id) REFERENCES lineup(id) ON DELETE CASCADE,
		FOREIGN KEY (member_id) REFERENCES member(id)
	);

	CREATE TABLE IF NOT EXISTS training_session (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT,
		location TEXT,
		session_date TEXT NOT NULL,
		session_time TEXT,
		category_id TEXT,
		season_id TEXT NOT NULL,
		coach_id TEXT,
		status TEXT NOT NULL DEFAULT 'planned',
		status_reason TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS member_attendance (
		id TEXT PRIMARY KEY,
		member_id TEXT NOT NULL,
		training_session_id TEXT NOT NULL,
		attendance_status TEXT NOT NULL DEFAULT 'present',
		notes TEXT,
		recorded_by TEXT,
		recorded_at TEXT NOT NULL,
		UNIQUE (member_id, training_session_id),
		FOREIGN KEY (member_id) REFERENCES member(id),
		FOREIGN KEY (training_session_id) REFERENCES training_session(id) ON DELETE CASCADE
	);
	`
	if _, err := tx.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func migrateLookupIndexes(tx *sql.Tx) error {
	stmts := []string{
		`CREATE INDEX IF NOT EXISTS idx_training_session_category_season ON training_session(category_id, season_id, session_date)`,
		`CREATE INDEX IF NOT EXISTS idx_member_attendance_session ON member_attendance(training_session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_member_category ON member(category_id, active)`,
	}
	for _, s := range stmts {
		if _, err := tx.Exec(s); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}
