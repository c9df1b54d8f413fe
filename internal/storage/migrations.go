package storage

import (
	"database/sql"
	"fmt"
)

// migrationStep is one versioned schema change. Steps are embedded in the
// binary and applied in order inside a transaction; the schema_version table
// records the highest applied version.
type migrationStep struct {
	Version int
	Name    string
	SQL     string
}

var migrations = []migrationStep{
	{
		Version: 1,
		Name:    "initial schema",
		SQL: `
			CREATE TABLE IF NOT EXISTS settings (
				key TEXT PRIMARY KEY,
				value TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS items (
				id TEXT PRIMARY KEY,
				profile TEXT NOT NULL,
				kind TEXT NOT NULL,
				title TEXT NOT NULL,
				effort INTEGER NOT NULL DEFAULT 0,
				estimated_minutes INTEGER NOT NULL DEFAULT 0,
				meal_type TEXT NOT NULL DEFAULT '',
				break_duration_min INTEGER NOT NULL DEFAULT 0,
				preferred_time TEXT NOT NULL DEFAULT '',
				tags TEXT NOT NULL DEFAULT '[]',
				frequency TEXT NOT NULL DEFAULT 'daily',
				active INTEGER NOT NULL DEFAULT 1,
				created_at TEXT NOT NULL,
				deleted_at TEXT
			);
			CREATE INDEX IF NOT EXISTS idx_items_profile ON items(profile);
			CREATE TABLE IF NOT EXISTS profiles (
				name TEXT PRIMARY KEY,
				prefs TEXT NOT NULL,
				updated_at TEXT NOT NULL
			);
			CREATE TABLE IF NOT EXISTS feedback (
				id TEXT PRIMARY KEY,
				profile TEXT NOT NULL,
				action TEXT NOT NULL,
				context TEXT NOT NULL DEFAULT '{}',
				day TEXT NOT NULL,
				created_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_feedback_profile_day ON feedback(profile, day);
			CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				profile TEXT NOT NULL,
				day TEXT NOT NULL,
				duration_ms INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL
			);
			CREATE INDEX IF NOT EXISTS idx_sessions_profile_day ON sessions(profile, day);
			CREATE TABLE IF NOT EXISTS cards (
				profile TEXT NOT NULL,
				day TEXT NOT NULL,
				snapshot TEXT NOT NULL,
				created_at TEXT NOT NULL,
				PRIMARY KEY (profile, day)
			);
		`,
	},
}

// latestSchemaVersion is the highest version this binary knows about.
func latestSchemaVersion() int {
	return migrations[len(migrations)-1].Version
}

func currentSchemaVersion(db *sql.DB) (int, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return 0, fmt.Errorf("creating schema_version table: %w", err)
	}

	var version int
	err := db.QueryRow(`SELECT version FROM schema_version LIMIT 1`).Scan(&version)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return version, nil
}

// applyMigrations brings the database up to the latest schema version.
func applyMigrations(db *sql.DB) error {
	current, err := currentSchemaVersion(db)
	if err != nil {
		return err
	}

	for _, step := range migrations {
		if step.Version <= current {
			continue
		}

		tx, err := db.Begin()
		if err != nil {
			return err
		}

		if _, err := tx.Exec(step.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("applying migration %d (%s): %w", step.Version, step.Name, err)
		}
		if _, err := tx.Exec(`DELETE FROM schema_version`); err != nil {
			tx.Rollback()
			return err
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, step.Version); err != nil {
			tx.Rollback()
			return err
		}
		if err := tx.Commit(); err != nil {
			return err
		}
	}

	return nil
}

// validateSchemaVersion fails when the database was written by a newer binary
// or migrations have not been applied.
func validateSchemaVersion(db *sql.DB) error {
	current, err := currentSchemaVersion(db)
	if err != nil {
		return err
	}
	latest := latestSchemaVersion()

	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d); upgrade daycard", current, latest)
	}
	if current < latest {
		return fmt.Errorf("database schema version (%d) is behind (%d); run 'daycard init' to migrate", current, latest)
	}
	return nil
}
