package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/marcwilhite/daycard/internal/models"
	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	path string
	db   *sql.DB
}

func NewSQLiteStore(path string) *SQLiteStore {
	return &SQLiteStore{path: path}
}

func (s *SQLiteStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	if err := applyMigrations(s.db); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	if _, err := s.GetSettings(); err != nil {
		if err := s.SaveSettings(DefaultSettings()); err != nil {
			return fmt.Errorf("failed to save default settings: %w", err)
		}
	}

	return nil
}

func (s *SQLiteStore) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return fmt.Errorf("storage not initialized, run 'daycard init' first")
	}

	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	s.db = db

	return validateSchemaVersion(s.db)
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) GetSettings() (Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return Settings{}, err
	}
	defer rows.Close()

	settings := Settings{}
	count := 0
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Settings{}, err
		}
		switch key {
		case "day_start":
			settings.DayStart = value
		case "day_end":
			settings.DayEnd = value
		case "default_profile":
			settings.DefaultProfile = value
		case "recent_feedback_limit":
			if _, err := fmt.Sscanf(value, "%d", &settings.RecentFeedbackLimit); err != nil {
				return Settings{}, fmt.Errorf("parsing recent_feedback_limit: %w", err)
			}
		}
		count++
	}

	if count == 0 {
		return Settings{}, fmt.Errorf("settings not found")
	}

	return settings, nil
}

func (s *SQLiteStore) SaveSettings(settings Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()

	if _, err := stmt.Exec("day_start", settings.DayStart); err != nil {
		return err
	}
	if _, err := stmt.Exec("day_end", settings.DayEnd); err != nil {
		return err
	}
	if _, err := stmt.Exec("default_profile", settings.DefaultProfile); err != nil {
		return err
	}
	if _, err := stmt.Exec("recent_feedback_limit", fmt.Sprintf("%d", settings.RecentFeedbackLimit)); err != nil {
		return err
	}

	return tx.Commit()
}

const itemColumns = `id, kind, title, effort, estimated_minutes, meal_type, break_duration_min,
	preferred_time, tags, frequency, active, created_at, deleted_at`

func (s *SQLiteStore) AddItem(profile string, item models.CandidateItem) error {
	return s.UpdateItem(profile, item)
}

func (s *SQLiteStore) GetItem(profile, id string) (models.CandidateItem, error) {
	row := s.db.QueryRow(
		"SELECT "+itemColumns+" FROM items WHERE profile = ? AND id = ? AND deleted_at IS NULL",
		profile, id)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return models.CandidateItem{}, fmt.Errorf("item not found: %s", id)
	}
	return item, err
}

func (s *SQLiteStore) GetAllItems(profile string) ([]models.CandidateItem, error) {
	return s.queryItems("SELECT "+itemColumns+" FROM items WHERE profile = ? AND deleted_at IS NULL ORDER BY created_at", profile)
}

func (s *SQLiteStore) ActiveItems(profile string) ([]models.CandidateItem, error) {
	return s.queryItems("SELECT "+itemColumns+" FROM items WHERE profile = ? AND active = 1 AND deleted_at IS NULL ORDER BY created_at", profile)
}

func (s *SQLiteStore) queryItems(query string, args ...any) ([]models.CandidateItem, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.CandidateItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (models.CandidateItem, error) {
	var item models.CandidateItem
	var kind, mealType, frequency, tagsJSON, createdAt string
	var active bool
	var deletedAt sql.NullString

	err := row.Scan(
		&item.ID, &kind, &item.Title, &item.Effort, &item.EstimatedMinutes, &mealType,
		&item.BreakDurationMin, &item.PreferredTime, &tagsJSON, &frequency, &active,
		&createdAt, &deletedAt,
	)
	if err != nil {
		return models.CandidateItem{}, err
	}

	item.Kind = models.ItemKind(kind)
	item.MealType = models.MealType(mealType)
	item.Frequency = models.Frequency(frequency)
	item.Active = active

	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		item.CreatedAt = t
	}
	if deletedAt.Valid {
		item.DeletedAt = &deletedAt.String
	}
	if tagsJSON != "" {
		if err := json.Unmarshal([]byte(tagsJSON), &item.Tags); err != nil {
			return models.CandidateItem{}, fmt.Errorf("parsing item tags: %w", err)
		}
	}

	return item, nil
}

func (s *SQLiteStore) UpdateItem(profile string, item models.CandidateItem) error {
	tags := item.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return fmt.Errorf("failed to marshal item tags: %w", err)
	}

	var deletedAt sql.NullString
	if item.DeletedAt != nil {
		deletedAt = sql.NullString{String: *item.DeletedAt, Valid: true}
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO items (
			profile, id, kind, title, effort, estimated_minutes, meal_type,
			break_duration_min, preferred_time, tags, frequency, active, created_at, deleted_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		profile, item.ID, item.Kind, item.Title, item.Effort, item.EstimatedMinutes, item.MealType,
		item.BreakDurationMin, item.PreferredTime, string(tagsJSON), item.Frequency, item.Active,
		item.CreatedAt.UTC().Format(time.RFC3339), deletedAt,
	)
	return err
}

func (s *SQLiteStore) DeleteItem(profile, id string) error {
	// Soft delete: set deleted_at instead of removing the record.
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM items WHERE profile = ? AND id = ?", profile, id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("item with id %s not found", id)
		}
		return fmt.Errorf("failed to check item existence: %w", err)
	}

	if deletedAt.Valid {
		return fmt.Errorf("item with id %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	_, err = s.db.Exec("UPDATE items SET deleted_at = ? WHERE profile = ? AND id = ?", now, profile, id)
	return err
}

func (s *SQLiteStore) RestoreItem(profile, id string) error {
	var deletedAt sql.NullString
	err := s.db.QueryRow("SELECT deleted_at FROM items WHERE profile = ? AND id = ?", profile, id).Scan(&deletedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return fmt.Errorf("item with id %s not found", id)
		}
		return fmt.Errorf("failed to check item existence: %w", err)
	}

	if !deletedAt.Valid {
		return fmt.Errorf("cannot restore an item that is not deleted: %s", id)
	}

	_, err = s.db.Exec("UPDATE items SET deleted_at = NULL WHERE profile = ? AND id = ?", profile, id)
	return err
}

func (s *SQLiteStore) GetPreferences(profile string) (*models.PreferenceVector, error) {
	var prefsJSON string
	err := s.db.QueryRow("SELECT prefs FROM profiles WHERE name = ?", profile).Scan(&prefsJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var prefs models.PreferenceVector
	if err := json.Unmarshal([]byte(prefsJSON), &prefs); err != nil {
		return nil, fmt.Errorf("parsing preference vector for %s: %w", profile, err)
	}
	return &prefs, nil
}

func (s *SQLiteStore) SavePreferences(profile string, prefs models.PreferenceVector) error {
	data, err := json.Marshal(prefs)
	if err != nil {
		return fmt.Errorf("failed to serialize preference vector: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO profiles (name, prefs, updated_at) VALUES (?, ?, ?)",
		profile, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) AddFeedback(profile string, ev models.FeedbackEvent) error {
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}

	contextJSON, err := json.Marshal(ev.Context)
	if err != nil {
		return fmt.Errorf("failed to serialize feedback context: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT INTO feedback (id, profile, action, context, day, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		ev.ID, profile, ev.Action, string(contextJSON),
		ev.CreatedAt.Format("2006-01-02"), ev.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) RecentFeedback(profile string, limit int) ([]models.FeedbackEvent, error) {
	rows, err := s.db.Query(
		"SELECT id, action, context, created_at FROM feedback WHERE profile = ? ORDER BY created_at DESC LIMIT ?",
		profile, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []models.FeedbackEvent
	for rows.Next() {
		var ev models.FeedbackEvent
		var action, contextJSON, createdAt string
		if err := rows.Scan(&ev.ID, &action, &contextJSON, &createdAt); err != nil {
			return nil, err
		}
		ev.Action = models.FeedbackAction(action)
		if err := json.Unmarshal([]byte(contextJSON), &ev.Context); err != nil {
			return nil, fmt.Errorf("parsing feedback context: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			ev.CreatedAt = t
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (s *SQLiteStore) CountFeedbackToday(profile, day string) (int, int, error) {
	var total, overrides int
	err := s.db.QueryRow(
		"SELECT COUNT(*), COALESCE(SUM(CASE WHEN action = ? THEN 1 ELSE 0 END), 0) FROM feedback WHERE profile = ? AND day = ?",
		string(models.FeedbackOverride), profile, day,
	).Scan(&total, &overrides)
	if err != nil {
		return 0, 0, err
	}
	return total, overrides, nil
}

func (s *SQLiteStore) AddSession(profile string, rec models.SessionRecord) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Day == "" {
		rec.Day = rec.CreatedAt.Format("2006-01-02")
	}

	_, err := s.db.Exec(
		"INSERT INTO sessions (id, profile, day, duration_ms, created_at) VALUES (?, ?, ?, ?, ?)",
		rec.ID, profile, rec.Day, rec.DurationMs, rec.CreatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) SumSessionDurationToday(profile, day string) (int64, error) {
	var total int64
	err := s.db.QueryRow(
		"SELECT COALESCE(SUM(duration_ms), 0) FROM sessions WHERE profile = ? AND day = ?",
		profile, day,
	).Scan(&total)
	return total, err
}

func (s *SQLiteStore) SaveCardSnapshot(profile string, snap models.CardSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize card snapshot: %w", err)
	}

	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO cards (profile, day, snapshot, created_at) VALUES (?, ?, ?, ?)",
		profile, snap.Day, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

func (s *SQLiteStore) GetCardSnapshot(profile, day string) (models.CardSnapshot, error) {
	var data string
	err := s.db.QueryRow("SELECT snapshot FROM cards WHERE profile = ? AND day = ?", profile, day).Scan(&data)
	if err != nil {
		if err == sql.ErrNoRows {
			return models.CardSnapshot{}, fmt.Errorf("no card snapshot for %s", day)
		}
		return models.CardSnapshot{}, err
	}

	var snap models.CardSnapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return models.CardSnapshot{}, fmt.Errorf("parsing card snapshot: %w", err)
	}
	return snap, nil
}

func (s *SQLiteStore) GetConfigPath() string {
	return s.path
}

func (s *SQLiteStore) GetDB() *sql.DB {
	return s.db
}

// SchemaVersion reports the applied and supported schema versions.
func (s *SQLiteStore) SchemaVersion() (current, latest int, err error) {
	if s.db == nil {
		return 0, 0, fmt.Errorf("database not open")
	}
	current, err = currentSchemaVersion(s.db)
	if err != nil {
		return 0, 0, err
	}
	return current, latestSchemaVersion(), nil
}
