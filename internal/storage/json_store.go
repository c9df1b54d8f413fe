package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/marcwilhite/daycard/internal/models"
)

// profileData holds everything recorded for one profile in the JSON backend.
type profileData struct {
	Prefs    *models.PreferenceVector        `json:"prefs,omitempty"`
	Items    map[string]models.CandidateItem `json:"items"`
	Feedback []models.FeedbackEvent          `json:"feedback"`
	Sessions []models.SessionRecord          `json:"sessions"`
	Cards    map[string]models.CardSnapshot  `json:"cards"`
}

type jsonDocument struct {
	Version  int                     `json:"version"`
	Settings Settings                `json:"settings"`
	Profiles map[string]*profileData `json:"profiles"`
}

// JSONStore keeps the whole data set in a single JSON document. Simpler than
// SQLite, handy for debugging and tests; same Provider contract.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("storage already initialized at %s", s.path)
	}

	s.doc = &jsonDocument{
		Version:  1,
		Settings: DefaultSettings(),
		Profiles: make(map[string]*profileData),
	}

	return s.save()
}

func (s *JSONStore) Load() error {
	if s.doc != nil {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("storage not initialized, run 'daycard init' first")
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	s.doc = &jsonDocument{}
	if err := json.Unmarshal(data, s.doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}

	if s.doc.Profiles == nil {
		s.doc.Profiles = make(map[string]*profileData)
	}

	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	// Write-then-rename so a crash mid-write never truncates the store.
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace storage: %w", err)
	}

	return nil
}

// profile returns (and lazily creates) the named profile's data.
func (s *JSONStore) profile(name string) (*profileData, error) {
	if s.doc == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	p, ok := s.doc.Profiles[name]
	if !ok {
		p = &profileData{
			Items: make(map[string]models.CandidateItem),
			Cards: make(map[string]models.CardSnapshot),
		}
		s.doc.Profiles[name] = p
	}
	if p.Items == nil {
		p.Items = make(map[string]models.CandidateItem)
	}
	if p.Cards == nil {
		p.Cards = make(map[string]models.CardSnapshot)
	}
	return p, nil
}

func (s *JSONStore) GetSettings() (Settings, error) {
	if s.doc == nil {
		return Settings{}, fmt.Errorf("storage not loaded")
	}
	return s.doc.Settings, nil
}

func (s *JSONStore) SaveSettings(settings Settings) error {
	if s.doc == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.doc.Settings = settings
	return s.save()
}

func (s *JSONStore) AddItem(profile string, item models.CandidateItem) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
	p.Items[item.ID] = item
	return s.save()
}

func (s *JSONStore) GetItem(profile, id string) (models.CandidateItem, error) {
	p, err := s.profile(profile)
	if err != nil {
		return models.CandidateItem{}, err
	}
	item, ok := p.Items[id]
	if !ok || item.DeletedAt != nil {
		return models.CandidateItem{}, fmt.Errorf("item not found: %s", id)
	}
	return item, nil
}

func (s *JSONStore) GetAllItems(profile string) ([]models.CandidateItem, error) {
	return s.filterItems(profile, func(models.CandidateItem) bool { return true })
}

func (s *JSONStore) ActiveItems(profile string) ([]models.CandidateItem, error) {
	return s.filterItems(profile, func(item models.CandidateItem) bool { return item.Active })
}

func (s *JSONStore) filterItems(profile string, keep func(models.CandidateItem) bool) ([]models.CandidateItem, error) {
	p, err := s.profile(profile)
	if err != nil {
		return nil, err
	}

	items := make([]models.CandidateItem, 0, len(p.Items))
	for _, item := range p.Items {
		if item.DeletedAt == nil && keep(item) {
			items = append(items, item)
		}
	}
	sortItemsByCreation(items)
	return items, nil
}

// sortItemsByCreation gives map-backed listings a deterministic order, which
// the scorer's stable tie-breaking depends on.
func sortItemsByCreation(items []models.CandidateItem) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].CreatedAt.Before(items[j].CreatedAt)
		}
		return items[i].ID < items[j].ID
	})
}

func (s *JSONStore) UpdateItem(profile string, item models.CandidateItem) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	if _, ok := p.Items[item.ID]; !ok {
		return fmt.Errorf("item not found: %s", item.ID)
	}
	p.Items[item.ID] = item
	return s.save()
}

func (s *JSONStore) DeleteItem(profile, id string) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	item, ok := p.Items[id]
	if !ok {
		return fmt.Errorf("item with id %s not found", id)
	}
	if item.DeletedAt != nil {
		return fmt.Errorf("item with id %s is already deleted", id)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	item.DeletedAt = &now
	p.Items[id] = item
	return s.save()
}

func (s *JSONStore) RestoreItem(profile, id string) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	item, ok := p.Items[id]
	if !ok {
		return fmt.Errorf("item with id %s not found", id)
	}
	if item.DeletedAt == nil {
		return fmt.Errorf("cannot restore an item that is not deleted: %s", id)
	}

	item.DeletedAt = nil
	p.Items[id] = item
	return s.save()
}

func (s *JSONStore) GetPreferences(profile string) (*models.PreferenceVector, error) {
	p, err := s.profile(profile)
	if err != nil {
		return nil, err
	}
	if p.Prefs == nil {
		return nil, nil
	}
	prefs := *p.Prefs
	return &prefs, nil
}

func (s *JSONStore) SavePreferences(profile string, prefs models.PreferenceVector) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	p.Prefs = &prefs
	return s.save()
}

func (s *JSONStore) AddFeedback(profile string, ev models.FeedbackEvent) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.CreatedAt.IsZero() {
		ev.CreatedAt = time.Now()
	}
	p.Feedback = append(p.Feedback, ev)
	return s.save()
}

func (s *JSONStore) RecentFeedback(profile string, limit int) ([]models.FeedbackEvent, error) {
	p, err := s.profile(profile)
	if err != nil {
		return nil, err
	}

	// Newest first.
	events := make([]models.FeedbackEvent, 0, limit)
	for i := len(p.Feedback) - 1; i >= 0 && len(events) < limit; i-- {
		events = append(events, p.Feedback[i])
	}
	return events, nil
}

func (s *JSONStore) CountFeedbackToday(profile, day string) (int, int, error) {
	p, err := s.profile(profile)
	if err != nil {
		return 0, 0, err
	}

	total, overrides := 0, 0
	for _, ev := range p.Feedback {
		if ev.CreatedAt.Format("2006-01-02") != day {
			continue
		}
		total++
		if ev.Action == models.FeedbackOverride {
			overrides++
		}
	}
	return total, overrides, nil
}

func (s *JSONStore) AddSession(profile string, rec models.SessionRecord) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now()
	}
	if rec.Day == "" {
		rec.Day = rec.CreatedAt.Format("2006-01-02")
	}
	p.Sessions = append(p.Sessions, rec)
	return s.save()
}

func (s *JSONStore) SumSessionDurationToday(profile, day string) (int64, error) {
	p, err := s.profile(profile)
	if err != nil {
		return 0, err
	}

	var total int64
	for _, rec := range p.Sessions {
		if rec.Day == day {
			total += rec.DurationMs
		}
	}
	return total, nil
}

func (s *JSONStore) SaveCardSnapshot(profile string, snap models.CardSnapshot) error {
	p, err := s.profile(profile)
	if err != nil {
		return err
	}
	p.Cards[snap.Day] = snap
	return s.save()
}

func (s *JSONStore) GetCardSnapshot(profile, day string) (models.CardSnapshot, error) {
	p, err := s.profile(profile)
	if err != nil {
		return models.CardSnapshot{}, err
	}
	snap, ok := p.Cards[day]
	if !ok {
		return models.CardSnapshot{}, fmt.Errorf("no card snapshot for %s", day)
	}
	return snap, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
