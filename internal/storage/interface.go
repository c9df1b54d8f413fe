package storage

import "github.com/marcwilhite/daycard/internal/models"

// Settings are the app-level knobs stored alongside the data.
type Settings struct {
	DayStart            string `json:"day_start"` // HH:MM format
	DayEnd              string `json:"day_end"`   // HH:MM format
	DefaultProfile      string `json:"default_profile"`
	RecentFeedbackLimit int    `json:"recent_feedback_limit"`
}

// DefaultSettings returns the settings written at init time.
func DefaultSettings() Settings {
	return Settings{
		DayStart:            "07:00",
		DayEnd:              "22:00",
		DefaultProfile:      "default",
		RecentFeedbackLimit: 20,
	}
}

// Provider is the storage contract shared by the SQLite and JSON backends.
//
// Concurrency note: providers are not safe for concurrent use by multiple
// goroutines without external synchronization, and running multiple daycard
// processes against the same store path can lose preference updates
// (read-modify-write without compare-and-swap; see 'daycard doctor').
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (Settings, error)
	SaveSettings(Settings) error

	// Candidate items
	AddItem(profile string, item models.CandidateItem) error
	GetItem(profile, id string) (models.CandidateItem, error)
	GetAllItems(profile string) ([]models.CandidateItem, error)
	ActiveItems(profile string) ([]models.CandidateItem, error)
	UpdateItem(profile string, item models.CandidateItem) error
	DeleteItem(profile, id string) error
	RestoreItem(profile, id string) error

	// Learned preferences. GetPreferences returns (nil, nil) when the
	// profile has no vector yet; callers substitute defaults.
	GetPreferences(profile string) (*models.PreferenceVector, error)
	SavePreferences(profile string, prefs models.PreferenceVector) error

	// Feedback events
	AddFeedback(profile string, ev models.FeedbackEvent) error
	RecentFeedback(profile string, limit int) ([]models.FeedbackEvent, error)
	CountFeedbackToday(profile, day string) (total, overrides int, err error)

	// Session activity
	AddSession(profile string, rec models.SessionRecord) error
	SumSessionDurationToday(profile, day string) (int64, error)

	// Daily card snapshots (audit only, never authoritative)
	SaveCardSnapshot(profile string, snap models.CardSnapshot) error
	GetCardSnapshot(profile, day string) (models.CardSnapshot, error)

	// Utils
	GetConfigPath() string
}
