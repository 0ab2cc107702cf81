package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server         ServerSettings        `json:"server"`
	Supabase       SupabaseSettings      `json:"supabase"`
	Database       DatabaseSettings      `json:"database"`
	Advertisements AdvertisementSettings `json:"advertisements"`
	Content        ContentSettings       `json:"content"`
	RateLimit      RateLimitSettings     `json:"rateLimit"`
	Log            LogConfig             `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// SupabaseSettings points at the hosted PostgREST API.
type SupabaseSettings struct {
	URL     string `json:"url"`
	AnonKey string `json:"anonKey"`
}

const (
	DatabaseDriverSupabase = "supabase"
	DatabaseDriverPostgres = "postgres"
	DatabaseDriverSQLite   = "sqlite"
)

// NormalizeDriver maps a configured driver name or one of its aliases to the
// canonical DatabaseDriver* value. ok is false for unknown names.
func NormalizeDriver(name string) (driver string, ok bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case DatabaseDriverSupabase:
		return DatabaseDriverSupabase, true
	case DatabaseDriverPostgres, "postgresql", "pgx":
		return DatabaseDriverPostgres, true
	case DatabaseDriverSQLite, "sqlite3":
		return DatabaseDriverSQLite, true
	default:
		return strings.ToLower(strings.TrimSpace(name)), false
	}
}

// DatabaseSettings selects the advertisement request store.
type DatabaseSettings struct {
	Driver string `json:"driver"`
	Path   string `json:"path"`
	URL    string `json:"url"`
}

// AdvertisementSettings holds the business limits for advertisement requests.
type AdvertisementSettings struct {
	MinBudget     float64 `json:"minBudget"`
	MaxBudget     float64 `json:"maxBudget"`
	WindowMinutes int     `json:"windowMinutes"`
}

// Window returns the per-address window as a duration.
func (a AdvertisementSettings) Window() time.Duration {
	return time.Duration(a.WindowMinutes) * time.Minute
}

type ContentSettings struct {
	CatalogPath string `json:"catalogPath"`
}

// RateLimitSettings configures the per-IP flood guard on write endpoints.
// RequestsPerMinute of zero disables it.
type RateLimitSettings struct {
	RequestsPerMinute int `json:"requestsPerMinute"`
	Burst             int `json:"burst"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File       string `json:"file"`
	Level      string `json:"level"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

func DefaultSettings() Settings {
	return Settings{
		Server:   ServerSettings{Host: "0.0.0.0", Port: 5000},
		Supabase: SupabaseSettings{},
		Database: DatabaseSettings{Driver: DatabaseDriverSupabase, Path: "cache/streamvault.db"},
		Advertisements: AdvertisementSettings{
			MinBudget:     5000,
			MaxBudget:     100000000,
			WindowMinutes: 60,
		},
		Content:   ContentSettings{CatalogPath: "cache/catalog.json"},
		RateLimit: RateLimitSettings{RequestsPerMinute: 30, Burst: 10},
		Log: LogConfig{
			File:       "cache/logs/backend.log",
			Level:      "info",
			MaxSize:    50,   // 50 MB per file
			MaxBackups: 3,    // keep 3 old files
			MaxAge:     7,    // 7 days
			Compress:   true, // compress old files
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// Path returns the settings file location.
func (m *Manager) Path() string {
	return m.path
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return defaults, nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	var s Settings
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, fmt.Errorf("decode %s: %w", m.path, err)
	}

	backfill(&s)
	return s, nil
}

// backfill restores defaults for fields older settings files leave empty.
func backfill(s *Settings) {
	d := DefaultSettings()
	if s.Server.Port == 0 {
		s.Server.Port = d.Server.Port
	}
	if strings.TrimSpace(s.Database.Driver) == "" {
		s.Database.Driver = d.Database.Driver
	}
	s.Database.Driver, _ = NormalizeDriver(s.Database.Driver)
	if s.Database.Path == "" {
		s.Database.Path = d.Database.Path
	}
	if s.Advertisements.MinBudget <= 0 {
		s.Advertisements.MinBudget = d.Advertisements.MinBudget
	}
	if s.Advertisements.MaxBudget <= 0 {
		s.Advertisements.MaxBudget = d.Advertisements.MaxBudget
	}
	if s.Advertisements.WindowMinutes <= 0 {
		s.Advertisements.WindowMinutes = d.Advertisements.WindowMinutes
	}
	// A file without a rateLimit block gets the default guard. An explicit
	// requestsPerMinute of 0 with a burst set keeps it disabled.
	if s.RateLimit.RequestsPerMinute == 0 && s.RateLimit.Burst == 0 {
		s.RateLimit = d.RateLimit
	}
	if s.RateLimit.Burst <= 0 {
		s.RateLimit.Burst = d.RateLimit.Burst
	}
	if s.Log.MaxSize == 0 {
		s.Log.MaxSize = 50
	}
	if s.Log.MaxBackups == 0 {
		s.Log.MaxBackups = 3
	}
	if s.Log.MaxAge == 0 {
		s.Log.MaxAge = 7
	}
}

// ApplyEnv overlays environment overrides onto s. lookup is usually
// os.LookupEnv.
func ApplyEnv(s Settings, lookup func(string) (string, bool)) (Settings, error) {
	get := func(key string) (string, bool) {
		v, ok := lookup(key)
		v = strings.TrimSpace(v)
		return v, ok && v != ""
	}

	if v, ok := get("SUPABASE_URL"); ok {
		s.Supabase.URL = v
	}
	if v, ok := get("SUPABASE_ANON_KEY"); ok {
		s.Supabase.AnonKey = v
	}
	if v, ok := get("DATABASE_URL"); ok {
		s.Database.URL = v
	}
	if v, ok := get("STREAMVAULT_DB_DRIVER"); ok {
		s.Database.Driver = v
	}
	if v, ok := get("PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 || port > 65535 {
			return s, fmt.Errorf("invalid PORT %q", v)
		}
		s.Server.Port = port
	}

	driver, ok := NormalizeDriver(s.Database.Driver)
	if !ok {
		return s, fmt.Errorf("unknown database driver %q", s.Database.Driver)
	}
	s.Database.Driver = driver
	return s, nil
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
