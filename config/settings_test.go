package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func envMap(m map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := m[key]
		return v, ok
	}
}

func TestLoadCreatesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.json")
	mgr := NewManager(path)

	s, err := mgr.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Server.Port != 5000 || s.Database.Driver != DatabaseDriverSupabase {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected settings file to be written: %v", err)
	}
	if s.Advertisements.Window() != time.Hour {
		t.Fatalf("expected 1h window, got %v", s.Advertisements.Window())
	}
}

func TestSaveAndReload(t *testing.T) {
	mgr := NewManager(filepath.Join(t.TempDir(), "settings.json"))

	s := DefaultSettings()
	s.Database.Driver = DatabaseDriverSQLite
	s.Advertisements.MinBudget = 10000
	s.Content.CatalogPath = "/srv/catalog.json"
	if err := mgr.Save(s); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(mgr.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("expected temp file to be renamed away, stat err = %v", err)
	}

	got, err := mgr.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.Database.Driver != DatabaseDriverSQLite || got.Advertisements.MinBudget != 10000 || got.Content.CatalogPath != "/srv/catalog.json" {
		t.Fatalf("unexpected reload %+v", got)
	}
}

func TestLoadBackfillsMissingFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"server":{"host":"127.0.0.1"},"database":{"driver":" SQLite "}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := NewManager(path).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Server.Port != 5000 {
		t.Errorf("expected backfilled port, got %d", s.Server.Port)
	}
	if s.Database.Driver != DatabaseDriverSQLite {
		t.Errorf("expected normalized driver, got %q", s.Database.Driver)
	}
	if s.Advertisements.MaxBudget != 100000000 || s.Advertisements.WindowMinutes != 60 {
		t.Errorf("expected backfilled limits, got %+v", s.Advertisements)
	}
	if s.Log.MaxSize != 50 {
		t.Errorf("expected backfilled log size, got %d", s.Log.MaxSize)
	}
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"server":`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := NewManager(path).Load(); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestLoadWithoutPath(t *testing.T) {
	if _, err := NewManager("").Load(); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestApplyEnv(t *testing.T) {
	s, err := ApplyEnv(DefaultSettings(), envMap(map[string]string{
		"SUPABASE_URL":          "https://proj.supabase.co",
		"SUPABASE_ANON_KEY":     "anon",
		"DATABASE_URL":          "postgres://localhost/streamvault",
		"STREAMVAULT_DB_DRIVER": "Postgres",
		"PORT":                  "8080",
	}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if s.Supabase.URL != "https://proj.supabase.co" || s.Supabase.AnonKey != "anon" {
		t.Errorf("unexpected supabase settings %+v", s.Supabase)
	}
	if s.Database.Driver != DatabaseDriverPostgres || s.Database.URL != "postgres://localhost/streamvault" {
		t.Errorf("unexpected database settings %+v", s.Database)
	}
	if s.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", s.Server.Port)
	}
}

func TestApplyEnvIgnoresBlankValues(t *testing.T) {
	base := DefaultSettings()
	base.Supabase.URL = "https://kept.supabase.co"
	s, err := ApplyEnv(base, envMap(map[string]string{"SUPABASE_URL": "  "}))
	if err != nil {
		t.Fatalf("apply env: %v", err)
	}
	if s.Supabase.URL != "https://kept.supabase.co" {
		t.Fatalf("expected blank override to be ignored, got %q", s.Supabase.URL)
	}
}

func TestApplyEnvRejectsInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"port":   {"PORT": "http"},
		"driver": {"STREAMVAULT_DB_DRIVER": "mongo"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ApplyEnv(DefaultSettings(), envMap(env)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNormalizeDriverAliases(t *testing.T) {
	tests := map[string]string{
		"supabase":   DatabaseDriverSupabase,
		"Postgres":   DatabaseDriverPostgres,
		"postgresql": DatabaseDriverPostgres,
		"pgx":        DatabaseDriverPostgres,
		"sqlite":     DatabaseDriverSQLite,
		" sqlite3 ":  DatabaseDriverSQLite,
	}
	for in, want := range tests {
		got, ok := NormalizeDriver(in)
		if !ok || got != want {
			t.Errorf("NormalizeDriver(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	if _, ok := NormalizeDriver("mongo"); ok {
		t.Error("expected unknown driver to be rejected")
	}
}

func TestApplyEnvAcceptsDriverAliases(t *testing.T) {
	for alias, want := range map[string]string{"sqlite3": DatabaseDriverSQLite, "postgresql": DatabaseDriverPostgres, "pgx": DatabaseDriverPostgres} {
		s, err := ApplyEnv(DefaultSettings(), envMap(map[string]string{"STREAMVAULT_DB_DRIVER": alias}))
		if err != nil {
			t.Fatalf("%s: apply env: %v", alias, err)
		}
		if s.Database.Driver != want {
			t.Errorf("%s: driver = %q, want %q", alias, s.Database.Driver, want)
		}
	}
}

func TestLoadBackfillsRateLimit(t *testing.T) {
	dir := t.TempDir()

	missing := filepath.Join(dir, "missing.json")
	if err := os.WriteFile(missing, []byte(`{"server":{"port":5000}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err := NewManager(missing).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.RateLimit != DefaultSettings().RateLimit {
		t.Fatalf("expected default rate limit for file without block, got %+v", s.RateLimit)
	}

	disabled := filepath.Join(dir, "disabled.json")
	if err := os.WriteFile(disabled, []byte(`{"rateLimit":{"requestsPerMinute":0,"burst":5}}`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	s, err = NewManager(disabled).Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.RateLimit.RequestsPerMinute != 0 || s.RateLimit.Burst != 5 {
		t.Fatalf("expected explicit disable to stick, got %+v", s.RateLimit)
	}
}
