package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"streamvault/api"
	"streamvault/config"
	"streamvault/handlers"
	"streamvault/internal/database"
	"streamvault/internal/supabase"
	"streamvault/services/adrequests"
	"streamvault/services/catalog"
	"streamvault/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	portOverride := flag.Int("port", 0, "override server port from config")
	configFlag := flag.String("config", "", "path to settings.json")
	flag.Parse()

	fmt.Println("🚀 StreamVault Backend Starting...")

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not read .env: %v", err)
	}

	// Determine config path (flag, env or default)
	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv("STREAMVAULT_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join("cache", "settings.json")
	}

	// Init config manager and load settings (creates defaults if missing)
	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Fatalf("failed to load settings: %v", err)
	}
	settings, err = config.ApplyEnv(settings, os.LookupEnv)
	if err != nil {
		log.Fatalf("invalid environment: %v", err)
	}

	setupLogging(settings.Log)

	// Apply port override if specified
	if *portOverride > 0 {
		settings.Server.Port = *portOverride
	}

	store, closeStore, err := openStore(settings)
	if err != nil {
		log.Fatalf("failed to open advertisement store: %v", err)
	}
	defer closeStore()

	adService := adrequests.NewService(store, adrequests.Options{
		MinBudget: settings.Advertisements.MinBudget,
		MaxBudget: settings.Advertisements.MaxBudget,
		Window:    settings.Advertisements.Window(),
	})
	catalogService := catalog.NewService(afero.NewOsFs(), settings.Content.CatalogPath)

	limiter := api.PerMinute(settings.RateLimit.RequestsPerMinute, settings.RateLimit.Burst)
	if limiter != nil {
		defer limiter.Stop()
	} else {
		slog.Warn("write endpoint flood guard disabled", "requestsPerMinute", settings.RateLimit.RequestsPerMinute)
	}

	r := utils.NewRouter()
	api.Register(r,
		handlers.NewAdvertisementsHandler(adService),
		handlers.NewHeroHandler(catalogService),
		handlers.NewEmbedHandler(),
		limiter,
	)

	addr := fmt.Sprintf("%s:%d", settings.Server.Host, settings.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("🌐 Listening on %s (store: %s)", addr, settings.Database.Driver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-shutdownChan
	log.Println("🛑 Shutdown signal received, cleaning up...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("✅ Shutdown complete")
}

// setupLogging tees the standard logger into a rotated file and applies the
// configured slog level.
func setupLogging(cfg config.LogConfig) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(cfg.Level))); err != nil {
		level = slog.LevelInfo
	}
	slog.SetLogLoggerLevel(level)

	if cfg.File == "" {
		return
	}
	logDir := filepath.Dir(cfg.File)
	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		return
	}
	fileWriter := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}
	log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Logging to file: %s", cfg.File)
}

// openStore builds the advertisement request store for the configured driver.
func openStore(settings config.Settings) (adrequests.Store, func(), error) {
	switch settings.Database.Driver {
	case config.DatabaseDriverPostgres, config.DatabaseDriverSQLite:
		db, err := database.NewDB(database.Config{
			Driver:       settings.Database.Driver,
			DatabasePath: settings.Database.Path,
			DatabaseURL:  settings.Database.URL,
		})
		if err != nil {
			return nil, nil, err
		}
		return db.Advertisements, func() { db.Close() }, nil
	default:
		client := supabase.NewClient(settings.Supabase.URL, settings.Supabase.AnonKey)
		if !client.Configured() {
			slog.Warn("supabase is not configured; advertisement requests will fail",
				"hint", "set SUPABASE_URL and SUPABASE_ANON_KEY")
		}
		return client, func() {}, nil
	}
}
