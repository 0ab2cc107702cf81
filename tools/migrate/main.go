package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"streamvault/config"
	"streamvault/internal/database"

	"github.com/joho/godotenv"
)

func main() {
	var (
		configPath = flag.String("config", "cache/settings.json", "Path to backend settings.json")
		cmd        = flag.String("cmd", "up", "Migration command: up, down or version")
	)
	flag.Parse()

	_ = godotenv.Load()

	settings, err := config.NewManager(*configPath).Load()
	if err != nil {
		log.Fatalf("load settings: %v", err)
	}
	settings, err = config.ApplyEnv(settings, os.LookupEnv)
	if err != nil {
		log.Fatalf("apply environment: %v", err)
	}

	driver := settings.Database.Driver
	if driver == config.DatabaseDriverSupabase {
		// Supabase projects share the postgres schema; migrate them over DATABASE_URL.
		driver = config.DatabaseDriverPostgres
	}

	db, err := database.NewDB(database.Config{
		Driver:       driver,
		DatabasePath: settings.Database.Path,
		DatabaseURL:  settings.Database.URL,
		SkipMigrate:  true,
	})
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	switch *cmd {
	case "up":
		err = db.Migrate()
	case "down":
		err = db.Rollback()
	case "version":
	default:
		log.Fatalf("unknown command %q", *cmd)
	}
	if err != nil {
		log.Fatalf("%s: %v", *cmd, err)
	}

	version, err := db.Version()
	if err != nil {
		log.Fatalf("read version: %v", err)
	}
	fmt.Printf("%s schema version: %d\n", db.Driver(), version)
}
