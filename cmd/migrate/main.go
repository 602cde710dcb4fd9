package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"musiccatalog/internal/config"
	"musiccatalog/internal/dbmigrate"
	"musiccatalog/internal/logging"
)

func main() {
	if len(os.Args) != 2 || (os.Args[1] != "up" && os.Args[1] != "down" && os.Args[1] != "version") {
		log.Fatal().Msg("usage: migrate [up|down|version]")
	}

	_ = godotenv.Load()

	logging.SetGlobalLogger(logging.New(logging.Config{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	}))

	// The migration tool always targets Postgres, whatever the server uses.
	os.Setenv("STORAGE_DRIVER", config.DriverPostgres)
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("load configuration")
	}

	db, err := sql.Open("postgres", cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to database")
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := dbmigrate.Up(db); err != nil {
			log.Fatal().Err(err).Msg("apply migrations")
		}
		log.Info().Msg("migrations applied successfully")
	case "down":
		if err := dbmigrate.Down(db); err != nil {
			log.Fatal().Err(err).Msg("roll back migrations")
		}
		log.Info().Msg("migrations rolled back successfully")
	case "version":
		version, dirty, err := dbmigrate.Version(db)
		if err != nil {
			log.Fatal().Err(err).Msg("read schema version")
		}
		log.Info().Uint("version", version).Bool("dirty", dirty).Msg("schema version")
	}
}
