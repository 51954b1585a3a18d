// main.go
//
// Entry point for the Orapa Mine Go server.
// Responsibilities:
//   - Load .env and set the global log level.
//   - Load the game rules (RULES_FILE, default ./config.yaml; missing file
//     falls back to the defaults of the physical game).
//   - Open SQLite (DATABASE_PATH) and apply migrations.
//   - Wire the in-memory session store into the HTTP server and serve.

package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/orapamine/go-server/internal/config"
	"github.com/orapamine/go-server/internal/httpserver"
	"github.com/orapamine/go-server/internal/store"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	cfg, err := config.Load(getEnv("RULES_FILE", "config.yaml"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load game rules")
	}
	log.Info().
		Int("width", cfg.BoardWidth).
		Int("height", cfg.BoardHeight).
		Int("reflection_cap", cfg.ReflectionCap()).
		Msg("rules loaded")

	db, err := openDB(getEnv("DATABASE_PATH", "./data/app.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	if err := migrate(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	mem := store.NewMemoryStore()
	srv := httpserver.New(mem, db, cfg)
	port := getEnv("PORT", "8080")
	log.Info().Str("port", port).Msg("starting go-server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
