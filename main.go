// main.go
//
// Entry point for the Hangman game server.
// Startup order: .env → config → log level → word catalog → SQLite (+ migrations)
// → profile backend → lobby → HTTP server.

package main

import (
	"database/sql"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/psylsph/hangman-netlify/internal/config"
	"github.com/psylsph/hangman-netlify/internal/db"
	"github.com/psylsph/hangman-netlify/internal/httpserver"
	"github.com/psylsph/hangman-netlify/internal/lobby"
	"github.com/psylsph/hangman-netlify/internal/profile"
	"github.com/psylsph/hangman-netlify/internal/store"
	"github.com/psylsph/hangman-netlify/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("CONFIG_DIR"))
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}
	if cfg.InsecureSecret() {
		log.Warn().Msg("JWT_SECRET is the development default; set it in production")
	}

	catalog := words.Init(cfg.WordsFile)

	conn, err := db.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.DatabasePath).Msg("open database")
	}
	defer conn.Close()
	if err := db.Migrate(conn); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	profiles, err := profileStore(cfg, conn)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.ProfileBackend).Msg("profile store")
	}

	lobbyOpts := []lobby.Option{
		lobby.WithWords(catalog),
		lobby.WithConnectDelay(cfg.LobbyConnectDelay),
	}
	if cfg.LobbyDemoRooms {
		lobbyOpts = append(lobbyOpts, lobby.WithDemoRooms())
	}

	srv := httpserver.New(cfg, store.NewMemoryStore(), conn,
		httpserver.WithCatalog(catalog),
		httpserver.WithProfiles(profile.NewService(profiles)),
		httpserver.WithLobby(lobby.NewCoordinator(lobbyOpts...)),
	)
	log.Info().Str("port", cfg.Port).Str("profiles", cfg.ProfileBackend).Msg("starting hangman server")
	if err := srv.Start(cfg.Addr()); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// profileStore selects the player profile backend.
func profileStore(cfg *config.Config, conn *sql.DB) (profile.Store, error) {
	switch cfg.ProfileBackend {
	case config.BackendMemory:
		return profile.NewMemoryStore(), nil
	case config.BackendDynamo:
		d, err := profile.DialDynamo(cfg.AWSRegion, cfg.DynamoTable)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return profile.NewSQLStore(conn), nil
	}
}
