package main

import (
	"log"
	"net/http"
	"os"

	"picture-word/internal/assets"
	"picture-word/internal/config"
	"picture-word/internal/db"
	"picture-word/internal/generate"
	"picture-word/internal/server"

	"github.com/rs/zerolog"
)

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil && level != zerolog.NoLevel {
		logger = logger.Level(level)
	}

	cfg := config.Load()

	conn, err := db.Open()
	if err != nil {
		logger.Fatal().Err(err).Msg("database connection failed")
	}
	if err := db.ConfigurePool(conn, cfg); err != nil {
		logger.Fatal().Err(err).Msg("database pool configuration failed")
	}
	if err := db.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("database migration failed")
	}

	prompts, err := generate.LoadPrompts(cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load prompt templates")
	}

	openai := generate.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIImageModel, logger.With().Str("component", "openai").Logger())
	store := assets.NewStore(conn, logger.With().Str("component", "assets").Logger())
	orchestrator := generate.NewOrchestrator(
		openai,
		openai,
		assets.NewCatalog(store),
		server.NewRoundHistory(conn),
		prompts,
		cfg,
		logger.With().Str("component", "generate").Logger(),
	)

	srv := server.New(conn, cfg, orchestrator, store, logger.With().Str("component", "server").Logger())

	addr := ":8080"
	if env := os.Getenv("PORT"); env != "" {
		addr = ":" + env
	}
	logger.Info().Str("addr", addr).Msg("picture-word server listening")
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		logger.Fatal().Err(err).Msg("server exited")
	}
}
