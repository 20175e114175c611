package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/config"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/db"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/server"
	"github.com/EvelinyStark/vides-makslas-sarunas/exhibition/store"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml (optional)")
	flag.Parse()

	// Local deployments keep API_KEY and PORT in a .env file.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	logger := newLogger(cfg)
	log.Logger = logger

	if cfg.Exhibition.APIKey == "" {
		logger.Warn().Msg("API_KEY is not configured; every mutating request will be rejected")
	}

	conn, err := db.Connect(cfg.Exhibition.Database.Path)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open database")
	}
	defer conn.Close()

	if err := db.Migrate(conn); err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	st := store.New(conn, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := st.Init(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize store")
	}

	srv := server.New(cfg, st, logger)
	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Fatal().Err(err).Msg("server failed")
	}
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Exhibition.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.Exhibition.Log.Pretty {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		logger = zerolog.New(os.Stderr)
	}
	return logger.Level(level).With().Timestamp().Logger()
}
