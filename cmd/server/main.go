// ODIA backend — Nigeria-first WhatsApp/Telegram AI agent service.
//
// Routes inbound chat messages to persona agents, answers them through a
// primary completion provider with Claude fallback, synthesizes speech with
// a two-tier cache, and logs every exchange to the durable store.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/odiadev/odia-backend/internal/ai"
	"github.com/odiadev/odia-backend/internal/api"
	"github.com/odiadev/odia-backend/internal/api/handlers"
	"github.com/odiadev/odia-backend/internal/audit"
	"github.com/odiadev/odia-backend/internal/billing"
	"github.com/odiadev/odia-backend/internal/config"
	"github.com/odiadev/odia-backend/internal/store"
	"github.com/odiadev/odia-backend/internal/telegram"
	"github.com/odiadev/odia-backend/internal/telemetry"
	"github.com/odiadev/odia-backend/internal/voice"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg := config.Load()
	ctx := context.Background()

	log.Info().Str("version", cfg.Version).Msg("ODIA backend starting...")

	shutdownTelemetry, err := telemetry.Init(cfg.Telemetry, cfg.Version)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}
	defer shutdownTelemetry(ctx)

	dataStore := newStore(ctx, cfg)
	defer dataStore.Close()

	retrier := store.NewRetrier(dataStore)
	auditWriter := audit.NewWriter(retrier, 256)
	defer auditWriter.Close()

	completion := ai.NewService(
		&ai.OpenAICompat{
			Label:    "zai",
			Endpoint: cfg.AI.PrimaryEndpoint,
			APIKey:   cfg.AI.PrimaryAPIKey,
			Model:    cfg.AI.PrimaryModel,
		},
		&ai.Anthropic{
			Endpoint:  cfg.AI.SecondaryEndpoint,
			APIKey:    cfg.AI.SecondaryAPIKey,
			Model:     cfg.AI.SecondaryModel,
			MaxTokens: cfg.AI.SecondaryMaxTokens,
		},
	)

	var audioCache *voice.Cache
	if cfg.Cache.Enabled {
		audioCache, err = voice.NewCache(cfg.Cache.MaxBytes, cfg.Cache.TTL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize voice cache")
		}
		defer audioCache.Close()
	} else {
		log.Warn().Msg("Voice cache disabled, every request hits the origin provider")
	}

	synth := voice.NewSynthesizer(audioCache, &voice.ElevenLabs{
		Endpoint:        cfg.Voice.Endpoint,
		APIKey:          cfg.Voice.APIKey,
		VoiceID:         cfg.Voice.VoiceID,
		ModelID:         cfg.Voice.ModelID,
		Stability:       cfg.Voice.Stability,
		SimilarityBoost: cfg.Voice.SimilarityBoost,
	}, retrier)

	h := handlers.New(cfg, completion, synth, auditWriter,
		&billing.Client{
			Endpoint:    cfg.Billing.Endpoint,
			SecretKey:   cfg.Billing.SecretKey,
			RedirectURL: cfg.Billing.RedirectURL,
		},
		&telegram.Client{
			Endpoint: cfg.Telegram.APIEndpoint,
			Token:    cfg.Telegram.BotToken,
		},
		dataStore,
	)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      api.NewRouter(cfg, h),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info().Msg("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info().Int("port", cfg.Port).Msg("ODIA backend listening")

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("Server failed")
	}
}

// newStore picks PostgreSQL when DATABASE_URL is configured, otherwise the
// in-memory store (local dev).
func newStore(ctx context.Context, cfg *config.Config) store.Store {
	if cfg.Database.URL == "" {
		log.Warn().Msg("DATABASE_URL not set, using in-memory store")
		return store.NewMemoryStore()
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid DATABASE_URL")
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxConnections)

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}

	pg := store.NewPostgresStore(pool, pool.Close)
	if err := pg.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	log.Info().Msg("PostgreSQL store initialized")
	return pg
}
