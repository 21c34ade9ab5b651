package main

import (
	"log"
	"log/slog"
	"net/http"
	"time"

	"digitora/internal/admin"
	"digitora/internal/advisor"
	"digitora/internal/catalog"
	"digitora/internal/config"
	"digitora/internal/enroll"
	"digitora/internal/entitlement"
	"digitora/internal/events"
	"digitora/internal/server"
	"digitora/internal/state"
	"digitora/internal/storage"
	"digitora/internal/util"
	"digitora/pkg/ai"
)

func main() {
	cfg, err := config.Load(config.ConfigPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := util.InitLogger(cfg.LogLevel)

	stateStore, err := newStateStore(cfg)
	if err != nil {
		log.Fatalf("failed to init state store: %v", err)
	}

	overlay, err := stateStore.LoadOverlay()
	if err != nil {
		slog.Warn("overlay load failed, starting empty", "error", err)
		overlay = map[string]int{}
	}
	cat := catalog.NewStore(catalog.Seed(), overlay)
	tracker := entitlement.NewTracker(stateStore)

	verifier, err := newVerifier(cfg)
	if err != nil {
		log.Fatalf("failed to init payment verifier: %v", err)
	}

	var publisher events.Publisher = events.NoopPublisher{}
	if cfg.AMQPURL != "" {
		amqpPub, err := events.NewAMQPPublisher(cfg.AMQPURL, cfg.AMQPQueue)
		if err != nil {
			slog.Warn("amqp unavailable, purchase events disabled", "error", err)
		} else {
			publisher = amqpPub
			defer amqpPub.Close()
		}
	}

	var materials storage.MaterialStore
	if cfg.MinioEndpoint != "" {
		materials, err = storage.NewMinioStore(cfg.MinioEndpoint, cfg.MinioAccessKey, cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL)
		if err != nil {
			log.Fatalf("failed to init object store: %v", err)
		}
	}

	flow := enroll.NewFlow(cat, tracker, stateStore, verifier, publisher, materials, cfg.PaymentURL)
	adv := advisor.NewAdvisor(cat, newGenerator(cfg))

	sessions, err := admin.NewSessionManager(
		cfg.AdminPassword,
		cfg.AdminPasswordHash,
		cfg.AdminJWTSecret,
		time.Duration(cfg.AdminSessionTTLMinutes)*time.Minute,
	)
	if err != nil {
		log.Fatalf("failed to init admin sessions: %v", err)
	}

	httpServer, err := server.New(server.Config{
		Catalog:                 cat,
		Flow:                    flow,
		Advisor:                 adv,
		Editor:                  admin.NewEditor(cat),
		Sessions:                sessions,
		PaymentMode:             server.PaymentMode(cfg.PaymentMode),
		RedisAddr:               cfg.RedisAddr,
		RedisPassword:           cfg.RedisPassword,
		ChatRateLimitPerMinute:  cfg.ChatRateLimitPerMinute,
		LoginRateLimitPerMinute: cfg.LoginRateLimitPerMinute,
	})
	if err != nil {
		log.Fatalf("failed to init server: %v", err)
	}

	addr := ":" + cfg.Port
	srv := &http.Server{
		Addr:         addr,
		Handler:      httpServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	slog.Info("server listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server error", "err", err)
	}
}

func newStateStore(cfg config.FileConfig) (state.Store, error) {
	switch cfg.StateBackend {
	case "redis":
		return state.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword)
	case "postgres":
		return state.NewGormStore(cfg.DatabaseURL)
	default:
		return state.NewFileStore(cfg.StateDir)
	}
}

func newVerifier(cfg config.FileConfig) (enroll.PaymentVerifier, error) {
	if cfg.PaymentMode == "webhook" {
		return enroll.NewWebhookVerifier(cfg.IPNSecret)
	}
	return enroll.ManualVerifier{}, nil
}

func newGenerator(cfg config.FileConfig) ai.TextGenerator {
	switch cfg.AIProvider {
	case "ollama":
		return ai.NewOllamaGenerator(cfg.OllamaBaseURL, cfg.GenerationModel)
	case "openai":
		return ai.NewOpenAICompatGenerator(cfg.OpenAIBaseURL, cfg.OpenAIAPIKey, cfg.OpenAIModel)
	default:
		if cfg.GeminiAPIKey == "" {
			slog.Warn("gemini api key missing, advisor degraded")
			return nil
		}
		client, err := ai.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			slog.Warn("gemini client unavailable, advisor degraded", "error", err)
			return nil
		}
		return ai.NewGeminiGenerator(client, cfg.GenerationModel)
	}
}
