package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"

	"github.com/kl2321/FYP2025Kath-sub000/internal/config"
	"github.com/kl2321/FYP2025Kath-sub000/internal/logger"
	"github.com/kl2321/FYP2025Kath-sub000/internal/pipeline"
	"github.com/kl2321/FYP2025Kath-sub000/internal/server"
	"github.com/kl2321/FYP2025Kath-sub000/internal/store"
	"github.com/kl2321/FYP2025Kath-sub000/internal/summarizer"
	"github.com/kl2321/FYP2025Kath-sub000/internal/transcription"
)

func main() {
	_ = godotenv.Load() // loads .env

	log := logger.New()
	log.WithField("service", "meeting-analysis-api").Info("starting service")

	cfg := config.Load()

	var provider transcription.Provider
	if cfg.MockTranscribe {
		log.Warn("USE_MOCK_TRANSCRIBE set, transcription runs offline")
		provider = transcription.NewMockProvider()
	} else {
		provider = transcription.NewClient(cfg.TranscribeHost, cfg.TranscribeAPIKey)
	}

	var llm summarizer.Client
	if cfg.MockLLM {
		log.Warn("USE_MOCK_LLM set, summarization runs offline")
		llm = summarizer.MockClient{}
	} else {
		llm = summarizer.NewOpenAIClient(summarizer.Config{
			APIKey:  cfg.LLMAPIKey,
			BaseURL: cfg.LLMBaseURL,
			Model:   cfg.LLMModel,
		})
	}

	var sessions store.Store
	if cfg.RedisAddr != "" {
		rs := store.NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.SessionTTL)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := rs.Ping(ctx); err != nil {
			cancel()
			log.WithError(err).Fatal("redis unreachable")
		}
		cancel()
		log.WithField("redis_addr", cfg.RedisAddr).Info("using redis session store")
		sessions = rs
	} else {
		log.Info("using in-memory session store")
		sessions = store.NewMemory()
	}

	pipe := pipeline.New(provider, llm, cfg)
	srv := server.New(pipe, sessions, cfg)

	addr := fmt.Sprintf(":%s", cfg.Port)
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      srv.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 10 * time.Minute, // analysis runs synchronously inside the request
		IdleTimeout:  120 * time.Second,
	}
	log.WithField("addr", addr).Info("listening")
	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.WithError(err).Fatal("server terminated")
	}
}
