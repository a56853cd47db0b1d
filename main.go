package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/studybuddy/server/internal/bot"
	"github.com/studybuddy/server/internal/bot/agent"
	"github.com/studybuddy/server/internal/bot/history"
	"github.com/studybuddy/server/internal/bot/model"
	"github.com/studybuddy/server/internal/bot/respond"
	"github.com/studybuddy/server/internal/bot/router"
	"github.com/studybuddy/server/internal/bot/store"
	"github.com/studybuddy/server/internal/core"
	"github.com/studybuddy/server/internal/llm"
	"github.com/studybuddy/server/internal/server"
	logx "github.com/studybuddy/server/pkg/logger"
	pkgredis "github.com/studybuddy/server/pkg/redis"
)

// AppConfig defines every configurable parameter of the service, sourced
// from environment variables (.env is loaded for local runs).
type AppConfig struct {
	Environment    string `envconfig:"APP_ENV" default:"development"`
	LogLevel       string `envconfig:"LOG_LEVEL"`
	HTTPAddr       string `envconfig:"HTTP_ADDR" default:":8000"`
	RequestTimeout string `envconfig:"HTTP_REQUEST_TIMEOUT" default:"30s"`

	// Infrastructure
	Redis pkgredis.Config

	// LLM provider
	LLM llm.Config

	// Core configs
	Router       model.RouterConfig
	Conversation model.ConversationConfig
	Session      model.SessionConfig
}

func main() {
	ctx := context.Background()

	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	env := core.ParseEnvironment(cfg.Environment)
	logx.Init(logx.Opts{Environment: env, Level: cfg.LogLevel})

	models, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise LLM models")
	}

	repo, cleanup, err := buildRepository(ctx, cfg)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to initialise session store")
	}
	defer cleanup()

	mentor := respond.NewMentor(models.Responder)
	fallback := agent.New(models.Agent, mentor, cfg.Conversation.Tools.MaxCalls)

	engine, err := bot.New(bot.Config{
		Repo:     repo,
		History:  history.NewAdapter(cfg.Conversation.HistoryBudget),
		Mentor:   mentor,
		Policy:   buildPolicy(cfg, models),
		Fallback: fallback,
	})
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to build chat engine")
	}

	timeout, err := time.ParseDuration(cfg.RequestTimeout)
	if err != nil {
		logx.Fatal().Str("value", cfg.RequestTimeout).Err(err).Msg("invalid HTTP_REQUEST_TIMEOUT")
	}

	r := mux.NewRouter()
	server.New(engine, timeout).RegisterRoutes(r)

	logx.Info().
		Str("addr", cfg.HTTPAddr).
		Str("policy", cfg.Router.Policy).
		Str("session_backend", cfg.Session.Backend).
		Msg("Study Buddy API listening")

	if err := http.ListenAndServe(cfg.HTTPAddr, r); err != nil {
		logx.Fatal().Err(err).Msg("HTTP server stopped")
	}
}

func buildRepository(ctx context.Context, cfg AppConfig) (model.SessionRepository, func(), error) {
	if cfg.Session.Backend != "redis" {
		return store.NewMemoryRepository(), func() {}, nil
	}

	ttl, err := time.ParseDuration(cfg.Session.TTL)
	if err != nil {
		return nil, nil, err
	}
	rdb, err := cfg.Redis.New(ctx)
	if err != nil {
		return nil, nil, err
	}
	return store.NewRedisRepository(rdb, ttl), func() { rdb.Close() }, nil
}

func buildPolicy(cfg AppConfig, models *llm.Models) router.Policy {
	if cfg.Router.Policy == "llm" {
		return router.NewLLMPolicy(models.Classifier)
	}

	mode, err := router.ParseTriggerMode(cfg.Router.AcademicTrigger)
	if err != nil {
		logx.Warn().Err(err).Msg("falling back to digit-or-keyword academic trigger")
	}
	return router.NewKeywordPolicy(mode)
}
