package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/xiaot623/genai-chat/internal/adapter/gda"
	"github.com/xiaot623/genai-chat/internal/adapter/llm"
	"github.com/xiaot623/genai-chat/internal/adapter/reports"
	"github.com/xiaot623/genai-chat/internal/adapter/vectorstore"
	"github.com/xiaot623/genai-chat/internal/auth"
	"github.com/xiaot623/genai-chat/internal/config"
	"github.com/xiaot623/genai-chat/internal/repository"
	"github.com/xiaot623/genai-chat/internal/service"
	transport "github.com/xiaot623/genai-chat/internal/transport/http"
	"github.com/xiaot623/genai-chat/internal/workflow"
	"github.com/xiaot623/genai-chat/policy"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := config.Load()
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	logger.Info("starting chat service",
		"port", cfg.HTTPPort,
		"database", cfg.DatabaseURL,
		"agent_endpoint", cfg.AgentEndpoint)

	if cfg.JWTSecret == "" {
		logger.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	store, err := repository.NewSQLiteStore(cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to initialize store", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	authSvc := auth.NewJWTService(cfg.JWTSecret, store)
	runner := workflow.NewAgentClient(cfg.AgentEndpoint, cfg.AgentTimeout)

	policyEngine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	if err != nil {
		logger.Error("failed to initialize policy engine", "error", err)
		os.Exit(1)
	}

	completer := llm.NewOpenAIClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	titles := service.NewLLMTitleGenerator(completer, cfg.TitlePrompt, cfg.TitleMinQuestionLength)

	chatSvc := service.NewChatService(store, authSvc, runner, policyEngine, titles, cfg, logger)

	catalog, err := vectorstore.NewMetricCatalog(cfg.WeaviateHost, cfg.WeaviateScheme)
	if err != nil {
		logger.Error("failed to initialize metric catalog", "error", err)
		os.Exit(1)
	}
	reportsSvc := service.NewReportsService(
		gda.NewClient(cfg.GDABaseURL, 30*time.Second),
		reports.NewClient(cfg.ReportsBaseURL, 30*time.Second),
		catalog,
		logger,
	)

	server := transport.NewServer(chatSvc, reportsSvc)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.HTTPPort)
		if err := server.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	logger.Info("chat service started", "port", cfg.HTTPPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down chat service")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down gracefully", "error", err)
	}

	logger.Info("chat service stopped")
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
