package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedbackboard/internal/auth"
	"feedbackboard/internal/config"
	"feedbackboard/internal/db"
	httpx "feedbackboard/internal/http"
	"feedbackboard/internal/llm"
	"feedbackboard/internal/logger"
)

func main() {
	cfg, _ := config.Load()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	gdb, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("connect database", "error", err)
	}
	if err := db.AutoMigrateAndIndexes(gdb); err != nil {
		log.Fatal("migrate", "error", err)
	}
	if err := db.SeedThemes(gdb); err != nil {
		log.Fatal("seed themes", "error", err)
	}

	// a missing key is not fatal: analyze and ask report it per request
	llmClient, err := llm.New(llm.Config{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.LLMAPIKey(),
		Model:    cfg.LLMModel,
	})
	if err != nil {
		log.Warn("LLM disabled", "provider", cfg.LLMProvider, "error", err)
		llmClient = nil
	} else {
		log.Info("LLM enabled", "client", llmClient.Name())
	}

	jwtSvc := auth.NewJWT(cfg.SessionSecret)
	r := httpx.NewRouter(cfg, gdb, jwtSvc, llmClient, log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("http server", "error", err)
		}
	}()

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
}
