package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/open-civ-league/league-bot/app"
	"github.com/open-civ-league/league-bot/config"
	"github.com/open-civ-league/league-bot/internal/observability"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	obs := observability.Init(cfg.Observability)
	logger := obs.Provider.Logger

	application := &app.App{}
	if err := application.Initialize(ctx, cfg, obs); err != nil {
		logger.Error("Failed to initialize app", "error", err)
		os.Exit(1)
	}

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-interrupt
		logger.Info("Shutdown signal received")
		cancel()
	}()

	logger.Info("Starting league bot")
	if err := application.Run(ctx); err != nil {
		logger.Error("Application stopped with error", "error", err)
	}

	if err := application.Close(); err != nil {
		logger.Error("Error during shutdown", "error", err)
	}
	logger.Info("Application shut down gracefully")
}
