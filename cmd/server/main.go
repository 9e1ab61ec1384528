package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/moneyport/acquiring-go/internal/config"
	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	httpServer "github.com/moneyport/acquiring-go/internal/infrastructure/http"
	"github.com/moneyport/acquiring-go/internal/logger"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewZapLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Initialize acquiring API client
	api := client.NewClient(client.Config{
		BaseURL:     cfg.Acquiring.BaseURL,
		TerminalKey: cfg.Acquiring.TerminalKey,
		Password:    cfg.Acquiring.Password,
	}, zapLogger)

	encryptor, err := acquiring.NewRSAEncryptor(cfg.Acquiring.PublicKey)
	if err != nil {
		zapLogger.Fatal("Failed to parse terminal public key", zap.Error(err))
	}

	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize server
	httpSrv := httpServer.NewServer(cfg, zapLogger, api, encryptor)

	// Start server
	go func() {
		if err := httpSrv.Start(); err != nil {
			zapLogger.Fatal("Failed to start HTTP server", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	zapLogger.Info("Shutting down server...")

	if err := httpSrv.Shutdown(ctx); err != nil {
		zapLogger.Error("Failed to shutdown HTTP server", zap.Error(err))
	}

	zapLogger.Info("Server shut down successfully")
}
