package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/SebbieMzingKe/iam-profile/internal/config"
	"github.com/SebbieMzingKe/iam-profile/internal/logger"
	"github.com/SebbieMzingKe/iam-profile/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.DebugMode, cfg.LogFormat)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		_ = logger.Sync(zapLogger)
	}()

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv, err := server.New(ctx, cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed_to_build_server", zap.Error(err))
	}
	defer func() {
		if err := srv.Close(); err != nil {
			zapLogger.Error("failed_to_close_session_store", zap.Error(err))
		}
	}()

	if err := srv.Run(ctx); err != nil {
		zapLogger.Error("server_stopped_with_error", zap.Error(err))
		os.Exit(1)
	}
}
