package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mama165/sdk-go/logs"
	"github.com/mbenaiss/whatsapp-session/api"
	"github.com/mbenaiss/whatsapp-session/config"
	"github.com/mbenaiss/whatsapp-session/db"
	"github.com/mbenaiss/whatsapp-session/services"
	"github.com/mbenaiss/whatsapp-session/session"
	"github.com/mbenaiss/whatsapp-session/whatsapp"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log := logs.GetLoggerFromString(cfg.LogLevel)
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	messageStore, err := db.NewDB(ctx, cfg.StoreDir)
	if err != nil {
		return fmt.Errorf("failed to initialize message store: %w", err)
	}
	defer func() {
		log.Info("Closing message store...")
		_ = messageStore.Close()
	}()

	connector := whatsapp.NewConnector(cfg.StoreDir, messageStore, log)
	client, err := session.New(ctx, connector, cfg.SessionName, session.Config{
		CommandTimeout: cfg.CommandTimeout,
		InboundBuffer:  cfg.InboundBuffer,
		Logger:         log,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize WhatsApp session: %w", err)
	}

	service, err := services.NewService(client, log)
	if err != nil {
		return err
	}

	go func() {
		err := client.AwaitReady(ctx, cfg.ReadyPollInterval)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn("Session did not become ready", "error", err)
		}
	}()

	apiServer := api.NewServer(service, cfg.Port, log)

	errChan := make(chan error, 1)
	go func() {
		log.Info("WhatsApp API server starting", "port", cfg.Port, "session", cfg.SessionName)
		if err := apiServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("Shutting down...")
	case <-client.Done():
		log.Warn("Session closed, shutting down...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := apiServer.Stop(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", "error", err)
	}
	if _, err := client.Close(shutdownCtx); err != nil {
		log.Error("Session close error", "error", err)
	}

	log.Info("Server gracefully stopped")
	return nil
}
