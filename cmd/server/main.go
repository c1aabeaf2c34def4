package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	httpapi "github.com/connectone/tradecore/internal/api/http"
	"github.com/connectone/tradecore/internal/application/audit"
	"github.com/connectone/tradecore/internal/application/auth"
	"github.com/connectone/tradecore/internal/application/autoconfirm"
	"github.com/connectone/tradecore/internal/application/chat"
	"github.com/connectone/tradecore/internal/application/escrow"
	"github.com/connectone/tradecore/internal/application/grading"
	"github.com/connectone/tradecore/internal/application/listing"
	"github.com/connectone/tradecore/internal/application/notification"
	"github.com/connectone/tradecore/internal/application/trade"
	"github.com/connectone/tradecore/internal/application/user"
	"github.com/connectone/tradecore/internal/config"
	domainEscrow "github.com/connectone/tradecore/internal/domain/escrow"
	"github.com/connectone/tradecore/internal/infrastructure/postgres"
	"github.com/connectone/tradecore/internal/infrastructure/sse"
)

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db error: %v", err)
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool, "internal/migrations"); err != nil {
		log.Fatalf("migration error: %v", err)
	}

	// repositories
	listingRepo := postgres.NewListingRepository(pool)
	tradeRepo := postgres.NewTradeStateRepository(pool)
	escrowRepo := postgres.NewEscrowRepository(pool)
	chatRepo := postgres.NewChatRepository(pool)
	notificationRepo := postgres.NewNotificationRepository(pool)
	gradingRepo := postgres.NewGradingRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	sessionRepo := postgres.NewSessionRepository(pool)

	// infrastructure
	sseHub := sse.NewHub()
	machine := domainEscrow.NewMachine()
	webhook := notification.NewWebhookSender(cfg.WebhookURL, cfg.WebhookRateLimit, logger)

	// services
	auditSvc := audit.NewService(auditRepo, logger, loadSigningKey(cfg.AuditSigningKey))
	userSvc := user.NewService(userRepo, logger)
	authSvc := auth.NewService(userRepo, sessionRepo, cfg.SessionTTL, logger)
	listingSvc := listing.NewService(listingRepo, machine, auditSvc, logger)
	chatSvc := chat.NewService(chatRepo, listingRepo, logger)
	tradeSvc := trade.NewService(tradeRepo, chatRepo, chatSvc, logger)
	notificationSvc := notification.NewService(notificationRepo, sseHub, webhook, machine, logger)
	gradingSvc := grading.NewService(gradingRepo, logger)
	escrowSvc := escrow.NewService(escrowRepo, listingRepo, chatRepo, machine, chatSvc, notificationSvc, gradingSvc, auditSvc, logger)

	sweeper := autoconfirm.NewSweeper(escrowRepo, escrowSvc, logger)
	if err := sweeper.Start(cfg.AutoConfirmCron); err != nil {
		log.Fatalf("autoconfirm error: %v", err)
	}
	defer sweeper.Stop()

	// API server
	apiServer := httpapi.NewServer(listingSvc, escrowSvc, tradeSvc, chatSvc, notificationSvc, gradingSvc, auditSvc, authSvc, userSvc, machine, cfg.SessionCookieName, cfg.SessionCookieSecure)

	httpServer := &http.Server{
		Addr:         cfg.ServerAddr,
		Handler:      apiServer.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// background loops
	go func() {
		ticker := time.NewTicker(5 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			_ = notificationSvc.ProcessPending(context.Background(), 50)
			_ = notificationSvc.ProcessRetryable(context.Background(), 50)
			_ = notificationSvc.ExpireOverdue(context.Background())
		}
	}()

	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			if n, err := sessionRepo.DeleteExpired(context.Background()); err == nil && n > 0 {
				logger.Debug().Int("sessions", n).Msg("expired sessions removed")
			}
		}
	}()

	// start server
	go func() {
		logger.Info().Str("addr", cfg.ServerAddr).Msg("http server started")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctxShutdown)
	sseHub.Stop()
}

// loadSigningKey accepts a hex-encoded key and falls back to the raw bytes
// when the value is not valid hex.
func loadSigningKey(s string) []byte {
	if b, err := hex.DecodeString(s); err == nil && len(b) > 0 {
		return b
	}
	return []byte(s)
}
