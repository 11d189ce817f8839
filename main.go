package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/serenvista/portal/internal/config"
	"github.com/serenvista/portal/internal/dispatch"
	"github.com/serenvista/portal/internal/handlers"
	"github.com/serenvista/portal/internal/logger"
	"github.com/serenvista/portal/internal/observability"
	"github.com/serenvista/portal/internal/queue"
	"github.com/serenvista/portal/internal/server"
	"github.com/serenvista/portal/internal/signature"
	"github.com/serenvista/portal/internal/webhook"
)

func main() {
	ctx := context.Background()
	appLog := logger.NewLogger("main")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.OTel.Enabled {
		shutdown, err := observability.Setup(ctx, observability.Config{
			ServiceName:    cfg.OTel.ServiceName,
			ServiceVersion: "1.0.0",
			Environment:    cfg.Environment,
			Endpoint:       cfg.OTel.Endpoint,
			SampleRate:     cfg.OTel.SampleRate,
		})
		if err != nil {
			// Instrumentation never blocks startup.
			appLog.Error("failed to set up OpenTelemetry", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(shutdownCtx); err != nil {
					appLog.Error("OpenTelemetry shutdown failed", "error", err)
				}
			}()
		}
	}

	keys := signature.Keys{
		Current: cfg.Relay.CurrentSigningKey,
		Next:    cfg.Relay.NextSigningKey,
	}

	// Without a database the portal still serves traffic; scheduling then
	// fails soft with "not configured".
	var queueManager *queue.Manager
	var queueClient dispatch.Client
	if cfg.DatabaseURL != "" {
		queueManager, err = queue.NewManager(ctx, queue.Options{
			DatabaseURL:     cfg.DatabaseURL,
			Keys:            keys,
			DeliveryTimeout: cfg.DeliveryTimeout,
		})
		if err != nil {
			log.Fatalf("Failed to create queue manager: %v", err)
		}
		if err := queueManager.Start(ctx); err != nil {
			log.Fatalf("Failed to start queue manager: %v", err)
		}
		queueClient = queueManager
	} else {
		appLog.Warn("DATABASE_URL not set, running without the relay queue")
	}

	dispatchMetrics, err := observability.NewDispatchMetrics()
	if err != nil {
		appLog.Error("failed to initialize dispatch metrics", "error", err)
	}
	webhookMetrics, err := observability.NewWebhookMetrics()
	if err != nil {
		appLog.Error("failed to initialize webhook metrics", "error", err)
	}

	scheduler := dispatch.NewScheduler(queueClient, cfg.AppBaseURL, dispatchMetrics)
	verifier := webhook.NewVerifier(keys, cfg.IsProduction(), webhookMetrics)

	loopback := handlers.NewLoopback()
	jobHandlers := handlers.NewJobHandlers(loopback, loopback, loopback)
	scheduleHandlers := handlers.NewScheduleHandlers(scheduler)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           server.New(scheduleHandlers, jobHandlers, verifier),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		appLog.Info("portal listening", "addr", cfg.HTTPAddr, "environment", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("HTTP server failed: %v", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	appLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("HTTP shutdown failed", "error", err)
	}
	if queueManager != nil {
		if err := queueManager.Stop(shutdownCtx); err != nil {
			appLog.Error("queue shutdown failed", "error", err)
		}
	}
	appLog.Info("shutdown complete")
}
