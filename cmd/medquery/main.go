package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/antoniostano/medquery/internal/auth"
	"github.com/antoniostano/medquery/internal/billing"
	"github.com/antoniostano/medquery/internal/config"
	"github.com/antoniostano/medquery/internal/generation"
	"github.com/antoniostano/medquery/internal/httpapi"
	"github.com/antoniostano/medquery/internal/memory"
	"github.com/antoniostano/medquery/internal/observability"
	"github.com/antoniostano/medquery/internal/pipeline"
	"github.com/antoniostano/medquery/internal/quota"
	"github.com/antoniostano/medquery/internal/retrieval"
	"github.com/antoniostano/medquery/internal/users"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	userStore, err := users.NewStore(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("user store init failed: %v", err)
	}
	defer userStore.Close()

	archive, err := memory.NewArchive(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("conversation archive init failed: %v", err)
	}
	defer archive.Close()

	retriever, err := retrieval.NewRetriever(retrieval.Config{
		Mode:  cfg.RetrieverMode,
		URL:   cfg.RetrieverURL,
		TopK:  cfg.RetrieverTopK,
		Index: cfg.RetrieverIndex,
	})
	if err != nil {
		log.Fatalf("retriever init failed: %v", err)
	}

	generator, err := generation.NewGenerator(generation.Config{
		Mode:    cfg.GeneratorMode,
		URL:     cfg.GeneratorURL,
		Model:   cfg.GeneratorModel,
		Timeout: cfg.GeneratorTimeout,
	})
	if err != nil {
		log.Fatalf("generator init failed: %v", err)
	}

	gate := quota.NewGate(userStore, cfg.QuotaFreeLimit, cfg.QuotaSubscriberLimit)
	windows := memory.NewWindowStore(cfg.MemoryWindow)
	orchestrator := pipeline.NewOrchestrator(gate, windows, archive, retriever, generator, metrics)

	var authSvc *auth.Service
	if cfg.GoogleClientID != "" {
		authSvc = auth.New(cfg.GoogleClientID, cfg.OAuthRedirectURI)
		log.Printf("google oauth enabled")
	}

	var billingClient *billing.Client
	if cfg.BillingAPIKey != "" {
		billingClient = billing.NewClient(billing.Config{
			APIURL:     cfg.BillingAPIURL,
			APIKey:     cfg.BillingAPIKey,
			PriceID:    cfg.BillingPriceID,
			SuccessURL: cfg.BillingSuccessURL,
			CancelURL:  cfg.BillingCancelURL,
		})
		log.Printf("billing enabled")
	}

	api := httpapi.New(cfg, orchestrator, userStore, authSvc, billingClient, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	users.StartResetJanitor(runCtx, userStore, cfg.QuotaResetInterval)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	log.Printf("shutdown complete")
}
