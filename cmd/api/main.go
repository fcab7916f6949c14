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

	"github.com/joho/godotenv"

	"github.com/solacehq/solace/backend/internal/config"
	"github.com/solacehq/solace/backend/internal/handler"
	"github.com/solacehq/solace/backend/internal/service/ai"
	"github.com/solacehq/solace/backend/internal/service/audio"
	"github.com/solacehq/solace/backend/internal/service/chat"
	"github.com/solacehq/solace/backend/internal/service/interview"
	"github.com/solacehq/solace/backend/internal/service/report"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatSvc := chat.NewService()
	orchestrator := buildOrchestrator(ctx, cfg)
	log.Printf("response pipeline: %v", orchestrator.ProviderNames())

	audioSvc := audio.NewService(cfg.Audio)
	if audioSvc.Enabled() {
		log.Println("audio service: remote engine configured")
	} else {
		log.Println("audio service: no credentials, browser fallbacks active")
	}

	reportSvc := report.NewService(cfg.Reports)
	interviewSvc := interview.NewService(nil, orchestrator)

	router := handler.NewRouter(handler.Services{
		ChatSvc:      chatSvc,
		Orchestrator: orchestrator,
		AudioSvc:     audioSvc,
		ReportSvc:    reportSvc,
		InterviewSvc: interviewSvc,
		HistoryLimit: cfg.AI.HistoryLimit,
	})

	startServer(ctx, cfg.Server, router)
}

// buildOrchestrator assembles the fallback chain from whatever backends
// are configured. Order is fixed: primary cloud, secondary cloud, local
// model, then the rule-based terminal tier that is always present.
func buildOrchestrator(ctx context.Context, cfg *config.Config) *ai.Orchestrator {
	var providers []ai.Provider

	if cfg.AI.PrimaryEnabled() {
		cloud, err := ai.NewCloudProvider(ctx, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize primary cloud provider: %v", err)
		} else {
			providers = append(providers, cloud)
		}
	} else {
		log.Println("primary cloud credentials not configured, skipping")
	}

	if cfg.AI.SecondaryEnabled() {
		providers = append(providers, ai.NewChatCompletionProvider(cfg.AI.SecondaryBaseURL, cfg.AI.SecondaryAPIKey, cfg.AI.SecondaryModel))
	} else {
		log.Println("secondary cloud credentials not configured, skipping")
	}

	if cfg.Local.Enabled() {
		local := ai.NewLocalProvider(cfg.Local)
		if local.Loaded() {
			log.Println("local model runtime reachable")
		} else {
			log.Println("local model runtime configured but not reachable, will fast-fail")
		}
		providers = append(providers, local)
	} else {
		log.Println("local model runtime not configured, skipping")
	}

	return ai.NewOrchestrator(nil, providers...)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Solace backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
