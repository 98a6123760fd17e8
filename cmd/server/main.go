package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/cvextract/internal/api"
	"github.com/dgallion1/cvextract/internal/config"
	"github.com/dgallion1/cvextract/internal/extract"
	"github.com/dgallion1/cvextract/internal/pipeline"
	"github.com/dgallion1/cvextract/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	docs, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("open document store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Model list in priority order; the runner walks it on failure.
	models := make([]extract.Model, 0, len(cfg.ModelPriority))
	for _, name := range cfg.ModelPriority {
		models = append(models, extract.NewChatClient(cfg.AIBaseURL, cfg.AIAPIKey, name, cfg.AICallTimeout))
	}
	stats := extract.NewCallStats(0)
	runner := extract.NewRunner(models, cfg.ModelRetries, stats, log)
	extractor := extract.NewExtractor(runner, cfg.ContactHeadChars)

	orch := pipeline.NewOrchestrator(cfg, extractor, docs, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, stats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		docs.Close()
	}()

	log.Info("starting cvextract", "port", cfg.Port, "models", cfg.ModelPriority,
		"workers", cfg.WorkerCount, "segmentation", cfg.SegmentationStrategy)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
