package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"

	"github.com/tutejaLucky/docExtract/internal/common"
	"github.com/tutejaLucky/docExtract/internal/export"
	"github.com/tutejaLucky/docExtract/internal/extract/docstrange"
	"github.com/tutejaLucky/docExtract/internal/pipeline"
	"github.com/tutejaLucky/docExtract/internal/reconcile"
	repo "github.com/tutejaLucky/docExtract/internal/repository"
	"github.com/tutejaLucky/docExtract/internal/server"
)

const healthProbeInterval = 30 * time.Second

func main() {
	_ = godotenv.Load()

	cfg, err := common.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(2)
	}
	logger := common.NewLogger(cfg.Log, os.Stdout)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Reconciliation store is optional.
	var (
		store      *repo.Store
		reconciler pipeline.Reconciler
		pinger     server.Pinger
	)
	if cfg.ReconcileEnabled() {
		store, err = repo.Open(ctx, repo.ConfigFrom(cfg.Database), logger)
		if err != nil {
			logger.Error("failed to open database", "error", err)
			os.Exit(1)
		}
		defer store.Close(logger)

		if err := store.HealthCheck(ctx, 5*time.Second); err != nil {
			logger.Error("failed to ping database", "error", err)
			os.Exit(1)
		}
		reconciler = reconcile.NewEngine(logger, reconcile.NewSQLSource(store.DB), store.Dialect)
		pinger = store
	} else {
		logger.Warn("DB_URL not set; reconciliation disabled")
	}

	extractor := docstrange.NewClient(docstrange.Config{
		BaseURL: cfg.Extractor.BaseURL,
		APIKey:  cfg.Extractor.APIKey,
		Timeout: cfg.Extractor.Timeout,
	}, logger)
	scanner := pipeline.NewScanner(logger, extractor, cfg.Extractor.Timeout)
	processor := pipeline.NewProcessor(logger, scanner, export.NewWriter(logger), reconciler, cfg.OutputDir, cfg.AutoReconcile)

	// gRPC health endpoint
	lis, err := net.Listen("tcp", cfg.Server.GRPCAddr)
	if err != nil {
		logger.Error("failed to listen on address", "addr", cfg.Server.GRPCAddr, "error", err)
		os.Exit(1)
	}
	grpcServer := grpc.NewServer()
	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(grpcServer, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	if store != nil {
		go probeStore(ctx, store, healthServer, logger)
	}
	go func() {
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC serve error", "error", err)
			stop()
		}
	}()

	srv := server.New(logger, processor, pinger, cfg.UploadDir, cfg.Server.RequestTimeout)
	httpServer := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve error", "error", err)
			stop()
		}
	}()
	logger.Info("docextract listening", "http_addr", cfg.Server.HTTPAddr, "grpc_addr", cfg.Server.GRPCAddr)

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", "error", err)
	}
	healthServer.Shutdown()
	grpcServer.GracefulStop()
}

// probeStore mirrors store reachability into the gRPC health status.
func probeStore(ctx context.Context, store *repo.Store, hs *health.Server, logger *slog.Logger) {
	ticker := time.NewTicker(healthProbeInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			status := grpc_health_v1.HealthCheckResponse_SERVING
			if err := store.HealthCheck(ctx, 2*time.Second); err != nil {
				logger.Warn("health.store.unreachable", "error", err)
				status = grpc_health_v1.HealthCheckResponse_NOT_SERVING
			}
			hs.SetServingStatus("", status)
		}
	}
}
