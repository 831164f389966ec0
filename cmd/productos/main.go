// Package main runs the productos service: the /productos HTTP API, the gRPC health service
// and, when enabled, the pprof server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "net/http/pprof"

	"github.com/abgdnv/productos/internal/config"
	"github.com/abgdnv/productos/internal/product/app"
	"github.com/abgdnv/productos/pkg/config/configloader"
	"github.com/abgdnv/productos/pkg/logger"
	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/abgdnv/productos/pkg/nats"
	"github.com/abgdnv/productos/pkg/telemetry"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		log.Printf("application run failed: %v", err)
		os.Exit(1)
	}
	log.Println("application stopped gracefully")
}

// run loads the configuration, wires telemetry and events, and serves HTTP, gRPC and pprof until ctx is done.
func run(ctx context.Context) error {
	cfg, cfgErr := configloader.Load[*config.Config](app.ServiceName, config.Defaults())
	if cfgErr != nil {
		return fmt.Errorf("failed to load configuration: %w", cfgErr)
	}
	log.Printf("Configuration loaded: %v", cfg)

	appLogger := logger.New(cfg.Log.Level, os.Stdout)
	slog.SetDefault(appLogger)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, app.ServiceName, cfg.Telemetry)
	if err != nil {
		appLogger.Error("error creating tracer provider", slog.Any("error", err))
		return err
	}
	meterProvider, err := telemetry.NewMeterProvider(app.ServiceName)
	if err != nil {
		appLogger.Error("error creating meter provider", slog.Any("error", err))
		return err
	}

	publisher, closePublisher, err := newPublisher(ctx, cfg, appLogger)
	if err != nil {
		return err
	}
	defer closePublisher()

	deps := app.SetupDependencies(appLogger, publisher)
	httpServer := app.SetupHttpServer(deps, cfg)
	grpcServer := app.SetupGrpcServer(deps, cfg.GRPC.ReflectionEnabled)
	deps.Health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	pprofServer := &http.Server{
		Addr: cfg.PProf.Addr,
	}

	g, gCtx := errgroup.WithContext(ctx)

	// Start the HTTP server
	g.Go(func() error {
		appLogger.Info("HTTP server listening", slog.String("addr", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server failed: %w", err)
		}
		return nil
	})
	// gracefully shutdown HTTP server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	// Start the gRPC server
	g.Go(func() error {
		grpcAddr := ":" + cfg.GRPC.Port
		lis, err := net.Listen("tcp", grpcAddr)
		if err != nil {
			return fmt.Errorf("failed to listen on gRPC port: %w", err)
		}
		appLogger.Info("gRPC server listening", slog.String("addr", grpcAddr))
		return grpcServer.Serve(lis)
	})
	// gracefully shutdown gRPC server on context cancellation
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down gRPC server...")
		deps.Health.SetServingStatus("", grpc_health_v1.HealthCheckResponse_NOT_SERVING)
		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			deps.Health.Shutdown()
			close(stopped)
		}()
		select {
		case <-stopped:
			appLogger.Info("gRPC server stopped gracefully.")
			return nil
		case <-time.After(cfg.Shutdown.Timeout):
			appLogger.Warn("gRPC server graceful stop timed out. Forcing stop.")
			grpcServer.Stop()
			return fmt.Errorf("grpc server graceful stop timed out")
		}
	})

	// Start the pprof server if enabled
	if cfg.PProf.Enabled {
		g.Go(func() error {
			appLogger.Info("Pprof server listening", slog.String("addr", pprofServer.Addr))
			if err := pprofServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("pprof server failed: %w", err)
			}
			return nil
		})
		// gracefully shutdown pprof server on context cancellation
		g.Go(func() error {
			<-gCtx.Done()
			appLogger.Info("Shutting down pprof server...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
			defer cancel()
			return pprofServer.Shutdown(shutdownCtx)
		})
	}

	// gracefully shutdown telemetry providers
	g.Go(func() error {
		<-gCtx.Done()
		appLogger.Info("Shutting down telemetry providers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown tracer provider: %w", err)
		}
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown meter provider: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("errgroup encountered an error: %w", err)
	}
	return nil
}

// newPublisher connects to NATS JetStream when events are enabled and makes sure the stream exists.
// The returned func drains the connection.
func newPublisher(ctx context.Context, cfg *config.Config, appLogger *slog.Logger) (messaging.Publisher, func(), error) {
	if !cfg.Events.Enabled {
		appLogger.Info("Product events disabled")
		return messaging.NopPublisher{}, func() {}, nil
	}

	natsConn, err := nats.NewClient(cfg.Events.Nats.Url, cfg.Events.Nats.Timeout)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create NATS connection: %w", err)
	}
	js, err := nats.NewJetStreamContext(natsConn)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get JetStream context: %w", err)
	}

	streamCtx, cancel := context.WithTimeout(ctx, cfg.Events.Nats.Timeout)
	defer cancel()
	subjects := []string{messaging.ProductsCreatedSubject, messaging.ProductsUpdatedSubject, messaging.ProductsDeletedSubject}
	if err := nats.EnsureStream(streamCtx, js, cfg.Events.Stream, subjects); err != nil {
		natsConn.Close()
		return nil, nil, err
	}
	appLogger.Info("Publishing product events", slog.String("stream", cfg.Events.Stream))

	closeFn := func() {
		if err := natsConn.Drain(); err != nil {
			appLogger.Error("Failed to drain NATS connection", slog.Any("error", err))
		}
	}
	return nats.NewNatsPublisher(js), closeFn, nil
}
