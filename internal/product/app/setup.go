// Package app contains the application setup for the productos service.
package app

import (
	"log/slog"
	"net/http"

	"github.com/abgdnv/productos/internal/config"
	"github.com/abgdnv/productos/internal/product/service"
	"github.com/abgdnv/productos/internal/product/store"
	"github.com/abgdnv/productos/internal/product/transport/rest"
	"github.com/abgdnv/productos/pkg/messaging"
	"github.com/abgdnv/productos/pkg/server"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
)

const (
	// ServiceName names the service in telemetry and the configuration env prefix.
	ServiceName = "productos"

	// TraceDescription is the descripcion of every TRACE echo.
	TraceDescription = "Echo del request TRACE"
)

type Dependencies struct {
	ProductService service.ProductService
	Health         *health.Server
	Logger         *slog.Logger
}

// SetupDependencies builds the service over a store seeded with the default products.
func SetupDependencies(logger *slog.Logger, publisher messaging.Publisher) *Dependencies {
	pService := service.NewService(store.NewInMemoryStore(store.SeedProducts...), publisher)

	return &Dependencies{
		ProductService: pService,
		Health:         health.NewServer(),
		Logger:         logger,
	}
}

// SetupHttpHandler initializes the routes and middleware of the productos service.
// Used by end-to-end tests to exercise the full HTTP stack.
func SetupHttpHandler(deps *Dependencies) http.Handler {
	mux := server.NewChiRouter(deps.Logger, TraceDescription)
	wireRoutes(mux, deps)
	return mux
}

// wireRoutes sets up the HTTP routes for the productos service.
func wireRoutes(mux *chi.Mux, deps *Dependencies) {
	productHandler := rest.NewHandler(deps.ProductService, deps.Logger)
	productHandler.RegisterRoutes(mux)
	mux.Handle("/metrics", promhttp.Handler())
}

// SetupHttpServer creates and configures an HTTP server for the productos service.
func SetupHttpServer(deps *Dependencies, cfg *config.Config) *http.Server {
	mux := SetupHttpHandler(deps)

	httpCfg := server.HTTPConfig{
		Port:           cfg.HTTPServer.Port,
		MaxHeaderBytes: cfg.HTTPServer.MaxHeaderBytes,
		ReadTimeout:    cfg.HTTPServer.Timeout.Read,
		WriteTimeout:   cfg.HTTPServer.Timeout.Write,
		IdleTimeout:    cfg.HTTPServer.Timeout.Idle,
		ReadHeader:     cfg.HTTPServer.Timeout.ReadHeader,
	}

	return server.NewHTTPServer(httpCfg, ServiceName, mux)
}

// SetupGrpcServer initializes the gRPC server, which exposes the standard health service.
func SetupGrpcServer(deps *Dependencies, reflectionEnabled bool) *grpc.Server {
	return server.NewGRPCServer(reflectionEnabled, server.WithHealth(deps.Health))
}
