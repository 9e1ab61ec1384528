package http

import (
	"context"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	handlers "github.com/moneyport/acquiring-go/internal/adapter/handler/http"
	"github.com/moneyport/acquiring-go/internal/config"
	"github.com/moneyport/acquiring-go/internal/domain/acquiring"
	"github.com/moneyport/acquiring-go/internal/infrastructure/client"
	"github.com/moneyport/acquiring-go/internal/infrastructure/metrics"
	"github.com/moneyport/acquiring-go/internal/usecase/process"
	threedsflow "github.com/moneyport/acquiring-go/internal/usecase/threeds"
)

type Server struct {
	config    *config.Config
	logger    *zap.Logger
	echo      *echo.Echo
	api       *client.Client
	encryptor acquiring.CardEncryptor
	metrics   *metrics.Recorder
	registry  *prometheus.Registry
}

func NewServer(cfg *config.Config, logger *zap.Logger, api *client.Client, encryptor acquiring.CardEncryptor) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	registry := prometheus.NewRegistry()

	return &Server{
		config:    cfg,
		logger:    logger,
		echo:      e,
		api:       api,
		encryptor: encryptor,
		metrics:   metrics.NewRecorder(registry),
		registry:  registry,
	}
}

// Metrics exposes the recorder so the engine components share counters with
// the server.
func (s *Server) Metrics() *metrics.Recorder {
	return s.metrics
}

// poller builds the status poller from the configured retry budget and delay.
func (s *Server) poller() *process.Poller {
	opts := []process.PollerOption{process.WithMetrics(s.metrics)}
	if n := s.config.Acquiring.PollRetries; n > 0 {
		opts = append(opts, process.WithRetries(n))
	}
	if d := s.config.Acquiring.PollDelay.Std(); d > 0 {
		opts = append(opts, process.WithDelay(d))
	}
	return process.NewPoller(process.StateFetcher(s.api), s.logger, opts...)
}

// orchestrator wires the 3-D Secure routing for card payments started through
// the API.
func (s *Server) orchestrator() *threedsflow.Orchestrator {
	idPath := s.config.Acquiring.InstallationIDPath
	if idPath == "" {
		idPath = "./data/installation_id"
	}
	device := threedsflow.NewDeviceDataCollector(idPath, "", threedsflow.ScreenInfo{})

	var certs *threedsflow.CertConfigCache
	if url := s.config.Acquiring.CertConfigURL; url != "" {
		certs = threedsflow.NewCertConfigCache(url, s.config.Acquiring.CertRefreshInterval.Std(), s.logger)
	}

	return threedsflow.NewOrchestrator(device, certs, s.logger)
}

func (s *Server) Start() error {
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", s.config.Server.HTTP.Host, s.config.Server.HTTP.Port)
	s.logger.Info("Starting HTTP server", zap.String("address", addr))

	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status":  "healthy",
			"service": s.config.Service.Name,
		})
	})

	s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})))

	// Initialize handlers
	signer := client.NewPasswordSigner(s.config.Acquiring.Password)
	notificationHandler := handlers.NewNotificationHandler(signer, s.metrics, s.logger)
	paymentHandler := handlers.NewPaymentHandler(
		s.api, s.encryptor, s.orchestrator(), s.poller(), s.metrics, s.logger)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")
	v1.POST("/payments", paymentHandler.StartPayment)
	v1.GET("/payments/:id/state", paymentHandler.GetPaymentState)

	// Bank callback route (outside API versioning)
	s.echo.POST("/notifications", notificationHandler.HandleNotification)
}
