// Package server exposes the protection engine and agents over HTTP. It is
// a thin caller surface: transport identities map to roles here, and
// engine reports pass through to clients unmodified.
package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/pebblohq/pebblomcp/internal/agents"
	"github.com/pebblohq/pebblomcp/internal/engine"
)

// Server wires the HTTP routes to the crew and engine.
type Server struct {
	crew   *agents.Crew
	engine *engine.Engine
	echo   *echo.Echo
}

// New builds the server and registers all routes.
func New(crew *agents.Crew, eng *engine.Engine) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.RequestID())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			slog.Info("request",
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"latency", v.Latency,
				"request_id", v.RequestID,
			)
			return nil
		},
	}))

	s := &Server{crew: crew, engine: eng, echo: e}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.echo.GET("/", s.root)
	s.echo.GET("/health", s.health)

	api := s.echo.Group("/api")
	api.GET("/demo/nurse/:patient", s.demoNurse)
	api.GET("/demo/billing/:patient", s.demoBilling)
	api.POST("/nurse/query", s.nurseQuery)
	api.POST("/billing/query", s.billingQuery)
	api.POST("/agents/query", s.agentQuery)
	api.GET("/dashboard", s.dashboard)
	api.GET("/audit", s.auditLog)
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start serves until the listener fails or Shutdown is called.
func (s *Server) Start(addr string) error {
	slog.Info("http server starting", "addr", addr)
	return s.echo.Start(addr)
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
