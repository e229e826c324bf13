// Package http provides the HTTP API for decisionlog.
package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/louisbranch/decisionlog/internal/auth"
	decisiondomain "github.com/louisbranch/decisionlog/internal/decision/domain"
	msgdomain "github.com/louisbranch/decisionlog/internal/messaging/domain"
	teamdomain "github.com/louisbranch/decisionlog/internal/team/domain"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Services bundles the domain services the API exposes.
type Services struct {
	Auth      *auth.Service
	Teams     *teamdomain.Service
	Messaging *msgdomain.Service
	Decisions *decisiondomain.Service
	Analyzer  *decisiondomain.Classifier
}

// Server provides HTTP endpoints for decisionlog.
type Server struct {
	echo     *echo.Echo
	logger   *zap.Logger
	config   Config
	services Services
}

// NewServer creates a new HTTP server over the given services.
func NewServer(services Services, logger *zap.Logger, cfg Config) (*Server, error) {
	if services.Auth == nil || services.Teams == nil || services.Messaging == nil || services.Decisions == nil {
		return nil, fmt.Errorf("all services are required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if cfg.Host == "" {
		cfg.Host = "localhost"
	}
	if cfg.Port == 0 {
		cfg.Port = 8080
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})
	e.Use(NewHTTPMetrics().Middleware())

	s := &Server{
		echo:     e,
		logger:   logger,
		config:   cfg,
		services: services,
	}
	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	v1 := s.echo.Group("/api/v1")

	v1.POST("/auth/register", s.handleRegister)
	v1.POST("/auth/login", s.handleLogin)
	v1.POST("/auth/forgot-password", s.handleForgotPassword)
	v1.POST("/auth/reset-password", s.handleResetPassword)

	authed := v1.Group("", s.requireAuth)
	authed.GET("/auth/me", s.handleMe)

	authed.POST("/teams", s.handleCreateTeam)
	authed.GET("/teams", s.handleListMyTeams)
	authed.POST("/teams/join", s.handleJoinTeam)
	authed.GET("/teams/:teamID", s.handleGetTeam)
	authed.POST("/teams/:teamID/invite-code", s.handleRegenerateInviteCode)
	authed.GET("/teams/:teamID/members", s.handleListMembers)
	authed.POST("/teams/:teamID/members", s.handleAddMember)
	authed.GET("/teams/:teamID/channels", s.handleListChannels)
	authed.POST("/teams/:teamID/channels", s.handleCreateChannel)
	authed.GET("/teams/:teamID/decisions", s.handleListTeamDecisions)
	authed.GET("/teams/:teamID/decisions/open", s.handleListTeamOpenDecisions)

	authed.POST("/channels/:channelID/messages", s.handleCreateMessage)
	authed.GET("/channels/:channelID/messages", s.handleListMessages)
	authed.GET("/channels/:channelID/decisions", s.handleListChannelDecisions)

	authed.POST("/analyze", s.handleAnalyze)

	authed.POST("/messages/:messageID/decision", s.handleCreateDecisionFromMessage)
	authed.DELETE("/messages/:messageID/decision", s.handleUnmarkMessage)

	authed.POST("/decisions", s.handleCreateDecision)
	authed.GET("/decisions/:decisionID", s.handleGetDecision)
	authed.GET("/decisions/:decisionID/history", s.handleDecisionHistory)
	authed.PATCH("/decisions/:decisionID/status", s.handleSetDecisionStatus)
	authed.DELETE("/decisions/:decisionID", s.handleDeleteDecision)
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// Echo exposes the underlying router, for tests and extra routes.
func (s *Server) Echo() *echo.Echo {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
