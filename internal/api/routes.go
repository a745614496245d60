// Package api exposes resolution over HTTP.
package api

import (
	"errors"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/ahrav/go-vignette/internal/application"
	"github.com/ahrav/go-vignette/internal/domain"
	"github.com/ahrav/go-vignette/internal/polarity"
	"github.com/ahrav/go-vignette/internal/ports"
)

// Config defines server dependencies.
type Config struct {
	Resolver       *application.Resolver
	Logger         logrus.FieldLogger
	AllowedOrigins []string

	// Gatherer backs GET /metrics. The route is omitted when nil.
	Gatherer prometheus.Gatherer
}

// Server wires HTTP handlers to a Resolver.
type Server struct {
	resolver       *application.Resolver
	logger         logrus.FieldLogger
	allowedOrigins []string
	gatherer       prometheus.Gatherer
}

// NewServer constructs the API server.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Resolver == nil {
		return nil, errors.New("resolver required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Server{
		resolver:       cfg.Resolver,
		logger:         logger,
		allowedOrigins: cfg.AllowedOrigins,
		gatherer:       cfg.Gatherer,
	}, nil
}

// Router configures gin routes.
func (s *Server) Router() (*gin.Engine, error) {
	r := gin.Default()

	corsCfg := cors.DefaultConfig()
	if len(s.allowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = s.allowedOrigins
	}
	corsCfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	r.Use(cors.New(corsCfg))

	r.GET("/api/healthz", s.handleHealth)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}

	api := r.Group("/api")
	{
		api.POST("/resolve", s.handleResolve)
		api.POST("/resolve/batch", s.handleResolveBatch)
		api.POST("/lint", s.handleLint)
	}

	return r, nil
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleResolve(c *gin.Context) {
	var body ResolveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	req, err := body.ToApplication()
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}

	res, err := s.resolver.Resolve(c.Request.Context(), req)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (s *Server) handleResolveBatch(c *gin.Context) {
	var body BatchResolveRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	reqs, err := toApplicationBatch(body.Items)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}

	results, err := s.resolver.ResolveBatch(c.Request.Context(), reqs)
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}
	c.JSON(http.StatusOK, BatchResolveResponse{Items: results, Total: len(results)})
}

func (s *Server) handleLint(c *gin.Context) {
	var body LintRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		s.renderError(c, http.StatusBadRequest, err)
		return
	}

	content, err := application.DecodeDefinitionContent([]byte(body.Definition))
	if err != nil {
		s.renderError(c, statusFor(err), err)
		return
	}

	warnings := polarity.LintDefinition(content)
	if warnings == nil {
		warnings = []domain.Warning{}
	}
	c.JSON(http.StatusOK, LintResponse{Warnings: warnings, Total: len(warnings)})
}

// statusFor maps resolution errors onto HTTP status codes.
func statusFor(err error) int {
	var decodeErr *ports.DecodeError
	switch {
	case errors.As(err, &decodeErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDefinition), errors.Is(err, domain.ErrUnsupportedDefinition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) renderError(c *gin.Context, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
