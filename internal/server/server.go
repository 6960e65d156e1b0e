package server

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/chew-z/crop-identifier/internal/config"
	"github.com/chew-z/crop-identifier/internal/identify"
	"github.com/chew-z/crop-identifier/internal/models"
	"github.com/gin-gonic/gin"
)

// Version is reported by /api/version and the CLI
const Version = "0.1.0"

//go:embed templates/*.html
var templatesFS embed.FS

// Server represents the HTTP server
type Server struct {
	config     *config.Config
	router     *gin.Engine
	server     *http.Server
	identifier *identify.Service
	catalog    *models.Catalog
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, catalog *models.Catalog, host string, port int) *Server {
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	if cfg.Debug {
		// Log to file in $TMPDIR
		logPath := filepath.Join(os.TempDir(), "crop-identifier.log")
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Printf("Warning: Could not create log file %s: %v", logPath, err)
		} else {
			gin.DefaultWriter = io.MultiWriter(logFile, os.Stdout)
			gin.DefaultErrorWriter = io.MultiWriter(logFile, os.Stderr)
			log.Printf("Logging to %s", logPath)
		}
	} else {
		gin.DisableConsoleColor()
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(corsMiddleware())

	if cfg.Debug {
		router.Use(gin.Logger())
	}

	router.MaxMultipartMemory = cfg.MaxUploadBytes()
	router.SetHTMLTemplate(template.Must(template.ParseFS(templatesFS, "templates/*.html")))

	srv := &http.Server{
		Addr:              getAddr(host, port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	server := &Server{
		config:     cfg,
		router:     router,
		server:     srv,
		identifier: identify.NewService(cfg, catalog),
		catalog:    catalog,
	}

	server.setupRoutes()

	return server
}

// Start starts the HTTP server
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.server.Addr
}

// CreateShutdownContext creates a context for graceful shutdown
func CreateShutdownContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

// setupRoutes sets up all the routes for the server
func (s *Server) setupRoutes() {
	// Upload page
	s.router.GET("/", s.handleIndex)
	s.router.POST("/", s.handleIndexSubmit)

	// JSON API
	s.router.POST("/api/identify", s.handleIdentify)
	s.router.GET("/api/models", s.handleModels)
	s.router.GET("/api/version", s.handleVersion)

	s.router.GET("/healthz", s.handleHealth)
}

// getAddr returns the address string from host and port
func getAddr(host string, port int) string {
	return fmt.Sprintf("%s:%d", host, port)
}
