// Package api provides the read-only HTTP API server for inspecting intents
// and the trace ledger.
package api

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/papercomputeco/reins/pkg/intent"
	"github.com/papercomputeco/reins/pkg/storage"
)

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8471")
	ListenAddr string

	// WorkspaceRoot is the mediated workspace being inspected.
	WorkspaceRoot string
}

// Server is the API server for inspecting the reins system.
type Server struct {
	config Config
	storer storage.Driver
	loader *intent.Loader
	logger *zap.Logger
	app    *fiber.App
}

// NewServer creates a new API server.
// The storer is injected to allow sharing with other components.
func NewServer(config Config, storer storage.Driver, logger *zap.Logger) *Server {
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	s := &Server{
		config: config,
		storer: storer,
		loader: intent.NewLoader(logger),
		logger: logger,
		app:    app,
	}

	app.Get("/ping", s.handlePing)
	app.Get("/intents", s.handleListIntents)
	app.Get("/intents/:id", s.handleGetIntent)
	app.Get("/trace", s.handleQueryTrace)
	app.Get("/trace/stats", s.handleTraceStats)

	return s
}

// Run starts the API server on the configured address.
func (s *Server) Run() error {
	s.logger.Info("starting API server",
		zap.String("listen", s.config.ListenAddr),
	)
	return s.app.Listen(s.config.ListenAddr)
}

// App exposes the fiber app for in-process testing.
func (s *Server) App() *fiber.App {
	return s.app
}

// Shutdown gracefully shuts down the API server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}
