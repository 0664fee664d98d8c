// Package web serves the coaching API and the dashboard WebSocket.
package web

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/websocket/v2"

	"github.com/formsense/go-formcoach/internal/log"
	"github.com/formsense/go-formcoach/pkg/hub"
	"github.com/formsense/go-formcoach/pkg/ingest"
	"github.com/formsense/go-formcoach/pkg/session"
	"github.com/formsense/go-formcoach/pkg/speech"
)

// Server is the HTTP and WebSocket surface of the coach.
type Server struct {
	app  *fiber.App
	addr string

	manager  *session.Manager
	dashHub  *hub.Hub
	ingest   *ingest.Hub
	dispatch *speech.Dispatcher
}

// NewServer wires the API around the session manager. ingestHub and dispatch
// may be nil when those subsystems are disabled.
func NewServer(addr string, manager *session.Manager, dashHub *hub.Hub, ingestHub *ingest.Hub, dispatch *speech.Dispatcher) *Server {
	s := &Server{
		addr:     addr,
		manager:  manager,
		dashHub:  dashHub,
		ingest:   ingestHub,
		dispatch: dispatch,
	}

	app := fiber.New(fiber.Config{
		AppName:               "formcoach",
		DisableStartupMessage: true,
	})

	// CORS for local dashboard development.
	app.Use(cors.New())

	app.Get("/healthz", s.handleHealth)

	api := app.Group("/api")
	api.Get("/status", s.handleStatus)
	api.Get("/stats", s.handleStats)
	api.Post("/session", s.handleStartSession)
	api.Post("/session/stop", s.handleStopSession)
	api.Post("/session/reset", s.handleResetSession)
	api.Post("/session/mode", s.handleSetMode)

	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws/status", websocket.New(s.handleStatusWS))

	if ingestHub != nil {
		ingestHub.RegisterRoutes(app)
	}

	s.app = app
	return s
}

// Start runs the dashboard hub and blocks serving HTTP.
func (s *Server) Start() error {
	go s.dashHub.Run()
	log.Info("web: listening", "addr", s.addr)
	return s.app.Listen(s.addr)
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App exposes the fiber app for tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// handleStatusWS attaches a dashboard client to the broadcast hub.
func (s *Server) handleStatusWS(c *websocket.Conn) {
	// Seed the client with the current snapshot before live updates.
	if active := s.manager.Active(); active != nil {
		c.WriteJSON(active.Status())
	}
	hub.NewClient(s.dashHub, c).Run()
}
