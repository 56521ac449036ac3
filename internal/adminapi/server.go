// Package adminapi implements an HTTP control/observability plane over a
// running task store, grounded on the teacher's internal/api package.
package adminapi

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cakehq/cake/internal/adminapi/handlers"
	apiMiddleware "github.com/cakehq/cake/internal/adminapi/middleware"
	"github.com/cakehq/cake/internal/adminapi/websocket"
	"github.com/cakehq/cake/internal/config"
	"github.com/cakehq/cake/internal/store"
)

// Server is the admin API's HTTP surface over a single Store.
type Server struct {
	router       *chi.Mux
	store        *store.Store
	config       *config.Config
	taskHandler  *handlers.TaskHandler
	storeHandler *handlers.StoreHandler
	wsHub        *websocket.Hub
	wsHandler    *websocket.Handler
}

// NewServer creates a new admin API server over s.
func NewServer(cfg *config.Config, s *store.Store) *Server {
	wsHub := websocket.NewHub()

	srv := &Server{
		router:       chi.NewRouter(),
		store:        s,
		config:       cfg,
		taskHandler:  handlers.NewTaskHandler(s, wsHub),
		storeHandler: handlers.NewStoreHandler(s, wsHub),
		wsHub:        wsHub,
		wsHandler:    websocket.NewHandler(wsHub),
	}

	srv.setupMiddleware()
	srv.setupRoutes()

	return srv
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(apiMiddleware.RequestLogger())
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Heartbeat("/health"))
}

func (s *Server) setupRoutes() {
	authCfg := &apiMiddleware.AuthConfig{Enabled: s.config.Auth.Enabled, JWTSecret: s.config.Auth.JWTSecret}

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Use(apiMiddleware.Auth(authCfg))
		r.Use(apiMiddleware.ClientRateLimit(1000))

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", s.taskHandler.List)
			r.Post("/", s.taskHandler.Add)
			r.Get("/{taskID}", s.taskHandler.Get)
			r.Delete("/{taskID}", s.taskHandler.Delete)
			r.Patch("/{taskID}", s.taskHandler.Update)
		})

		r.Get("/status", s.storeHandler.Status)
		r.Get("/runtime", s.storeHandler.Runtime)
		r.Get("/state", s.storeHandler.GetState)
		r.Post("/state", s.storeHandler.SetState)
		r.Post("/reset", s.storeHandler.Reset)
		r.Post("/cleanup", s.storeHandler.Cleanup)
	})

	s.router.Get("/ws", s.wsHandler.ServeWS)
	s.router.Get("/admin/health", s.storeHandler.HealthCheck)

	if s.config.Metrics.Enabled {
		s.router.Handle(s.config.Metrics.Path, promhttp.Handler())
	}
}

// Start starts the WebSocket hub.
func (s *Server) Start(ctx context.Context) {
	go s.wsHub.Run(ctx)
}

// Stop stops the WebSocket hub.
func (s *Server) Stop() {
	s.wsHub.Stop()
}

// Router returns the chi router, mainly for tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
