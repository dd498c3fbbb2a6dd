// Package server provides the HTTP transport for the kosync protocol. It
// translates wire requests into kosync.Service calls and service errors into
// the protocol's fixed status and error codes.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/teranos/kosyncd/config"
	"github.com/teranos/kosyncd/kosync"
)

// SyncServer serves the four kosync endpoints over JSON/HTTP
type SyncServer struct {
	svc                 *kosync.Service
	mux                 *http.ServeMux
	httpServer          *http.Server
	registrationLimiter *ipLimiter
	logger              *zap.SugaredLogger
}

// New creates a sync server wired to the given service
func New(svc *kosync.Service, cfg *config.Config, logger *zap.SugaredLogger) *SyncServer {
	s := &SyncServer{
		svc:                 svc,
		mux:                 http.NewServeMux(),
		registrationLimiter: newIPLimiter(cfg.Registration.PerMinute),
		logger:              logger,
	}

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      s.mux,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
	}

	return s
}

// setupRoutes registers the kosync endpoints. Paths and methods are part of
// the client compatibility contract.
func (s *SyncServer) setupRoutes() {
	s.mux.HandleFunc("POST /users/create", s.withAccessLog(s.handleCreateUser))
	s.mux.HandleFunc("GET /users/auth", s.withAccessLog(s.requireAuth(s.handleAuth)))
	s.mux.HandleFunc("PUT /syncs/progress", s.withAccessLog(s.requireAuth(s.handlePush)))
	s.mux.HandleFunc("GET /syncs/progress/{document}", s.withAccessLog(s.requireAuth(s.handlePull)))
}

// Handler exposes the route table, mainly for httptest
func (s *SyncServer) Handler() http.Handler {
	return s.mux
}

// Start runs the HTTP listener until Shutdown is called or the listener
// fails. A closed-by-shutdown listener is not an error.
func (s *SyncServer) Start() error {
	s.logger.Infow("Starting kosync server", "addr", s.httpServer.Addr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener
func (s *SyncServer) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down kosync server")
	return s.httpServer.Shutdown(ctx)
}
