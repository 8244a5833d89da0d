// Package server assembles the iam-proxy for one profile from its
// configuration.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SebbieMzingKe/iam-profile/internal/config"
	"github.com/SebbieMzingKe/iam-profile/internal/handlers"
	"github.com/SebbieMzingKe/iam-profile/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	sessionGCInterval = 10 * time.Minute
	shutdownTimeout   = 30 * time.Second
)

type Server struct {
	Router *gin.Engine

	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
	gc  *session.GarbageCollector
}

// New builds the session store, OAuth handler and router.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Server, error) {
	s := &Server{cfg: cfg, log: log}

	store, err := s.newStore()
	if err != nil {
		return nil, err
	}

	auth, err := handlers.NewAuthHandler(ctx, cfg, store, log)
	if err != nil {
		s.Close()
		return nil, err
	}

	router, err := handlers.NewRouter(cfg, auth, store, log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.Router = router
	return s, nil
}

func (s *Server) newStore() (session.Store, error) {
	if s.cfg.SessionStore != config.SessionStoreDatabase {
		return session.NewCookieStore(s.cfg.SessionCookieName(), s.cfg.CookieSecure), nil
	}

	db, err := session.Open(s.cfg.DatabaseURL, s.cfg.SessionDBFile)
	if err != nil {
		return nil, err
	}
	s.db = db

	store, err := session.NewDBStore(db, s.cfg.ProfileName, s.cfg.SessionCookieName(), s.cfg.CookieSecure, s.log)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.gc = session.NewGarbageCollector(store, sessionGCInterval, s.log)
	return store, nil
}

// Run serves until ctx is cancelled and then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	if s.gc != nil {
		go func() {
			if err := s.gc.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
				s.log.Error("session_gc_stopped_with_error", zap.Error(err))
			}
		}()
		s.log.Info("started_session_gc", zap.Duration("interval", sessionGCInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server_starting",
			zap.String("port", s.cfg.Port),
			zap.String("profile", s.cfg.ProfileName),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.log.Info("server_shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	s.log.Info("server_exited")
	return nil
}

// Close releases the session database, if any.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
