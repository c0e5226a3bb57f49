// Package server wires the HTTP server together: storage, repositories,
// services, handlers and routes, plus server lifecycle management with
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/chen12345jin/planhub/internal/auth"
	"github.com/chen12345jin/planhub/internal/config"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/handlers"
	"github.com/chen12345jin/planhub/internal/models"
	"github.com/chen12345jin/planhub/internal/repository"
	"github.com/chen12345jin/planhub/internal/service"
	"github.com/chen12345jin/planhub/internal/storage"
)

// Handlers contains all HTTP handlers for the application.
type Handlers struct {
	AuthHandler     *handlers.AuthHandler
	GenericHandler  *handlers.GenericHandler
	LogHandler      *handlers.LogHandler
	SettingsHandler *handlers.SettingsHandler
	CompanyHandler  *handlers.CompanyHandler
	AdminHandler    *handlers.AdminHandler
}

// Repositories contains the data access layer over the file store.
type Repositories struct {
	Records  *repository.RecordRepository
	Settings *repository.SettingsRepository
	Audit    *repository.AuditRepository
}

// Server is the API server. It owns every component from the file store up
// to the HTTP listener and manages their lifecycle.
type Server struct {
	Config *config.AppConfig

	Store        *storage.FileStore
	Repositories *Repositories
	Handlers     *Handlers

	jwtService  *auth.JWTService
	passwordCfg *auth.PasswordConfig
	backups     *service.BackupService

	router     chi.Router
	httpServer *http.Server
}

// NewServer creates a fully initialised server. Initialisation order follows
// the dependency chain: store, repositories, auth providers, services,
// handlers, routes. It also seeds a default administrator account on a fresh
// data directory and arms the auto-backup timer from the settings store.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	s := &Server{Config: cfg}

	if err := s.setupStorage(); err != nil {
		return nil, fmt.Errorf("failed to set up storage: %w", err)
	}

	s.setupAuthProviders()
	s.setupServices()
	s.setupHandlers()

	if err := s.seedDefaults(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to seed defaults: %w", err)
	}

	if err := s.backups.Rearm(context.Background()); err != nil {
		log.Warn().Err(err).Msg("Failed to arm auto-backup timer")
	}

	s.SetupRoutes()

	s.httpServer = &http.Server{
		Addr:         cfg.Server.ServerAddress(),
		Handler:      s.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  constants.DefaultIdleTimeout,
	}

	return s, nil
}

// setupStorage opens the file store and builds the repositories on top.
func (s *Server) setupStorage() error {
	store, err := storage.NewFileStore(s.Config.Storage.DataDir)
	if err != nil {
		return err
	}

	s.Store = store
	s.Repositories = &Repositories{
		Records:  repository.NewRecordRepository(store),
		Settings: repository.NewSettingsRepository(store),
		Audit:    repository.NewAuditRepository(store),
	}

	return nil
}

func (s *Server) setupAuthProviders() {
	s.jwtService = auth.NewJWTService(&s.Config.JWT)
	s.passwordCfg = auth.DefaultPasswordConfig()
}

func (s *Server) setupServices() {
	s.backups = service.NewBackupService(
		s.Store,
		s.Repositories.Records,
		s.Repositories.Settings,
		s.Repositories.Audit,
		s.Config.Storage.BackupDir,
		s.Config.Storage.BackupPrefix,
	)
}

func (s *Server) setupHandlers() {
	s.Handlers = &Handlers{
		AuthHandler: handlers.NewAuthHandler(
			s.Repositories.Records,
			s.Repositories.Audit,
			s.Repositories.Settings,
			s.jwtService,
			s.passwordCfg,
		),
		GenericHandler:  handlers.NewGenericHandler(s.Repositories.Records),
		LogHandler:      handlers.NewLogHandler(s.Repositories.Audit),
		SettingsHandler: handlers.NewSettingsHandler(s.Repositories.Settings, s.backups),
		CompanyHandler:  handlers.NewCompanyHandler(s.Store),
		AdminHandler: handlers.NewAdminHandler(
			s.backups,
			s.Repositories.Records,
			s.Repositories.Settings,
			s.Repositories.Audit,
		),
	}
}

// seedDefaults provisions a fresh data directory: an administrator account
// when the users collection is empty, and the audit toggle when absent.
// Existing data is never touched, so restarts are safe.
func (s *Server) seedDefaults(ctx context.Context) error {
	users, err := s.Repositories.Records.List(ctx, constants.CollectionUsers, nil)
	if err != nil {
		return err
	}

	if len(users) == 0 {
		hash, salt, err := auth.HashPassword(constants.DefaultAdminPassword, s.passwordCfg)
		if err != nil {
			return err
		}

		_, err = s.Repositories.Records.Create(ctx, constants.CollectionUsers, models.Record{
			"username":      constants.DefaultAdminUsername,
			"name":          "Administrator",
			"role":          constants.RoleAdmin,
			"password_hash": hash,
			"password_salt": salt,
		})
		if err != nil {
			return err
		}

		log.Info().
			Str("username", constants.DefaultAdminUsername).
			Msg("Seeded default administrator account")
	}

	setting, err := s.Repositories.Settings.Get(ctx, constants.SettingKeyAuditLog)
	if err != nil {
		return err
	}
	if setting == nil {
		if _, err := s.Repositories.Settings.Upsert(ctx, constants.SettingKeyAuditLog, true); err != nil {
			return err
		}
	}

	// A configured auto-backup interval seeds the runtime setting, which
	// stays authoritative once it exists.
	if s.Config.Backup.AutoIntervalMinutes > 0 {
		interval, err := s.Repositories.Settings.Get(ctx, constants.SettingKeyAutoBackup)
		if err != nil {
			return err
		}
		if interval == nil {
			if _, err := s.Repositories.Settings.Upsert(ctx, constants.SettingKeyAutoBackup, s.Config.Backup.AutoIntervalMinutes); err != nil {
				return err
			}
		}
	}

	return nil
}

// Router returns the configured HTTP handler, mainly for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start runs the HTTP server and blocks until a server error or a shutdown
// signal (SIGINT, SIGTERM), then shuts down gracefully within the configured
// timeout.
func (s *Server) Start() error {
	serverErrors := make(chan error, 1)

	go func() {
		log.Info().
			Str("address", s.Config.Server.ServerAddress()).
			Msg("Starting server")

		serverErrors <- s.httpServer.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		log.Info().
			Str("signal", sig.String()).
			Msg("Shutdown signal received")

		ctx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout())
		defer cancel()

		if err := s.Shutdown(ctx); err != nil {
			if closeErr := s.httpServer.Close(); closeErr != nil {
				log.Error().Err(closeErr).Msg("Failed to close server")
			}
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
	}

	return nil
}

// Shutdown stops the HTTP listener, waiting for in-flight requests, then
// stops the auto-backup scheduler.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}
	log.Info().Msg("Server stopped gracefully")

	s.backups.Stop()
	log.Info().Msg("Auto-backup scheduler stopped")

	return nil
}

func (s *Server) shutdownTimeout() time.Duration {
	if s.Config.Server.ShutdownTimeout > 0 {
		return s.Config.Server.ShutdownTimeout
	}
	return constants.DefaultShutdownTimeout
}
