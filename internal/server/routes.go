package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chen12345jin/planhub/internal/auth"
	"github.com/chen12345jin/planhub/internal/constants"
	"github.com/chen12345jin/planhub/internal/middleware"
	"github.com/chen12345jin/planhub/internal/utils"
)

// SetupRoutes builds the router hierarchy.
//
// The global middleware chain runs optional authentication before audit
// capture so that audit entries carry the caller identity; RequireAuth on
// the protected groups then enforces that the optional pass actually
// succeeded. Route groups:
//   - unprotected: health, version, login
//   - authenticated: collection CRUD, audit log reads, settings, company info
//   - admin only: audit log deletion, cleanup, backups, stats
func (s *Server) SetupRoutes() {
	r := chi.NewRouter()

	jwtProvider := auth.NewJWTAuthProvider(s.jwtService)

	r.Use(auth.RequestID())
	r.Use(middleware.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(&s.Config.CORS))
	if s.Config.Logging.RequestLog {
		r.Use(middleware.RequestLogging())
	}
	r.Use(auth.OptionalAuth(jwtProvider))
	r.Use(middleware.AuditCapture(s.Repositories.Audit, s.Repositories.Settings, s.Config.Audit.MaxBodyBytes))

	r.Get(constants.HealthPath, s.handleHealth)
	r.Get(constants.VersionPath, s.handleVersion)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", s.Handlers.AuthHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(auth.RequireAuth(jwtProvider))
				r.Post("/logout", s.Handlers.AuthHandler.Logout)
				r.Get("/verify", s.Handlers.AuthHandler.Verify)
			})
		})

		// Everything below requires a valid access token.
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(jwtProvider))

			r.Route("/{resource}", func(r chi.Router) {
				r.Get("/", s.Handlers.GenericHandler.List)
				r.Post("/", s.Handlers.GenericHandler.Create)
				r.Get("/{id}", s.Handlers.GenericHandler.Get)
				r.Put("/{id}", s.Handlers.GenericHandler.Update)
				r.Delete("/{id}", s.Handlers.GenericHandler.Delete)
			})

			r.Route("/logs", func(r chi.Router) {
				r.Get("/", s.Handlers.LogHandler.List)

				r.Group(func(r chi.Router) {
					r.Use(auth.RequireAdmin())
					r.Delete("/", s.Handlers.LogHandler.Clear)
					r.Delete("/{id}", s.Handlers.LogHandler.Delete)
				})
			})

			r.Route("/system-settings", func(r chi.Router) {
				r.Get("/", s.Handlers.SettingsHandler.List)
				r.Post("/", s.Handlers.SettingsHandler.Create)
				r.Put("/{id}", s.Handlers.SettingsHandler.Update)
				r.Delete("/{id}", s.Handlers.SettingsHandler.Delete)
			})

			r.Route("/company-info", func(r chi.Router) {
				r.Get("/", s.Handlers.CompanyHandler.Get)
				r.Put("/", s.Handlers.CompanyHandler.Update)
			})

			r.Route("/admin", func(r chi.Router) {
				r.Use(auth.RequireAdmin())

				r.Post("/cleanup-data", s.Handlers.AdminHandler.CleanupData)
				r.Post("/backup", s.Handlers.AdminHandler.CreateBackup)
				r.Get("/backups", s.Handlers.AdminHandler.ListBackups)
				r.Post("/backups/restore", s.Handlers.AdminHandler.RestoreBackup)
				r.Delete("/backups/{name}", s.Handlers.AdminHandler.DeleteBackup)
				r.Get("/stats", s.Handlers.AdminHandler.Stats)
			})
		})
	})

	s.router = r
}

// handleHealth reports liveness and a storage probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if _, err := s.Store.Collections(); err != nil {
		utils.Error(w, http.StatusServiceUnavailable, constants.CodeServiceUnavailable,
			"Storage is not reachable", nil)
		return
	}

	utils.JSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": s.Config.App.Version,
	})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	utils.JSON(w, http.StatusOK, map[string]string{
		"name":        s.Config.App.Name,
		"version":     s.Config.App.Version,
		"environment": s.Config.App.Environment,
	})
}
