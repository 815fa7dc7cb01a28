// Package server wires handlers, middleware and the HTTP server together.
package server

import (
	"context"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/labstack/gommon/log"

	"attendance/internal/auth"
	"attendance/internal/config"
	"attendance/internal/entity"
	"attendance/internal/handler"
	"attendance/internal/middleware"
)

// Deps are the collaborators of the router. Every field is required.
type Deps struct {
	Auth       handler.Authenticator
	Sessions   *auth.Sessions
	Users      handler.UserFinder
	Attendance interface {
		handler.StudentAttendance
		handler.TeacherAttendance
	}
	DB        handler.Pinger
	Templates *template.Template
	Logger    *log.Logger
}

func NewRouter(d Deps) http.Handler {
	login := handler.NewLoginHandler(d.Auth, d.Sessions, d.Templates, d.Logger)
	student := handler.NewStudentHandler(d.Users, d.Attendance, d.Sessions, d.Templates, d.Logger)
	teacher := handler.NewTeacherHandler(d.Users, d.Attendance, d.Sessions, d.Templates, d.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(d.Logger))
	r.Use(middleware.Recoverer(d.Logger))
	r.Use(middleware.Identify(d.Sessions))

	r.Get("/", handler.Home)
	r.Get("/login", login.LoginPage)
	r.Post("/login", login.Login)
	r.Get("/logout", login.Logout)
	r.Get("/healthz", handler.Health(d.DB, d.Logger))

	r.With(middleware.RequireRole(entity.RoleStudent)).Get("/student", student.Dashboard)
	r.With(middleware.RequireRole(entity.RoleTeacher)).Get("/teacher", teacher.Dashboard)

	return r
}

// Server is the HTTP listener with the configured timeouts.
type Server struct {
	srv    *http.Server
	cfg    config.HTTP
	logger *log.Logger
}

func New(cfg config.HTTP, h http.Handler, logger *log.Logger) *Server {
	return &Server{
		srv: &http.Server{
			Addr:         cfg.Addr,
			Handler:      h,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  cfg.IdleTimeout,
		},
		cfg:    cfg,
		logger: logger,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Infof("listening on %s", s.cfg.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	return s.srv.Shutdown(shutdownCtx)
}
