package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/gommon/log"

	"attendance/internal/auth"
	"attendance/internal/config"
	"attendance/internal/database"
	"attendance/internal/repository"
	"attendance/internal/server"
	"attendance/internal/templates"
)

var levels = map[string]log.Lvl{
	"debug": log.DEBUG,
	"info":  log.INFO,
	"warn":  log.WARN,
	"error": log.ERROR,
	"off":   log.OFF,
}

func main() {
	logger := log.New("attendance")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal(err)
	}
	if lvl, ok := levels[cfg.LogLevel]; ok {
		logger.SetLevel(lvl)
	} else {
		logger.Warnf("unknown log level %q, using info", cfg.LogLevel)
		logger.SetLevel(log.INFO)
	}
	if cfg.Session.Generated {
		logger.Warn("SESSION_SECRET is not set; using a random key, sessions end with the process")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		logger.Fatal(err)
	}
	defer db.Close()

	tmpl, err := templates.Parse()
	if err != nil {
		logger.Fatal(err)
	}

	users := repository.NewUserRepository(db)
	router := server.NewRouter(server.Deps{
		Auth:       auth.NewService(users, logger),
		Sessions:   auth.NewSessions(cfg.Session),
		Users:      users,
		Attendance: repository.NewAttendanceRepository(db),
		DB:         db,
		Templates:  tmpl,
		Logger:     logger,
	})

	if err := server.New(cfg.HTTP, router, logger).Run(ctx); err != nil {
		logger.Errorf("server: %v", err)
		db.Close()
		os.Exit(1)
	}
	logger.Info("stopped")
}
