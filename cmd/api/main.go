package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/reminderly/reminders-api/internal/config"
	apihttp "github.com/reminderly/reminders-api/internal/http"
	"github.com/reminderly/reminders-api/internal/mail"
	"github.com/reminderly/reminders-api/internal/middleware"
	"github.com/reminderly/reminders-api/internal/repository"
	"github.com/reminderly/reminders-api/internal/service"
)

func main() {
	// Initial logger at info level; reconfigured after config load
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	if err := run(context.Background()); err != nil {
		logger.Error("application failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.ParseLogLevel(),
	}))
	slog.SetDefault(logger)

	logger.Info("config loaded",
		"env", cfg.AppEnv,
		"port", cfg.ServerPort,
		"auth_dev_mode", cfg.AuthDevMode,
		"log_level", cfg.LogLevel,
	)

	// Database connection
	db, err := repository.NewDB(ctx, cfg.Mongo.URI, cfg.Mongo.Database)
	if err != nil {
		return err
	}
	defer db.Client().Disconnect(context.Background())

	if err := repository.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	logger.Info("database connected", "database", cfg.Mongo.Database)

	// Repositories
	taskRepo := repository.NewMongoTask(db)
	listRepo := repository.NewMongoList(db)
	otpRepo := repository.NewMongoOTP(db)
	userRepo := repository.NewMongoUser(db)

	// Mailer
	var mailer mail.Mailer
	if cfg.SMTP.Enabled() {
		mailer = mail.NewSMTP(mail.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		logger.Info("smtp mailer initialized", "host", cfg.SMTP.Host)
	} else {
		mailer = mail.NewLog(logger)
		logger.Warn("smtp not configured, verification codes will be logged")
	}

	// Services
	taskSvc := service.NewTaskService(taskRepo)
	listSvc := service.NewListService(listRepo)
	otpSvc := service.NewOTPService(otpRepo, mailer, logger)
	authSvc := service.NewAuthService(userRepo, otpSvc, mailer, logger, []byte(cfg.JWTSecret))

	// Auth middleware
	auth, err := middleware.NewAuth(middleware.AuthConfig{
		DevMode: cfg.AuthDevMode,
		Secret:  []byte(cfg.JWTSecret),
	})
	if err != nil {
		return fmt.Errorf("failed to create auth middleware: %w", err)
	}

	// HTTP Server
	srv := apihttp.NewServer(cfg.ServerPort, logger, taskSvc, listSvc, authSvc, auth)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	logger.Info("server starting", "port", cfg.ServerPort)

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	logger.Info("server stopped gracefully")
	return nil
}
