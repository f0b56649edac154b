package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pinkpulsehealth/broadcast/internal/broadcast"
	"github.com/pinkpulsehealth/broadcast/internal/clients/mailer"
	"github.com/pinkpulsehealth/broadcast/internal/clients/twilio"
	"github.com/pinkpulsehealth/broadcast/internal/config"
	"github.com/pinkpulsehealth/broadcast/internal/database"
	"github.com/pinkpulsehealth/broadcast/internal/logger"
	"github.com/pinkpulsehealth/broadcast/internal/router"
	"github.com/pinkpulsehealth/broadcast/internal/user"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "broadcast server: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.AppEnv)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, db, err := openDirectory(ctx, cfg, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}
	userService := user.NewService(repo)

	smsClient := twilio.NewClient(cfg.Twilio.AccountSID, cfg.Twilio.AuthToken, cfg.Twilio.PhoneNumber, log)
	mailClient := mailer.NewClient(mailer.Config{
		Host:               cfg.SMTP.Host,
		Port:               cfg.SMTP.Port,
		Username:           cfg.SMTP.Username,
		Password:           cfg.SMTP.Password,
		InsecureSkipVerify: cfg.SMTP.InsecureSkipVerify,
		Timeout:            30 * time.Second,
	}, log)

	broadcastService := broadcast.NewService(userService, smsClient, mailClient, cfg.BroadcastConcurrency, log)
	broadcastHandler := broadcast.NewHandler(broadcastService, log)

	app := router.New(router.Config{
		AllowedOrigin:     cfg.AllowedOrigin,
		OperatorJWTSecret: cfg.OperatorJWTSecret,
	}, broadcastHandler, log)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("shutdown failed", zap.Error(err))
		}
	}()

	log.Info("server starting",
		zap.String("addr", cfg.Addr()),
		zap.Int("broadcast_concurrency", cfg.BroadcastConcurrency),
		zap.Bool("operator_auth", cfg.OperatorJWTSecret != ""),
	)
	if err := app.Listen(cfg.Addr()); err != nil {
		return fmt.Errorf("listen: %w", err)
	}

	log.Info("server stopped")
	return nil
}

// openDirectory falls back to an empty in-memory directory when no database
// is configured, which keeps local runs possible without Postgres.
func openDirectory(ctx context.Context, cfg config.Config, log *zap.Logger) (user.Repository, *sql.DB, error) {
	if cfg.DatabaseURL == "" {
		log.Warn("DATABASE_URL is not set, using in-memory user directory")
		return user.NewInMemoryRepository(nil), nil, nil
	}

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}

	repo := user.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	log.Info("connected to user directory")
	return repo, db, nil
}
