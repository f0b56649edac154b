// Command seed imports users into the directory from a JSON file.
//
//	seed -file users.json
//
// The file holds an array of {email, whatsappNumber, dob, password} objects,
// dob formatted as YYYY-MM-DD. Invalid records are reported and skipped.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/pinkpulsehealth/broadcast/internal/config"
	"github.com/pinkpulsehealth/broadcast/internal/database"
	"github.com/pinkpulsehealth/broadcast/internal/logger"
	"github.com/pinkpulsehealth/broadcast/internal/user"
)

func main() {
	file := flag.String("file", "", "path to a JSON array of users")
	flag.Parse()

	if err := run(*file); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(path string) error {
	if path == "" {
		return fmt.Errorf("-file is required")
	}
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

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	records, err := user.DecodeImport(f)
	if err != nil {
		return err
	}

	ctx := context.Background()
	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer db.Close()

	repo := user.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		return err
	}

	imported := importRecords(ctx, user.NewService(repo), records, log)
	log.Info("import finished", zap.Int("records", len(records)), zap.Int("imported", imported))
	return nil
}

func importRecords(ctx context.Context, svc *user.Service, records []user.ImportRecord, log *zap.Logger) int {
	imported := 0
	for i, rec := range records {
		u, err := rec.ToUser()
		if err != nil {
			log.Warn("skipping invalid record", zap.Int("index", i), zap.Error(err))
			continue
		}
		if _, err := svc.Register(ctx, u); err != nil {
			log.Error("failed to store record", zap.Int("index", i), zap.String("email", u.Email), zap.Error(err))
			continue
		}
		imported++
	}
	return imported
}
