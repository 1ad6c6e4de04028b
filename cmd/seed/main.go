// Package main provides a CLI tool for seeding the database with initial data.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"transita/internal/core/id"
	"transita/internal/infrastructure/storage/postgres"
	"transita/pkg/logger"
)

func main() {
	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(dbURL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	adminID, err := seedAdminUser(ctx, pool, log)
	if err != nil {
		log.Fatalw("failed to seed admin user", "error", err)
	}

	if os.Getenv("SEED_DEMO_DATA") == "true" {
		if err := seedDemoStores(ctx, pool, log); err != nil {
			log.Fatalw("failed to seed demo stores", "error", err)
		}
		if err := seedImportFolder(ctx, pool, log, adminID); err != nil {
			log.Fatalw("failed to seed import folder", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}

func seedAdminUser(ctx context.Context, pool *postgres.Pool, log *logger.Logger) (id.ID, error) {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	if adminUsername == "" {
		adminUsername = "admin"
	}

	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPassword == "" {
		adminPassword = "Admin123!"
	}

	var existingID id.ID
	err := pool.Pool.QueryRow(ctx,
		`SELECT id FROM users WHERE username = $1`,
		adminUsername,
	).Scan(&existingID)
	if err == nil {
		log.Infow("admin user already exists", "username", adminUsername, "user_id", existingID)
		return existingID, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return id.Nil(), fmt.Errorf("check admin exists: %w", err)
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return id.Nil(), fmt.Errorf("hash password: %w", err)
	}

	userID := id.New()
	now := time.Now().UTC()

	_, err = pool.Pool.Exec(ctx, `
		INSERT INTO users (
			id, username, matricule, password_hash, first_name, last_name,
			role, is_active, created_at, updated_at
		)
		VALUES ($1, $2, 'ADM-0001', $3, 'System', 'Admin', 'admin', true, $4, $4)
	`, userID, adminUsername, string(passwordHash), now)
	if err != nil {
		return id.Nil(), fmt.Errorf("insert admin user: %w", err)
	}

	log.Infow("admin user created",
		"username", adminUsername,
		"user_id", userID,
	)

	return userID, nil
}

func seedDemoStores(ctx context.Context, pool *postgres.Pool, log *logger.Logger) error {
	log.Info("seeding demo stores...")

	stores := []struct {
		name        string
		inditexCode string
		futuraCode  string
	}{
		{"Casablanca Maarif", "CM1001", "FT2001"},
		{"Rabat Agdal", "RA1002", "FT2002"},
		{"Marrakech Gueliz", "MG1003", "FT2003"},
		{"Tanger City Mall", "TC1004", "FT2004"},
	}

	now := time.Now().UTC()
	for _, s := range stores {
		_, err := pool.Pool.Exec(ctx, `
			INSERT INTO stores (id, name, inditex_code, futura_code, status, created_at, updated_at)
			VALUES ($1, $2, $3, $4, 'active', $5, $5)
			ON CONFLICT (inditex_code) DO NOTHING
		`, id.New(), s.name, s.inditexCode, s.futuraCode, now)
		if err != nil {
			return fmt.Errorf("insert store %s: %w", s.name, err)
		}
	}

	log.Infow("demo stores seeded", "count", len(stores))
	return nil
}

func seedImportFolder(ctx context.Context, pool *postgres.Pool, log *logger.Logger, adminID id.ID) error {
	var count int
	if err := pool.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM import_folders`).Scan(&count); err != nil {
		return fmt.Errorf("check import folder: %w", err)
	}
	if count > 0 {
		log.Info("import folder already configured")
		return nil
	}

	_, err := pool.Pool.Exec(ctx, `
		INSERT INTO import_folders (id, path, updated_by, updated_at)
		VALUES ($1, $2, $3, $4)
	`, id.New(), "/var/lib/transita/imports", adminID, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("insert import folder: %w", err)
	}

	log.Info("import folder configured")
	return nil
}
