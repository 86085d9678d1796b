package main

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pressly/goose/v3"

	"github.com/dosewave/dosewave-api/internal/config"
)

// migrationsDir is the migrations directory relative to the project root.
const migrationsDir = "migrations"

// migrationTableName is the table goose uses to track applied migrations.
const migrationTableName = "schema_migrations"

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct{}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	slog.Info(fmt.Sprintf(format, v...))
}

// Fatalf does not call os.Exit; the error propagates back to main, which
// handles application exit consistently.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	slog.Error(fmt.Sprintf(format, v...))
}

// runMigrations executes the given goose command (up, down, status, version)
// against the configured database.
func runMigrations(cfg *config.Config, command string) error {
	slog.Info("executing migrations",
		"command", command,
		"database", maskDatabaseURL(cfg.Database.URL))

	goose.SetLogger(&slogGooseLogger{})
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}
	goose.SetTableName(migrationTableName)

	migrationsPath, err := findMigrationsPath()
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("failed to close database connection", "error", closeErr)
		}
	}()

	switch command {
	case "up":
		err = goose.Up(db, migrationsPath)
	case "down":
		err = goose.Down(db, migrationsPath)
	case "status":
		err = goose.Status(db, migrationsPath)
	case "version":
		err = goose.Version(db, migrationsPath)
	default:
		return fmt.Errorf("unknown migration command %q", command)
	}
	if err != nil {
		return fmt.Errorf("migration %s failed: %w", command, err)
	}

	slog.Info("migrations completed", "command", command)
	return nil
}

// findMigrationsPath locates the migrations directory, starting from the
// working directory and walking up to the project root (marked by go.mod).
func findMigrationsPath() (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}

	dir := cwd
	for i := 0; i < 10; i++ {
		candidate := filepath.Join(dir, migrationsDir)
		if info, statErr := os.Stat(candidate); statErr == nil && info.IsDir() {
			return candidate, nil
		}
		if _, statErr := os.Stat(filepath.Join(dir, "go.mod")); statErr == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("could not locate %s directory from %s", migrationsDir, cwd)
}

// maskDatabaseURL masks the password in a database URL for safe logging.
func maskDatabaseURL(dbURL string) string {
	parsedURL, err := url.Parse(dbURL)
	if err != nil {
		return "invalid-url"
	}

	if parsedURL.User != nil {
		parsedURL.User = url.UserPassword(parsedURL.User.Username(), "****")
		return parsedURL.String()
	}

	return dbURL
}
