// Package db opens the video metadata store: a file-backed SQLite database
// in development and Postgres (via pgx) in production, both through sqlx.
// Blobs never live here; videos and exercises only reference storage keys.
package db

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"
)

func Init(driver, connection string) (*sqlx.DB, error) {
	if driver == "sqlite" {
		// The dev database file lives under a data directory that may not
		// exist on a fresh checkout
		if err := os.MkdirAll(filepath.Dir(connection), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	database, err := sqlx.Connect(driver, connection)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	// Uploads hold a connection across the spool-and-insert sequence, so
	// leave headroom beyond the handler pool
	database.SetMaxOpenConns(25)
	database.SetMaxIdleConns(5)
	database.SetConnMaxLifetime(5 * time.Minute)

	slog.Info("metadata store connected", "driver", driver)

	return database, nil
}

func Close(database *sqlx.DB) error {
	if database != nil {
		return database.Close()
	}
	return nil
}
