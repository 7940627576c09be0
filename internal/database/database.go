package database

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"loyalty_club_backend/pkg/utils"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Supported driver names, as registered with database/sql.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// dialectMap maps database drivers to Goose dialect names
var dialectMap = map[string]string{
	DriverSQLite:   "sqlite3",
	DriverPostgres: "postgres",
}

// PostgresDSN builds a lib/pq connection string.
func PostgresDSN(host, port, user, password, dbname, sslmode string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)
}

// Open connects to the database and applies the embedded migrations.
func Open(driver, dsn string) (*sqlx.DB, error) {
	if _, ok := dialectMap[driver]; !ok {
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	// SQLite: create data directory if needed
	if driver == DriverSQLite {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	db, err := sqlx.Connect(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	if driver == DriverSQLite {
		// one writer at a time avoids SQLITE_BUSY between pooled connections
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := RunMigrations(db, driver); err != nil {
		_ = db.Close()
		return nil, err
	}

	utils.LogInfo("Database connected", map[string]interface{}{"driver": driver})
	return db, nil
}

// RunMigrations brings the schema up to date.
func RunMigrations(db *sqlx.DB, driver string) error {
	if err := goose.SetDialect(dialectMap[driver]); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}
	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(goose.NopLogger())

	if err := goose.Up(db.DB, "."); err != nil {
		return fmt.Errorf("could not apply migrations: %w", err)
	}
	return nil
}
