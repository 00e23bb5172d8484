package db

import (
	"database/sql"
	"fmt"
	"log"

	"gerai-be/internal/config"

	_ "github.com/lib/pq"
)

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}

// DSN exposes the assembled connection string for components that need
// their own connection, like the notification listener.
func DSN(cfg *config.Config) string {
	return buildDSN(cfg)
}

// NewDatabase opens the request-scoped connection pool.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(cfg, "postgres")
}

func newDatabaseWithDriver(cfg *config.Config, driver string) (*sql.DB, error) {
	db, err := sql.Open(driver, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// NewServiceRoleDB opens the elevated-credential pool used by the
// privileged lookup endpoints. Falls back to the regular DSN when no
// service-role DSN is configured (local development).
func NewServiceRoleDB(cfg *config.Config) (*sql.DB, error) {
	dsn := cfg.ServiceRoleDSN
	if dsn == "" {
		dsn = buildDSN(cfg)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	return db, nil
}

// InitDB is the fail-fast variant used by main.
func InitDB(cfg *config.Config) *sql.DB {
	database, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}

	log.Println("Database connection established")
	return database
}
