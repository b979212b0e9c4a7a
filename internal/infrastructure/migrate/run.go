package migrate

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"gorm.io/gorm"

	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// Runner applies the SQL files under migrations/ through the service's own
// connection pool.
type Runner struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

func NewRunner(db *gorm.DB, migrationPath string, logger *slog.Logger) (*Runner, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm.DB: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("creating postgres driver: %w", err)
	}

	m, err := migrate.NewWithDatabaseInstance(
		fmt.Sprintf("file://%s", migrationPath),
		"postgres",
		driver,
	)
	if err != nil {
		return nil, fmt.Errorf("creating migrate instance: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{m: m, logger: logger}, nil
}

// Up applies pending migrations; an up-to-date schema is not an error.
func (r *Runner) Up() error {
	err := r.m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		r.logger.Info("Schema is up to date")
		return nil
	}
	if err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	r.logger.Info("Migrations applied successfully")
	return nil
}

// Version reports the applied schema version; version 0 means none applied.
func (r *Runner) Version() (uint, bool, error) {
	v, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Run is the startup shortcut: open, apply, done. The runner shares the gorm pool, so it is not closed here.
func Run(db *gorm.DB, migrationPath string, logger *slog.Logger) error {
	r, err := NewRunner(db, migrationPath, logger)
	if err != nil {
		return err
	}
	return r.Up()
}
