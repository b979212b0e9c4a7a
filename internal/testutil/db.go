package testutil

import (
	"testing"

	"github.com/LavaJover/shvark-booking-service/internal/infrastructure/postgres"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory sqlite database with the production models
// migrated. A single connection keeps every query on the same database, so
// concurrent callers serialize on it.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := postgres.GormConfig()
	cfg.Logger = logger.Default.LogMode(logger.Silent)

	db, err := gorm.Open(sqlite.Open(":memory:"), cfg)
	require.NoError(t, err, "Failed to open test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(postgres.AllModels()...), "Failed to migrate test database")
	return db
}
