package database

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/schooldesk/internal/config"
	"github.com/mrlokans/schooldesk/internal/entities"
)

// setupTestDB creates a fresh test database
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := NewDatabase(dbPath)
	require.NoError(t, err)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return db, cleanup
}

func TestNewDatabase_MigratesSchema(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	assert.Equal(t, "sqlite", db.Driver)

	migrator := db.DB.Migrator()
	assert.True(t, migrator.HasTable(&entities.Student{}))
	assert.True(t, migrator.HasTable("student_fees"))
	assert.True(t, migrator.HasTable("attendance_master"))
	assert.True(t, migrator.HasTable("attendance_details"))
	assert.True(t, migrator.HasIndex(&entities.AttendanceMaster{}, "idx_attendance_class_date"))
}

func TestDatabase_Ping(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Ping(context.Background()))

	require.NoError(t, db.Close())
	assert.Error(t, db.Ping(context.Background()))
}

func TestDatabase_MigrateIsIdempotent(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	require.NoError(t, db.Migrate())
	require.NoError(t, db.Migrate())
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(Options{Driver: "oracle"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported database driver")
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "school.db?_busy_timeout=5000&_txlock=immediate&_foreign_keys=on", sqliteDSN("school.db"))
	assert.Equal(t, "file:school.db?mode=rwc&_busy_timeout=5000&_txlock=immediate&_foreign_keys=on", sqliteDSN("file:school.db?mode=rwc"))
}

func TestDriverName(t *testing.T) {
	assert.Equal(t, "sqlite", driverName(""))
	assert.Equal(t, "sqlite", driverName("SQLite3"))
	assert.Equal(t, "postgres", driverName("postgresql"))
	assert.Equal(t, "mysql", driverName("mysql"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, logger.Silent, parseLogLevel("silent"))
	assert.Equal(t, logger.Info, parseLogLevel("INFO"))
	assert.Equal(t, logger.Warn, parseLogLevel(""))
}

func TestOptionsFromConfig(t *testing.T) {
	opts := OptionsFromConfig(config.Database{
		Driver:          "postgres",
		Host:            "db.internal",
		Port:            6543,
		User:            "school",
		Name:            "school",
		SSLMode:         "require",
		MaxOpenConns:    10,
		ConnMaxLifetime: time.Hour,
		LogLevel:        "info",
	})

	assert.Equal(t, "postgres", opts.Driver)
	assert.Equal(t, "db.internal", opts.Host)
	assert.Equal(t, 6543, opts.Port)
	assert.Equal(t, "require", opts.SSLMode)
	assert.Equal(t, 10, opts.MaxOpenConns)
	assert.Equal(t, time.Hour, opts.ConnMaxLifetime)
	assert.Equal(t, "info", opts.LogLevel)
}
