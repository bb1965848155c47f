package database

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/schooldesk/internal/config"
	"github.com/mrlokans/schooldesk/internal/entities"
)

// Options describes how to reach the relational store.
type Options struct {
	Driver          string // sqlite (default), mysql or postgres
	Path            string // sqlite file path
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// OptionsFromConfig maps the process configuration onto connection options.
func OptionsFromConfig(c config.Database) Options {
	return Options{
		Driver:          c.Driver,
		Path:            c.Path,
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Name:            c.Name,
		SSLMode:         c.SSLMode,
		MaxOpenConns:    c.MaxOpenConns,
		MaxIdleConns:    c.MaxIdleConns,
		ConnMaxLifetime: c.ConnMaxLifetime,
		LogLevel:        c.LogLevel,
	}
}

type Database struct {
	DB     *gorm.DB
	Driver string
}

// models lists every table owned by the application, parents first.
var models = []any{
	&entities.Student{},
	&entities.FeeEntry{},
	&entities.AttendanceMaster{},
	&entities.AttendanceDetail{},
}

// NewDatabase opens (and migrates) a sqlite database at dbPath.
func NewDatabase(dbPath string) (*Database, error) {
	return Open(Options{Driver: "sqlite", Path: dbPath, LogLevel: "silent"})
}

// Open connects to the configured store, tunes the connection pool and
// migrates the schema.
func Open(opts Options) (*Database, error) {
	dialector, err := dialectorFor(opts)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(parseLogLevel(opts.LogLevel)),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql handle: %w", err)
	}
	if opts.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(opts.MaxIdleConns)
	}
	if opts.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(opts.ConnMaxLifetime)
	}

	database := &Database{DB: db, Driver: driverName(opts.Driver)}
	if err := database.Migrate(); err != nil {
		sqlDB.Close()
		return nil, err
	}

	log.Printf("Database initialized successfully (%s)", database.describe(opts))

	return database, nil
}

// Migrate creates or updates the schema for all application tables.
func (d *Database) Migrate() error {
	if err := d.DB.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// Ping checks that a pooled connection can reach the store.
func (d *Database) Ping(ctx context.Context) error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func dialectorFor(opts Options) (gorm.Dialector, error) {
	switch driverName(opts.Driver) {
	case "sqlite":
		return sqlite.Open(sqliteDSN(opts.Path)), nil
	case "mysql":
		port := opts.Port
		if port == 0 {
			port = 3306
		}
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			opts.User, opts.Password, opts.Host, port, opts.Name)
		return mysql.Open(dsn), nil
	case "postgres":
		port := opts.Port
		if port == 0 {
			port = 5432
		}
		sslMode := opts.SSLMode
		if sslMode == "" {
			sslMode = "disable"
		}
		dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
			opts.Host, port, opts.User, opts.Password, opts.Name, sslMode)
		return postgres.Open(dsn), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

// sqliteDSN waits on locks instead of failing fast and starts write
// transactions with BEGIN IMMEDIATE so concurrent writers queue up.
func sqliteDSN(path string) string {
	params := "_busy_timeout=5000&_txlock=immediate&_foreign_keys=on"
	if strings.Contains(path, "?") {
		return path + "&" + params
	}
	return path + "?" + params
}

func driverName(driver string) string {
	d := strings.ToLower(strings.TrimSpace(driver))
	switch d {
	case "", "sqlite", "sqlite3":
		return "sqlite"
	case "postgresql", "pg":
		return "postgres"
	}
	return d
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}

func (d *Database) describe(opts Options) string {
	if d.Driver == "sqlite" {
		return "sqlite at " + opts.Path
	}
	return fmt.Sprintf("%s at %s/%s", d.Driver, opts.Host, opts.Name)
}
