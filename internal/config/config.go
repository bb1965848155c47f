package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type (
	Config struct {
		HTTP
		Global
		Database
		UI
		CORS
		Attendance
		Tasks
		FeeReconcile
	}

	HTTP struct {
		Port int32
		Host string
	}
	Global struct {
		ShutdownTimeoutInSeconds int
	}
	Database struct {
		Driver          string // sqlite, mysql or postgres
		Path            string // sqlite only
		Host            string
		Port            int
		User            string
		Password        string
		Name            string
		SSLMode         string // postgres only
		MaxOpenConns    int
		MaxIdleConns    int
		ConnMaxLifetime time.Duration
		LogLevel        string // silent, error, warn, info
	}
	UI struct {
		StaticPath string
	}
	CORS struct {
		AllowedOrigins []string
	}
	Attendance struct {
		// RecomputeTotals derives present/absent/total from the submitted roster
		// instead of trusting the counters sent by the client.
		RecomputeTotals bool
	}
	Tasks struct {
		Enabled         bool
		Workers         int
		ReleaseAfter    time.Duration
		CleanupInterval time.Duration
	}
	FeeReconcile struct {
		Enabled  bool
		Schedule string // Cron format: "0 2 * * *" = daily at 02:00
	}
)

// NewConfig reads the process configuration from the environment.
// A .env file in the working directory is loaded first when present;
// variables already set in the environment take precedence.
func NewConfig() *Config {
	if err := godotenv.Load(); err == nil {
		log.Printf("Loaded environment from .env")
	}

	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("port", DefaultPort)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout_in_seconds", 5)

	v.SetDefault("db_driver", DriverSQLite)
	v.SetDefault("database_path", DefaultDatabasePath)
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", 0) // driver default when zero
	v.SetDefault("db_user", "")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "school")
	v.SetDefault("db_sslmode", "disable")
	v.SetDefault("db_max_open_conns", 10)
	v.SetDefault("db_max_idle_conns", 5)
	v.SetDefault("db_conn_max_lifetime", "1h")
	v.SetDefault("db_log_level", "warn")

	v.SetDefault("static_path", "./public")
	v.SetDefault("cors_allowed_origins", "*")

	v.SetDefault("attendance_recompute_totals", false)

	// Task queue defaults
	v.SetDefault("tasks_enabled", true)
	v.SetDefault("task_workers", 1)
	v.SetDefault("task_release_after", "15m")
	v.SetDefault("task_cleanup_interval", "1h")

	v.SetDefault("fee_reconcile_enabled", true)
	v.SetDefault("fee_reconcile_schedule", "0 2 * * *") // Daily at 02:00

	return &Config{
		HTTP: HTTP{
			Port: v.GetInt32("PORT"),
			Host: v.GetString("HOST"),
		},
		Global: Global{
			ShutdownTimeoutInSeconds: v.GetInt("SHUTDOWN_TIMEOUT_IN_SECONDS"),
		},
		Database: Database{
			Driver:          strings.ToLower(v.GetString("DB_DRIVER")),
			Path:            v.GetString("DATABASE_PATH"),
			Host:            v.GetString("DB_HOST"),
			Port:            v.GetInt("DB_PORT"),
			User:            v.GetString("DB_USER"),
			Password:        v.GetString("DB_PASSWORD"),
			Name:            v.GetString("DB_NAME"),
			SSLMode:         v.GetString("DB_SSLMODE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
			LogLevel:        v.GetString("DB_LOG_LEVEL"),
		},
		UI: UI{
			StaticPath: v.GetString("STATIC_PATH"),
		},
		CORS: CORS{
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Attendance: Attendance{
			RecomputeTotals: v.GetBool("ATTENDANCE_RECOMPUTE_TOTALS"),
		},
		Tasks: Tasks{
			Enabled:         v.GetBool("TASKS_ENABLED"),
			Workers:         v.GetInt("TASK_WORKERS"),
			ReleaseAfter:    v.GetDuration("TASK_RELEASE_AFTER"),
			CleanupInterval: v.GetDuration("TASK_CLEANUP_INTERVAL"),
		},
		FeeReconcile: FeeReconcile{
			Enabled:  v.GetBool("FEE_RECONCILE_ENABLED"),
			Schedule: v.GetString("FEE_RECONCILE_SCHEDULE"),
		},
	}
}

// splitList turns a comma-separated value into a trimmed, non-empty list.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
