package http

import (
	"github.com/mrlokans/schooldesk/internal/database"
	"github.com/mrlokans/schooldesk/internal/tasks"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Students   StudentStore
	Fees       FeeLedger
	Attendance AttendanceRegister
	Database   *database.Database

	// Task queue client (optional)
	TaskClient *tasks.Client

	// Static files served under /static and at the root for unmatched paths;
	// skipped when the directory is missing
	StaticPath string

	// CORS origins; empty or "*" allows any origin
	AllowedOrigins []string

	// Application info
	Version string
}
