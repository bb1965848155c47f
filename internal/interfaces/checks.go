package interfaces

// This file contains compile-time interface implementation checks.
// These ensure that concrete types satisfy their interfaces at compile time,
// catching missing methods before runtime.
//
// To verify all checks pass: go build ./internal/interfaces/...

import (
	"github.com/mrlokans/schooldesk/internal/database"
	"github.com/mrlokans/schooldesk/internal/database/attendance"
	"github.com/mrlokans/schooldesk/internal/database/fees"
	"github.com/mrlokans/schooldesk/internal/database/students"
	"github.com/mrlokans/schooldesk/internal/http"
	"github.com/mrlokans/schooldesk/internal/tasks"
)

// =============================================================================
// Data Access Layer
// =============================================================================

// StudentStore implementations
var _ http.StudentStore = (*students.Repository)(nil)

// FeeLedger implementations
var _ http.FeeLedger = (*fees.Repository)(nil)

// AttendanceRegister implementations
var _ http.AttendanceRegister = (*attendance.Repository)(nil)

// Pinger implementations
var _ http.Pinger = (*database.Database)(nil)

// =============================================================================
// Background Work
// =============================================================================

// FeeReconciler implementations
var _ tasks.FeeReconciler = (*fees.Repository)(nil)
