package http

import (
	"context"

	"github.com/mrlokans/schooldesk/internal/database/attendance"
	"github.com/mrlokans/schooldesk/internal/database/fees"
	"github.com/mrlokans/schooldesk/internal/entities"
)

// This file consolidates the store interfaces used by HTTP controllers.
// Each one is satisfied by the matching repository under internal/database.

// StudentStore provides the student register.
type StudentStore interface {
	List(ctx context.Context) ([]entities.Student, error)
	Get(ctx context.Context, id uint) (*entities.StudentDetail, error)
	Create(ctx context.Context, input entities.StudentInput) (*entities.Student, error)
	Update(ctx context.Context, id uint, input entities.StudentInput) error
	Delete(ctx context.Context, id uint) error
	Invoice(ctx context.Context, id uint) (*entities.Invoice, error)
}

// FeeLedger records payments and serves the fee report and history.
type FeeLedger interface {
	RecordPayment(ctx context.Context, studentID uint, items []fees.Item) (*fees.Receipt, error)
	ListForStudent(ctx context.Context, studentID uint) ([]entities.FeeEntry, error)
	Report(ctx context.Context, filter fees.ReportFilter) ([]fees.ReportRow, error)
}

// AttendanceRegister stores daily attendance sheets and reports on them.
type AttendanceRegister interface {
	Submit(ctx context.Context, sub attendance.Submission) error
	Get(ctx context.Context, className, date string) (*entities.AttendanceMaster, error)
	Analytics(ctx context.Context, className string) ([]entities.StudentAttendance, error)
}

// Pinger reports database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
