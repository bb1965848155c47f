// Package database provides the data access layer for the application.
//
// # Architecture
//
// The database layer is organized into domain-specific sub-packages:
//
//	database/
//	├── database.go      # Connection setup, pool tuning, migrations
//	├── students/        # Student CRUD, detail and invoice views
//	├── fees/            # Fee ledger: payments, report, reconciliation
//	└── attendance/      # Attendance register: upsert and analytics
//
// # Using Sub-packages
//
// Each sub-package provides a Repository type with domain-specific operations:
//
//	db, err := database.Open(database.Options{Driver: "sqlite", Path: "./school.db"})
//
//	studentsRepo := students.NewRepository(db.DB)
//	ledger := fees.NewRepository(db.DB)
//	register := attendance.NewRepository(db.DB)
//
//	receipt, err := ledger.RecordPayment(ctx, studentID, items)
//
// # Interface Implementations
//
//   - students.Repository: implements http.StudentStore
//   - fees.Repository: implements http.FeeLedger and tasks.FeeReconciler
//   - attendance.Repository: implements http.AttendanceRegister
//
// # Transactions
//
// Every multi-statement write (payment batches, attendance resubmission,
// student deletion) runs inside gorm's Transaction helper so a failure leaves
// no partial rows behind.
package database
