// Package interfaces documents the core abstractions used throughout the application.
//
// # Interface Categories
//
// ## Data Access Interfaces
//
//   - StudentStore: Student register CRUD and invoice view (internal/http/stores.go)
//   - FeeLedger: Voucher payments and the fee report (internal/http/stores.go)
//   - AttendanceRegister: Attendance upsert, sheet and analytics (internal/http/stores.go)
//   - Pinger: Database reachability for health checks (internal/http/stores.go)
//
// ## Background Work
//
//   - FeeReconciler: Rebuilds paid_fee from the ledger (internal/tasks/reconcile_fees.go)
//   - scheduler.Job: Function run on a cron schedule (internal/scheduler/fee_reconcile.go)
//
// # Adding a New Store
//
//  1. Define the interface next to the controller that consumes it
//  2. Implement it as a Repository under internal/database/<domain>
//  3. Add a compile-time check to checks.go
//  4. Wire the repository in internal/entrypoint and RouterConfig
//
// # Compile-Time Checks
//
// checks.go holds var _ Interface = (*Impl)(nil) assertions for every
// implementation listed above.
package interfaces
