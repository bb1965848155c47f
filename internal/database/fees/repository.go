// Package fees provides the fee ledger: payment batches under per-student
// voucher serials, the filtered fee report and ledger reconciliation.
//
// # Interface Implementation
//
//	var _ http.FeeLedger = (*Repository)(nil)
//	var _ tasks.FeeReconciler = (*Repository)(nil)
//
// # Usage
//
//	ledger := fees.NewRepository(db)
//	receipt, err := ledger.RecordPayment(ctx, studentID, []fees.Item{
//		{FeeType: "tuition", Amount: decimal.NewFromInt(1500)},
//	})
package fees

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/schooldesk/internal/entities"
)

// moneyScale is the number of decimal places kept by the amount columns.
const moneyScale = 2

// Item is one fee type paid within a batch.
type Item struct {
	FeeType string          `json:"fee_type"`
	Amount  decimal.Decimal `json:"amount"`
}

// Receipt summarizes a recorded payment batch.
type Receipt struct {
	StudentID     uint            `json:"student_id"`
	VoucherSerial int             `json:"voucher_serial"`
	FeeType       string          `json:"fee_type"` // comma-joined fee types of the batch
	Amount        decimal.Decimal `json:"amount"`   // batch total
	Date          string          `json:"date"`
}

// ReportFilter narrows the fee report. Empty fields impose no constraint.
type ReportFilter struct {
	ClassName string
	FromDate  string // inclusive, YYYY-MM-DD
	ToDate    string // inclusive, YYYY-MM-DD
}

type ReportRow struct {
	Name        string          `json:"name"`
	ClassName   string          `json:"class_name"`
	PaymentDate string          `json:"payment_date"`
	Amount      decimal.Decimal `json:"amount"`
}

// ReconcileResult reports what a reconciliation pass changed.
type ReconcileResult struct {
	Checked   int `json:"checked"`
	Corrected int `json:"corrected"`
}

// Repository handles all fee ledger database operations.
type Repository struct {
	db    *gorm.DB
	now   func() time.Time
	locks *keyedMutex
}

// NewRepository creates a new fee ledger repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:    db,
		now:   time.Now,
		locks: newKeyedMutex(),
	}
}

// WithClock replaces the clock used to stamp payment dates.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// RecordPayment appends a batch of fee items for a student under the next
// voucher serial and adds the batch total to the student's paid_fee.
// The whole batch is one transaction.
func (r *Repository) RecordPayment(ctx context.Context, studentID uint, items []Item) (*Receipt, error) {
	if err := validateItems(studentID, items); err != nil {
		return nil, err
	}

	total := decimal.Zero
	types := make([]string, 0, len(items))
	for _, item := range items {
		total = total.Add(item.Amount)
		types = append(types, item.FeeType)
	}
	paymentDate := r.now().Format(entities.DateLayout)

	unlock := r.locks.Lock(studentID)
	defer unlock()

	var serial int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Updating the student first takes its row lock, so concurrent
		// batches for the same student read distinct serials below.
		res := tx.Model(&entities.Student{}).
			Where("id = ?", studentID).
			Update("paid_fee", gorm.Expr("paid_fee + ?", total))
		if res.Error != nil {
			return fmt.Errorf("update paid fee: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("student %d: %w", studentID, entities.ErrNotFound)
		}

		var last int
		if err := tx.Model(&entities.FeeEntry{}).
			Where("student_id = ?", studentID).
			Select("COALESCE(MAX(voucher_serial), 0)").
			Scan(&last).Error; err != nil {
			return fmt.Errorf("read last voucher serial: %w", err)
		}
		serial = last + 1

		entries := make([]entities.FeeEntry, 0, len(items))
		for _, item := range items {
			entries = append(entries, entities.FeeEntry{
				StudentID:     studentID,
				FeeType:       item.FeeType,
				Amount:        item.Amount,
				VoucherSerial: serial,
				PaymentDate:   paymentDate,
			})
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("insert fee entries: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &Receipt{
		StudentID:     studentID,
		VoucherSerial: serial,
		FeeType:       strings.Join(types, ", "),
		Amount:        total,
		Date:          paymentDate,
	}, nil
}

func validateItems(studentID uint, items []Item) error {
	if studentID == 0 {
		return fmt.Errorf("%w: student_id is required", entities.ErrInvalidInput)
	}
	if len(items) == 0 {
		return fmt.Errorf("%w: at least one fee item is required", entities.ErrInvalidInput)
	}
	for i, item := range items {
		if strings.TrimSpace(item.FeeType) == "" {
			return fmt.Errorf("%w: fee item %d has no fee_type", entities.ErrInvalidInput, i)
		}
		if !item.Amount.IsPositive() {
			return fmt.Errorf("%w: fee item %d amount must be positive", entities.ErrInvalidInput, i)
		}
		// Amount columns keep cents only.
		if !item.Amount.Equal(item.Amount.Round(moneyScale)) {
			return fmt.Errorf("%w: fee item %d amount has more than %d decimal places", entities.ErrInvalidInput, i, moneyScale)
		}
	}
	return nil
}

// ListForStudent returns a student's ledger in payment order.
func (r *Repository) ListForStudent(ctx context.Context, studentID uint) ([]entities.FeeEntry, error) {
	entries := []entities.FeeEntry{}
	err := r.db.WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("voucher_serial ASC, id ASC").
		Find(&entries).Error
	return entries, err
}

// Report returns ledger rows joined with the student's name and class,
// newest payment first.
func (r *Repository) Report(ctx context.Context, filter ReportFilter) ([]ReportRow, error) {
	for _, d := range []string{filter.FromDate, filter.ToDate} {
		if d == "" {
			continue
		}
		if _, err := time.Parse(entities.DateLayout, d); err != nil {
			return nil, fmt.Errorf("%w: date %q is not YYYY-MM-DD", entities.ErrInvalidInput, d)
		}
	}

	query := r.db.WithContext(ctx).
		Table("student_fees AS f").
		Select("s.name, s.class_name, f.payment_date, f.amount").
		Joins("JOIN students s ON s.id = f.student_id")

	if filter.ClassName != "" {
		query = query.Where("s.class_name = ?", filter.ClassName)
	}
	if filter.FromDate != "" {
		query = query.Where("f.payment_date >= ?", filter.FromDate)
	}
	if filter.ToDate != "" {
		query = query.Where("f.payment_date <= ?", filter.ToDate)
	}

	rows := []ReportRow{}
	err := query.Order("f.payment_date DESC, f.id DESC").Scan(&rows).Error
	return rows, err
}

type ledgerBalance struct {
	ID          uint
	PaidFee     decimal.Decimal
	LedgerTotal decimal.Decimal
}

// Reconcile recomputes every student's paid_fee from the ledger and fixes
// rows that drifted. Student rows are locked before the ledger is summed, so
// a payment cannot commit between the read and the correction.
func (r *Repository) Reconcile(ctx context.Context) (ReconcileResult, error) {
	var result ReconcileResult

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&entities.Student{}).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Order("id").
			Pluck("id", &ids).Error; err != nil {
			return fmt.Errorf("lock students: %w", err)
		}
		result.Checked = len(ids)

		var balances []ledgerBalance
		if err := tx.Raw(`
			SELECT s.id, s.paid_fee, COALESCE(SUM(f.amount), 0) AS ledger_total
			FROM students s
			LEFT JOIN student_fees f ON f.student_id = s.id
			GROUP BY s.id, s.paid_fee
		`).Scan(&balances).Error; err != nil {
			return fmt.Errorf("load ledger balances: %w", err)
		}

		for _, b := range balances {
			if b.PaidFee.Equal(b.LedgerTotal) {
				continue
			}
			if err := tx.Model(&entities.Student{}).
				Where("id = ?", b.ID).
				Update("paid_fee", b.LedgerTotal).Error; err != nil {
				return fmt.Errorf("correct student %d: %w", b.ID, err)
			}
			result.Corrected++
		}
		return nil
	})
	if err != nil {
		return ReconcileResult{}, err
	}
	return result, nil
}
