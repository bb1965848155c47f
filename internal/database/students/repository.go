// Package students provides the student register: CRUD over student records
// and the detail and invoice views composed from their fee ledger.
//
// # Interface Implementation
//
//	var _ http.StudentStore = (*Repository)(nil)
package students

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mrlokans/schooldesk/internal/entities"
)

// InvoiceDateLayout renders dates as day/month/year without zero padding.
const InvoiceDateLayout = "2/1/2006"

// Repository handles all student database operations.
type Repository struct {
	db     *gorm.DB
	now    func() time.Time
	billNo func() int
}

// NewRepository creates a new student repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db:     db,
		now:    time.Now,
		billNo: func() int { return rand.Intn(1000) },
	}
}

// WithClock replaces the clock used for invoice dates.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.now = now
	return r
}

// WithBillNumbers replaces the source of the random bill number suffix.
func (r *Repository) WithBillNumbers(next func() int) *Repository {
	r.billNo = next
	return r
}

// List returns all students, newest first.
func (r *Repository) List(ctx context.Context) ([]entities.Student, error) {
	students := []entities.Student{}
	err := r.db.WithContext(ctx).Order("id DESC").Find(&students).Error
	return students, err
}

func (r *Repository) find(ctx context.Context, id uint) (*entities.Student, []entities.FeeEntry, error) {
	var student entities.Student
	err := r.db.WithContext(ctx).
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Order("voucher_serial ASC, id ASC")
		}).
		First(&student, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("student %d: %w", id, entities.ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	return &student, student.Fees, nil
}

// Get returns a student together with the fee lines paid so far.
func (r *Repository) Get(ctx context.Context, id uint) (*entities.StudentDetail, error) {
	student, fees, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]entities.FeeLine, 0, len(fees))
	for _, f := range fees {
		lines = append(lines, entities.FeeLine{FeeType: f.FeeType, Amount: f.Amount})
	}

	return &entities.StudentDetail{
		ID:         student.ID,
		Name:       student.Name,
		ParentName: student.ParentName,
		Phone:      student.Phone,
		ClassName:  student.ClassName,
		Address:    student.Address,
		TotalFee:   student.TotalFee,
		PaidFee:    student.PaidFee,
		Fees:       lines,
	}, nil
}

// Create inserts a new student. The paid fee always starts at zero.
func (r *Repository) Create(ctx context.Context, input entities.StudentInput) (*entities.Student, error) {
	student := &entities.Student{
		Name:       input.Name,
		ParentName: input.ParentName,
		Phone:      input.Phone,
		ClassName:  input.ClassName,
		Address:    input.Address,
		TotalFee:   input.TotalFee,
		PaidFee:    decimal.Zero,
	}
	if err := r.db.WithContext(ctx).Create(student).Error; err != nil {
		return nil, fmt.Errorf("create student: %w", err)
	}
	return student, nil
}

// Update overwrites every editable field of a student. paid_fee is owned by
// the fee ledger and is never touched here.
func (r *Repository) Update(ctx context.Context, id uint, input entities.StudentInput) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var student entities.Student
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&student, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("student %d: %w", id, entities.ErrNotFound)
		}
		if err != nil {
			return err
		}

		// A map keeps zero values such as an empty phone or a zero fee.
		return tx.Model(&student).Updates(map[string]any{
			"name":        input.Name,
			"parent_name": input.ParentName,
			"phone":       input.Phone,
			"class_name":  input.ClassName,
			"address":     input.Address,
			"total_fee":   input.TotalFee,
		}).Error
	})
}

// Delete removes a student and its fee ledger. Nothing is removed when the
// student does not exist.
func (r *Repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("student_id = ?", id).Delete(&entities.FeeEntry{}).Error; err != nil {
			return fmt.Errorf("delete fee entries: %w", err)
		}
		res := tx.Delete(&entities.Student{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete student: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("student %d: %w", id, entities.ErrNotFound)
		}
		return nil
	})
}

// Invoice builds the printable account view of a student.
func (r *Repository) Invoice(ctx context.Context, id uint) (*entities.Invoice, error) {
	student, fees, err := r.find(ctx, id)
	if err != nil {
		return nil, err
	}

	lines := make([]entities.InvoiceLine, 0, len(fees))
	for _, f := range fees {
		lines = append(lines, entities.InvoiceLine{
			Type: f.FeeType,
			Paid: f.Amount,
			Date: formatInvoiceDate(f.PaymentDate),
		})
	}

	return &entities.Invoice{
		BillNo:   fmt.Sprintf("INV-%d-%d", student.ID, r.billNo()),
		Date:     r.now().Format(InvoiceDateLayout),
		Name:     student.Name,
		Parent:   student.ParentName,
		Phone:    student.Phone,
		Class:    student.ClassName,
		Address:  student.Address,
		TotalFee: student.TotalFee,
		Fees:     lines,
	}, nil
}

func formatInvoiceDate(stored string) string {
	if stored == "" {
		return "-"
	}
	t, err := time.Parse(entities.DateLayout, stored)
	if err != nil {
		return "-"
	}
	return t.Format(InvoiceDateLayout)
}
