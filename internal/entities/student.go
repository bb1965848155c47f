package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Amounts go over the wire as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// DateLayout is the storage and filter format for calendar dates.
const DateLayout = "2006-01-02"

type Student struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Name       string          `gorm:"size:255" json:"name"`
	ParentName string          `gorm:"size:255" json:"parent_name"`
	Phone      string          `gorm:"size:32" json:"phone"`
	ClassName  string          `gorm:"index;size:64" json:"class_name"`
	Address    string          `gorm:"size:512" json:"address"`
	TotalFee   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_fee"`
	PaidFee    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"paid_fee"` // running sum of ledger amounts
	Fees       []FeeEntry      `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func (Student) TableName() string {
	return "students"
}

// StudentInput holds the editable fields of a student record.
type StudentInput struct {
	Name       string          `json:"name"`
	ParentName string          `json:"parent_name"`
	Phone      string          `json:"phone"`
	ClassName  string          `json:"class_name"`
	Address    string          `json:"address"`
	TotalFee   decimal.Decimal `json:"total_fee"`
}

// FeeEntry is one immutable row of a student's fee ledger.
// All entries paid in one batch share a VoucherSerial.
type FeeEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	StudentID     uint            `gorm:"not null;index:idx_student_fees_voucher,priority:1" json:"student_id"`
	FeeType       string          `gorm:"size:100" json:"fee_type"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	VoucherSerial int             `gorm:"not null;index:idx_student_fees_voucher,priority:2" json:"voucher_serial"`
	PaymentDate   string          `gorm:"size:10;index" json:"payment_date"` // YYYY-MM-DD
	CreatedAt     time.Time       `json:"created_at"`
}

func (FeeEntry) TableName() string {
	return "student_fees"
}

// StudentDetail is a student together with the fee lines paid so far.
type StudentDetail struct {
	ID         uint            `json:"id"`
	Name       string          `json:"name"`
	ParentName string          `json:"parent_name"`
	Phone      string          `json:"phone"`
	ClassName  string          `json:"class_name"`
	Address    string          `json:"address"`
	TotalFee   decimal.Decimal `json:"total_fee"`
	PaidFee    decimal.Decimal `json:"paid_fee"`
	Fees       []FeeLine       `json:"fees"`
}

type FeeLine struct {
	FeeType string          `json:"fee_type"`
	Amount  decimal.Decimal `json:"amount"`
}

// Invoice is the printable view of a student's account.
type Invoice struct {
	BillNo   string          `json:"bill_no"`
	Date     string          `json:"date"`
	Name     string          `json:"name"`
	Parent   string          `json:"parent"`
	Phone    string          `json:"phone"`
	Class    string          `json:"class"`
	Address  string          `json:"address"`
	TotalFee decimal.Decimal `json:"total_fee"`
	Fees     []InvoiceLine   `json:"fees"`
}

type InvoiceLine struct {
	Type string          `json:"type"`
	Paid decimal.Decimal `json:"paid"`
	Date string          `json:"date"`
}
