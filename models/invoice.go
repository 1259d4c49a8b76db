package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/utils"
)

// Invoice statuses. overdue is never stored; it is a read-time projection
// (see Project).
const (
	InvoiceStatusDraft     = "draft"
	InvoiceStatusSent      = "sent"
	InvoiceStatusPaid      = "paid"
	InvoiceStatusOverdue   = "overdue"
	InvoiceStatusCancelled = "cancelled"
)

var invoiceTransitions = map[string][]string{
	InvoiceStatusDraft: {InvoiceStatusSent, InvoiceStatusCancelled},
	InvoiceStatusSent:  {InvoiceStatusPaid, InvoiceStatusCancelled},
}

type Invoice struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	InvoiceNo   string          `gorm:"uniqueIndex;size:50;not null" json:"invoice_no"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Customer    Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	QuotationID *uint           `gorm:"index" json:"quotation_id,omitempty"`
	Items       []LineItem      `gorm:"foreignKey:InvoiceID" json:"line_items,omitempty"`
	Payments    []Payment       `gorm:"foreignKey:InvoiceID" json:"payments,omitempty"`
	Currency    string          `gorm:"size:10;not null;default:'NGN'" json:"currency"`
	Notes       string          `gorm:"type:text" json:"notes"`
	DueDate     *time.Time      `json:"due_date"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tax_rate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status      string          `gorm:"size:20;default:'draft'" json:"status"` // draft, sent, paid, cancelled

	// EffectiveStatus is the read-time projection of Status; it is never
	// persisted. See Project.
	EffectiveStatus string `gorm:"-" json:"effective_status,omitempty"`
}

// TableName overrides the table name
func (Invoice) TableName() string {
	return "invoices"
}

// CanTransition reports whether moving to next is allowed from the current
// stored status.
func (inv *Invoice) CanTransition(next string) error {
	for _, s := range invoiceTransitions[inv.Status] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: invoice %s -> %s", utils.ErrInvalidTransition, inv.Status, next)
}

// Project fills EffectiveStatus as of now. An invoice that is neither paid
// nor cancelled and whose due date has passed is reported overdue; the
// stored Status is left untouched.
func (inv *Invoice) Project(now time.Time) {
	inv.EffectiveStatus = inv.Status
	if inv.Status != InvoiceStatusPaid && inv.Status != InvoiceStatusCancelled &&
		inv.DueDate != nil && now.After(*inv.DueDate) {
		inv.EffectiveStatus = InvoiceStatusOverdue
	}
}

// PaidAmount sums the recorded payments.
func (inv *Invoice) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range inv.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}
