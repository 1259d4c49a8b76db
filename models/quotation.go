package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/utils"
)

// Quotation statuses.
const (
	QuotationStatusDraft    = "DRAFT"
	QuotationStatusSent     = "SENT"
	QuotationStatusAccepted = "ACCEPTED"
	QuotationStatusRejected = "REJECTED"
	QuotationStatusExpired  = "EXPIRED"
)

var quotationTransitions = map[string][]string{
	QuotationStatusDraft: {QuotationStatusSent, QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired},
	QuotationStatusSent:  {QuotationStatusAccepted, QuotationStatusRejected, QuotationStatusExpired},
}

type Quotation struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
	DeletedAt  gorm.DeletedAt  `gorm:"index" json:"-"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	Customer   Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items      []LineItem      `gorm:"foreignKey:QuotationID" json:"line_items,omitempty"`
	Currency   string          `gorm:"size:10;not null;default:'NGN'" json:"currency"`
	Notes      string          `gorm:"type:text" json:"notes"`
	ValidUntil *time.Time      `json:"valid_until"`
	TaxRate    decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tax_rate"`
	Subtotal   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount  decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total      decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status     string          `gorm:"size:20;default:'DRAFT'" json:"status"` // DRAFT, SENT, ACCEPTED, REJECTED, EXPIRED

	// EffectiveStatus is the read-time projection of Status; it is never
	// persisted. See Project.
	EffectiveStatus string `gorm:"-" json:"effective_status,omitempty"`
}

// TableName overrides the table name
func (Quotation) TableName() string {
	return "quotations"
}

// CanTransition reports whether moving to next is allowed from the current
// stored status.
func (q *Quotation) CanTransition(next string) error {
	for _, s := range quotationTransitions[q.Status] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: quotation %s -> %s", utils.ErrInvalidTransition, q.Status, next)
}

// Project fills EffectiveStatus as of now. A draft or sent quotation whose
// validity date has passed is reported EXPIRED without mutating Status.
func (q *Quotation) Project(now time.Time) {
	q.EffectiveStatus = q.Status
	if (q.Status == QuotationStatusDraft || q.Status == QuotationStatusSent) &&
		q.ValidUntil != nil && now.After(*q.ValidUntil) {
		q.EffectiveStatus = QuotationStatusExpired
	}
}
