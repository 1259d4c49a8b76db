package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/utils"
)

// Delivery note statuses.
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelivered = "delivered"
	DeliveryStatusCancelled = "cancelled"
)

var deliveryNoteTransitions = map[string][]string{
	DeliveryStatusPending:   {DeliveryStatusInTransit, DeliveryStatusDelivered, DeliveryStatusCancelled},
	DeliveryStatusInTransit: {DeliveryStatusDelivered, DeliveryStatusCancelled},
}

type DeliveryNote struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
	DeliveryNo  string          `gorm:"uniqueIndex;size:50;not null" json:"delivery_no"`
	CustomerID  uint            `gorm:"not null;index" json:"customer_id"`
	Customer    Customer        `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	InvoiceID   *uint           `gorm:"index" json:"invoice_id,omitempty"`
	Items       []LineItem      `gorm:"foreignKey:DeliveryNoteID" json:"line_items,omitempty"`
	Currency    string          `gorm:"size:10;not null;default:'NGN'" json:"currency"`
	Notes       string          `gorm:"type:text" json:"notes"`
	DeliveredAt *time.Time      `json:"delivered_at"`
	TaxRate     decimal.Decimal `gorm:"type:decimal(10,4);default:0" json:"tax_rate"`
	Subtotal    decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"subtotal"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"tax_amount"`
	Total       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"total"`
	Status      string          `gorm:"size:20;default:'pending'" json:"status"` // pending, in_transit, delivered, cancelled
}

// TableName overrides the table name
func (DeliveryNote) TableName() string {
	return "delivery_notes"
}

// CanTransition reports whether moving to next is allowed from the current
// stored status.
func (dn *DeliveryNote) CanTransition(next string) error {
	for _, s := range deliveryNoteTransitions[dn.Status] {
		if s == next {
			return nil
		}
	}
	return fmt.Errorf("%w: delivery note %s -> %s", utils.ErrInvalidTransition, dn.Status, next)
}
