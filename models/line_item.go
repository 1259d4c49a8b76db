package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/utils"
)

// Line item kinds.
const (
	ItemKindProduct = "PRODUCT"
	ItemKindService = "SERVICE"
	ItemKindCustom  = "CUSTOM"
)

// Document kinds a line item can belong to.
const (
	DocTypeQuotation    = "quotation"
	DocTypeInvoice      = "invoice"
	DocTypeDeliveryNote = "delivery_note"
)

// LineItem is one priced row of a document. Rows are stored in a single
// polymorphic table: DocumentType + DocumentID name the owner, and exactly
// one of the three back-reference columns is set, always the one matching
// DocumentType. SetOwner is the only way ownership is stamped, so the
// invariant holds by construction.
type LineItem struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`
	DocumentType   string          `gorm:"size:20;not null;index:idx_line_items_owner" json:"document_type"` // quotation, invoice, delivery_note
	DocumentID     uint            `gorm:"not null;index:idx_line_items_owner" json:"document_id"`
	QuotationID    *uint           `gorm:"index" json:"quotation_id,omitempty"`
	InvoiceID      *uint           `gorm:"index" json:"invoice_id,omitempty"`
	DeliveryNoteID *uint           `gorm:"index" json:"delivery_note_id,omitempty"`
	ItemType       string          `gorm:"size:20;not null" json:"item_type"` // PRODUCT, SERVICE, CUSTOM
	ProductID      *uint           `json:"product_id,omitempty"`
	ServiceID      *uint           `json:"service_id,omitempty"`
	Description    string          `gorm:"size:255;not null" json:"description"`
	Quantity       decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice      decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	Total          decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"total"`
}

// TableName overrides the table name
func (LineItem) TableName() string {
	return "line_items"
}

// SetOwner stamps the polymorphic ownership tag and the single matching
// back-reference, clearing the other two.
func (li *LineItem) SetOwner(docType string, docID uint) error {
	li.QuotationID, li.InvoiceID, li.DeliveryNoteID = nil, nil, nil
	id := docID
	switch docType {
	case DocTypeQuotation:
		li.QuotationID = &id
	case DocTypeInvoice:
		li.InvoiceID = &id
	case DocTypeDeliveryNote:
		li.DeliveryNoteID = &id
	default:
		return fmt.Errorf("unknown document type %q", docType)
	}
	li.DocumentType = docType
	li.DocumentID = docID
	return nil
}

// Recompute refreshes Total from the current Quantity and UnitPrice.
func (li *LineItem) Recompute() error {
	total, err := utils.LineTotal(li.Quantity, li.UnitPrice)
	if err != nil {
		return err
	}
	li.Total = total
	return nil
}

// CloneFor copies the row for another document, preserving kind, catalog
// reference, quantity, unit price and total.
func (li LineItem) CloneFor(docType string, docID uint) (LineItem, error) {
	clone := LineItem{
		ItemType:    li.ItemType,
		ProductID:   li.ProductID,
		ServiceID:   li.ServiceID,
		Description: li.Description,
		Quantity:    li.Quantity,
		UnitPrice:   li.UnitPrice,
		Total:       li.Total,
	}
	if err := clone.SetOwner(docType, docID); err != nil {
		return LineItem{}, err
	}
	return clone, nil
}
