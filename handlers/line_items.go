package handlers

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

type LineItemInput struct {
	ItemType    string           `json:"item_type" binding:"required,oneof=PRODUCT SERVICE CUSTOM"`
	Description string           `json:"description"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	ProductID   *uint            `json:"product_id"`
	ServiceID   *uint            `json:"service_id"`
}

// buildLineItems turns input rows into line items, snapshotting description
// and unit price from the referenced catalog entry when the input leaves them
// out. Explicit input always wins over the snapshot. The returned items carry
// no owner yet; callers stamp ownership once the document row exists.
func buildLineItems(db *gorm.DB, inputs []LineItemInput) ([]models.LineItem, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("%w: at least one line item is required", utils.ErrValidation)
	}

	items := make([]models.LineItem, 0, len(inputs))
	for i, in := range inputs {
		item := models.LineItem{
			ItemType:    in.ItemType,
			Description: in.Description,
			Quantity:    in.Quantity,
			ProductID:   in.ProductID,
			ServiceID:   in.ServiceID,
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}

		switch in.ItemType {
		case models.ItemKindProduct:
			if in.ProductID != nil {
				var product models.Product
				if err := db.First(&product, *in.ProductID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, fmt.Errorf("%w: product %d not found", utils.ErrValidation, *in.ProductID)
					}
					return nil, err
				}
				if item.Description == "" {
					item.Description = product.Name
				}
				if in.UnitPrice == nil {
					item.UnitPrice = product.UnitPrice
				}
			}
		case models.ItemKindService:
			if in.ServiceID != nil {
				var service models.Service
				if err := db.First(&service, *in.ServiceID).Error; err != nil {
					if errors.Is(err, gorm.ErrRecordNotFound) {
						return nil, fmt.Errorf("%w: service %d not found", utils.ErrValidation, *in.ServiceID)
					}
					return nil, err
				}
				if item.Description == "" {
					item.Description = service.Name
				}
				if in.UnitPrice == nil {
					item.UnitPrice = service.UnitPrice
				}
			}
		}

		if err := item.Recompute(); err != nil {
			return nil, fmt.Errorf("line item %d: %w", i+1, err)
		}
		items = append(items, item)
	}

	return items, nil
}

// itemTotals collects the rounded line totals for document-level arithmetic.
func itemTotals(items []models.LineItem) []decimal.Decimal {
	totals := make([]decimal.Decimal, len(items))
	for i, item := range items {
		totals[i] = item.Total
	}
	return totals
}
