package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/config"
	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

type QuotationHandler struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewQuotationHandler(db *gorm.DB, cfg *config.Config) *QuotationHandler {
	return &QuotationHandler{
		db:  db,
		cfg: cfg,
		now: time.Now,
	}
}

type CreateQuotationRequest struct {
	CustomerID uint            `json:"customer_id" binding:"required"`
	Notes      string          `json:"notes"`
	Currency   string          `json:"currency"`
	ValidUntil *time.Time      `json:"valid_until"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	LineItems  []LineItemInput `json:"line_items" binding:"required,min=1,dive"`
}

func (h *QuotationHandler) CreateQuotation(c *gin.Context) {
	var req CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var customer models.Customer
	if err := h.db.First(&customer, req.CustomerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: customer %d not found", utils.ErrValidation, req.CustomerID))
			return
		}
		respondError(c, err)
		return
	}

	items, err := buildLineItems(h.db, req.LineItems)
	if err != nil {
		respondError(c, err)
		return
	}

	totals, err := utils.DocumentTotals(itemTotals(items), req.TaxRate)
	if err != nil {
		respondError(c, err)
		return
	}

	currency := req.Currency
	if currency == "" {
		currency = h.cfg.DefaultCurrency
	}

	quotation := models.Quotation{
		CustomerID: req.CustomerID,
		Currency:   currency,
		Notes:      req.Notes,
		ValidUntil: req.ValidUntil,
		TaxRate:    req.TaxRate,
		Subtotal:   totals.Subtotal,
		TaxAmount:  totals.TaxAmount,
		Total:      totals.Total,
		Status:     models.QuotationStatusDraft,
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&quotation).Error; err != nil {
			return err
		}
		for i := range items {
			if err := items[i].SetOwner(models.DocTypeQuotation, quotation.ID); err != nil {
				return err
			}
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("Customer").Preload("Items").First(&quotation, quotation.ID)
	quotation.Project(h.now())

	log.Info().Uint("quotation_id", quotation.ID).Str("total", quotation.Total.String()).Msg("quotation created")
	c.JSON(http.StatusCreated, gin.H{"quotation": quotation})
}

func (h *QuotationHandler) GetQuotation(c *gin.Context) {
	var quotation models.Quotation
	if err := h.db.Preload("Customer").Preload("Items").
		First(&quotation, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: quotation", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	quotation.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"quotation": quotation})
}

func (h *QuotationHandler) ListQuotations(c *gin.Context) {
	query := h.db.Preload("Customer").Preload("Items")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var quotations []models.Quotation
	if err := query.Order("id DESC").Find(&quotations).Error; err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	for i := range quotations {
		quotations[i].Project(now)
	}
	c.JSON(http.StatusOK, gin.H{"quotations": quotations, "total": len(quotations)})
}

type UpdateLineItemsRequest struct {
	TaxRate   *decimal.Decimal `json:"tax_rate"`
	LineItems []LineItemInput  `json:"line_items" binding:"required,min=1,dive"`
}

// UpdateQuotationItems replaces the full line-item set and recomputes the
// totals. Callers resend the complete desired set; there is no partial patch.
func (h *QuotationHandler) UpdateQuotationItems(c *gin.Context) {
	var req UpdateLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var quotation models.Quotation
	if err := h.db.First(&quotation, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: quotation", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if quotation.Status != models.QuotationStatusDraft && quotation.Status != models.QuotationStatusSent {
		respondError(c, fmt.Errorf("%w: cannot edit a quotation in status %s", utils.ErrConflict, quotation.Status))
		return
	}

	items, err := buildLineItems(h.db, req.LineItems)
	if err != nil {
		respondError(c, err)
		return
	}

	taxRate := quotation.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	totals, err := utils.DocumentTotals(itemTotals(items), taxRate)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := items[i].SetOwner(models.DocTypeQuotation, quotation.ID); err != nil {
				return err
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Model(&quotation).Updates(map[string]interface{}{
			"tax_rate":   taxRate,
			"subtotal":   totals.Subtotal,
			"tax_amount": totals.TaxAmount,
			"total":      totals.Total,
		}).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("Customer").Preload("Items").First(&quotation, quotation.ID)
	quotation.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"quotation": quotation})
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *QuotationHandler) UpdateQuotationStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var quotation models.Quotation
	if err := h.db.First(&quotation, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: quotation", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if err := quotation.CanTransition(req.Status); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.Model(&quotation).Update("status", req.Status).Error; err != nil {
		respondError(c, err)
		return
	}

	quotation.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"quotation": quotation})
}

// DeleteQuotation refuses to remove a quotation that an invoice references.
func (h *QuotationHandler) DeleteQuotation(c *gin.Context) {
	var quotation models.Quotation
	if err := h.db.First(&quotation, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: quotation", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var dependents int64
	if err := h.db.Model(&models.Invoice{}).Where("quotation_id = ?", quotation.ID).Count(&dependents).Error; err != nil {
		respondError(c, err)
		return
	}
	if dependents > 0 {
		respondError(c, fmt.Errorf("%w: quotation %d has %d invoice(s) referencing it", utils.ErrConflict, quotation.ID, dependents))
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", quotation.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&quotation).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Quotation deleted"})
}

type ConvertQuotationRequest struct {
	DueDate *time.Time `json:"due_date"`
}

// ConvertToInvoice creates a draft invoice seeded from the quotation: same
// customer, notes, currency and tax figures, cloned line items. The source
// quotation moves to ACCEPTED. Everything happens in one transaction. A
// quotation may be converted more than once unless AllowReconversion is off,
// in which case a second conversion is a conflict.
func (h *QuotationHandler) ConvertToInvoice(c *gin.Context) {
	var req ConvertQuotationRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	var quotation models.Quotation
	if err := h.db.Preload("Items").First(&quotation, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: quotation", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if !h.cfg.AllowReconversion {
		var existing int64
		if err := h.db.Model(&models.Invoice{}).Where("quotation_id = ?", quotation.ID).Count(&existing).Error; err != nil {
			respondError(c, err)
			return
		}
		if existing > 0 {
			respondError(c, fmt.Errorf("%w: quotation %d was already converted", utils.ErrConflict, quotation.ID))
			return
		}
	}

	var invoice models.Invoice
	err := createWithNumberRetry(h.db, func(tx *gorm.DB) error {
		year := h.now().Year()
		number, err := nextDocumentNumber(tx, models.DocTypeInvoice, year)
		if err != nil {
			return err
		}

		quotationID := quotation.ID
		invoice = models.Invoice{
			InvoiceNo:   number,
			CustomerID:  quotation.CustomerID,
			QuotationID: &quotationID,
			Currency:    quotation.Currency,
			Notes:       quotation.Notes,
			DueDate:     req.DueDate,
			TaxRate:     quotation.TaxRate,
			Subtotal:    quotation.Subtotal,
			TaxAmount:   quotation.TaxAmount,
			Total:       quotation.Total,
			Status:      models.InvoiceStatusDraft,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		clones := make([]models.LineItem, 0, len(quotation.Items))
		for _, item := range quotation.Items {
			clone, err := item.CloneFor(models.DocTypeInvoice, invoice.ID)
			if err != nil {
				return err
			}
			clones = append(clones, clone)
		}
		if len(clones) > 0 {
			if err := tx.Create(&clones).Error; err != nil {
				return err
			}
		}

		if quotation.Status != models.QuotationStatusAccepted {
			if err := tx.Model(&quotation).Update("status", models.QuotationStatusAccepted).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("Customer").Preload("Items").First(&invoice, invoice.ID)
	invoice.Project(h.now())

	log.Info().
		Uint("quotation_id", quotation.ID).
		Uint("invoice_id", invoice.ID).
		Str("invoice_no", invoice.InvoiceNo).
		Msg("quotation converted to invoice")
	c.JSON(http.StatusCreated, gin.H{
		"message": "Quotation converted to invoice",
		"invoice": invoice,
	})
}
