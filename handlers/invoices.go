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

type InvoiceHandler struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewInvoiceHandler(db *gorm.DB, cfg *config.Config) *InvoiceHandler {
	return &InvoiceHandler{
		db:  db,
		cfg: cfg,
		now: time.Now,
	}
}

type CreateInvoiceRequest struct {
	CustomerID uint            `json:"customer_id" binding:"required"`
	Notes      string          `json:"notes"`
	Currency   string          `json:"currency"`
	DueDate    *time.Time      `json:"due_date"`
	TaxRate    decimal.Decimal `json:"tax_rate"`
	LineItems  []LineItemInput `json:"line_items" binding:"required,min=1,dive"`
}

func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var req CreateInvoiceRequest
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

	var invoice models.Invoice
	err = createWithNumberRetry(h.db, func(tx *gorm.DB) error {
		year := h.now().Year()
		number, err := nextDocumentNumber(tx, models.DocTypeInvoice, year)
		if err != nil {
			return err
		}

		invoice = models.Invoice{
			InvoiceNo:  number,
			CustomerID: req.CustomerID,
			Currency:   currency,
			Notes:      req.Notes,
			DueDate:    req.DueDate,
			TaxRate:    req.TaxRate,
			Subtotal:   totals.Subtotal,
			TaxAmount:  totals.TaxAmount,
			Total:      totals.Total,
			Status:     models.InvoiceStatusDraft,
		}
		if err := tx.Create(&invoice).Error; err != nil {
			return err
		}

		for i := range items {
			if err := items[i].SetOwner(models.DocTypeInvoice, invoice.ID); err != nil {
				return err
			}
			items[i].ID = 0
		}
		return tx.Create(&items).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("Customer").Preload("Items").First(&invoice, invoice.ID)
	invoice.Project(h.now())

	log.Info().Uint("invoice_id", invoice.ID).Str("invoice_no", invoice.InvoiceNo).Msg("invoice created")
	c.JSON(http.StatusCreated, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	var invoice models.Invoice
	if err := h.db.Preload("Customer").Preload("Items").Preload("Payments").
		First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	invoice.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	query := h.db.Preload("Customer").Preload("Items")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var invoices []models.Invoice
	if err := query.Order("id DESC").Find(&invoices).Error; err != nil {
		respondError(c, err)
		return
	}

	now := h.now()
	for i := range invoices {
		invoices[i].Project(now)
	}
	c.JSON(http.StatusOK, gin.H{"invoices": invoices, "total": len(invoices)})
}

// UpdateInvoiceItems replaces the full line-item set of a draft invoice and
// recomputes the totals.
func (h *InvoiceHandler) UpdateInvoiceItems(c *gin.Context) {
	var req UpdateLineItemsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invoice models.Invoice
	if err := h.db.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if invoice.Status != models.InvoiceStatusDraft {
		respondError(c, fmt.Errorf("%w: cannot edit an invoice in status %s", utils.ErrConflict, invoice.Status))
		return
	}

	items, err := buildLineItems(h.db, req.LineItems)
	if err != nil {
		respondError(c, err)
		return
	}

	taxRate := invoice.TaxRate
	if req.TaxRate != nil {
		taxRate = *req.TaxRate
	}
	totals, err := utils.DocumentTotals(itemTotals(items), taxRate)
	if err != nil {
		respondError(c, err)
		return
	}

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		for i := range items {
			if err := items[i].SetOwner(models.DocTypeInvoice, invoice.ID); err != nil {
				return err
			}
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}
		return tx.Model(&invoice).Updates(map[string]interface{}{
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

	h.db.Preload("Customer").Preload("Items").First(&invoice, invoice.ID)
	invoice.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var invoice models.Invoice
	if err := h.db.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if err := invoice.CanTransition(req.Status); err != nil {
		respondError(c, err)
		return
	}

	if err := h.db.Model(&invoice).Update("status", req.Status).Error; err != nil {
		respondError(c, err)
		return
	}

	invoice.Project(h.now())
	c.JSON(http.StatusOK, gin.H{"invoice": invoice})
}

// CreateDeliveryNote creates a delivery note seeded from the invoice: same
// customer, currency and tax figures, cloned line items tagged as
// delivery-note rows. The invoice status is not touched.
func (h *InvoiceHandler) CreateDeliveryNote(c *gin.Context) {
	var invoice models.Invoice
	if err := h.db.Preload("Items").First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var note models.DeliveryNote
	err := createWithNumberRetry(h.db, func(tx *gorm.DB) error {
		number, err := nextDocumentNumber(tx, models.DocTypeDeliveryNote, 0)
		if err != nil {
			return err
		}

		invoiceID := invoice.ID
		note = models.DeliveryNote{
			DeliveryNo: number,
			CustomerID: invoice.CustomerID,
			InvoiceID:  &invoiceID,
			Currency:   invoice.Currency,
			Notes:      invoice.Notes,
			TaxRate:    invoice.TaxRate,
			Subtotal:   invoice.Subtotal,
			TaxAmount:  invoice.TaxAmount,
			Total:      invoice.Total,
			Status:     models.DeliveryStatusPending,
		}
		if err := tx.Create(&note).Error; err != nil {
			return err
		}

		clones := make([]models.LineItem, 0, len(invoice.Items))
		for _, item := range invoice.Items {
			clone, err := item.CloneFor(models.DocTypeDeliveryNote, note.ID)
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
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	h.db.Preload("Customer").Preload("Items").First(&note, note.ID)

	log.Info().
		Uint("invoice_id", invoice.ID).
		Uint("delivery_note_id", note.ID).
		Str("delivery_no", note.DeliveryNo).
		Msg("delivery note created from invoice")
	c.JSON(http.StatusCreated, gin.H{
		"message":       "Delivery note created",
		"delivery_note": note,
	})
}

type RecordPaymentRequest struct {
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method" binding:"required,oneof=CASH BANK CARD"`
	Reference string          `json:"reference"`
	PaidAt    *time.Time      `json:"paid_at"`
	Notes     string          `json:"notes"`
}

// RecordPayment registers a payment against the invoice. When the recorded
// payments cover the total, a sent invoice moves to paid.
func (h *InvoiceHandler) RecordPayment(c *gin.Context) {
	var req RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		respondError(c, fmt.Errorf("%w: payment amount must be greater than zero", utils.ErrValidation))
		return
	}

	var invoice models.Invoice
	if err := h.db.Preload("Payments").First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if invoice.Status == models.InvoiceStatusCancelled {
		respondError(c, fmt.Errorf("%w: cannot record a payment on a cancelled invoice", utils.ErrConflict))
		return
	}

	paidAt := h.now()
	if req.PaidAt != nil {
		paidAt = *req.PaidAt
	}
	payment := models.Payment{
		InvoiceID: invoice.ID,
		Amount:    req.Amount,
		Currency:  invoice.Currency,
		Method:    req.Method,
		Reference: req.Reference,
		PaidAt:    paidAt,
		Notes:     req.Notes,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		paid := invoice.PaidAmount().Add(req.Amount)
		if invoice.Status == models.InvoiceStatusSent && paid.GreaterThanOrEqual(invoice.Total) {
			if err := tx.Model(&invoice).Update("status", models.InvoiceStatusPaid).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	invoice.Project(h.now())
	c.JSON(http.StatusCreated, gin.H{
		"payment":        payment,
		"invoice_status": invoice.Status,
	})
}

// DeleteInvoice refuses to remove an invoice that a delivery note references.
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	var invoice models.Invoice
	if err := h.db.First(&invoice, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: invoice", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var dependents int64
	if err := h.db.Model(&models.DeliveryNote{}).Where("invoice_id = ?", invoice.ID).Count(&dependents).Error; err != nil {
		respondError(c, err)
		return
	}
	if dependents > 0 {
		respondError(c, fmt.Errorf("%w: invoice %d has %d delivery note(s) referencing it", utils.ErrConflict, invoice.ID, dependents))
		return
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&models.LineItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoice).Error
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted"})
}
