package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/config"
	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

type DeliveryNoteHandler struct {
	db  *gorm.DB
	cfg *config.Config
	now func() time.Time
}

func NewDeliveryNoteHandler(db *gorm.DB, cfg *config.Config) *DeliveryNoteHandler {
	return &DeliveryNoteHandler{
		db:  db,
		cfg: cfg,
		now: time.Now,
	}
}

func (h *DeliveryNoteHandler) GetDeliveryNote(c *gin.Context) {
	var note models.DeliveryNote
	if err := h.db.Preload("Customer").Preload("Items").
		First(&note, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: delivery note", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_note": note})
}

func (h *DeliveryNoteHandler) ListDeliveryNotes(c *gin.Context) {
	query := h.db.Preload("Customer").Preload("Items")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if customerID := c.Query("customer_id"); customerID != "" {
		query = query.Where("customer_id = ?", customerID)
	}

	var notes []models.DeliveryNote
	if err := query.Order("id DESC").Find(&notes).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_notes": notes, "total": len(notes)})
}

// UpdateDeliveryNoteStatus transitions the note; reaching delivered stamps
// the delivered date.
func (h *DeliveryNoteHandler) UpdateDeliveryNoteStatus(c *gin.Context) {
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var note models.DeliveryNote
	if err := h.db.First(&note, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: delivery note", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	if err := note.CanTransition(req.Status); err != nil {
		respondError(c, err)
		return
	}

	updates := map[string]interface{}{"status": req.Status}
	if req.Status == models.DeliveryStatusDelivered {
		updates["delivered_at"] = h.now()
	}
	if err := h.db.Model(&note).Updates(updates).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"delivery_note": note})
}
