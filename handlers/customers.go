package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

type CustomerHandler struct {
	db *gorm.DB
}

func NewCustomerHandler(db *gorm.DB) *CustomerHandler {
	return &CustomerHandler{db: db}
}

type CustomerRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

func (h *CustomerHandler) CreateCustomer(c *gin.Context) {
	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer := models.Customer{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
	}
	if err := h.db.Create(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, fmt.Errorf("%w: a customer with email %s already exists", utils.ErrConflict, req.Email))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"customer": customer})
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	var customer models.Customer
	if err := h.db.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: customer", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	var customers []models.Customer
	if err := h.db.Order("name").Find(&customers).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customers": customers, "total": len(customers)})
}

func (h *CustomerHandler) UpdateCustomer(c *gin.Context) {
	var customer models.Customer
	if err := h.db.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: customer", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var req CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	customer.Name = req.Name
	customer.Email = req.Email
	customer.Phone = req.Phone
	customer.Address = req.Address
	if err := h.db.Save(&customer).Error; err != nil {
		if isUniqueViolation(err) {
			respondError(c, fmt.Errorf("%w: a customer with email %s already exists", utils.ErrConflict, req.Email))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"customer": customer})
}

// DeleteCustomer refuses to remove a customer with documents on file.
func (h *CustomerHandler) DeleteCustomer(c *gin.Context) {
	var customer models.Customer
	if err := h.db.First(&customer, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: customer", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var documents int64
	for _, model := range []interface{}{&models.Quotation{}, &models.Invoice{}, &models.DeliveryNote{}} {
		var count int64
		if err := h.db.Model(model).Where("customer_id = ?", customer.ID).Count(&count).Error; err != nil {
			respondError(c, err)
			return
		}
		documents += count
	}
	if documents > 0 {
		respondError(c, fmt.Errorf("%w: customer %d has %d document(s) on file", utils.ErrConflict, customer.ID, documents))
		return
	}

	if err := h.db.Delete(&customer).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Customer deleted"})
}
