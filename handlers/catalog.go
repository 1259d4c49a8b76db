package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
	"github.com/yourusername/biztrack/utils"
)

// CatalogHandler serves the product and service catalog. Prices changed here
// never touch existing line items; those keep the snapshot taken when they
// were created.
type CatalogHandler struct {
	db *gorm.DB
}

func NewCatalogHandler(db *gorm.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

type ProductRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, utils.ErrInvalidPrice)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		SKU:         req.SKU,
		UnitPrice:   req.UnitPrice,
	}
	if err := h.db.Create(&product).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *CatalogHandler) GetProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: product", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *CatalogHandler) ListProducts(c *gin.Context) {
	var products []models.Product
	if err := h.db.Order("name").Find(&products).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"products": products, "total": len(products)})
}

func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var product models.Product
	if err := h.db.First(&product, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: product", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, utils.ErrInvalidPrice)
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	product.SKU = req.SKU
	product.UnitPrice = req.UnitPrice
	if err := h.db.Save(&product).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.db.Delete(&models.Product{}, c.Param("id")).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted"})
}

type ServiceRequest struct {
	Name        string          `json:"name" binding:"required"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, utils.ErrInvalidPrice)
		return
	}

	service := models.Service{
		Name:        req.Name,
		Description: req.Description,
		UnitPrice:   req.UnitPrice,
	}
	if err := h.db.Create(&service).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": service})
}

func (h *CatalogHandler) GetService(c *gin.Context) {
	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: service", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

func (h *CatalogHandler) ListServices(c *gin.Context) {
	var services []models.Service
	if err := h.db.Order("name").Find(&services).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"services": services, "total": len(services)})
}

func (h *CatalogHandler) UpdateService(c *gin.Context) {
	var service models.Service
	if err := h.db.First(&service, c.Param("id")).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondError(c, fmt.Errorf("%w: service", utils.ErrNotFound))
			return
		}
		respondError(c, err)
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.UnitPrice.IsNegative() {
		respondError(c, utils.ErrInvalidPrice)
		return
	}

	service.Name = req.Name
	service.Description = req.Description
	service.UnitPrice = req.UnitPrice
	if err := h.db.Save(&service).Error; err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

func (h *CatalogHandler) DeleteService(c *gin.Context) {
	if err := h.db.Delete(&models.Service{}, c.Param("id")).Error; err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Service deleted"})
}
