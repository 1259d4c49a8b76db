package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
)

func newCatalogRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCatalogHandler(db)

	router := gin.New()
	router.POST("/products", handler.CreateProduct)
	router.GET("/products", handler.ListProducts)
	router.POST("/services", handler.CreateService)
	return router
}

func TestCreateProduct(t *testing.T) {
	db := setupTestDB(t)
	router := newCatalogRouter(db)

	w := postJSON(router, "/products", gin.H{
		"name":       "Industrial Generator",
		"sku":        "GEN-5500",
		"unit_price": "450000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product models.Product
	require.NoError(t, db.Where("sku = ?", "GEN-5500").First(&product).Error)
	assert.True(t, dec(t, "450000").Equal(product.UnitPrice))

	t.Run("Negative Price", func(t *testing.T) {
		w := postJSON(router, "/products", gin.H{
			"name": "Broken", "unit_price": "-1",
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Missing Name", func(t *testing.T) {
		w := postJSON(router, "/products", gin.H{"unit_price": "10"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateService(t *testing.T) {
	db := setupTestDB(t)
	router := newCatalogRouter(db)

	w := postJSON(router, "/services", gin.H{
		"name":       "Installation",
		"unit_price": "25000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var service models.Service
	require.NoError(t, db.Where("name = ?", "Installation").First(&service).Error)
	assert.True(t, dec(t, "25000").Equal(service.UnitPrice))
}
