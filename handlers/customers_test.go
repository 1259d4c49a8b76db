package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
)

func newCustomerRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewCustomerHandler(db)

	router := gin.New()
	router.POST("/customers", handler.CreateCustomer)
	router.GET("/customers", handler.ListCustomers)
	router.GET("/customers/:id", handler.GetCustomer)
	router.PUT("/customers/:id", handler.UpdateCustomer)
	router.DELETE("/customers/:id", handler.DeleteCustomer)
	return router
}

func TestCustomerCRUD(t *testing.T) {
	db := setupTestDB(t)
	router := newCustomerRouter(db)

	w := postJSON(router, "/customers", gin.H{
		"name":  "Obi & Sons Ltd",
		"email": "billing@obiandsons.ng",
		"phone": "+2348012345678",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created struct {
		Customer models.Customer `json:"customer"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	id := created.Customer.ID

	t.Run("Duplicate Email", func(t *testing.T) {
		w := postJSON(router, "/customers", gin.H{
			"name": "Someone Else", "email": "billing@obiandsons.ng",
		})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Invalid Email", func(t *testing.T) {
		w := postJSON(router, "/customers", gin.H{"name": "x", "email": "not-an-email"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Update", func(t *testing.T) {
		body, _ := json.Marshal(gin.H{
			"name": "Obi & Sons Ltd", "email": "billing@obiandsons.ng", "address": "14 Marina, Lagos",
		})
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", fmt.Sprintf("/customers/%d", id), bytes.NewReader(body))
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var customer models.Customer
		require.NoError(t, db.First(&customer, id).Error)
		assert.Equal(t, "14 Marina, Lagos", customer.Address)
	})

	t.Run("Get Missing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/customers/999", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteCustomer(t *testing.T) {
	db := setupTestDB(t)
	router := newCustomerRouter(db)

	t.Run("Blocked By Documents", func(t *testing.T) {
		customer := seedCustomer(t, db)
		require.NoError(t, db.Create(&models.Quotation{
			CustomerID: customer.ID,
			Currency:   "NGN",
			Status:     models.QuotationStatusDraft,
		}).Error)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/customers/%d", customer.ID), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("No Documents", func(t *testing.T) {
		customer := models.Customer{Name: "Fresh", Email: "fresh@example.com"}
		require.NoError(t, db.Create(&customer).Error)

		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", fmt.Sprintf("/customers/%d", customer.ID), nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
