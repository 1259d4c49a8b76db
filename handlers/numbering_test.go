package handlers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yourusername/biztrack/models"
)

func TestNextDocumentNumber(t *testing.T) {
	db := setupTestDB(t)

	t.Run("Invoice Sequence Per Year", func(t *testing.T) {
		var numbers []string
		for i := 0; i < 3; i++ {
			err := db.Transaction(func(tx *gorm.DB) error {
				n, err := nextDocumentNumber(tx, models.DocTypeInvoice, 2026)
				numbers = append(numbers, n)
				return err
			})
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"INV-2026-0001", "INV-2026-0002", "INV-2026-0003"}, numbers)

		// a new year starts its own sequence
		err := db.Transaction(func(tx *gorm.DB) error {
			n, err := nextDocumentNumber(tx, models.DocTypeInvoice, 2027)
			assert.Equal(t, "INV-2027-0001", n)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("Delivery Note Sequence", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			n, err := nextDocumentNumber(tx, models.DocTypeDeliveryNote, 0)
			assert.Equal(t, "DN-0001", n)
			return err
		})
		require.NoError(t, err)
	})

	t.Run("Unknown Kind", func(t *testing.T) {
		err := db.Transaction(func(tx *gorm.DB) error {
			_, err := nextDocumentNumber(tx, "receipt", 2026)
			return err
		})
		assert.Error(t, err)
	})
}

// Concurrent creations must never be assigned the same document number, even
// when they race for the first-ever number of a sequence.
func TestConcurrentNumberingNoDuplicates(t *testing.T) {
	db := setupTestDB(t)
	customer := seedCustomer(t, db)

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = createWithNumberRetry(db, func(tx *gorm.DB) error {
				number, err := nextDocumentNumber(tx, models.DocTypeInvoice, 2026)
				if err != nil {
					return err
				}
				return tx.Create(&models.Invoice{
					InvoiceNo:  number,
					CustomerID: customer.ID,
					Currency:   "NGN",
					Status:     models.InvoiceStatusDraft,
				}).Error
			})
		}()
	}
	wg.Wait()

	for i, err := range errs {
		require.NoError(t, err, "worker %d", i)
	}

	var invoices []models.Invoice
	require.NoError(t, db.Find(&invoices).Error)
	require.Len(t, invoices, workers)

	seen := make(map[string]bool, workers)
	for _, inv := range invoices {
		assert.False(t, seen[inv.InvoiceNo], "duplicate number %s", inv.InvoiceNo)
		seen[inv.InvoiceNo] = true
	}

	var seq models.DocumentSequence
	require.NoError(t, db.Where("kind = ? AND year = ?", models.DocTypeInvoice, 2026).First(&seq).Error)
	assert.Equal(t, int64(workers), seq.LastValue)
}
