package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatInvoiceNo(t *testing.T) {
	assert.Equal(t, "INV-2026-0001", FormatInvoiceNo(2026, 1))
	assert.Equal(t, "INV-2026-0042", FormatInvoiceNo(2026, 42))
	assert.Equal(t, "INV-2027-12345", FormatInvoiceNo(2027, 12345))
}

func TestFormatDeliveryNo(t *testing.T) {
	assert.Equal(t, "DN-0001", FormatDeliveryNo(1))
	assert.Equal(t, "DN-0310", FormatDeliveryNo(310))
}
