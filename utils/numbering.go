package utils

import "fmt"

// FormatInvoiceNo renders an invoice number, e.g. INV-2026-0042.
func FormatInvoiceNo(year int, seq int64) string {
	return fmt.Sprintf("INV-%d-%04d", year, seq)
}

// FormatDeliveryNo renders a delivery note number, e.g. DN-0007.
func FormatDeliveryNo(seq int64) string {
	return fmt.Sprintf("DN-%04d", seq)
}
