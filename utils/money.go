package utils

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrInvalidPrice    = errors.New("unit price cannot be negative")
	ErrInvalidTaxRate  = errors.New("tax rate cannot be negative")
)

var oneHundred = decimal.NewFromInt(100)

// Round2 rounds a monetary amount to 2 decimal places, half up.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineTotal returns round2(quantity * unitPrice).
func LineTotal(quantity, unitPrice decimal.Decimal) (decimal.Decimal, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, ErrInvalidQuantity
	}
	if unitPrice.IsNegative() {
		return decimal.Zero, ErrInvalidPrice
	}
	return Round2(quantity.Mul(unitPrice)), nil
}

// Tax returns round2(subtotal * ratePercent / 100). A zero rate is valid.
func Tax(subtotal, ratePercent decimal.Decimal) (decimal.Decimal, error) {
	if ratePercent.IsNegative() {
		return decimal.Zero, ErrInvalidTaxRate
	}
	return Round2(subtotal.Mul(ratePercent).Div(oneHundred)), nil
}

// Totals holds the three monetary figures of a document.
type Totals struct {
	Subtotal  decimal.Decimal
	TaxAmount decimal.Decimal
	Total     decimal.Decimal
}

// DocumentTotals derives a document's figures from its already-rounded line
// totals. The subtotal is the exact sum of the line totals, never re-derived
// from quantity times price, so the displayed subtotal, tax and total always
// agree to the cent.
func DocumentTotals(lineTotals []decimal.Decimal, ratePercent decimal.Decimal) (Totals, error) {
	subtotal := decimal.Zero
	for _, lt := range lineTotals {
		subtotal = subtotal.Add(lt)
	}
	subtotal = Round2(subtotal)

	taxAmount, err := Tax(subtotal, ratePercent)
	if err != nil {
		return Totals{}, err
	}

	return Totals{
		Subtotal:  subtotal,
		TaxAmount: taxAmount,
		Total:     Round2(subtotal.Add(taxAmount)),
	}, nil
}
