package utils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestLineTotal(t *testing.T) {
	tests := []struct {
		name      string
		quantity  string
		unitPrice string
		want      string
		wantErr   error
	}{
		{name: "Whole Numbers", quantity: "2", unitPrice: "10000", want: "20000"},
		{name: "Rounds Half Up", quantity: "0.5", unitPrice: "0.25", want: "0.13"},
		{name: "Fractional Quantity", quantity: "1.5", unitPrice: "99.99", want: "149.99"},
		{name: "Zero Price Is Valid", quantity: "3", unitPrice: "0", want: "0"},
		{name: "Zero Quantity", quantity: "0", unitPrice: "10", wantErr: ErrInvalidQuantity},
		{name: "Negative Quantity", quantity: "-1", unitPrice: "10", wantErr: ErrInvalidQuantity},
		{name: "Negative Price", quantity: "1", unitPrice: "-0.01", wantErr: ErrInvalidPrice},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := LineTotal(d(tt.quantity), d(tt.unitPrice))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, d(tt.want).Equal(got), "got %s, want %s", got, tt.want)
		})
	}
}

func TestLineTotalDeterministic(t *testing.T) {
	a, err := LineTotal(d("3.33"), d("7.77"))
	require.NoError(t, err)
	b, err := LineTotal(d("3.33"), d("7.77"))
	require.NoError(t, err)
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.String(), b.String())
}

func TestTax(t *testing.T) {
	got, err := Tax(d("20250"), d("7.5"))
	require.NoError(t, err)
	assert.True(t, d("1518.75").Equal(got), "got %s", got)

	got, err = Tax(d("100"), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	_, err = Tax(d("100"), d("-1"))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}

func TestDocumentTotals(t *testing.T) {
	// 2 x 10000 + 1 x 250 at 7.5%
	lt1, err := LineTotal(d("2"), d("10000"))
	require.NoError(t, err)
	lt2, err := LineTotal(d("1"), d("250"))
	require.NoError(t, err)

	totals, err := DocumentTotals([]decimal.Decimal{lt1, lt2}, d("7.5"))
	require.NoError(t, err)
	assert.True(t, d("20250").Equal(totals.Subtotal), "subtotal %s", totals.Subtotal)
	assert.True(t, d("1518.75").Equal(totals.TaxAmount), "tax %s", totals.TaxAmount)
	assert.True(t, d("21768.75").Equal(totals.Total), "total %s", totals.Total)
}

func TestDocumentTotalsNoCentDrift(t *testing.T) {
	// Awkward line totals that would drift if tax were taken per line and
	// the unrounded fractions carried forward.
	lineTotals := []decimal.Decimal{d("0.33"), d("0.33"), d("0.34"), d("99.99"), d("0.01")}

	for _, rate := range []string{"0", "5", "7.5", "19.25"} {
		totals, err := DocumentTotals(lineTotals, d(rate))
		if !assert.NoError(t, err, "rate %s", rate) {
			continue
		}
		assert.True(t, totals.Subtotal.Add(totals.TaxAmount).Equal(totals.Total),
			"rate %s: %s + %s != %s", rate, totals.Subtotal, totals.TaxAmount, totals.Total)
		assert.True(t, totals.Total.Equal(totals.Total.Round(2)), "total has more than 2dp: %s", totals.Total)
	}
}

func TestDocumentTotalsIdempotent(t *testing.T) {
	lineTotals := []decimal.Decimal{d("149.99"), d("0.13")}
	first, err := DocumentTotals(lineTotals, d("7.5"))
	require.NoError(t, err)
	second, err := DocumentTotals(lineTotals, d("7.5"))
	require.NoError(t, err)
	assert.Equal(t, first.Subtotal.String(), second.Subtotal.String())
	assert.Equal(t, first.TaxAmount.String(), second.TaxAmount.String())
	assert.Equal(t, first.Total.String(), second.Total.String())
}

func TestDocumentTotalsNegativeRate(t *testing.T) {
	_, err := DocumentTotals([]decimal.Decimal{d("10")}, d("-7.5"))
	assert.ErrorIs(t, err, ErrInvalidTaxRate)
}
