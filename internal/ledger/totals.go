package ledger

import (
	"github.com/shopspring/decimal"

	"rufay/internal/models"
)

var hundred = decimal.NewFromInt(100)

// PaymentStatusFor derives an invoice status from what has been paid against its total.
// Paying exactly the total counts as Paid.
func PaymentStatusFor(amountPaid, total float64) string {
	switch {
	case amountPaid >= total:
		return models.PaymentPaid
	case amountPaid > 0:
		return models.PaymentPartial
	default:
		return models.PaymentUnpaid
	}
}

// LineTotal is rate × quantity less the line discount percentage
func LineTotal(item models.LineItem) decimal.Decimal {
	gross := decimal.NewFromFloat(item.Rate).Mul(decimal.NewFromFloat(item.Quantity))
	keep := hundred.Sub(decimal.NewFromFloat(item.Discount)).Div(hundred)
	return gross.Mul(keep)
}

// DocumentTotal sums the discounted lines and applies the tax percentage
func DocumentTotal(items []models.LineItem, taxPercent float64) float64 {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineTotal(item))
	}
	withTax := subtotal.Mul(hundred.Add(decimal.NewFromFloat(taxPercent)).Div(hundred))
	return withTax.InexactFloat64()
}

// applyPayment adds delta to amountPaid, clamps at zero and returns the new amount and status
func applyPayment(amountPaid, delta, total float64) (float64, string) {
	paid := decimal.NewFromFloat(amountPaid).Add(decimal.NewFromFloat(delta)).InexactFloat64()
	if paid < 0 {
		paid = 0
	}
	return paid, PaymentStatusFor(paid, total)
}
