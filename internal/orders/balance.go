package orders

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	maxAmountLen       = 32
	maxAmountDecimals  = 12 // digits after the point
	maxAmountMagnitude = 15 // digits before the point
)

// ParseAmount converts free-form text into an amount. Anything that does not
// parse as a number, or is too long or too large to be a price, is treated
// as zero.
func ParseAmount(s string) decimal.Decimal {
	s = strings.TrimSpace(s)
	if len(s) > maxAmountLen {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	// exponent dicek sebelum aritmatika apa pun; Round/Sub dengan exponent
	// ekstrem jalan lewat big.Int pow10 dan tidak selesai-selesai.
	exp := int(d.Exponent())
	if exp < -maxAmountDecimals || d.NumDigits()+exp > maxAmountMagnitude {
		return decimal.Zero
	}
	return d
}

// DueAtPickup returns total - paid rounded to cents. Negative results are
// returned as-is.
func DueAtPickup(total, paid decimal.Decimal) decimal.Decimal {
	return total.Sub(paid).Round(2)
}

// Recalculate refreshes r.AmountDueAtPickup and reports whether it changed.
// Calling it again with unchanged inputs is a no-op.
func Recalculate(r *OrderRecord) bool {
	due := DueAtPickup(r.TotalPrice, r.AmountPaidToday)
	if r.AmountDueAtPickup.Equal(due) {
		return false
	}
	r.AmountDueAtPickup = due
	return true
}
