package orders

import (
	"errors"

	"github.com/shopspring/decimal"
)

// Field names yang dikirim oleh form (field edit event).
const (
	FieldPickupDate        = "pickupDate"
	FieldCustomerName      = "customerName"
	FieldOccasion          = "occasion"
	FieldCakeSize          = "cakeSize"
	FieldCakeFlavor        = "cakeFlavor"
	FieldDecorationDetails = "decorationDetails"
	FieldTotalPrice        = "totalPrice"
	FieldAmountPaidToday   = "amountPaidToday"
	FieldAmountDueAtPickup = "amountDueAtPickup" // derived, read-only
)

var (
	ErrUnknownField  = errors.New("unknown field")
	ErrReadOnlyField = errors.New("field is derived and cannot be edited")
)

// OrderRecord is the data held for one cake order.
type OrderRecord struct {
	PickupDate        string          `json:"pickupDate"`
	CustomerName      string          `json:"customerName"`
	Occasion          string          `json:"occasion"`
	CakeSize          string          `json:"cakeSize"`
	CakeFlavor        string          `json:"cakeFlavor"`
	DecorationDetails string          `json:"decorationDetails"`
	TotalPrice        decimal.Decimal `json:"totalPrice"`
	AmountPaidToday   decimal.Decimal `json:"amountPaidToday"`
	AmountDueAtPickup decimal.Decimal `json:"amountDueAtPickup"`
}

// IsZero reports whether every field is empty or zero.
func (r OrderRecord) IsZero() bool {
	return r.PickupDate == "" && r.CustomerName == "" && r.Occasion == "" &&
		r.CakeSize == "" && r.CakeFlavor == "" && r.DecorationDetails == "" &&
		r.TotalPrice.IsZero() && r.AmountPaidToday.IsZero() && r.AmountDueAtPickup.IsZero()
}

// set applies one field edit. Price edits re-derive the balance before returning.
func (r *OrderRecord) set(field, value string) error {
	switch field {
	case FieldPickupDate:
		r.PickupDate = value
	case FieldCustomerName:
		r.CustomerName = value
	case FieldOccasion:
		r.Occasion = value
	case FieldCakeSize:
		r.CakeSize = value
	case FieldCakeFlavor:
		r.CakeFlavor = value
	case FieldDecorationDetails:
		r.DecorationDetails = value
	case FieldTotalPrice:
		r.TotalPrice = ParseAmount(value)
		Recalculate(r)
	case FieldAmountPaidToday:
		r.AmountPaidToday = ParseAmount(value)
		Recalculate(r)
	case FieldAmountDueAtPickup:
		return ErrReadOnlyField
	default:
		return ErrUnknownField
	}
	return nil
}
