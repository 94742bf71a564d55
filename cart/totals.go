package cart

import (
	"github.com/shopspring/decimal"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

// ItemCount is the sum of quantities across all line items.
func ItemCount(state models.CartState) int {
	n := 0
	for _, it := range state.Items {
		n += it.Quantity
	}
	return n
}

// LineTotal is discountedPrice x quantity for one line item.
func LineTotal(item models.CartLineItem) decimal.Decimal {
	return decimal.NewFromFloat(item.Product.DiscountedPrice).Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// TotalPrice accumulates line totals without rounding; round with FormatPrice
// only when displaying.
func TotalPrice(state models.CartState) decimal.Decimal {
	total := decimal.Zero
	for _, it := range state.Items {
		total = total.Add(LineTotal(it))
	}
	return total
}

// FormatPrice renders an amount with exactly two decimals.
func FormatPrice(d decimal.Decimal) string {
	return d.StringFixed(2)
}
