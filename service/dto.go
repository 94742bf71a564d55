package service

import (
	"github.com/johnsulf/jsf-ca-ecom-store/cart"
	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

// DTOs
type ProductDTO struct {
	models.Product
	HasDiscount     bool `json:"hasDiscount"`
	DiscountPercent int  `json:"discountPercent"`
}

type CartItemDTO struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal string         `json:"line_total"`
}

type CartDTO struct {
	CartID    string        `json:"cart_id"`
	Items     []CartItemDTO `json:"items"`
	ItemCount int           `json:"item_count"`
	Total     string        `json:"total"`
}

func toProductDTO(p models.Product) ProductDTO {
	return ProductDTO{Product: p, HasDiscount: p.HasDiscount(), DiscountPercent: p.DiscountPercent()}
}

func toCartDTO(cartID string, state models.CartState) CartDTO {
	items := make([]CartItemDTO, 0, len(state.Items))
	for _, it := range state.Items {
		items = append(items, CartItemDTO{
			Product:   it.Product,
			Quantity:  it.Quantity,
			LineTotal: cart.FormatPrice(cart.LineTotal(it)),
		})
	}
	return CartDTO{
		CartID:    cartID,
		Items:     items,
		ItemCount: cart.ItemCount(state),
		Total:     cart.FormatPrice(cart.TotalPrice(state)),
	}
}
