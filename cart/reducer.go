// Package cart owns shopping-cart state: a pure reducer over immutable
// snapshots, a Store that persists every snapshot under one storage key, and
// the totals derived from a snapshot.
package cart

import (
	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

// Action is one of AddItem, RemoveItem or ClearCart.
type Action interface {
	isAction()
}

// AddItem adds one unit of Product.
type AddItem struct {
	Product models.Product
}

// RemoveItem drops the whole line item for ProductID, whatever its quantity.
type RemoveItem struct {
	ProductID string
}

// ClearCart empties the cart.
type ClearCart struct{}

func (AddItem) isAction()    {}
func (RemoveItem) isAction() {}
func (ClearCart) isAction()  {}

// Reduce returns the snapshot that follows state after action. The returned
// state never shares its item slice with the input.
func Reduce(state models.CartState, action Action) models.CartState {
	switch a := action.(type) {
	case AddItem:
		next := state.Clone()
		for i := range next.Items {
			if next.Items[i].Product.ID == a.Product.ID {
				// first-seen product data wins
				next.Items[i].Quantity++
				return next
			}
		}
		next.Items = append(next.Items, models.CartLineItem{Product: a.Product, Quantity: 1})
		return next

	case RemoveItem:
		items := make([]models.CartLineItem, 0, len(state.Items))
		for _, it := range state.Items {
			if it.Product.ID != a.ProductID {
				items = append(items, it)
			}
		}
		return models.CartState{Items: items}

	case ClearCart:
		return Empty()
	}
	return state.Clone()
}

// Empty is the initial cart state.
func Empty() models.CartState {
	return models.CartState{Items: []models.CartLineItem{}}
}
