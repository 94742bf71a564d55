package models

// CartLineItem pairs a product with how many of it are in the cart.
type CartLineItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// CartState is one immutable snapshot of a cart. Items keep the order in
// which distinct products were first added.
type CartState struct {
	Items []CartLineItem `json:"items"`
}

// Clone returns a snapshot that shares no item slice with s.
func (s CartState) Clone() CartState {
	items := make([]CartLineItem, len(s.Items))
	copy(items, s.Items)
	return CartState{Items: items}
}
