package service

import (
	"context"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

type ServiceInterface interface {
	ListProducts(ctx context.Context, search string) ([]ProductDTO, error)
	GetProduct(ctx context.Context, id string) (ProductDTO, error)

	NewCart() string
	GetCart(ctx context.Context, cartID string) (CartDTO, error)
	AddToCart(ctx context.Context, cartID, productID string) (CartDTO, error)
	RemoveFromCart(ctx context.Context, cartID, productID string) (CartDTO, error)
	ClearCart(ctx context.Context, cartID string) (CartDTO, error)

	Checkout(ctx context.Context, cartID string) (models.Order, error)
	SubmitContact(ctx context.Context, form ContactForm) (ContactReceipt, error)
}
