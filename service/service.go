package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/johnsulf/jsf-ca-ecom-store/cart"
	"github.com/johnsulf/jsf-ca-ecom-store/client"
	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

var (
	ErrCartIDRequired    = errors.New("cart_id required")
	ErrInvalidCartID     = errors.New("cart_id must be a uuid")
	ErrProductIDRequired = errors.New("product_id required")
	ErrCartEmpty         = errors.New("cart empty")
)

// ProductSource is the product backend.
type ProductSource interface {
	FetchAllProducts(ctx context.Context) ([]models.Product, error)
	FetchProductByID(ctx context.Context, id string) (models.Product, error)
}

// Carts hands out the store for a cart id.
type Carts interface {
	Open(ctx context.Context, cartID string) (*cart.Store, error)
	State(ctx context.Context, cartID string) (models.CartState, error)
}

type Service struct {
	products ProductSource
	carts    Carts
	log      logrus.FieldLogger

	now   func() time.Time
	newID func() string
}

func NewService(products ProductSource, carts Carts, log logrus.FieldLogger) *Service {
	return &Service{
		products: products,
		carts:    carts,
		log:      log,
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

func (s *Service) ListProducts(ctx context.Context, search string) ([]ProductDTO, error) {
	products, err := s.products.FetchAllProducts(ctx)
	if err != nil {
		return nil, err
	}
	products = client.FilterByTitle(products, search)

	out := make([]ProductDTO, 0, len(products))
	for _, p := range products {
		out = append(out, toProductDTO(p))
	}
	return out, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (ProductDTO, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return ProductDTO{}, ErrProductIDRequired
	}
	p, err := s.products.FetchProductByID(ctx, id)
	if err != nil {
		return ProductDTO{}, err
	}
	return toProductDTO(p), nil
}

// NewCart allocates an id for a fresh, empty cart.
func (s *Service) NewCart() string {
	return s.newID()
}

// GetCart reads a cart without opening it, so looking at unknown ids keeps
// nothing in memory.
func (s *Service) GetCart(ctx context.Context, cartID string) (CartDTO, error) {
	if err := checkCartID(cartID); err != nil {
		return CartDTO{}, err
	}
	state, err := s.carts.State(ctx, cartID)
	if err != nil {
		return CartDTO{}, err
	}
	return toCartDTO(cartID, state), nil
}

// AddToCart looks the product up in the backend and adds one unit of it.
func (s *Service) AddToCart(ctx context.Context, cartID, productID string) (CartDTO, error) {
	store, err := s.open(ctx, cartID)
	if err != nil {
		return CartDTO{}, err
	}
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return CartDTO{}, ErrProductIDRequired
	}

	p, err := s.products.FetchProductByID(ctx, productID)
	if err != nil {
		return CartDTO{}, err
	}
	return toCartDTO(cartID, store.AddToCart(ctx, p)), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, cartID, productID string) (CartDTO, error) {
	store, err := s.open(ctx, cartID)
	if err != nil {
		return CartDTO{}, err
	}
	if strings.TrimSpace(productID) == "" {
		return CartDTO{}, ErrProductIDRequired
	}
	return toCartDTO(cartID, store.RemoveFromCart(ctx, productID)), nil
}

func (s *Service) ClearCart(ctx context.Context, cartID string) (CartDTO, error) {
	store, err := s.open(ctx, cartID)
	if err != nil {
		return CartDTO{}, err
	}
	return toCartDTO(cartID, store.ClearCart(ctx)), nil
}

// Checkout turns the cart into an order and empties it.
func (s *Service) Checkout(ctx context.Context, cartID string) (models.Order, error) {
	store, err := s.open(ctx, cartID)
	if err != nil {
		return models.Order{}, err
	}
	if len(store.Items()) == 0 {
		return models.Order{}, ErrCartEmpty
	}

	state := store.Drain(ctx)
	if len(state.Items) == 0 {
		return models.Order{}, ErrCartEmpty
	}

	order := models.Order{
		ID:        s.newID(),
		CartID:    cartID,
		Items:     state.Items,
		ItemCount: cart.ItemCount(state),
		Total:     cart.FormatPrice(cart.TotalPrice(state)),
		CreatedAt: s.now().UTC(),
	}
	s.log.WithFields(logrus.Fields{
		"order_id": order.ID,
		"cart_id":  cartID,
		"items":    order.ItemCount,
		"total":    order.Total,
	}).Info("order placed")
	return order, nil
}

func (s *Service) open(ctx context.Context, cartID string) (*cart.Store, error) {
	if err := checkCartID(cartID); err != nil {
		return nil, err
	}
	return s.carts.Open(ctx, cartID)
}

func checkCartID(cartID string) error {
	if cartID == "" {
		return ErrCartIDRequired
	}
	if _, err := uuid.Parse(cartID); err != nil {
		return ErrInvalidCartID
	}
	return nil
}
