package cart

import (
	"encoding/json"

	"github.com/pkg/errors"

	models "github.com/johnsulf/jsf-ca-ecom-store/model"
)

// ErrCorruptState is returned by Unmarshal for payloads that parse but break
// the cart invariants.
var ErrCorruptState = errors.New("cart: stored state violates invariants")

// Marshal encodes state in the durable storage format
// {"items":[{"product":{...},"quantity":n}]}.
func Marshal(state models.CartState) ([]byte, error) {
	if state.Items == nil {
		state = Empty()
	}
	b, err := json.Marshal(state)
	if err != nil {
		return nil, errors.Wrap(err, "encode cart")
	}
	return b, nil
}

// Unmarshal decodes a stored cart and checks that ids are non-empty and
// unique and that every quantity is at least one.
func Unmarshal(data []byte) (models.CartState, error) {
	var state models.CartState
	if err := json.Unmarshal(data, &state); err != nil {
		return models.CartState{}, errors.Wrap(err, "decode cart")
	}
	if state.Items == nil {
		return Empty(), nil
	}

	seen := make(map[string]struct{}, len(state.Items))
	for _, it := range state.Items {
		if it.Product.ID == "" || it.Quantity < 1 {
			return models.CartState{}, ErrCorruptState
		}
		if _, dup := seen[it.Product.ID]; dup {
			return models.CartState{}, ErrCorruptState
		}
		seen[it.Product.ID] = struct{}{}
	}
	return state, nil
}

// Restore is Unmarshal with every failure mapped to the empty cart.
func Restore(data []byte) models.CartState {
	state, err := Unmarshal(data)
	if err != nil {
		return Empty()
	}
	return state
}
