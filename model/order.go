package models

import "time"

// Order is the receipt produced by a checkout. Total is already rounded for display.
type Order struct {
	ID        string         `json:"id"`
	CartID    string         `json:"cart_id"`
	Items     []CartLineItem `json:"items"`
	ItemCount int            `json:"item_count"`
	Total     string         `json:"total"`
	CreatedAt time.Time      `json:"created_at"`
}
