package models

import "math"

// Product is a catalogue entry as served by the product backend.
type Product struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Description     string       `json:"description"`
	Price           float64      `json:"price"`
	DiscountedPrice float64      `json:"discountedPrice"`
	Image           ProductImage `json:"image"`
	Rating          float64      `json:"rating"`
	Tags            []string     `json:"tags"`
	Reviews         []Review     `json:"reviews"`
}

type ProductImage struct {
	URL string `json:"url"`
	Alt string `json:"alt"`
}

type Review struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
}

// PageMeta is the pagination block returned with product listings.
type PageMeta struct {
	IsFirstPage  bool `json:"isFirstPage"`
	IsLastPage   bool `json:"isLastPage"`
	CurrentPage  int  `json:"currentPage"`
	PreviousPage *int `json:"previousPage"`
	NextPage     *int `json:"nextPage"`
	PageCount    int  `json:"pageCount"`
	TotalCount   int  `json:"totalCount"`
}

func (p Product) HasDiscount() bool {
	return p.DiscountedPrice < p.Price
}

// DiscountPercent returns the whole-number percentage off the list price.
func (p Product) DiscountPercent() int {
	if p.Price <= 0 || !p.HasDiscount() {
		return 0
	}
	return int(math.Round((p.Price - p.DiscountedPrice) / p.Price * 100))
}
