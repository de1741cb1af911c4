// Package types holds the storefront data model shared by the API client,
// the cart store and the persistence layer.
package types

import (
	"github.com/shopspring/decimal"
)

// Product is a catalog entry as served by GET /products.
type Product struct {
	ID          int64           `json:"id"`
	ImageURL    string          `json:"image_url,omitempty"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Review is a customer review. Text is an untrusted HTML fragment.
type Review struct {
	ID   int64  `json:"id"`
	Text string `json:"text"`
}

// ProductPage is one page of the catalog.
type ProductPage struct {
	Page   int       `json:"page"`
	Amount int       `json:"amount"`
	Total  int       `json:"total"`
	Items  []Product `json:"items"`
}

// CartItem is one line of the cart. Product is the snapshot taken when the
// item was first added; Quantity is always positive while the item is stored.
type CartItem struct {
	ProductID int64   `json:"productId"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
}

// Subtotal returns price × quantity for the line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// OrderLine is a cart line stripped of its product snapshot.
type OrderLine struct {
	ID       int64 `json:"id"`
	Quantity int   `json:"quantity"`
}

// OrderRequest is the body of POST /order.
type OrderRequest struct {
	Phone string      `json:"phone"`
	Cart  []OrderLine `json:"cart"`
}

// OrderResponse is the body returned by POST /order. Success is 1 on
// acceptance and 0 otherwise.
type OrderResponse struct {
	Success int    `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Lines converts cart items into order lines.
func Lines(items []CartItem) []OrderLine {
	lines := make([]OrderLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, OrderLine{ID: item.ProductID, Quantity: item.Quantity})
	}
	return lines
}
