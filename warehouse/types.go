// Package warehouse holds back-office records used as mapping sources in tests.
package warehouse

import (
	"time"
)

// Address is a shipping or billing address.
type Address struct {
	ID         uint   `json:"id"`
	Street     string `json:"street"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Product is a stocked item. Price is in cents, Weight in grams.
type Product struct {
	ID          uint      `json:"id"`
	SKU         string    `json:"sku"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       int64     `json:"price"`
	Stock       int       `json:"stock"`
	IsActive    bool      `json:"is_active"`
	Weight      float64   `json:"weight"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Shipment sends products to an address.
type Shipment struct {
	ID        uint       `json:"id"`
	Products  []Product  `json:"products"`
	Address   Address    `json:"address"`
	ShippedAt *time.Time `json:"shipped_at,omitempty"`
}
