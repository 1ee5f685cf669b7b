// Package catalog holds the reference data pulled from the backend:
// product groups, categories, products, tag groups, product tags, charges
// and payment methods.
//
// Catalog rows are plain records rather than guarded aggregates: they are
// written only by idempotent bulk upserts during a sync pull and carry no
// local invariants to protect.
package catalog

import "time"

type ProductGroup struct {
	ID        string
	Name      string
	Active    int // backend boolean mapped to 0/1
	SortOrder int
	UpdatedAt time.Time
}

type ProductCategory struct {
	ID        string
	GroupID   string
	Name      string
	Active    int
	SortOrder int
	UpdatedAt time.Time
}

type Product struct {
	ID          string
	CategoryID  string
	Name        string
	Description string
	Price       float64
	Active      int
	ImageURL    string
	TagIDs      string // serialized array, "[]" when absent
	UpdatedAt   time.Time
}

type TagGroup struct {
	ID        string
	Name      string
	MinSelect int
	MaxSelect int
	Active    int
	UpdatedAt time.Time
}

type ProductTag struct {
	ID         string
	TagGroupID string
	Name       string
	Price      float64
	Active     int
	UpdatedAt  time.Time
}

type Charge struct {
	ID         string
	Name       string
	ChargeType string // percentage or fixed
	Value      float64
	Active     int
	UpdatedAt  time.Time
}

// ChargeMapping binds a charge to a location and order mode.
type ChargeMapping struct {
	ID          string
	ChargeID    string
	LocationID  string
	OrderModeID string
	Active      int
	UpdatedAt   time.Time
}

type PaymentMethod struct {
	ID        string
	Name      string
	Code      string
	Active    int
	SortOrder int
	UpdatedAt time.Time
}
