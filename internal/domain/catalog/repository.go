package catalog

import "context"

// Counts summarizes stored catalog rows per table, used by tests and the
// device-data-clear confirmation screen.
type Counts struct {
	ProductGroups     int64
	ProductCategories int64
	Products          int64
	TagGroups         int64
	ProductTags       int64
	Charges           int64
	ChargeMappings    int64
	PaymentMethods    int64
}

// Total sums all catalog rows.
func (c Counts) Total() int64 {
	return c.ProductGroups + c.ProductCategories + c.Products +
		c.TagGroups + c.ProductTags + c.Charges + c.ChargeMappings + c.PaymentMethods
}

// Repository persists catalog reference data. Every Save* is a bulk upsert
// keyed by primary id: re-applying the same payload is idempotent.
type Repository interface {
	SaveProductGroups(ctx context.Context, rows []ProductGroup) error
	SaveProductCategories(ctx context.Context, rows []ProductCategory) error
	SaveProducts(ctx context.Context, rows []Product) error
	SaveTagGroups(ctx context.Context, rows []TagGroup) error
	SaveProductTags(ctx context.Context, rows []ProductTag) error
	SaveCharges(ctx context.Context, rows []Charge) error
	SaveChargeMappings(ctx context.Context, rows []ChargeMapping) error
	SavePaymentMethods(ctx context.Context, rows []PaymentMethod) error

	ListProducts(ctx context.Context) ([]Product, error)
	ListPaymentMethods(ctx context.Context) ([]PaymentMethod, error)
	CountAll(ctx context.Context) (Counts, error)

	DeleteAll(ctx context.Context) error
}
