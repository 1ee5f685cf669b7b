package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/slatepos/slate/internal/domain/catalog"
	"github.com/slatepos/slate/internal/infrastructure/persistence/mappers"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// upsertAll is the shared insert-or-replace used by every catalog save.
// Clauses(OnConflict UpdateAll) keyed by primary id makes re-applying the
// same pull payload idempotent.
func upsertAll[T any](ctx context.Context, db *gorm.DB, rows []T) error {
	if len(rows) == 0 {
		return nil
	}
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&rows).Error
}

type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) SaveProductGroups(ctx context.Context, rows []catalog.ProductGroup) error {
	if err := upsertAll(ctx, r.db, mappers.ProductGroupsToModels(rows)); err != nil {
		return wrapDBError("failed to save product groups", err)
	}
	return nil
}

func (r *CatalogRepository) SaveProductCategories(ctx context.Context, rows []catalog.ProductCategory) error {
	if err := upsertAll(ctx, r.db, mappers.ProductCategoriesToModels(rows)); err != nil {
		return wrapDBError("failed to save product categories", err)
	}
	return nil
}

func (r *CatalogRepository) SaveProducts(ctx context.Context, rows []catalog.Product) error {
	if err := upsertAll(ctx, r.db, mappers.ProductsToModels(rows)); err != nil {
		return wrapDBError("failed to save products", err)
	}
	return nil
}

func (r *CatalogRepository) SaveTagGroups(ctx context.Context, rows []catalog.TagGroup) error {
	if err := upsertAll(ctx, r.db, mappers.TagGroupsToModels(rows)); err != nil {
		return wrapDBError("failed to save tag groups", err)
	}
	return nil
}

func (r *CatalogRepository) SaveProductTags(ctx context.Context, rows []catalog.ProductTag) error {
	if err := upsertAll(ctx, r.db, mappers.ProductTagsToModels(rows)); err != nil {
		return wrapDBError("failed to save product tags", err)
	}
	return nil
}

func (r *CatalogRepository) SaveCharges(ctx context.Context, rows []catalog.Charge) error {
	if err := upsertAll(ctx, r.db, mappers.ChargesToModels(rows)); err != nil {
		return wrapDBError("failed to save charges", err)
	}
	return nil
}

func (r *CatalogRepository) SaveChargeMappings(ctx context.Context, rows []catalog.ChargeMapping) error {
	if err := upsertAll(ctx, r.db, mappers.ChargeMappingsToModels(rows)); err != nil {
		return wrapDBError("failed to save charge mappings", err)
	}
	return nil
}

func (r *CatalogRepository) SavePaymentMethods(ctx context.Context, rows []catalog.PaymentMethod) error {
	if err := upsertAll(ctx, r.db, mappers.PaymentMethodsToModels(rows)); err != nil {
		return wrapDBError("failed to save payment methods", err)
	}
	return nil
}

func (r *CatalogRepository) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	var rows []models.ProductModel
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list products", err)
	}
	return mappers.ProductsToDomain(rows), nil
}

func (r *CatalogRepository) ListPaymentMethods(ctx context.Context) ([]catalog.PaymentMethod, error) {
	var rows []models.PaymentMethodModel
	if err := r.db.WithContext(ctx).Order("sort_order ASC").Find(&rows).Error; err != nil {
		return nil, wrapDBError("failed to list payment methods", err)
	}
	return mappers.PaymentMethodsToDomain(rows), nil
}

func (r *CatalogRepository) CountAll(ctx context.Context) (catalog.Counts, error) {
	var counts catalog.Counts
	tables := []struct {
		model any
		dest  *int64
	}{
		{&models.ProductGroupModel{}, &counts.ProductGroups},
		{&models.ProductCategoryModel{}, &counts.ProductCategories},
		{&models.ProductModel{}, &counts.Products},
		{&models.TagGroupModel{}, &counts.TagGroups},
		{&models.ProductTagModel{}, &counts.ProductTags},
		{&models.ChargeModel{}, &counts.Charges},
		{&models.ChargeMappingModel{}, &counts.ChargeMappings},
		{&models.PaymentMethodModel{}, &counts.PaymentMethods},
	}
	for _, t := range tables {
		if err := r.db.WithContext(ctx).Model(t.model).Count(t.dest).Error; err != nil {
			return catalog.Counts{}, wrapDBError("failed to count catalog rows", err)
		}
	}
	return counts, nil
}

func (r *CatalogRepository) DeleteAll(ctx context.Context) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, model := range []any{
			&models.ProductTagModel{},
			&models.TagGroupModel{},
			&models.ProductModel{},
			&models.ProductCategoryModel{},
			&models.ProductGroupModel{},
			&models.ChargeMappingModel{},
			&models.ChargeModel{},
			&models.PaymentMethodModel{},
		} {
			if err := tx.Where("1 = 1").Delete(model).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return wrapDBError("failed to clear catalog", err)
	}
	return nil
}
