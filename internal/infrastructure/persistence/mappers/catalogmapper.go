package mappers

import (
	"github.com/slatepos/slate/internal/domain/catalog"
	"github.com/slatepos/slate/internal/infrastructure/persistence/models"
)

// Catalog rows are plain records; mapping is field-for-field in both
// directions with no validation beyond what the pull stage already did.

func ProductGroupsToModels(rows []catalog.ProductGroup) []models.ProductGroupModel {
	out := make([]models.ProductGroupModel, len(rows))
	for i, r := range rows {
		out[i] = models.ProductGroupModel{
			ID:        r.ID,
			Name:      r.Name,
			Active:    r.Active,
			SortOrder: r.SortOrder,
		}
	}
	return out
}

func ProductCategoriesToModels(rows []catalog.ProductCategory) []models.ProductCategoryModel {
	out := make([]models.ProductCategoryModel, len(rows))
	for i, r := range rows {
		out[i] = models.ProductCategoryModel{
			ID:        r.ID,
			GroupID:   r.GroupID,
			Name:      r.Name,
			Active:    r.Active,
			SortOrder: r.SortOrder,
		}
	}
	return out
}

func ProductsToModels(rows []catalog.Product) []models.ProductModel {
	out := make([]models.ProductModel, len(rows))
	for i, r := range rows {
		tagIDs := r.TagIDs
		if tagIDs == "" {
			tagIDs = "[]"
		}
		out[i] = models.ProductModel{
			ID:          r.ID,
			CategoryID:  r.CategoryID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Active:      r.Active,
			ImageURL:    r.ImageURL,
			TagIDs:      tagIDs,
		}
	}
	return out
}

func ProductsToDomain(rows []models.ProductModel) []catalog.Product {
	out := make([]catalog.Product, len(rows))
	for i, r := range rows {
		out[i] = catalog.Product{
			ID:          r.ID,
			CategoryID:  r.CategoryID,
			Name:        r.Name,
			Description: r.Description,
			Price:       r.Price,
			Active:      r.Active,
			ImageURL:    r.ImageURL,
			TagIDs:      r.TagIDs,
			UpdatedAt:   milliToTime(r.UpdatedAt),
		}
	}
	return out
}

func TagGroupsToModels(rows []catalog.TagGroup) []models.TagGroupModel {
	out := make([]models.TagGroupModel, len(rows))
	for i, r := range rows {
		out[i] = models.TagGroupModel{
			ID:        r.ID,
			Name:      r.Name,
			MinSelect: r.MinSelect,
			MaxSelect: r.MaxSelect,
			Active:    r.Active,
		}
	}
	return out
}

func ProductTagsToModels(rows []catalog.ProductTag) []models.ProductTagModel {
	out := make([]models.ProductTagModel, len(rows))
	for i, r := range rows {
		out[i] = models.ProductTagModel{
			ID:         r.ID,
			TagGroupID: r.TagGroupID,
			Name:       r.Name,
			Price:      r.Price,
			Active:     r.Active,
		}
	}
	return out
}

func ChargesToModels(rows []catalog.Charge) []models.ChargeModel {
	out := make([]models.ChargeModel, len(rows))
	for i, r := range rows {
		out[i] = models.ChargeModel{
			ID:         r.ID,
			Name:       r.Name,
			ChargeType: r.ChargeType,
			Value:      r.Value,
			Active:     r.Active,
		}
	}
	return out
}

func ChargeMappingsToModels(rows []catalog.ChargeMapping) []models.ChargeMappingModel {
	out := make([]models.ChargeMappingModel, len(rows))
	for i, r := range rows {
		out[i] = models.ChargeMappingModel{
			ID:          r.ID,
			ChargeID:    r.ChargeID,
			LocationID:  r.LocationID,
			OrderModeID: r.OrderModeID,
			Active:      r.Active,
		}
	}
	return out
}

func PaymentMethodsToModels(rows []catalog.PaymentMethod) []models.PaymentMethodModel {
	out := make([]models.PaymentMethodModel, len(rows))
	for i, r := range rows {
		out[i] = models.PaymentMethodModel{
			ID:        r.ID,
			Name:      r.Name,
			Code:      r.Code,
			Active:    r.Active,
			SortOrder: r.SortOrder,
		}
	}
	return out
}

func PaymentMethodsToDomain(rows []models.PaymentMethodModel) []catalog.PaymentMethod {
	out := make([]catalog.PaymentMethod, len(rows))
	for i, r := range rows {
		out[i] = catalog.PaymentMethod{
			ID:        r.ID,
			Name:      r.Name,
			Code:      r.Code,
			Active:    r.Active,
			SortOrder: r.SortOrder,
			UpdatedAt: milliToTime(r.UpdatedAt),
		}
	}
	return out
}
