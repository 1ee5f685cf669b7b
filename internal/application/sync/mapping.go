package sync

import (
	"time"

	"github.com/slatepos/slate/internal/domain/catalog"
	"github.com/slatepos/slate/internal/infrastructure/remote"
)

// Backend payloads omit optional fields freely. Mapping applies explicit
// defaults so every stored row is fully populated: absent active means
// active, absent numbers mean zero, absent tag lists mean the empty array.

func boolOrTrue(b *bool) int {
	if b == nil || *b {
		return 1
	}
	return 0
}

func intOrZero(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func floatOrZero(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

func stringOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func mapProductGroups(in []remote.ProductGroupDTO, now time.Time) []catalog.ProductGroup {
	out := make([]catalog.ProductGroup, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.ProductGroup{
			ID:        d.ID,
			Name:      d.Name,
			Active:    boolOrTrue(d.Active),
			SortOrder: intOrZero(d.SortOrder),
			UpdatedAt: now,
		})
	}
	return out
}

func mapProductCategories(in []remote.ProductCategoryDTO, now time.Time) []catalog.ProductCategory {
	out := make([]catalog.ProductCategory, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.ProductCategory{
			ID:        d.ID,
			GroupID:   d.GroupID,
			Name:      d.Name,
			Active:    boolOrTrue(d.Active),
			SortOrder: intOrZero(d.SortOrder),
			UpdatedAt: now,
		})
	}
	return out
}

func mapProducts(in []remote.ProductDTO, now time.Time) []catalog.Product {
	out := make([]catalog.Product, 0, len(in))
	for _, d := range in {
		tagIDs := "[]"
		if len(d.TagIDs) > 0 && string(d.TagIDs) != "null" {
			tagIDs = string(d.TagIDs)
		}
		out = append(out, catalog.Product{
			ID:          d.ID,
			CategoryID:  d.CategoryID,
			Name:        d.Name,
			Description: stringOrEmpty(d.Description),
			Price:       floatOrZero(d.Price),
			Active:      boolOrTrue(d.Active),
			ImageURL:    stringOrEmpty(d.ImageURL),
			TagIDs:      tagIDs,
			UpdatedAt:   now,
		})
	}
	return out
}

func mapTagGroups(in []remote.TagGroupDTO, now time.Time) []catalog.TagGroup {
	out := make([]catalog.TagGroup, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.TagGroup{
			ID:        d.ID,
			Name:      d.Name,
			MinSelect: intOrZero(d.MinSelect),
			MaxSelect: intOrZero(d.MaxSelect),
			Active:    boolOrTrue(d.Active),
			UpdatedAt: now,
		})
	}
	return out
}

func mapProductTags(in []remote.ProductTagDTO, now time.Time) []catalog.ProductTag {
	out := make([]catalog.ProductTag, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.ProductTag{
			ID:         d.ID,
			TagGroupID: d.TagGroupID,
			Name:       d.Name,
			Price:      floatOrZero(d.Price),
			Active:     boolOrTrue(d.Active),
			UpdatedAt:  now,
		})
	}
	return out
}

func mapCharges(in []remote.ChargeDTO, now time.Time) []catalog.Charge {
	out := make([]catalog.Charge, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.Charge{
			ID:         d.ID,
			Name:       d.Name,
			ChargeType: d.ChargeType,
			Value:      floatOrZero(d.Value),
			Active:     boolOrTrue(d.Active),
			UpdatedAt:  now,
		})
	}
	return out
}

func mapChargeMappings(in []remote.ChargeMappingDTO, now time.Time) []catalog.ChargeMapping {
	out := make([]catalog.ChargeMapping, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.ChargeMapping{
			ID:          d.ID,
			ChargeID:    d.ChargeID,
			LocationID:  d.LocationID,
			OrderModeID: d.OrderModeID,
			Active:      boolOrTrue(d.Active),
			UpdatedAt:   now,
		})
	}
	return out
}

func mapPaymentMethods(in []remote.PaymentTypeDTO, now time.Time) []catalog.PaymentMethod {
	out := make([]catalog.PaymentMethod, 0, len(in))
	for _, d := range in {
		out = append(out, catalog.PaymentMethod{
			ID:        d.ID,
			Name:      d.Name,
			Code:      d.Code,
			Active:    boolOrTrue(d.Active),
			SortOrder: intOrZero(d.SortOrder),
			UpdatedAt: now,
		})
	}
	return out
}
