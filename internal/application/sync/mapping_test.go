package sync

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slatepos/slate/internal/infrastructure/remote"
)

func TestMapProductsDefaults(t *testing.T) {
	now := time.Now()

	t.Run("absent optionals get explicit defaults", func(t *testing.T) {
		rows := mapProducts([]remote.ProductDTO{{ID: "p-1", Name: "Latte"}}, now)
		require.Len(t, rows, 1)

		assert.Equal(t, 1, rows[0].Active)
		assert.Zero(t, rows[0].Price)
		assert.Empty(t, rows[0].Description)
		assert.Equal(t, "[]", rows[0].TagIDs)
	})

	t.Run("json null tag ids become empty array", func(t *testing.T) {
		rows := mapProducts([]remote.ProductDTO{
			{ID: "p-1", Name: "Latte", TagIDs: json.RawMessage("null")},
		}, now)
		require.Len(t, rows, 1)
		assert.Equal(t, "[]", rows[0].TagIDs)
	})

	t.Run("present values are kept", func(t *testing.T) {
		inactive := false
		price := 4.5
		rows := mapProducts([]remote.ProductDTO{
			{ID: "p-1", Name: "Latte", Active: &inactive, Price: &price,
				TagIDs: json.RawMessage(`["tag-1"]`)},
		}, now)
		require.Len(t, rows, 1)

		assert.Zero(t, rows[0].Active)
		assert.Equal(t, 4.5, rows[0].Price)
		assert.Equal(t, `["tag-1"]`, rows[0].TagIDs)
	})
}

func TestMapChargesDefaults(t *testing.T) {
	now := time.Now()

	rows := mapCharges([]remote.ChargeDTO{{ID: "ch-1", Name: "Service", ChargeType: "percentage"}}, now)
	require.Len(t, rows, 1)

	assert.Equal(t, 1, rows[0].Active)
	assert.Zero(t, rows[0].Value)
	assert.Equal(t, "percentage", rows[0].ChargeType)
}

func TestMapPaymentMethodsDefaults(t *testing.T) {
	sortOrder := 3
	rows := mapPaymentMethods([]remote.PaymentTypeDTO{
		{ID: "pm-1", Name: "Cash", Code: "CASH"},
		{ID: "pm-2", Name: "Card", Code: "CARD", SortOrder: &sortOrder},
	}, time.Now())
	require.Len(t, rows, 2)

	assert.Zero(t, rows[0].SortOrder)
	assert.Equal(t, 3, rows[1].SortOrder)
}
