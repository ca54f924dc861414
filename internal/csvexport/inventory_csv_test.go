package csvexport

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteInventory(t *testing.T) {
	date := time.Date(2025, 4, 2, 17, 45, 0, 0, time.UTC)
	priceVal := 1.29
	rows := []InventoryRow{
		{
			ProductName:     "Lait demi-écrémé",
			Brand:           "Lactel",
			Category:        "dairy",
			Quantity:        2,
			StorageLocation: "fridge",
			PurchaseDate:    &date,
			Price:           &priceVal,
		},
		{
			ProductName: "Tomates grappe",
			Quantity:    0.5,
			Notes:       "marché du samedi",
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, rows))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, []string{
		"product", "brand", "category", "quantity",
		"storage_location", "purchase_date", "price", "notes",
	}, records[0])
	assert.Equal(t, []string{
		"Lait demi-écrémé", "Lactel", "dairy", "2", "fridge", "2025-04-02", "1.29", "",
	}, records[1])
	// optional fields are blank, not zero
	assert.Equal(t, []string{
		"Tomates grappe", "", "", "0.5", "", "", "", "marché du samedi",
	}, records[2])
}

func TestWriteInventory_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteInventory(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
}
