// Package csvexport renders inventory and receipt data as downloadable CSV
// and XLSX files.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"
)

// InventoryRow is one flattened inventory line for export.
type InventoryRow struct {
	ProductName     string
	Brand           string
	Category        string
	Quantity        float64
	StorageLocation string
	PurchaseDate    *time.Time
	Price           *float64
	Notes           string
}

var inventoryHeader = []string{
	"product", "brand", "category", "quantity",
	"storage_location", "purchase_date", "price", "notes",
}

// WriteInventory writes the rows as CSV with a header line.
func WriteInventory(w io.Writer, rows []InventoryRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(inventoryHeader); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	for i := range rows {
		row := &rows[i]
		date := ""
		if row.PurchaseDate != nil {
			date = row.PurchaseDate.Format("2006-01-02")
		}
		price := ""
		if row.Price != nil {
			price = fmt.Sprintf("%.2f", *row.Price)
		}
		record := []string{
			row.ProductName,
			row.Brand,
			row.Category,
			fmt.Sprintf("%g", row.Quantity),
			row.StorageLocation,
			date,
			price,
			row.Notes,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing csv row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
