package csvexport

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"pantrio/internal/domain"
)

const (
	summarySheet = "Receipt"
	itemsSheet   = "Items"
)

// ReceiptWorkbook builds an XLSX workbook with a summary sheet for the
// receipt header and an items sheet for the line items.
func ReceiptWorkbook(receipt *domain.Receipt, items []domain.ReceiptItem) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), summarySheet); err != nil {
		return nil, fmt.Errorf("renaming summary sheet: %w", err)
	}
	if err := writeSummary(f, receipt); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(itemsSheet); err != nil {
		return nil, fmt.Errorf("creating items sheet: %w", err)
	}
	if err := writeItems(f, items); err != nil {
		return nil, err
	}

	return f, nil
}

func writeSummary(f *excelize.File, receipt *domain.Receipt) error {
	total := ""
	if receipt.TotalAmount != nil {
		total = fmt.Sprintf("%.2f", *receipt.TotalAmount)
	}
	tax := ""
	if receipt.TaxAmount != nil {
		tax = fmt.Sprintf("%.2f", *receipt.TaxAmount)
	}
	date := ""
	if receipt.PurchaseDate != nil {
		date = receipt.PurchaseDate.Format("2006-01-02")
	}

	rows := [][]interface{}{
		{"Merchant", receipt.MerchantName},
		{"Address", receipt.MerchantAddress},
		{"Date", date},
		{"Total", total},
		{"Tax", tax},
		{"Currency", receipt.Currency},
		{"Format", string(receipt.DocumentFormat)},
		{"Confidence", receipt.OverallConfidence},
		{"Consistency", receipt.ConsistencyScore},
		{"Provider", receipt.OcrProvider},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("summary cell name: %w", err)
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("writing summary row %d: %w", i+1, err)
		}
	}
	return nil
}

func writeItems(f *excelize.File, items []domain.ReceiptItem) error {
	header := []interface{}{
		"description", "quantity", "unit_price", "total_price",
		"confidence", "match_status", "match_score", "category", "validated",
	}
	if err := f.SetSheetRow(itemsSheet, "A1", &header); err != nil {
		return fmt.Errorf("writing items header: %w", err)
	}

	for i := range items {
		item := &items[i]
		row := []interface{}{
			item.Description,
			floatOrEmpty(item.Quantity),
			floatOrEmpty(item.UnitPrice),
			floatOrEmpty(item.TotalPrice),
			item.Confidence,
			string(item.MatchStatus),
			floatOrEmpty(item.MatchScore),
			item.SuggestedCategory,
			item.Validated,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("items cell name: %w", err)
		}
		if err := f.SetSheetRow(itemsSheet, cell, &row); err != nil {
			return fmt.Errorf("writing items row %d: %w", i+2, err)
		}
	}
	return nil
}

func floatOrEmpty(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
