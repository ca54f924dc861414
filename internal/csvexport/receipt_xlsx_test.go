package csvexport

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrio/internal/domain"
)

func TestReceiptWorkbook(t *testing.T) {
	total := 23.47
	date := time.Date(2025, 4, 2, 17, 45, 0, 0, time.UTC)
	qty := 2.0
	score := 0.95
	receipt := &domain.Receipt{
		ID:                uuid.New(),
		MerchantName:      "carrefour market",
		TotalAmount:       &total,
		PurchaseDate:      &date,
		Currency:          "EUR",
		DocumentFormat:    domain.DocumentFormatSupermarket,
		OverallConfidence: 0.91,
		ConsistencyScore:  1.0,
		OcrProvider:       "mindee",
	}
	items := []domain.ReceiptItem{
		{
			Description: "pommes golden",
			Quantity:    &qty,
			MatchStatus: domain.MatchStatusExact,
			MatchScore:  &score,
			Confidence:  0.9,
			Validated:   true,
		},
	}

	f, err := ReceiptWorkbook(receipt, items)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Receipt", "Items"}, f.GetSheetList())

	merchant, err := f.GetCellValue("Receipt", "B1")
	require.NoError(t, err)
	assert.Equal(t, "carrefour market", merchant)

	totalCell, err := f.GetCellValue("Receipt", "B4")
	require.NoError(t, err)
	assert.Equal(t, "23.47", totalCell)

	dateCell, err := f.GetCellValue("Receipt", "B3")
	require.NoError(t, err)
	assert.Equal(t, "2025-04-02", dateCell)

	desc, err := f.GetCellValue("Items", "A2")
	require.NoError(t, err)
	assert.Equal(t, "pommes golden", desc)

	status, err := f.GetCellValue("Items", "F2")
	require.NoError(t, err)
	assert.Equal(t, string(domain.MatchStatusExact), status)
}

func TestReceiptWorkbook_NoItems(t *testing.T) {
	f, err := ReceiptWorkbook(&domain.Receipt{ID: uuid.New()}, nil)
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue("Items", "A1")
	require.NoError(t, err)
	assert.Equal(t, "description", header)
}
