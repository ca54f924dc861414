package analysis_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pantrio/internal/analysis"
	"pantrio/internal/domain"
	"pantrio/internal/ocr"
)

func f(v float64) *float64 { return &v }

func TestAnalyze_ConsistentReceipt(t *testing.T) {
	date := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	data := &ocr.ReceiptData{
		MerchantName: "CARREFOUR  MARKET",
		TotalAmount:  f(4.50),
		PurchaseDate: &date,
		Currency:     "eur",
		Confidence:   0.93,
		LineItems: []ocr.LineItem{
			{Description: "Lait demi-écrémé", Quantity: f(1), UnitPrice: f(1.20), TotalPrice: f(1.20), Confidence: 0.95},
			{Description: "Pommes Golden", Quantity: f(2), UnitPrice: f(1.65), TotalPrice: f(3.30), Confidence: 0.85},
		},
	}

	result := analysis.Analyze(data)

	assert.Equal(t, "carrefour market", result.Receipt.MerchantName)
	assert.Equal(t, "EUR", result.Receipt.Currency)
	assert.Equal(t, domain.DocumentFormatSupermarket, result.Metadata.DocumentFormat)
	assert.Equal(t, 2, result.Metadata.ItemCount)
	assert.Equal(t, 1.0, result.Metadata.DataConsistencyScore)
	assert.InDelta(t, 0.90, result.Metadata.OverallConfidence, 1e-9)
	assert.Empty(t, result.Metadata.LowConfidenceItems)
	assert.Empty(t, result.Metadata.SuspiciousItems)
}

func TestAnalyze_TotalMismatchPenalty(t *testing.T) {
	data := &ocr.ReceiptData{
		TotalAmount: f(10.00),
		LineItems: []ocr.LineItem{
			{Description: "baguette tradition", TotalPrice: f(1.20), Confidence: 0.9},
			{Description: "camembert", TotalPrice: f(2.50), Confidence: 0.9},
		},
	}

	result := analysis.Analyze(data)

	assert.InDelta(t, 0.7, result.Metadata.DataConsistencyScore, 1e-9)
}

func TestAnalyze_LineMismatchPenalty(t *testing.T) {
	// unit*qty = 4.00 but declared line total is 5.00
	data := &ocr.ReceiptData{
		TotalAmount: f(5.00),
		LineItems: []ocr.LineItem{
			{Description: "jus d'orange", Quantity: f(2), UnitPrice: f(2.00), TotalPrice: f(5.00), Confidence: 0.9},
		},
	}

	result := analysis.Analyze(data)

	assert.InDelta(t, 0.9, result.Metadata.DataConsistencyScore, 1e-9)
}

func TestAnalyze_QuantityPrefixRederived(t *testing.T) {
	data := &ocr.ReceiptData{
		LineItems: []ocr.LineItem{
			{Description: "2 x Yaourt Nature", TotalPrice: f(2.40), Confidence: 0.9},
		},
	}

	result := analysis.Analyze(data)

	require.Len(t, result.Receipt.Items, 1)
	item := result.Receipt.Items[0]
	assert.Equal(t, "yaourt nature", item.Description)
	require.NotNil(t, item.Quantity)
	assert.Equal(t, 2.0, *item.Quantity)
	// unit price back-filled from total/quantity
	require.NotNil(t, item.UnitPrice)
	assert.Equal(t, 1.20, *item.UnitPrice)
}

func TestAnalyze_ImplausibleQuantityDropped(t *testing.T) {
	data := &ocr.ReceiptData{
		LineItems: []ocr.LineItem{
			{Description: "tomates cerises", Quantity: f(4790), TotalPrice: f(2.99), Confidence: 0.9},
		},
	}

	result := analysis.Analyze(data)

	require.Len(t, result.Receipt.Items, 1)
	assert.Nil(t, result.Receipt.Items[0].Quantity)
}

func TestAnalyze_FlagsSuspiciousAndLowConfidence(t *testing.T) {
	data := &ocr.ReceiptData{
		LineItems: []ocr.LineItem{
			{Description: "pain de mie", TotalPrice: f(1.50), Confidence: 0.9},
			{Description: "x", TotalPrice: f(1.00), Confidence: 0.9},
			{Description: "garbled line", TotalPrice: f(3.00), Confidence: 0.2},
			{Description: "caviar?", TotalPrice: f(1500.00), Confidence: 0.9},
		},
	}

	result := analysis.Analyze(data)

	assert.Equal(t, []int{2}, result.Metadata.LowConfidenceItems)
	assert.Equal(t, []int{1, 2, 3}, result.Metadata.SuspiciousItems)
}

func TestAnalyze_EmptyReceipt(t *testing.T) {
	result := analysis.Analyze(&ocr.ReceiptData{})

	assert.Equal(t, 0, result.Metadata.ItemCount)
	assert.Equal(t, 0.0, result.Metadata.OverallConfidence)
	assert.Equal(t, 1.0, result.Metadata.DataConsistencyScore)
	assert.Equal(t, domain.DocumentFormatUnknown, result.Metadata.DocumentFormat)
}

func TestClassifyFormat_ViaMerchantName(t *testing.T) {
	cases := []struct {
		merchant string
		want     domain.DocumentFormat
	}{
		{"E.Leclerc Drive", domain.DocumentFormatSupermarket},
		{"Biocoop Les Halles", domain.DocumentFormatGrocery},
		{"Pizzeria Da Marco", domain.DocumentFormatRestaurant},
		{"Station Total", domain.DocumentFormatUnknown},
	}
	for _, c := range cases {
		result := analysis.Analyze(&ocr.ReceiptData{MerchantName: c.merchant})
		assert.Equal(t, c.want, result.Metadata.DocumentFormat, "merchant %q", c.merchant)
	}
}
