// Package analysis cleans and validates raw OCR output. It is pure: given
// the same ReceiptData it always produces the same result, with no database
// or network access.
package analysis

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"pantrio/internal/domain"
	"pantrio/internal/ocr"
)

const (
	// Declared total vs sum of line totals, as a fraction of the declared total.
	totalTolerance = 0.05
	// Per-item unit×quantity vs declared line total, in currency units.
	lineTolerance = 0.10

	totalMismatchPenalty = 0.3
	lineMismatchPenalty  = 0.1

	lowConfidenceThreshold = 0.5
	maxPlausibleQuantity   = 1000
	suspiciousMaxTotal     = 1000
	suspiciousMaxQuantity  = 100
)

// "2 x ..." or "2x..." quantity prefix left in the description by OCR.
var quantityPrefixRe = regexp.MustCompile(`^(\d+(?:[.,]\d+)?)\s*x\s+`)

// AnalyzedLineItem is a line item with normalization applied. It is created
// once per raw line item and never mutated afterwards; downstream stages
// attach their own data alongside.
type AnalyzedLineItem struct {
	Description  string
	Quantity     *float64
	UnitPrice    *float64
	TotalPrice   *float64
	Confidence   float64
	ProductCode  string
	CategoryHint string
	Discount     *float64
}

// AnalyzedReceipt is the cleaned receipt with analyzed line items.
type AnalyzedReceipt struct {
	MerchantName    string
	MerchantAddress string
	TotalAmount     *float64
	TaxAmount       *float64
	PurchaseDate    *time.Time
	Currency        string
	InvoiceNumber   string
	OrderNumber     string
	Confidence      float64
	Items           []AnalyzedLineItem
}

// Metadata is the read-only summary of one analysis run. Item references are
// indices into the analyzed item slice.
type Metadata struct {
	ItemCount            int
	OverallConfidence    float64
	LowConfidenceItems   []int
	SuspiciousItems      []int
	DocumentFormat       domain.DocumentFormat
	DataConsistencyScore float64
}

// Result bundles the analyzed receipt with its metadata.
type Result struct {
	Receipt  AnalyzedReceipt
	Metadata Metadata
}

// Analyze normalizes raw OCR output, classifies the document format, checks
// numeric consistency, and flags suspicious or low-confidence items.
func Analyze(data *ocr.ReceiptData) *Result {
	receipt := AnalyzedReceipt{
		MerchantName:    strings.ToLower(collapseWhitespace(data.MerchantName)),
		MerchantAddress: collapseWhitespace(data.MerchantAddress),
		TotalAmount:     normalizeAmount(data.TotalAmount),
		TaxAmount:       normalizeAmount(data.TaxAmount),
		PurchaseDate:    data.PurchaseDate,
		Currency:        strings.ToUpper(strings.TrimSpace(data.Currency)),
		InvoiceNumber:   strings.TrimSpace(data.InvoiceNumber),
		OrderNumber:     strings.TrimSpace(data.OrderNumber),
		Confidence:      clamp01(data.Confidence),
	}

	receipt.Items = make([]AnalyzedLineItem, 0, len(data.LineItems))
	for i := range data.LineItems {
		receipt.Items = append(receipt.Items, analyzeLineItem(&data.LineItems[i]))
	}

	meta := Metadata{
		ItemCount:            len(receipt.Items),
		DocumentFormat:       classifyFormat(receipt.MerchantName),
		DataConsistencyScore: consistencyScore(receipt.TotalAmount, receipt.Items),
	}

	var confidenceSum float64
	for i := range receipt.Items {
		item := &receipt.Items[i]
		confidenceSum += item.Confidence
		if item.Confidence < lowConfidenceThreshold {
			meta.LowConfidenceItems = append(meta.LowConfidenceItems, i)
		}
		if isSuspicious(item) {
			meta.SuspiciousItems = append(meta.SuspiciousItems, i)
		}
	}
	if len(receipt.Items) > 0 {
		meta.OverallConfidence = confidenceSum / float64(len(receipt.Items))
	}

	return &Result{Receipt: receipt, Metadata: meta}
}

// analyzeLineItem normalizes one raw line item: description cleanup,
// quantity re-derivation from a "<n> x " prefix, implausible-quantity
// rejection, and unit-price back-fill from total/quantity.
func analyzeLineItem(raw *ocr.LineItem) AnalyzedLineItem {
	item := AnalyzedLineItem{
		Description:  strings.ToLower(collapseWhitespace(raw.Description)),
		Quantity:     raw.Quantity,
		UnitPrice:    normalizeAmount(raw.UnitPrice),
		TotalPrice:   normalizeAmount(raw.TotalPrice),
		Confidence:   clamp01(raw.Confidence),
		ProductCode:  strings.TrimSpace(raw.ProductCode),
		CategoryHint: strings.TrimSpace(raw.CategoryHint),
		Discount:     normalizeAmount(raw.Discount),
	}

	if item.Quantity == nil {
		if qty, rest, ok := quantityFromDescription(item.Description); ok {
			item.Quantity = &qty
			item.Description = rest
		}
	}

	// Quantities beyond any plausible basket are OCR misreads
	if item.Quantity != nil && (*item.Quantity > maxPlausibleQuantity || math.IsNaN(*item.Quantity)) {
		item.Quantity = nil
	}

	if item.UnitPrice == nil && item.TotalPrice != nil && item.Quantity != nil && *item.Quantity > 0 {
		unit := round2(*item.TotalPrice / *item.Quantity)
		item.UnitPrice = &unit
	}

	return item
}

// quantityFromDescription parses a leading "<number> x " prefix and returns
// the quantity and the remaining description.
func quantityFromDescription(desc string) (float64, string, bool) {
	m := quantityPrefixRe.FindStringSubmatch(desc)
	if m == nil {
		return 0, desc, false
	}
	qty, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", "."), 64)
	if err != nil || qty <= 0 {
		return 0, desc, false
	}
	return qty, strings.TrimSpace(desc[len(m[0]):]), true
}

// consistencyScore starts at 1.0 and decrements for each numeric violation:
// 0.3 when the declared total disagrees with the sum of line totals beyond
// 5%, 0.1 for each line whose unit×quantity disagrees with its declared
// total beyond 0.10. Floored at 0.
func consistencyScore(declaredTotal *float64, items []AnalyzedLineItem) float64 {
	score := 1.0

	if declaredTotal != nil && len(items) > 0 {
		var sum float64
		counted := false
		for i := range items {
			if items[i].TotalPrice != nil {
				sum += *items[i].TotalPrice
				counted = true
			}
		}
		if counted && math.Abs(sum-*declaredTotal) > totalTolerance*math.Abs(*declaredTotal) {
			score -= totalMismatchPenalty
		}
	}

	for i := range items {
		item := &items[i]
		if item.UnitPrice == nil || item.Quantity == nil || item.TotalPrice == nil {
			continue
		}
		if math.Abs(*item.UnitPrice**item.Quantity-*item.TotalPrice) > lineTolerance {
			score -= lineMismatchPenalty
		}
	}

	if score < 0 {
		return 0
	}
	return score
}

func isSuspicious(item *AnalyzedLineItem) bool {
	if item.Confidence < lowConfidenceThreshold {
		return true
	}
	if item.TotalPrice != nil && (*item.TotalPrice < 0 || *item.TotalPrice > suspiciousMaxTotal) {
		return true
	}
	if item.Quantity != nil && (*item.Quantity < 0 || *item.Quantity > suspiciousMaxQuantity) {
		return true
	}
	return len([]rune(item.Description)) < 2
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func normalizeAmount(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	r := round2(*v)
	return &r
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clamp01(v float64) float64 {
	switch {
	case math.IsNaN(v), v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
