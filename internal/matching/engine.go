// Package matching searches the product catalog for candidates matching
// analyzed receipt line items, using four complementary strategies, and
// classifies the quality of the best candidate.
package matching

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"pantrio/internal/analysis"
	"pantrio/internal/domain"
	"pantrio/internal/textmatch"
)

const (
	minScore   = 0.3
	goodScore  = 0.7
	exactScore = 0.95

	barcodeScore   = 1.0
	exactNameScore = 0.98
	fuzzyScoreCap  = 0.95
	keywordCap     = 0.9
	keywordFactor  = 0.8

	keywordBonusWeight = 0.3
	maxEditDistance    = 3
	maxResults         = 10
)

// Catalog is the lookup capability the engine needs from the product store.
// Not-found conditions are reported as domain.ErrProductNotFound; anything
// else is treated as a lookup failure and isolated per item.
type Catalog interface {
	FindByBarcode(ctx context.Context, barcode string) (*domain.Product, error)
	FindByNameExact(ctx context.Context, name string) (*domain.Product, error)
	FindByNameContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error)
	FindByNameOrBrandContainingAny(ctx context.Context, keywords []string) ([]domain.Product, error)
	FindCategorySlug(ctx context.Context, categoryID uuid.UUID) (string, error)
}

// Match is one catalog candidate for a line item.
type Match struct {
	Product *domain.Product  `json:"product"`
	Score   float64          `json:"score"`
	Type    domain.MatchType `json:"type"`
	Details string           `json:"details"`
}

// Result is the matching outcome for one line item. BestMatch is the
// highest-scoring match or nil; Status derives from its score alone.
type Result struct {
	Item              analysis.AnalyzedLineItem `json:"item"`
	Matches           []Match                   `json:"matches"`
	BestMatch         *Match                    `json:"best_match"`
	SuggestedCategory string                    `json:"suggested_category"`
	Status            domain.MatchStatus        `json:"status"`
}

// Engine runs the matching strategies against an injected catalog.
type Engine struct {
	catalog Catalog
}

// NewEngine creates a matching Engine.
func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog}
}

// MatchItems matches a batch of analyzed items sequentially. Items are
// independent: a lookup failure on one item yields a NO_MATCH result for
// that item and the batch continues.
func (e *Engine) MatchItems(ctx context.Context, items []analysis.AnalyzedLineItem) []Result {
	results := make([]Result, 0, len(items))
	for i := range items {
		results = append(results, e.MatchItem(ctx, items[i]))
	}
	return results
}

// MatchItem runs all four strategies for one item, deduplicates and ranks
// the candidates, and classifies the outcome. Lookup errors never propagate:
// the item comes back with empty matches and status NO_MATCH.
func (e *Engine) MatchItem(ctx context.Context, item analysis.AnalyzedLineItem) Result {
	result := Result{Item: item, Status: domain.MatchStatusNone}

	candidates, err := e.collectCandidates(ctx, &item)
	if err != nil {
		log.Printf("matching.Engine: lookup failed for %q: %v", item.Description, err)
		return result
	}

	result.Matches = rankCandidates(candidates)
	if len(result.Matches) > 0 {
		result.BestMatch = &result.Matches[0]
	}
	result.Status = statusFor(result.BestMatch)
	result.SuggestedCategory = e.suggestCategory(ctx, &result)

	return result
}

func (e *Engine) collectCandidates(ctx context.Context, item *analysis.AnalyzedLineItem) ([]Match, error) {
	var candidates []Match

	normalized := textmatch.Normalize(item.Description)
	keywords := textmatch.ExtractKeywords(item.Description)

	// Strategy 1: barcode exact
	if item.ProductCode != "" {
		product, err := e.catalog.FindByBarcode(ctx, item.ProductCode)
		switch {
		case err == nil:
			candidates = append(candidates, Match{
				Product: product,
				Score:   barcodeScore,
				Type:    domain.MatchTypeExactBarcode,
				Details: fmt.Sprintf("barcode %s", item.ProductCode),
			})
		case !errors.Is(err, domain.ErrProductNotFound):
			return nil, fmt.Errorf("barcode lookup: %w", err)
		}
	}

	// Strategy 2: case-insensitive exact name
	if normalized != "" {
		product, err := e.catalog.FindByNameExact(ctx, normalized)
		switch {
		case err == nil:
			candidates = append(candidates, Match{
				Product: product,
				Score:   exactNameScore,
				Type:    domain.MatchTypeExactName,
				Details: "exact name",
			})
		case !errors.Is(err, domain.ErrProductNotFound):
			return nil, fmt.Errorf("exact name lookup: %w", err)
		}
	}

	if len(keywords) == 0 {
		return candidates, nil
	}

	// Strategy 3: fuzzy edit-distance over keyword-filtered names
	fuzzyPool, err := e.catalog.FindByNameContainingAny(ctx, keywords)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, fmt.Errorf("fuzzy pool lookup: %w", err)
	}
	for i := range fuzzyPool {
		if m, ok := fuzzyMatch(normalized, keywords, &fuzzyPool[i]); ok {
			candidates = append(candidates, m)
		}
	}

	// Strategy 4: keyword overlap over names and brands
	keywordPool, err := e.catalog.FindByNameOrBrandContainingAny(ctx, keywords)
	if err != nil && !errors.Is(err, domain.ErrProductNotFound) {
		return nil, fmt.Errorf("keyword pool lookup: %w", err)
	}
	for i := range keywordPool {
		if m, ok := keywordMatch(keywords, &keywordPool[i]); ok {
			candidates = append(candidates, m)
		}
	}

	return candidates, nil
}

// fuzzyMatch scores a catalog product against the normalized description by
// edit distance, with a keyword-overlap bonus, capped below exact-name.
func fuzzyMatch(normalizedDesc string, itemKeywords []string, product *domain.Product) (Match, bool) {
	normalizedName := textmatch.Normalize(product.Name)
	distance := textmatch.LevenshteinDistance(normalizedDesc, normalizedName)
	if distance > maxEditDistance {
		return Match{}, false
	}

	score := textmatch.Similarity(normalizedDesc, normalizedName)
	if bonus := keywordOverlapRatio(itemKeywords, normalizedName); bonus > 0 {
		score += bonus * keywordBonusWeight
	}
	if score > fuzzyScoreCap {
		score = fuzzyScoreCap
	}
	if score < minScore {
		return Match{}, false
	}

	return Match{
		Product: product,
		Score:   score,
		Type:    domain.MatchTypeFuzzyName,
		Details: fmt.Sprintf("edit distance %d", distance),
	}, true
}

// keywordMatch scores a product by the fraction of item keywords found in
// its name or brand.
func keywordMatch(itemKeywords []string, product *domain.Product) (Match, bool) {
	haystack := textmatch.Normalize(product.Name + " " + product.Brand)
	ratio := keywordOverlapRatio(itemKeywords, haystack)
	if ratio == 0 {
		return Match{}, false
	}

	score := ratio * keywordFactor
	if score > keywordCap {
		score = keywordCap
	}
	if score < minScore {
		return Match{}, false
	}

	return Match{
		Product: product,
		Score:   score,
		Type:    domain.MatchTypeKeyword,
		Details: fmt.Sprintf("keyword overlap %.0f%%", ratio*100),
	}, true
}

// keywordOverlapRatio returns |keywords found in haystack| / |keywords|.
func keywordOverlapRatio(keywords []string, normalizedHaystack string) float64 {
	if len(keywords) == 0 {
		return 0
	}
	haystackWords := map[string]bool{}
	for _, w := range textmatch.ExtractKeywords(normalizedHaystack) {
		haystackWords[w] = true
	}
	common := 0
	for _, kw := range keywords {
		if haystackWords[kw] {
			common++
		}
	}
	return float64(common) / float64(len(keywords))
}

// rankCandidates deduplicates by product id keeping the highest score,
// filters below the minimum, sorts by score then match-type priority, and
// caps the list.
func rankCandidates(candidates []Match) []Match {
	best := map[uuid.UUID]Match{}
	for _, c := range candidates {
		if c.Score < minScore {
			continue
		}
		existing, ok := best[c.Product.ID]
		if !ok || c.Score > existing.Score ||
			(c.Score == existing.Score && domain.MatchTypePriority(c.Type) > domain.MatchTypePriority(existing.Type)) {
			best[c.Product.ID] = c
		}
	}

	ranked := make([]Match, 0, len(best))
	for _, m := range best {
		ranked = append(ranked, m)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		pi := domain.MatchTypePriority(ranked[i].Type)
		pj := domain.MatchTypePriority(ranked[j].Type)
		if pi != pj {
			return pi > pj
		}
		// Stable order for equal score and type
		return ranked[i].Product.ID.String() < ranked[j].Product.ID.String()
	})

	if len(ranked) > maxResults {
		ranked = ranked[:maxResults]
	}
	return ranked
}

func statusFor(best *Match) domain.MatchStatus {
	switch {
	case best == nil:
		return domain.MatchStatusNone
	case best.Score >= exactScore:
		return domain.MatchStatusExact
	case best.Score >= goodScore:
		return domain.MatchStatusGood
	default:
		return domain.MatchStatusPossible
	}
}

// suggestCategory uses the matched product's catalog category when the best
// match is trustworthy, otherwise falls back to description patterns.
func (e *Engine) suggestCategory(ctx context.Context, result *Result) string {
	if result.BestMatch != nil && result.BestMatch.Score > goodScore && result.BestMatch.Product.CategoryID != nil {
		slug, err := e.catalog.FindCategorySlug(ctx, *result.BestMatch.Product.CategoryID)
		if err == nil && slug != "" {
			return slug
		}
		if err != nil {
			log.Printf("matching.Engine: category slug lookup failed: %v", err)
		}
	}
	return suggestCategoryFromDescription(textmatch.Normalize(result.Item.Description))
}
