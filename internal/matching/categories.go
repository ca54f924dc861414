package matching

import "regexp"

// categoryPattern maps a description regex to a category slug. Checked in
// order; first hit wins.
type categoryPattern struct {
	slug string
	re   *regexp.Regexp
}

// Fallback category suggestions for items whose best match is too weak to
// trust the catalog category. Matched against the normalized description.
var categoryPatterns = []categoryPattern{
	{"produce", regexp.MustCompile(`pomme|poire|banane|orange|citron|fraise|raisin|peche|abricot|melon|tomate|salade|carotte|courgette|poireau|oignon|pomme de terre|avocat|concombre|champignon|fruit|legume`)},
	{"meat", regexp.MustCompile(`poulet|boeuf|porc|veau|agneau|dinde|jambon|steak|saucisse|lardon|merguez|chipolata|roti|escalope|viande|poisson|saumon|cabillaud|crevette`)},
	{"dairy", regexp.MustCompile(`lait|fromage|yaourt|yoghourt|beurre|creme|emmental|camembert|comte|mozzarella|oeuf`)},
	{"bakery", regexp.MustCompile(`pain|baguette|croissant|brioche|viennoiserie|tartine|biscotte`)},
	{"beverages", regexp.MustCompile(`eau|jus|soda|cola|limonade|sirop|biere|vin|cidre|cafe|the |infusion`)},
	{"frozen", regexp.MustCompile(`surgele|congele|glace|sorbet|frites surgel`)},
	{"grocery", regexp.MustCompile(`pates|riz|farine|sucre|sel|huile|vinaigre|conserve|cereale|confiture|miel|chocolat|biscuit|gateau|sauce|moutarde|ketchup`)},
}

// suggestCategoryFromDescription pattern-matches the normalized description
// against the curated category list. Returns "" when nothing matches.
func suggestCategoryFromDescription(normalizedDesc string) string {
	for _, cp := range categoryPatterns {
		if cp.re.MatchString(normalizedDesc) {
			return cp.slug
		}
	}
	return ""
}
