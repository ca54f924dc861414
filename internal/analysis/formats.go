package analysis

import (
	"regexp"

	"pantrio/internal/domain"
)

// Merchant-name patterns for document format classification. Matched against
// the normalized (lowercased) merchant name; first list that hits wins, in
// supermarket > grocery > restaurant priority order.
var (
	supermarketPatterns = []*regexp.Regexp{
		regexp.MustCompile(`carrefour`),
		regexp.MustCompile(`auchan`),
		regexp.MustCompile(`e?\.?\s?leclerc`),
		regexp.MustCompile(`intermarche`),
		regexp.MustCompile(`super\s?u|hyper\s?u|systeme\s?u`),
		regexp.MustCompile(`monoprix`),
		regexp.MustCompile(`franprix`),
		regexp.MustCompile(`casino`),
		regexp.MustCompile(`lidl`),
		regexp.MustCompile(`aldi`),
		regexp.MustCompile(`cora`),
		regexp.MustCompile(`geant`),
		regexp.MustCompile(`match`),
	}

	groceryPatterns = []*regexp.Regexp{
		regexp.MustCompile(`epicerie`),
		regexp.MustCompile(`primeur`),
		regexp.MustCompile(`marche`),
		regexp.MustCompile(`bio\s?c\s?bon`),
		regexp.MustCompile(`naturalia`),
		regexp.MustCompile(`biocoop`),
		regexp.MustCompile(`grand\s?frais`),
		regexp.MustCompile(`picard`),
		regexp.MustCompile(`fromagerie`),
		regexp.MustCompile(`boucherie`),
		regexp.MustCompile(`boulangerie`),
	}

	restaurantPatterns = []*regexp.Regexp{
		regexp.MustCompile(`restaurant`),
		regexp.MustCompile(`brasserie`),
		regexp.MustCompile(`bistro`),
		regexp.MustCompile(`pizzeria`),
		regexp.MustCompile(`creperie`),
		regexp.MustCompile(`cafe`),
		regexp.MustCompile(`mcdonald`),
		regexp.MustCompile(`burger\s?king`),
		regexp.MustCompile(`kfc`),
		regexp.MustCompile(`quick`),
		regexp.MustCompile(`subway`),
		regexp.MustCompile(`sushi`),
	}
)

// classifyFormat returns the document format for a normalized merchant name.
func classifyFormat(merchantName string) domain.DocumentFormat {
	if merchantName == "" {
		return domain.DocumentFormatUnknown
	}
	for _, re := range supermarketPatterns {
		if re.MatchString(merchantName) {
			return domain.DocumentFormatSupermarket
		}
	}
	for _, re := range groceryPatterns {
		if re.MatchString(merchantName) {
			return domain.DocumentFormatGrocery
		}
	}
	for _, re := range restaurantPatterns {
		if re.MatchString(merchantName) {
			return domain.DocumentFormatRestaurant
		}
	}
	return domain.DocumentFormatUnknown
}
