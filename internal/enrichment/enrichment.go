// Package enrichment looks up descriptions with external services and
// translates their labels into categories. Providers: Google Places
// (place types), Gemini (a category name chosen by the model) and semantic
// (the category of the nearest merchant map key by embedding).
package enrichment

import (
	"context"
	"strings"

	"fjacquet/statement-csv/internal/models"
)

// Provider names accepted in configuration.
const (
	ProviderPlaces   = "places"
	ProviderGemini   = "gemini"
	ProviderSemantic = "semantic"
)

// Enricher returns external labels for a transaction description, most
// specific first. No match is (nil, nil).
type Enricher interface {
	Lookup(ctx context.Context, description string) ([]string, error)
	Name() string
}

// labelTable maps external labels to categories. Google place types and the
// category names themselves are both accepted.
var labelTable = map[string]string{
	"supermarket":            models.CategoryGroceries,
	"grocery_or_supermarket": models.CategoryGroceries,
	"convenience_store":      models.CategoryGroceries,
	"bakery":                 models.CategoryGroceries,
	"liquor_store":           models.CategoryGroceries,

	"restaurant":    models.CategoryDining,
	"cafe":          models.CategoryDining,
	"bar":           models.CategoryDining,
	"meal_takeaway": models.CategoryDining,
	"meal_delivery": models.CategoryDining,
	"night_club":    models.CategoryDining,
	"food":          models.CategoryDining,

	"train_station":      models.CategoryTransport,
	"transit_station":    models.CategoryTransport,
	"bus_station":        models.CategoryTransport,
	"subway_station":     models.CategoryTransport,
	"light_rail_station": models.CategoryTransport,
	"taxi_stand":         models.CategoryTransport,
	"gas_station":        models.CategoryTransport,
	"car_rental":         models.CategoryTransport,

	"parking": models.CategoryParking,

	"lodging":            models.CategoryTravel,
	"airport":            models.CategoryTravel,
	"travel_agency":      models.CategoryTravel,
	"tourist_attraction": models.CategoryTravel,

	"pharmacy":        models.CategoryHealth,
	"drugstore":       models.CategoryHealth,
	"doctor":          models.CategoryHealth,
	"dentist":         models.CategoryHealth,
	"hospital":        models.CategoryHealth,
	"physiotherapist": models.CategoryHealth,
	"health":          models.CategoryHealth,

	"insurance_agency": models.CategoryInsurance,

	"clothing_store":    models.CategoryShopping,
	"shoe_store":        models.CategoryShopping,
	"electronics_store": models.CategoryShopping,
	"department_store":  models.CategoryShopping,
	"shopping_mall":     models.CategoryShopping,
	"book_store":        models.CategoryShopping,
	"furniture_store":   models.CategoryShopping,
	"home_goods_store":  models.CategoryShopping,
	"hardware_store":    models.CategoryShopping,
	"jewelry_store":     models.CategoryShopping,
	"store":             models.CategoryShopping,

	"electrician": models.CategoryUtilities,
	"plumber":     models.CategoryUtilities,

	"bank":       models.CategoryBankTransfer,
	"accounting": models.CategoryFee,
}

// Translate returns the category of the first label that is either a known
// category name or a label table entry whose category is known. Table
// categories the rules do not define are skipped.
func Translate(labels []string, known []string) (string, bool) {
	knownByFold := make(map[string]string, len(known))
	for _, k := range known {
		knownByFold[strings.ToLower(k)] = k
	}

	for _, label := range labels {
		l := strings.ToLower(strings.TrimSpace(label))
		if l == "" || l == strings.ToLower(models.CategoryUncounted) {
			continue
		}
		if c, ok := knownByFold[l]; ok {
			return c, true
		}
		if c, ok := labelTable[l]; ok {
			if k, ok := knownByFold[strings.ToLower(c)]; ok {
				return k, true
			}
		}
	}
	return "", false
}
