package categorizer

import "fjacquet/statement-csv/internal/models"

// DefaultRules returns the built-in keyword rules in priority order. Refund
// and Vault come first so that generic keywords never shadow them.
func DefaultRules() []models.CategoryRule {
	return []models.CategoryRule{
		{Name: models.CategoryRefund, Keywords: []string{"credit", "refund", "rückerstattung", "remboursement"}},
		{Name: models.CategoryVault, Keywords: []string{"to pocket", "to vault", "to chf vault", "to chf tablet", "to chf gaming"}},
		{Name: models.CategoryGroceries, Keywords: []string{"coop", "migros", "aldi", "lidl", "denner", "supermarket", "grocery"}},
		{Name: models.CategoryTransport, Keywords: []string{"sbb", "vbz", "bus", "train", "tram", "uber", "taxi", "easyr", "easyrider", "bahn", "sncf", "ratp", "bp"}},
		{Name: models.CategoryInsurance, Keywords: []string{"sanitas", "axa", "versicherung", "insurance"}},
		{Name: models.CategoryDining, Keywords: []string{"restaurant", "cafe", "bar", "mc donald", "starbucks", "pizza", "kebab", "dining", "resto"}},
		{Name: models.CategorySalary, Keywords: []string{"salary", "eraneos", "payroll", "lohn"}},
		{Name: models.CategoryShopping, Keywords: []string{"galaxus", "digitec", "decathlon", "shopping", "store", "boutique"}},
		{Name: models.CategoryUtilities, Keywords: []string{"swisscom", "sunrise", "telecom", "internet", "electricity", "wasser", "water", "gas", "utility"}},
		{Name: models.CategoryParking, Keywords: []string{"parking", "park", "parkingpay"}},
		{Name: models.CategoryHealth, Keywords: []string{"pharmacy", "apotheke", "doctor", "arzt", "hospital", "clinic"}},
		{Name: models.CategoryTravel, Keywords: []string{"hotel", "hostel", "airbnb", "booking.com", "flight", "airline", "bookaway", "rentcars"}},
		{Name: models.CategoryBankTransfer, Keywords: []string{"transfer", "sepa", "wire", "überweisung", "revolut france, succursale de revolut bank uab", "payment from"}},
		{Name: models.CategoryMobileTransfer, Keywords: []string{"twint"}},
		{Name: models.CategoryStandingOrder, Keywords: []string{"standing order"}},
		{Name: models.CategoryFee, Keywords: []string{"fee", "charge", "gebühr"}},
	}
}

// CategoryNames returns the rule names in order, without duplicates.
func CategoryNames(rules []models.CategoryRule) []string {
	seen := make(map[string]bool, len(rules))
	names := make([]string, 0, len(rules))
	for _, r := range rules {
		if r.Name == "" || seen[r.Name] {
			continue
		}
		seen[r.Name] = true
		names = append(names, r.Name)
	}
	return names
}
