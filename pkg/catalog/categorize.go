package catalog

import "strings"

// Fertilizer categories reported when the prediction service omits one.
const (
	CategoryComplex       = "Complex Fertilizer"
	CategoryNitrogen      = "Nitrogen Fertilizer"
	CategoryPhosphatic    = "Phosphatic Fertilizer"
	CategoryPotassic      = "Potassic Fertilizer"
	CategoryMicronutrient = "Micronutrient Fertilizer"
	CategoryOrganic       = "Organic Fertilizer"
	CategorySpecial       = "Special Fertilizer"
)

var categoryRules = []struct {
	category string
	markers  []string
}{
	{CategoryComplex, []string{"NPK", "DAP", "MAP"}},
	{CategoryNitrogen, []string{"Urea", "Ammonium"}},
	{CategoryPhosphatic, []string{"Super", "Phosphate"}},
	{CategoryPotassic, []string{"Potash", "Potassium"}},
	{CategoryMicronutrient, []string{"Zinc", "Iron", "Boron", "Manganese"}},
	{CategoryOrganic, []string{"Compost", "Manure", "Biofertilizer"}},
}

// Categorize classifies a fertilizer by the markers in its name. The first
// matching rule wins, so "Zinc Fortified Urea" is a nitrogen fertilizer.
func Categorize(name string) string {
	for _, rule := range categoryRules {
		for _, marker := range rule.markers {
			if strings.Contains(name, marker) {
				return rule.category
			}
		}
	}
	return CategorySpecial
}
