package models

// Ingredient is one row of the ingredient waste table.
type Ingredient struct {
	Name               string  `json:"ingredient"`
	AvgWastePct        float64 `json:"avg_waste_pct"`
	FrequentlyWastedIn string  `json:"frequently_wasted_in"`
	SuggestedAction    string  `json:"suggested_action"` // semicolon-separated phrases
}
