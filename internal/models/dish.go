package models

// Dish is one normalized row of the dish sales table. The derived fields
// (ProfitMarginPct, PrimaryWasteIngredient, WastePct) are computed once by the
// loader from the raw columns and never change afterwards.
type Dish struct {
	Name            string   `json:"dish_name"`
	WeeklyOrders    int      `json:"weekly_orders"`
	Ingredients     []string `json:"ingredients"`
	IngredientCost  int      `json:"ingredient_cost"`
	ProfitMargin    int      `json:"profit_margin"`
	ProfitMarginPct float64  `json:"profit_margin_pct"`

	IngredientWasteRaw     string  `json:"ingredient_waste_raw"`
	PrimaryWasteIngredient string  `json:"primary_waste_ingredient"`
	WastePct               float64 `json:"waste_pct"`
}

// UniqueIngredientCount counts distinct ingredient names. Names are compared
// literally; "Tomato" and "tomatoes" are different ingredients.
func (d Dish) UniqueIngredientCount() int {
	seen := make(map[string]struct{}, len(d.Ingredients))
	for _, ing := range d.Ingredients {
		seen[ing] = struct{}{}
	}
	return len(seen)
}
