package loader

import (
	"errors"
	"strings"
	"testing"
)

const dishCSV = `Dish Name,Weekly Orders,Ingredients,Ingredient Cost,Profit Margin,Ingredient Waste
Tomato Soup,9,"Tomatoes, Cream, Garlic",₹250,₹125,Tomatoes - 35%
Greek Salad,12,"Lettuce, Cucumber",₹110,₹85,Cucumber - 26.5%
`

const ingredientCSV = `Ingredient,Avg Waste %,Frequently Wasted In,Suggested Action
Tomatoes,35,Tomato Soup,Use in soup; Freeze for later
Lettuce,32,Greek Salad,Offer as side salad
`

func TestParseCurrency(t *testing.T) {
	l := New("₹")

	v, err := l.ParseCurrency("₹250")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if v != 250 {
		t.Fatalf("want 250, got %d", v)
	}

	// anything after the digit run is ignored
	v, err = l.ParseCurrency("₹12 approx")
	if err != nil || v != 12 {
		t.Fatalf("want 12, got %d (err %v)", v, err)
	}

	for _, bad := range []string{"250", "₹", "₹abc", "", "₹99999999999999999999"} {
		if _, err := l.ParseCurrency(bad); !errors.Is(err, ErrMalformedCurrency) {
			t.Errorf("ParseCurrency(%q): want ErrMalformedCurrency, got %v", bad, err)
		}
	}
}

func TestParseWaste(t *testing.T) {
	name, pct, err := ParseWaste("Tomatoes - 35%")
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if name != "Tomatoes" || pct != 35.0 {
		t.Fatalf("want (Tomatoes, 35), got (%s, %g)", name, pct)
	}

	// the split is on the first separator, so a second one corrupts the
	// percentage rather than the ingredient name
	if _, _, err := ParseWaste("Spring - Onions - 10%"); !errors.Is(err, ErrMalformedPercentage) {
		t.Errorf("double separator: want ErrMalformedPercentage, got %v", err)
	}

	if _, _, err := ParseWaste("Tomatoes 35%"); !errors.Is(err, ErrMalformedWasteField) {
		t.Errorf("missing separator: want ErrMalformedWasteField, got %v", err)
	}
	if _, _, err := ParseWaste("Tomatoes - 35"); !errors.Is(err, ErrMalformedPercentage) {
		t.Errorf("missing %%: want ErrMalformedPercentage, got %v", err)
	}
	if _, _, err := ParseWaste("Tomatoes - high%"); !errors.Is(err, ErrMalformedPercentage) {
		t.Errorf("non-numeric: want ErrMalformedPercentage, got %v", err)
	}
}

func TestSplitIngredients(t *testing.T) {
	got := SplitIngredients("Tomatoes, Cream, Garlic")
	if len(got) != 3 || got[1] != "Cream" {
		t.Fatalf("unexpected split: %v", got)
	}
	if got := SplitIngredients(""); len(got) != 0 {
		t.Fatalf("empty source should be an empty list, got %v", got)
	}
}

func TestLoadDishes(t *testing.T) {
	l := New("₹")
	dishes, err := l.LoadDishes(strings.NewReader(dishCSV))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(dishes) != 2 {
		t.Fatalf("want 2 dishes, got %d", len(dishes))
	}

	soup := dishes[0]
	if soup.Name != "Tomato Soup" || soup.WeeklyOrders != 9 {
		t.Fatalf("unexpected first dish: %+v", soup)
	}
	if soup.IngredientCost != 250 || soup.ProfitMargin != 125 {
		t.Fatalf("unexpected currency fields: %+v", soup)
	}
	if soup.ProfitMarginPct != 50.0 {
		t.Fatalf("want margin pct 50, got %g", soup.ProfitMarginPct)
	}
	if soup.PrimaryWasteIngredient != "Tomatoes" || soup.WastePct != 35.0 {
		t.Fatalf("unexpected waste fields: %+v", soup)
	}
	if len(soup.Ingredients) != 3 {
		t.Fatalf("unexpected ingredients: %v", soup.Ingredients)
	}
	if dishes[1].WastePct != 26.5 {
		t.Fatalf("want fractional waste pct 26.5, got %g", dishes[1].WastePct)
	}
}

func TestLoadDishesRejectsBadRows(t *testing.T) {
	l := New("₹")

	// one bad row fails the whole load
	bad := `Dish Name,Weekly Orders,Ingredients,Ingredient Cost,Profit Margin,Ingredient Waste
Good Dish,9,"Tomatoes",₹250,₹125,Tomatoes - 35%
Bad Dish,9,"Tomatoes",250,₹125,Tomatoes - 35%
`
	if _, err := l.LoadDishes(strings.NewReader(bad)); !errors.Is(err, ErrMalformedCurrency) {
		t.Fatalf("want ErrMalformedCurrency, got %v", err)
	}

	zeroCost := `Dish Name,Weekly Orders,Ingredients,Ingredient Cost,Profit Margin,Ingredient Waste
Free Dish,9,"Tomatoes",₹0,₹125,Tomatoes - 35%
`
	if _, err := l.LoadDishes(strings.NewReader(zeroCost)); !errors.Is(err, ErrZeroIngredientCost) {
		t.Fatalf("want ErrZeroIngredientCost, got %v", err)
	}
}

func TestLoadDishesMissingColumn(t *testing.T) {
	l := New("₹")
	_, err := l.LoadDishes(strings.NewReader("Dish Name,Weekly Orders\nSoup,9\n"))
	if err == nil || !strings.Contains(err.Error(), "missing column") {
		t.Fatalf("want missing column error, got %v", err)
	}
}

func TestLoadIngredients(t *testing.T) {
	l := New("₹")
	ingredients, err := l.LoadIngredients(strings.NewReader(ingredientCSV))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(ingredients) != 2 {
		t.Fatalf("want 2 ingredients, got %d", len(ingredients))
	}
	if ingredients[0].Name != "Tomatoes" || ingredients[0].AvgWastePct != 35 {
		t.Fatalf("unexpected first ingredient: %+v", ingredients[0])
	}
	if ingredients[0].SuggestedAction != "Use in soup; Freeze for later" {
		t.Fatalf("unexpected action: %q", ingredients[0].SuggestedAction)
	}
}

func TestLoadIsIdempotent(t *testing.T) {
	l := New("₹")
	first, err := l.LoadDishes(strings.NewReader(dishCSV))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	second, err := l.LoadDishes(strings.NewReader(dishCSV))
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	for i := range first {
		if first[i].ProfitMarginPct != second[i].ProfitMarginPct || first[i].WastePct != second[i].WastePct {
			t.Fatalf("derivation not idempotent at row %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestCustomCurrencySymbol(t *testing.T) {
	l := New("$")
	v, err := l.ParseCurrency("$75")
	if err != nil || v != 75 {
		t.Fatalf("want 75, got %d (err %v)", v, err)
	}
	if _, err := l.ParseCurrency("₹75"); !errors.Is(err, ErrMalformedCurrency) {
		t.Fatalf("want ErrMalformedCurrency for wrong symbol, got %v", err)
	}
}
