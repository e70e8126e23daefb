package insights

import (
	"reflect"
	"testing"

	"github.com/Tpg2004/nomora/internal/models"
)

func testEngine() *Engine {
	return NewEngine(nil)
}

func TestLowPerformers(t *testing.T) {
	dishes := []models.Dish{
		{Name: "A", WeeklyOrders: 8, WastePct: 25},  // low orders, high waste: in
		{Name: "B", WeeklyOrders: 12, WastePct: 25}, // sells fine: out
		{Name: "C", WeeklyOrders: 8, WastePct: 15},  // low waste: out
		{Name: "D", WeeklyOrders: 9, WastePct: 21},  // in
	}

	low := testEngine().LowPerformers(dishes)
	if len(low) != 2 {
		t.Fatalf("want 2 low performers, got %d", len(low))
	}
	if low[0].Name != "A" || low[1].Name != "D" {
		t.Fatalf("want [A D] in table order, got [%s %s]", low[0].Name, low[1].Name)
	}
}

func TestLowPerformersBoundaries(t *testing.T) {
	// both thresholds are exclusive
	dishes := []models.Dish{
		{Name: "AtOrders", WeeklyOrders: 10, WastePct: 25},
		{Name: "AtWaste", WeeklyOrders: 8, WastePct: 20},
	}
	if low := testEngine().LowPerformers(dishes); len(low) != 0 {
		t.Fatalf("boundary dishes should be excluded, got %v", low)
	}
}

func TestTopWasteIngredients(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "A", AvgWastePct: 10},
		{Name: "B", AvgWastePct: 40},
		{Name: "C", AvgWastePct: 40},
		{Name: "D", AvgWastePct: 5},
	}

	top := testEngine().TopWasteIngredients(ingredients)
	if len(top) != 3 {
		t.Fatalf("want 3 rows, got %d", len(top))
	}
	// B and C tie; the stable sort keeps B (earlier in the table) first
	if top[0].Name != "B" || top[1].Name != "C" || top[2].Name != "A" {
		t.Fatalf("want [B C A], got [%s %s %s]", top[0].Name, top[1].Name, top[2].Name)
	}

	// input order untouched
	if ingredients[0].Name != "A" {
		t.Fatalf("input slice was reordered: %v", ingredients)
	}
}

func TestTopWasteShortTable(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "A", AvgWastePct: 10},
		{Name: "B", AvgWastePct: 40},
	}
	top := testEngine().TopWasteIngredients(ingredients)
	if len(top) != 2 {
		t.Fatalf("short table should return fewer rows, got %d", len(top))
	}
	if top[0].Name != "B" {
		t.Fatalf("want B first, got %s", top[0].Name)
	}
}

func TestHighMarginOverlapScore(t *testing.T) {
	dishes := []models.Dish{
		{Name: "X", ProfitMargin: 100, Ingredients: []string{"Tomato", "Tomato", "Cheese"}},
	}
	ranked := testEngine().HighMarginOverlap(dishes)
	if ranked[0].OverlapScore != 2 {
		t.Fatalf("duplicates should collapse: want 2, got %d", ranked[0].OverlapScore)
	}
	// near-duplicate names stay distinct
	dishes[0].Ingredients = []string{"Tomato", "tomato", "Tomatoes"}
	ranked = testEngine().HighMarginOverlap(dishes)
	if ranked[0].OverlapScore != 3 {
		t.Fatalf("case and plural variants are distinct: want 3, got %d", ranked[0].OverlapScore)
	}
}

func TestHighMarginOverlapRanking(t *testing.T) {
	dishes := []models.Dish{
		{Name: "Low", ProfitMargin: 50, Ingredients: []string{"A", "B"}},
		{Name: "TieSmall", ProfitMargin: 100, Ingredients: []string{"A"}},
		{Name: "TieBig", ProfitMargin: 100, Ingredients: []string{"A", "B", "C"}},
	}

	ranked := testEngine().HighMarginOverlap(dishes)
	want := []string{"TieBig", "TieSmall", "Low"}
	for i, name := range want {
		if ranked[i].Name != name {
			t.Fatalf("rank %d: want %s, got %s", i, name, ranked[i].Name)
		}
	}

	// the score is request-local: the input dishes carry none and stay in order
	if dishes[0].Name != "Low" || dishes[2].Name != "TieBig" {
		t.Fatalf("input slice was reordered: %v", dishes)
	}
}

func TestSuggestActions(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "Tomatoes", SuggestedAction: "Use in soup; Freeze for later"},
		{Name: "Lettuce", SuggestedAction: "Offer as side salad"},
	}

	sugg := testEngine().SuggestActions(ingredients)
	if !reflect.DeepEqual(sugg.Order, []string{"Tomatoes", "Lettuce"}) {
		t.Fatalf("unexpected order: %v", sugg.Order)
	}
	if !reflect.DeepEqual(sugg.Actions["Tomatoes"], []string{"Use in soup", "Freeze for later"}) {
		t.Fatalf("unexpected phrases: %v", sugg.Actions["Tomatoes"])
	}
}

func TestSuggestActionsDuplicateLastWins(t *testing.T) {
	ingredients := []models.Ingredient{
		{Name: "Tomatoes", SuggestedAction: "Old advice"},
		{Name: "Lettuce", SuggestedAction: "Offer as side salad"},
		{Name: "Tomatoes", SuggestedAction: "New advice"},
	}

	sugg := testEngine().SuggestActions(ingredients)
	if !reflect.DeepEqual(sugg.Order, []string{"Tomatoes", "Lettuce"}) {
		t.Fatalf("duplicate should keep its first position: %v", sugg.Order)
	}
	if !reflect.DeepEqual(sugg.Actions["Tomatoes"], []string{"New advice"}) {
		t.Fatalf("last row should win: %v", sugg.Actions["Tomatoes"])
	}
}

func TestSummarize(t *testing.T) {
	dishes := []models.Dish{
		{Name: "A", WeeklyOrders: 8, WastePct: 25},
		{Name: "B", WeeklyOrders: 12, WastePct: 10},
	}
	ingredients := []models.Ingredient{
		{Name: "Tomatoes", AvgWastePct: 35},
		{Name: "Lettuce", AvgWastePct: 32},
	}

	sum := testEngine().Summarize(dishes, ingredients)
	if sum.TotalWeeklyOrders != 20 {
		t.Fatalf("want 20 total orders, got %d", sum.TotalWeeklyOrders)
	}
	if sum.HighestWasteIngredient != "Tomatoes" || sum.HighestWastePct != 35 {
		t.Fatalf("unexpected highest waste: %s (%g)", sum.HighestWasteIngredient, sum.HighestWastePct)
	}
	if sum.DishesNeedingAttention != 1 {
		t.Fatalf("want 1 dish needing attention, got %d", sum.DishesNeedingAttention)
	}
}

func TestSummarizeEmptyIngredientName(t *testing.T) {
	// a nameless first row still holds the top spot against lower rows
	ingredients := []models.Ingredient{
		{Name: "", AvgWastePct: 40},
		{Name: "Tomatoes", AvgWastePct: 30},
	}

	sum := testEngine().Summarize(nil, ingredients)
	if sum.HighestWasteIngredient != "" || sum.HighestWastePct != 40 {
		t.Fatalf("unexpected highest waste: %q (%g)", sum.HighestWasteIngredient, sum.HighestWastePct)
	}
}

func TestEngineThresholdsFromConfig(t *testing.T) {
	cfg := &models.Config{LowPerformerMaxOrders: 20, LowPerformerMinWaste: 5, TopWasteCount: 1}
	e := NewEngine(cfg)

	dishes := []models.Dish{{Name: "A", WeeklyOrders: 15, WastePct: 10}}
	if low := e.LowPerformers(dishes); len(low) != 1 {
		t.Fatalf("configured thresholds should apply, got %v", low)
	}
	top := e.TopWasteIngredients([]models.Ingredient{{Name: "A", AvgWastePct: 1}, {Name: "B", AvgWastePct: 2}})
	if len(top) != 1 || top[0].Name != "B" {
		t.Fatalf("want just B, got %v", top)
	}
}
