package assistant

import (
	"fmt"
	"strings"

	"github.com/Tpg2004/nomora/internal/insights"
	"github.com/Tpg2004/nomora/internal/models"
)

const apology = "I'm sorry, I didn't understand that question. Please try rephrasing."

// Assistant answers operator queries against the loaded tables. It keeps no
// per-query state: the tables are shared read-only and every answer is built
// into a fresh Response, so the same query always yields the same answer.
type Assistant struct {
	engine      *insights.Engine
	dishes      []models.Dish
	ingredients []models.Ingredient
	intents     []intent
}

type intent struct {
	keyword string
	handle  func() models.Response
}

func New(engine *insights.Engine, dishes []models.Dish, ingredients []models.Ingredient) *Assistant {
	a := &Assistant{
		engine:      engine,
		dishes:      dishes,
		ingredients: ingredients,
	}
	// Priority order matters: the first keyword contained in the query wins,
	// even when the query mentions several.
	a.intents = []intent{
		{"remove", a.removalCandidates},
		{"wasted", a.topWaste},
		{"new dishes", a.suggestions},
		{"overlapping", a.overlapRanking},
	}
	return a
}

// HandleQuery dispatches a free-text query by case-insensitive substring
// matching. Unmatched queries, including empty ones, get the apology
// fallback; they are never an error.
func (a *Assistant) HandleQuery(query string) models.Response {
	q := strings.ToLower(query)
	for _, in := range a.intents {
		if strings.Contains(q, in.keyword) {
			return in.handle()
		}
	}
	return models.Response{Content: models.Text(apology)}
}

func (a *Assistant) removalCandidates() models.Response {
	low := a.engine.LowPerformers(a.dishes)

	table := &models.Table{Columns: []string{"Dish Name", "Weekly Orders", "Primary Waste Ingredient", "Waste Percentage"}}
	chartData := &models.Table{Columns: []string{"Dish Name", "Waste Percentage"}}
	for _, d := range low {
		table.Rows = append(table.Rows, []any{d.Name, d.WeeklyOrders, d.PrimaryWasteIngredient, d.WastePct})
		chartData.Rows = append(chartData.Rows, []any{d.Name, d.WastePct})
	}

	return models.Response{
		Title:   "Dishes to Consider Removing/Repurposing",
		Content: table,
		Chart: &models.ChartSpec{
			Type: models.ChartBar,
			X:    "Dish Name",
			Y:    "Waste Percentage",
			Data: chartData,
		},
	}
}

func (a *Assistant) topWaste() models.Response {
	top := a.engine.TopWasteIngredients(a.ingredients)

	table := &models.Table{Columns: []string{"Ingredient", "Avg Waste %", "Frequently Wasted In"}}
	chartData := &models.Table{Columns: []string{"Ingredient", "Avg Waste %"}}
	for _, ing := range top {
		table.Rows = append(table.Rows, []any{ing.Name, ing.AvgWastePct, ing.FrequentlyWastedIn})
		chartData.Rows = append(chartData.Rows, []any{ing.Name, ing.AvgWastePct})
	}

	return models.Response{
		Title:   "Most Wasted Ingredients",
		Content: table,
		Chart: &models.ChartSpec{
			Type:  models.ChartPie,
			Label: "Ingredient",
			Value: "Avg Waste %",
			Data:  chartData,
		},
	}
}

func (a *Assistant) suggestions() models.Response {
	sugg := a.engine.SuggestActions(a.ingredients)

	blocks := make([]string, 0, len(sugg.Order))
	for _, name := range sugg.Order {
		blocks = append(blocks, fmt.Sprintf("**%s**:\n- %s", name, strings.Join(sugg.Actions[name], "\n- ")))
	}

	return models.Response{
		Title:   "Suggested Waste Reduction Actions",
		Content: models.Text(strings.Join(blocks, "\n\n")),
	}
}

func (a *Assistant) overlapRanking() models.Response {
	ranked := a.engine.HighMarginOverlap(a.dishes)

	table := &models.Table{Columns: []string{"Dish Name", "Profit Margin", "Ingredients"}}
	// The scatter needs columns the content projection drops, so the chart
	// carries its own data table with the request-local overlap scores.
	chartData := &models.Table{Columns: []string{"Dish Name", "Profit Margin", "Weekly Orders", "Overlap Score"}}
	for _, d := range ranked {
		table.Rows = append(table.Rows, []any{d.Name, d.ProfitMargin, strings.Join(d.Ingredients, ", ")})
		chartData.Rows = append(chartData.Rows, []any{d.Name, d.ProfitMargin, d.WeeklyOrders, d.OverlapScore})
	}

	return models.Response{
		Title:   "High Margin Dishes with Ingredient Overlap",
		Content: table,
		Chart: &models.ChartSpec{
			Type:  models.ChartScatter,
			X:     "Profit Margin",
			Y:     "Weekly Orders",
			Size:  "Overlap Score",
			Color: "Dish Name",
			Data:  chartData,
		},
	}
}

func (a *Assistant) summary() models.Response {
	sum := a.engine.Summarize(a.dishes, a.ingredients)

	table := &models.Table{Columns: []string{"Metric", "Value"}}
	table.Rows = append(table.Rows,
		[]any{"Total Weekly Orders", sum.TotalWeeklyOrders},
		[]any{"Highest Waste Ingredient", fmt.Sprintf("%s (%g%%)", sum.HighestWasteIngredient, sum.HighestWastePct)},
		[]any{"Dishes Needing Attention", sum.DishesNeedingAttention},
	)

	chartData := &models.Table{Columns: []string{"Ingredient", "Avg Waste %"}}
	for _, ing := range a.ingredients {
		chartData.Rows = append(chartData.Rows, []any{ing.Name, ing.AvgWastePct})
	}

	return models.Response{
		Title:   "Waste Analytics Summary",
		Content: table,
		Chart: &models.ChartSpec{
			Type: models.ChartBar,
			X:    "Ingredient",
			Y:    "Avg Waste %",
			Data: chartData,
		},
	}
}

// Report is a named response for batch export.
type Report struct {
	Name     string
	Response models.Response
}

// Reports runs every analysis once and returns the responses in export order.
func (a *Assistant) Reports() []Report {
	return []Report{
		{"removal_candidates", a.removalCandidates()},
		{"top_waste", a.topWaste()},
		{"suggestions", a.suggestions()},
		{"overlap_ranking", a.overlapRanking()},
		{"summary", a.summary()},
	}
}
