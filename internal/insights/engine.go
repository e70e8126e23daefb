package insights

import (
	"log"
	"sort"
	"strings"

	"github.com/Tpg2004/nomora/internal/models"
)

const (
	DefaultMaxWeeklyOrders = 10
	DefaultMinWastePct     = 20.0
	DefaultTopWasteCount   = 3
)

// Engine holds the analysis thresholds. Every method is referentially
// transparent: the shared tables are never modified, and anything derived per
// request (notably the overlap scores) lives in the returned values only.
type Engine struct {
	MaxWeeklyOrders int     // low performer order ceiling, exclusive
	MinWastePct     float64 // low performer waste floor, exclusive
	TopWasteCount   int
}

func NewEngine(cfg *models.Config) *Engine {
	e := &Engine{
		MaxWeeklyOrders: DefaultMaxWeeklyOrders,
		MinWastePct:     DefaultMinWastePct,
		TopWasteCount:   DefaultTopWasteCount,
	}
	if cfg == nil {
		return e
	}
	if cfg.LowPerformerMaxOrders > 0 {
		e.MaxWeeklyOrders = cfg.LowPerformerMaxOrders
	}
	if cfg.LowPerformerMinWaste > 0 {
		e.MinWastePct = cfg.LowPerformerMinWaste
	}
	if cfg.TopWasteCount > 0 {
		e.TopWasteCount = cfg.TopWasteCount
	}
	return e
}

// LowPerformers returns the dishes that sell little and waste much, in table
// order. These are the removal/repurposing candidates.
func (e *Engine) LowPerformers(dishes []models.Dish) []models.Dish {
	low := make([]models.Dish, 0)
	for _, d := range dishes {
		if d.WeeklyOrders < e.MaxWeeklyOrders && d.WastePct > e.MinWastePct {
			low = append(low, d)
		}
	}
	return low
}

// TopWasteIngredients ranks ingredients by average waste, descending, and
// returns the first TopWasteCount. Ties keep their table order; short tables
// simply return fewer rows.
func (e *Engine) TopWasteIngredients(ingredients []models.Ingredient) []models.Ingredient {
	ranked := make([]models.Ingredient, len(ingredients))
	copy(ranked, ingredients)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AvgWastePct > ranked[j].AvgWastePct
	})
	if len(ranked) > e.TopWasteCount {
		ranked = ranked[:e.TopWasteCount]
	}
	return ranked
}

// RankedDish pairs a dish with its request-local overlap score.
type RankedDish struct {
	models.Dish
	OverlapScore int `json:"overlap_score"`
}

// HighMarginOverlap scores every dish by how many distinct ingredients it
// uses and returns a fresh ranking by (profit margin desc, overlap desc),
// stable for remaining ties.
func (e *Engine) HighMarginOverlap(dishes []models.Dish) []RankedDish {
	ranked := make([]RankedDish, len(dishes))
	for i, d := range dishes {
		ranked[i] = RankedDish{Dish: d, OverlapScore: d.UniqueIngredientCount()}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].ProfitMargin != ranked[j].ProfitMargin {
			return ranked[i].ProfitMargin > ranked[j].ProfitMargin
		}
		return ranked[i].OverlapScore > ranked[j].OverlapScore
	})
	return ranked
}

// Suggestions maps ingredient names to their action phrases while keeping the
// source-table order for iteration.
type Suggestions struct {
	Order   []string
	Actions map[string][]string
}

// SuggestActions splits each ingredient's suggested action on "; " into
// trimmed phrases. A duplicate ingredient name overwrites the earlier entry
// (last row wins, first position kept); that is a data quality problem in the
// source table, so it is logged rather than silently corrected.
func (e *Engine) SuggestActions(ingredients []models.Ingredient) Suggestions {
	s := Suggestions{
		Order:   make([]string, 0, len(ingredients)),
		Actions: make(map[string][]string, len(ingredients)),
	}
	for _, ing := range ingredients {
		if _, seen := s.Actions[ing.Name]; seen {
			log.Printf("duplicate ingredient %q in suggestions source, keeping the later row", ing.Name)
		} else {
			s.Order = append(s.Order, ing.Name)
		}
		phrases := strings.Split(ing.SuggestedAction, "; ")
		actions := make([]string, len(phrases))
		for i, p := range phrases {
			actions[i] = strings.TrimSpace(p)
		}
		s.Actions[ing.Name] = actions
	}
	return s
}

// Summary carries the dashboard headline numbers.
type Summary struct {
	TotalWeeklyOrders      int
	HighestWasteIngredient string
	HighestWastePct        float64
	DishesNeedingAttention int
}

func (e *Engine) Summarize(dishes []models.Dish, ingredients []models.Ingredient) Summary {
	var sum Summary
	for _, d := range dishes {
		sum.TotalWeeklyOrders += d.WeeklyOrders
	}
	for i, ing := range ingredients {
		if i == 0 || ing.AvgWastePct > sum.HighestWastePct {
			sum.HighestWasteIngredient = ing.Name
			sum.HighestWastePct = ing.AvgWastePct
		}
	}
	sum.DishesNeedingAttention = len(e.LowPerformers(dishes))
	return sum
}
