package loader

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Tpg2004/nomora/internal/models"
)

// Parse failures are fatal for the whole table load: a partially loaded table
// would feed the insight engine misleading numbers.
var (
	ErrMalformedCurrency   = errors.New("malformed currency amount")
	ErrMalformedWasteField = errors.New("malformed ingredient waste field")
	ErrMalformedPercentage = errors.New("malformed waste percentage")
	ErrZeroIngredientCost  = errors.New("ingredient cost is zero")
)

const DefaultCurrencySymbol = "₹"

// Column headers exactly as they appear in the upstream exports.
var (
	dishColumns       = []string{"Dish Name", "Weekly Orders", "Ingredients", "Ingredient Cost", "Profit Margin", "Ingredient Waste"}
	ingredientColumns = []string{"Ingredient", "Avg Waste %", "Frequently Wasted In", "Suggested Action"}
)

// Loader normalizes the two raw tables into the in-memory model. Derivation
// is a pure function of the raw row, so reloading the same data always yields
// the same tables.
type Loader struct {
	currencySymbol string
}

func New(currencySymbol string) *Loader {
	if currencySymbol == "" {
		currencySymbol = DefaultCurrencySymbol
	}
	return &Loader{currencySymbol: currencySymbol}
}

func (l *Loader) LoadDishes(r io.Reader) ([]models.Dish, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading dish table: %w", err)
	}
	return l.loadDishRows(rows)
}

func (l *Loader) LoadIngredients(r io.Reader) ([]models.Ingredient, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading ingredient table: %w", err)
	}
	return l.loadIngredientRows(rows)
}

func (l *Loader) LoadDishesFile(path string) ([]models.Dish, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	dishes, err := l.LoadDishes(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dishes, nil
}

func (l *Loader) LoadIngredientsFile(path string) ([]models.Ingredient, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	ingredients, err := l.LoadIngredients(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ingredients, nil
}

func (l *Loader) loadDishRows(rows [][]string) ([]models.Dish, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("dish table: missing header row")
	}
	idx, err := headerIndex(rows[0], dishColumns)
	if err != nil {
		return nil, fmt.Errorf("dish table: %w", err)
	}

	dishes := make([]models.Dish, 0, len(rows)-1)
	for i, row := range rows[1:] {
		dish, err := l.normalizeDish(row, idx)
		if err != nil {
			return nil, fmt.Errorf("dish table row %d: %w", i+2, err)
		}
		dishes = append(dishes, dish)
	}
	return dishes, nil
}

func (l *Loader) loadIngredientRows(rows [][]string) ([]models.Ingredient, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("ingredient table: missing header row")
	}
	idx, err := headerIndex(rows[0], ingredientColumns)
	if err != nil {
		return nil, fmt.Errorf("ingredient table: %w", err)
	}

	ingredients := make([]models.Ingredient, 0, len(rows)-1)
	for i, row := range rows[1:] {
		pct, err := strconv.ParseFloat(strings.TrimSpace(cell(row, idx["Avg Waste %"])), 64)
		if err != nil {
			return nil, fmt.Errorf("ingredient table row %d: %w: %v", i+2, ErrMalformedPercentage, err)
		}
		ingredients = append(ingredients, models.Ingredient{
			Name:               cell(row, idx["Ingredient"]),
			AvgWastePct:        pct,
			FrequentlyWastedIn: cell(row, idx["Frequently Wasted In"]),
			SuggestedAction:    cell(row, idx["Suggested Action"]),
		})
	}
	return ingredients, nil
}

func (l *Loader) normalizeDish(row []string, idx map[string]int) (models.Dish, error) {
	orders, err := strconv.Atoi(strings.TrimSpace(cell(row, idx["Weekly Orders"])))
	if err != nil {
		return models.Dish{}, fmt.Errorf("weekly orders: %w", err)
	}
	if orders < 0 {
		return models.Dish{}, fmt.Errorf("weekly orders: negative value %d", orders)
	}

	cost, err := l.ParseCurrency(cell(row, idx["Ingredient Cost"]))
	if err != nil {
		return models.Dish{}, fmt.Errorf("ingredient cost: %w", err)
	}
	margin, err := l.ParseCurrency(cell(row, idx["Profit Margin"]))
	if err != nil {
		return models.Dish{}, fmt.Errorf("profit margin: %w", err)
	}
	if cost == 0 {
		return models.Dish{}, ErrZeroIngredientCost
	}

	wasteRaw := cell(row, idx["Ingredient Waste"])
	wasteIngredient, wastePct, err := ParseWaste(wasteRaw)
	if err != nil {
		return models.Dish{}, err
	}

	return models.Dish{
		Name:                   cell(row, idx["Dish Name"]),
		WeeklyOrders:           orders,
		Ingredients:            SplitIngredients(cell(row, idx["Ingredients"])),
		IngredientCost:         cost,
		ProfitMargin:           margin,
		ProfitMarginPct:        float64(margin) / float64(cost) * 100,
		IngredientWasteRaw:     wasteRaw,
		PrimaryWasteIngredient: wasteIngredient,
		WastePct:               wastePct,
	}, nil
}

// ParseCurrency extracts the leading digit run immediately following the
// currency symbol, e.g. "₹250" -> 250. Anything after the digit run is
// ignored.
func (l *Loader) ParseCurrency(s string) (int, error) {
	rest, ok := strings.CutPrefix(strings.TrimSpace(s), l.currencySymbol)
	if !ok {
		return 0, fmt.Errorf("%w: %q does not start with %q", ErrMalformedCurrency, s, l.currencySymbol)
	}
	end := 0
	for end < len(rest) && rest[end] >= '0' && rest[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, fmt.Errorf("%w: no digits after %q in %q", ErrMalformedCurrency, l.currencySymbol, s)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrMalformedCurrency, err)
	}
	return n, nil
}

// ParseWaste splits an "<ingredient> - <pct>%" field into its parts, e.g.
// "Tomatoes - 35%" -> ("Tomatoes", 35.0). The ingredient is everything before
// the first " - ".
func ParseWaste(s string) (string, float64, error) {
	name, rest, found := strings.Cut(s, " - ")
	if !found {
		return "", 0, fmt.Errorf("%w: %q has no \" - \" separator", ErrMalformedWasteField, s)
	}
	pctStr, ok := strings.CutSuffix(strings.TrimSpace(rest), "%")
	if !ok {
		return "", 0, fmt.Errorf("%w: %q does not end in %%", ErrMalformedPercentage, rest)
	}
	pct, err := strconv.ParseFloat(pctStr, 64)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrMalformedPercentage, err)
	}
	return name, pct, nil
}

// SplitIngredients splits a comma-space-joined ingredient list. An empty
// source string is an empty list, not an error.
func SplitIngredients(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	return strings.Split(s, ", ")
}

func headerIndex(header []string, want []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	for _, name := range want {
		if _, ok := idx[name]; !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
	}
	return idx, nil
}

// cell tolerates short rows, which the XLSX reader produces when trailing
// cells are empty.
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return row[i]
}
