package factories

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/jaswdr/faker"
	"github.com/schollz/progressbar/v3"
)

var dishPool = []string{
	"Margherita Pizza", "Pepperoni Pizza", "Veggie Supreme", "Chicken Tikka Masala",
	"Vegetable Curry", "Paneer Butter Masala", "Classic Cheeseburger", "Veggie Burger",
	"Caesar Salad", "Greek Salad", "Quinoa Salad", "Spaghetti Carbonara", "Lasagna",
	"Biryani", "Naan Bread", "Pad Thai", "Green Curry", "Tom Yum Soup", "Falafel Wrap",
	"Hummus Platter", "Grilled Salmon", "Mushroom Risotto", "Tomato Soup", "Club Sandwich",
}

var ingredientPool = []string{
	"Tomatoes", "Onions", "Garlic", "Paneer", "Chicken", "Spinach", "Mushrooms",
	"Bell Peppers", "Coriander", "Mint", "Lettuce", "Cheese", "Cream", "Butter",
	"Rice", "Potatoes", "Cauliflower", "Carrots", "Cucumber", "Lemons",
}

var actionPool = []string{
	"Use in soup", "Make stock", "Freeze for later", "Offer as side dish",
	"Run a daily special", "Pickle for garnish", "Reduce order quantity",
	"Blend into sauce", "Add to staff meal", "Compost trimmings",
}

// Generator builds raw (unparsed) sample rows in the upstream export format:
// currency strings, "<ingredient> - <pct>%" waste fields, semicolon-joined
// actions. The loader must accept everything it produces.
type Generator struct {
	rng            *rand.Rand
	fake           faker.Faker
	currencySymbol string
}

// NewGenerator returns a generator whose output is fully determined by seed.
func NewGenerator(seed int64, currencySymbol string) *Generator {
	return &Generator{
		rng:            rand.New(rand.NewSource(seed)),
		fake:           faker.NewWithSeed(rand.NewSource(seed)),
		currencySymbol: currencySymbol,
	}
}

// DishRows returns the dish table header plus n generated rows.
func (g *Generator) DishRows(n int) [][]string {
	rows := make([][]string, 0, n+1)
	rows = append(rows, []string{"Dish Name", "Weekly Orders", "Ingredients", "Ingredient Cost", "Profit Margin", "Ingredient Waste"})

	for i := 0; i < n; i++ {
		ingredients := g.pickIngredients()
		cost := g.fake.IntBetween(40, 400)
		rows = append(rows, []string{
			g.dishName(i),
			fmt.Sprintf("%d", g.fake.IntBetween(2, 40)),
			strings.Join(ingredients, ", "),
			fmt.Sprintf("%s%d", g.currencySymbol, cost),
			fmt.Sprintf("%s%d", g.currencySymbol, g.fake.IntBetween(10, cost)),
			fmt.Sprintf("%s - %d%%", ingredients[g.rng.Intn(len(ingredients))], g.fake.IntBetween(5, 45)),
		})
	}
	return rows
}

// IngredientRows returns the ingredient table header plus n generated rows.
func (g *Generator) IngredientRows(n int) [][]string {
	rows := make([][]string, 0, n+1)
	rows = append(rows, []string{"Ingredient", "Avg Waste %", "Frequently Wasted In", "Suggested Action"})

	for i := 0; i < n; i++ {
		name := ingredientPool[i%len(ingredientPool)]
		if i >= len(ingredientPool) {
			name = fmt.Sprintf("%s (batch %d)", name, i/len(ingredientPool)+1)
		}
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%.1f", g.fake.Float64(1, 5, 45)),
			strings.Join(g.pickDishes(), ", "),
			strings.Join(g.pickActions(), "; "),
		})
	}
	return rows
}

// WriteDataset generates both sample files under dir.
func (g *Generator) WriteDataset(dir string, dishes, ingredients int) error {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return err
	}

	bar := progressbar.Default(int64(dishes+ingredients), "generating sample data")

	if err := writeCSV(filepath.Join(dir, "dish_sales.csv"), g.DishRows(dishes), bar); err != nil {
		return err
	}
	return writeCSV(filepath.Join(dir, "ingredient_waste.csv"), g.IngredientRows(ingredients), bar)
}

func writeCSV(path string, rows [][]string, bar *progressbar.ProgressBar) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		if i > 0 {
			bar.Add(1)
		}
	}
	w.Flush()
	return w.Error()
}

func (g *Generator) dishName(i int) string {
	name := dishPool[i%len(dishPool)]
	if i >= len(dishPool) {
		name = fmt.Sprintf("%s %s", g.fake.Lorem().Word(), name)
	}
	return name
}

func (g *Generator) pickIngredients() []string {
	count := g.rng.Intn(4) + 2 // 2 to 5 ingredients, repeats allowed
	picks := make([]string, count)
	for i := range picks {
		picks[i] = ingredientPool[g.rng.Intn(len(ingredientPool))]
	}
	return picks
}

func (g *Generator) pickDishes() []string {
	count := g.rng.Intn(3) + 1
	picks := make([]string, count)
	for i := range picks {
		picks[i] = dishPool[g.rng.Intn(len(dishPool))]
	}
	return picks
}

func (g *Generator) pickActions() []string {
	count := g.rng.Intn(3) + 1
	picks := make([]string, count)
	for i := range picks {
		picks[i] = actionPool[g.rng.Intn(len(actionPool))]
	}
	return picks
}
