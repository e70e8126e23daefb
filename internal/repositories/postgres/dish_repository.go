package postgres

import (
	"context"

	"github.com/Tpg2004/nomora/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DishRepository persists the normalized dish table. The position column
// preserves source-table order, which the stable sorts in the insight engine
// rely on.
type DishRepository struct {
	pool *pgxpool.Pool
}

func NewDishRepository(pool *pgxpool.Pool) *DishRepository {
	return &DishRepository{pool: pool}
}

func (r *DishRepository) BulkCreate(ctx context.Context, dishes []models.Dish) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"dishes"},
		[]string{
			"position", "name", "weekly_orders", "ingredients",
			"ingredient_cost", "profit_margin", "profit_margin_pct",
			"ingredient_waste_raw", "primary_waste_ingredient", "waste_pct",
		},
		pgx.CopyFromSlice(len(dishes), func(i int) ([]interface{}, error) {
			return []interface{}{
				i,
				dishes[i].Name,
				dishes[i].WeeklyOrders,
				dishes[i].Ingredients,
				dishes[i].IngredientCost,
				dishes[i].ProfitMargin,
				dishes[i].ProfitMarginPct,
				dishes[i].IngredientWasteRaw,
				dishes[i].PrimaryWasteIngredient,
				dishes[i].WastePct,
			}, nil
		}),
	)
	return err
}

func (r *DishRepository) GetAll(ctx context.Context) ([]models.Dish, error) {
	query := `
        SELECT
            name, weekly_orders, ingredients, ingredient_cost, profit_margin,
            profit_margin_pct, ingredient_waste_raw, primary_waste_ingredient, waste_pct
        FROM dishes
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var dishes []models.Dish
	for rows.Next() {
		var dish models.Dish
		err := rows.Scan(
			&dish.Name,
			&dish.WeeklyOrders,
			&dish.Ingredients,
			&dish.IngredientCost,
			&dish.ProfitMargin,
			&dish.ProfitMarginPct,
			&dish.IngredientWasteRaw,
			&dish.PrimaryWasteIngredient,
			&dish.WastePct,
		)
		if err != nil {
			return nil, err
		}
		dishes = append(dishes, dish)
	}
	return dishes, rows.Err()
}

func (r *DishRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM dishes").Scan(&count)
	return count, err
}

func (r *DishRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM dishes")
	return err
}
