package postgres

import (
	"context"

	"github.com/Tpg2004/nomora/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type IngredientRepository struct {
	pool *pgxpool.Pool
}

func NewIngredientRepository(pool *pgxpool.Pool) *IngredientRepository {
	return &IngredientRepository{pool: pool}
}

func (r *IngredientRepository) BulkCreate(ctx context.Context, ingredients []models.Ingredient) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"ingredients"},
		[]string{"position", "name", "avg_waste_pct", "frequently_wasted_in", "suggested_action"},
		pgx.CopyFromSlice(len(ingredients), func(i int) ([]interface{}, error) {
			return []interface{}{
				i,
				ingredients[i].Name,
				ingredients[i].AvgWastePct,
				ingredients[i].FrequentlyWastedIn,
				ingredients[i].SuggestedAction,
			}, nil
		}),
	)
	return err
}

func (r *IngredientRepository) GetAll(ctx context.Context) ([]models.Ingredient, error) {
	query := `
        SELECT name, avg_waste_pct, frequently_wasted_in, suggested_action
        FROM ingredients
        ORDER BY position
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ingredients []models.Ingredient
	for rows.Next() {
		var ing models.Ingredient
		if err := rows.Scan(&ing.Name, &ing.AvgWastePct, &ing.FrequentlyWastedIn, &ing.SuggestedAction); err != nil {
			return nil, err
		}
		ingredients = append(ingredients, ing)
	}
	return ingredients, rows.Err()
}

func (r *IngredientRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM ingredients").Scan(&count)
	return count, err
}

func (r *IngredientRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "DELETE FROM ingredients")
	return err
}
