package repositories

import (
	"context"

	"github.com/Tpg2004/nomora/internal/models"
)

type DishRepository interface {
	BulkCreate(ctx context.Context, dishes []models.Dish) error
	GetAll(ctx context.Context) ([]models.Dish, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}

type IngredientRepository interface {
	BulkCreate(ctx context.Context, ingredients []models.Ingredient) error
	GetAll(ctx context.Context) ([]models.Ingredient, error)
	Count(ctx context.Context) (int, error)
	DeleteAll(ctx context.Context) error
}
