package loader

import (
	"fmt"

	"github.com/Tpg2004/nomora/internal/models"
	"github.com/xuri/excelize/v2"
)

// LoadDishesXLSX reads the dish table from the first sheet of an Excel
// workbook. The sheet must carry the same header row as the CSV export.
func (l *Loader) LoadDishesXLSX(path string) ([]models.Dish, error) {
	rows, err := sheetRows(path)
	if err != nil {
		return nil, err
	}
	dishes, err := l.loadDishRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return dishes, nil
}

// LoadIngredientsXLSX reads the ingredient table from the first sheet of an
// Excel workbook.
func (l *Loader) LoadIngredientsXLSX(path string) ([]models.Ingredient, error) {
	rows, err := sheetRows(path)
	if err != nil {
		return nil, err
	}
	ingredients, err := l.loadIngredientRows(rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ingredients, nil
}

func sheetRows(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook %s: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q of %s: %w", sheet, path, err)
	}
	return rows, nil
}
