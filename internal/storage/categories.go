package storage

import (
	"context"
	"fmt"

	"github.com/lhartmann/kontoflow/internal/model"
)

// defaultCategories seed a fresh database.
var defaultCategories = []model.Category{
	{Name: "Groceries", Type: model.CategoryTypeExpense, Description: "Supermarkets and food shopping"},
	{Name: "Dining", Type: model.CategoryTypeExpense, Description: "Restaurants, delivery, bakeries"},
	{Name: "Transport", Type: model.CategoryTypeExpense, Description: "Public transit, fuel, ride hailing"},
	{Name: "Entertainment", Type: model.CategoryTypeExpense, Description: "Streaming, games, events"},
	{Name: "Shopping", Type: model.CategoryTypeExpense, Description: "Online and retail purchases"},
	{Name: "Health", Type: model.CategoryTypeExpense, Description: "Pharmacies, doctors, fitness"},
	{Name: "Housing", Type: model.CategoryTypeExpense, Description: "Rent and housing costs"},
	{Name: "Utilities", Type: model.CategoryTypeExpense, Description: "Power, phone, internet"},
	{Name: "Insurance", Type: model.CategoryTypeExpense, Description: "Insurance premiums"},
	{Name: "Income", Type: model.CategoryTypeIncome, Description: "Salary and other incoming funds"},
}

// SeedCategories inserts the default categories if absent.
func (s *SQLiteStorage) SeedCategories(ctx context.Context) error {
	for _, c := range defaultCategories {
		if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO categories (name, description, type)
			VALUES (?, ?, ?)`, c.Name, c.Description, string(c.Type)); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.Name, err)
		}
	}
	return nil
}

// AddCategory inserts a new category.
func (s *SQLiteStorage) AddCategory(ctx context.Context, name, description string, catType model.CategoryType) error {
	if _, err := s.db.ExecContext(ctx, `INSERT INTO categories (name, description, type)
		VALUES (?, ?, ?)`, name, description, string(catType)); err != nil {
		return fmt.Errorf("failed to add category %q: %w", name, err)
	}
	return nil
}

// ListCategories returns active categories in name order.
func (s *SQLiteStorage) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, COALESCE(description, ''), type, is_active, created_at
		FROM categories WHERE is_active = 1 ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var catType string
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &catType, &c.IsActive, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.Type = model.CategoryType(catType)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
