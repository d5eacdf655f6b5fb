package model

import "time"

// CategoryType distinguishes income from expense categories.
type CategoryType string

const (
	// CategoryTypeIncome marks categories for incoming funds.
	CategoryTypeIncome CategoryType = "income"
	// CategoryTypeExpense marks categories for outgoing funds.
	CategoryTypeExpense CategoryType = "expense"
)

// Category is a valid spending category the classifier may assign.
type Category struct {
	CreatedAt   time.Time
	Name        string
	Description string
	Type        CategoryType
	ID          int
	IsActive    bool
}

// CategoryNames extracts the names from a category list, preserving order.
func CategoryNames(categories []Category) []string {
	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	return names
}
