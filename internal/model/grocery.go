package model

import (
	"strings"
	"time"
)

// Category is the shelf an item belongs to. CategoryAll is only a filter value.
type Category string

const (
	CategoryAll     Category = "All"
	CategoryProduce Category = "Produce"
	CategoryDairy   Category = "Dairy"
	CategoryBakery  Category = "Bakery"
	CategoryMeat    Category = "Meat"
	CategoryFrozen  Category = "Frozen"
	CategoryPantry  Category = "Pantry"
	CategoryOther   Category = "Other"
)

// Categories lists the item categories in display order.
var Categories = []Category{
	CategoryProduce,
	CategoryDairy,
	CategoryBakery,
	CategoryMeat,
	CategoryFrozen,
	CategoryPantry,
	CategoryOther,
}

// Valid reports whether c may be stored on an item.
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidFilter reports whether c may be used to filter the item list.
func (c Category) ValidFilter() bool {
	return c == CategoryAll || c.Valid()
}

// ParseCategory resolves s case-insensitively to its canonical spelling,
// including the synthetic "All".
func ParseCategory(s string) (Category, bool) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(CategoryAll)) {
		return CategoryAll, true
	}
	for _, c := range Categories {
		if strings.EqualFold(s, string(c)) {
			return c, true
		}
	}
	return "", false
}

type GroceryItem struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Category  Category  `json:"category"`
	Completed bool      `json:"completed"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
	UserID    string    `json:"user_id"`
}
