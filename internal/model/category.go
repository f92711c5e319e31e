package model

// Category is a fixed classification tag for recipes. The set is seeded at
// startup and immutable afterwards; every other component reads it only.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
}

// SeededCategories is the fixed category set, stable ids 1..5.
func SeededCategories() []Category {
	return []Category{
		{ID: 1, Name: "Sobremesas"},
		{ID: 2, Name: "Lanches"},
		{ID: 3, Name: "Diets"},
		{ID: 4, Name: "Vegetariano"},
		{ID: 5, Name: "Bebidas"},
	}
}
