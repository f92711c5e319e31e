package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// Ingredient is a single recipe ingredient with an optional quantity.
type Ingredient struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity,omitempty"`
}

// IngredientList is stored as a single text column and rendered on the
// wire as a comma-separated string, e.g. "farinha (2 xícaras), ovo (3)".
type IngredientList []Ingredient

// String renders the list in its wire/storage form. Entries with an
// empty name are dropped.
func (l IngredientList) String() string {
	parts := make([]string, 0, len(l))
	for _, ing := range l {
		name := strings.TrimSpace(ing.Name)
		if name == "" {
			continue
		}
		if q := strings.TrimSpace(ing.Quantity); q != "" {
			parts = append(parts, fmt.Sprintf("%s (%s)", name, q))
		} else {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

// ParseIngredients parses the comma-separated form back into a list.
func ParseIngredients(s string) IngredientList {
	var list IngredientList
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		ing := Ingredient{Name: part}
		if strings.HasSuffix(part, ")") {
			if open := strings.LastIndex(part, "("); open > 0 {
				ing.Name = strings.TrimSpace(part[:open])
				ing.Quantity = strings.TrimSpace(part[open+1 : len(part)-1])
			}
		}
		if ing.Name == "" {
			continue
		}
		list = append(list, ing)
	}
	return list
}

// Value implements driver.Valuer for the text column.
func (l IngredientList) Value() (driver.Value, error) {
	return l.String(), nil
}

// Scan implements sql.Scanner.
func (l *IngredientList) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		*l = ParseIngredients(v)
		return nil
	case []byte:
		*l = ParseIngredients(string(v))
		return nil
	default:
		return fmt.Errorf("unsupported ingredients column type %T", value)
	}
}

// MarshalJSON emits the comma-separated string form.
func (l IngredientList) MarshalJSON() ([]byte, error) {
	return json.Marshal(l.String())
}

// UnmarshalJSON accepts either the string form or a JSON array of
// {name, quantity} objects, which older app builds still send.
func (l *IngredientList) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*l = ParseIngredients(s)
		return nil
	}

	var items []Ingredient
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("invalid ingredients payload: %w", err)
	}
	out := make(IngredientList, 0, len(items))
	for _, ing := range items {
		ing.Name = strings.TrimSpace(ing.Name)
		if ing.Name == "" {
			continue
		}
		out = append(out, ing)
	}
	*l = out
	return nil
}
