package category

import (
	"errors"
	"strings"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Domain errors
var (
	ErrEmptyName   = errors.New("category name cannot be empty")
	ErrNameTooLong = errors.New("category name cannot exceed 100 characters")
)

// Category is an age or gender group that trains together (e.g. "U12 boys").
type Category struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	AgeGroup    string `json:"age_group"`
	SortOrder   int    `json:"sort_order"`
	Active      bool   `json:"active"`
}

// Validate checks if the Category has valid data.
// PRE: Category struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if len(c.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	return nil
}
