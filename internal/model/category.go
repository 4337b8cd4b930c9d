package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

var colorPattern = regexp.MustCompile(`^#([0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Category is a user defined label grouping transactions, e.g. "Food".
type Category struct {
	CreatedAt   time.Time `json:"created_at"`
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// NewCategory creates a category with a fresh identifier.
func NewCategory(name, description, color string) (*Category, error) {
	c := &Category{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(name),
		Description: strings.TrimSpace(description),
		Color:       strings.TrimSpace(color),
		CreatedAt:   time.Now(),
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Validate checks the category invariants.
func (c *Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return newValidationError("name", "name required")
	}
	if c.Color != "" && !colorPattern.MatchString(c.Color) {
		return newValidationError("color", "must be a hex code like #FF6B6B")
	}
	return nil
}

// CategoryUpdate carries the fields a caller chose to change.
type CategoryUpdate struct {
	Name        *string
	Description *string
	Color       *string
}

// IsEmpty reports whether no field is set.
func (u CategoryUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Color == nil
}

// Apply returns a copy of c with the update applied and revalidated.
func (u CategoryUpdate) Apply(c Category) (*Category, error) {
	if u.Name != nil {
		c.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		c.Description = strings.TrimSpace(*u.Description)
	}
	if u.Color != nil {
		c.Color = strings.TrimSpace(*u.Color)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
