// Package categories seeds test databases with categories through a fluent builder.
//
//	db := testutil.SetupTestDB(t, func(b categories.Builder) categories.Builder {
//		return b.WithBasicCategories().WithCategory("Custom Category")
//	})
package categories

import (
	"context"
	"fmt"
	"sort"
	"testing"

	"github.com/Veraticus/budget-manager/internal/model"
	"github.com/Veraticus/budget-manager/internal/service"
)

// Builder provides a fluent interface for constructing test categories.
type Builder interface {
	// WithCategory adds a single category to the builder.
	WithCategory(name CategoryName) Builder

	// WithCategories adds multiple categories to the builder.
	WithCategories(names ...CategoryName) Builder

	// WithBasicCategories adds the minimal set of categories commonly used in tests.
	WithBasicCategories() Builder

	// WithFixture adds the categories of a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build creates the categories in store and returns them ordered by name.
	Build(ctx context.Context, store service.CategoryStore) (Categories, error)
}

// CategoryName is a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategoryGroceries     CategoryName = "Groceries"
	CategoryDining        CategoryName = "Dining Out"
	CategoryRent          CategoryName = "Rent"
	CategoryUtilities     CategoryName = "Utilities"
	CategoryTransport     CategoryName = "Transportation"
	CategoryEntertainment CategoryName = "Entertainment"
	CategorySalary        CategoryName = "Salary"
	CategoryFreelance     CategoryName = "Freelance"
)

// Categories is a collection of created test categories.
type Categories []model.Category

// Find returns the category with the given name, or nil if not found.
func (c Categories) Find(name CategoryName) *model.Category {
	for i := range c {
		if c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given name, or fails the test if not found.
func (c Categories) MustFind(t *testing.T, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(name)
	if cat == nil {
		t.Fatalf("category %q not found in test data", name)
	}
	return *cat
}

// Names returns all category names.
func (c Categories) Names() []string {
	names := make([]string, len(c))
	for i, cat := range c {
		names[i] = cat.Name
	}
	return names
}

// Fixture is a predefined set of category names.
type Fixture struct {
	Name       string
	Categories []CategoryName
}

// Predefined fixtures.
var (
	// FixtureHousehold covers everyday spending and income.
	FixtureHousehold = Fixture{
		Name: "Household",
		Categories: []CategoryName{
			CategoryGroceries,
			CategoryDining,
			CategoryRent,
			CategoryUtilities,
			CategoryTransport,
			CategoryEntertainment,
			CategorySalary,
			CategoryFreelance,
		},
	}
)

type categoryBuilder struct {
	t          *testing.T
	categories map[CategoryName]struct{}
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &categoryBuilder{
		t:          t,
		categories: make(map[CategoryName]struct{}),
	}
}

func (b *categoryBuilder) WithCategory(name CategoryName) Builder {
	b.categories[name] = struct{}{}
	return b
}

func (b *categoryBuilder) WithCategories(names ...CategoryName) Builder {
	for _, name := range names {
		b.categories[name] = struct{}{}
	}
	return b
}

func (b *categoryBuilder) WithBasicCategories() Builder {
	return b.WithCategories(CategoryGroceries, CategoryRent, CategorySalary)
}

func (b *categoryBuilder) WithFixture(fixture Fixture) Builder {
	return b.WithCategories(fixture.Categories...)
}

func (b *categoryBuilder) Build(ctx context.Context, store service.CategoryStore) (Categories, error) {
	b.t.Helper()

	names := make([]string, 0, len(b.categories))
	for name := range b.categories {
		names = append(names, name.String())
	}
	sort.Strings(names)

	created := make(Categories, 0, len(names))
	for _, name := range names {
		cat, err := model.NewCategory(name, "", "")
		if err != nil {
			return nil, fmt.Errorf("failed to build category %q: %w", name, err)
		}
		if _, err := store.CreateCategory(ctx, cat); err != nil {
			return nil, fmt.Errorf("failed to create category %q: %w", name, err)
		}
		created = append(created, *cat)
	}
	return created, nil
}
