package categories

import (
	"context"
	"fmt"
	"testing"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// Creator is the part of the categories repository the builder needs.
type Creator interface {
	Create(ctx context.Context, userID, name string, kind model.Kind) (*model.Category, error)
}

// Builder provides a fluent interface for constructing test categories.
type Builder interface {
	// WithIncome adds income categories.
	WithIncome(names ...CategoryName) Builder

	// WithExpense adds expense categories.
	WithExpense(names ...CategoryName) Builder

	// WithFixture adds every entry of a predefined fixture.
	WithFixture(fixture Fixture) Builder

	// Build creates the categories for userID and returns them in the order
	// they were added.
	Build(ctx context.Context, repo Creator, userID string) (Categories, error)
}

// CategoryName represents a strongly-typed category name.
type CategoryName string

// String returns the string representation of the category name.
func (c CategoryName) String() string {
	return string(c)
}

// Common category names used across tests.
const (
	CategorySalary        CategoryName = "Salary"
	CategoryFreelance     CategoryName = "Freelance"
	CategoryGifts         CategoryName = "Gifts"
	CategoryGroceries     CategoryName = "Groceries"
	CategoryRent          CategoryName = "Rent"
	CategoryTransport     CategoryName = "Transport"
	CategoryUtilities     CategoryName = "Utilities"
	CategoryEntertainment CategoryName = "Entertainment"
)

// Categories represents a collection of created test categories.
type Categories []model.Category

// Find returns the category with the given type and name, or nil.
func (c Categories) Find(kind model.Kind, name CategoryName) *model.Category {
	for i := range c {
		if c[i].Type == kind && c[i].Name == name.String() {
			return &c[i]
		}
	}
	return nil
}

// MustFind returns the category with the given type and name, or fails the test.
func (c Categories) MustFind(t *testing.T, kind model.Kind, name CategoryName) model.Category {
	t.Helper()
	cat := c.Find(kind, name)
	if cat == nil {
		t.Fatalf("%s category %q not found in test data", kind, name)
	}
	return *cat
}

// Names returns the names of the categories of one type.
func (c Categories) Names(kind model.Kind) []string {
	var names []string
	for _, cat := range c {
		if cat.Type == kind {
			names = append(names, cat.Name)
		}
	}
	return names
}

type categoryBuilder struct {
	t       *testing.T
	seen    map[Entry]struct{}
	entries []Entry
}

// NewBuilder creates a new category builder for the given test.
func NewBuilder(t *testing.T) Builder {
	t.Helper()
	return &categoryBuilder{
		t:    t,
		seen: make(map[Entry]struct{}),
	}
}

func (b *categoryBuilder) add(entries ...Entry) Builder {
	for _, e := range entries {
		if _, ok := b.seen[e]; ok {
			continue
		}
		b.seen[e] = struct{}{}
		b.entries = append(b.entries, e)
	}
	return b
}

func (b *categoryBuilder) WithIncome(names ...CategoryName) Builder {
	return b.add(income(names...)...)
}

func (b *categoryBuilder) WithExpense(names ...CategoryName) Builder {
	return b.add(expense(names...)...)
}

func (b *categoryBuilder) WithFixture(fixture Fixture) Builder {
	return b.add(fixture.Entries()...)
}

func (b *categoryBuilder) Build(ctx context.Context, repo Creator, userID string) (Categories, error) {
	b.t.Helper()

	result := make(Categories, 0, len(b.entries))
	for _, e := range b.entries {
		cat, err := repo.Create(ctx, userID, e.Name.String(), e.Type)
		if err != nil {
			return nil, fmt.Errorf("failed to create %s category %q: %w", e.Type, e.Name, err)
		}
		result = append(result, *cat)
	}
	return result, nil
}
