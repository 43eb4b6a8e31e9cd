package categories

import "github.com/Veraticus/spice-ledger/internal/model"

// Entry is one category a fixture seeds.
type Entry struct {
	Name CategoryName
	Type model.Kind
}

// Fixture is a predefined set of categories for a test scenario.
type Fixture interface {
	Name() string
	Entries() []Entry
}

type fixture struct {
	name    string
	entries []Entry
}

func (f *fixture) Name() string     { return f.name }
func (f *fixture) Entries() []Entry { return f.entries }

func income(names ...CategoryName) []Entry  { return entries(model.KindIncome, names) }
func expense(names ...CategoryName) []Entry { return entries(model.KindExpense, names) }

func entries(kind model.Kind, names []CategoryName) []Entry {
	out := make([]Entry, 0, len(names))
	for _, name := range names {
		out = append(out, Entry{Name: name, Type: kind})
	}
	return out
}

// Predefined fixtures for common test scenarios.
var (
	// FixtureMinimal has one category of each type.
	FixtureMinimal = &fixture{
		name: "Minimal",
		entries: append(
			income(CategorySalary),
			expense(CategoryGroceries)...,
		),
	}

	// FixtureHousehold covers the usual monthly budget.
	FixtureHousehold = &fixture{
		name: "Household",
		entries: append(
			income(CategorySalary, CategoryFreelance, CategoryGifts),
			expense(CategoryGroceries, CategoryRent, CategoryTransport, CategoryUtilities, CategoryEntertainment)...,
		),
	}
)

// CompositeFixture combines several fixtures, dropping repeated entries.
type CompositeFixture struct {
	name     string
	fixtures []Fixture
}

// NewCompositeFixture creates a fixture that combines fixtures.
func NewCompositeFixture(name string, fixtures ...Fixture) Fixture {
	return &CompositeFixture{name: name, fixtures: fixtures}
}

// Name implements Fixture.
func (c *CompositeFixture) Name() string { return c.name }

// Entries implements Fixture.
func (c *CompositeFixture) Entries() []Entry {
	seen := make(map[Entry]struct{})
	var out []Entry
	for _, f := range c.fixtures {
		for _, e := range f.Entries() {
			if _, exists := seen[e]; !exists {
				seen[e] = struct{}{}
				out = append(out, e)
			}
		}
	}
	return out
}
