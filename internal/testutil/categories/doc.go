// Package categories seeds ledger categories for tests through a fluent
// builder and a few predefined fixtures.
//
// # Basic Usage
//
//	ledger := testutil.SetupLedger(t)
//	alice := ledger.MustRegister("alice_01")
//	cats := ledger.MustCategories(alice.ID, func(b categories.Builder) categories.Builder {
//		return b.WithIncome(categories.CategorySalary).
//			WithExpense(categories.CategoryGroceries, categories.CategoryRent)
//	})
//
//	groceries := cats.MustFind(t, model.KindExpense, categories.CategoryGroceries)
//
// # Using Fixtures
//
//	cats := ledger.MustCategories(alice.ID, func(b categories.Builder) categories.Builder {
//		return b.WithFixture(categories.FixtureHousehold)
//	})
//
// Categories are created in the order they were added, so table order in
// the categories file is predictable.
package categories
