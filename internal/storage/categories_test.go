package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

func TestCreateCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("appends a row", func(t *testing.T) {
		store := createTestStorage(t)

		cat, err := store.Categories.Create(ctx, "u1", "  Salary ", model.KindIncome)
		require.NoError(t, err)
		assert.Equal(t, model.Category{ID: "id-1", UserID: "u1", Type: model.KindIncome, Name: "Salary"}, *cat)
		assert.Equal(t, "id-1\tu1\tincome\tSalary\n", readTable(t, store, "categories"))
	})

	t.Run("duplicate name per user and type", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "Food", model.KindExpense)

		_, err := store.Categories.Create(ctx, "u1", " FOOD ", model.KindExpense)
		require.ErrorIs(t, err, common.ErrDuplicateEntry)

		// Same name is fine for the other type and for other users.
		_, err = store.Categories.Create(ctx, "u1", "Food", model.KindIncome)
		require.NoError(t, err)
		_, err = store.Categories.Create(ctx, "u2", "Food", model.KindExpense)
		require.NoError(t, err)
	})

	t.Run("invalid input", func(t *testing.T) {
		store := createTestStorage(t)

		_, err := store.Categories.Create(ctx, "u1", "  ", model.KindExpense)
		require.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = store.Categories.Create(ctx, "u1", "Bad\tName", model.KindExpense)
		require.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = store.Categories.Create(ctx, "u1", strings.Repeat("x", MaxCategoryNameLength+1), model.KindExpense)
		require.ErrorIs(t, err, common.ErrInvalidInput)

		_, err = store.Categories.Create(ctx, "u1", "Food", model.Kind("transfer"))
		require.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestListCategories(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	mustCategory(t, store, "u1", "Salary", model.KindIncome)
	mustCategory(t, store, "u1", "Food", model.KindExpense)
	mustCategory(t, store, "u2", "Rent", model.KindExpense)
	mustCategory(t, store, "u1", "Bonus", model.KindIncome)

	cats, err := store.Categories.List(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, cats, 3)
	assert.Equal(t, "Salary", cats[0].Name)
	assert.Equal(t, "Food", cats[1].Name)
	assert.Equal(t, "Bonus", cats[2].Name)

	names, err := store.Categories.ListNames(ctx, "u1", model.KindIncome)
	require.NoError(t, err)
	assert.Equal(t, []string{"Salary", "Bonus"}, names)

	grouped, err := store.Categories.Grouped(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, map[model.Kind][]string{
		model.KindIncome:  {},
		model.KindExpense: {"Rent"},
	}, grouped)
}

func TestResolveCategory(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)
	salary := mustCategory(t, store, "u1", "Salary", model.KindIncome)

	id, err := store.Categories.ResolveID(ctx, "u1", model.KindIncome, " salary")
	require.NoError(t, err)
	assert.Equal(t, salary.ID, id)

	_, err = store.Categories.ResolveID(ctx, "u1", model.KindExpense, "Salary")
	require.ErrorIs(t, err, common.ErrNotFound)

	_, err = store.Categories.ResolveID(ctx, "u2", model.KindIncome, "Salary")
	require.ErrorIs(t, err, common.ErrNotFound)

	name, ok, err := store.Categories.NameByID(ctx, "u1", salary.ID)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Salary", name)

	_, ok, err = store.Categories.NameByID(ctx, "u2", salary.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Categories.NameByID(ctx, "u1", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRenameCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("renames in place and keeps comments", func(t *testing.T) {
		store := createTestStorage(t)
		writeTable(t, store, "categories", "# categories\nc1\tu1\texpense\tFood\nc2\tu1\texpense\tRent\n")

		require.NoError(t, store.Categories.Rename(ctx, "u1", model.KindExpense, "food", "Groceries"))
		assert.Equal(t, "# categories\nc1\tu1\texpense\tGroceries\nc2\tu1\texpense\tRent\n", readTable(t, store, "categories"))
	})

	t.Run("case only rename of itself", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "food", model.KindExpense)

		require.NoError(t, store.Categories.Rename(ctx, "u1", model.KindExpense, "food", "Food"))
		names, err := store.Categories.ListNames(ctx, "u1", model.KindExpense)
		require.NoError(t, err)
		assert.Equal(t, []string{"Food"}, names)
	})

	t.Run("collision with another category", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "Food", model.KindExpense)
		mustCategory(t, store, "u1", "Rent", model.KindExpense)
		before := readTable(t, store, "categories")

		err := store.Categories.Rename(ctx, "u1", model.KindExpense, "Food", " rent ")
		require.ErrorIs(t, err, common.ErrDuplicateEntry)
		assert.Equal(t, before, readTable(t, store, "categories"))
	})

	t.Run("not found", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "Food", model.KindExpense)

		err := store.Categories.Rename(ctx, "u1", model.KindIncome, "Food", "Other")
		require.ErrorIs(t, err, common.ErrNotFound)

		err = store.Categories.Rename(ctx, "u2", model.KindExpense, "Food", "Other")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestDeleteCategory(t *testing.T) {
	ctx := context.Background()

	t.Run("unreferenced category is removed", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "Food", model.KindExpense)
		mustCategory(t, store, "u1", "Rent", model.KindExpense)

		require.NoError(t, store.Categories.Delete(ctx, "u1", model.KindExpense, "FOOD"))

		cats, err := store.Categories.List(ctx, "u1")
		require.NoError(t, err)
		require.Len(t, cats, 1)
		assert.Equal(t, "Rent", cats[0].Name)
	})

	t.Run("referenced category is kept", func(t *testing.T) {
		store := createTestStorage(t)
		food := mustCategory(t, store, "u1", "Food", model.KindExpense)
		mustTransaction(t, store, NewTransaction{
			UserID:     "u1",
			Type:       model.KindExpense,
			Amount:     "12.50",
			CategoryID: food.ID,
		})

		err := store.Categories.Delete(ctx, "u1", model.KindExpense, "Food")
		require.ErrorIs(t, err, common.ErrInUse)

		cats, err := store.Categories.List(ctx, "u1")
		require.NoError(t, err)
		assert.Len(t, cats, 1)
	})

	t.Run("deletable once references are gone", func(t *testing.T) {
		store := createTestStorage(t)
		food := mustCategory(t, store, "u1", "Food", model.KindExpense)
		txn := mustTransaction(t, store, NewTransaction{
			UserID:     "u1",
			Type:       model.KindExpense,
			Amount:     "3",
			CategoryID: food.ID,
		})

		require.NoError(t, store.Transactions.DeleteByID(ctx, txn.ID, "u1"))
		require.NoError(t, store.Categories.Delete(ctx, "u1", model.KindExpense, "Food"))
	})

	t.Run("not found or not owned", func(t *testing.T) {
		store := createTestStorage(t)
		mustCategory(t, store, "u1", "Food", model.KindExpense)

		err := store.Categories.Delete(ctx, "u2", model.KindExpense, "Food")
		require.ErrorIs(t, err, common.ErrNotFound)

		err = store.Categories.Delete(ctx, "u1", model.KindExpense, "Nope")
		require.ErrorIs(t, err, common.ErrNotFound)
	})
}
