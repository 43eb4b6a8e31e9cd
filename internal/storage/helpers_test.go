package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/spice-ledger/internal/model"
)

var fixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// createTestStorage opens a store in a temp dir with a fixed clock and
// sequential ids ("id-1", "id-2", ...).
func createTestStorage(t *testing.T) *Storage {
	t.Helper()

	seq := 0
	store, err := Open(filepath.Join(t.TempDir(), "data"),
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		WithHashCost(bcrypt.MinCost),
	)
	require.NoError(t, err)
	return store
}

func mustCategory(t *testing.T, store *Storage, userID, name string, kind model.Kind) *model.Category {
	t.Helper()
	cat, err := store.Categories.Create(context.Background(), userID, name, kind)
	require.NoError(t, err)
	return cat
}

func mustTransaction(t *testing.T, store *Storage, in NewTransaction) *model.Transaction {
	t.Helper()
	txn, err := store.Transactions.Create(context.Background(), in)
	require.NoError(t, err)
	return txn
}

func tablePath(store *Storage, table string) string {
	return filepath.Join(store.Dir(), table+".txt")
}

func readTable(t *testing.T, store *Storage, table string) string {
	t.Helper()
	data, err := os.ReadFile(tablePath(store, table))
	require.NoError(t, err)
	return string(data)
}

func writeTable(t *testing.T, store *Storage, table, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(tablePath(store, table), []byte(content), 0600))
}
