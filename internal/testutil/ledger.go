// Package testutil provides a ready-to-use ledger for tests: storage in a
// temporary directory, a fixed clock, sequential ids and a report engine
// wired to the same repositories.
package testutil

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/storage"
	"github.com/Veraticus/spice-ledger/internal/testutil/categories"
)

// FixedNow is the clock reading used by SetupLedger.
var FixedNow = time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)

// DefaultPassword is the password MustRegister uses.
const DefaultPassword = "secret123"

// Ledger bundles the storage and report engine under test.
type Ledger struct {
	Storage *storage.Storage
	Reports *report.Engine
	Now     time.Time
	t       *testing.T
}

// SetupLedger creates a ledger at FixedNow.
//
// Example:
//
//	ledger := testutil.SetupLedger(t)
//	alice := ledger.MustRegister("alice_01")
func SetupLedger(t *testing.T) *Ledger {
	t.Helper()
	return SetupLedgerAt(t, FixedNow)
}

// SetupLedgerAt creates a ledger whose clock always reads now. Ids are
// "id-1", "id-2" and so on, and passwords are hashed at the minimum bcrypt
// cost to keep tests fast.
func SetupLedgerAt(t *testing.T, now time.Time) *Ledger {
	t.Helper()

	clock := func() time.Time { return now }
	seq := 0
	store, err := storage.Open(filepath.Join(t.TempDir(), "data"),
		storage.WithClock(clock),
		storage.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("id-%d", seq)
		}),
		storage.WithHashCost(bcrypt.MinCost),
	)
	if err != nil {
		t.Fatalf("failed to open test storage: %v", err)
	}

	return &Ledger{
		Storage: store,
		Reports: report.NewEngine(store.Transactions, store.Categories, report.WithClock(clock)),
		Now:     now,
		t:       t,
	}
}

// MustRegister creates a user with DefaultPassword or fails the test.
func (l *Ledger) MustRegister(username string) *model.User {
	l.t.Helper()
	user, err := l.Storage.Users.Register(context.Background(), username, DefaultPassword, DefaultPassword)
	if err != nil {
		l.t.Fatalf("failed to register %q: %v", username, err)
	}
	return user
}

// MustCategory creates a category or fails the test.
func (l *Ledger) MustCategory(userID, name string, kind model.Kind) *model.Category {
	l.t.Helper()
	cat, err := l.Storage.Categories.Create(context.Background(), userID, name, kind)
	if err != nil {
		l.t.Fatalf("failed to create category %q: %v", name, err)
	}
	return cat
}

// MustCategories seeds categories for userID through a builder.
//
// Example:
//
//	cats := ledger.MustCategories(alice.ID, func(b categories.Builder) categories.Builder {
//		return b.WithFixture(categories.FixtureHousehold)
//	})
func (l *Ledger) MustCategories(userID string, configure func(categories.Builder) categories.Builder) categories.Categories {
	l.t.Helper()

	builder := categories.NewBuilder(l.t)
	if configure != nil {
		builder = configure(builder)
	}
	cats, err := builder.Build(context.Background(), l.Storage.Categories, userID)
	if err != nil {
		l.t.Fatalf("failed to build categories: %v", err)
	}
	return cats
}

// MustTransaction records a transaction or fails the test.
func (l *Ledger) MustTransaction(in storage.NewTransaction) *model.Transaction {
	l.t.Helper()
	txn, err := l.Storage.Transactions.Create(context.Background(), in)
	if err != nil {
		l.t.Fatalf("failed to create transaction: %v", err)
	}
	return txn
}

// DaysAgo formats the date n days before the ledger's clock.
func (l *Ledger) DaysAgo(n int) string {
	return model.FormatDate(l.Now.AddDate(0, 0, -n))
}
