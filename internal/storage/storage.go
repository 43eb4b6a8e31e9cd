package storage

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/spice-ledger/internal/rowstore"
)

// Tables used by the repositories.
const (
	UsersTable        rowstore.Table = "users"
	CategoriesTable   rowstore.Table = "categories"
	TransactionsTable rowstore.Table = "transactions"
)

// Storage bundles the repositories that share one row store.
type Storage struct {
	Users        *Users
	Categories   *Categories
	Transactions *Transactions
	rows         *rowstore.Store
}

type options struct {
	newID    func() string
	now      func() time.Time
	hashCost int
}

// Option is a functional option for configuring Storage.
type Option func(*options)

func defaultOptions() options {
	return options{
		newID:    uuid.NewString,
		now:      time.Now,
		hashCost: bcrypt.DefaultCost,
	}
}

// WithIDGenerator replaces the random id generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) {
		o.newID = newID
	}
}

// WithClock replaces the source of the current time.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// WithHashCost sets the bcrypt cost used for new passwords.
func WithHashCost(cost int) Option {
	return func(o *options) {
		o.hashCost = cost
	}
}

// Open creates the data directory and tables under dir if needed and
// returns the repositories.
func Open(dir string, opts ...Option) (*Storage, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	rows, err := rowstore.New(dir)
	if err != nil {
		return nil, err
	}
	if err := rows.Ensure(UsersTable, CategoriesTable, TransactionsTable); err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}

	categories := &Categories{rows: rows, newID: o.newID}
	return &Storage{
		rows: rows,
		Users: &Users{
			rows:     rows,
			newID:    o.newID,
			hashCost: o.hashCost,
		},
		Categories: categories,
		Transactions: &Transactions{
			rows:       rows,
			categories: categories,
			newID:      o.newID,
			now:        o.now,
		},
	}, nil
}

// Dir returns the directory holding the tables.
func (s *Storage) Dir() string {
	return s.rows.Dir()
}
