// Package service defines the interfaces shared between application layers.
package service

import (
	"context"

	"github.com/Veraticus/spice-ledger/internal/model"
)

// TransactionLister returns a user's transactions sorted by date. An empty
// kind means every type.
type TransactionLister interface {
	List(ctx context.Context, userID string, kind model.Kind) ([]model.Transaction, error)
}

// CategoryNamer resolves category ids to display names. ok is false when the
// id is empty or unknown for the user.
type CategoryNamer interface {
	NameByID(ctx context.Context, userID, id string) (name string, ok bool, err error)
}
