package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/spice-ledger/internal/common"
)

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("stores trimmed username and hashed password", func(t *testing.T) {
		store := createTestStorage(t)

		user, err := store.Users.Register(ctx, "  alice_01 ", "secret1", "secret1")
		require.NoError(t, err)
		assert.Equal(t, "id-1", user.ID)
		assert.Equal(t, "alice_01", user.Username)
		assert.Empty(t, user.Password)

		content := readTable(t, store, "users")
		fields := strings.Split(strings.TrimSuffix(content, "\n"), "\t")
		require.Len(t, fields, 3)
		assert.Equal(t, "alice_01", fields[1])
		assert.NotEqual(t, "secret1", fields[2])
		assert.True(t, strings.HasPrefix(fields[2], "$2"))
	})

	t.Run("usernames differing by case and whitespace conflict", func(t *testing.T) {
		store := createTestStorage(t)

		_, err := store.Users.Register(ctx, "Alice_01", "secret1", "secret1")
		require.NoError(t, err)

		_, err = store.Users.Register(ctx, "  alice_01  ", "other12", "other12")
		require.ErrorIs(t, err, common.ErrDuplicateEntry)
		assert.True(t, common.IsUserFacing(err))
	})

	t.Run("rejects invalid input", func(t *testing.T) {
		store := createTestStorage(t)

		tests := []struct {
			name, username, password, confirm string
		}{
			{"empty username", "   ", "secret1", "secret1"},
			{"short username", "bob", "secret1", "secret1"},
			{"username with tab", "bob\tby", "secret1", "secret1"},
			{"short password", "bobby_1", "abc", "abc"},
			{"mismatched confirmation", "bobby_1", "secret1", "secret2"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := store.Users.Register(ctx, tt.username, tt.password, tt.confirm)
				require.ErrorIs(t, err, common.ErrInvalidInput)
			})
		}
		assert.Empty(t, readTable(t, store, "users"))
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	registered, err := store.Users.Register(ctx, "alice_01", "secret1", "secret1")
	require.NoError(t, err)

	t.Run("case insensitive username", func(t *testing.T) {
		user, err := store.Users.Login(ctx, " ALICE_01", "secret1")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.Password)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := store.Users.Login(ctx, "alice_01", "secret2")
		require.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("unknown user", func(t *testing.T) {
		_, err := store.Users.Login(ctx, "nobody_here", "secret1")
		require.ErrorIs(t, err, common.ErrUnauthorized)
	})

	t.Run("legacy clear text row", func(t *testing.T) {
		legacy := createTestStorage(t)
		writeTable(t, legacy, "users", "u-9\tcarol_99\tplainpw\n")

		user, err := legacy.Users.Login(ctx, "carol_99", "plainpw")
		require.NoError(t, err)
		assert.Equal(t, "u-9", user.ID)
	})
}

func TestGetUser(t *testing.T) {
	ctx := context.Background()
	store := createTestStorage(t)

	registered, err := store.Users.Register(ctx, "alice_01", "secret1", "secret1")
	require.NoError(t, err)

	user, err := store.Users.Get(ctx, registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice_01", user.Username)

	_, err = store.Users.Get(ctx, "missing")
	require.ErrorIs(t, err, common.ErrNotFound)
}

func TestNilContext(t *testing.T) {
	store := createTestStorage(t)

	//nolint:staticcheck // nil context is the point of the test
	_, err := store.Users.Register(nil, "alice_01", "secret1", "secret1")
	require.ErrorIs(t, err, ErrNilContext)
}
