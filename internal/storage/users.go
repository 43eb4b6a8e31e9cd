package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/rowstore"
)

// Users stores accounts as rows of (id, username, password).
type Users struct {
	rows     *rowstore.Store
	newID    func() string
	hashCost int
}

func decodeUser(row []string) (model.User, bool) {
	if len(row) < 3 {
		return model.User{}, false
	}
	return model.User{
		ID:       strings.TrimSpace(row[0]),
		Username: row[1],
		Password: row[2],
	}, true
}

func (u *Users) all() ([]model.User, error) {
	rows, err := u.rows.ReadRows(UsersTable)
	if err != nil {
		return nil, err
	}
	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		if user, ok := decodeUser(row); ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (u *Users) findByUsername(username string) (*model.User, error) {
	target := model.NormalizeName(username)
	users, err := u.all()
	if err != nil {
		return nil, err
	}
	for i := range users {
		if model.NormalizeName(users[i].Username) == target {
			return &users[i], nil
		}
	}
	return nil, nil
}

// Register creates an account. Usernames are unique after trimming and case
// folding. The returned user carries no password.
func (u *Users) Register(ctx context.Context, username, password, confirm string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	name, err := validateUsername(username)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if password != confirm {
		return nil, common.Invalidf("passwords do not match")
	}

	existing, err := u.findByUsername(name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: username %q is already taken", common.ErrDuplicateEntry, name)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), u.hashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{ID: u.newID(), Username: name}
	if err := u.rows.AppendRow(UsersTable, []string{user.ID, user.Username, string(hash)}); err != nil {
		return nil, fmt.Errorf("failed to save user: %w", err)
	}

	slog.Info("registered user", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login returns the account matching username and password.
func (u *Users) Login(ctx context.Context, username, password string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, common.ErrUnauthorized
	}

	user, err := u.findByUsername(username)
	if err != nil {
		return nil, err
	}
	if user == nil || !passwordMatches(user.Password, password) {
		slog.Debug("login rejected", "username", strings.TrimSpace(username))
		return nil, common.ErrUnauthorized
	}

	return &model.User{ID: user.ID, Username: user.Username}, nil
}

// Get returns the account with the given id.
func (u *Users) Get(ctx context.Context, id string) (*model.User, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	users, err := u.all()
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for _, user := range users {
		if user.ID == id {
			return &model.User{ID: user.ID, Username: user.Username}, nil
		}
	}
	return nil, common.NotFoundf("user %q", id)
}

// passwordMatches verifies a bcrypt hash. Rows written before hashing was
// introduced hold the password itself and are compared directly.
func passwordMatches(stored, password string) bool {
	if isBcryptHash(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)) == nil
	}
	return stored == password
}

func isBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}
