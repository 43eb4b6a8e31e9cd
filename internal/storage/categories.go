package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/rowstore"
)

// Categories stores rows of (id, user_id, type, name).
type Categories struct {
	rows  *rowstore.Store
	newID func() string
}

const categoryFields = 4

func decodeCategory(row []string) (model.Category, bool) {
	if len(row) < categoryFields {
		return model.Category{}, false
	}
	return model.Category{
		ID:     strings.TrimSpace(row[0]),
		UserID: strings.TrimSpace(row[1]),
		Type:   model.Kind(strings.TrimSpace(row[2])),
		Name:   row[3],
	}, true
}

func (c *Categories) all() ([]model.Category, error) {
	rows, err := c.rows.ReadRows(CategoriesTable)
	if err != nil {
		return nil, err
	}
	cats := make([]model.Category, 0, len(rows))
	for _, row := range rows {
		if cat, ok := decodeCategory(row); ok {
			cats = append(cats, cat)
		}
	}
	return cats, nil
}

func (c *Categories) find(ctx context.Context, userID string, kind model.Kind, name string) (*model.Category, error) {
	cats, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	target := model.NormalizeName(name)
	for i := range cats {
		if cats[i].Type == kind && model.NormalizeName(cats[i].Name) == target {
			return &cats[i], nil
		}
	}
	return nil, nil
}

// Create adds a category for userID. Names are unique per user and type
// after trimming and case folding.
func (c *Categories) Create(ctx context.Context, userID, name string, kind model.Kind) (*model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	name, err := validateCategoryName(name)
	if err != nil {
		return nil, err
	}
	if err := validateKind(kind); err != nil {
		return nil, err
	}

	existing, err := c.find(ctx, userID, kind, name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: %s category %q already exists", common.ErrDuplicateEntry, kind, name)
	}

	cat := &model.Category{
		ID:     c.newID(),
		UserID: strings.TrimSpace(userID),
		Type:   kind,
		Name:   name,
	}
	if err := c.rows.AppendRow(CategoriesTable, []string{cat.ID, cat.UserID, string(cat.Type), cat.Name}); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	slog.Info("created new category", "name", cat.Name, "type", cat.Type, "id", cat.ID)
	return cat, nil
}

// List returns every category owned by userID in table order.
func (c *Categories) List(ctx context.Context, userID string) ([]model.Category, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	cats, err := c.all()
	if err != nil {
		return nil, err
	}
	userID = strings.TrimSpace(userID)
	owned := make([]model.Category, 0, len(cats))
	for _, cat := range cats {
		if cat.UserID == userID {
			owned = append(owned, cat)
		}
	}

	slog.Debug("retrieved categories", "user_id", userID, "count", len(owned))
	return owned, nil
}

// ForKind returns the categories of one type owned by userID.
func (c *Categories) ForKind(ctx context.Context, userID string, kind model.Kind) ([]model.Category, error) {
	if err := validateKind(kind); err != nil {
		return nil, err
	}
	cats, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Category, 0, len(cats))
	for _, cat := range cats {
		if cat.Type == kind {
			out = append(out, cat)
		}
	}
	return out, nil
}

// ListNames returns the names of userID's categories of one type.
func (c *Categories) ListNames(ctx context.Context, userID string, kind model.Kind) ([]string, error) {
	cats, err := c.ForKind(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(cats))
	for _, cat := range cats {
		names = append(names, cat.Name)
	}
	return names, nil
}

// Grouped returns userID's category names keyed by type. Both types are
// always present.
func (c *Categories) Grouped(ctx context.Context, userID string) (map[model.Kind][]string, error) {
	cats, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	grouped := map[model.Kind][]string{
		model.KindIncome:  {},
		model.KindExpense: {},
	}
	for _, cat := range cats {
		if cat.Type.Valid() {
			grouped[cat.Type] = append(grouped[cat.Type], cat.Name)
		}
	}
	return grouped, nil
}

// ResolveID returns the id of userID's category with the given type and name.
func (c *Categories) ResolveID(ctx context.Context, userID string, kind model.Kind, name string) (string, error) {
	if err := validateContext(ctx); err != nil {
		return "", err
	}
	if err := validateKind(kind); err != nil {
		return "", err
	}
	cat, err := c.find(ctx, userID, kind, name)
	if err != nil {
		return "", err
	}
	if cat == nil {
		return "", common.NotFoundf("%s category %q", kind, strings.TrimSpace(name))
	}
	return cat.ID, nil
}

// Get returns userID's category with the given id.
func (c *Categories) Get(ctx context.Context, userID, id string) (*model.Category, error) {
	cats, err := c.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	id = strings.TrimSpace(id)
	for i := range cats {
		if cats[i].ID == id {
			return &cats[i], nil
		}
	}
	return nil, common.NotFoundf("category %q", id)
}

// NameByID returns the display name for a category id. ok is false when the
// id is empty or does not belong to userID.
func (c *Categories) NameByID(ctx context.Context, userID, id string) (name string, ok bool, err error) {
	if strings.TrimSpace(id) == "" {
		return "", false, nil
	}
	cat, err := c.Get(ctx, userID, id)
	if err != nil {
		if common.IsUserFacing(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return cat.Name, true, nil
}

// Rename changes the name of userID's category in place. The new name must
// not collide with another category of the same type.
func (c *Categories) Rename(ctx context.Context, userID string, kind model.Kind, oldName, newName string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	newName, err := validateCategoryName(newName)
	if err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}

	userID = strings.TrimSpace(userID)
	oldKey := model.NormalizeName(oldName)
	newKey := model.NormalizeName(newName)

	var renamedID string
	err = c.rows.Update(CategoriesTable, func(rows []rowstore.Row) ([]rowstore.Row, error) {
		target := -1
		for i, row := range rows {
			cat, ok := decodeCategory(row.Fields)
			if !row.IsData() || !ok || cat.UserID != userID || cat.Type != kind {
				continue
			}
			switch model.NormalizeName(cat.Name) {
			case oldKey:
				if target < 0 {
					target = i
				}
			case newKey:
				return nil, fmt.Errorf("%w: %s category %q already exists", common.ErrDuplicateEntry, kind, newName)
			}
		}
		if target < 0 {
			return nil, common.NotFoundf("%s category %q", kind, strings.TrimSpace(oldName))
		}
		rows[target].Fields[3] = newName
		renamedID = strings.TrimSpace(rows[target].Fields[0])
		return rows, nil
	})
	if err != nil {
		return err
	}

	slog.Info("renamed category", "id", renamedID, "name", newName, "type", kind)
	return nil
}

// Delete removes userID's category. It fails while any transaction still
// references the category.
func (c *Categories) Delete(ctx context.Context, userID string, kind model.Kind, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKind(kind); err != nil {
		return err
	}

	id, err := c.ResolveID(ctx, userID, kind, name)
	if err != nil {
		return err
	}
	userID = strings.TrimSpace(userID)

	err = c.rows.Update(CategoriesTable, func(rows []rowstore.Row) ([]rowstore.Row, error) {
		refs, err := c.referenceCount(id)
		if err != nil {
			return nil, err
		}
		if refs > 0 {
			return nil, fmt.Errorf("%w: category %q is used by %d transaction(s)", common.ErrInUse, strings.TrimSpace(name), refs)
		}

		out := make([]rowstore.Row, 0, len(rows))
		deleted := false
		for _, row := range rows {
			cat, ok := decodeCategory(row.Fields)
			if row.IsData() && ok && !deleted && cat.ID == id && cat.UserID == userID && cat.Type == kind {
				deleted = true
				continue
			}
			out = append(out, row)
		}
		if !deleted {
			return nil, common.NotFoundf("%s category %q", kind, strings.TrimSpace(name))
		}
		return out, nil
	})
	if err != nil {
		return err
	}

	slog.Info("deleted category", "id", id, "type", kind)
	return nil
}

// referenceCount counts transactions of any user that point at categoryID.
func (c *Categories) referenceCount(categoryID string) (int, error) {
	rows, err := c.rows.ReadRows(TransactionsTable)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, row := range rows {
		if len(row) > txnCategory && strings.TrimSpace(row[txnCategory]) == categoryID {
			count++
		}
	}
	return count, nil
}
