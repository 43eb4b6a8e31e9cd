package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

func txCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record, list, edit and delete transactions",
	}

	cmd.AddCommand(addTxCmd(a))
	cmd.AddCommand(listTxCmd(a))
	cmd.AddCommand(editTxCmd(a))
	cmd.AddCommand(deleteTxCmd(a))

	return cmd
}

// resolveCategory turns a category name into its id. Unknown names are
// passed through so an id can be given directly. Empty stays empty.
func (a *app) resolveCategory(ctx context.Context, userID string, kind model.Kind, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	id, err := a.store.Categories.ResolveID(ctx, userID, kind, name)
	if errors.Is(err, common.ErrNotFound) {
		return name, nil
	}
	return id, err
}

func addTxCmd(a *app) *cobra.Command {
	var (
		kindValue   string
		amount      string
		date        string
		category    string
		description string
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a transaction",
		Long: `Record an income or expense. Amounts accept a comma or a dot as decimal
separator. Dates use DD-MM-YYYY and default to today.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kindFlag(kindValue, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			categoryID, err := a.resolveCategory(ctx, user.ID, kind, category)
			if err != nil {
				return err
			}

			txn, err := a.store.Transactions.Create(ctx, storage.NewTransaction{
				UserID:      user.ID,
				Type:        kind,
				Amount:      amount,
				Date:        date,
				CategoryID:  categoryID,
				Description: description,
			})
			if err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Recorded %s of %s on %s (ID: %s)",
				txn.Type, txn.Amount.StringFixed(2), txn.Date, txn.ID)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "transaction type (income or expense)")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, greater than zero")
	cmd.Flags().StringVarP(&date, "date", "d", "", "date as DD-MM-YYYY (default: today)")
	cmd.Flags().StringVarP(&category, "category", "c", "", "category name")
	cmd.Flags().StringVar(&description, "description", "", "free text, at most 100 characters")
	_ = cmd.MarkFlagRequired("type")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func listTxCmd(a *app) *cobra.Command {
	var kindValue string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your transactions by date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kindFlag(kindValue, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			txns, warnings, err := a.store.Transactions.ListWithWarnings(ctx, user.ID, kind)
			if err != nil {
				return fmt.Errorf("failed to list transactions: %w", err)
			}
			cats, err := a.store.Categories.List(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}

			if err := cli.RenderTransactions(a.out, txns, categoryNames(cats)); err != nil {
				return err
			}
			return cli.RenderWarnings(a.out, warnings)
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "only income or only expense")

	return cmd
}

func editTxCmd(a *app) *cobra.Command {
	var (
		kindValue string
		index     int
		field     string
		value     string
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit one field of a transaction",
		Long: `Without --index, show the numbered list of transactions of one type.
With --index, --field and --value, change that field of the numbered transaction.

Editable fields: date, amount, category, description. An empty category
value clears the category.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := kindFlag(kindValue, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			if index == 0 {
				entries, err := a.store.Transactions.EnumerateForEdit(ctx, user.ID, kind)
				if err != nil {
					return err
				}
				return cli.RenderEditEntries(a.out, entries)
			}

			edit, err := storage.ParseFieldEdit(field, value)
			if err != nil {
				return err
			}
			if c, ok := edit.(storage.CategoryEdit); ok {
				if c.CategoryID, err = a.resolveCategory(ctx, user.ID, kind, c.CategoryID); err != nil {
					return err
				}
				edit = c
			}

			if err := a.store.Transactions.UpdateByIndex(ctx, user.ID, kind, index, edit); err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Updated %s of %s #%d", edit.Field(), kind, index)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "transaction type (income or expense)")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "position in the numbered list, starting at 1")
	cmd.Flags().StringVarP(&field, "field", "f", "", "field to change")
	cmd.Flags().StringVar(&value, "value", "", "new value")
	_ = cmd.MarkFlagRequired("type")
	cmd.MarkFlagsRequiredTogether("index", "field")

	return cmd
}

func deleteTxCmd(a *app) *cobra.Command {
	var (
		kindValue string
		index     int
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a transaction",
		Long:  `Delete a transaction either by id or by --type and --index from 'ledger tx edit'.`,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (index != 0) {
				return common.Invalidf("give either a transaction id or --index, not both")
			}
			var kind model.Kind
			if index != 0 {
				var err error
				if kind, err = kindFlag(kindValue, false); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			target := fmt.Sprintf("%s #%d", kind, index)
			if len(args) == 1 {
				target = args[0]
			}
			ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete transaction %s?", target))
			if err != nil || !ok {
				return err
			}

			if len(args) == 1 {
				err = a.store.Transactions.DeleteByID(ctx, args[0], user.ID)
			} else {
				err = a.store.Transactions.DeleteByIndex(ctx, user.ID, kind, index)
			}
			if err != nil {
				return err
			}

			a.println(cli.FormatSuccess("Deleted transaction " + target))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "transaction type, with --index")
	cmd.Flags().IntVarP(&index, "index", "i", 0, "position in the numbered list, starting at 1")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")

	return cmd
}
