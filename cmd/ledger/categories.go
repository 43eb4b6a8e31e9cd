package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/model"
)

func categoriesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage income and expense categories",
		Long:    `List, add, rename, and delete the categories used to group transactions.`,
	}

	cmd.AddCommand(listCategoriesCmd(a))
	cmd.AddCommand(addCategoryCmd(a))
	cmd.AddCommand(renameCategoryCmd(a))
	cmd.AddCommand(deleteCategoryCmd(a))

	return cmd
}

func listCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List your categories grouped by type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			grouped, err := a.store.Categories.Grouped(ctx, user.ID)
			if err != nil {
				return fmt.Errorf("failed to get categories: %w", err)
			}
			return cli.RenderCategories(a.out, grouped)
		},
	}
}

func addCategoryCmd(a *app) *cobra.Command {
	var kindValue string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a new category",
		Long:  `Create a category. Names are unique per type, ignoring case and surrounding spaces.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(kindValue, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			category, err := a.store.Categories.Create(ctx, user.ID, args[0], kind)
			if err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Created %s category %q", category.Type, category.Name)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "category type (income or expense)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func renameCategoryCmd(a *app) *cobra.Command {
	var kindValue string

	cmd := &cobra.Command{
		Use:   "rename <old-name> <new-name>",
		Short: "Rename a category",
		Long:  `Rename a category in place. Transactions keep pointing at it.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(kindValue, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			if err := a.store.Categories.Rename(ctx, user.ID, kind, args[0], args[1]); err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Renamed %q to %q", args[0], args[1])))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "category type (income or expense)")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func deleteCategoryCmd(a *app) *cobra.Command {
	var (
		kindValue string
		yes       bool
	)

	cmd := &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a category",
		Long:  `Delete a category. A category still used by any transaction cannot be deleted.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := kindFlag(kindValue, false)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			ok, err := a.confirm(ctx, yes, fmt.Sprintf("Delete %s category %q?", kind, args[0]))
			if err != nil || !ok {
				return err
			}

			if err := a.store.Categories.Delete(ctx, user.ID, kind, args[0]); err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Deleted %s category %q", kind, args[0])))
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "category type (income or expense)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

// categoryNames maps the user's category ids to names for display.
func categoryNames(cats []model.Category) map[string]string {
	names := make(map[string]string, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
	}
	return names
}
