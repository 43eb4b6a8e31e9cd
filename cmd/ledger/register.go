package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-ledger/internal/cli"
)

func registerCmd(a *app) *cobra.Command {
	var confirm string

	cmd := &cobra.Command{
		Use:   "register <username>",
		Short: "Create a new user",
		Long: `Create a new user. Usernames are unique regardless of case and surrounding
spaces. The password is asked for twice unless --password and --confirm are given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := a.storage()
			if err != nil {
				return err
			}

			password := a.cfg.Password
			if password == "" {
				if password, err = a.prompter.Secret(ctx, "Password"); err != nil {
					return err
				}
			}
			if confirm == "" {
				if confirm, err = a.prompter.Secret(ctx, "Confirm password"); err != nil {
					return err
				}
			}

			user, err := store.Users.Register(ctx, args[0], password, confirm)
			if err != nil {
				return err
			}

			a.println(cli.FormatSuccess(fmt.Sprintf("Registered %q", user.Username)))
			return nil
		},
	}

	cmd.Flags().StringVar(&confirm, "confirm", "", "password confirmation")

	return cmd
}
