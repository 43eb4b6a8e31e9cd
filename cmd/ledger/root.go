package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/config"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/Veraticus/spice-ledger/internal/report"
	"github.com/Veraticus/spice-ledger/internal/storage"
)

// app carries what every command needs. Storage is opened on first use so
// commands like version never touch the data directory.
type app struct {
	v           *viper.Viper
	in          io.Reader
	out         io.Writer
	prompter    *cli.Prompter
	store       *storage.Storage
	reports     *report.Engine
	cfg         config.Config
	cfgFile     string
	dotEnv      []string
	searchPaths []string
	storageOpts []storage.Option
	reportOpts  []report.Option
}

func newApp(in io.Reader, out io.Writer) *app {
	return &app{
		v:           viper.New(),
		in:          in,
		out:         out,
		prompter:    cli.NewPrompter(in, out),
		dotEnv:      []string{".env"},
		searchPaths: []string{"~/.config/ledger", "."},
	}
}

func newRootCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: cli.LedgerIcon + " Personal income and expense tracker",
		Long: `ledger records income and expense transactions per user, organizes them
into categories, and reports totals over days, months and categories.

Data lives in plain tab-separated files you can read and edit by hand.`,
		PersistentPreRunE: a.initConfig,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}
	cmd.SetIn(a.in)
	cmd.SetOut(a.out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/ledger/config.yaml)")
	flags.String("data-dir", "", "directory holding the ledger tables (default: "+config.DefaultDataDir+")")
	flags.String("log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "log format (console, json)")
	flags.StringP("user", "u", "", "username to act as")
	flags.String("password", "", "password (or set LEDGER_PASSWORD)")

	_ = a.v.BindPFlag(config.KeyDataDir, flags.Lookup("data-dir"))
	_ = a.v.BindPFlag(config.KeyLogLevel, flags.Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, flags.Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyUser, flags.Lookup("user"))
	_ = a.v.BindPFlag(config.KeyPassword, flags.Lookup("password"))

	cmd.AddCommand(registerCmd(a))
	cmd.AddCommand(categoriesCmd(a))
	cmd.AddCommand(txCmd(a))
	cmd.AddCommand(reportCmd(a))
	cmd.AddCommand(versionCmd(a))

	return cmd
}

func (a *app) initConfig(_ *cobra.Command, _ []string) error {
	if err := config.LoadDotEnv(a.dotEnv...); err != nil {
		return err
	}
	if err := config.Init(a.v, a.cfgFile, a.searchPaths...); err != nil {
		return err
	}

	a.cfg = config.FromViper(a.v)
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	if err := common.SetupLogger(a.cfg.LogLevel, a.cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	slog.Debug("configuration loaded", "data_dir", a.cfg.DataDir, "config_file", a.v.ConfigFileUsed())
	return nil
}

// storage opens the tables on first use.
func (a *app) storage() (*storage.Storage, error) {
	if a.store != nil {
		return a.store, nil
	}
	store, err := storage.Open(a.cfg.DataDir, a.storageOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger in %s: %w", a.cfg.DataDir, err)
	}
	a.store = store
	a.reports = report.NewEngine(store.Transactions, store.Categories, a.reportOpts...)
	return store, nil
}

// login resolves the acting user from flags, config or prompts.
func (a *app) login(ctx context.Context) (*model.User, error) {
	store, err := a.storage()
	if err != nil {
		return nil, err
	}

	username := a.cfg.Username
	if username == "" {
		if username, err = a.prompter.AskRequired(ctx, "Username"); err != nil {
			return nil, err
		}
	}
	password := a.cfg.Password
	if password == "" {
		if password, err = a.prompter.Secret(ctx, "Password"); err != nil {
			return nil, err
		}
	}

	user, err := store.Users.Login(ctx, username, password)
	if err != nil {
		return nil, err
	}
	slog.Debug("logged in", "user_id", user.ID)
	return user, nil
}

// confirm asks before a destructive action unless skip is set.
func (a *app) confirm(ctx context.Context, skip bool, question string) (bool, error) {
	if skip {
		return true, nil
	}
	return a.prompter.Confirm(ctx, question)
}

func (a *app) println(s string) {
	if _, err := fmt.Fprintln(a.out, s); err != nil {
		slog.Warn("Failed to write output", "error", err)
	}
}

func versionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			a.println("ledger " + version)
		},
	}
}

// kindFlag parses a --type value. An empty value is allowed only when
// optional is set.
func kindFlag(value string, optional bool) (model.Kind, error) {
	if value == "" && optional {
		return "", nil
	}
	return model.ParseKind(value)
}
