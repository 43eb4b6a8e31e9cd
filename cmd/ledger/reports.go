package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Veraticus/spice-ledger/internal/cli"
	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
)

func reportCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: cli.ChartIcon + " Summaries of income and expense",
	}

	cmd.AddCommand(totalsReportCmd(a, "totals", "All transactions", "Totals over every transaction",
		func(ctx context.Context, a *app, userID string, _ []string) (model.Totals, error) {
			return a.reports.TotalsAll(ctx, userID)
		}, cobra.NoArgs))
	cmd.AddCommand(totalsReportCmd(a, "weekly", "Last 7 days", "Totals for today and the six days before",
		func(ctx context.Context, a *app, userID string, _ []string) (model.Totals, error) {
			return a.reports.Weekly(ctx, userID)
		}, cobra.NoArgs))
	cmd.AddCommand(totalsReportCmd(a, "month", "This month", "Totals for the current calendar month",
		func(ctx context.Context, a *app, userID string, _ []string) (model.Totals, error) {
			return a.reports.CurrentMonth(ctx, userID)
		}, cobra.NoArgs))
	cmd.AddCommand(totalsReportCmd(a, "last <days>", "", "Totals for the last N days, today included",
		func(ctx context.Context, a *app, userID string, args []string) (model.Totals, error) {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				return model.Totals{}, common.Invalidf("number of days %q is not a whole number", args[0])
			}
			return a.reports.LastNDays(ctx, userID, n)
		}, cobra.ExactArgs(1)))
	cmd.AddCommand(totalsReportCmd(a, "range <start> <end>", "", "Totals between two DD-MM-YYYY dates, both included",
		func(ctx context.Context, a *app, userID string, args []string) (model.Totals, error) {
			return a.reports.CustomRange(ctx, userID, args[0], args[1])
		}, cobra.ExactArgs(2)))
	cmd.AddCommand(monthsReportCmd(a))
	cmd.AddCommand(byCategoryReportCmd(a))
	cmd.AddCommand(breakdownReportCmd(a))

	return cmd
}

type totalsFunc func(ctx context.Context, a *app, userID string, args []string) (model.Totals, error)

// totalsReportCmd builds a command printing one income/expense/net summary.
// An empty title is derived from the arguments.
func totalsReportCmd(a *app, use, title, short string, compute totalsFunc, args cobra.PositionalArgs) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			totals, err := compute(ctx, a, user.ID, args)
			if err != nil {
				return err
			}

			heading := title
			switch {
			case heading != "":
			case len(args) == 1:
				heading = fmt.Sprintf("Last %s days", args[0])
			case len(args) == 2:
				heading = fmt.Sprintf("%s to %s", args[0], args[1])
			}
			return cli.RenderTotals(a.out, heading, totals)
		},
	}
}

func monthsReportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "months",
		Short: "Income, expense and net for each of the last 12 months",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			rows, err := a.reports.Last12Months(ctx, user.ID)
			if err != nil {
				return err
			}
			return cli.RenderMonths(a.out, rows)
		},
	}
}

func byCategoryReportCmd(a *app) *cobra.Command {
	var kindValue, from, to string

	cmd := &cobra.Command{
		Use:   "by-category",
		Short: "Totals per category, largest first",
		Args:  cobra.NoArgs,
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

			buckets, err := a.reports.ByCategory(ctx, user.ID, kind, from, to)
			if err != nil {
				return err
			}
			return cli.RenderCategoryAmounts(a.out, kind, buckets)
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "income or expense")
	cmd.Flags().StringVar(&from, "from", "", "first day, DD-MM-YYYY")
	cmd.Flags().StringVar(&to, "to", "", "last day, DD-MM-YYYY")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func breakdownReportCmd(a *app) *cobra.Command {
	var kindValue string

	cmd := &cobra.Command{
		Use:   "breakdown <year>",
		Short: "Totals for each month of a year",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil || year < 1 {
				return common.Invalidf("year %q is not valid", args[0])
			}
			kind, err := kindFlag(kindValue, true)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			user, err := a.login(ctx)
			if err != nil {
				return err
			}

			months, err := a.reports.MonthlyBreakdown(ctx, user.ID, year, kind)
			if err != nil {
				return err
			}
			return cli.RenderMonthAmounts(a.out, year, kind, months)
		},
	}

	cmd.Flags().StringVarP(&kindValue, "type", "t", "", "only income or only expense")

	return cmd
}
