package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tracker/internal/core"
	"tracker/internal/report"
)

func newAddCmd(a *app) *cobra.Command {
	var category, description, amount, date string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an expense",
		Long: `Add an expense numbered after the last one.

The date defaults to today.

Example:
  tracker add --category Food --description Lunch --amount 12.50
  tracker add --category Travel --amount 3 --date 2025-01-31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := core.ParseAmount(amount)
			if err != nil {
				return err
			}
			ne := core.NewExpense{Category: category, Description: description, Amount: m}
			if date != "" {
				if ne.Date, err = core.ParseDate(date); err != nil {
					return err
				}
			}

			e, err := a.svc.Add(cmd.Context(), ne)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense added: %s\n", report.FormatExpense(e, a.currency()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "expense category")
	cmd.Flags().StringVarP(&description, "description", "d", "", "free-text description")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "amount, e.g. 12.50")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	cmd.MarkFlagRequired("category")
	cmd.MarkFlagRequired("amount")

	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all expenses",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			return report.WriteExpenses(cmd.OutOrStdout(), "All Expenses", expenses, a.currency())
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var category, description, amount string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of an expense",
		Long: `Change the category, description or amount of an expense.

Only the flags given are changed; an explicit empty description or a
zero amount is applied as given.

Example:
  tracker update 2 --amount 0
  tracker update 3 --category Travel --description ""`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var u core.ExpenseUpdate
			if cmd.Flags().Changed("category") {
				u.Category = &category
			}
			if cmd.Flags().Changed("description") {
				u.Description = &description
			}
			if cmd.Flags().Changed("amount") {
				m, err := core.ParseAmount(amount)
				if err != nil {
					return err
				}
				u.Amount = &m
			}
			if u.IsEmpty() {
				return errors.New("nothing to update: pass --category, --description or --amount")
			}

			e, err := a.svc.Update(cmd.Context(), id, u)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense updated: %s\n", report.FormatExpense(e, a.currency()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&description, "description", "d", "", "new description")
	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")

	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an expense and renumber the rest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			renumbered, err := a.svc.Delete(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), report.FormatDeleted(id, renumbered))
			return nil
		},
	}
}

func newFindCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "find <category>",
		Short: "List expenses in a category (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := a.svc.FindByCategory(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return report.WriteExpenses(cmd.OutOrStdout(), "Category: "+args[0], expenses, a.currency())
		},
	}
}
