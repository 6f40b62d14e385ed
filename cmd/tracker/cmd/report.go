package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	applog "tracker/internal/log"
	"tracker/internal/report"
)

func newSummaryCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the total and per-category totals",
		Long: `Show the total of all expenses and the total of each category,
in the order categories first appear.

Example:
  tracker summary
  tracker summary --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			if format == report.FormatText {
				return report.WriteSummaryText(cmd.OutOrStdout(), s, a.currency())
			}
			b, err := report.MarshalSummary(format, s)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(b)
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatText, "output format: text, json or yaml")

	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var format, out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all expenses as JSON or YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			expenses, err := a.svc.List(cmd.Context())
			if err != nil {
				return err
			}
			b, err := report.MarshalExpenses(format, expenses)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(b)
				return err
			}
			if err := os.WriteFile(out, b, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			a.logger.Info("Exported expenses", applog.FieldPath, out, applog.FieldCount, len(expenses))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d expenses to %s\n", len(expenses), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", report.FormatJSON, "output format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "", "write to file instead of stdout")

	return cmd
}

func newChartCmd(a *app) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "chart",
		Short: "Render per-category totals as a PNG pie chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.svc.Summarize(cmd.Context())
			if err != nil {
				return err
			}
			png, err := report.RenderCategoryChart(s, a.currency())
			if errors.Is(err, report.ErrNoData) {
				fmt.Fprintln(cmd.OutOrStdout(), "No expenses to chart.")
				return nil
			}
			if err != nil {
				return err
			}
			if err := os.WriteFile(out, png, 0o644); err != nil {
				return fmt.Errorf("write chart: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Chart written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&out, "out", "o", "summary.png", "PNG file to write")

	return cmd
}
