package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/planilla-backend-go/internal/domain/payroll"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func periodFlags(cmd *cobra.Command) {
	now := time.Now()
	cmd.Flags().String("employer", "", "employer ID")
	cmd.Flags().Bool("all", false, "process every active employer")
	cmd.Flags().Int("month", int(now.Month()), "period month (1-12)")
	cmd.Flags().Int("year", now.Year(), "period year")
	cmd.Flags().Bool("json", false, "print results as JSON")
}

// forEachEmployer resolves --employer / --all into run requests and calls fn
// for each, with a progress bar when more than one employer is processed.
func forEachEmployer(cmd *cobra.Command, a *app, fn func(ctx context.Context, req payroll.RunPayrollRequest) error) error {
	ctx := cmd.Context()
	employerID, _ := cmd.Flags().GetString("employer")
	all, _ := cmd.Flags().GetBool("all")
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")

	if all == (employerID != "") {
		return errors.New("exactly one of --employer or --all is required")
	}

	var ids []string
	if all {
		employers, err := a.employers.List(ctx, true)
		if err != nil {
			return err
		}
		for _, e := range employers {
			ids = append(ids, e.ID)
		}
	} else {
		ids = []string{employerID}
	}

	var bar *progressbar.ProgressBar
	if len(ids) > 1 {
		bar = progressbar.NewOptions(len(ids),
			progressbar.OptionSetWriter(cmd.ErrOrStderr()),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(40),
			progressbar.OptionSetDescription("Processing employers"),
			progressbar.OptionClearOnFinish(),
		)
	}

	var errs []error
	for _, id := range ids {
		req := payroll.RunPayrollRequest{EmployerID: id, PeriodMonth: month, PeriodYear: year}
		if err := fn(ctx, req); err != nil {
			if !all {
				return err
			}
			slog.Error("Payroll failed for employer", "employer_id", id, "error", err)
			errs = append(errs, fmt.Errorf("employer %s: %w", id, err))
		}
		if bar != nil {
			_ = bar.Add(1)
		}
	}
	return errors.Join(errs...)
}

func previewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Compute a payroll period without storing anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return forEachEmployer(cmd, a, func(ctx context.Context, req payroll.RunPayrollRequest) error {
				result, err := a.payroll.Preview(ctx, req)
				if err != nil {
					return err
				}
				return printResult(cmd.OutOrStdout(), result, asJSON)
			})
		},
	}
	periodFlags(cmd)
	return cmd
}

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Compute and commit a payroll period",
		RunE: func(cmd *cobra.Command, _ []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			return forEachEmployer(cmd, a, func(ctx context.Context, req payroll.RunPayrollRequest) error {
				committed, err := a.payroll.Commit(ctx, req)
				if err != nil {
					return err
				}
				if err := printResult(cmd.OutOrStdout(), committed.Result, asJSON); err != nil {
					return err
				}
				if !asJSON {
					fmt.Fprintf(cmd.OutOrStdout(), "Run %s stored as %s\n\n", committed.Run.ID, committed.Run.Status)
				}
				return nil
			})
		},
	}
	periodFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Export a committed run to Excel",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			file, err := a.payroll.ExportRun(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := writeFile(out, file)
			if err != nil {
				return err
			}
			slog.Info("Run exported", "run_id", args[0], "path", path)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: suggested name)")
	return cmd
}

func payslipCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payslip <record-id>",
		Short: "Render the PDF payslip of one employee record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, _ := cmd.Flags().GetString("output")

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			file, err := a.payroll.Payslip(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			path, err := writeFile(out, file)
			if err != nil {
				return err
			}
			slog.Info("Payslip written", "record_id", args[0], "path", path)
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "output file (default: suggested name)")
	return cmd
}

func printResult(w io.Writer, result payroll.RunResult, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	fmt.Fprintf(w, "%s (RUC %s) %s, regime %s\n\n", result.EmployerName, result.EmployerRUC, result.Period, result.Regime)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "DNI\tName\tKind\tGross\tDeductions\tNet\t")
	for _, e := range result.Employees {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\t\n",
			e.DNI, e.FirstName, e.LastName, payroll.PersonEmployee,
			e.Gross.StringFixed(2), e.Deductions.StringFixed(2), e.Net.StringFixed(2))
	}
	for _, c := range result.Contractors {
		fmt.Fprintf(tw, "%s\t%s %s\t%s\t%s\t%s\t%s\t\n",
			c.DNI, c.FirstName, c.LastName, payroll.PersonContractor,
			c.Gross.StringFixed(2), c.Deductions.StringFixed(2), c.Net.StringFixed(2))
	}
	fmt.Fprintf(tw, "\tTotal\t\t%s\t%s\t%s\t\n",
		result.Totals.Gross.StringFixed(2), result.Totals.Deductions.StringFixed(2), result.Totals.Net.StringFixed(2))
	if err := tw.Flush(); err != nil {
		return err
	}

	for _, pe := range result.Errors {
		fmt.Fprintf(w, "error: %s (%s): %s\n", pe.Name, pe.Kind, pe.Message)
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: %s %s: %s\n", warn.PersonID, warn.Code, warn.Message)
	}
	fmt.Fprintln(w)
	return nil
}
