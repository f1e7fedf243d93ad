package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func templateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write the roster bulk-load Excel template",
		RunE: func(cmd *cobra.Command, _ []string) error {
			employerID, _ := cmd.Flags().GetString("employer")
			out, _ := cmd.Flags().GetString("output")

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			file, err := a.roster.Template(cmd.Context(), employerID)
			if err != nil {
				return err
			}
			path, err := writeFile(out, file)
			if err != nil {
				return err
			}
			slog.Info("Template written", "path", path)
			return nil
		},
	}

	cmd.Flags().String("employer", "", "employer ID")
	cmd.Flags().StringP("output", "o", "", "output file (default: suggested name)")
	_ = cmd.MarkFlagRequired("employer")
	return cmd
}

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <workbook.xlsx>",
		Short: "Create employees and contractors from a filled-in template",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			employerID, _ := cmd.Flags().GetString("employer")

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open workbook: %w", err)
			}
			defer f.Close()

			a, err := openApp(cmd.Context())
			if err != nil {
				return err
			}
			defer a.close()

			result, err := a.roster.Import(cmd.Context(), employerID, f)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Rows read:           %d\n", result.Rows())
			fmt.Fprintf(w, "Employees created:   %d\n", result.EmployeesCreated)
			fmt.Fprintf(w, "Contractors created: %d\n", result.ContractorsCreated)
			for _, rowErr := range result.Errors {
				fmt.Fprintf(w, "  row %d: %s\n", rowErr.Row, rowErr.Message)
			}
			if len(result.Errors) > 0 {
				return fmt.Errorf("%d rows were rejected", len(result.Errors))
			}
			return nil
		},
	}

	cmd.Flags().String("employer", "", "employer ID")
	_ = cmd.MarkFlagRequired("employer")
	return cmd
}
