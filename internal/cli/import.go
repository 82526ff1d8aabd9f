package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/excel"
	"github.com/example/leitnerbot/internal/ui"
)

func newImportCmd() *cobra.Command {
	config := excel.DefaultImportConfig()
	var template bool

	cmd := &cobra.Command{
		Use:   "import <file.xlsx|file.csv>",
		Short: "Import cards from an Excel or CSV file",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("file is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if template {
				if err := excel.WriteTemplate(args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Template written to "+args[0]))
				return nil
			}

			if err := requireUser(); err != nil {
				return err
			}
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			config.FilePath = args[0]
			res, err := excel.ImportCards(context.Background(), db, userID, config)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconImport, "Import finished"))
			fmt.Fprintln(out, ui.LabelValue("Processed", res.TotalProcessed))
			fmt.Fprintln(out, ui.LabelValue("Created", ui.Good.Render(fmt.Sprint(res.Created))))
			fmt.Fprintln(out, ui.LabelValue("Skipped", res.Skipped))
			if len(res.Errors) > 0 {
				fmt.Fprintln(out, ui.Warn.Render(fmt.Sprintf("%s %d rows failed", ui.IconWarn, len(res.Errors))))
				for _, e := range res.Errors {
					fmt.Fprintln(out, ui.Muted.Render("  "+e))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&config.FrontColumn, "front", config.FrontColumn, "Column with the front side")
	cmd.Flags().StringVar(&config.BackColumn, "back", config.BackColumn, "Column with the back side")
	cmd.Flags().StringVar(&config.ExampleColumn, "example", config.ExampleColumn, "Column with the usage example")
	cmd.Flags().StringVar(&config.SheetName, "sheet", "", "Sheet name (defaults to the first sheet)")
	cmd.Flags().IntVar(&config.StartRow, "start-row", config.StartRow, "First data row (1-based)")
	cmd.Flags().BoolVar(&template, "template", false, "Write an example workbook to <file> instead of importing")
	return cmd
}
