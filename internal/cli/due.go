package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/ui"
)

func newDueCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "due",
		Short: "List cards due for review",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			due, err := svc.DueCards(context.Background(), userID, limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDue, fmt.Sprintf("%d due", len(due))))
			for _, s := range due {
				fmt.Fprintf(out, "%s %s %s\n",
					ui.Key.Render(s.CardID),
					ui.Muted.Render(fmt.Sprintf("box %d, ef %.2f", s.BoxLevel, s.EaseFactor)),
					ui.Muted.Render("since "+s.NextReviewAt.Local().Format(time.DateTime)))
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum cards to list (defaults to DUE_LIMIT)")
	return cmd
}
