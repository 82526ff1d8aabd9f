package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/internal/ui"
)

func newStatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show learning progress",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			st, err := svc.Stats(context.Background(), userID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconStats, "Progress"))
			fmt.Fprintln(out, ui.LabelValue("Cards", st.TotalCards))
			fmt.Fprintln(out, ui.LabelValue("Due now", st.DueCards))
			fmt.Fprintln(out, ui.LabelValue("Mastered", st.Mastered))
			fmt.Fprintln(out, ui.LabelValue("Reviews", fmt.Sprintf("%d (%d%% correct)", st.TotalReviews, st.Accuracy)))
			fmt.Fprintln(out, ui.LabelValue("Average ease", fmt.Sprintf("%.2f", st.AvgEaseFactor)))
			fmt.Fprintln(out, "")
			fmt.Fprintln(out, ui.H2.Render("Boxes"))
			fmt.Fprintln(out, ui.BoxBar(st.BoxDistribution, spaced_repetition.DefaultMaxBox))
			return nil
		},
	}
}
