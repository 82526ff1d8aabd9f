package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/internal/ui"
	"github.com/example/leitnerbot/pkg/models"
)

func newReviewCmd() *cobra.Command {
	var correct, wrong bool
	var rating int

	cmd := &cobra.Command{
		Use:   "review <card-id>",
		Short: "Record a review outside of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			if correct == wrong {
				return errors.New("pass exactly one of --correct or --wrong")
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			next, err := svc.SubmitReview(context.Background(), userID, args[0], correct, ratingFlag(rating))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Verdict(correct))
			printSchedule(cmd, next)
			return nil
		},
	}

	cmd.Flags().BoolVar(&correct, "correct", false, "The answer was right")
	cmd.Flags().BoolVar(&wrong, "wrong", false, "The answer was wrong")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Self rating 1 (very hard) to 5 (very easy)")
	return cmd
}

func printSchedule(cmd *cobra.Command, s *models.ScheduleState) {
	out := cmd.OutOrStdout()
	box := fmt.Sprint(s.BoxLevel)
	if spaced_repetition.NewLeitner().IsMastered(*s) {
		box += " " + ui.Good.Render("mastered")
	}
	fmt.Fprintln(out, ui.LabelValue("Box", box))
	fmt.Fprintln(out, ui.LabelValue("Ease", fmt.Sprintf("%.2f", s.EaseFactor)))
	fmt.Fprintln(out, ui.LabelValue("Next review", fmt.Sprintf("%s (in %d days)", s.NextReviewAt.Local().Format(time.DateTime), s.Interval)))
}
