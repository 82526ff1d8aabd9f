package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/internal/study"
	"github.com/example/leitnerbot/internal/ui"
	"github.com/example/leitnerbot/pkg/models"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Run a study session step by step",
	}
	cmd.AddCommand(
		newSessionStartCmd(),
		newSessionNextCmd(),
		newSessionAnswerCmd(),
		newSessionEndCmd(),
	)
	return cmd
}

func newSessionStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start [review|new|mixed]",
		Short: "Start a session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			sessionType := ""
			if len(args) == 1 {
				sessionType = args[0]
			}
			s, err := svc.StartSession(context.Background(), userID, sessionType)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Heading(ui.IconSession, s.SessionType+" session started"))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Session", s.ID))
			return nil
		},
	}
}

func newSessionNextCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "next <session-id>",
		Short: "Show the next card of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			next, err := svc.NextCard(context.Background(), userID, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if next.Done {
				fmt.Fprintln(out, ui.Good.Render(ui.IconDone+" Nothing left in this session"))
				return nil
			}

			icon := ui.IconDue
			if next.Source == spaced_repetition.SourceNew {
				icon = ui.IconNew
			}
			fmt.Fprintln(out, ui.Panel.Render(cardFront(icon, next.Card)))
			fmt.Fprintln(out, ui.Muted.Render("answer with: session answer "+args[0]+" "+next.Card.ID+" --correct|--wrong"))
			return nil
		},
	}
}

func cardFront(icon string, c *models.Card) string {
	return ui.H2.Render(icon+" "+c.Front) + "\n" + ui.Muted.Render(c.ID)
}

func newSessionAnswerCmd() *cobra.Command {
	var correct, wrong bool
	var rating, timeSpent int
	var answer string

	cmd := &cobra.Command{
		Use:   "answer <session-id> <card-id>",
		Short: "Answer a card in a session",
		Args:  cobra.ExactArgs(2),
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

			ctx := context.Background()
			res, err := svc.Answer(ctx, userID, args[0], study.AnswerInput{
				CardID:     args[1],
				Correct:    correct,
				UserAnswer: answer,
				TimeSpent:  timeSpent,
				SelfRating: ratingFlag(rating),
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Verdict(correct))
			printSchedule(cmd, &res.State)
			fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("session: %d/%d correct", res.Session.CardsCorrect, res.Session.CardsAttempted)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&correct, "correct", false, "The answer was right")
	cmd.Flags().BoolVar(&wrong, "wrong", false, "The answer was wrong")
	cmd.Flags().IntVarP(&rating, "rating", "r", 0, "Self rating 1 (very hard) to 5 (very easy)")
	cmd.Flags().IntVarP(&timeSpent, "time", "t", 0, "Seconds spent on the card")
	cmd.Flags().StringVarP(&answer, "answer", "a", "", "What was answered")
	return cmd
}

func newSessionEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end <session-id>",
		Short: "End a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			s, err := svc.EndSession(context.Background(), userID, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconDone, "Session ended"))
			fmt.Fprintln(out, ui.LabelValue("Cards", fmt.Sprintf("%d attempted, %d correct", s.CardsAttempted, s.CardsCorrect)))
			fmt.Fprintln(out, ui.LabelValue("Time", fmt.Sprintf("%ds", s.TotalTimeSpent)))
			return nil
		},
	}
}
