package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/ui"
	"github.com/example/leitnerbot/pkg/models"
)

func newCardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "card",
		Short: "Add, list and delete cards",
	}
	cmd.AddCommand(newCardAddCmd(), newCardListCmd(), newCardDeleteCmd())
	return cmd
}

func newCardAddCmd() *cobra.Command {
	var example string

	cmd := &cobra.Command{
		Use:   "add <front> <back>",
		Short: "Add a card",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("front and back are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			svc, cleanup, err := openService()
			if err != nil {
				return err
			}
			defer cleanup()

			card := &models.Card{UserID: userID, Front: args[0], Back: args[1], Example: example}
			if err := svc.AddCard(context.Background(), card); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconCard+" Added"), card.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&example, "example", "e", "", "Usage example")
	return cmd
}

func newCardListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List cards",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			cards, err := database.NewCardRepository(db).ListByUser(context.Background(), userID)
			if err != nil {
				return err
			}
			if len(cards) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No cards yet."))
				return nil
			}
			for _, c := range cards {
				fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Muted.Render(c.ID), ui.Key.Render(c.Front), ui.Muted.Render("→"), c.Back)
			}
			return nil
		},
	}
}

func newCardDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Delete a card and its schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			if err := database.NewCardRepository(db).Delete(context.Background(), args[0], userID); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Deleted"), args[0])
			return nil
		},
	}
}
