package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/ui"
	"github.com/example/leitnerbot/pkg/models"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage learners",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var username, firstName string
	var hour int
	var notify bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create or update a learner",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireUser(); err != nil {
				return err
			}
			if hour < 0 || hour > 23 {
				return fmt.Errorf("--hour must be within 0-23")
			}

			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			u := &models.User{
				ID:                  userID,
				Username:            username,
				FirstName:           firstName,
				NotificationEnabled: notify,
				NotificationHour:    hour,
			}
			if err := database.NewUserRepository(db).Upsert(context.Background(), u); err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconDone+" Saved learner"), u.ID)
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Reminders", fmt.Sprintf("%v at %02d:00 UTC", notify, hour)))
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "username", "", "Telegram username")
	cmd.Flags().StringVar(&firstName, "name", "", "First name used in reminders")
	cmd.Flags().IntVar(&hour, "hour", 9, "Reminder hour (0-23, UTC)")
	cmd.Flags().BoolVar(&notify, "notify", true, "Enable reminders")
	return cmd
}
