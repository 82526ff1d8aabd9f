package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/bot"
	"github.com/example/leitnerbot/internal/scheduler"
	"github.com/example/leitnerbot/internal/ui"
)

func newRemindCmd() *cobra.Command {
	var once bool

	cmd := &cobra.Command{
		Use:   "remind",
		Short: "Send due-card reminders every hour until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, cleanup, err := openDB()
			if err != nil {
				return err
			}
			defer cleanup()

			var notifier scheduler.Notifier = bot.LogNotifier{}
			if cfg.TelegramBotToken != "" {
				n, err := bot.New(cfg.TelegramBotToken, db)
				if err != nil {
					return err
				}
				notifier = n
			} else {
				log.Warn("TELEGRAM_BOT_TOKEN is not set, reminders will only be logged")
			}

			sched := scheduler.New(db, notifier, cfg)

			if once {
				if err := requireUser(); err != nil {
					return err
				}
				sent, err := sched.RunManualCheck(context.Background(), userID)
				if err != nil {
					return err
				}
				if !sent {
					fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("Nothing due, no reminder sent."))
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render(ui.IconBell+" Reminder sent"))
				return nil
			}

			if err := sched.Start(); err != nil {
				return err
			}
			defer sched.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			sig := <-sigChan
			log.Infof("Received signal: %v, stopping", sig)
			return nil
		},
	}

	cmd.Flags().BoolVar(&once, "once", false, "Check the --user learner right now and exit")
	return cmd
}
