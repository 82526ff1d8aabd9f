// Package cli implements the leitner command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/leitnerbot/internal/config"
	"github.com/example/leitnerbot/internal/ui"
)

// Version is reported by --version
const Version = "0.1.0"

var (
	cfg    *config.Config
	userID int64
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "leitner",
		Short:         "Leitner/SM-2 flashcard scheduler",
		Long:          "leitner schedules flashcard reviews with Leitner boxes and SM-2 ease factors, and reminds learners on Telegram.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			loaded, err := config.Load()
			if err != nil {
				return err
			}
			config.SetupLogging(loaded.LogLevel)
			cfg = loaded
			return nil
		},
	}
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().Int64VarP(&userID, "user", "u", 0, "Learner (Telegram user) ID")

	rootCmd.AddCommand(
		newUserCmd(),
		newCardCmd(),
		newImportCmd(),
		newDueCmd(),
		newReviewCmd(),
		newSessionCmd(),
		newStatsCmd(),
		newRemindCmd(),
	)
	return rootCmd
}

// Execute runs the command line and exits non-zero on error
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
