// Package bot delivers due-card reminders through Telegram.
package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/example/leitnerbot/internal/database"
)

// sender is the part of tgbotapi.BotAPI the notifier needs
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Notifier sends reminders to users' private chats
type Notifier struct {
	api   sender
	users *database.UserRepository
}

// New authorizes the bot token and returns a notifier
func New(token string, db *sqlx.DB) (*Notifier, error) {
	if token == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN environment variable is not set")
	}

	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("unable to create bot: %w", err)
	}
	log.Infof("Authorized on account %s", botAPI.Self.UserName)

	return &Notifier{api: botAPI, users: database.NewUserRepository(db)}, nil
}

// SendReminders implements the scheduler.Notifier interface
func (n *Notifier) SendReminders(userID int64, count int) error {
	user, err := n.users.GetByID(context.Background(), userID)
	if err != nil {
		return err
	}

	// For private chats the chat ID is the user ID
	msg := tgbotapi.NewMessage(user.ID, ReminderText(user.FirstName, count))
	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %w", err)
	}

	log.WithFields(log.Fields{"user_id": userID, "count": count}).Info("Reminder sent")
	return nil
}

// ReminderText formats the reminder message
func ReminderText(name string, count int) string {
	noun := "cards"
	if count == 1 {
		noun = "card"
	}
	greeting := "Hi!"
	if name != "" {
		greeting = fmt.Sprintf("Hi, %s!", name)
	}
	return fmt.Sprintf("%s You have %d %s due for review. Start a session to keep your streak going.", greeting, count, noun)
}

// LogNotifier writes reminders to the log instead of sending them
type LogNotifier struct{}

// SendReminders implements the scheduler.Notifier interface
func (LogNotifier) SendReminders(userID int64, count int) error {
	log.WithFields(log.Fields{"user_id": userID, "count": count}).Info("Reminder (not sent, no bot token)")
	return nil
}
