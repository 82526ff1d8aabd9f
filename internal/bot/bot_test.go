package bot

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/pkg/models"
)

type fakeSender struct {
	sent []tgbotapi.MessageConfig
	err  error
}

func (f *fakeSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if f.err != nil {
		return tgbotapi.Message{}, f.err
	}
	f.sent = append(f.sent, c.(tgbotapi.MessageConfig))
	return tgbotapi.Message{}, nil
}

func newTestNotifier(t *testing.T) (*Notifier, *fakeSender) {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "bot.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.NewUserRepository(db).Upsert(context.Background(), &models.User{ID: 42, FirstName: "Ann"}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	s := &fakeSender{}
	return &Notifier{api: s, users: database.NewUserRepository(db)}, s
}

func TestSendReminders(t *testing.T) {
	n, s := newTestNotifier(t)

	if err := n.SendReminders(42, 3); err != nil {
		t.Fatalf("SendReminders: %v", err)
	}
	if len(s.sent) != 1 {
		t.Fatalf("sent %d messages, want 1", len(s.sent))
	}
	if s.sent[0].ChatID != 42 || !strings.Contains(s.sent[0].Text, "3 cards") {
		t.Errorf("message = %+v", s.sent[0])
	}
}

func TestSendRemindersErrors(t *testing.T) {
	n, s := newTestNotifier(t)

	if err := n.SendReminders(7, 1); !errors.Is(err, database.ErrNotFound) {
		t.Errorf("unknown user error = %v", err)
	}

	s.err = errors.New("Forbidden: bot was blocked by the user")
	if err := n.SendReminders(42, 1); err == nil {
		t.Error("expected send error")
	}
}

func TestReminderText(t *testing.T) {
	tests := []struct {
		name  string
		count int
		want  string
	}{
		{"Ann", 1, "Hi, Ann! You have 1 card due"},
		{"", 5, "Hi! You have 5 cards due"},
	}
	for _, tt := range tests {
		if got := ReminderText(tt.name, tt.count); !strings.HasPrefix(got, tt.want) {
			t.Errorf("ReminderText(%q, %d) = %q", tt.name, tt.count, got)
		}
	}
}
