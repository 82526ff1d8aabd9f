package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func addUser(t *testing.T, db *sqlx.DB, id int64) {
	t.Helper()
	u := &models.User{ID: id, Username: "learner", NotificationEnabled: true, NotificationHour: 9}
	if err := NewUserRepository(db).Upsert(context.Background(), u); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
}

// addCard creates a card with its default schedule, both stamped at createdAt
func addCard(t *testing.T, db *sqlx.DB, userID int64, id, front string, createdAt time.Time) {
	t.Helper()
	ctx := context.Background()
	card := &models.Card{ID: id, UserID: userID, Front: front, Back: front + " back", CreatedAt: createdAt}
	if err := NewCardRepository(db).Create(ctx, db, card); err != nil {
		t.Fatalf("Create card: %v", err)
	}
	if _, err := NewScheduleRepository(db).Ensure(ctx, db, id, userID, createdAt); err != nil {
		t.Fatalf("Ensure: %v", err)
	}
}
