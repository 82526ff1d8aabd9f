package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

func ids(states []models.ScheduleState) []string {
	out := make([]string, 0, len(states))
	for _, s := range states {
		out = append(out, s.CardID)
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestCardDeleteCascades(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	addUser(t, db, 1)
	addCard(t, db, 1, "c1", "hello", t0)

	cards := NewCardRepository(db)
	if err := cards.Delete(ctx, "c1", 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete by other user error = %v, want ErrNotFound", err)
	}
	if err := cards.Delete(ctx, "c1", 1); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := cards.GetByID(ctx, db, "c1", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after delete error = %v", err)
	}
	if _, err := NewScheduleRepository(db).Get(ctx, db, "c1", 1, false); !errors.Is(err, ErrNotFound) {
		t.Errorf("schedule survived card delete: %v", err)
	}
}

func TestCardLookups(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	addUser(t, db, 1)
	addCard(t, db, 1, "c2", "second", t0.Add(time.Minute))
	addCard(t, db, 1, "c1", "first", t0)

	cards := NewCardRepository(db)
	list, err := cards.ListByUser(ctx, 1)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(list) != 2 || list[0].ID != "c1" || list[1].ID != "c2" {
		t.Errorf("ListByUser = %+v", list)
	}

	c, err := cards.GetByFront(ctx, 1, "second")
	if err != nil {
		t.Fatalf("GetByFront: %v", err)
	}
	if c.ID != "c2" || c.Back != "second back" {
		t.Errorf("GetByFront = %+v", c)
	}
	if _, err := cards.GetByFront(ctx, 1, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByFront(missing) error = %v", err)
	}
}

func TestUserUpsertAndNotificationQuery(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	users := NewUserRepository(db)

	for _, u := range []*models.User{
		{ID: 1, Username: "a", NotificationEnabled: true, NotificationHour: 9},
		{ID: 2, Username: "b", NotificationEnabled: false, NotificationHour: 9},
		{ID: 3, Username: "c", NotificationEnabled: true, NotificationHour: 20},
	} {
		if err := users.Upsert(ctx, u); err != nil {
			t.Fatalf("Upsert: %v", err)
		}
	}

	// Update through upsert
	if err := users.Upsert(ctx, &models.User{ID: 3, Username: "c2", NotificationEnabled: true, NotificationHour: 9}); err != nil {
		t.Fatalf("Upsert: %v", err)
	}
	u, err := users.GetByID(ctx, 3)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if u.Username != "c2" || u.NotificationHour != 9 {
		t.Errorf("GetByID = %+v", u)
	}

	got, err := users.GetUsersForNotification(ctx, 9)
	if err != nil {
		t.Fatalf("GetUsersForNotification: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].ID != 3 {
		t.Errorf("GetUsersForNotification = %+v", got)
	}

	if _, err := users.GetByID(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID(42) error = %v", err)
	}
}

func TestSessionLifecycle(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	addUser(t, db, 1)
	addCard(t, db, 1, "c1", "hello", t0)
	addCard(t, db, 1, "c2", "world", t0)

	sessions := NewSessionRepository(db)
	s := &models.StudySession{UserID: 1, SessionType: "mixed", StartedAt: t0}
	if err := sessions.Create(ctx, s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	rating := 5
	for _, a := range []*models.StudyAnswer{
		{SessionID: s.ID, CardID: "c1", IsCorrect: true, TimeSpent: 4, SelfRating: &rating, AnsweredAt: t0},
		{SessionID: s.ID, CardID: "c2", IsCorrect: false, TimeSpent: 6, AnsweredAt: t0.Add(time.Second)},
	} {
		if err := sessions.RecordAnswer(ctx, db, a); err != nil {
			t.Fatalf("RecordAnswer: %v", err)
		}
	}

	got, err := sessions.Get(ctx, db, s.ID, 1)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.CardsAttempted != 2 || got.CardsCorrect != 1 || got.TotalTimeSpent != 10 || got.Ended() {
		t.Errorf("session = %+v", got)
	}

	answered, err := sessions.AnsweredCardIDs(ctx, s.ID)
	if err != nil {
		t.Fatalf("AnsweredCardIDs: %v", err)
	}
	if len(answered) != 2 {
		t.Errorf("AnsweredCardIDs = %v", answered)
	}

	answers, err := sessions.Answers(ctx, s.ID)
	if err != nil {
		t.Fatalf("Answers: %v", err)
	}
	if len(answers) != 2 || answers[0].SelfRating == nil || *answers[0].SelfRating != 5 || answers[1].SelfRating != nil {
		t.Errorf("Answers = %+v", answers)
	}

	ended, err := sessions.End(ctx, s.ID, 1, t0.Add(time.Minute))
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	again, err := sessions.End(ctx, s.ID, 1, t0.Add(time.Hour))
	if err != nil {
		t.Fatalf("End again: %v", err)
	}
	if !ended.Ended() || !again.EndedAt.Equal(t0.Add(time.Minute)) {
		t.Errorf("EndedAt = %v, want %v", again.EndedAt, t0.Add(time.Minute))
	}

	late := &models.StudyAnswer{SessionID: s.ID, CardID: "c1", IsCorrect: true, AnsweredAt: t0.Add(2 * time.Hour)}
	if err := sessions.RecordAnswer(ctx, db, late); !errors.Is(err, ErrConflict) {
		t.Errorf("RecordAnswer on ended session error = %v, want ErrConflict", err)
	}
	if answers, _ := sessions.Answers(ctx, s.ID); len(answers) != 2 {
		t.Errorf("ended session has %d answers, want 2", len(answers))
	}

	if _, err := sessions.Get(ctx, db, s.ID, 2); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get for other user error = %v", err)
	}
}

func TestGetUserStats(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	addUser(t, db, 1)

	empty, err := NewStatisticsRepository(db).GetUserStats(ctx, 1, t0)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if empty.TotalCards != 0 || empty.Accuracy != 0 || empty.AvgEaseFactor != 2.5 {
		t.Errorf("empty stats = %+v", empty)
	}

	addCard(t, db, 1, "c1", "one", t0)
	addCard(t, db, 1, "c2", "two", t0)
	addCard(t, db, 1, "c3", "three", t0)

	repo := NewScheduleRepository(db)
	engine := spaced_repetition.NewLeitner()
	review := func(id string, correct bool) {
		cur, err := repo.Get(ctx, db, id, 1, false)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		next, err := engine.ComputeNextState(*cur, correct, nil, t0)
		if err != nil {
			t.Fatalf("ComputeNextState: %v", err)
		}
		if err := repo.Update(ctx, db, &next, cur.Version); err != nil {
			t.Fatalf("Update: %v", err)
		}
	}
	review("c1", true)
	review("c1", true)
	review("c2", false)

	stats, err := NewStatisticsRepository(db).GetUserStats(ctx, 1, t0)
	if err != nil {
		t.Fatalf("GetUserStats: %v", err)
	}
	if stats.TotalCards != 3 || stats.TotalReviews != 3 || stats.CorrectReviews != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.Accuracy != 67 {
		t.Errorf("Accuracy = %d, want 67", stats.Accuracy)
	}
	// c3 is untouched, c1 and c2 were pushed into the future
	if stats.DueCards != 1 {
		t.Errorf("DueCards = %d, want 1", stats.DueCards)
	}
	// c1 box 3, c2 box 1, c3 box 1
	if stats.BoxDistribution[1] != 2 || stats.BoxDistribution[3] != 1 {
		t.Errorf("BoxDistribution = %v", stats.BoxDistribution)
	}
	// (2.5 + 2.3 + 2.5) / 3
	if stats.AvgEaseFactor != 2.43 {
		t.Errorf("AvgEaseFactor = %v, want 2.43", stats.AvgEaseFactor)
	}
}
