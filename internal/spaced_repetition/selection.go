package spaced_repetition

import (
	"fmt"
	"strings"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

// SessionType controls which cards a study session may present
type SessionType string

const (
	// SessionReview only presents cards that are due
	SessionReview SessionType = "review"
	// SessionNew presents due cards first, then never-reviewed ones
	SessionNew SessionType = "new"
	// SessionMixed behaves like SessionNew
	SessionMixed SessionType = "mixed"
)

// ParseSessionType validates a session type. An empty string means review.
func ParseSessionType(s string) (SessionType, error) {
	switch t := SessionType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return SessionReview, nil
	case SessionReview, SessionNew, SessionMixed:
		return t, nil
	default:
		return "", fmt.Errorf("%w: %q (want review, new or mixed)", ErrInvalidSessionType, s)
	}
}

// AllowsNew reports whether never-reviewed cards may be introduced
func (t SessionType) AllowsNew() bool {
	return t == SessionNew || t == SessionMixed
}

// Source tells the caller why a card was selected
type Source string

const (
	SourceDue Source = "due"
	SourceNew Source = "new"
)

// Selection is the card chosen for presentation
type Selection struct {
	CardID string
	Source Source
}

// SelectNextCard picks the next card for a study session.
// Overdue reviews win over new material: the due card with the earliest NextReviewAt is
// returned first, and never-reviewed cards (earliest created first) are only offered when
// the session type allows them. Ties are broken by card ID. The bool is false when the
// session has nothing left to show.
func (l *Leitner) SelectNextCard(due, fresh []models.ScheduleState, sessionType SessionType, presented map[string]bool, now time.Time) (Selection, bool) {
	var best *models.ScheduleState
	for i := range due {
		c := &due[i]
		if presented[c.CardID] || !c.IsDue(now) {
			continue
		}
		if best == nil || c.NextReviewAt.Before(best.NextReviewAt) ||
			(c.NextReviewAt.Equal(best.NextReviewAt) && c.CardID < best.CardID) {
			best = c
		}
	}
	if best != nil {
		return Selection{CardID: best.CardID, Source: SourceDue}, true
	}

	if !sessionType.AllowsNew() {
		return Selection{}, false
	}

	for i := range fresh {
		c := &fresh[i]
		if presented[c.CardID] || !c.NeverReviewed() {
			continue
		}
		if best == nil || c.CreatedAt.Before(best.CreatedAt) ||
			(c.CreatedAt.Equal(best.CreatedAt) && c.CardID < best.CardID) {
			best = c
		}
	}
	if best != nil {
		return Selection{CardID: best.CardID, Source: SourceNew}, true
	}

	return Selection{}, false
}
