package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// DefaultDueLimit caps the number of due cards returned when no limit is given
const DefaultDueLimit = 50

const scheduleColumns = `card_id, user_id, box_level, ease_factor, interval_days, repetitions,
	next_review_at, last_reviewed_at, total_reviews, correct_reviews, consecutive_correct,
	version, created_at, updated_at`

// ScheduleRepository handles database operations for schedule states
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository creates a new repository instance
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// Ensure returns the schedule state of a card, inserting the default one first if missing
func (r *ScheduleRepository) Ensure(ctx context.Context, q Queryer, cardID string, userID int64, now time.Time) (*models.ScheduleState, error) {
	s := spaced_repetition.NewScheduleState(cardID, userID, utc(now))

	query := q.Rebind(`INSERT INTO schedule_states (` + scheduleColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (card_id) DO NOTHING`)
	_, err := q.ExecContext(ctx, query,
		s.CardID, s.UserID, s.BoxLevel, s.EaseFactor, s.Interval, s.Repetitions,
		s.NextReviewAt, s.LastReviewedAt, s.TotalReviews, s.CorrectReviews, s.ConsecutiveCorrect,
		s.Version, s.CreatedAt, s.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ensure schedule state: %w", err)
	}
	return r.Get(ctx, q, cardID, userID, false)
}

// Get returns the schedule state of a card. With forUpdate the row is locked on PostgreSQL.
func (r *ScheduleRepository) Get(ctx context.Context, q Queryer, cardID string, userID int64, forUpdate bool) (*models.ScheduleState, error) {
	query := `SELECT ` + scheduleColumns + ` FROM schedule_states WHERE card_id = ? AND user_id = ?`
	if forUpdate && isPostgres(q) {
		query += " FOR UPDATE"
	}

	var s models.ScheduleState
	if err := sqlx.GetContext(ctx, q, &s, q.Rebind(query), cardID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: schedule for card %s", ErrNotFound, cardID)
		}
		return nil, fmt.Errorf("failed to get schedule state: %w", err)
	}
	return &s, nil
}

// Update stores a new state if the stored version still equals expectedVersion.
// On success s.Version is advanced; a stale version yields ErrConflict.
func (r *ScheduleRepository) Update(ctx context.Context, q Queryer, s *models.ScheduleState, expectedVersion int64) error {
	var lastReviewed *time.Time
	if s.LastReviewedAt != nil {
		t := utc(*s.LastReviewedAt)
		lastReviewed = &t
	}
	updatedAt := utc(s.UpdatedAt)
	if s.UpdatedAt.IsZero() {
		updatedAt = utc(time.Now())
	}

	query := q.Rebind(`UPDATE schedule_states SET
			box_level = ?, ease_factor = ?, interval_days = ?, repetitions = ?,
			next_review_at = ?, last_reviewed_at = ?, total_reviews = ?, correct_reviews = ?,
			consecutive_correct = ?, version = version + 1, updated_at = ?
		WHERE card_id = ? AND user_id = ? AND version = ?`)
	res, err := q.ExecContext(ctx, query,
		s.BoxLevel, s.EaseFactor, s.Interval, s.Repetitions,
		utc(s.NextReviewAt), lastReviewed, s.TotalReviews, s.CorrectReviews,
		s.ConsecutiveCorrect, updatedAt,
		s.CardID, s.UserID, expectedVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update schedule state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update schedule state: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: card %s at version %d", ErrConflict, s.CardID, expectedVersion)
	}

	s.Version = expectedVersion + 1
	s.UpdatedAt = updatedAt
	return nil
}

// Due returns the user's cards whose next review is at or before now,
// earliest first. A non-positive limit falls back to DefaultDueLimit.
func (r *ScheduleRepository) Due(ctx context.Context, userID int64, now time.Time, limit int) ([]models.ScheduleState, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	states := []models.ScheduleState{}
	query := r.db.Rebind(`SELECT ` + scheduleColumns + ` FROM schedule_states
		WHERE user_id = ? AND next_review_at <= ?
		ORDER BY next_review_at, card_id
		LIMIT ?`)
	if err := r.db.SelectContext(ctx, &states, query, userID, utc(now), limit); err != nil {
		return nil, fmt.Errorf("failed to get due cards: %w", err)
	}
	return states, nil
}

// NeverReviewed returns cards that have never been answered, oldest first,
// leaving out the given card IDs.
func (r *ScheduleRepository) NeverReviewed(ctx context.Context, userID int64, exclude []string, limit int) ([]models.ScheduleState, error) {
	if limit <= 0 {
		limit = DefaultDueLimit
	}

	query := `SELECT ` + scheduleColumns + ` FROM schedule_states
		WHERE user_id = ? AND repetitions = 0 AND total_reviews = 0`
	args := []interface{}{userID}
	if len(exclude) > 0 {
		query += ` AND card_id NOT IN (?)`
		args = append(args, exclude)
	}
	query += ` ORDER BY created_at, card_id LIMIT ?`
	args = append(args, limit)

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to build new cards query: %w", err)
	}

	states := []models.ScheduleState{}
	if err := r.db.SelectContext(ctx, &states, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get new cards: %w", err)
	}
	return states, nil
}

// CountDue returns how many of the user's cards are due at now
func (r *ScheduleRepository) CountDue(ctx context.Context, userID int64, now time.Time) (int, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM schedule_states WHERE user_id = ? AND next_review_at <= ?`)
	if err := r.db.GetContext(ctx, &count, query, userID, utc(now)); err != nil {
		return 0, fmt.Errorf("failed to count due cards: %w", err)
	}
	return count, nil
}
