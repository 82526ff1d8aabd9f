package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

const (
	sessionColumns = "id, user_id, session_type, started_at, ended_at, cards_attempted, cards_correct, total_time_spent"
	answerColumns  = "id, session_id, card_id, user_answer, is_correct, time_spent, self_rating, answered_at"
)

// SessionRepository handles database operations for study sessions and their answers
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new repository instance
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create starts a new session
func (r *SessionRepository) Create(ctx context.Context, s *models.StudySession) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.StartedAt = utc(s.StartedAt)

	query := r.db.Rebind(`INSERT INTO study_sessions (` + sessionColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	_, err := r.db.ExecContext(ctx, query,
		s.ID, s.UserID, s.SessionType, s.StartedAt, s.EndedAt,
		s.CardsAttempted, s.CardsCorrect, s.TotalTimeSpent)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// Get returns a session owned by the given user
func (r *SessionRepository) Get(ctx context.Context, q Queryer, sessionID string, userID int64) (*models.StudySession, error) {
	var s models.StudySession
	query := q.Rebind(`SELECT ` + sessionColumns + ` FROM study_sessions WHERE id = ? AND user_id = ?`)
	if err := sqlx.GetContext(ctx, q, &s, query, sessionID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: session %s", ErrNotFound, sessionID)
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &s, nil
}

// End closes the session. Ending an already closed session keeps its original end time.
func (r *SessionRepository) End(ctx context.Context, sessionID string, userID int64, now time.Time) (*models.StudySession, error) {
	query := r.db.Rebind(`UPDATE study_sessions SET ended_at = ? WHERE id = ? AND user_id = ? AND ended_at IS NULL`)
	if _, err := r.db.ExecContext(ctx, query, utc(now), sessionID, userID); err != nil {
		return nil, fmt.Errorf("failed to end session: %w", err)
	}
	return r.Get(ctx, r.db, sessionID, userID)
}

// AnsweredCardIDs returns the IDs of cards already answered in the session
func (r *SessionRepository) AnsweredCardIDs(ctx context.Context, sessionID string) ([]string, error) {
	ids := []string{}
	query := r.db.Rebind(`SELECT DISTINCT card_id FROM study_answers WHERE session_id = ?`)
	if err := r.db.SelectContext(ctx, &ids, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get answered cards: %w", err)
	}
	return ids, nil
}

// Answers returns the answers of a session in the order they were given
func (r *SessionRepository) Answers(ctx context.Context, sessionID string) ([]models.StudyAnswer, error) {
	answers := []models.StudyAnswer{}
	query := r.db.Rebind(`SELECT ` + answerColumns + ` FROM study_answers WHERE session_id = ? ORDER BY answered_at, id`)
	if err := r.db.SelectContext(ctx, &answers, query, sessionID); err != nil {
		return nil, fmt.Errorf("failed to get answers: %w", err)
	}
	return answers, nil
}

// RecordAnswer stores an answer and adds it to the session counters.
// An ended session is left untouched and yields ErrConflict.
func (r *SessionRepository) RecordAnswer(ctx context.Context, q Queryer, a *models.StudyAnswer) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	a.AnsweredAt = utc(a.AnsweredAt)

	correct := 0
	if a.IsCorrect {
		correct = 1
	}
	update := q.Rebind(`UPDATE study_sessions SET
			cards_attempted = cards_attempted + 1,
			cards_correct = cards_correct + ?,
			total_time_spent = total_time_spent + ?
		WHERE id = ? AND ended_at IS NULL`)
	res, err := q.ExecContext(ctx, update, correct, a.TimeSpent, a.SessionID)
	if err != nil {
		return fmt.Errorf("failed to update session counters: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to update session counters: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: session %s is ended or missing", ErrConflict, a.SessionID)
	}

	insert := q.Rebind(`INSERT INTO study_answers (` + answerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if _, err := q.ExecContext(ctx, insert,
		a.ID, a.SessionID, a.CardID, a.UserAnswer, a.IsCorrect, a.TimeSpent, a.SelfRating, a.AnsweredAt,
	); err != nil {
		return fmt.Errorf("failed to record answer: %w", err)
	}
	return nil
}
