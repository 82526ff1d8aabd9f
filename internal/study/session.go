package study

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// NextCard is the card to show next in a session. Done is set when nothing is left.
type NextCard struct {
	Card   *models.Card
	Source spaced_repetition.Source
	Done   bool
}

// AnswerInput is one answer given in a session
type AnswerInput struct {
	CardID     string
	Correct    bool
	UserAnswer string
	TimeSpent  int  // Seconds
	SelfRating *int // Optional, 1-5
}

// AnswerResult holds the card's new schedule and the updated session counters
type AnswerResult struct {
	State   models.ScheduleState
	Session models.StudySession
}

// StartSession opens a new session of the given type ("review" when empty)
func (s *Service) StartSession(ctx context.Context, userID int64, sessionType string) (*models.StudySession, error) {
	st, err := spaced_repetition.ParseSessionType(sessionType)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	session := &models.StudySession{
		UserID:      userID,
		SessionType: string(st),
		StartedAt:   s.clock(),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":      userID,
		"session_id":   session.ID,
		"session_type": st,
	}).Info("Study session started")
	return session, nil
}

// GetSession returns one of the user's sessions
func (s *Service) GetSession(ctx context.Context, userID int64, sessionID string) (*models.StudySession, error) {
	return s.sessions.Get(ctx, s.db, sessionID, userID)
}

// EndSession closes a session; an already closed session is returned unchanged
func (s *Service) EndSession(ctx context.Context, userID int64, sessionID string) (*models.StudySession, error) {
	if _, err := s.sessions.Get(ctx, s.db, sessionID, userID); err != nil {
		return nil, err
	}
	return s.sessions.End(ctx, sessionID, userID, s.clock())
}

func (s *Service) openSession(ctx context.Context, userID int64, sessionID string) (*models.StudySession, error) {
	session, err := s.sessions.Get(ctx, s.db, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, fmt.Errorf("%w: %s", ErrSessionEnded, sessionID)
	}
	return session, nil
}

// NextCard picks the card to present next in the session
func (s *Service) NextCard(ctx context.Context, userID int64, sessionID string) (*NextCard, error) {
	session, err := s.openSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sessionType, err := spaced_repetition.ParseSessionType(session.SessionType)
	if err != nil {
		return nil, err
	}

	answered, err := s.sessions.AnsweredCardIDs(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	presented := make(map[string]bool, len(answered))
	for _, id := range answered {
		presented[id] = true
	}

	now := s.clock()
	// Answered cards can still be due, widen the window to skip past them
	due, err := s.schedules.Due(ctx, userID, now, s.dueLimit+len(answered))
	if err != nil {
		return nil, err
	}

	var fresh []models.ScheduleState
	if sessionType.AllowsNew() {
		fresh, err = s.schedules.NeverReviewed(ctx, userID, answered, s.dueLimit)
		if err != nil {
			return nil, err
		}
	}

	sel, ok := s.engine.SelectNextCard(due, fresh, sessionType, presented, now)
	if !ok {
		return &NextCard{Done: true}, nil
	}

	card, err := s.cards.GetByID(ctx, s.db, sel.CardID, userID)
	if err != nil {
		return nil, err
	}
	return &NextCard{Card: card, Source: sel.Source}, nil
}

// Answer applies an answer to the card's schedule and records it in the session
func (s *Service) Answer(ctx context.Context, userID int64, sessionID string, in AnswerInput) (*AnswerResult, error) {
	if in.CardID == "" {
		return nil, fmt.Errorf("%w: card id is required", ErrInvalidInput)
	}
	if in.TimeSpent < 0 {
		return nil, fmt.Errorf("%w: time spent must not be negative", ErrInvalidInput)
	}
	if _, err := s.openSession(ctx, userID, sessionID); err != nil {
		return nil, err
	}

	var result *AnswerResult
	err := s.reviewTx(ctx, in.CardID, func(tx *sqlx.Tx) error {
		var err error
		result, err = s.answer(ctx, tx, userID, sessionID, in)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// answer applies and records one answer inside tx. The session is checked
// again here since it may have been ended after the caller looked at it.
func (s *Service) answer(ctx context.Context, tx *sqlx.Tx, userID int64, sessionID string, in AnswerInput) (*AnswerResult, error) {
	session, err := s.sessions.Get(ctx, tx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	if session.Ended() {
		return nil, fmt.Errorf("%w: %s", ErrSessionEnded, sessionID)
	}

	next, err := s.review(ctx, tx, userID, in.CardID, in.Correct, in.SelfRating)
	if err != nil {
		return nil, err
	}

	answer := &models.StudyAnswer{
		SessionID:  sessionID,
		CardID:     in.CardID,
		UserAnswer: in.UserAnswer,
		IsCorrect:  in.Correct,
		TimeSpent:  in.TimeSpent,
		SelfRating: in.SelfRating,
		AnsweredAt: s.clock(),
	}
	if err := s.sessions.RecordAnswer(ctx, tx, answer); err != nil {
		return nil, err
	}

	session, err = s.sessions.Get(ctx, tx, sessionID, userID)
	if err != nil {
		return nil, err
	}
	return &AnswerResult{State: *next, Session: *session}, nil
}
