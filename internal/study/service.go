// Package study applies review outcomes to stored schedules and runs study sessions.
package study

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	log "github.com/sirupsen/logrus"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

const defaultMaxAttempts = 3

// Service coordinates the scheduling engine with storage
type Service struct {
	db          *sqlx.DB
	engine      *spaced_repetition.Leitner
	cards       *database.CardRepository
	schedules   *database.ScheduleRepository
	sessions    *database.SessionRepository
	statistics  *database.StatisticsRepository
	locks       *cardLocks
	dueLimit    int
	maxAttempts int
	now         func() time.Time
}

// Option customizes a Service
type Option func(*Service)

// WithDueLimit sets how many due cards are considered at once
func WithDueLimit(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.dueLimit = n
		}
	}
}

// WithMaxAttempts sets how often a review transaction is retried after a conflict
func WithMaxAttempts(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAttempts = n
		}
	}
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a study service
func NewService(db *sqlx.DB, engine *spaced_repetition.Leitner, opts ...Option) *Service {
	s := &Service{
		db:          db,
		engine:      engine,
		cards:       database.NewCardRepository(db),
		schedules:   database.NewScheduleRepository(db),
		sessions:    database.NewSessionRepository(db),
		statistics:  database.NewStatisticsRepository(db),
		locks:       newCardLocks(),
		dueLimit:    database.DefaultDueLimit,
		maxAttempts: defaultMaxAttempts,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) clock() time.Time {
	return s.now().UTC()
}

// SubmitReview records one answer for a card and returns its new schedule
func (s *Service) SubmitReview(ctx context.Context, userID int64, cardID string, correct bool, selfRating *int) (*models.ScheduleState, error) {
	var next *models.ScheduleState
	err := s.reviewTx(ctx, cardID, func(tx *sqlx.Tx) error {
		var err error
		next, err = s.review(ctx, tx, userID, cardID, correct, selfRating)
		return err
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// reviewTx runs fn in a transaction under the card lock, retrying on version conflicts
func (s *Service) reviewTx(ctx context.Context, cardID string, fn func(tx *sqlx.Tx) error) error {
	unlock := s.locks.Lock(cardID)
	defer unlock()

	var err error
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		err = database.WithTx(ctx, s.db, fn)
		if !errors.Is(err, database.ErrConflict) {
			return err
		}
		log.WithFields(log.Fields{
			"card_id": cardID,
			"attempt": attempt,
		}).Warn("Schedule changed concurrently, retrying review")
	}
	return err
}

func (s *Service) review(ctx context.Context, tx *sqlx.Tx, userID int64, cardID string, correct bool, selfRating *int) (*models.ScheduleState, error) {
	now := s.clock()

	if _, err := s.cards.GetByID(ctx, tx, cardID, userID); err != nil {
		return nil, err
	}
	if _, err := s.schedules.Ensure(ctx, tx, cardID, userID, now); err != nil {
		return nil, err
	}
	current, err := s.schedules.Get(ctx, tx, cardID, userID, true)
	if err != nil {
		return nil, err
	}

	next, err := s.engine.ComputeNextState(*current, correct, selfRating, now)
	if err != nil {
		return nil, err
	}
	if err := s.schedules.Update(ctx, tx, &next, current.Version); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"user_id":     userID,
		"card_id":     cardID,
		"correct":     correct,
		"box_level":   next.BoxLevel,
		"interval":    next.Interval,
		"ease_factor": next.EaseFactor,
	}).Debug("Review applied")
	return &next, nil
}

// DueCards returns the user's due schedules, earliest first
func (s *Service) DueCards(ctx context.Context, userID int64, limit int) ([]models.ScheduleState, error) {
	if limit <= 0 {
		limit = s.dueLimit
	}
	return s.schedules.Due(ctx, userID, s.clock(), limit)
}

// Stats returns the user's progress summary
func (s *Service) Stats(ctx context.Context, userID int64) (*models.UserStats, error) {
	return s.statistics.GetUserStats(ctx, userID, s.clock())
}

// AddCard creates a card for the user together with its initial schedule
func (s *Service) AddCard(ctx context.Context, card *models.Card) error {
	if card.Front == "" || card.Back == "" {
		return fmt.Errorf("%w: card needs both front and back", ErrInvalidInput)
	}
	now := s.clock()
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	return database.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		if err := s.cards.Create(ctx, tx, card); err != nil {
			return err
		}
		_, err := s.schedules.Ensure(ctx, tx, card.ID, card.UserID, card.CreatedAt)
		return err
	})
}
