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

const cardColumns = "id, user_id, front, back, example, created_at, updated_at"

// CardRepository handles database operations for cards
type CardRepository struct {
	db *sqlx.DB
}

// NewCardRepository creates a new repository instance
func NewCardRepository(db *sqlx.DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a new card, assigning an ID when empty
func (r *CardRepository) Create(ctx context.Context, q Queryer, card *models.Card) error {
	if card.ID == "" {
		card.ID = uuid.NewString()
	}
	now := utc(time.Now())
	if card.CreatedAt.IsZero() {
		card.CreatedAt = now
	}
	card.CreatedAt = utc(card.CreatedAt)
	card.UpdatedAt = now

	query := q.Rebind(`INSERT INTO cards (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`)
	_, err := q.ExecContext(ctx, query,
		card.ID, card.UserID, card.Front, card.Back, card.Example, card.CreatedAt, card.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// GetByID returns a card owned by the given user
func (r *CardRepository) GetByID(ctx context.Context, q Queryer, cardID string, userID int64) (*models.Card, error) {
	var card models.Card
	query := q.Rebind(`SELECT ` + cardColumns + ` FROM cards WHERE id = ? AND user_id = ?`)
	if err := sqlx.GetContext(ctx, q, &card, query, cardID, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %s", ErrNotFound, cardID)
		}
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return &card, nil
}

// GetByFront finds a user's card by its front text
func (r *CardRepository) GetByFront(ctx context.Context, userID int64, front string) (*models.Card, error) {
	var card models.Card
	query := r.db.Rebind(`SELECT ` + cardColumns + ` FROM cards WHERE user_id = ? AND front = ?`)
	if err := r.db.GetContext(ctx, &card, query, userID, front); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: card %q", ErrNotFound, front)
		}
		return nil, fmt.Errorf("failed to get card by front: %w", err)
	}
	return &card, nil
}

// ListByUser returns all cards of a user in creation order
func (r *CardRepository) ListByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	cards := []models.Card{}
	query := r.db.Rebind(`SELECT ` + cardColumns + ` FROM cards WHERE user_id = ? ORDER BY created_at, id`)
	if err := r.db.SelectContext(ctx, &cards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	return cards, nil
}

// Delete removes a card together with its schedule and answers
func (r *CardRepository) Delete(ctx context.Context, cardID string, userID int64) error {
	query := r.db.Rebind(`DELETE FROM cards WHERE id = ? AND user_id = ?`)
	res, err := r.db.ExecContext(ctx, query, cardID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: card %s", ErrNotFound, cardID)
	}
	return nil
}
