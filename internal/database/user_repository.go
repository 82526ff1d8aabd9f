package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/pkg/models"
)

const userColumns = "id, username, first_name, notification_enabled, notification_hour, created_at, updated_at"

// UserRepository handles database operations for users
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new repository instance
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Upsert creates the user or refreshes its profile and notification settings
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	now := utc(time.Now())
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.CreatedAt = utc(user.CreatedAt)
	user.UpdatedAt = now

	query := r.db.Rebind(`INSERT INTO users (` + userColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			notification_enabled = excluded.notification_enabled,
			notification_hour = excluded.notification_hour,
			updated_at = excluded.updated_at`)
	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.FirstName, user.NotificationEnabled, user.NotificationHour,
		user.CreatedAt, user.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

// GetByID returns a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users WHERE id = ?`)
	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user %d", ErrNotFound, id)
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return &user, nil
}

// GetAll returns all users
func (r *UserRepository) GetAll(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := r.db.SelectContext(ctx, &users, `SELECT `+userColumns+` FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	return users, nil
}

// GetUsersForNotification returns users who have notifications enabled for the given hour
func (r *UserRepository) GetUsersForNotification(ctx context.Context, hour int) ([]models.User, error) {
	users := []models.User{}
	query := r.db.Rebind(`SELECT ` + userColumns + ` FROM users
		WHERE notification_enabled = ? AND notification_hour = ?
		ORDER BY id`)
	if err := r.db.SelectContext(ctx, &users, query, true, hour); err != nil {
		return nil, fmt.Errorf("failed to get users for notification: %w", err)
	}
	return users, nil
}
