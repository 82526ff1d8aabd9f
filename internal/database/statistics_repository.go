package database

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/pkg/models"
)

// StatisticsRepository computes progress summaries
type StatisticsRepository struct {
	db *sqlx.DB
}

// NewStatisticsRepository creates a new repository instance
func NewStatisticsRepository(db *sqlx.DB) *StatisticsRepository {
	return &StatisticsRepository{db: db}
}

type scheduleTotals struct {
	Tracked        int     `db:"tracked"`
	Mastered       int     `db:"mastered"`
	TotalReviews   int     `db:"total_reviews"`
	CorrectReviews int     `db:"correct_reviews"`
	AvgEaseFactor  float64 `db:"avg_ease_factor"`
}

type boxCount struct {
	BoxLevel int `db:"box_level"`
	Count    int `db:"count"`
}

// GetUserStats summarizes the user's cards and reviews as of now
func (r *StatisticsRepository) GetUserStats(ctx context.Context, userID int64, now time.Time) (*models.UserStats, error) {
	stats := &models.UserStats{
		AvgEaseFactor:   spaced_repetition.InitialEaseFactor,
		BoxDistribution: map[int]int{},
	}

	query := r.db.Rebind(`SELECT COUNT(*) FROM cards WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &stats.TotalCards, query, userID); err != nil {
		return nil, fmt.Errorf("failed to count cards: %w", err)
	}

	due, err := NewScheduleRepository(r.db).CountDue(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats.DueCards = due

	var totals scheduleTotals
	query = r.db.Rebind(`SELECT
			COUNT(*) AS tracked,
			COALESCE(SUM(CASE WHEN box_level >= ? THEN 1 ELSE 0 END), 0) AS mastered,
			COALESCE(SUM(total_reviews), 0) AS total_reviews,
			COALESCE(SUM(correct_reviews), 0) AS correct_reviews,
			COALESCE(AVG(ease_factor), 0) AS avg_ease_factor
		FROM schedule_states WHERE user_id = ?`)
	if err := r.db.GetContext(ctx, &totals, query, spaced_repetition.DefaultMaxBox, userID); err != nil {
		return nil, fmt.Errorf("failed to get review totals: %w", err)
	}
	stats.Mastered = totals.Mastered
	stats.TotalReviews = totals.TotalReviews
	stats.CorrectReviews = totals.CorrectReviews
	if totals.Tracked > 0 {
		stats.AvgEaseFactor = math.Round(totals.AvgEaseFactor*100) / 100
	}
	if totals.TotalReviews > 0 {
		stats.Accuracy = int(math.Round(float64(totals.CorrectReviews) / float64(totals.TotalReviews) * 100))
	}

	boxes := []boxCount{}
	query = r.db.Rebind(`SELECT box_level, COUNT(*) AS count FROM schedule_states
		WHERE user_id = ? GROUP BY box_level ORDER BY box_level`)
	if err := r.db.SelectContext(ctx, &boxes, query, userID); err != nil {
		return nil, fmt.Errorf("failed to get box distribution: %w", err)
	}
	for _, b := range boxes {
		stats.BoxDistribution[b.BoxLevel] = b.Count
	}

	return stats, nil
}
