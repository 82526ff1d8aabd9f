package models

// UserStats summarizes a learner's progress across all cards
type UserStats struct {
	TotalCards      int         `json:"total_cards"`
	DueCards        int         `json:"due_cards"`
	Mastered        int         `json:"mastered"` // Cards in the top box
	TotalReviews    int         `json:"total_reviews"`
	CorrectReviews  int         `json:"correct_reviews"`
	Accuracy        int         `json:"accuracy"` // Percent, rounded
	AvgEaseFactor   float64     `json:"avg_ease_factor"`
	BoxDistribution map[int]int `json:"box_distribution"`
}
