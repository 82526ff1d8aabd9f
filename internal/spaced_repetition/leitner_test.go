package spaced_repetition

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/example/leitnerbot/pkg/models"
)

var t0 = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func assertFloat(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func mustReview(t *testing.T, l *Leitner, s models.ScheduleState, correct bool, rating *int, now time.Time) models.ScheduleState {
	t.Helper()
	next, err := l.ComputeNextState(s, correct, rating, now)
	if err != nil {
		t.Fatalf("ComputeNextState: %v", err)
	}
	return next
}

func TestNewScheduleStateDefaults(t *testing.T) {
	s := NewScheduleState("card-1", 42, t0)
	if s.BoxLevel != 1 || s.Interval != 1 || s.Repetitions != 0 {
		t.Fatalf("unexpected defaults: %+v", s)
	}
	assertFloat(t, "EaseFactor", s.EaseFactor, 2.5)
	if !s.NextReviewAt.Equal(t0) {
		t.Errorf("NextReviewAt = %v, want %v", s.NextReviewAt, t0)
	}
	if s.LastReviewedAt != nil {
		t.Error("LastReviewedAt should be nil for a fresh card")
	}
	if !s.IsDue(t0) || !s.NeverReviewed() {
		t.Error("fresh card should be due and never reviewed")
	}
}

// Fresh card answered correctly three times in a row.
func TestComputeNextStateScenarios(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("card-1", 1, t0)

	// A bare correct answer counts as quality 4, which leaves EF unchanged.
	s = mustReview(t, l, s, true, nil, t0)
	if s.Repetitions != 1 || s.BoxLevel != 2 || s.Interval != 1 {
		t.Fatalf("after 1st correct: %+v", s)
	}
	assertFloat(t, "EaseFactor", s.EaseFactor, 2.5)

	s = mustReview(t, l, s, true, nil, t0.AddDate(0, 0, 1))
	if s.Repetitions != 2 || s.BoxLevel != 3 || s.Interval != 3 {
		t.Fatalf("after 2nd correct: %+v", s)
	}

	s.EaseFactor = 2.6
	s = mustReview(t, l, s, true, nil, t0.AddDate(0, 0, 4))
	assertFloat(t, "EaseFactor", s.EaseFactor, 2.6)
	if s.Interval != 8 { // round(3 * 2.6) = round(7.8)
		t.Fatalf("3rd correct interval = %d, want 8", s.Interval)
	}
	if s.Repetitions != 3 || s.BoxLevel != 4 || s.ConsecutiveCorrect != 3 {
		t.Errorf("3rd correct: %+v", s)
	}
}

func TestPerfectRatingRaisesEase(t *testing.T) {
	l := NewLeitner()
	s := mustReview(t, l, NewScheduleState("c", 1, t0), true, intPtr(5), t0)
	assertFloat(t, "EaseFactor", s.EaseFactor, 2.6)
}

func TestComputeNextStateMiss(t *testing.T) {
	l := NewLeitner()
	s := models.ScheduleState{
		CardID:             "c",
		BoxLevel:           3,
		EaseFactor:         2.0,
		Interval:           10,
		Repetitions:        4,
		ConsecutiveCorrect: 4,
		TotalReviews:       6,
		CorrectReviews:     5,
	}
	next := mustReview(t, l, s, false, nil, t0)

	if next.BoxLevel != 2 || next.Interval != 1 || next.Repetitions != 0 || next.ConsecutiveCorrect != 0 {
		t.Fatalf("miss: %+v", next)
	}
	assertFloat(t, "EaseFactor", next.EaseFactor, 1.8)
	if next.TotalReviews != 7 || next.CorrectReviews != 5 {
		t.Errorf("counters: total=%d correct=%d", next.TotalReviews, next.CorrectReviews)
	}
	if want := t0.AddDate(0, 0, 1); !next.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", next.NextReviewAt, want)
	}
	if next.LastReviewedAt == nil || !next.LastReviewedAt.Equal(t0) {
		t.Errorf("LastReviewedAt = %v, want %v", next.LastReviewedAt, t0)
	}
}

func TestMissIgnoresSelfRating(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c", 1, t0)
	s.EaseFactor = 2.2
	a := mustReview(t, l, s, false, intPtr(5), t0)
	b := mustReview(t, l, s, false, nil, t0)
	assertFloat(t, "EaseFactor", a.EaseFactor, b.EaseFactor)
	assertFloat(t, "EaseFactor", a.EaseFactor, 2.0)
}

func TestSelfRatingAdjustsEase(t *testing.T) {
	tests := []struct {
		rating int
		want   float64
	}{
		{5, 2.6},
		{4, 2.5},
		{3, 2.36},
		{2, 2.18},
		{1, 1.96},
	}
	l := NewLeitner()
	for _, tt := range tests {
		next := mustReview(t, l, NewScheduleState("c", 1, t0), true, intPtr(tt.rating), t0)
		assertFloat(t, "EaseFactor", next.EaseFactor, tt.want)
	}
}

func TestEaseFactorFloor(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c", 1, t0)
	for i := 0; i < 20; i++ {
		s = mustReview(t, l, s, false, nil, t0)
		if s.EaseFactor < MinEaseFactor {
			t.Fatalf("review %d: EaseFactor %v below floor", i, s.EaseFactor)
		}
	}
	assertFloat(t, "EaseFactor", s.EaseFactor, MinEaseFactor)

	// hardest self rating on a correct answer also respects the floor
	s = mustReview(t, l, s, true, intPtr(1), t0)
	assertFloat(t, "EaseFactor", s.EaseFactor, MinEaseFactor)
}

func TestBoxCeilingAndFloor(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c", 1, t0)
	for i := 0; i < 12; i++ {
		s = mustReview(t, l, s, true, nil, t0)
		if s.BoxLevel > l.MaxBox {
			t.Fatalf("box %d exceeds max", s.BoxLevel)
		}
	}
	if s.BoxLevel != 5 || !l.IsMastered(s) {
		t.Errorf("after a long streak box = %d, want 5", s.BoxLevel)
	}
	for i := 0; i < 12; i++ {
		s = mustReview(t, l, s, false, nil, t0)
		if s.BoxLevel < 1 {
			t.Fatalf("box %d below 1", s.BoxLevel)
		}
	}
	if s.BoxLevel != 1 {
		t.Errorf("after a long losing streak box = %d, want 1", s.BoxLevel)
	}
}

func TestFixedEarlyIntervalsIgnoreEase(t *testing.T) {
	l := NewLeitner()
	for _, ef := range []float64{1.3, 1.7, 2.5, 3.4} {
		s := NewScheduleState("c", 1, t0)
		s.EaseFactor = ef
		s.Interval = 17
		s = mustReview(t, l, s, true, nil, t0)
		if s.Interval != 1 {
			t.Errorf("ef=%v first interval = %d, want 1", ef, s.Interval)
		}
		s = mustReview(t, l, s, true, nil, t0)
		if s.Interval != 3 {
			t.Errorf("ef=%v second interval = %d, want 3", ef, s.Interval)
		}
	}
}

func TestGrowIntervalRounding(t *testing.T) {
	tests := []struct {
		interval int
		ef       float64
		want     int
	}{
		{3, 1.3, 4},  // round(3.9)
		{1, 1.3, 1},  // round(1.3), no growth
		{3, 2.6, 8},  // round(7.8)
		{2, 1.75, 4}, // round(3.5) half away from zero
		{10, 2.5, 25},
		{20000, 2.5, MaxIntervalDays},
		{1 << 62, 3.0, MaxIntervalDays},
	}
	for _, tt := range tests {
		if got := GrowInterval(tt.interval, tt.ef); got != tt.want {
			t.Errorf("GrowInterval(%d, %v) = %d, want %d", tt.interval, tt.ef, got, tt.want)
		}
	}
}

func TestLongStreakIntervalIsCapped(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c1", 1, t0)
	for i := 0; i < 100; i++ {
		s = mustReview(t, l, s, true, intPtr(int(RatingVeryEasy)), t0)
		if s.Interval < 1 || s.Interval > MaxIntervalDays {
			t.Fatalf("review %d: interval %d outside 1-%d", i+1, s.Interval, MaxIntervalDays)
		}
		if !s.NextReviewAt.After(t0) {
			t.Fatalf("review %d: NextReviewAt %v not after %v", i+1, s.NextReviewAt, t0)
		}
	}
	if s.Interval != MaxIntervalDays {
		t.Errorf("interval = %d, want %d", s.Interval, MaxIntervalDays)
	}
	if want := t0.AddDate(0, 0, MaxIntervalDays); !s.NextReviewAt.Equal(want) {
		t.Errorf("NextReviewAt = %v, want %v", s.NextReviewAt, want)
	}
}

func TestComputeNextStateInvariants(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c", 1, t0)
	now := t0
	// deterministic pseudo-random walk over outcomes and ratings
	pattern := []struct {
		correct bool
		rating  *int
	}{
		{true, nil}, {true, intPtr(5)}, {false, nil}, {true, intPtr(1)}, {true, intPtr(3)},
		{true, nil}, {true, intPtr(2)}, {false, intPtr(4)}, {true, nil}, {true, nil},
	}
	for round := 0; round < 5; round++ {
		for _, p := range pattern {
			prev := s
			s = mustReview(t, l, s, p.correct, p.rating, now)

			if s.BoxLevel < 1 || s.BoxLevel > 5 {
				t.Fatalf("box %d out of range", s.BoxLevel)
			}
			if s.EaseFactor < MinEaseFactor {
				t.Fatalf("ease %v below floor", s.EaseFactor)
			}
			if s.Interval < 1 || s.Repetitions < 0 {
				t.Fatalf("interval=%d reps=%d", s.Interval, s.Repetitions)
			}
			if s.TotalReviews != prev.TotalReviews+1 {
				t.Fatalf("TotalReviews %d -> %d", prev.TotalReviews, s.TotalReviews)
			}
			wantCorrect := prev.CorrectReviews
			if p.correct {
				wantCorrect++
			} else if s.Repetitions != 0 {
				t.Fatalf("repetitions %d after a miss", s.Repetitions)
			}
			if s.CorrectReviews != wantCorrect {
				t.Fatalf("CorrectReviews = %d, want %d", s.CorrectReviews, wantCorrect)
			}
			if !s.NextReviewAt.After(now) {
				t.Fatalf("NextReviewAt %v not after %v", s.NextReviewAt, now)
			}
			now = s.NextReviewAt
		}
	}
}

func TestComputeNextStateDoesNotMutateInput(t *testing.T) {
	l := NewLeitner()
	s := NewScheduleState("c", 1, t0)
	before := s
	_ = mustReview(t, l, s, true, intPtr(5), t0)
	if s != before {
		t.Errorf("input mutated: %+v", s)
	}
}

func TestComputeNextStateValidation(t *testing.T) {
	l := NewLeitner()
	valid := NewScheduleState("c", 1, t0)

	for _, r := range []int{0, 6, -1} {
		_, err := l.ComputeNextState(valid, true, intPtr(r), t0)
		if !errors.Is(err, ErrInvalidRating) {
			t.Errorf("rating %d: err = %v, want ErrInvalidRating", r, err)
		}
	}

	broken := []func(*models.ScheduleState){
		func(s *models.ScheduleState) { s.BoxLevel = 0 },
		func(s *models.ScheduleState) { s.BoxLevel = 6 },
		func(s *models.ScheduleState) { s.EaseFactor = 1.2 },
		func(s *models.ScheduleState) { s.Interval = 0 },
		func(s *models.ScheduleState) { s.Interval = -3 },
		func(s *models.ScheduleState) { s.Repetitions = -1 },
		func(s *models.ScheduleState) { s.TotalReviews = -1 },
	}
	for i, mutate := range broken {
		s := valid
		mutate(&s)
		if _, err := l.ComputeNextState(s, true, nil, t0); !errors.Is(err, ErrInvalidState) {
			t.Errorf("case %d: err = %v, want ErrInvalidState", i, err)
		}
	}
}
