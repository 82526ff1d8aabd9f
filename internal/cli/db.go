package cli

import (
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/example/leitnerbot/internal/database"
	"github.com/example/leitnerbot/internal/spaced_repetition"
	"github.com/example/leitnerbot/internal/study"
)

func openDB() (*sqlx.DB, func(), error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		_ = db.Close()
	}
	return db, cleanup, nil
}

func openService() (*study.Service, func(), error) {
	db, cleanup, err := openDB()
	if err != nil {
		return nil, nil, err
	}
	svc := study.NewService(db, spaced_repetition.NewLeitner(),
		study.WithDueLimit(cfg.DueLimit),
		study.WithMaxAttempts(cfg.ReviewMaxAttempts),
	)
	return svc, cleanup, nil
}

func requireUser() error {
	if userID == 0 {
		return errors.New("--user is required")
	}
	return nil
}

// ratingFlag maps the 0 "not given" flag value to nil
func ratingFlag(v int) *int {
	if v == 0 {
		return nil
	}
	return &v
}
