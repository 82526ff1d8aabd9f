package database

import (
	"time"

	"github.com/jmoiron/sqlx"
)

// Queryer is satisfied by both *sqlx.DB and *sqlx.Tx so repositories can run inside a transaction
type Queryer = sqlx.ExtContext

// utc normalizes timestamps so SQLite string comparison matches time ordering
func utc(t time.Time) time.Time {
	return t.UTC()
}

func isPostgres(q Queryer) bool {
	return q.DriverName() == driverPostgres
}
