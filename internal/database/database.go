package database

import (
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Connect opens a SQLite database using the provided DSN. SQLite allows a
// single writer, so the pool is capped at one connection.
func Connect(dsn string) *sqlx.DB {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		log.Fatal().Err(err).Str("dsn", dsn).Msg("failed to connect to database")
	}
	db.SetMaxOpenConns(1)
	return db
}
