package repositories

import (
	"database/sql"

	"github.com/BurntSushi/migration"
	_ "github.com/lib/pq"
)

// Open connects to Postgres and applies any pending schema migrations.
func Open(dsn string) (*sql.DB, error) {
	return migration.Open("postgres", dsn, Migrations())
}

// Migrations returns the schema steps in order. Append only; never edit a
// step that has shipped.
func Migrations() []migration.Migrator {
	steps := []string{
		`CREATE TABLE accounts (
			id            SERIAL PRIMARY KEY,
			email         VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role          VARCHAR(16)  NOT NULL DEFAULT 'user',
			is_active     BOOLEAN      NOT NULL DEFAULT FALSE,
			phone         VARCHAR(32),
			created_at    TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE message_history (
			id          BIGSERIAL PRIMARY KEY,
			kind        VARCHAR(16)  NOT NULL,
			account_id  INTEGER REFERENCES accounts(id) ON DELETE SET NULL,
			destination VARCHAR(64)  NOT NULL,
			body        TEXT         NOT NULL DEFAULT '',
			provider_id VARCHAR(64)  NOT NULL DEFAULT '',
			created_at  TIMESTAMPTZ  NOT NULL DEFAULT NOW()
		)`,

		`CREATE INDEX message_history_kind_created_idx ON message_history (kind, created_at DESC, id DESC)`,
	}

	var migrations []migration.Migrator
	for _, src := range steps {
		stmt := src
		migrations = append(migrations, func(tx migration.LimitedTx) error {
			_, err := tx.Exec(stmt)
			return err
		})
	}
	return migrations
}
