package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type DB struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Test connection
	if err := pool.Ping(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) Close() {
	db.pool.Close()
}

// RunMigrations runs database migrations
func (db *DB) RunMigrations(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS sessions (
			id BIGSERIAL PRIMARY KEY,
			guild_id TEXT NOT NULL DEFAULT '',
			chat_id TEXT NOT NULL,
			created_by TEXT NOT NULL,
			service NUMERIC NOT NULL DEFAULT 0,
			tax NUMERIC NOT NULL DEFAULT 0,
			is_open BOOLEAN NOT NULL DEFAULT TRUE,
			board_message_id TEXT NOT NULL DEFAULT '',
			prompt_message_id TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_sessions_open_chat
			ON sessions(chat_id) WHERE is_open;
		CREATE INDEX IF NOT EXISTS idx_sessions_guild_id ON sessions(guild_id);

		CREATE TABLE IF NOT EXISTS orders (
			id BIGSERIAL PRIMARY KEY,
			session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
			username TEXT NOT NULL,
			name TEXT NOT NULL,
			quantity INT NOT NULL DEFAULT 1 CHECK (quantity > 0),
			price NUMERIC,
			message_id TEXT NOT NULL DEFAULT '',
			UNIQUE (session_id, username, name)
		);
		CREATE INDEX IF NOT EXISTS idx_orders_session_id ON orders(session_id);

		CREATE TABLE IF NOT EXISTS user_sessions (
			username TEXT PRIMARY KEY,
			session_id BIGINT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE
		);
	`)
	return err
}
