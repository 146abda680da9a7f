package db

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"

	"github.com/mkaram/tabbot/internal/tab"
)

// DB implements tab.Store on Postgres. Single-row updates ride on
// per-statement atomicity (increment-in-place, conditional updates); the
// one-open-session-per-chat invariant rides on the partial unique index, so
// concurrent starts race safely and the loser sees ErrSessionExists.

const uniqueViolation = "23505"

func (db *DB) CreateSession(ctx context.Context, guildID, chatID, createdBy string) (*tab.Session, error) {
	var id int64
	err := db.pool.QueryRow(ctx,
		`INSERT INTO sessions (guild_id, chat_id, created_by)
         VALUES ($1, $2, $3)
         RETURNING id`,
		guildID, chatID, createdBy,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, tab.ErrSessionExists
		}
		return nil, err
	}
	return &tab.Session{
		ID:        id,
		GuildID:   guildID,
		ChatID:    chatID,
		CreatedBy: createdBy,
		Open:      true,
	}, nil
}

const sessionColumns = `id, guild_id, chat_id, created_by, service, tax, is_open, board_message_id, prompt_message_id`

func scanSession(row pgx.Row) (*tab.Session, error) {
	var s tab.Session
	err := row.Scan(&s.ID, &s.GuildID, &s.ChatID, &s.CreatedBy, &s.Service, &s.Tax,
		&s.Open, &s.BoardMessageID, &s.PromptMessageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, tab.ErrNoSession
		}
		return nil, err
	}
	return &s, nil
}

func (db *DB) SessionByChat(ctx context.Context, chatID string) (*tab.Session, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE chat_id = $1 AND is_open LIMIT 1`,
		chatID,
	)
	return scanSession(row)
}

func (db *DB) SessionsByGuild(ctx context.Context, guildID string) ([]*tab.Session, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE guild_id = $1 AND is_open ORDER BY id`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*tab.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sess)
	}
	return out, rows.Err()
}

func (db *DB) GuildsWithSessions(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx, `SELECT DISTINCT guild_id FROM sessions WHERE is_open ORDER BY guild_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// DeleteSession removes the session; orders and user bindings go with it via
// ON DELETE CASCADE.
func (db *DB) DeleteSession(ctx context.Context, sessionID int64) error {
	ct, err := db.pool.Exec(ctx, `DELETE FROM sessions WHERE id = $1`, sessionID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return tab.ErrNoSession
	}
	return nil
}

func (db *DB) SetServiceCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error {
	return db.updateSession(ctx, sessionID, `UPDATE sessions SET service = $2 WHERE id = $1`, v)
}

func (db *DB) SetTaxCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error {
	return db.updateSession(ctx, sessionID, `UPDATE sessions SET tax = $2 WHERE id = $1`, v)
}

func (db *DB) SetBoardMessage(ctx context.Context, sessionID int64, messageID string) error {
	return db.updateSession(ctx, sessionID, `UPDATE sessions SET board_message_id = $2 WHERE id = $1`, messageID)
}

func (db *DB) SetPromptMessage(ctx context.Context, sessionID int64, messageID string) error {
	return db.updateSession(ctx, sessionID, `UPDATE sessions SET prompt_message_id = $2 WHERE id = $1`, messageID)
}

func (db *DB) updateSession(ctx context.Context, sessionID int64, sql string, arg interface{}) error {
	ct, err := db.pool.Exec(ctx, sql, sessionID, arg)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return tab.ErrNoSession
	}
	return nil
}

const itemColumns = `session_id, username, name, quantity, price, message_id`

func (db *DB) Items(ctx context.Context, sessionID int64) ([]tab.Item, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM orders WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func (db *DB) UserItems(ctx context.Context, sessionID int64, username string) ([]tab.Item, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+itemColumns+` FROM orders WHERE session_id = $1 AND username = $2 ORDER BY id`,
		sessionID, username,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectItems(rows)
}

func collectItems(rows pgx.Rows) ([]tab.Item, error) {
	var out []tab.Item
	for rows.Next() {
		var it tab.Item
		if err := rows.Scan(&it.SessionID, &it.Username, &it.Name, &it.Quantity, &it.Price, &it.MessageID); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (db *DB) GetItem(ctx context.Context, sessionID int64, username, name string) (*tab.Item, error) {
	var it tab.Item
	err := db.pool.QueryRow(ctx,
		`SELECT `+itemColumns+` FROM orders WHERE session_id = $1 AND username = $2 AND name = $3`,
		sessionID, username, name,
	).Scan(&it.SessionID, &it.Username, &it.Name, &it.Quantity, &it.Price, &it.MessageID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &it, nil
}

func (db *DB) InsertItem(ctx context.Context, item *tab.Item) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO orders (session_id, username, name, quantity, price, message_id)
         VALUES ($1, $2, $3, $4, $5, $6)`,
		item.SessionID, item.Username, item.Name, item.Quantity, item.Price, item.MessageID,
	)
	return err
}

func (db *DB) AddQuantity(ctx context.Context, sessionID int64, username, name string, delta int) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE orders SET quantity = quantity + $4
         WHERE session_id = $1 AND username = $2 AND name = $3`,
		sessionID, username, name, delta,
	)
	return err
}

func (db *DB) DeleteItem(ctx context.Context, sessionID int64, username, name string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM orders WHERE session_id = $1 AND username = $2 AND name = $3`,
		sessionID, username, name,
	)
	return err
}

// SetPriceByName assigns the price to every row with the name, across users.
func (db *DB) SetPriceByName(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE orders SET price = $3 WHERE session_id = $1 AND name = $2`,
		sessionID, name, price,
	)
	return err
}

// BackfillPrice prices only the rows that are still unpriced.
func (db *DB) BackfillPrice(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error {
	_, err := db.pool.Exec(ctx,
		`UPDATE orders SET price = $3 WHERE session_id = $1 AND name = $2 AND price IS NULL`,
		sessionID, name, price,
	)
	return err
}

func (db *DB) KnownPrice(ctx context.Context, sessionID int64, name string) (decimal.NullDecimal, error) {
	var price decimal.NullDecimal
	err := db.pool.QueryRow(ctx,
		`SELECT price FROM orders
         WHERE session_id = $1 AND name = $2 AND price IS NOT NULL
         ORDER BY id LIMIT 1`,
		sessionID, name,
	).Scan(&price)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.NullDecimal{}, nil
		}
		return decimal.NullDecimal{}, err
	}
	return price, nil
}

func (db *DB) DistinctNames(ctx context.Context, sessionID int64) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT name FROM orders WHERE session_id = $1 ORDER BY name`,
		sessionID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		out = append(out, name)
	}
	return out, rows.Err()
}

// UnpricedChats returns chats whose open session still has unpriced rows.
func (db *DB) UnpricedChats(ctx context.Context) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT s.chat_id
         FROM sessions s
         JOIN orders o ON o.session_id = s.id
         WHERE s.is_open AND o.price IS NULL
         ORDER BY s.chat_id`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var chat string
		if err := rows.Scan(&chat); err != nil {
			return nil, err
		}
		out = append(out, chat)
	}
	return out, rows.Err()
}

func (db *DB) BindUser(ctx context.Context, username string, sessionID int64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO user_sessions (username, session_id)
         VALUES ($1, $2)
         ON CONFLICT (username) DO UPDATE SET session_id = EXCLUDED.session_id`,
		username, sessionID,
	)
	return err
}

func (db *DB) SessionForUser(ctx context.Context, username string) (*tab.Session, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT s.id, s.guild_id, s.chat_id, s.created_by, s.service, s.tax, s.is_open, s.board_message_id, s.prompt_message_id
         FROM sessions s
         JOIN user_sessions u ON u.session_id = s.id
         WHERE u.username = $1 AND s.is_open`,
		username,
	)
	return scanSession(row)
}
