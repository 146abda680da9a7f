package tab

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Session is one active group ordering round, scoped to a channel.
type Session struct {
	ID              int64
	GuildID         string
	ChatID          string
	CreatedBy       string
	Service         decimal.Decimal
	Tax             decimal.Decimal
	Open            bool
	BoardMessageID  string
	PromptMessageID string
}

// Item is one (session, user, order name) row. Repeated mentions of the same
// name by the same user accumulate into the quantity; Price stays unset until
// somebody assigns it.
type Item struct {
	SessionID int64
	Username  string
	Name      string
	Quantity  int
	Price     decimal.NullDecimal
	MessageID string
}

var (
	ErrNoSession     = errors.New("no active session")
	ErrSessionExists = errors.New("session already started")
	ErrEmptyOrder    = errors.New("invalid order")
	ErrBadNumber     = errors.New("invalid number")
)

// CountMismatchError reports a bulk price reply whose value count does not
// match the number of unpriced order names.
type CountMismatchError struct {
	Expected int
	Actual   int
}

func (e *CountMismatchError) Error() string {
	return fmt.Sprintf("expected %d prices, got %d", e.Expected, e.Actual)
}

// Store is the persistence contract the service runs on. The pg
// implementation lives in internal/db; memstore.go has the in-memory one.
type Store interface {
	CreateSession(ctx context.Context, guildID, chatID, createdBy string) (*Session, error)
	SessionByChat(ctx context.Context, chatID string) (*Session, error)
	SessionsByGuild(ctx context.Context, guildID string) ([]*Session, error)
	GuildsWithSessions(ctx context.Context) ([]string, error)
	DeleteSession(ctx context.Context, sessionID int64) error
	SetServiceCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error
	SetTaxCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error
	SetBoardMessage(ctx context.Context, sessionID int64, messageID string) error
	SetPromptMessage(ctx context.Context, sessionID int64, messageID string) error

	Items(ctx context.Context, sessionID int64) ([]Item, error)
	UserItems(ctx context.Context, sessionID int64, username string) ([]Item, error)
	GetItem(ctx context.Context, sessionID int64, username, name string) (*Item, error)
	InsertItem(ctx context.Context, item *Item) error
	AddQuantity(ctx context.Context, sessionID int64, username, name string, delta int) error
	DeleteItem(ctx context.Context, sessionID int64, username, name string) error
	SetPriceByName(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error
	BackfillPrice(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error
	KnownPrice(ctx context.Context, sessionID int64, name string) (decimal.NullDecimal, error)
	DistinctNames(ctx context.Context, sessionID int64) ([]string, error)
	UnpricedChats(ctx context.Context) ([]string, error)

	BindUser(ctx context.Context, username string, sessionID int64) error
	SessionForUser(ctx context.Context, username string) (*Session, error)
}
