package tab

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// MemStore is a map-backed Store. It backs the core tests and doubles as the
// reference semantics for the pg implementation, including the single
// open-session-per-chat constraint and cascade deletes.
type MemStore struct {
	mu       sync.Mutex
	nextID   int64
	sessions map[int64]*Session
	items    map[int64][]*Item
	users    map[string]int64
}

func NewMemStore() *MemStore {
	return &MemStore{
		nextID:   1,
		sessions: make(map[int64]*Session),
		items:    make(map[int64][]*Item),
		users:    make(map[string]int64),
	}
}

func (m *MemStore) CreateSession(ctx context.Context, guildID, chatID, createdBy string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.ChatID == chatID && sess.Open {
			return nil, ErrSessionExists
		}
	}
	sess := &Session{
		ID:        m.nextID,
		GuildID:   guildID,
		ChatID:    chatID,
		CreatedBy: createdBy,
		Open:      true,
	}
	m.nextID++
	m.sessions[sess.ID] = sess
	return copySession(sess), nil
}

func (m *MemStore) SessionByChat(ctx context.Context, chatID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, sess := range m.sessions {
		if sess.ChatID == chatID && sess.Open {
			return copySession(sess), nil
		}
	}
	return nil, ErrNoSession
}

func (m *MemStore) SessionsByGuild(ctx context.Context, guildID string) ([]*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Session
	for _, sess := range m.sessions {
		if sess.GuildID == guildID && sess.Open {
			out = append(out, copySession(sess))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) GuildsWithSessions(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, sess := range m.sessions {
		if !sess.Open {
			continue
		}
		if _, ok := seen[sess.GuildID]; ok {
			continue
		}
		seen[sess.GuildID] = struct{}{}
		out = append(out, sess.GuildID)
	}
	sort.Strings(out)
	return out, nil
}

// DeleteSession removes the session and cascades to its items and bindings.
func (m *MemStore) DeleteSession(ctx context.Context, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[sessionID]; !ok {
		return ErrNoSession
	}
	delete(m.sessions, sessionID)
	delete(m.items, sessionID)
	for user, id := range m.users {
		if id == sessionID {
			delete(m.users, user)
		}
	}
	return nil
}

func (m *MemStore) SetServiceCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error {
	return m.mutateSession(sessionID, func(s *Session) { s.Service = v })
}

func (m *MemStore) SetTaxCharge(ctx context.Context, sessionID int64, v decimal.Decimal) error {
	return m.mutateSession(sessionID, func(s *Session) { s.Tax = v })
}

func (m *MemStore) SetBoardMessage(ctx context.Context, sessionID int64, messageID string) error {
	return m.mutateSession(sessionID, func(s *Session) { s.BoardMessageID = messageID })
}

func (m *MemStore) SetPromptMessage(ctx context.Context, sessionID int64, messageID string) error {
	return m.mutateSession(sessionID, func(s *Session) { s.PromptMessageID = messageID })
}

func (m *MemStore) mutateSession(sessionID int64, fn func(*Session)) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[sessionID]
	if !ok {
		return ErrNoSession
	}
	fn(sess)
	return nil
}

func (m *MemStore) Items(ctx context.Context, sessionID int64) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Item
	for _, it := range m.items[sessionID] {
		out = append(out, *it)
	}
	return out, nil
}

func (m *MemStore) UserItems(ctx context.Context, sessionID int64, username string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Item
	for _, it := range m.items[sessionID] {
		if it.Username == username {
			out = append(out, *it)
		}
	}
	return out, nil
}

func (m *MemStore) GetItem(ctx context.Context, sessionID int64, username, name string) (*Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.find(sessionID, username, name); it != nil {
		cp := *it
		return &cp, nil
	}
	return nil, nil
}

func (m *MemStore) InsertItem(ctx context.Context, item *Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *item
	m.items[item.SessionID] = append(m.items[item.SessionID], &cp)
	return nil
}

func (m *MemStore) AddQuantity(ctx context.Context, sessionID int64, username, name string, delta int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if it := m.find(sessionID, username, name); it != nil {
		it.Quantity += delta
	}
	return nil
}

func (m *MemStore) DeleteItem(ctx context.Context, sessionID int64, username, name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	items := m.items[sessionID]
	for i, it := range items {
		if it.Username == username && it.Name == name {
			m.items[sessionID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *MemStore) SetPriceByName(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[sessionID] {
		if it.Name == name {
			it.Price = decimal.NullDecimal{Decimal: price, Valid: true}
		}
	}
	return nil
}

func (m *MemStore) BackfillPrice(ctx context.Context, sessionID int64, name string, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[sessionID] {
		if it.Name == name && !it.Price.Valid {
			it.Price = decimal.NullDecimal{Decimal: price, Valid: true}
		}
	}
	return nil
}

func (m *MemStore) KnownPrice(ctx context.Context, sessionID int64, name string) (decimal.NullDecimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, it := range m.items[sessionID] {
		if it.Name == name && it.Price.Valid {
			return it.Price, nil
		}
	}
	return decimal.NullDecimal{}, nil
}

func (m *MemStore) DistinctNames(ctx context.Context, sessionID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	seen := make(map[string]struct{})
	var out []string
	for _, it := range m.items[sessionID] {
		if _, ok := seen[it.Name]; ok {
			continue
		}
		seen[it.Name] = struct{}{}
		out = append(out, it.Name)
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemStore) UnpricedChats(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for id, sess := range m.sessions {
		if !sess.Open {
			continue
		}
		for _, it := range m.items[id] {
			if !it.Price.Valid {
				out = append(out, sess.ChatID)
				break
			}
		}
	}
	sort.Strings(out)
	return out, nil
}

func (m *MemStore) BindUser(ctx context.Context, username string, sessionID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.users[username] = sessionID
	return nil
}

func (m *MemStore) SessionForUser(ctx context.Context, username string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, ok := m.users[username]
	if !ok {
		return nil, ErrNoSession
	}
	sess, ok := m.sessions[id]
	if !ok || !sess.Open {
		return nil, ErrNoSession
	}
	return copySession(sess), nil
}

func (m *MemStore) find(sessionID int64, username, name string) *Item {
	for _, it := range m.items[sessionID] {
		if it.Username == username && it.Name == name {
			return it
		}
	}
	return nil
}

func copySession(s *Session) *Session {
	cp := *s
	return &cp
}
