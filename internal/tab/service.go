package tab

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Service owns session lifecycle and the order ledger. All command handlers
// go through here; persistence sits behind the Store interface.
type Service struct {
	store      Store
	matcher    *Matcher
	resolution decimal.Decimal
}

func NewService(store Store, threshold float64, resolution decimal.Decimal) *Service {
	return &Service{
		store:      store,
		matcher:    NewMatcher(threshold),
		resolution: resolution,
	}
}

// Start opens a session for the chat. A second start for the same chat loses
// the race on the store's uniqueness guarantee and gets ErrSessionExists.
func (s *Service) Start(ctx context.Context, guildID, chatID, createdBy string) (*Session, error) {
	return s.store.CreateSession(ctx, guildID, chatID, createdBy)
}

// End closes the chat's session, cascading away its orders and user bindings.
func (s *Service) End(ctx context.Context, chatID string) error {
	sess, err := s.store.SessionByChat(ctx, chatID)
	if err != nil {
		return err
	}
	return s.store.DeleteSession(ctx, sess.ID)
}

// ActiveSession is the explicit session guard: every order or bill command
// resolves through it and reports ErrNoSession when nothing is open.
func (s *Service) ActiveSession(ctx context.Context, chatID string) (*Session, error) {
	return s.store.SessionByChat(ctx, chatID)
}

// resolve finds the session a command targets: by chat when the command came
// from a channel, by the user's binding when it came from a DM.
func (s *Service) resolve(ctx context.Context, chatID, username string) (*Session, error) {
	if chatID != "" {
		return s.store.SessionByChat(ctx, chatID)
	}
	return s.store.SessionForUser(ctx, username)
}

// AddOrders parses a '+'-delimited payload and applies every fragment, or
// none: parsing happens up front so a bad fragment rejects the whole command
// without partial writes. Names are fuzzy-normalized against the session
// vocabulary first, and prices backfill across users sharing the name.
func (s *Service) AddOrders(ctx context.Context, chatID, username, payload, messageID string) ([]Line, error) {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return nil, err
	}

	lines, err := ParseAll(payload)
	if err != nil {
		return nil, err
	}

	vocab, err := s.store.DistinctNames(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	for i := range lines {
		line := &lines[i]
		line.Name = s.matcher.Normalize(line.Name, vocab)
		// Later fragments of the same command match against earlier ones too.
		vocab = append(vocab, line.Name)

		if err := s.applyLine(ctx, sess.ID, username, *line, messageID); err != nil {
			return nil, err
		}
	}

	if err := s.store.BindUser(ctx, username, sess.ID); err != nil {
		return nil, err
	}
	return lines, nil
}

func (s *Service) applyLine(ctx context.Context, sessionID int64, username string, line Line, messageID string) error {
	price := line.Price
	if !price.Valid {
		known, err := s.store.KnownPrice(ctx, sessionID, line.Name)
		if err != nil {
			return err
		}
		price = known
	}

	existing, err := s.store.GetItem(ctx, sessionID, username, line.Name)
	if err != nil {
		return err
	}

	if existing == nil {
		err = s.store.InsertItem(ctx, &Item{
			SessionID: sessionID,
			Username:  username,
			Name:      line.Name,
			Quantity:  line.Quantity,
			Price:     price,
			MessageID: messageID,
		})
	} else {
		err = s.store.AddQuantity(ctx, sessionID, username, line.Name, line.Quantity)
	}
	if err != nil {
		return err
	}

	// A price carried by this fragment reaches every same-name row that is
	// still unpriced, not just this user's.
	if line.Price.Valid {
		return s.store.BackfillPrice(ctx, sessionID, line.Name, line.Price.Decimal)
	}
	if existing != nil && !existing.Price.Valid && price.Valid {
		return s.store.BackfillPrice(ctx, sessionID, line.Name, price.Decimal)
	}
	return nil
}

// RemoveOrders decrements quantities from the user's rows; a decrement to or
// past zero deletes the row. Fragments naming nothing the user ordered are
// ignored, matching how people retract things they never added.
func (s *Service) RemoveOrders(ctx context.Context, chatID, username, payload string) error {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return err
	}

	lines, err := ParseAll(payload)
	if err != nil {
		return err
	}

	vocab, err := s.store.DistinctNames(ctx, sess.ID)
	if err != nil {
		return err
	}

	for _, line := range lines {
		name := s.matcher.Normalize(line.Name, vocab)
		qty := line.Quantity
		if qty < 0 {
			qty = -qty
		}

		existing, err := s.store.GetItem(ctx, sess.ID, username, name)
		if err != nil {
			return err
		}
		if existing == nil {
			continue
		}
		if qty >= existing.Quantity {
			if err := s.store.DeleteItem(ctx, sess.ID, username, name); err != nil {
				return err
			}
			continue
		}
		if err := s.store.AddQuantity(ctx, sess.ID, username, name, -qty); err != nil {
			return err
		}
	}
	return nil
}

// SetPrices applies a "name = price, name = price" batch across all users'
// rows for each name. Every value is validated before anything is written;
// negative prices are recorded as their absolute value. Returns the names
// that were assigned.
func (s *Service) SetPrices(ctx context.Context, chatID, username, payload string) ([]string, error) {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return nil, err
	}

	type assignment struct {
		name  string
		price decimal.Decimal
	}
	var batch []assignment
	for _, part := range strings.Split(payload, ",") {
		name, raw, ok := strings.Cut(part, "=")
		name = strings.TrimSpace(name)
		raw = strings.TrimSpace(raw)
		if !ok || name == "" {
			return nil, ErrEmptyOrder
		}
		price, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, ErrBadNumber
		}
		batch = append(batch, assignment{name: name, price: price.Abs()})
	}

	vocab, err := s.store.DistinctNames(ctx, sess.ID)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, a := range batch {
		name := s.matcher.Normalize(a.name, vocab)
		if err := s.store.SetPriceByName(ctx, sess.ID, name, a.price); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, nil
}

// AssignPrices consumes a bulk price reply: one value per unpriced order
// name, matched positionally against the sorted unpriced list. The counts
// must agree or nothing is written.
func (s *Service) AssignPrices(ctx context.Context, chatID string, values []string) error {
	sess, err := s.store.SessionByChat(ctx, chatID)
	if err != nil {
		return err
	}

	unpriced, err := s.UnpricedNames(ctx, chatID)
	if err != nil {
		return err
	}
	if len(values) != len(unpriced) {
		return &CountMismatchError{Expected: len(unpriced), Actual: len(values)}
	}

	prices := make([]decimal.Decimal, len(values))
	for i, raw := range values {
		p, err := decimal.NewFromString(strings.TrimSpace(raw))
		if err != nil {
			return ErrBadNumber
		}
		prices[i] = p.Abs()
	}

	for i, name := range unpriced {
		if err := s.store.SetPriceByName(ctx, sess.ID, name, prices[i]); err != nil {
			return err
		}
	}
	return nil
}

// SetServiceCharge records the session-wide service charge.
func (s *Service) SetServiceCharge(ctx context.Context, chatID, raw string) error {
	sess, v, err := s.sessionAndAmount(ctx, chatID, raw)
	if err != nil {
		return err
	}
	return s.store.SetServiceCharge(ctx, sess.ID, v)
}

// SetTaxCharge records the session-wide tax charge.
func (s *Service) SetTaxCharge(ctx context.Context, chatID, raw string) error {
	sess, v, err := s.sessionAndAmount(ctx, chatID, raw)
	if err != nil {
		return err
	}
	return s.store.SetTaxCharge(ctx, sess.ID, v)
}

func (s *Service) sessionAndAmount(ctx context.Context, chatID, raw string) (*Session, decimal.Decimal, error) {
	sess, err := s.store.SessionByChat(ctx, chatID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	v, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, decimal.Zero, ErrBadNumber
	}
	return sess, v.Abs(), nil
}

// UserOrders lists one user's rows.
func (s *Service) UserOrders(ctx context.Context, chatID, username string) ([]Item, error) {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return nil, err
	}
	return s.store.UserItems(ctx, sess.ID, username)
}

// AllOrders lists the session's rows grouped per order name.
func (s *Service) AllOrders(ctx context.Context, chatID string) ([]NameSummary, error) {
	return s.AllOrdersFor(ctx, chatID, "")
}

// AllOrdersFor is AllOrders with DM resolution through the user's binding.
func (s *Service) AllOrdersFor(ctx context.Context, chatID, username string) ([]NameSummary, error) {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return GroupByName(items), nil
}

// Bill computes the split for the chat's session.
func (s *Service) Bill(ctx context.Context, chatID, username string) (*Bill, error) {
	sess, err := s.resolve(ctx, chatID, username)
	if err != nil {
		return nil, err
	}
	items, err := s.store.Items(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	return ComputeBill(items, sess.Service, sess.Tax, s.resolution), nil
}

// UnpricedNames returns the sorted order names still missing a price.
func (s *Service) UnpricedNames(ctx context.Context, chatID string) ([]string, error) {
	bill, err := s.Bill(ctx, chatID, "")
	if err != nil {
		return nil, err
	}
	return bill.Unpriced, nil
}

// UnpricedChats lists chats whose open session still has unpriced orders,
// for the nudge worker.
func (s *Service) UnpricedChats(ctx context.Context) ([]string, error) {
	return s.store.UnpricedChats(ctx)
}

// SessionsByGuild lists open sessions for a guild, for the web view.
func (s *Service) SessionsByGuild(ctx context.Context, guildID string) ([]*Session, error) {
	return s.store.SessionsByGuild(ctx, guildID)
}

// GuildsWithSessions lists guild IDs that have an open session.
func (s *Service) GuildsWithSessions(ctx context.Context) ([]string, error) {
	return s.store.GuildsWithSessions(ctx)
}

// SetBoardMessage remembers the live order board message for the session.
func (s *Service) SetBoardMessage(ctx context.Context, chatID, messageID string) error {
	sess, err := s.store.SessionByChat(ctx, chatID)
	if err != nil {
		return err
	}
	return s.store.SetBoardMessage(ctx, sess.ID, messageID)
}

// SetPromptMessage remembers the price prompt message for the session.
func (s *Service) SetPromptMessage(ctx context.Context, chatID, messageID string) error {
	sess, err := s.store.SessionByChat(ctx, chatID)
	if err != nil {
		return err
	}
	return s.store.SetPromptMessage(ctx, sess.ID, messageID)
}

// FormatLines renders parsed lines back to a short confirmation, e.g.
// "2x coke, fries".
func FormatLines(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, l := range lines {
		if l.Quantity > 1 {
			parts = append(parts, fmt.Sprintf("%dx %s", l.Quantity, l.Name))
		} else {
			parts = append(parts, l.Name)
		}
	}
	return strings.Join(parts, ", ")
}
