package tab

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Line is one parsed order fragment.
type Line struct {
	Name     string
	Quantity int
	Price    decimal.NullDecimal
}

// SplitFragments splits an order payload on '+' into trimmed fragments.
// Empty fragments are kept so that "coke + + fries" fails validation instead
// of silently dropping the middle piece.
func SplitFragments(payload string) []string {
	parts := strings.Split(payload, "+")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

// ParseFragment turns one fragment into a quantity/name/price line.
//
// Explicit markers win: "Nx" sets the quantity, "$N" sets the unit price.
// Remaining tokens fall back to positional inference: the first bare integer
// is the quantity (unless a marker already set it), a second bare integer is
// the unit price. Everything else joins the name in original order.
func ParseFragment(fragment string) (Line, error) {
	line := Line{Quantity: 1}

	tokens := strings.Fields(fragment)

	// First pass: explicit markers.
	rest := make([]string, 0, len(tokens))
	qtySet := false
	for _, tok := range tokens {
		if isQuantityMarker(tok) {
			line.Quantity = atoiDigits(tok[:len(tok)-1])
			qtySet = true
			continue
		}
		if len(tok) > 1 && tok[0] == '$' {
			if p, err := decimal.NewFromString(tok[1:]); err == nil {
				line.Price = decimal.NullDecimal{Decimal: p.Abs(), Valid: true}
				continue
			}
			// "$something" that isn't a number is just a name token.
		}
		rest = append(rest, tok)
	}

	// Second pass: positional bare integers, the rest is the name.
	var name []string
	for _, tok := range rest {
		switch {
		case allDigits(tok) && !qtySet:
			line.Quantity = atoiDigits(tok)
			qtySet = true
		case allDigits(tok) && !line.Price.Valid:
			line.Price = decimal.NullDecimal{Decimal: decimal.New(int64(atoiDigits(tok)), 0), Valid: true}
		default:
			name = append(name, tok)
		}
	}

	if len(name) == 0 {
		return Line{}, ErrEmptyOrder
	}
	if line.Quantity < 1 {
		line.Quantity = 1
	}
	line.Name = strings.Join(name, " ")
	return line, nil
}

// ParseAll parses every fragment of a payload or none of them.
func ParseAll(payload string) ([]Line, error) {
	fragments := SplitFragments(payload)
	lines := make([]Line, 0, len(fragments))
	for _, f := range fragments {
		line, err := ParseFragment(f)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func isQuantityMarker(tok string) bool {
	return len(tok) > 1 && tok[len(tok)-1] == 'x' && allDigits(tok[:len(tok)-1])
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return len(s) > 0
}

func atoiDigits(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}
