package tab

import (
	"sort"

	"github.com/shopspring/decimal"
)

// UserShare is one user's share of a grouped order name.
type UserShare struct {
	Username string
	Quantity int
}

// NameSummary aggregates one order name across all users.
type NameSummary struct {
	Name     string
	Quantity int
	Price    decimal.NullDecimal
	Users    []UserShare
}

// UserTotal is one user's slice of the bill.
type UserTotal struct {
	Username string
	Net      decimal.Decimal
	Total    decimal.Decimal
}

// Bill is the computed split of a session. While Unpriced is non-empty the
// bill is not final: nets cover only priced rows and the caller is expected
// to prompt for the missing prices.
type Bill struct {
	Users             []UserTotal
	Service           decimal.Decimal
	Tax               decimal.Decimal
	NormalizedService decimal.Decimal
	NormalizedTax     decimal.Decimal
	Unpriced          []string
	Final             bool
}

// GroupByName groups items per order name: total quantity, the first known
// price, and the per-user breakdown. Output is sorted by name.
func GroupByName(items []Item) []NameSummary {
	byName := make(map[string]*NameSummary)
	var order []string
	for _, it := range items {
		sum, ok := byName[it.Name]
		if !ok {
			sum = &NameSummary{Name: it.Name}
			byName[it.Name] = sum
			order = append(order, it.Name)
		}
		sum.Quantity += it.Quantity
		if !sum.Price.Valid && it.Price.Valid {
			sum.Price = it.Price
		}
		sum.Users = append(sum.Users, UserShare{Username: it.Username, Quantity: it.Quantity})
	}

	sort.Strings(order)
	out := make([]NameSummary, 0, len(order))
	for _, name := range order {
		out = append(out, *byName[name])
	}
	return out
}

// ComputeBill computes per-user nets and distributes the session's service
// and tax charges evenly across the distinct users that ordered anything.
// A resolution > 0 rounds each displayed total to that payable unit.
func ComputeBill(items []Item, service, tax, resolution decimal.Decimal) *Bill {
	bill := &Bill{Service: service, Tax: tax}

	nets := make(map[string]decimal.Decimal)
	var users []string
	unpriced := make(map[string]struct{})
	for _, it := range items {
		if _, ok := nets[it.Username]; !ok {
			nets[it.Username] = decimal.Zero
			users = append(users, it.Username)
		}
		if !it.Price.Valid {
			unpriced[it.Name] = struct{}{}
			continue
		}
		line := it.Price.Decimal.Mul(decimal.New(int64(it.Quantity), 0))
		nets[it.Username] = nets[it.Username].Add(line)
	}

	if n := len(users); n > 0 {
		divisor := decimal.New(int64(n), 0)
		bill.NormalizedService = service.Div(divisor)
		bill.NormalizedTax = tax.Div(divisor)
	}

	for name := range unpriced {
		bill.Unpriced = append(bill.Unpriced, name)
	}
	sort.Strings(bill.Unpriced)
	bill.Final = len(bill.Unpriced) == 0

	sort.Strings(users)
	extra := bill.NormalizedService.Add(bill.NormalizedTax)
	for _, u := range users {
		total := nets[u].Add(extra)
		if resolution.IsPositive() {
			total = RoundTo(total, resolution)
		}
		bill.Users = append(bill.Users, UserTotal{Username: u, Net: nets[u], Total: total})
	}
	return bill
}

// RoundTo rounds v to the nearest multiple of resolution, e.g. nearest 0.25.
func RoundTo(v, resolution decimal.Decimal) decimal.Decimal {
	if !resolution.IsPositive() {
		return v
	}
	return v.Div(resolution).Round(0).Mul(resolution)
}
