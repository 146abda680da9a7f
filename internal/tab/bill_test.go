package tab

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func priced(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestGroupByName(t *testing.T) {
	items := []Item{
		{Username: "alice", Name: "coke", Quantity: 2, Price: priced("1.5")},
		{Username: "bob", Name: "coke", Quantity: 1},
		{Username: "bob", Name: "fries", Quantity: 3},
	}

	got := GroupByName(items)
	if len(got) != 2 {
		t.Fatalf("got %d summaries, want 2", len(got))
	}

	coke := got[0]
	if coke.Name != "coke" || coke.Quantity != 3 {
		t.Errorf("coke summary = %+v", coke)
	}
	if !coke.Price.Valid || !coke.Price.Decimal.Equal(dec("1.5")) {
		t.Errorf("coke price = %+v, want 1.5", coke.Price)
	}
	if len(coke.Users) != 2 {
		t.Errorf("coke has %d user shares, want 2", len(coke.Users))
	}

	fries := got[1]
	if fries.Name != "fries" || fries.Quantity != 3 || fries.Price.Valid {
		t.Errorf("fries summary = %+v", fries)
	}
}

func TestComputeBillNormalization(t *testing.T) {
	items := []Item{
		{Username: "alice", Name: "coke", Quantity: 2, Price: priced("1.5")},
		{Username: "bob", Name: "coke", Quantity: 1, Price: priced("1.5")},
	}

	bill := ComputeBill(items, dec("10"), dec("6"), decimal.Zero)
	if !bill.Final {
		t.Fatalf("bill not final: %+v", bill)
	}
	if !bill.NormalizedService.Equal(dec("5")) || !bill.NormalizedTax.Equal(dec("3")) {
		t.Errorf("normalized charges = %s / %s, want 5 / 3", bill.NormalizedService, bill.NormalizedTax)
	}

	if len(bill.Users) != 2 {
		t.Fatalf("got %d user totals, want 2", len(bill.Users))
	}
	alice, bob := bill.Users[0], bill.Users[1]
	if alice.Username != "alice" || !alice.Net.Equal(dec("3")) || !alice.Total.Equal(dec("11")) {
		t.Errorf("alice = %+v", alice)
	}
	if bob.Username != "bob" || !bob.Net.Equal(dec("1.5")) || !bob.Total.Equal(dec("9.5")) {
		t.Errorf("bob = %+v", bob)
	}
}

func TestComputeBillUnpriced(t *testing.T) {
	items := []Item{
		{Username: "alice", Name: "coke", Quantity: 1, Price: priced("1.5")},
		{Username: "alice", Name: "fries", Quantity: 1},
		{Username: "bob", Name: "pizza", Quantity: 2},
	}

	bill := ComputeBill(items, decimal.Zero, decimal.Zero, decimal.Zero)
	if bill.Final {
		t.Fatal("bill with unpriced rows must not be final")
	}
	want := []string{"fries", "pizza"}
	if len(bill.Unpriced) != len(want) {
		t.Fatalf("unpriced = %v, want %v", bill.Unpriced, want)
	}
	for i := range want {
		if bill.Unpriced[i] != want[i] {
			t.Fatalf("unpriced = %v, want %v", bill.Unpriced, want)
		}
	}
}

func TestComputeBillNoUsers(t *testing.T) {
	bill := ComputeBill(nil, dec("10"), dec("6"), decimal.Zero)
	if !bill.NormalizedService.IsZero() || !bill.NormalizedTax.IsZero() {
		t.Errorf("empty session must not divide charges: %+v", bill)
	}
	if !bill.Final {
		t.Error("empty session bill should be final")
	}
}

func TestRoundTo(t *testing.T) {
	tests := []struct {
		value, resolution, want string
	}{
		{"10.10", "0.25", "10"},
		{"10.13", "0.25", "10.25"},
		{"10.375", "0.25", "10.5"},
		{"7.3", "0.5", "7.5"},
		{"7.3", "0", "7.3"},
	}
	for _, tt := range tests {
		got := RoundTo(dec(tt.value), dec(tt.resolution))
		if !got.Equal(dec(tt.want)) {
			t.Errorf("RoundTo(%s, %s) = %s, want %s", tt.value, tt.resolution, got, tt.want)
		}
	}
}

func TestComputeBillRoundsTotals(t *testing.T) {
	items := []Item{
		{Username: "alice", Name: "coke", Quantity: 1, Price: priced("1.1")},
	}
	bill := ComputeBill(items, decimal.Zero, decimal.Zero, dec("0.25"))
	if !bill.Users[0].Total.Equal(dec("1")) {
		t.Errorf("total = %s, want 1", bill.Users[0].Total)
	}
	if !bill.Users[0].Net.Equal(dec("1.1")) {
		t.Errorf("net should stay unrounded, got %s", bill.Users[0].Net)
	}
}
