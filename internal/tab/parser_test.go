package tab

import (
	"testing"
)

func TestParseFragment(t *testing.T) {
	tests := []struct {
		name      string
		fragment  string
		wantQty   int
		wantName  string
		wantPrice string // "" means no price
		wantErr   bool
	}{
		{
			name:     "bare name defaults to quantity 1",
			fragment: "coke",
			wantQty:  1,
			wantName: "coke",
		},
		{
			name:     "leading integer is quantity",
			fragment: "2 coke",
			wantQty:  2,
			wantName: "coke",
		},
		{
			name:     "multi word name keeps order",
			fragment: "3 chicken burger",
			wantQty:  3,
			wantName: "chicken burger",
		},
		{
			name:      "second bare integer is unit price",
			fragment:  "2 pizza 9",
			wantQty:   2,
			wantName:  "pizza",
			wantPrice: "9",
		},
		{
			name:     "Nx marker sets quantity",
			fragment: "fries 3x",
			wantQty:  3,
			wantName: "fries",
		},
		{
			name:      "dollar marker sets price anywhere",
			fragment:  "$4 fries",
			wantQty:   1,
			wantName:  "fries",
			wantPrice: "4",
		},
		{
			name:      "dollar marker with decimals",
			fragment:  "coke $1.5",
			wantQty:   1,
			wantName:  "coke",
			wantPrice: "1.5",
		},
		{
			name:      "markers and positional mix",
			fragment:  "2x $3 shawarma",
			wantQty:   2,
			wantName:  "shawarma",
			wantPrice: "3",
		},
		{
			name:      "explicit marker wins over bare integer",
			fragment:  "5 2x pizza",
			wantQty:   2,
			wantName:  "pizza",
			wantPrice: "5",
		},
		{
			name:     "non numeric dollar token stays in the name",
			fragment: "2 $pecial sauce",
			wantQty:  2,
			wantName: "$pecial sauce",
		},
		{
			name:     "quantity only fragment is invalid",
			fragment: "3",
			wantErr:  true,
		},
		{
			name:     "empty fragment is invalid",
			fragment: "",
			wantErr:  true,
		},
		{
			name:     "markers without a name are invalid",
			fragment: "2x $3",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, err := ParseFragment(tt.fragment)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFragment(%q) expected error, got %+v", tt.fragment, line)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFragment(%q) unexpected error: %v", tt.fragment, err)
			}
			if line.Quantity != tt.wantQty {
				t.Errorf("quantity = %d, want %d", line.Quantity, tt.wantQty)
			}
			if line.Name != tt.wantName {
				t.Errorf("name = %q, want %q", line.Name, tt.wantName)
			}
			if tt.wantPrice == "" {
				if line.Price.Valid {
					t.Errorf("price = %s, want unset", line.Price.Decimal)
				}
			} else {
				if !line.Price.Valid {
					t.Fatalf("price unset, want %s", tt.wantPrice)
				}
				if line.Price.Decimal.String() != tt.wantPrice {
					t.Errorf("price = %s, want %s", line.Price.Decimal, tt.wantPrice)
				}
			}
		})
	}
}

func TestParseAllAtomicity(t *testing.T) {
	lines, err := ParseAll("2 coke + fries")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	// One bad fragment rejects the whole payload.
	if _, err := ParseAll("2 coke + 3 + fries"); err == nil {
		t.Fatal("expected error for payload with an empty-name fragment")
	}
	if _, err := ParseAll("coke + + fries"); err == nil {
		t.Fatal("expected error for payload with an empty fragment")
	}
}
