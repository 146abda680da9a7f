package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mkaram/tabbot/internal/tab"
)

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "no session",
			err:  tab.ErrNoSession,
			want: "No active session, please start a new one with /start",
		},
		{
			name: "duplicate start",
			err:  tab.ErrSessionExists,
			want: "A session is already started",
		},
		{
			name: "count mismatch carries both counts",
			err:  &tab.CountMismatchError{Expected: 3, Actual: 1},
			want: "Price count mismatch: expected 3 values, got 1",
		},
		{
			name: "unknown errors stay generic",
			err:  errors.New("pool closed"),
			want: "Something went wrong, please try again",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrorMessage(tt.err); got != tt.want {
				t.Errorf("ErrorMessage = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestChunkLines(t *testing.T) {
	content := strings.Repeat("aaaaaaaaa\n", 10)

	chunks := chunkLines(content, 25)
	if len(chunks) < 4 {
		t.Fatalf("got %d chunks, want the content split up", len(chunks))
	}
	for i, chunk := range chunks {
		if len(chunk) > 25 {
			t.Errorf("chunk %d is %d chars, over the limit", i, len(chunk))
		}
	}
	joined := strings.Join(chunks, "\n")
	if strings.Count(joined, "aaaaaaaaa") != 10 {
		t.Errorf("chunks lost lines: %q", joined)
	}
}

func TestFormatBillWithholdsUnpriced(t *testing.T) {
	bill := &tab.Bill{
		Unpriced: []string{"fries", "pizza"},
	}

	out := FormatBill(bill)
	if !strings.Contains(out, "fries") || !strings.Contains(out, "pizza") {
		t.Errorf("unpriced names missing from output: %q", out)
	}
	if strings.Contains(out, "Bill:") {
		t.Errorf("non-final bill must not render totals: %q", out)
	}
}

func TestFormatBillFinal(t *testing.T) {
	d := func(s string) decimal.Decimal {
		v, err := decimal.NewFromString(s)
		if err != nil {
			t.Fatalf("bad decimal %q: %v", s, err)
		}
		return v
	}
	bill := &tab.Bill{
		Final:             true,
		Service:           d("10"),
		Tax:               d("6"),
		NormalizedService: d("5"),
		NormalizedTax:     d("3"),
		Users: []tab.UserTotal{
			{Username: "alice", Net: d("3"), Total: d("11")},
		},
	}

	out := FormatBill(bill)
	if !strings.Contains(out, "alice: 11.00") {
		t.Errorf("alice total missing: %q", out)
	}
	if !strings.Contains(out, "Service total: 10.00") {
		t.Errorf("service total missing: %q", out)
	}
}

func TestFormatUserOrdersEmpty(t *testing.T) {
	out := FormatUserOrders("alice", nil)
	if !strings.Contains(out, "no orders") {
		t.Errorf("empty list message = %q", out)
	}
}
