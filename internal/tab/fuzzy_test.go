package tab

import "testing"

func TestMatcherNormalize(t *testing.T) {
	m := NewMatcher(0.6)

	tests := []struct {
		name  string
		input string
		vocab []string
		want  string
	}{
		{
			name:  "typo resolves to existing name",
			input: "frie",
			vocab: []string{"fries"},
			want:  "fries",
		},
		{
			name:  "unrelated word left unchanged",
			input: "pizza",
			vocab: []string{"fries"},
			want:  "pizza",
		},
		{
			name:  "exact match short circuits",
			input: "fries",
			vocab: []string{"fries", "friesx"},
			want:  "fries",
		},
		{
			name:  "empty vocabulary keeps candidate verbatim",
			input: "frie",
			vocab: nil,
			want:  "frie",
		},
		{
			name:  "per word matching inside a phrase",
			input: "chickn burger",
			vocab: []string{"chicken shawarma", "beef burger"},
			want:  "chicken burger",
		},
		{
			name:  "case sensitive equality",
			input: "Fries",
			vocab: []string{"fries"},
			want:  "fries", // close enough by distance even though case differs
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := m.Normalize(tt.input, tt.vocab); got != tt.want {
				t.Errorf("Normalize(%q, %v) = %q, want %q", tt.input, tt.vocab, got, tt.want)
			}
		})
	}
}

func TestMatcherThreshold(t *testing.T) {
	// A stricter threshold refuses the frie -> fries merge.
	strict := NewMatcher(0.95)
	if got := strict.Normalize("frie", []string{"fries"}); got != "frie" {
		t.Errorf("strict matcher rewrote %q to %q", "frie", got)
	}

	// Out-of-range thresholds fall back to the default.
	m := NewMatcher(0)
	if got := m.Normalize("frie", []string{"fries"}); got != "fries" {
		t.Errorf("default threshold should merge frie into fries, got %q", got)
	}
}

func TestSimilarity(t *testing.T) {
	if r := similarity("fries", "fries"); r != 1 {
		t.Errorf("identical words score %v, want 1", r)
	}
	if r := similarity("frie", "fries"); r < 0.6 {
		t.Errorf("frie/fries score %v, want >= 0.6", r)
	}
	if r := similarity("pizza", "fries"); r >= 0.6 {
		t.Errorf("pizza/fries score %v, want < 0.6", r)
	}
}
