package money

import "testing"

func TestFormat(t *testing.T) {
	tests := []struct {
		amount Cents
		want   string
	}{
		{0, "$0.00"},
		{5, "$0.05"},
		{100, "$1.00"},
		{1234, "$12.34"},
		{10001, "$100.01"},
		{-66, "-$0.66"},
		{-10000, "-$100.00"},
	}

	for _, tt := range tests {
		if got := tt.amount.Format(); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestIsPositive(t *testing.T) {
	if Cents(0).IsPositive() {
		t.Error("0 should not be positive")
	}
	if Cents(-1).IsPositive() {
		t.Error("-1 should not be positive")
	}
	if !Cents(1).IsPositive() {
		t.Error("1 should be positive")
	}
}
