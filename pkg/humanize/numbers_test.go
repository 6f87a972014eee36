package humanize

import "testing"

func TestCompact(t *testing.T) {
	tests := []struct {
		n    uint64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{999, "999"},
		{1000, "1k"},
		{1049, "1k"},
		{1050, "1.1k"},
		{1500, "1.5k"},
		{56000, "56k"},
		{999949, "999.9k"},
		{999950, "1m"}, // rounds up across the unit boundary
		{1000000, "1m"},
		{1500000, "1.5m"},
		{298457123, "298.5m"},
		{999950000, "1b"},
		{1000000000, "1b"},
		{2750000000, "2.8b"},
	}

	for _, tt := range tests {
		if got := Compact(tt.n); got != tt.want {
			t.Errorf("Compact(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
