package log

import "testing"

func TestHeight(t *testing.T) {
	tests := []struct {
		screen int
		want   int
	}{
		{12, 4},
		{24, 8},
		{30, 10},
		{80, 10},
	}
	for _, tt := range tests {
		if got := Height(tt.screen); got != tt.want {
			t.Errorf("Height(%d) = %d, want %d", tt.screen, got, tt.want)
		}
	}
}

func TestStatus(t *testing.T) {
	tests := []struct {
		lines, rows int
		scrolled    float64
		want        string
	}{
		{0, 5, 0, ""},
		{1, 5, 0, " 1 line"},
		{3, 5, 0, " 3 lines"},
		{20, 5, 0.5, " 20 lines [50%]"},
	}
	for _, tt := range tests {
		if got := status(tt.lines, tt.rows, tt.scrolled); got != tt.want {
			t.Errorf("status(%d, %d, %v) = %q, want %q", tt.lines, tt.rows, tt.scrolled, got, tt.want)
		}
	}
}
