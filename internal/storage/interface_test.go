package storage

import "testing"

func TestPercent(t *testing.T) {
	tests := []struct {
		done, total int
		want        int
	}{
		{0, 0, 0},
		{3, 6, 50},
		{6, 6, 100},
		{1, 3, 33},
		{2, 3, 67},
		{1, 8, 13}, // 12.5 rounds half away from zero
		{7, 6, 100},
		{-1, 4, 0},
	}

	for _, tt := range tests {
		if got := Percent(tt.done, tt.total); got != tt.want {
			t.Errorf("Percent(%d, %d) = %d, want %d", tt.done, tt.total, got, tt.want)
		}
	}
}
