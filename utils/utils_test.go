package utils

import (
	"testing"
	"time"
)

func TestFormatThousand(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{-1234567, "-1,234,567"},
	}

	for _, tt := range tests {
		if got := FormatThousand(tt.in); got != tt.want {
			t.Errorf("FormatThousand(%d): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestClamp(t *testing.T) {
	if got := Clamp(5, 0, 3); got != 3 {
		t.Errorf("Expected 3, got %d", got)
	}
	if got := Clamp(-1.5, 0, 3); got != 0 {
		t.Errorf("Expected 0, got %v", got)
	}
	if got := Clamp("m", "a", "z"); got != "m" {
		t.Errorf("Expected m, got %q", got)
	}
}

func TestTimeAgo(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		at   time.Time
		want string
	}{
		{time.Time{}, "never"},
		{now.Add(-20 * time.Second), "just now"},
		{now.Add(-5*time.Minute - 10*time.Second), "5m ago"},
		{now.Add(-50 * time.Hour), "2d ago"},
	}

	for _, tt := range tests {
		if got := TimeAgo(tt.at, now); got != tt.want {
			t.Errorf("TimeAgo(%v): expected %q, got %q", tt.at, tt.want, got)
		}
	}
}

func TestEmbedGUID(t *testing.T) {
	if got := EmbedGUID("abc"); got != " (abc)" {
		t.Errorf("Expected %q, got %q", " (abc)", got)
	}
}
