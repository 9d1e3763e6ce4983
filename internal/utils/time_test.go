package utils

import (
	"testing"
	"time"
)

func TestParseTimeToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"09:00", 540},
		{"12:30", 750},
		{"23:59", 1439},
	}
	for _, tc := range tests {
		got, err := ParseTimeToMinutes(tc.in)
		if err != nil {
			t.Errorf("ParseTimeToMinutes(%q) failed: %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ParseTimeToMinutes(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}

	for _, bad := range []string{"", "24:00", "12:60", "noon"} {
		if _, err := ParseTimeToMinutes(bad); err == nil {
			t.Errorf("ParseTimeToMinutes(%q) should fail", bad)
		}
	}
}

func TestMinuteOfDay(t *testing.T) {
	now := time.Date(2026, 9, 1, 10, 30, 45, 0, time.UTC)
	if got := MinuteOfDay(now); got != 630 {
		t.Errorf("MinuteOfDay(10:30:45) = %d, want 630", got)
	}
}

func TestValidateTimeFormat(t *testing.T) {
	if !ValidateTimeFormat("18:05") {
		t.Error("ValidateTimeFormat(18:05) = false, want true")
	}
	if ValidateTimeFormat("18:5") {
		t.Error("ValidateTimeFormat(18:5) = true, want false")
	}
}
