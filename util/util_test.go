package util

import (
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	testTime := time.Date(2025, 4, 5, 14, 30, 45, 0, time.UTC)

	// Test cases with different formats
	testCases := []struct {
		name           string
		format         string
		expectedResult string
	}{
		{"RFC3339", time.RFC3339, "2025-04-05T14:30:45Z"},
		{"Simple Date", "2006-01-02", "2025-04-05"},
		{"Time Only", "15:04:05", "14:30:45"},
		{"Date and Time", "2006-01-02 15:04:05", "2025-04-05 14:30:45"},
		{"Kitchen Time", time.Kitchen, "2:30PM"},
		{"Empty Format", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := formatTime(tc.format, testTime)

			if result != tc.expectedResult {
				t.Errorf("formatTime(%q, %v) = %q; want %q",
					tc.format, testTime, result, tc.expectedResult)
			}
		})
	}
}

func TestIsEmail(t *testing.T) {
	testCases := []struct {
		value string
		want  bool
	}{
		{"citizen@example.com", true},
		{"first.last+tag@sub.example.org", true},
		{"not-an-email", false},
		{"", false},
		{"@example.com", false},
	}

	for _, tc := range testCases {
		if got := IsEmail(tc.value); got != tc.want {
			t.Errorf("IsEmail(%q) = %v; want %v", tc.value, got, tc.want)
		}
	}
}

func TestShortID(t *testing.T) {
	id := ShortID()
	if len(id) != 8 {
		t.Errorf("ShortID() = %q; want 8 characters", id)
	}
	if id == ShortID() {
		t.Error("consecutive ShortID() calls returned the same value")
	}
}
