package models

import (
	"errors"
	"testing"
)

func TestParseClockMinutes(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"08:30", 510},
		{"8:30", 510},
		{"08", 480},
		{"0:05", 5},
		{"23:59", 1439},
		{"08 (+1d)", 480 + 1440},
		{"08:00(+1d)", 480 + 1440},
		{"08 (+2d)", 480 + 2880},
		{" 6:15 ", 375},
		// fallback: stray characters around the numeric tokens
		{"ca. 7h 40", 460},
	}

	for _, c := range cases {
		got, err := ParseClockMinutes(c.in)
		if err != nil {
			t.Fatalf("ParseClockMinutes(%q) error: %v", c.in, err)
		}
		if got != c.want {
			t.Fatalf("ParseClockMinutes(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseClockMinutesMalformed(t *testing.T) {
	for _, in := range []string{"", "noon", "--"} {
		_, err := ParseClockMinutes(in)
		if err == nil {
			t.Fatalf("ParseClockMinutes(%q) expected error", in)
		}
		var malformed *MalformedTimeError
		if !errors.As(err, &malformed) {
			t.Fatalf("ParseClockMinutes(%q) error type %T, want MalformedTimeError", in, err)
		}
	}
}

func TestDurationMinutes(t *testing.T) {
	if d := DurationMinutes(480, 720); d != 240 {
		t.Fatalf("same-day duration = %d, want 240", d)
	}
	// 23:00 -> 01:00 crosses midnight
	if d := DurationMinutes(1380, 60); d != 120 {
		t.Fatalf("cross-midnight duration = %d, want 120", d)
	}
	if d := DurationMinutes(600, 600); d != 0 {
		t.Fatalf("zero duration = %d, want 0", d)
	}
	// offsets already encoded: 23:30 -> 00:30(+1d)
	if d := DurationMinutes(1410, 1470); d != 60 {
		t.Fatalf("offset duration = %d, want 60", d)
	}
}

func TestFormatMinutes(t *testing.T) {
	if s := FormatMinutes(510); s != "08:30" {
		t.Fatalf("FormatMinutes(510) = %q", s)
	}
	// day offsets are not shown
	if s := FormatMinutes(1440 + 75); s != "01:15" {
		t.Fatalf("FormatMinutes(1515) = %q", s)
	}
}
