package schedule

import (
	"strings"
	"testing"

	"railbook/models"
)

func TestEvaluateLayoverBoundaries(t *testing.T) {
	cases := []struct {
		name    string
		arrival int
		gap     int
		policy  LayoverPolicy
		want    bool
	}{
		{"daytime min", 600, 15, PolicyStrict, true},
		{"daytime below min", 600, 14, PolicyStrict, false},
		{"daytime max", 600, 120, PolicyStrict, true},
		{"daytime above max", 600, 121, PolicyStrict, false},
		{"after-hours max", 1380, 30, PolicyStrict, true},
		{"after-hours above max", 1380, 31, PolicyStrict, false},
		{"lenient daytime max", 600, 180, PolicyLenient, true},
		{"lenient daytime above max", 600, 181, PolicyLenient, false},
		{"lenient after-hours unchanged", 1380, 31, PolicyLenient, false},
		// 22:00 itself is after-hours, 06:00 itself is daytime
		{"boundary 22:00", 1320, 45, PolicyStrict, false},
		{"boundary 06:00", 360, 45, PolicyStrict, true},
	}

	for _, c := range cases {
		ok, reason := EvaluateLayover(c.arrival, c.arrival+c.gap, c.policy)
		if ok != c.want {
			t.Fatalf("%s: accepted=%v (%s), want %v", c.name, ok, reason, c.want)
		}
	}
}

func TestEvaluateLayoverReasons(t *testing.T) {
	ok, reason := EvaluateLayover(600, 610, PolicyStrict)
	if ok || !strings.Contains(reason, "too short") {
		t.Fatalf("short layover: accepted=%v reason=%q", ok, reason)
	}

	ok, reason = EvaluateLayover(600, 800, PolicyStrict)
	if ok || !strings.Contains(reason, "too long") || !strings.Contains(reason, "daytime") {
		t.Fatalf("long daytime layover: accepted=%v reason=%q", ok, reason)
	}

	ok, reason = EvaluateLayover(1380, 1425, PolicyStrict)
	if ok || !strings.Contains(reason, "after-hours") {
		t.Fatalf("long after-hours layover: accepted=%v reason=%q", ok, reason)
	}
}

func TestEvaluateLayoverCrossMidnight(t *testing.T) {
	// 23:50 -> 00:10: gap wraps to 20 minutes, within after-hours bounds
	ok, reason := EvaluateLayover(1430, 10, PolicyStrict)
	if !ok {
		t.Fatalf("cross-midnight layover rejected: %s", reason)
	}
}

func TestEvaluateLayoverArrivalWithDayOffset(t *testing.T) {
	// Arrival at 10:00 on day 2 classifies as daytime
	ok, _ := EvaluateLayover(1440+600, 1440+660, PolicyStrict)
	if !ok {
		t.Fatal("daytime arrival on a later day should accept a 60-minute gap")
	}
	// Same clock gap, but 23:00 on day 2 is after-hours
	ok, _ = EvaluateLayover(1440+1380, 1440+1440, PolicyStrict)
	if ok {
		t.Fatal("after-hours arrival on a later day should reject a 60-minute gap")
	}
}

func TestValidateTransfers(t *testing.T) {
	r1 := testRoute(t, "R1", "Paris", "Frankfurt", "08:00", "12:00")
	r2 := testRoute(t, "R2", "Frankfurt", "Munich", "13:00", "15:00")
	r3 := testRoute(t, "R3", "Munich", "Vienna", "19:00", "22:00")

	good := &models.Itinerary{Legs: []models.Leg{{Route: r1}, {Route: r2}}}
	if ok, reason := ValidateTransfers(good, PolicyStrict); !ok {
		t.Fatalf("valid transfer rejected: %s", reason)
	}

	// second transfer waits 4 hours: the failure names transfer 2
	bad := &models.Itinerary{Legs: []models.Leg{{Route: r1}, {Route: r2}, {Route: r3}}}
	ok, reason := ValidateTransfers(bad, PolicyStrict)
	if ok {
		t.Fatal("4-hour daytime transfer should fail strict policy")
	}
	if !strings.HasPrefix(reason, "transfer 2:") {
		t.Fatalf("failure should name transfer 2, got %q", reason)
	}

	direct := &models.Itinerary{Legs: []models.Leg{{Route: r1}}}
	if ok, _ := ValidateTransfers(direct, PolicyStrict); !ok {
		t.Fatal("direct itinerary has no transfers to fail")
	}
}
