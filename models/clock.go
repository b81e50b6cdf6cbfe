package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// MinutesPerDay is the rollover unit for schedule times.
const MinutesPerDay = 24 * 60

// MalformedTimeError reports a schedule time string that could not be parsed.
type MalformedTimeError struct {
	Input string
}

func (e *MalformedTimeError) Error() string {
	return fmt.Sprintf("unrecognized time format: %q", e.Input)
}

var (
	dayOffsetRe  = regexp.MustCompile(`\(\s*\+(\d+)\s*d\s*\)`)
	clockRe      = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?$`)
	anyNumbersRe = regexp.MustCompile(`\d+`)
)

// ParseClockMinutes parses schedule times like "08:30", "8:30", "08",
// "08 (+1d)" or "08:00(+1d)" into minutes since the nominal starting
// midnight. A (+Nd) marker adds N whole days, so results are absolute
// minute offsets and are deliberately not wrapped back into a single day.
func ParseClockMinutes(t string) (int, error) {
	s := strings.TrimSpace(t)

	dayOffset := 0
	if m := dayOffsetRe.FindStringSubmatch(s); m != nil {
		dayOffset, _ = strconv.Atoi(m[1])
		s = strings.TrimSpace(dayOffsetRe.ReplaceAllString(s, ""))
	}

	var hour, minute int
	if m := clockRe.FindStringSubmatch(s); m != nil {
		hour, _ = strconv.Atoi(m[1])
		if m[2] != "" {
			minute, _ = strconv.Atoi(m[2])
		}
	} else {
		// Some datasets carry stray spaces or trailing characters; fall
		// back to the first one or two numeric tokens.
		nums := anyNumbersRe.FindAllString(s, 2)
		if len(nums) == 0 {
			return 0, &MalformedTimeError{Input: t}
		}
		hour, _ = strconv.Atoi(nums[0])
		if len(nums) > 1 {
			minute, _ = strconv.Atoi(nums[1])
		}
	}

	return hour*60 + minute + dayOffset*MinutesPerDay, nil
}

// DurationMinutes returns the elapsed minutes from a to b. When b is
// numerically earlier the span is treated as crossing one more midnight
// than the offsets already encode.
func DurationMinutes(a, b int) int {
	if b >= a {
		return b - a
	}
	return b + MinutesPerDay - a
}

// FormatMinutes renders a minute offset as HH:MM within a single day.
// Day offsets are not shown.
func FormatMinutes(minutes int) string {
	m := minutes % MinutesPerDay
	if m < 0 {
		m += MinutesPerDay
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}
