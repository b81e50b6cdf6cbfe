// Package schedule holds the immutable timetable index, the itinerary
// search and the layover feasibility rules.
package schedule

import (
	"fmt"

	"railbook/models"
)

// LayoverPolicy selects which layover bounds apply at a transfer.
type LayoverPolicy string

const (
	PolicyStrict  LayoverPolicy = "strict"
	PolicyLenient LayoverPolicy = "lenient"
)

// Layover bounds in minutes. Long daytime waits are tolerable, after-hours
// waits are kept short because stations may be closed overnight.
const (
	dayStart = 6 * 60  // 06:00
	dayEnd   = 22 * 60 // 22:00

	daytimeMin        = 15
	daytimeMax        = 120
	daytimeMaxLenient = 180
	nightMin          = 15
	nightMax          = 30
)

// EvaluateLayover validates the gap between an arrival and the following
// departure. Both arguments are absolute minute offsets; the gap wraps
// across midnight and is never negative. The arrival's time of day
// (mod one day) picks the daytime or after-hours bounds.
func EvaluateLayover(arrivalMinute, departureMinute int, policy LayoverPolicy) (bool, string) {
	gap := models.DurationMinutes(arrivalMinute, departureMinute)

	arrivalTimeOfDay := arrivalMinute % models.MinutesPerDay
	isDaytime := arrivalTimeOfDay >= dayStart && arrivalTimeOfDay < dayEnd

	minGap, maxGap := nightMin, nightMax
	if isDaytime {
		minGap = daytimeMin
		if policy == PolicyLenient {
			maxGap = daytimeMaxLenient
		} else {
			maxGap = daytimeMax
		}
	}

	if gap < minGap {
		return false, fmt.Sprintf("layover too short: %d min (min: %d min)", gap, minGap)
	}
	if gap > maxGap {
		context := "after-hours"
		if isDaytime {
			context = "daytime"
		}
		return false, fmt.Sprintf("layover too long: %d min (max: %d min for %s)", gap, maxGap, context)
	}
	return true, "OK"
}

// ValidateTransfers applies EvaluateLayover to every transfer of an
// itinerary in order and reports the first failure, naming the
// 1-indexed transfer that broke the policy.
func ValidateTransfers(it *models.Itinerary, policy LayoverPolicy) (bool, string) {
	for i := 1; i < len(it.Legs); i++ {
		arr := it.Legs[i-1].Route.ArriveMinute
		dep := it.Legs[i].Route.DepartMinute
		if ok, reason := EvaluateLayover(arr, dep, policy); !ok {
			return false, fmt.Sprintf("transfer %d: %s", i, reason)
		}
	}
	return true, "OK"
}

// PolicyDescription returns a human-readable summary of the bounds for
// the wizard and CLI help output.
func PolicyDescription(policy LayoverPolicy) string {
	dayMax := daytimeMax
	label := "Strict"
	if policy == PolicyLenient {
		dayMax = daytimeMaxLenient
		label = "Lenient"
	}
	return fmt.Sprintf("Layover policy (%s): daytime (06:00-22:00) %d-%d min, after-hours (22:00-06:00) %d-%d min",
		label, daytimeMin, dayMax, nightMin, nightMax)
}
