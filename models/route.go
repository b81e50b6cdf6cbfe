package models

import (
	"fmt"
	"strings"
)

// Route is one scheduled train ride between two cities. Routes are built
// once at schedule load and never mutated afterwards.
type Route struct {
	RouteID         string  `json:"route_id"`
	DepartureCity   string  `json:"departure_city"`
	ArrivalCity     string  `json:"arrival_city"`
	DepartureTime   string  `json:"departure_time"`
	ArrivalTime     string  `json:"arrival_time"`
	TrainType       string  `json:"train_type"`
	DaysOfOperation string  `json:"days_of_operation"`
	FirstClassRate  float64 `json:"first_class_rate"`
	SecondClassRate float64 `json:"second_class_rate"`

	// Derived at construction
	DepartMinute    int `json:"depart_minute"`
	ArriveMinute    int `json:"arrive_minute"`
	DurationMinutes int `json:"duration_minutes"`
}

// NewRoute derives the minute offsets from the textual times. A route
// whose times cannot be parsed is rejected with a MalformedTimeError.
func NewRoute(routeID, departureCity, arrivalCity, departureTime, arrivalTime,
	trainType, daysOfOperation string, firstClassRate, secondClassRate float64) (*Route, error) {

	dep, err := ParseClockMinutes(departureTime)
	if err != nil {
		return nil, fmt.Errorf("route %s departure time: %w", routeID, err)
	}
	arr, err := ParseClockMinutes(arrivalTime)
	if err != nil {
		return nil, fmt.Errorf("route %s arrival time: %w", routeID, err)
	}

	return &Route{
		RouteID:         routeID,
		DepartureCity:   departureCity,
		ArrivalCity:     arrivalCity,
		DepartureTime:   departureTime,
		ArrivalTime:     arrivalTime,
		TrainType:       trainType,
		DaysOfOperation: daysOfOperation,
		FirstClassRate:  firstClassRate,
		SecondClassRate: secondClassRate,
		DepartMinute:    dep,
		ArriveMinute:    arr,
		DurationMinutes: DurationMinutes(dep, arr),
	}, nil
}

// Leg references exactly one route within an itinerary.
type Leg struct {
	Route *Route `json:"route"`
}

// Itinerary is an ordered sequence of 1-3 legs forming a single travel
// option. Identity for deduplication and booking purposes is the ordered
// sequence of route ids.
type Itinerary struct {
	Legs []Leg `json:"legs"`
}

func (it *Itinerary) Origin() string {
	return it.Legs[0].Route.DepartureCity
}

func (it *Itinerary) Destination() string {
	return it.Legs[len(it.Legs)-1].Route.ArrivalCity
}

func (it *Itinerary) DepartureTime() string {
	return it.Legs[0].Route.DepartureTime
}

func (it *Itinerary) ArrivalTime() string {
	return it.Legs[len(it.Legs)-1].Route.ArrivalTime
}

func (it *Itinerary) Stops() int {
	return len(it.Legs) - 1
}

// TotalTravelMinutes is the sum of leg durations plus every inter-leg gap.
func (it *Itinerary) TotalTravelMinutes() int {
	total := 0
	for i, leg := range it.Legs {
		total += leg.Route.DurationMinutes
		if i > 0 {
			total += DurationMinutes(it.Legs[i-1].Route.ArriveMinute, leg.Route.DepartMinute)
		}
	}
	return total
}

// TransferMinutes is the sum of inter-leg gaps only.
func (it *Itinerary) TransferMinutes() int {
	total := 0
	for i := 1; i < len(it.Legs); i++ {
		total += DurationMinutes(it.Legs[i-1].Route.ArriveMinute, it.Legs[i].Route.DepartMinute)
	}
	return total
}

// Fare sums the per-leg rate for the given class. Any class beginning
// with "first" selects the first-class rate, everything else second.
func (it *Itinerary) Fare(travelClass string) float64 {
	total := 0.0
	first := strings.HasPrefix(strings.ToLower(travelClass), "first")
	for _, leg := range it.Legs {
		if first {
			total += leg.Route.FirstClassRate
		} else {
			total += leg.Route.SecondClassRate
		}
	}
	return total
}

// RouteIDs returns the ordered route-id sequence that identifies this
// connection.
func (it *Itinerary) RouteIDs() []string {
	ids := make([]string, len(it.Legs))
	for i, leg := range it.Legs {
		ids[i] = leg.Route.RouteID
	}
	return ids
}

// SameConnection reports whether two itineraries have the same route id
// at every position. This is connection-level identity, not object
// identity.
func (it *Itinerary) SameConnection(other *Itinerary) bool {
	if other == nil || len(it.Legs) != len(other.Legs) {
		return false
	}
	for i := range it.Legs {
		if it.Legs[i].Route.RouteID != other.Legs[i].Route.RouteID {
			return false
		}
	}
	return true
}

// Summary renders the legs as a single human-readable line, e.g.
// "Paris(08:00)->Frankfurt(12:00) -> Frankfurt(13:00)->Berlin(17:30)".
func (it *Itinerary) Summary() string {
	parts := make([]string, len(it.Legs))
	for i, leg := range it.Legs {
		r := leg.Route
		parts[i] = fmt.Sprintf("%s(%s)->%s(%s)", r.DepartureCity, r.DepartureTime, r.ArrivalCity, r.ArrivalTime)
	}
	return strings.Join(parts, " -> ")
}
