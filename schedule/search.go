package schedule

import (
	"sort"
	"strings"

	"railbook/models"
)

// SearchOptions narrow and order an itinerary search. Zero-valued string
// filters mean no constraint.
type SearchOptions struct {
	From               string
	To                 string
	TrainType          string
	DayContains        string
	MaxStops           int // 0, 1 or 2
	MinTransferMinutes int
	TravelClass        string
	SortBy             string // "duration" (default) or "price"
	Policy             LayoverPolicy
}

// DefaultSearchOptions mirror the CLI defaults.
func DefaultSearchOptions() SearchOptions {
	return SearchOptions{
		MaxStops:           2,
		MinTransferMinutes: 15,
		TravelClass:        "second",
		SortBy:             "duration",
		Policy:             PolicyStrict,
	}
}

// Search enumerates direct, one-stop and two-stop itineraries matching
// the options. Transfers must clear both the minimum-transfer gate and
// the layover policy. Results are deduplicated by route-id sequence and
// stably sorted by total duration or fare, so ties keep discovery order.
func (idx *Index) Search(opts SearchOptions) []*models.Itinerary {
	var results []*models.Itinerary

	for _, r := range idx.routes {
		if matchRoute(r, opts.From, opts.To, opts.TrainType, opts.DayContains) {
			results = append(results, &models.Itinerary{Legs: []models.Leg{{Route: r}}})
		}
	}

	if opts.MaxStops >= 1 && opts.From != "" && opts.To != "" {
		results = append(results, idx.buildOneStop(opts)...)
	}
	if opts.MaxStops >= 2 && opts.From != "" && opts.To != "" {
		results = append(results, idx.buildTwoStops(opts)...)
	}

	unique := dedupe(results)

	if opts.SortBy == "price" {
		sort.SliceStable(unique, func(i, j int) bool {
			return unique[i].Fare(opts.TravelClass) < unique[j].Fare(opts.TravelClass)
		})
	} else {
		sort.SliceStable(unique, func(i, j int) bool {
			return unique[i].TotalTravelMinutes() < unique[j].TotalTravelMinutes()
		})
	}

	return unique
}

func (idx *Index) buildOneStop(opts SearchOptions) []*models.Itinerary {
	var its []*models.Itinerary
	for _, r1 := range idx.routes {
		if !matchRoute(r1, opts.From, "", opts.TrainType, opts.DayContains) {
			continue
		}
		mid := r1.ArrivalCity
		for _, r2 := range idx.FromOrigin(mid) {
			if !matchRoute(r2, mid, opts.To, opts.TrainType, opts.DayContains) {
				continue
			}
			if !idx.transferOK(r1, r2, opts) {
				continue
			}
			its = append(its, &models.Itinerary{Legs: []models.Leg{{Route: r1}, {Route: r2}}})
		}
	}
	return its
}

func (idx *Index) buildTwoStops(opts SearchOptions) []*models.Itinerary {
	var its []*models.Itinerary
	for _, r1 := range idx.routes {
		if !matchRoute(r1, opts.From, "", opts.TrainType, opts.DayContains) {
			continue
		}
		mid1 := r1.ArrivalCity
		for _, r2 := range idx.FromOrigin(mid1) {
			if !matchRoute(r2, mid1, "", opts.TrainType, opts.DayContains) {
				continue
			}
			if !idx.transferOK(r1, r2, opts) {
				continue
			}
			mid2 := r2.ArrivalCity
			for _, r3 := range idx.FromOrigin(mid2) {
				if !matchRoute(r3, mid2, opts.To, opts.TrainType, opts.DayContains) {
					continue
				}
				if !idx.transferOK(r2, r3, opts) {
					continue
				}
				its = append(its, &models.Itinerary{Legs: []models.Leg{{Route: r1}, {Route: r2}, {Route: r3}}})
			}
		}
	}
	return its
}

// transferOK enforces the two independent transfer gates: the legacy
// minimum-gap parameter and the time-of-day layover policy.
func (idx *Index) transferOK(prev, next *models.Route, opts SearchOptions) bool {
	gap := models.DurationMinutes(prev.ArriveMinute, next.DepartMinute)
	if gap < opts.MinTransferMinutes {
		return false
	}
	ok, _ := EvaluateLayover(prev.ArriveMinute, next.DepartMinute, opts.Policy)
	return ok
}

// matchRoute applies the per-leg predicates: case-insensitive equality
// on cities and train type, case-insensitive substring containment for
// the day token. Empty filter values always match.
func matchRoute(r *models.Route, from, to, trainType, dayContains string) bool {
	if from != "" && !strings.EqualFold(r.DepartureCity, from) {
		return false
	}
	if to != "" && !strings.EqualFold(r.ArrivalCity, to) {
		return false
	}
	if trainType != "" && !strings.EqualFold(r.TrainType, trainType) {
		return false
	}
	if dayContains != "" && !strings.Contains(strings.ToLower(r.DaysOfOperation), strings.ToLower(dayContains)) {
		return false
	}
	return true
}

func dedupe(its []*models.Itinerary) []*models.Itinerary {
	seen := make(map[string]bool)
	unique := make([]*models.Itinerary, 0, len(its))
	for _, it := range its {
		key := strings.Join(it.RouteIDs(), "\x00")
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, it)
	}
	return unique
}
