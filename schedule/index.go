package schedule

import (
	"strings"

	"github.com/rs/zerolog/log"

	"railbook/models"
)

// Index holds the loaded timetable: all routes plus a mapping from
// lower-cased origin city to the routes departing there. Built once per
// schedule load and read-only afterwards, so any number of searches can
// run concurrently against it. Reloading means building a new Index.
type Index struct {
	routes   []*models.Route
	byOrigin map[string][]*models.Route
}

// NewIndex builds the index. Route ids must be unique within a schedule;
// later rows reusing an id are dropped with a warning so lookups stay
// deterministic.
func NewIndex(routes []*models.Route) *Index {
	idx := &Index{
		byOrigin: make(map[string][]*models.Route),
	}
	seen := make(map[string]bool, len(routes))
	for _, r := range routes {
		if seen[r.RouteID] {
			log.Warn().Str("route_id", r.RouteID).Msg("Duplicate route id in schedule, keeping the first occurrence")
			continue
		}
		seen[r.RouteID] = true
		idx.routes = append(idx.routes, r)
		key := strings.ToLower(r.DepartureCity)
		idx.byOrigin[key] = append(idx.byOrigin[key], r)
	}
	return idx
}

// Routes returns all routes in load order.
func (idx *Index) Routes() []*models.Route {
	return idx.routes
}

// FromOrigin returns the routes departing the given city,
// case-insensitively.
func (idx *Index) FromOrigin(city string) []*models.Route {
	return idx.byOrigin[strings.ToLower(city)]
}

// RouteByID looks up a single route. Used when reconstructing a booked
// connection from its persisted route-id sequence.
func (idx *Index) RouteByID(routeID string) (*models.Route, bool) {
	for _, r := range idx.routes {
		if r.RouteID == routeID {
			return r, true
		}
	}
	return nil, false
}

// ItineraryFromRouteIDs rebuilds an itinerary from an ordered route-id
// sequence. The sequence must name 1-3 routes existing in this timetable
// and forming a contiguous chain, each leg departing from the previous
// leg's arrival city.
func (idx *Index) ItineraryFromRouteIDs(routeIDs []string) (*models.Itinerary, bool) {
	if len(routeIDs) == 0 || len(routeIDs) > 3 {
		return nil, false
	}
	legs := make([]models.Leg, 0, len(routeIDs))
	for i, id := range routeIDs {
		r, ok := idx.RouteByID(id)
		if !ok {
			return nil, false
		}
		if i > 0 && !strings.EqualFold(legs[i-1].Route.ArrivalCity, r.DepartureCity) {
			return nil, false
		}
		legs = append(legs, models.Leg{Route: r})
	}
	return &models.Itinerary{Legs: legs}, true
}
