package schedule

import (
	"reflect"
	"strings"
	"testing"

	"railbook/models"
)

func testRoute(t *testing.T, id, from, to, dep, arr string) *models.Route {
	t.Helper()
	r, err := models.NewRoute(id, from, to, dep, arr, "IC", "Mon-Sun", 100, 50)
	if err != nil {
		t.Fatalf("NewRoute(%s): %v", id, err)
	}
	return r
}

func testRouteFull(t *testing.T, id, from, to, dep, arr, trainType, days string, first, second float64) *models.Route {
	t.Helper()
	r, err := models.NewRoute(id, from, to, dep, arr, trainType, days, first, second)
	if err != nil {
		t.Fatalf("NewRoute(%s): %v", id, err)
	}
	return r
}

// testIndex builds the Paris/Frankfurt/Berlin/Warsaw fixture used by
// most search tests.
func testIndex(t *testing.T) *Index {
	t.Helper()
	return NewIndex([]*models.Route{
		testRoute(t, "PF1", "Paris", "Frankfurt", "08:00", "12:00"),
		testRoute(t, "FB1", "Frankfurt", "Berlin", "13:00", "17:00"),
		testRoute(t, "PB1", "Paris", "Berlin", "09:00", "17:30"),
		testRoute(t, "BW1", "Berlin", "Warsaw", "18:00", "22:00"),
	})
}

func routeIDLists(its []*models.Itinerary) [][]string {
	out := make([][]string, len(its))
	for i, it := range its {
		out[i] = it.RouteIDs()
	}
	return out
}

func TestSearchDirectOnly(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"
	opts.MaxStops = 0

	results := idx.Search(opts)
	if len(results) != 1 {
		t.Fatalf("expected 1 direct itinerary, got %d", len(results))
	}
	it := results[0]
	if len(it.Legs) != 1 || it.Legs[0].Route.RouteID != "PB1" {
		t.Fatalf("unexpected direct result: %v", it.RouteIDs())
	}
	if it.Origin() != "Paris" || it.Destination() != "Berlin" {
		t.Fatalf("endpoints = %s/%s", it.Origin(), it.Destination())
	}
}

func TestSearchOneStopScenario(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"
	opts.MaxStops = 1

	results := idx.Search(opts)
	got := routeIDLists(results)
	// direct is 510 minutes, one-stop is 540: direct ranks first
	want := [][]string{{"PB1"}, {"PF1", "FB1"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("search results = %v, want %v", got, want)
	}
}

func TestSearchTwoStops(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Warsaw"

	results := idx.Search(opts)
	if len(results) != 2 {
		t.Fatalf("expected 2 itineraries to Warsaw, got %d: %v", len(results), routeIDLists(results))
	}
	for _, it := range results {
		if it.Destination() != "Warsaw" {
			t.Fatalf("wrong destination: %s", it.Destination())
		}
		if ok, reason := ValidateTransfers(it, opts.Policy); !ok {
			t.Fatalf("returned itinerary violates layover policy: %s", reason)
		}
	}
}

func TestSearchCaseInsensitiveCities(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "paris"
	opts.To = "BERLIN"
	opts.MaxStops = 0

	if results := idx.Search(opts); len(results) != 1 {
		t.Fatalf("case-insensitive search returned %d results", len(results))
	}
}

func TestSearchFilters(t *testing.T) {
	idx := NewIndex([]*models.Route{
		testRouteFull(t, "ICE1", "Paris", "Berlin", "09:00", "17:00", "ICE", "Mon-Fri", 200, 100),
		testRouteFull(t, "RE1", "Paris", "Berlin", "10:00", "19:00", "RE", "Sat,Sun", 80, 40),
	})

	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"
	opts.TrainType = "ice"
	results := idx.Search(opts)
	if len(results) != 1 || results[0].Legs[0].Route.RouteID != "ICE1" {
		t.Fatalf("train type filter: %v", routeIDLists(results))
	}

	opts.TrainType = ""
	opts.DayContains = "sat"
	results = idx.Search(opts)
	if len(results) != 1 || results[0].Legs[0].Route.RouteID != "RE1" {
		t.Fatalf("day filter: %v", routeIDLists(results))
	}
}

func TestSearchMinTransferGate(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"
	opts.MaxStops = 1
	// transfer gap is 60 minutes; layover policy passes but the legacy
	// minimum-transfer gate is stricter and must also hold
	opts.MinTransferMinutes = 90

	results := idx.Search(opts)
	got := routeIDLists(results)
	if !reflect.DeepEqual(got, [][]string{{"PB1"}}) {
		t.Fatalf("min transfer gate ignored: %v", got)
	}
}

func TestSearchLayoverPolicyGate(t *testing.T) {
	idx := NewIndex([]*models.Route{
		testRoute(t, "PF1", "Paris", "Frankfurt", "08:00", "12:00"),
		// 150-minute daytime layover: fails strict, passes lenient
		testRoute(t, "FB2", "Frankfurt", "Berlin", "14:30", "18:30"),
	})
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"

	if results := idx.Search(opts); len(results) != 0 {
		t.Fatalf("strict policy should reject the 150-minute layover: %v", routeIDLists(results))
	}

	opts.Policy = PolicyLenient
	if results := idx.Search(opts); len(results) != 1 {
		t.Fatal("lenient policy should accept the 150-minute layover")
	}
}

func TestSearchDeduplicates(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"

	first := routeIDLists(idx.Search(opts))
	second := routeIDLists(idx.Search(opts))
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("same search differs across runs: %v vs %v", first, second)
	}

	seen := make(map[string]bool)
	for _, ids := range first {
		key := strings.Join(ids, ",")
		if seen[key] {
			t.Fatalf("duplicate route sequence in one result list: %v", ids)
		}
		seen[key] = true
	}
}

func TestSearchSortOrders(t *testing.T) {
	idx := NewIndex([]*models.Route{
		testRouteFull(t, "A", "Paris", "Berlin", "09:00", "18:00", "IC", "Mon-Sun", 300, 150),
		testRouteFull(t, "B", "Paris", "Berlin", "10:00", "17:00", "IC", "Mon-Sun", 400, 200),
		testRouteFull(t, "C", "Paris", "Berlin", "07:00", "17:30", "IC", "Mon-Sun", 100, 50),
	})

	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = "Berlin"
	opts.MaxStops = 0

	results := idx.Search(opts)
	for i := 1; i < len(results); i++ {
		if results[i-1].TotalTravelMinutes() > results[i].TotalTravelMinutes() {
			t.Fatalf("durations not non-decreasing: %v", routeIDLists(results))
		}
	}

	opts.SortBy = "price"
	opts.TravelClass = "first"
	results = idx.Search(opts)
	for i := 1; i < len(results); i++ {
		if results[i-1].Fare("first") > results[i].Fare("first") {
			t.Fatalf("fares not non-decreasing: %v", routeIDLists(results))
		}
	}
}

func TestSearchWithoutEndpointsSkipsTransfers(t *testing.T) {
	idx := testIndex(t)
	opts := DefaultSearchOptions()
	opts.From = "Paris"
	opts.To = ""

	// without a destination only direct matches are produced
	results := idx.Search(opts)
	for _, it := range results {
		if len(it.Legs) != 1 {
			t.Fatalf("expected single-leg results only, got %v", it.RouteIDs())
		}
	}
}

func TestItineraryFromRouteIDs(t *testing.T) {
	idx := testIndex(t)

	it, ok := idx.ItineraryFromRouteIDs([]string{"PF1", "FB1"})
	if !ok {
		t.Fatal("known route ids should reconstruct")
	}
	if it.Origin() != "Paris" || it.Destination() != "Berlin" {
		t.Fatalf("reconstructed endpoints = %s/%s", it.Origin(), it.Destination())
	}

	if _, ok := idx.ItineraryFromRouteIDs([]string{"PF1", "FB1", "BW1"}); !ok {
		t.Fatal("three contiguous legs should reconstruct")
	}

	if _, ok := idx.ItineraryFromRouteIDs([]string{"PF1", "NOPE"}); ok {
		t.Fatal("unknown route id must not reconstruct")
	}
	if _, ok := idx.ItineraryFromRouteIDs(nil); ok {
		t.Fatal("empty sequence must not reconstruct")
	}
}

func TestItineraryFromRouteIDsRejectsBrokenChains(t *testing.T) {
	idx := testIndex(t)

	// FB1 arrives in Berlin but PF1 departs Paris: the legs do not chain
	if _, ok := idx.ItineraryFromRouteIDs([]string{"FB1", "PF1"}); ok {
		t.Fatal("non-contiguous leg sequence must not reconstruct")
	}
	// PB1 ends in Berlin, PF1 departs Paris
	if _, ok := idx.ItineraryFromRouteIDs([]string{"PB1", "PF1"}); ok {
		t.Fatal("legs with mismatched cities must not reconstruct")
	}
	if _, ok := idx.ItineraryFromRouteIDs([]string{"PF1", "FB1", "BW1", "BW1"}); ok {
		t.Fatal("more than three legs must not reconstruct")
	}
}

func TestNewIndexDropsDuplicateRouteIDs(t *testing.T) {
	first := testRouteFull(t, "R1", "Paris", "Frankfurt", "08:00", "12:00", "ICE", "Mon-Fri", 120, 60)
	dup := testRouteFull(t, "R1", "Lyon", "Nice", "10:00", "14:00", "TGV", "Daily", 80, 40)
	idx := NewIndex([]*models.Route{first, dup})

	if got := len(idx.Routes()); got != 1 {
		t.Fatalf("routes = %d, want 1 after duplicate dropped", got)
	}
	r, ok := idx.RouteByID("R1")
	if !ok || r.DepartureCity != "Paris" {
		t.Fatalf("RouteByID kept the wrong occurrence: %+v", r)
	}
	if routes := idx.FromOrigin("Lyon"); len(routes) != 0 {
		t.Fatalf("dropped duplicate still indexed by origin: %v", routes)
	}
}
