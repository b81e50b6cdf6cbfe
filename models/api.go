package models

// SearchRequest is an itinerary search query. Absent filter fields mean
// "no constraint".
type SearchRequest struct {
	From               string `json:"from"`
	To                 string `json:"to"`
	TrainType          string `json:"train_type"`
	Day                string `json:"day"`
	MaxStops           *int   `json:"max_stops"`
	MinTransferMinutes *int   `json:"min_transfer_minutes"`
	TravelClass        string `json:"travel_class"`
	SortBy             string `json:"sort_by"`
	LayoverPolicy      string `json:"layover_policy"`
	Limit              int    `json:"limit"`
}

// SearchResult is one itinerary row with its derived totals.
type SearchResult struct {
	Legs            string   `json:"legs"`
	Stops           int      `json:"stops"`
	Origin          string   `json:"origin"`
	Destination     string   `json:"destination"`
	Depart          string   `json:"depart"`
	Arrive          string   `json:"arrive"`
	DurationMinutes int      `json:"trip_duration_min"`
	TransferMinutes int      `json:"transfer_time_min"`
	TotalPrice      float64  `json:"total_price"`
	TravelClass     string   `json:"travel_class"`
	RouteIDs        []string `json:"route_ids"`
}

// NewSearchResult flattens an itinerary into a result row at the given
// travel class.
func NewSearchResult(it *Itinerary, travelClass string) SearchResult {
	return SearchResult{
		Legs:            it.Summary(),
		Stops:           it.Stops(),
		Origin:          it.Origin(),
		Destination:     it.Destination(),
		Depart:          it.DepartureTime(),
		Arrive:          it.ArrivalTime(),
		DurationMinutes: it.TotalTravelMinutes(),
		TransferMinutes: it.TransferMinutes(),
		TotalPrice:      it.Fare(travelClass),
		TravelClass:     travelClass,
		RouteIDs:        it.RouteIDs(),
	}
}

// TravelerRequest is one traveler entry within a booking request.
type TravelerRequest struct {
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	IDNumber  string `json:"id_number" binding:"required"`
	Age       int    `json:"age"`
}

// BookingRequest books one connection, given as an ordered route-id
// sequence, for one or more travelers.
type BookingRequest struct {
	RouteIDs  []string          `json:"route_ids" binding:"required,min=1"`
	Travelers []TravelerRequest `json:"travelers" binding:"required"`
}

// BookingResponse reports the outcome of a booking request.
type BookingResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Trip    *Trip  `json:"trip,omitempty"`
}

// ClientTripsResponse splits a client's trips into current and past.
type ClientTripsResponse struct {
	Current []*Trip `json:"current"`
	Past    []*Trip `json:"past"`
}
