package booking

import (
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"railbook/models"
	"railbook/schedule"
	"railbook/store"
)

// Ledger enforces the booking business rules over a Store. The
// duplicate-check-then-commit sequence in Book is serialized by a
// per-ledger mutex, so two concurrent bookings of the same connection
// for the same client resolve to exactly one success.
type Ledger struct {
	mu    sync.Mutex
	store store.Store
	index *schedule.Index

	// now is swappable for tests of the past-trip heuristic.
	now func() time.Time
}

func NewLedger(s store.Store, idx *schedule.Index) *Ledger {
	return &Ledger{store: s, index: idx, now: time.Now}
}

// Book reserves the given connection for every traveler, atomically.
// On success the returned trip carries one reservation and one ticket
// per traveler; on any failure nothing is persisted.
func (l *Ledger) Book(connection *models.Itinerary, travelers []models.TravelerRequest) (*models.Trip, error) {
	if len(travelers) == 0 {
		return nil, ErrEmptyBooking
	}

	clients := make([]models.Client, 0, len(travelers))
	seen := make(map[models.ClientKey]bool)
	for i, t := range travelers {
		client, err := newClient(i, t)
		if err != nil {
			return nil, err
		}
		if seen[client.Key()] {
			return nil, &DuplicateTravelerError{FirstName: client.FirstName, LastName: client.LastName}
		}
		seen[client.Key()] = true
		clients = append(clients, client)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, client := range clients {
		booked, err := l.hasBookingForConnection(client, connection)
		if err != nil {
			return nil, err
		}
		if booked {
			return nil, &AlreadyBookedError{FirstName: client.FirstName, LastName: client.LastName}
		}
	}

	bookedAt := l.now()
	tx, err := l.store.Begin()
	if err != nil {
		return nil, &PersistenceError{Op: "begin booking", Err: err}
	}

	trip, err := l.writeBooking(tx, connection, clients, bookedAt)
	if err != nil {
		tx.Rollback()
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, &PersistenceError{Op: "commit booking", Err: err}
	}

	log.Info().
		Int64("trip_id", trip.TripID).
		Int("travelers", len(clients)).
		Str("connection", strings.Join(connection.RouteIDs(), ",")).
		Msg("Trip booked")

	return trip, nil
}

func (l *Ledger) writeBooking(tx store.Tx, connection *models.Itinerary, clients []models.Client, bookedAt time.Time) (*models.Trip, error) {
	tripID, err := tx.CreateTrip(
		connection.Origin(), connection.Destination(),
		connection.DepartureTime(), connection.ArrivalTime(), bookedAt)
	if err != nil {
		return nil, &PersistenceError{Op: "create trip", Err: err}
	}

	for i, leg := range connection.Legs {
		if err := tx.AddTripLeg(tripID, leg.Route.RouteID, i); err != nil {
			return nil, &PersistenceError{Op: "store trip leg", Err: err}
		}
	}

	reservations := make([]models.Reservation, 0, len(clients))
	for _, client := range clients {
		clientID, err := tx.GetOrCreateClient(client.FirstName, client.LastName, client.IDNumber, client.Age)
		if err != nil {
			return nil, &PersistenceError{Op: "store client", Err: err}
		}
		ticketID, err := tx.CreateTicket(clientID, tripID, bookedAt)
		if err != nil {
			return nil, &PersistenceError{Op: "create ticket", Err: err}
		}
		reservations = append(reservations, models.Reservation{
			Client: client,
			Ticket: models.Ticket{TicketID: ticketID, Client: client, Issued: bookedAt},
		})
	}

	return &models.Trip{
		TripID:       tripID,
		Connection:   connection,
		Reservations: reservations,
		BookedAt:     bookedAt,
	}, nil
}

// TripsForClient returns the client's trips split into current and
// past, each sorted by booking time, most recent first. The split uses
// the booking date, not any travel date: schedule rows carry a bare
// clock time with no calendar day, so nothing better is available.
func (l *Ledger) TripsForClient(lastName, idNumber string) (current, past []*models.Trip, err error) {
	clientID, ok, err := l.store.ClientID(lastName, idNumber)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "lookup client", Err: err}
	}
	if !ok {
		return nil, nil, nil
	}

	records, err := l.store.TripsForClient(clientID)
	if err != nil {
		return nil, nil, &PersistenceError{Op: "list client trips", Err: err}
	}

	today := l.now()
	for _, rec := range records {
		trip, err := l.reconstructTrip(rec)
		if err != nil {
			return nil, nil, err
		}
		if trip == nil {
			continue
		}
		if trip.IsPast(today) {
			past = append(past, trip)
		} else {
			current = append(current, trip)
		}
	}
	return current, past, nil
}

// TripByID rebuilds one trip from the store.
func (l *Ledger) TripByID(tripID int64) (*models.Trip, error) {
	rec, ok, err := l.store.Trip(tripID)
	if err != nil {
		return nil, &PersistenceError{Op: "lookup trip", Err: err}
	}
	if !ok {
		return nil, nil
	}
	return l.reconstructTrip(rec)
}

// AllTrips rebuilds every trip in the ledger. Intended for small
// datasets and tests.
func (l *Ledger) AllTrips() ([]*models.Trip, error) {
	records, err := l.store.AllTrips()
	if err != nil {
		return nil, &PersistenceError{Op: "list trips", Err: err}
	}
	trips := make([]*models.Trip, 0, len(records))
	for _, rec := range records {
		trip, err := l.reconstructTrip(rec)
		if err != nil {
			return nil, err
		}
		if trip != nil {
			trips = append(trips, trip)
		}
	}
	return trips, nil
}

func (l *Ledger) reconstructTrip(rec store.TripRecord) (*models.Trip, error) {
	routeIDs, err := l.store.TripLegs(rec.TripID)
	if err != nil {
		return nil, &PersistenceError{Op: "list trip legs", Err: err}
	}
	connection, ok := l.index.ItineraryFromRouteIDs(routeIDs)
	if !ok {
		// The booked route vanished from the loaded timetable, e.g.
		// after a schedule swap. The trip is unrenderable; skip it.
		log.Warn().Int64("trip_id", rec.TripID).Msg("Trip references routes missing from the timetable")
		return nil, nil
	}

	tickets, err := l.store.TicketsForTrip(rec.TripID)
	if err != nil {
		return nil, &PersistenceError{Op: "list trip tickets", Err: err}
	}

	reservations := make([]models.Reservation, 0, len(tickets))
	for _, tk := range tickets {
		client := models.Client{
			FirstName: tk.FirstName,
			LastName:  tk.LastName,
			IDNumber:  tk.IDNumber,
			Age:       tk.Age,
		}
		reservations = append(reservations, models.Reservation{
			Client: client,
			Ticket: models.Ticket{TicketID: tk.TicketID, Client: client, Issued: tk.IssuedAt},
		})
	}

	return &models.Trip{
		TripID:       rec.TripID,
		Connection:   connection,
		Reservations: reservations,
		BookedAt:     rec.BookedAt,
	}, nil
}

func (l *Ledger) hasBookingForConnection(client models.Client, connection *models.Itinerary) (bool, error) {
	clientID, ok, err := l.store.ClientID(client.LastName, client.IDNumber)
	if err != nil {
		return false, &PersistenceError{Op: "lookup client", Err: err}
	}
	if !ok {
		return false, nil
	}

	trips, err := l.store.TripsForClient(clientID)
	if err != nil {
		return false, &PersistenceError{Op: "list client trips", Err: err}
	}

	want := connection.RouteIDs()
	for _, trip := range trips {
		got, err := l.store.TripLegs(trip.TripID)
		if err != nil {
			return false, &PersistenceError{Op: "list trip legs", Err: err}
		}
		if equalRouteIDs(got, want) {
			return true, nil
		}
	}
	return false, nil
}

func equalRouteIDs(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newClient(index int, t models.TravelerRequest) (models.Client, error) {
	name := strings.TrimSpace(t.FirstName + " " + t.LastName)
	switch {
	case strings.TrimSpace(t.FirstName) == "" || strings.TrimSpace(t.LastName) == "":
		return models.Client{}, &InvalidTravelerError{Index: index, Name: name, Reason: "names cannot be empty"}
	case strings.TrimSpace(t.IDNumber) == "":
		return models.Client{}, &InvalidTravelerError{Index: index, Name: name, Reason: "id number cannot be empty"}
	case t.Age < 0:
		return models.Client{}, &InvalidTravelerError{Index: index, Name: name, Reason: "age cannot be negative"}
	}
	return models.Client{
		FirstName: strings.TrimSpace(t.FirstName),
		LastName:  strings.TrimSpace(t.LastName),
		IDNumber:  strings.TrimSpace(t.IDNumber),
		Age:       t.Age,
	}, nil
}
