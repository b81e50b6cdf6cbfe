// Package store defines the persistence contract for the booking ledger
// plus two interchangeable implementations: an in-memory store for tests
// and single-process use, and a Postgres-backed store.
package store

import "time"

// TripRecord is the persisted trip row. The connection itself is stored
// as ordered legs, retrievable via TripLegs.
type TripRecord struct {
	TripID        int64
	BookedAt      time.Time
	DepartureCity string
	ArrivalCity   string
	DepartureTime string
	ArrivalTime   string
}

// TicketRecord is a persisted ticket joined with its client attributes.
type TicketRecord struct {
	TicketID  int64
	ClientID  int64
	IssuedAt  time.Time
	FirstName string
	LastName  string
	IDNumber  string
	Age       int
}

// Store is the read side of the contract plus the transaction entry
// point. All writes within one booking happen through a single Tx and
// are atomic as a unit.
type Store interface {
	Begin() (Tx, error)

	// ClientID resolves a client by identity (last name
	// case-insensitive, id number exact).
	ClientID(lastName, idNumber string) (int64, bool, error)
	TripsForClient(clientID int64) ([]TripRecord, error)
	Trip(tripID int64) (TripRecord, bool, error)
	AllTrips() ([]TripRecord, error)

	// TripLegs returns the ordered route-id sequence of a trip.
	TripLegs(tripID int64) ([]string, error)
	TicketsForTrip(tripID int64) ([]TicketRecord, error)
}

// Tx is one atomic booking write. Either Commit makes every staged write
// durably visible, or Rollback (and any failure) leaves no trace.
type Tx interface {
	CreateTrip(departureCity, arrivalCity, departureTime, arrivalTime string, bookedAt time.Time) (int64, error)
	AddTripLeg(tripID int64, routeID string, order int) error
	GetOrCreateClient(firstName, lastName, idNumber string, age int) (int64, error)
	CreateTicket(clientID, tripID int64, issuedAt time.Time) (int64, error)
	Commit() error
	Rollback() error
}
