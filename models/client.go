package models

import (
	"strings"
	"time"
)

// Client is a traveler. Identity for all business rules is the pair
// (last name case-insensitive, id number exact); two clients with equal
// identity are interchangeable even if first name or age differ.
type Client struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IDNumber  string `json:"id_number"`
	Age       int    `json:"age"`
}

// ClientKey is the derived identity used for indexing and equality.
type ClientKey struct {
	LastName string
	IDNumber string
}

func (c Client) Key() ClientKey {
	return ClientKey{LastName: strings.ToLower(c.LastName), IDNumber: c.IDNumber}
}

func (c Client) FullName() string {
	return c.FirstName + " " + c.LastName
}

// Ticket is the immutable proof-of-booking artifact for one client on
// one trip.
type Ticket struct {
	TicketID int64     `json:"ticket_id"`
	Client   Client    `json:"client"`
	Issued   time.Time `json:"issued_at"`
}

// Reservation binds one client to one ticket within a trip.
type Reservation struct {
	Client Client `json:"client"`
	Ticket Ticket `json:"ticket"`
}

// Trip is the persisted record of a completed booking: one itinerary,
// one reservation per traveler.
type Trip struct {
	TripID       int64         `json:"trip_id"`
	Connection   *Itinerary    `json:"connection"`
	Reservations []Reservation `json:"reservations"`
	BookedAt     time.Time     `json:"booked_at"`
}

func (t *Trip) TotalTravelers() int {
	return len(t.Reservations)
}

func (t *Trip) Clients() []Client {
	clients := make([]Client, len(t.Reservations))
	for i, res := range t.Reservations {
		clients[i] = res.Client
	}
	return clients
}

// IsPast classifies the trip against a reference date using the booking
// timestamp. Schedule rows carry no calendar date, so this is a coarse
// heuristic: a trip booked yesterday counts as past even if its train
// leaves tomorrow.
func (t *Trip) IsPast(reference time.Time) bool {
	y1, m1, d1 := t.BookedAt.Date()
	y2, m2, d2 := reference.Date()
	booked := time.Date(y1, m1, d1, 0, 0, 0, 0, time.UTC)
	ref := time.Date(y2, m2, d2, 0, 0, 0, 0, time.UTC)
	return booked.Before(ref)
}
