package store

import (
	"testing"
	"time"
)

func TestMemoryStoreCommitVisibility(t *testing.T) {
	s := NewMemoryStore()
	now := time.Now()

	tx, err := s.Begin()
	if err != nil {
		t.Fatalf("Begin: %v", err)
	}
	tripID, err := tx.CreateTrip("Paris", "Berlin", "09:00", "17:30", now)
	if err != nil {
		t.Fatalf("CreateTrip: %v", err)
	}
	if err := tx.AddTripLeg(tripID, "PB1", 0); err != nil {
		t.Fatalf("AddTripLeg: %v", err)
	}
	clientID, err := tx.GetOrCreateClient("Anna", "Keller", "P1", 30)
	if err != nil {
		t.Fatalf("GetOrCreateClient: %v", err)
	}
	if _, err := tx.CreateTicket(clientID, tripID, now); err != nil {
		t.Fatalf("CreateTicket: %v", err)
	}

	// staged writes are invisible until commit
	if _, ok, _ := s.Trip(tripID); ok {
		t.Fatal("trip visible before commit")
	}
	if _, ok, _ := s.ClientID("Keller", "P1"); ok {
		t.Fatal("client visible before commit")
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("Commit: %v", err)
	}

	if _, ok, _ := s.Trip(tripID); !ok {
		t.Fatal("trip missing after commit")
	}
	legs, err := s.TripLegs(tripID)
	if err != nil || len(legs) != 1 || legs[0] != "PB1" {
		t.Fatalf("TripLegs = %v, %v", legs, err)
	}
	tickets, err := s.TicketsForTrip(tripID)
	if err != nil || len(tickets) != 1 {
		t.Fatalf("TicketsForTrip = %v, %v", tickets, err)
	}
	if tickets[0].LastName != "Keller" || tickets[0].Age != 30 {
		t.Fatalf("ticket client attributes lost: %+v", tickets[0])
	}
}

func TestMemoryStoreRollback(t *testing.T) {
	s := NewMemoryStore()

	tx, _ := s.Begin()
	tripID, _ := tx.CreateTrip("Paris", "Berlin", "09:00", "17:30", time.Now())
	tx.AddTripLeg(tripID, "PB1", 0)
	clientID, _ := tx.GetOrCreateClient("Anna", "Keller", "P1", 30)
	tx.CreateTicket(clientID, tripID, time.Now())
	if err := tx.Rollback(); err != nil {
		t.Fatalf("Rollback: %v", err)
	}

	if trips, _ := s.AllTrips(); len(trips) != 0 {
		t.Fatalf("trips visible after rollback: %d", len(trips))
	}
	if _, ok, _ := s.ClientID("Keller", "P1"); ok {
		t.Fatal("client visible after rollback")
	}
}

func TestMemoryStoreIDsStayUnique(t *testing.T) {
	s := NewMemoryStore()
	seen := make(map[int64]bool)

	for i := 0; i < 3; i++ {
		tx, _ := s.Begin()
		tripID, _ := tx.CreateTrip("A", "B", "08:00", "09:00", time.Now())
		clientID, _ := tx.GetOrCreateClient("C", "D", "ID", 1)
		ticketID, _ := tx.CreateTicket(clientID, tripID, time.Now())
		if seen[ticketID] {
			t.Fatalf("ticket id %d reused", ticketID)
		}
		seen[ticketID] = true

		// ids from rolled-back transactions are never reissued
		if i == 1 {
			tx.Rollback()
		} else {
			tx.Commit()
		}
	}
}

func TestMemoryStoreClientIdentity(t *testing.T) {
	s := NewMemoryStore()

	tx, _ := s.Begin()
	id1, _ := tx.GetOrCreateClient("Anna", "Keller", "P1", 30)
	tx.Commit()

	// same identity, different first name and casing
	tx, _ = s.Begin()
	id2, _ := tx.GetOrCreateClient("Annette", "KELLER", "P1", 31)
	tx.Commit()

	if id1 != id2 {
		t.Fatalf("client ids differ for same identity: %d vs %d", id1, id2)
	}

	tx, _ = s.Begin()
	id3, _ := tx.GetOrCreateClient("Anna", "Keller", "P2", 30)
	tx.Commit()
	if id3 == id1 {
		t.Fatal("different id number must create a new client")
	}
}

func TestMemoryStoreTripsForClientOrder(t *testing.T) {
	s := NewMemoryStore()
	base := time.Now()

	var clientID int64
	for i := 0; i < 3; i++ {
		tx, _ := s.Begin()
		tripID, _ := tx.CreateTrip("A", "B", "08:00", "09:00", base.Add(time.Duration(i)*time.Hour))
		clientID, _ = tx.GetOrCreateClient("Anna", "Keller", "P1", 30)
		tx.CreateTicket(clientID, tripID, base)
		tx.Commit()
	}

	trips, err := s.TripsForClient(clientID)
	if err != nil {
		t.Fatalf("TripsForClient: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("trips = %d, want 3", len(trips))
	}
	for i := 1; i < len(trips); i++ {
		if trips[i-1].BookedAt.Before(trips[i].BookedAt) {
			t.Fatal("trips not sorted most recent first")
		}
	}
}
