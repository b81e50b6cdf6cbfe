package store

import (
	"sort"
	"strings"
	"sync"
	"time"
)

type memClient struct {
	clientID  int64
	firstName string
	lastName  string
	idNumber  string
	age       int
}

type memLeg struct {
	routeID string
	order   int
}

type memTicket struct {
	ticketID int64
	clientID int64
	tripID   int64
	issuedAt time.Time
}

// MemoryStore keeps the whole ledger in process memory behind one
// mutex. Writes are staged on a transaction and only become visible on
// Commit, mirroring the durable store's all-or-nothing contract.
type MemoryStore struct {
	mu sync.Mutex

	nextTripID   int64
	nextClientID int64
	nextTicketID int64

	trips   map[int64]TripRecord
	legs    map[int64][]memLeg
	clients map[int64]memClient
	// identity key "lower(last)\x00id" -> client id
	clientIndex map[string]int64
	tickets     map[int64][]memTicket
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		trips:       make(map[int64]TripRecord),
		legs:        make(map[int64][]memLeg),
		clients:     make(map[int64]memClient),
		clientIndex: make(map[string]int64),
		tickets:     make(map[int64][]memTicket),
	}
}

func clientKey(lastName, idNumber string) string {
	return strings.ToLower(lastName) + "\x00" + idNumber
}

func (s *MemoryStore) Begin() (Tx, error) {
	return &memoryTx{store: s}, nil
}

func (s *MemoryStore) ClientID(lastName, idNumber string) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id, ok := s.clientIndex[clientKey(lastName, idNumber)]
	return id, ok, nil
}

func (s *MemoryStore) TripsForClient(clientID int64) ([]TripRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool)
	var trips []TripRecord
	for tripID, tickets := range s.tickets {
		for _, tk := range tickets {
			if tk.clientID == clientID && !seen[tripID] {
				seen[tripID] = true
				trips = append(trips, s.trips[tripID])
			}
		}
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].BookedAt.After(trips[j].BookedAt)
	})
	return trips, nil
}

func (s *MemoryStore) Trip(tripID int64) (TripRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.trips[tripID]
	return t, ok, nil
}

func (s *MemoryStore) AllTrips() ([]TripRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trips := make([]TripRecord, 0, len(s.trips))
	for _, t := range s.trips {
		trips = append(trips, t)
	}
	sort.Slice(trips, func(i, j int) bool {
		return trips[i].TripID < trips[j].TripID
	})
	return trips, nil
}

func (s *MemoryStore) TripLegs(tripID int64) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	legs := append([]memLeg(nil), s.legs[tripID]...)
	sort.Slice(legs, func(i, j int) bool { return legs[i].order < legs[j].order })
	ids := make([]string, len(legs))
	for i, l := range legs {
		ids[i] = l.routeID
	}
	return ids, nil
}

func (s *MemoryStore) TicketsForTrip(tripID int64) ([]TicketRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []TicketRecord
	for _, tk := range s.tickets[tripID] {
		c := s.clients[tk.clientID]
		out = append(out, TicketRecord{
			TicketID:  tk.ticketID,
			ClientID:  tk.clientID,
			IssuedAt:  tk.issuedAt,
			FirstName: c.firstName,
			LastName:  c.lastName,
			IDNumber:  c.idNumber,
			Age:       c.age,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out, nil
}

// memoryTx stages writes until Commit. IDs come from the store's
// sequences at staging time, so they stay collision-free even when a
// transaction rolls back and its ids go unused.
type memoryTx struct {
	store *MemoryStore
	done  bool

	trips      []TripRecord
	legs       map[int64][]memLeg
	newClients []memClient
	tickets    []memTicket
}

func (tx *memoryTx) CreateTrip(departureCity, arrivalCity, departureTime, arrivalTime string, bookedAt time.Time) (int64, error) {
	tx.store.mu.Lock()
	tx.store.nextTripID++
	id := tx.store.nextTripID
	tx.store.mu.Unlock()

	tx.trips = append(tx.trips, TripRecord{
		TripID:        id,
		BookedAt:      bookedAt,
		DepartureCity: departureCity,
		ArrivalCity:   arrivalCity,
		DepartureTime: departureTime,
		ArrivalTime:   arrivalTime,
	})
	return id, nil
}

func (tx *memoryTx) AddTripLeg(tripID int64, routeID string, order int) error {
	if tx.legs == nil {
		tx.legs = make(map[int64][]memLeg)
	}
	tx.legs[tripID] = append(tx.legs[tripID], memLeg{routeID: routeID, order: order})
	return nil
}

func (tx *memoryTx) GetOrCreateClient(firstName, lastName, idNumber string, age int) (int64, error) {
	key := clientKey(lastName, idNumber)

	tx.store.mu.Lock()
	defer tx.store.mu.Unlock()

	if id, ok := tx.store.clientIndex[key]; ok {
		return id, nil
	}
	// Also match clients staged earlier in this transaction.
	for _, c := range tx.newClients {
		if clientKey(c.lastName, c.idNumber) == key {
			return c.clientID, nil
		}
	}

	tx.store.nextClientID++
	c := memClient{
		clientID:  tx.store.nextClientID,
		firstName: firstName,
		lastName:  lastName,
		idNumber:  idNumber,
		age:       age,
	}
	tx.newClients = append(tx.newClients, c)
	return c.clientID, nil
}

func (tx *memoryTx) CreateTicket(clientID, tripID int64, issuedAt time.Time) (int64, error) {
	tx.store.mu.Lock()
	tx.store.nextTicketID++
	id := tx.store.nextTicketID
	tx.store.mu.Unlock()

	tx.tickets = append(tx.tickets, memTicket{
		ticketID: id,
		clientID: clientID,
		tripID:   tripID,
		issuedAt: issuedAt,
	})
	return id, nil
}

func (tx *memoryTx) Commit() error {
	if tx.done {
		return nil
	}
	tx.done = true

	s := tx.store
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range tx.trips {
		s.trips[t.TripID] = t
	}
	for tripID, legs := range tx.legs {
		s.legs[tripID] = append(s.legs[tripID], legs...)
	}
	for _, c := range tx.newClients {
		s.clients[c.clientID] = c
		s.clientIndex[clientKey(c.lastName, c.idNumber)] = c.clientID
	}
	for _, tk := range tx.tickets {
		s.tickets[tk.tripID] = append(s.tickets[tk.tripID], tk)
	}
	return nil
}

func (tx *memoryTx) Rollback() error {
	tx.done = true
	return nil
}
