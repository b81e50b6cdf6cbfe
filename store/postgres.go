package store

import (
	"database/sql"
	"time"
)

// PostgresStore persists the ledger through database/sql. Schema lives
// in database/migrations.go; every booking runs inside one sql.Tx so a
// mid-write failure leaves no partial trip behind.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Begin() (Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, err
	}
	return &postgresTx{tx: tx}, nil
}

func (s *PostgresStore) ClientID(lastName, idNumber string) (int64, bool, error) {
	var id int64
	err := s.db.QueryRow(`
		SELECT client_id FROM clients
		WHERE LOWER(last_name) = LOWER($1) AND id_number = $2
	`, lastName, idNumber).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

func (s *PostgresStore) TripsForClient(clientID int64) ([]TripRecord, error) {
	rows, err := s.db.Query(`
		SELECT DISTINCT t.trip_id, t.booked_at, t.departure_city, t.arrival_city,
			t.departure_time, t.arrival_time
		FROM trips t
		JOIN tickets tk ON t.trip_id = tk.trip_id
		WHERE tk.client_id = $1
		ORDER BY t.booked_at DESC
	`, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

func (s *PostgresStore) Trip(tripID int64) (TripRecord, bool, error) {
	var t TripRecord
	err := s.db.QueryRow(`
		SELECT trip_id, booked_at, departure_city, arrival_city, departure_time, arrival_time
		FROM trips WHERE trip_id = $1
	`, tripID).Scan(&t.TripID, &t.BookedAt, &t.DepartureCity, &t.ArrivalCity, &t.DepartureTime, &t.ArrivalTime)
	if err == sql.ErrNoRows {
		return TripRecord{}, false, nil
	}
	if err != nil {
		return TripRecord{}, false, err
	}
	return t, true, nil
}

func (s *PostgresStore) AllTrips() ([]TripRecord, error) {
	rows, err := s.db.Query(`
		SELECT trip_id, booked_at, departure_city, arrival_city, departure_time, arrival_time
		FROM trips ORDER BY trip_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTrips(rows)
}

func (s *PostgresStore) TripLegs(tripID int64) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT route_id FROM trip_legs
		WHERE trip_id = $1
		ORDER BY leg_order ASC
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) TicketsForTrip(tripID int64) ([]TicketRecord, error) {
	rows, err := s.db.Query(`
		SELECT tk.ticket_id, tk.client_id, tk.issued_at,
			c.first_name, c.last_name, c.id_number, c.age
		FROM tickets tk
		JOIN clients c ON tk.client_id = c.client_id
		WHERE tk.trip_id = $1
		ORDER BY tk.ticket_id
	`, tripID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []TicketRecord
	for rows.Next() {
		var tk TicketRecord
		if err := rows.Scan(&tk.TicketID, &tk.ClientID, &tk.IssuedAt,
			&tk.FirstName, &tk.LastName, &tk.IDNumber, &tk.Age); err != nil {
			return nil, err
		}
		out = append(out, tk)
	}
	return out, rows.Err()
}

func scanTrips(rows *sql.Rows) ([]TripRecord, error) {
	var trips []TripRecord
	for rows.Next() {
		var t TripRecord
		if err := rows.Scan(&t.TripID, &t.BookedAt, &t.DepartureCity, &t.ArrivalCity,
			&t.DepartureTime, &t.ArrivalTime); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

type postgresTx struct {
	tx *sql.Tx
}

func (p *postgresTx) CreateTrip(departureCity, arrivalCity, departureTime, arrivalTime string, bookedAt time.Time) (int64, error) {
	var id int64
	err := p.tx.QueryRow(`
		INSERT INTO trips (booked_at, departure_city, arrival_city, departure_time, arrival_time)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING trip_id
	`, bookedAt, departureCity, arrivalCity, departureTime, arrivalTime).Scan(&id)
	return id, err
}

func (p *postgresTx) AddTripLeg(tripID int64, routeID string, order int) error {
	_, err := p.tx.Exec(`
		INSERT INTO trip_legs (trip_id, route_id, leg_order)
		VALUES ($1, $2, $3)
	`, tripID, routeID, order)
	return err
}

func (p *postgresTx) GetOrCreateClient(firstName, lastName, idNumber string, age int) (int64, error) {
	var id int64
	err := p.tx.QueryRow(`
		SELECT client_id FROM clients
		WHERE LOWER(last_name) = LOWER($1) AND id_number = $2
	`, lastName, idNumber).Scan(&id)
	if err == nil {
		return id, nil
	}
	if err != sql.ErrNoRows {
		return 0, err
	}

	err = p.tx.QueryRow(`
		INSERT INTO clients (first_name, last_name, id_number, age)
		VALUES ($1, $2, $3, $4)
		RETURNING client_id
	`, firstName, lastName, idNumber, age).Scan(&id)
	return id, err
}

func (p *postgresTx) CreateTicket(clientID, tripID int64, issuedAt time.Time) (int64, error) {
	var id int64
	err := p.tx.QueryRow(`
		INSERT INTO tickets (client_id, trip_id, issued_at)
		VALUES ($1, $2, $3)
		RETURNING ticket_id
	`, clientID, tripID, issuedAt).Scan(&id)
	return id, err
}

func (p *postgresTx) Commit() error {
	return p.tx.Commit()
}

func (p *postgresTx) Rollback() error {
	return p.tx.Rollback()
}
