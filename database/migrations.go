package database

import (
	"database/sql"

	"github.com/rs/zerolog/log"
)

// Statements are idempotent; the schema mirrors the booking ledger
// contract: clients unique on identity, legs ordered per trip, tickets
// cascading with their trip.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS clients (
		client_id SERIAL PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		id_number TEXT NOT NULL,
		age INTEGER NOT NULL CHECK (age >= 0)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS idx_clients_identity
		ON clients (LOWER(last_name), id_number)`,
	`CREATE TABLE IF NOT EXISTS trips (
		trip_id SERIAL PRIMARY KEY,
		booked_at TIMESTAMPTZ NOT NULL,
		departure_city TEXT NOT NULL,
		arrival_city TEXT NOT NULL,
		departure_time TEXT NOT NULL,
		arrival_time TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_trips_booked_at ON trips (booked_at)`,
	`CREATE TABLE IF NOT EXISTS trip_legs (
		trip_leg_id SERIAL PRIMARY KEY,
		trip_id INTEGER NOT NULL REFERENCES trips (trip_id) ON DELETE CASCADE,
		route_id TEXT NOT NULL,
		leg_order INTEGER NOT NULL,
		UNIQUE (trip_id, leg_order)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		ticket_id SERIAL PRIMARY KEY,
		client_id INTEGER NOT NULL REFERENCES clients (client_id),
		trip_id INTEGER NOT NULL REFERENCES trips (trip_id) ON DELETE CASCADE,
		issued_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_client ON tickets (client_id)`,
	`CREATE INDEX IF NOT EXISTS idx_tickets_trip ON tickets (trip_id)`,
}

// RunMigrations ensures all required tables exist
func RunMigrations(db *sql.DB) error {
	log.Info().Msg("Checking database schema...")

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	log.Info().Msg("Database schema is up to date")
	return nil
}
