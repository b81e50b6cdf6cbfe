package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"railbook/models"
)

// renderResults prints search results as a table, JSON lines or CSV,
// to stdout or to a file.
func renderResults(itineraries []*models.Itinerary, travelClass string, limit int, format, outPath string) error {
	rows := make([]models.SearchResult, 0, len(itineraries))
	for _, it := range itineraries {
		rows = append(rows, models.NewSearchResult(it, travelClass))
	}
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	switch format {
	case "json":
		return renderJSON(out, rows)
	case "csv":
		return renderCSV(out, rows)
	default:
		return renderTable(out, rows)
	}
}

func renderJSON(out io.Writer, rows []models.SearchResult) error {
	enc := json.NewEncoder(out)
	for _, row := range rows {
		if err := enc.Encode(row); err != nil {
			return err
		}
	}
	return nil
}

var csvHeader = []string{
	"origin", "destination", "depart", "arrive", "stops",
	"trip_duration_min", "transfer_time_min", "total_price", "travel_class", "legs",
}

func resultRecord(r models.SearchResult) []string {
	return []string{
		r.Origin, r.Destination, r.Depart, r.Arrive, strconv.Itoa(r.Stops),
		strconv.Itoa(r.DurationMinutes), strconv.Itoa(r.TransferMinutes),
		strconv.FormatFloat(r.TotalPrice, 'f', 2, 64), r.TravelClass, r.Legs,
	}
}

func renderCSV(out io.Writer, rows []models.SearchResult) error {
	w := csv.NewWriter(out)
	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(resultRecord(row)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func renderTable(out io.Writer, rows []models.SearchResult) error {
	if len(rows) == 0 {
		fmt.Fprintln(out, "No results.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(csvHeader, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(resultRecord(row), "\t"))
	}
	return tw.Flush()
}

func printTrips(out io.Writer, title string, trips []*models.Trip) {
	fmt.Fprintf(out, "%s: %d\n", title, len(trips))
	for _, trip := range trips {
		fmt.Fprintf(out, "  trip %d booked %s: %s\n",
			trip.TripID, trip.BookedAt.Format("2006-01-02 15:04"), trip.Connection.Summary())
		for _, res := range trip.Reservations {
			fmt.Fprintf(out, "    ticket %d: %s (id %s)\n",
				res.Ticket.TicketID, res.Client.FullName(), res.Client.IDNumber)
		}
	}
}
