package schedule

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"

	"railbook/models"
)

// routeRow is the raw schedule row shape. Rates stay textual so blank
// cells can default to 0.
type routeRow struct {
	RouteID         string `csv:"route_id"`
	DepartureCity   string `csv:"departure_city"`
	ArrivalCity     string `csv:"arrival_city"`
	DepartureTime   string `csv:"departure_time"`
	ArrivalTime     string `csv:"arrival_time"`
	TrainType       string `csv:"train_type"`
	DaysOfOperation string `csv:"days_of_operation"`
	FirstClassRate  string `csv:"first_class_rate"`
	SecondClassRate string `csv:"second_class_rate"`
}

// headerAliases maps the human-readable headers found in the source
// schedules onto the canonical snake_case column names.
var headerAliases = map[string]string{
	"route id":                           "route_id",
	"departure city":                     "departure_city",
	"arrival city":                       "arrival_city",
	"departure time":                     "departure_time",
	"arrival time":                       "arrival_time",
	"train type":                         "train_type",
	"days of operation":                  "days_of_operation",
	"first class ticket rate (in euro)":  "first_class_rate",
	"second class ticket rate (in euro)": "second_class_rate",
}

// LoadCSV reads a schedule file and builds routes from it. Rows whose
// time fields cannot be parsed are rejected individually with a warning
// rather than failing the whole load; the skipped count is returned so
// callers can surface it.
func LoadCSV(path string) ([]*models.Route, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open schedule: %w", err)
	}
	defer f.Close()

	return ReadRoutes(f)
}

// ReadRoutes parses schedule CSV from a reader. Both the published
// header names ("Route ID", ...) and snake_case variants are accepted.
func ReadRoutes(r io.Reader) ([]*models.Route, int, error) {
	normalized, err := normalizeHeader(r)
	if err != nil {
		return nil, 0, err
	}

	// Tolerate records with missing trailing columns. The reader is built
	// locally so concurrent loads do not race on gocsv package state.
	cr := csv.NewReader(bytes.NewReader(normalized))
	cr.FieldsPerRecord = -1

	var rows []routeRow
	if err := gocsv.UnmarshalCSV(cr, &rows); err != nil {
		return nil, 0, fmt.Errorf("parse schedule csv: %w", err)
	}

	var routes []*models.Route
	skipped := 0
	for _, row := range rows {
		route, err := models.NewRoute(
			strings.TrimSpace(row.RouteID),
			strings.TrimSpace(row.DepartureCity),
			strings.TrimSpace(row.ArrivalCity),
			strings.TrimSpace(row.DepartureTime),
			strings.TrimSpace(row.ArrivalTime),
			strings.TrimSpace(row.TrainType),
			strings.TrimSpace(row.DaysOfOperation),
			parseRate(row.FirstClassRate),
			parseRate(row.SecondClassRate),
		)
		if err != nil {
			skipped++
			log.Warn().Err(err).Str("route_id", row.RouteID).Msg("Skipping schedule row")
			continue
		}
		routes = append(routes, route)
	}

	return routes, skipped, nil
}

// normalizeHeader rewrites the first record onto canonical column names
// so gocsv can bind either header variant.
func normalizeHeader(r io.Reader) ([]byte, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read schedule csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("schedule csv is empty")
	}

	header := records[0]
	for i, col := range header {
		key := strings.ToLower(strings.TrimSpace(col))
		if canonical, ok := headerAliases[key]; ok {
			header[i] = canonical
		} else {
			header[i] = strings.ReplaceAll(key, " ", "_")
		}
	}

	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	if err := cw.WriteAll(records); err != nil {
		return nil, err
	}
	cw.Flush()
	return buf.Bytes(), cw.Error()
}

// parseRate defaults blank or unparseable rate cells to 0.
func parseRate(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
