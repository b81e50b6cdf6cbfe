package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"railbook/booking"
	"railbook/models"
)

// CreateBooking books a connection for one or more travelers
func CreateBooking(c *gin.Context) {
	var req models.BookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	connection, ok := index.ItineraryFromRouteIDs(req.RouteIDs)
	if !ok {
		c.JSON(http.StatusBadRequest, models.BookingResponse{
			Success: false,
			Message: "unknown route id in connection",
		})
		return
	}

	trip, err := ledger.Book(connection, req.Travelers)
	if err != nil {
		log.Warn().Err(err).Msg("Booking rejected")
		c.JSON(bookingErrorStatus(err), models.BookingResponse{
			Success: false,
			Message: err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.BookingResponse{
		Success: true,
		Message: "Booking created successfully",
		Trip:    trip,
	})
}

// GetTrip retrieves a trip by id
func GetTrip(c *gin.Context) {
	tripID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid trip ID"})
		return
	}

	trip, err := ledger.TripByID(tripID)
	if err != nil {
		log.Error().Err(err).Int64("trip_id", tripID).Msg("Error loading trip")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load trip"})
		return
	}
	if trip == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Trip not found"})
		return
	}

	c.JSON(http.StatusOK, trip)
}

// GetClientTrips lists a client's trips, split into current and past
func GetClientTrips(c *gin.Context) {
	lastName := c.Query("last_name")
	idNumber := c.Query("id_number")
	if lastName == "" || idNumber == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "last_name and id_number are required"})
		return
	}

	current, past, err := ledger.TripsForClient(lastName, idNumber)
	if err != nil {
		log.Error().Err(err).Msg("Error listing client trips")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list trips"})
		return
	}

	c.JSON(http.StatusOK, models.ClientTripsResponse{Current: current, Past: past})
}

// bookingErrorStatus maps business rule violations to client errors and
// storage faults to server errors, so callers know what is retryable.
func bookingErrorStatus(err error) int {
	var booked *booking.AlreadyBookedError
	if errors.As(err, &booked) {
		return http.StatusConflict
	}
	if booking.IsBusinessError(err) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
