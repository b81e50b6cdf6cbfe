package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"railbook/booking"
	"railbook/models"
	"railbook/schedule"
)

var (
	index         *schedule.Index
	ledger        *booking.Ledger
	defaultPolicy schedule.LayoverPolicy
)

// Init wires the handlers to the loaded timetable and ledger.
func Init(idx *schedule.Index, l *booking.Ledger, policy schedule.LayoverPolicy) {
	index = idx
	ledger = l
	defaultPolicy = policy
}

// GetRoutes returns every route in the loaded timetable
func GetRoutes(c *gin.Context) {
	c.JSON(http.StatusOK, index.Routes())
}

// SearchItineraries searches for connections matching the request
func SearchItineraries(c *gin.Context) {
	var req models.SearchRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	opts := searchOptions(req)
	log.Debug().Str("from", opts.From).Str("to", opts.To).Int("max_stops", opts.MaxStops).Msg("Search request")

	itineraries := index.Search(opts)

	results := make([]models.SearchResult, 0, len(itineraries))
	for _, it := range itineraries {
		results = append(results, models.NewSearchResult(it, opts.TravelClass))
	}
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	c.JSON(http.StatusOK, results)
}

func searchOptions(req models.SearchRequest) schedule.SearchOptions {
	opts := schedule.DefaultSearchOptions()
	opts.From = req.From
	opts.To = req.To
	opts.TrainType = req.TrainType
	opts.DayContains = req.Day
	opts.Policy = defaultPolicy

	if req.MaxStops != nil {
		opts.MaxStops = *req.MaxStops
	}
	if req.MinTransferMinutes != nil {
		opts.MinTransferMinutes = *req.MinTransferMinutes
	}
	if req.TravelClass != "" {
		opts.TravelClass = req.TravelClass
	}
	if req.SortBy != "" {
		opts.SortBy = req.SortBy
	}
	if req.LayoverPolicy != "" {
		opts.Policy = schedule.LayoverPolicy(req.LayoverPolicy)
	}
	return opts
}
