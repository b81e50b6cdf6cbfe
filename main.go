package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"railbook/booking"
	"railbook/config"
	"railbook/database"
	"railbook/handlers"
	"railbook/schedule"
	"railbook/store"
)

func main() {
	if os.Getenv("RAILBOOK_LOG_FORMAT") != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if os.Getenv("RAILBOOK_DEBUG") == "YES" {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "railbook",
		Description: "Rail timetable search and trip booking",

		Commands: []*cli.Command{
			serveCommand(),
			searchCommand(),
			bookCommand(),
			tripsCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal().Err(err).Send()
	}
}

// loadTimetable builds the immutable schedule index from the CSV source.
func loadTimetable(path string) (*schedule.Index, error) {
	routes, skipped, err := schedule.LoadCSV(path)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		log.Warn().Int("skipped", skipped).Msg("Some schedule rows were rejected")
	}
	log.Info().Int("routes", len(routes)).Str("path", path).Msg("Timetable loaded")
	return schedule.NewIndex(routes), nil
}

// openLedger wires a ledger to either the Postgres store or, with
// inMemory set, a process-local store.
func openLedger(cfg *config.Config, idx *schedule.Index, inMemory bool) (*booking.Ledger, func(), error) {
	if inMemory {
		return booking.NewLedger(store.NewMemoryStore(), idx), func() {}, nil
	}

	if err := database.Connect(cfg); err != nil {
		return nil, nil, err
	}
	if err := database.RunMigrations(database.GetDB()); err != nil {
		database.Close()
		return nil, nil, err
	}
	ledger := booking.NewLedger(store.NewPostgresStore(database.GetDB()), idx)
	return ledger, func() { database.Close() }, nil
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "run the HTTP API",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "memory", Usage: "use the in-memory ledger store instead of Postgres"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()

			idx, err := loadTimetable(cfg.SchedulePath)
			if err != nil {
				return err
			}

			ledger, closeStore, err := openLedger(cfg, idx, c.Bool("memory"))
			if err != nil {
				return err
			}
			defer closeStore()

			handlers.Init(idx, ledger, schedule.LayoverPolicy(cfg.LayoverPolicy))

			router := setupRouter()
			srv := &http.Server{
				Addr:    ":" + cfg.ServerPort,
				Handler: router,
			}

			go func() {
				log.Info().Str("port", cfg.ServerPort).Msg("Server starting")
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Failed to start server")
				}
			}()

			// Wait for interrupt signal for graceful shutdown
			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			log.Info().Msg("Shutting down server...")

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				return err
			}

			log.Info().Msg("Server exited")
			return nil
		},
	}
}

func setupRouter() *gin.Engine {
	if os.Getenv("GIN_MODE") != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	api := router.Group("/api")
	{
		api.GET("/routes", handlers.GetRoutes)
		api.POST("/search", handlers.SearchItineraries)

		api.POST("/bookings", handlers.CreateBooking)
		api.GET("/bookings/:id", handlers.GetTrip)
		api.GET("/clients/trips", handlers.GetClientTrips)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Route not found"})
	})

	return router
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "search the timetable for connections",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "csv", Usage: "schedule CSV path (defaults to SCHEDULE_CSV)"},
			&cli.StringFlag{Name: "from", Usage: "departure city"},
			&cli.StringFlag{Name: "to", Usage: "arrival city"},
			&cli.StringFlag{Name: "train-type", Usage: "train type filter"},
			&cli.StringFlag{Name: "day", Usage: "day-of-operation token, e.g. Mon"},
			&cli.IntFlag{Name: "max-stops", Value: 2, Usage: "0, 1 or 2 transfers"},
			&cli.IntFlag{Name: "min-transfer", Value: 15, Usage: "minimum transfer gap in minutes"},
			&cli.StringFlag{Name: "class", Value: "second", Usage: "fare class: first or second"},
			&cli.StringFlag{Name: "sort", Value: "duration", Usage: "sort by duration or price"},
			&cli.StringFlag{Name: "policy", Value: "", Usage: "layover policy: strict or lenient"},
			&cli.IntFlag{Name: "limit", Value: 50, Usage: "maximum rows to print"},
			&cli.StringFlag{Name: "format", Value: "table", Usage: "output format: table, json or csv"},
			&cli.StringFlag{Name: "out", Usage: "write output to file instead of stdout"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()

			path := c.String("csv")
			if path == "" {
				path = cfg.SchedulePath
			}
			idx, err := loadTimetable(path)
			if err != nil {
				return err
			}

			opts := schedule.SearchOptions{
				From:               c.String("from"),
				To:                 c.String("to"),
				TrainType:          c.String("train-type"),
				DayContains:        c.String("day"),
				MaxStops:           c.Int("max-stops"),
				MinTransferMinutes: c.Int("min-transfer"),
				TravelClass:        c.String("class"),
				SortBy:             c.String("sort"),
				Policy:             schedule.LayoverPolicy(cfg.LayoverPolicy),
			}
			if p := c.String("policy"); p != "" {
				opts.Policy = schedule.LayoverPolicy(p)
			}

			results := idx.Search(opts)
			return renderResults(results, opts.TravelClass, c.Int("limit"), c.String("format"), c.String("out"))
		},
	}
}

func bookCommand() *cli.Command {
	return &cli.Command{
		Name:  "book",
		Usage: "book a trip interactively",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "memory", Usage: "use the in-memory ledger store instead of Postgres"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()

			idx, err := loadTimetable(cfg.SchedulePath)
			if err != nil {
				return err
			}
			ledger, closeStore, err := openLedger(cfg, idx, c.Bool("memory"))
			if err != nil {
				return err
			}
			defer closeStore()

			return runWizard(idx, ledger, schedule.LayoverPolicy(cfg.LayoverPolicy), os.Stdin, os.Stdout)
		},
	}
}

func tripsCommand() *cli.Command {
	return &cli.Command{
		Name:  "trips",
		Usage: "list a client's booked trips",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "last", Required: true, Usage: "client last name"},
			&cli.StringFlag{Name: "id", Required: true, Usage: "client id number"},
			&cli.BoolFlag{Name: "memory", Usage: "use the in-memory ledger store instead of Postgres"},
		},
		Action: func(c *cli.Context) error {
			cfg := config.Load()

			idx, err := loadTimetable(cfg.SchedulePath)
			if err != nil {
				return err
			}
			ledger, closeStore, err := openLedger(cfg, idx, c.Bool("memory"))
			if err != nil {
				return err
			}
			defer closeStore()

			current, past, err := ledger.TripsForClient(c.String("last"), c.String("id"))
			if err != nil {
				return err
			}
			printTrips(os.Stdout, "Current trips", current)
			printTrips(os.Stdout, "Past trips", past)
			return nil
		},
	}
}
