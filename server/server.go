package server

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cache"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"civfeed/config"
	"civfeed/feeds"
)

// ServerConfig wires the request handlers to the feed engines.
type ServerConfig struct {

	// Service configuration, used for limits and the environment mode
	Config *config.Config

	// The unified feed composer
	Composer *feeds.Composer

	// The trending ranker
	Ranker *feeds.Ranker

	// The category aggregator
	Aggregator *feeds.Aggregator

	// Store handles the single-item news fetch with its view increment
	Store feeds.Store
}

// Returns a fiber.App instance to be used as the HTTP server for the
// civfeed API
func Server(config *ServerConfig) *fiber.App {

	cfg := config.Config

	app := fiber.New(fiber.Config{
		AppName:               "civfeed",
		DisableStartupMessage: cfg.Production(),
	})

	// Middleware to track the latency of each request
	app.Use(func(c *fiber.Ctx) error {
		// start timer
		start := time.Now()

		// next routes
		err := c.Next()

		// stop timer
		stop := time.Now()

		// Diff
		log.WithFields(log.Fields{
			"method":  c.Method(),
			"route":   c.Route().Path,
			"status":  c.Response().StatusCode(),
			"latency": stop.Sub(start),
		}).Info("Request")
		return err
	})

	app.Use(requestid.New(requestid.ConfigDefault))
	app.Use(compress.New())
	app.Use(cors.New())

	// Cache the category union; the other routes are either cheap or
	// already cached by the ranker's TTL cache.
	app.Use(cache.New(cache.Config{
		Expiration: 30 * time.Second,
		Next: func(c *fiber.Ctx) bool {
			if c.Method() != fiber.MethodGet {
				return true
			}
			return c.Path() != "/api/feed/categories"
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			// Include the query parameters in the cache key
			return c.Request().URI().String()
		},
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	app.Get("/api/feed", func(c *fiber.Ctx) error {
		page := intQuery(c, "page", 1, 1, 1<<30)
		limit := intQuery(c, "limit", cfg.Feed.DefaultPageSize, 1, cfg.Feed.MaxPageSize)
		category := c.Query("category", "")
		sortBy := c.Query("sortBy", feeds.SortCreatedAt)
		sortOrder := c.Query("sortOrder", "desc")

		log.WithFields(log.Fields{
			"page":      page,
			"limit":     limit,
			"category":  category,
			"sortBy":    sortBy,
			"sortOrder": sortOrder,
		}).Info("Compose feed with parameters")

		response, err := config.Composer.Compose(c.Context(), feeds.FeedRequest{
			Page:      page,
			PageSize:  limit,
			Category:  category,
			SortField: sortBy,
			Ascending: strings.EqualFold(sortOrder, "asc"),
		})
		if err != nil {
			if errors.Is(err, feeds.ErrInvalidSortField) {
				return sendError(c, fiber.StatusBadRequest, "INVALID_SORT",
					"unknown sort field: "+sortBy, nil, cfg.Production())
			}
			return sendError(c, fiber.StatusInternalServerError, "STORE_ERROR",
				"could not compose feed", err, cfg.Production())
		}
		return c.JSON(response)
	})

	app.Get("/api/feed/trending", func(c *fiber.Ctx) error {
		limit := intQuery(c, "limit", cfg.Trending.DefaultLimit, 1, cfg.Trending.MaxLimit)
		timeframe := c.Query("timeframe", feeds.DefaultTimeframe)

		response, err := config.Ranker.Trending(c.Context(), limit, timeframe)
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, "STORE_ERROR",
				"could not compute trending items", err, cfg.Production())
		}
		return c.JSON(response)
	})

	app.Get("/api/feed/categories", func(c *fiber.Ctx) error {
		response, err := config.Aggregator.Categories(c.Context())
		if err != nil {
			return sendError(c, fiber.StatusInternalServerError, "STORE_ERROR",
				"could not aggregate categories", err, cfg.Production())
		}
		return c.JSON(response)
	})

	app.Get("/api/news/:id", func(c *fiber.Ctx) error {
		id, err := strconv.ParseInt(c.Params("id"), 10, 64)
		if err != nil {
			return sendError(c, fiber.StatusBadRequest, "INVALID_ID",
				"news id must be numeric", nil, cfg.Production())
		}

		item, err := config.Store.GetNews(c.Context(), id)
		if err != nil {
			if errors.Is(err, feeds.ErrNotFound) {
				return sendError(c, fiber.StatusNotFound, "NOT_FOUND",
					"news item not found", nil, cfg.Production())
			}
			return sendError(c, fiber.StatusInternalServerError, "STORE_ERROR",
				"could not fetch news item", err, cfg.Production())
		}

		// The one write this service owns: bump the view counter on a
		// direct single-item fetch. The increment is atomic at the store.
		if err := config.Store.IncrementNewsViews(c.Context(), id); err != nil {
			log.WithFields(log.Fields{
				"id":    id,
				"error": err,
			}).Warn("Could not increment news views")
		} else {
			item.Views++
		}

		return c.JSON(item)
	})

	return app
}

// intQuery parses a numeric query parameter, falling back to def when
// the value is missing, non-numeric or out of bounds. Bad pagination
// input never fails a request.
func intQuery(c *fiber.Ctx, name string, def, min, max int) int {
	value, err := strconv.Atoi(c.Query(name, strconv.Itoa(def)))
	if err != nil || value < min || value > max {
		return def
	}
	return value
}
