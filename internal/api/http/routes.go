package httpapi

import (
	"errors"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"saudi-weather-api/internal/cities"
	"saudi-weather-api/internal/geo"
	"saudi-weather-api/internal/weather"
	"saudi-weather-api/internal/weather/providers"
)

var validate = validator.New()

var startTime = time.Now()

// ErrorHandler renders every handler error as {"error": <code>}. Codes are
// stable machine-readable strings; raw upstream details never reach clients.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "saudi-weather-api",
			"uptime":  int(time.Since(startTime).Seconds()),
		})
	})

	api := app.Group("/api")

	api.Get("/weather", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return err
		}

		resp, err := service.GetWeather(c.Context(), q.Lat, q.Lon)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(resp)
	})

	api.Get("/search", func(c *fiber.Ctx) error {
		locations, err := service.SearchLocations(c.Query("q"))
		if err != nil {
			if errors.Is(err, cities.ErrQueryTooShort) || errors.Is(err, cities.ErrQueryTooLong) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "search_failed")
		}
		return c.JSON(locations)
	})

	api.Get("/reverse-geocode", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return err
		}

		// Geocode failures degrade inside the service; only validation can fail.
		place, err := service.ReverseGeocode(c.Context(), q.Lat, q.Lon)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(place)
	})

	api.Get("/prayertimes", func(c *fiber.Ctx) error {
		q, err := parseCoordQuery(c)
		if err != nil {
			return err
		}

		timings, err := service.PrayerTimes(c.Context(), q.Lat, q.Lon)
		if err != nil {
			return mapServiceError(c, err)
		}
		return c.JSON(timings)
	})

	// JSON 404 for unknown API routes.
	api.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "not_found")
	})
}

// coordQuery holds the raw lat/lon query parameters. Range validation
// belongs to the service; the HTTP layer only checks presence.
type coordQuery struct {
	Lat string `validate:"required"`
	Lon string `validate:"required"`
}

func parseCoordQuery(c *fiber.Ctx) (coordQuery, error) {
	q := coordQuery{
		Lat: c.Query("lat"),
		Lon: c.Query("lon"),
	}
	if err := validate.Struct(q); err != nil {
		return q, fiber.NewError(fiber.StatusBadRequest, "missing_coords")
	}
	return q, nil
}

// mapServiceError translates service errors to HTTP statuses. Validation and
// boundary errors surface their stable codes; upstream failures are logged
// with their detail and surfaced generically.
func mapServiceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, geo.ErrNotANumber),
		errors.Is(err, geo.ErrLatitudeOutOfRange),
		errors.Is(err, geo.ErrLongitudeOutOfRange),
		errors.Is(err, geo.ErrOutOfBounds):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())

	case errors.Is(err, providers.ErrUpstreamTimeout):
		log.Printf("http: %s %s: upstream timeout", c.Method(), c.Path())
		return fiber.NewError(fiber.StatusGatewayTimeout, "upstream_timeout")

	default:
		var ue *providers.UpstreamError
		if errors.As(err, &ue) {
			log.Printf("http: %s %s: upstream status=%d body=%q", c.Method(), c.Path(), ue.Status, ue.Body)
		} else {
			log.Printf("http: %s %s: %v", c.Method(), c.Path(), err)
		}
		return fiber.NewError(fiber.StatusBadGateway, "upstream_error")
	}
}
