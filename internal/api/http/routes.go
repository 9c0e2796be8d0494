package httpapi

import (
	"encoding/json"
	"errors"
	"net/url"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/gsm-forecast/internal/dispatch"
	"github.com/i474232898/gsm-forecast/internal/weather"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, d *dispatch.Dispatcher) {
	v1 := app.Group("/api/v1")

	v1.Get("/tools", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"tools": dispatch.Tools()})
	})

	v1.Post("/tools/:name", func(c *fiber.Ctx) error {
		name := c.Params("name")
		if _, ok := dispatch.ParseOperation(name); !ok {
			return fiber.NewError(fiber.StatusNotFound, "unknown tool '"+name+"'")
		}

		body := c.Body()
		if len(body) > 0 && !json.Valid(body) {
			return fiber.NewError(fiber.StatusBadRequest, "request body must be valid JSON")
		}

		// Tool calls always succeed at the HTTP level; failures are flagged in the payload.
		resp := d.Call(c.UserContext(), name, json.RawMessage(body))
		return c.JSON(resp)
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		q, err := parseForecastQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		args, err := json.Marshal(q)
		if err != nil {
			return err
		}
		return sendForecast(c, d.Call(c.UserContext(), string(dispatch.OpForecastByCoordinate), args), q.Format)
	})

	v1.Get("/forecast/city/:city", func(c *fiber.Ctx) error {
		city, err := url.PathUnescape(c.Params("city"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid city name encoding")
		}

		q := cityQuery{City: city, Format: c.Query("format")}
		if raw := c.Query("hours"); raw != "" {
			hours, err := strconv.Atoi(raw)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "hours must be an integer")
			}
			q.Hours = &hours
		}

		args, err := json.Marshal(q)
		if err != nil {
			return err
		}
		return sendForecast(c, d.Call(c.UserContext(), string(dispatch.OpForecastByCity), args), q.Format)
	})

	v1.Get("/cities", func(c *fiber.Ctx) error {
		names := d.Resolver().Names()
		return c.JSON(fiber.Map{
			"count":  len(names),
			"cities": names,
		})
	})

	v1.Get("/cities/search", func(c *fiber.Ctx) error {
		var q searchQuery
		q.Query = c.Query("q")
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "query parameter q is required")
		}

		matches := d.Resolver().Search(q.Query)
		return c.JSON(fiber.Map{
			"query":  q.Query,
			"count":  len(matches),
			"cities": matches,
		})
	})
}

// forecastQuery holds the query parameters of the coordinate endpoint.
// Range checks are left to the dispatcher.
type forecastQuery struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Hours     *int    `json:"hours,omitempty"`
	Format    string  `json:"format,omitempty" validate:"omitempty,oneof=text json"`
}

type cityQuery struct {
	City   string `json:"city"`
	Hours  *int   `json:"hours,omitempty"`
	Format string `json:"format,omitempty"`
}

type searchQuery struct {
	Query string `validate:"required"`
}

func parseForecastQuery(c *fiber.Ctx) (forecastQuery, error) {
	var q forecastQuery

	lat, lng := c.Query("lat"), c.Query("lng")
	if lat == "" || lng == "" {
		return q, errors.New("lat and lng query parameters are required")
	}

	var err error
	if q.Latitude, err = strconv.ParseFloat(lat, 64); err != nil {
		return q, errors.New("lat must be a number")
	}
	if q.Longitude, err = strconv.ParseFloat(lng, 64); err != nil {
		return q, errors.New("lng must be a number")
	}
	if raw := c.Query("hours"); raw != "" {
		hours, err := strconv.Atoi(raw)
		if err != nil {
			return q, errors.New("hours must be an integer")
		}
		q.Hours = &hours
	}
	q.Format = c.Query("format")

	if err := validate.Struct(q); err != nil {
		return q, errors.New("format must be text or json")
	}
	return q, nil
}

// sendForecast writes a dispatch response, mapping its kind to a status code.
func sendForecast(c *fiber.Ctx, resp dispatch.Response, format string) error {
	if resp.IsError || resp.Kind == weather.KindNotFound {
		return fiber.NewError(statusFor(resp.Kind), resp.Text())
	}

	if dispatch.Format(format) == dispatch.JSONFormat {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	} else {
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	}
	return c.SendString(resp.Text())
}

func statusFor(kind weather.ErrorKind) int {
	switch kind {
	case weather.KindInvalidArgument:
		return fiber.StatusBadRequest
	case weather.KindNotFound:
		return fiber.StatusNotFound
	case weather.KindTransport, weather.KindUpstream, weather.KindMalformedResponse, weather.KindMalformedRecord:
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
