package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/domain"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/metrics"
	"github.com/ANIKETSHETTY47/carbon-emissions-dashboard/internal/service"
)

type companyResponse struct {
	Company domain.Company         `json:"company"`
	Metrics metrics.CompanyMetrics `json:"metrics"`
}

func Register(app *fiber.App, svcs *service.Services) {
	app.Get("/health", func(c *fiber.Ctx) error { return c.SendString("ok") })

	g := app.Group("/")
	g.Get("countries", func(c *fiber.Ctx) error {
		items, err := svcs.Access.FetchCountries(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Get("companies", func(c *fiber.Ctx) error {
		items, err := svcs.Access.FetchCompanies(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Get("companies/:id", func(c *fiber.Ctx) error {
		company, m, err := svcs.Metrics.Company(c.UserContext(), c.Params("id"))
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(companyResponse{Company: company, Metrics: m})
	})

	g.Get("posts", func(c *fiber.Ctx) error {
		items, err := svcs.Access.FetchPosts(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(items)
	})
	g.Post("posts", func(c *fiber.Ctx) error {
		var p domain.Post
		if err := c.BodyParser(&p); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		// the ID is always assigned by the access layer
		p.ID = ""
		saved, err := svcs.Access.CreateOrUpdatePost(c.UserContext(), p)
		if err != nil {
			return fail(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(saved)
	})
	g.Put("posts/:id", func(c *fiber.Ctx) error {
		var p domain.Post
		if err := c.BodyParser(&p); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		p.ID = c.Params("id")
		saved, err := svcs.Access.CreateOrUpdatePost(c.UserContext(), p)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(saved)
	})

	g.Get("metrics", func(c *fiber.Ctx) error {
		snap, err := svcs.Metrics.Snapshot(c.UserContext())
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(snap)
	})
	g.Get("metrics/trees", func(c *fiber.Ctx) error {
		tons, err := metrics.ParseTons(c.Query("tons", "0"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.JSON(metrics.OffsetFor(tons))
	})
	g.Post("calculator", func(c *fiber.Ctx) error {
		var in metrics.CalculatorInput
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
		}
		res, err := svcs.Metrics.Calculate(c.UserContext(), in)
		if err != nil {
			return fail(c, err)
		}
		return c.JSON(res)
	})
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("path", c.Path()).Int("status", status).Msg("request failed")
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalid),
		errors.Is(err, metrics.ErrUnknownCountry),
		errors.Is(err, metrics.ErrInvalidTimeframe):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrSimulatedFailure):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}
