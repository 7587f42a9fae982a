package tracking

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

func RegisterRoutes(r fiber.Router, svc *Service, session fiber.Handler) {
	r.Get("/geotracking", session, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"page":     "geotracking",
			"username": c.Locals("username"),
		})
	})

	r.Post("/tracking/start", session, func(c *fiber.Ctx) error {
		if err := svc.StartPass(c.Context(), sessionID(c)); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusOK)
	})

	r.Post("/api/locations", session, func(c *fiber.Ctx) error {
		var req ReportRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		userID, _ := c.Locals("user_id").(string)
		_, err := svc.Report(c.Context(), userID, sessionID(c), req)
		if errors.Is(err, ErrInvalidCoordinates) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.SendStatus(fiber.StatusOK)
	})

	r.Post("/end-tracking", session, func(c *fiber.Ctx) error {
		var req CountersRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid payload")
		}
		counters, err := ParseCounters(req)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		username, _ := c.Locals("username").(string)
		email, _ := c.Locals("email").(string)
		result, err := svc.Finalize(c.Context(), sessionID(c), username, email, counters)
		if errors.Is(err, ErrNoCompletedPass) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})

	r.Get("/results", session, func(c *fiber.Ctx) error {
		counters, err := ParseCounters(CountersRequest{
			EnterCount:  c.Query("enterCount"),
			ExitCount:   c.Query("exitCount"),
			ElapsedTime: c.Query("elapsedTime"),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		result, err := svc.Results(c.Context(), sessionID(c), counters)
		if errors.Is(err, ErrNoCompletedPass) {
			return fiber.NewError(fiber.StatusConflict, err.Error())
		}
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, err.Error())
		}
		return c.JSON(result)
	})
}

func sessionID(c *fiber.Ctx) string {
	id, _ := c.Locals("session_id").(string)
	return id
}
