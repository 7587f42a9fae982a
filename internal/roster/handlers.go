package roster

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(r fiber.Router, svc *Service, middleware ...fiber.Handler) {
	handlers := append(middleware, func(c *fiber.Ctx) error {
		page := c.QueryInt("page", 1)
		users, pages, err := svc.List(c.Context(), page)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Error fetching users. Please try again.")
		}
		if page < 1 {
			page = 1
		}
		return c.JSON(fiber.Map{
			"users":   users,
			"current": page,
			"pages":   pages,
		})
	})
	r.Get("/", handlers...)
}
