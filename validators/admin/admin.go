package adminValidator

import (
	"strings"

	"learnhub/middleware"
	"learnhub/validators"

	"github.com/gofiber/fiber/v2"
)

// UserID validates the :userid route parameter.
func UserID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Params("userid"))
		if err := validators.Var(userID, "required,uuid"); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid User ID!", nil)
		}
		c.Locals("userID", userID)
		return c.Next()
	}
}
