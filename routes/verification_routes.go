package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/handlers"
)

// VerificationRoutes are public. Anyone holding a diploma or its code can
// check it without an account.
func VerificationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/verify", handlers.VerifyDiploma)
}
