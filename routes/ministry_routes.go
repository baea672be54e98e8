package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/handlers"
	"github.com/danisikibeye/diploma_registry/middleware"
)

func MinistryRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected(), middleware.MinistryRequired())

	ministry := api.Group("/ministry")
	ministry.Get("/diplomas/pending", handlers.ListPendingDiplomas)
	ministry.Post("/diplomas/:id/authenticate", handlers.AuthenticateDiploma)
}
