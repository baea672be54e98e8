package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/handlers"
	"github.com/danisikibeye/diploma_registry/middleware"
)

func DiplomaRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected(), middleware.StaffRequired())

	diplomas := api.Group("/diplomas")
	diplomas.Post("", handlers.IssueDiploma)
	diplomas.Get("", handlers.ListDiplomas)
	diplomas.Get("/:id", handlers.GetDiploma)
	diplomas.Patch("/:id", handlers.UpdateDiploma)
	diplomas.Delete("/:id", handlers.DeleteDiploma)
	diplomas.Post("/:id/email", handlers.SendDiplomaEmail)

	uploads := api.Group("/uploads")
	uploads.Get("/signature", handlers.GenerateUploadSignature)

	// The document link is readable by any authenticated account,
	// verifiers included.
	app.Get("/api/v1/diplomas/:id/link", middleware.Protected(), handlers.GetDiplomaLink)
}
