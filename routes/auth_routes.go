package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/handlers"
	"github.com/danisikibeye/diploma_registry/middleware"
)

func AuthRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	auth := api.Group("/auth")
	auth.Post("/register", handlers.RegisterUser)
	auth.Post("/login", handlers.LoginUser)
	auth.Get("/profile", middleware.Protected(), handlers.GetProfile)

	users := api.Group("/users", middleware.Protected(), middleware.AdminRequired())
	users.Patch("/:id/role", handlers.UpdateUserRole)
}
