package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/handlers"
	"github.com/danisikibeye/diploma_registry/middleware"
)

// UniversityRoutes covers the academic registry: faculties, departments,
// promotions, students and signing officials. Staff only.
func UniversityRoutes(app *fiber.App) {
	api := app.Group("/api/v1", middleware.Protected(), middleware.StaffRequired())

	faculties := api.Group("/faculties")
	faculties.Post("", handlers.CreateFaculty)
	faculties.Get("", handlers.ListFaculties)
	faculties.Put("/:id", handlers.UpdateFaculty)
	faculties.Delete("/:id", handlers.DeleteFaculty)

	departments := api.Group("/departments")
	departments.Post("", handlers.CreateDepartment)
	departments.Get("", handlers.ListDepartments)
	departments.Put("/:id", handlers.UpdateDepartment)
	departments.Delete("/:id", handlers.DeleteDepartment)

	promotions := api.Group("/promotions")
	promotions.Post("", handlers.CreatePromotion)
	promotions.Get("", handlers.ListPromotions)
	promotions.Put("/:id", handlers.UpdatePromotion)
	promotions.Delete("/:id", handlers.DeletePromotion)

	students := api.Group("/students")
	students.Post("", handlers.CreateStudent)
	students.Get("", handlers.ListStudents)
	students.Get("/:id", handlers.GetStudent)
	students.Put("/:id", handlers.UpdateStudent)
	students.Delete("/:id", handlers.DeleteStudent)

	signers := api.Group("/signers")
	signers.Post("", handlers.CreateSigner)
	signers.Get("", handlers.ListSigners)
	signers.Put("/:id", handlers.UpdateSigner)
	signers.Delete("/:id", handlers.DeleteSigner)
}
