package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/danisikibeye/diploma_registry/database"
	"github.com/danisikibeye/diploma_registry/models"
)

type FacultyRequest struct {
	Name string `json:"libelle_fac" validate:"required,min=2"`
}

func CreateFaculty(c *fiber.Ctx) error {
	var req FacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	faculty := models.Faculty{Name: req.Name}
	if err := database.DB.Create(&faculty).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create faculty"})
	}
	return c.Status(fiber.StatusCreated).JSON(faculty)
}

func ListFaculties(c *fiber.Ctx) error {
	var faculties []models.Faculty
	if err := database.DB.Order("libelle_fac asc").Find(&faculties).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch faculties"})
	}
	return c.JSON(faculties)
}

func UpdateFaculty(c *fiber.Ctx) error {
	var faculty models.Faculty
	if err := database.DB.First(&faculty, "id = ?", c.Params("id")).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty not found"})
	}

	var req FacultyRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	faculty.Name = req.Name
	if err := database.DB.Save(&faculty).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update faculty"})
	}
	return c.JSON(faculty)
}

func DeleteFaculty(c *fiber.Ctx) error {
	result := database.DB.Delete(&models.Faculty{}, "id = ?", c.Params("id"))
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete faculty"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Faculty not found"})
	}
	return c.JSON(fiber.Map{"message": "Faculty deleted"})
}
